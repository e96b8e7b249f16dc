package domain

import (
	"math"
	"strings"
	"time"
)

type Activity struct {
	ID               int64
	UserID           int64
	Username         string
	ActivityType     ActivityType
	Title            string
	Description      string
	Duration         int
	Distance         *float64
	CaloriesBurned   *int
	Intensity        Intensity
	Date             Date
	StartTime        *string
	AverageHeartRate *int
	MaxHeartRate     *int
	ElevationGain    *float64
	Location         string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Pace is minutes per kilometer; nil unless a positive distance is known.
func (a *Activity) Pace() *float64 {
	if a.Distance == nil || *a.Distance <= 0 {
		return nil
	}
	pace := Round2(float64(a.Duration) / *a.Distance)
	return &pace
}

// Speed is kilometers per hour; nil unless a positive distance is known.
func (a *Activity) Speed() *float64 {
	if a.Distance == nil || *a.Distance <= 0 || a.Duration <= 0 {
		return nil
	}
	hours := float64(a.Duration) / 60
	speed := Round2(*a.Distance / hours)
	return &speed
}

func (a *Activity) DefaultTitle() string {
	return a.ActivityType.Display() + " - " + a.Date.String()
}

// EnsureTitle fills a blank title with the derived default.
func (a *Activity) EnsureTitle() {
	if strings.TrimSpace(a.Title) == "" {
		a.Title = a.DefaultTitle()
	}
}

// ActivityInput is the writable part of an activity as sent by clients.
// Date and StartTime stay strings so format problems surface as field errors.
type ActivityInput struct {
	ActivityType     string   `json:"activity_type" validate:"required,activity_type"`
	Title            string   `json:"title" validate:"max=200"`
	Description      string   `json:"description"`
	Duration         *int     `json:"duration" validate:"required,min=1"`
	Distance         *float64 `json:"distance" validate:"omitempty,gte=0,lte=9999.99"`
	CaloriesBurned   *int     `json:"calories_burned" validate:"omitempty,gte=0"`
	Intensity        string   `json:"intensity" validate:"required,intensity"`
	Date             string   `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime        *string  `json:"start_time" validate:"omitempty,clock"`
	AverageHeartRate *int     `json:"average_heart_rate" validate:"omitempty,gte=30,lte=220"`
	MaxHeartRate     *int     `json:"max_heart_rate" validate:"omitempty,gte=30,lte=220"`
	ElevationGain    *float64 `json:"elevation_gain" validate:"omitempty,gte=0,lte=9999.99"`
	Location         string   `json:"location" validate:"max=200"`
}

// NewActivityInput returns the defaults applied before a create or full
// update body is decoded on top.
func NewActivityInput(today Date) ActivityInput {
	return ActivityInput{
		Intensity: string(IntensityModerate),
		Date:      today.String(),
	}
}

// InputFromActivity seeds a partial update with the stored values.
func InputFromActivity(a *Activity) ActivityInput {
	duration := a.Duration
	return ActivityInput{
		ActivityType:     string(a.ActivityType),
		Title:            a.Title,
		Description:      a.Description,
		Duration:         &duration,
		Distance:         a.Distance,
		CaloriesBurned:   a.CaloriesBurned,
		Intensity:        string(a.Intensity),
		Date:             a.Date.String(),
		StartTime:        a.StartTime,
		AverageHeartRate: a.AverageHeartRate,
		MaxHeartRate:     a.MaxHeartRate,
		ElevationGain:    a.ElevationGain,
		Location:         a.Location,
	}
}

// ApplyTo copies an already validated input onto the activity.
func (in ActivityInput) ApplyTo(a *Activity) error {
	date, err := ParseDate(in.Date)
	if err != nil {
		return err
	}
	a.ActivityType = ActivityType(in.ActivityType)
	a.Title = strings.TrimSpace(in.Title)
	a.Description = in.Description
	if in.Duration != nil {
		a.Duration = *in.Duration
	}
	a.Distance = round2Ptr(in.Distance)
	a.CaloriesBurned = in.CaloriesBurned
	a.Intensity = Intensity(in.Intensity)
	a.Date = date
	a.StartTime = normalizeClock(in.StartTime)
	a.AverageHeartRate = in.AverageHeartRate
	a.MaxHeartRate = in.MaxHeartRate
	a.ElevationGain = round2Ptr(in.ElevationGain)
	a.Location = strings.TrimSpace(in.Location)
	a.EnsureTitle()
	return nil
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round2Ptr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := Round2(*v)
	return &r
}

// ParseClock accepts HH:MM or HH:MM:SS.
func ParseClock(s string) (time.Time, bool) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func normalizeClock(s *string) *string {
	if s == nil {
		return nil
	}
	t, ok := ParseClock(*s)
	if !ok {
		return s
	}
	out := t.Format("15:04:05")
	return &out
}
