package handler

import (
	"time"

	"github.com/yusufkecer/fitness-tracker-backend/internal/domain"
)

type ActivityView struct {
	ID                  int64               `json:"id"`
	User                string              `json:"user"`
	UserID              int64               `json:"user_id"`
	ActivityType        domain.ActivityType `json:"activity_type"`
	ActivityTypeDisplay string              `json:"activity_type_display"`
	Title               string              `json:"title"`
	Description         string              `json:"description"`
	Duration            int                 `json:"duration"`
	Distance            *float64            `json:"distance"`
	CaloriesBurned      *int                `json:"calories_burned"`
	Intensity           domain.Intensity    `json:"intensity"`
	IntensityDisplay    string              `json:"intensity_display"`
	Date                domain.Date         `json:"date"`
	StartTime           *string             `json:"start_time"`
	AverageHeartRate    *int                `json:"average_heart_rate"`
	MaxHeartRate        *int                `json:"max_heart_rate"`
	ElevationGain       *float64            `json:"elevation_gain"`
	Location            string              `json:"location"`
	Pace                *float64            `json:"pace"`
	Speed               *float64            `json:"speed"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
}

func newActivityView(a *domain.Activity) ActivityView {
	return ActivityView{
		ID:                  a.ID,
		User:                a.Username,
		UserID:              a.UserID,
		ActivityType:        a.ActivityType,
		ActivityTypeDisplay: a.ActivityType.Display(),
		Title:               a.Title,
		Description:         a.Description,
		Duration:            a.Duration,
		Distance:            a.Distance,
		CaloriesBurned:      a.CaloriesBurned,
		Intensity:           a.Intensity,
		IntensityDisplay:    a.Intensity.Display(),
		Date:                a.Date,
		StartTime:           a.StartTime,
		AverageHeartRate:    a.AverageHeartRate,
		MaxHeartRate:        a.MaxHeartRate,
		ElevationGain:       a.ElevationGain,
		Location:            a.Location,
		Pace:                a.Pace(),
		Speed:               a.Speed(),
		CreatedAt:           a.CreatedAt,
		UpdatedAt:           a.UpdatedAt,
	}
}

func newActivityViews(activities []domain.Activity) []ActivityView {
	out := make([]ActivityView, len(activities))
	for i := range activities {
		out[i] = newActivityView(&activities[i])
	}
	return out
}

type ActivityPage struct {
	Count    int            `json:"count"`
	Next     *string        `json:"next"`
	Previous *string        `json:"previous"`
	Results  []ActivityView `json:"results"`
}

type ProfileView struct {
	DateOfBirth    *domain.Date   `json:"date_of_birth"`
	Gender         *domain.Gender `json:"gender"`
	GenderDisplay  *string        `json:"gender_display"`
	Height         *float64       `json:"height"`
	Weight         *float64       `json:"weight"`
	Bio            string         `json:"bio"`
	ProfilePicture *string        `json:"profile_picture"`
	Age            *int           `json:"age"`
	BMI            *float64       `json:"bmi"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

type UserView struct {
	ID         int64        `json:"id"`
	Username   string       `json:"username"`
	Email      string       `json:"email"`
	FirstName  string       `json:"first_name"`
	LastName   string       `json:"last_name"`
	Profile    *ProfileView `json:"profile"`
	DateJoined time.Time    `json:"date_joined"`
}

func newUserView(u *domain.User, today domain.Date) UserView {
	v := UserView{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		DateJoined: u.DateJoined,
	}
	if p := u.Profile; p != nil {
		pv := &ProfileView{
			DateOfBirth:    p.DateOfBirth,
			Gender:         p.Gender,
			Height:         p.Height,
			Weight:         p.Weight,
			Bio:            p.Bio,
			ProfilePicture: p.ProfilePicture,
			Age:            p.Age(today),
			BMI:            p.BMI(),
			CreatedAt:      p.CreatedAt,
			UpdatedAt:      p.UpdatedAt,
		}
		if p.Gender != nil {
			label := p.Gender.Display()
			pv.GenderDisplay = &label
		}
		v.Profile = pv
	}
	return v
}
