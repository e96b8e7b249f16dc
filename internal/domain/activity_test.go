package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestActivityPaceAndSpeed(t *testing.T) {
	a := Activity{Duration: 30, Distance: floatPtr(5.0)}

	require.NotNil(t, a.Pace())
	require.NotNil(t, a.Speed())
	assert.Equal(t, 6.0, *a.Pace())
	assert.Equal(t, 10.0, *a.Speed())
}

func TestActivityPaceRounding(t *testing.T) {
	a := Activity{Duration: 47, Distance: floatPtr(7.3)}

	assert.Equal(t, 6.44, *a.Pace())
	assert.Equal(t, 9.32, *a.Speed())
}

func TestActivityPaceWithoutDistance(t *testing.T) {
	a := Activity{Duration: 30}
	assert.Nil(t, a.Pace())
	assert.Nil(t, a.Speed())

	a.Distance = floatPtr(0)
	assert.Nil(t, a.Pace())
	assert.Nil(t, a.Speed())
}

func TestActivityEnsureTitle(t *testing.T) {
	a := Activity{ActivityType: ActivityCycling, Date: NewDate(2024, time.March, 9)}
	a.EnsureTitle()
	assert.Equal(t, "Cycling - 2024-03-09", a.Title)

	a.Title = "Morning ride"
	a.EnsureTitle()
	assert.Equal(t, "Morning ride", a.Title)
}

func TestActivityInputApplyTo(t *testing.T) {
	in := NewActivityInput(NewDate(2024, time.May, 1))
	in.ActivityType = string(ActivityHIIT)
	in.Duration = intPtr(25)
	in.Distance = floatPtr(3.456)
	start := "07:30"
	in.StartTime = &start

	var a Activity
	require.NoError(t, in.ApplyTo(&a))

	assert.Equal(t, ActivityHIIT, a.ActivityType)
	assert.Equal(t, IntensityModerate, a.Intensity)
	assert.Equal(t, "2024-05-01", a.Date.String())
	assert.Equal(t, 3.46, *a.Distance)
	assert.Equal(t, "07:30:00", *a.StartTime)
	assert.Equal(t, "HIIT - 2024-05-01", a.Title)
}

func TestInputFromActivityRoundTrip(t *testing.T) {
	orig := Activity{
		ActivityType: ActivityRowing,
		Title:        "Erg",
		Duration:     40,
		Intensity:    IntensityHigh,
		Date:         NewDate(2024, time.January, 2),
		MaxHeartRate: intPtr(180),
	}

	var copied Activity
	require.NoError(t, InputFromActivity(&orig).ApplyTo(&copied))
	assert.Equal(t, orig.ActivityType, copied.ActivityType)
	assert.Equal(t, orig.Title, copied.Title)
	assert.Equal(t, orig.Duration, copied.Duration)
	assert.Equal(t, orig.Intensity, copied.Intensity)
	assert.True(t, orig.Date.Equal(copied.Date))
	assert.Equal(t, 180, *copied.MaxHeartRate)
}

func TestChoiceLabels(t *testing.T) {
	assert.Equal(t, "CrossFit", ActivityCrossFit.Display())
	assert.Equal(t, "Moderate", IntensityModerate.Display())
	assert.Equal(t, "Prefer not to say", GenderPreferNotToSay.Display())
	assert.False(t, ActivityType("SKATING").Valid())
	assert.Len(t, ActivityTypes(), 18)
}
