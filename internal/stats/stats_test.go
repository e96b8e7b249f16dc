package stats

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yusufkecer/fitness-tracker-backend/internal/domain"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func activity(t domain.ActivityType, duration int, distance *float64, calories *int) domain.Activity {
	return domain.Activity{
		UserID:         1,
		ActivityType:   t,
		Duration:       duration,
		Distance:       distance,
		CaloriesBurned: calories,
		Date:           domain.NewDate(2024, time.June, 1),
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)

	assert.Zero(t, s.TotalActivities)
	assert.Zero(t, s.TotalDuration)
	assert.Zero(t, s.TotalDistance)
	assert.Zero(t, s.TotalCalories)
	assert.Zero(t, s.AverageDuration)
	assert.Zero(t, s.AverageDistance)
	assert.Zero(t, s.AverageCalories)
	assert.Nil(t, s.MostCommonActivity)

	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"total_activities": 0, "total_duration": 0, "total_distance": 0, "total_calories": 0,
		"average_duration": 0, "average_distance": 0, "average_calories": 0,
		"most_common_activity": null, "activity_breakdown": {}
	}`, string(b))
}

func TestSummarizeTotals(t *testing.T) {
	s := Summarize([]domain.Activity{
		activity(domain.ActivityRunning, 30, floatPtr(5), intPtr(300)),
		activity(domain.ActivityYoga, 60, nil, nil),
	})

	assert.Equal(t, 2, s.TotalActivities)
	assert.Equal(t, 90, s.TotalDuration)
	assert.Equal(t, 5.0, s.TotalDistance)
	assert.Equal(t, 300, s.TotalCalories)
	assert.Equal(t, 45.0, s.AverageDuration)
	assert.Equal(t, 5.0, s.AverageDistance)
	assert.Equal(t, 300.0, s.AverageCalories)
	assert.Equal(t, map[domain.ActivityType]int{domain.ActivityRunning: 1, domain.ActivityYoga: 1}, s.ActivityBreakdown)
}

func TestSummarizeRounding(t *testing.T) {
	s := Summarize([]domain.Activity{
		activity(domain.ActivityCycling, 10, floatPtr(1.11), nil),
		activity(domain.ActivityCycling, 10, floatPtr(2.22), nil),
		activity(domain.ActivityCycling, 11, floatPtr(3.33), nil),
	})

	assert.Equal(t, 10.33, s.AverageDuration)
	assert.Equal(t, 6.66, s.TotalDistance)
	assert.Equal(t, 2.22, s.AverageDistance)
}

func TestMostCommonActivity(t *testing.T) {
	s := Summarize([]domain.Activity{
		activity(domain.ActivitySwimming, 20, nil, nil),
		activity(domain.ActivityCycling, 20, nil, nil),
		activity(domain.ActivitySwimming, 20, nil, nil),
	})
	require.NotNil(t, s.MostCommonActivity)
	assert.Equal(t, domain.ActivitySwimming, *s.MostCommonActivity)
}

func TestMostCommonActivityTieBreak(t *testing.T) {
	for i := 0; i < 20; i++ {
		s := Summarize([]domain.Activity{
			activity(domain.ActivityYoga, 20, nil, nil),
			activity(domain.ActivityBoxing, 20, nil, nil),
			activity(domain.ActivityRunning, 20, nil, nil),
		})
		require.NotNil(t, s.MostCommonActivity)
		assert.Equal(t, domain.ActivityBoxing, *s.MostCommonActivity)
	}
}

func TestByType(t *testing.T) {
	got := ByType([]domain.Activity{
		activity(domain.ActivityYoga, 60, nil, intPtr(200)),
		activity(domain.ActivityRunning, 30, floatPtr(5), intPtr(300)),
		activity(domain.ActivityRunning, 45, floatPtr(7.5), nil),
		activity(domain.ActivityBoxing, 40, nil, nil),
	})

	require.Len(t, got, 3)
	assert.Equal(t, domain.ActivityRunning, got[0].ActivityType)
	assert.Equal(t, 2, got[0].Count)
	assert.Equal(t, 75, got[0].TotalDuration)
	assert.Equal(t, 12.5, got[0].TotalDistance)
	assert.Equal(t, 300, got[0].TotalCalories)
	assert.Equal(t, 37.5, got[0].AverageDuration)
	assert.Equal(t, 6.25, got[0].AverageDistance)
	assert.Equal(t, 300.0, got[0].AverageCalories)

	assert.Equal(t, domain.ActivityBoxing, got[1].ActivityType)
	assert.Equal(t, domain.ActivityYoga, got[2].ActivityType)
	assert.Zero(t, got[1].AverageDistance)
}

func TestByTypeEmpty(t *testing.T) {
	got := ByType(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestPeriodFrom(t *testing.T) {
	today := domain.NewDate(2024, time.March, 1)

	from, ok := PeriodFrom(PeriodWeek, today)
	require.True(t, ok)
	assert.Equal(t, "2024-02-23", from.String())

	from, ok = PeriodFrom(PeriodMonth, today)
	require.True(t, ok)
	assert.Equal(t, "2024-01-31", from.String())

	from, ok = PeriodFrom(PeriodYear, today)
	require.True(t, ok)
	assert.Equal(t, "2023-03-02", from.String())

	_, ok = PeriodFrom("fortnight", today)
	assert.False(t, ok)
}

func TestPeriodComposesWithExplicitFloor(t *testing.T) {
	today := domain.NewDate(2024, time.June, 30)
	periodFrom, _ := PeriodFrom(PeriodWeek, today)
	explicit := domain.NewDate(2024, time.June, 1)

	filter := domain.ActivityFilter{UserID: 1, PeriodFrom: periodFrom, DateFrom: &explicit}
	old := activity(domain.ActivityRunning, 30, nil, nil)
	old.Date = domain.NewDate(2024, time.June, 10)
	recent := activity(domain.ActivityRunning, 30, nil, nil)
	recent.Date = domain.NewDate(2024, time.June, 28)

	assert.False(t, filter.Matches(&old))
	assert.True(t, filter.Matches(&recent))
}
