// Package stats computes read-only summaries over a set of activities.
// Everything here is a pure function of its input so it can run on rows
// loaded by any store.
package stats

import (
	"sort"

	"github.com/yusufkecer/fitness-tracker-backend/internal/domain"
)

type Summary struct {
	TotalActivities    int                         `json:"total_activities"`
	TotalDuration      int                         `json:"total_duration"`
	TotalDistance      float64                     `json:"total_distance"`
	TotalCalories      int                         `json:"total_calories"`
	AverageDuration    float64                     `json:"average_duration"`
	AverageDistance    float64                     `json:"average_distance"`
	AverageCalories    float64                     `json:"average_calories"`
	MostCommonActivity *domain.ActivityType        `json:"most_common_activity"`
	ActivityBreakdown  map[domain.ActivityType]int `json:"activity_breakdown"`
}

type TypeStat struct {
	ActivityType    domain.ActivityType `json:"activity_type"`
	Count           int                 `json:"count"`
	TotalDuration   int                 `json:"total_duration"`
	TotalDistance   float64             `json:"total_distance"`
	TotalCalories   int                 `json:"total_calories"`
	AverageDuration float64             `json:"average_duration"`
	AverageDistance float64             `json:"average_distance"`
	AverageCalories float64             `json:"average_calories"`
}

// accumulator mirrors SQL SUM/AVG: missing distance or calories add nothing
// to the sum and are left out of the average's denominator.
type accumulator struct {
	count         int
	duration      int
	distance      float64
	distanceCount int
	calories      int
	caloriesCount int
}

func (acc *accumulator) add(a *domain.Activity) {
	acc.count++
	acc.duration += a.Duration
	if a.Distance != nil {
		acc.distance += *a.Distance
		acc.distanceCount++
	}
	if a.CaloriesBurned != nil {
		acc.calories += *a.CaloriesBurned
		acc.caloriesCount++
	}
}

func average(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return domain.Round2(sum / float64(n))
}

func Summarize(activities []domain.Activity) Summary {
	var acc accumulator
	breakdown := make(map[domain.ActivityType]int)
	for i := range activities {
		acc.add(&activities[i])
		breakdown[activities[i].ActivityType]++
	}

	return Summary{
		TotalActivities:    acc.count,
		TotalDuration:      acc.duration,
		TotalDistance:      domain.Round2(acc.distance),
		TotalCalories:      acc.calories,
		AverageDuration:    average(float64(acc.duration), acc.count),
		AverageDistance:    average(acc.distance, acc.distanceCount),
		AverageCalories:    average(float64(acc.calories), acc.caloriesCount),
		MostCommonActivity: mostCommon(breakdown),
		ActivityBreakdown:  breakdown,
	}
}

// mostCommon picks the highest count; equal counts go to the lexically
// smallest type code so the answer does not depend on map order.
func mostCommon(breakdown map[domain.ActivityType]int) *domain.ActivityType {
	var (
		best  domain.ActivityType
		count int
	)
	for t, n := range breakdown {
		if n > count || (n == count && t < best) {
			best, count = t, n
		}
	}
	if count == 0 {
		return nil
	}
	return &best
}

// ByType groups activities per type, ordered by count descending and then
// by type code.
func ByType(activities []domain.Activity) []TypeStat {
	groups := make(map[domain.ActivityType]*accumulator)
	for i := range activities {
		t := activities[i].ActivityType
		acc, ok := groups[t]
		if !ok {
			acc = &accumulator{}
			groups[t] = acc
		}
		acc.add(&activities[i])
	}

	out := make([]TypeStat, 0, len(groups))
	for t, acc := range groups {
		out = append(out, TypeStat{
			ActivityType:    t,
			Count:           acc.count,
			TotalDuration:   acc.duration,
			TotalDistance:   domain.Round2(acc.distance),
			TotalCalories:   acc.calories,
			AverageDuration: average(float64(acc.duration), acc.count),
			AverageDistance: average(acc.distance, acc.distanceCount),
			AverageCalories: average(float64(acc.calories), acc.caloriesCount),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].ActivityType < out[j].ActivityType
	})
	return out
}

const (
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodYear  = "year"
)

var periodDays = map[string]int{
	PeriodWeek:  7,
	PeriodMonth: 30,
	PeriodYear:  365,
}

// PeriodFrom resolves a named period to its first day. Unknown names
// resolve to nothing and are ignored by callers.
func PeriodFrom(period string, today domain.Date) (*domain.Date, bool) {
	days, ok := periodDays[period]
	if !ok {
		return nil, false
	}
	from := today.AddDays(-days)
	return &from, true
}
