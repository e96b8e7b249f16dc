package repository

import (
	"fmt"
	"strings"

	"github.com/yusufkecer/fitness-tracker-backend/internal/domain"
)

const activityColumns = `a.id, a.user_id, u.username, a.activity_type, a.title, a.description,
	a.duration, a.distance, a.calories_burned, a.intensity, a.date, a.start_time,
	a.average_heart_rate, a.max_heart_rate, a.elevation_gain, a.location,
	a.created_at, a.updated_at`

const activityFrom = ` FROM activities a JOIN users u ON u.id = a.user_id`

// activityQuery renders an ActivityFilter as a WHERE clause with positional
// arguments. The user scope is always the first condition.
type activityQuery struct {
	conds []string
	args  []interface{}
}

func newActivityQuery(f domain.ActivityFilter) *activityQuery {
	q := &activityQuery{}
	q.add("a.user_id = ?", f.UserID)

	if len(f.Types) > 0 {
		args := make([]interface{}, len(f.Types))
		for i, t := range f.Types {
			args[i] = string(t)
		}
		q.add("a.activity_type IN ("+placeholders(len(args))+")", args...)
	}
	if len(f.Intensities) > 0 {
		args := make([]interface{}, len(f.Intensities))
		for i, in := range f.Intensities {
			args[i] = string(in)
		}
		q.add("a.intensity IN ("+placeholders(len(args))+")", args...)
	}
	if f.Date != nil {
		q.add("a.date = ?", *f.Date)
	}
	if f.Year != nil {
		q.add("SUBSTR(a.date, 1, 4) = ?", fmt.Sprintf("%04d", *f.Year))
	}
	if f.Month != nil {
		q.add("SUBSTR(a.date, 6, 2) = ?", fmt.Sprintf("%02d", *f.Month))
	}
	if f.PeriodFrom != nil {
		q.add("a.date >= ?", *f.PeriodFrom)
	}
	if f.DateFrom != nil {
		q.add("a.date >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		q.add("a.date <= ?", *f.DateTo)
	}
	if f.MinDuration != nil {
		q.add("a.duration >= ?", *f.MinDuration)
	}
	if f.MaxDuration != nil {
		q.add("a.duration <= ?", *f.MaxDuration)
	}
	if f.MinDistance != nil {
		q.add("a.distance >= ?", *f.MinDistance)
	}
	if f.MaxDistance != nil {
		q.add("a.distance <= ?", *f.MaxDistance)
	}
	if f.MinCalories != nil {
		q.add("a.calories_burned >= ?", *f.MinCalories)
	}
	if f.MaxCalories != nil {
		q.add("a.calories_burned <= ?", *f.MaxCalories)
	}
	if f.Search != "" {
		pattern := "%" + escapeLike(strings.ToLower(f.Search)) + "%"
		q.add(`(LOWER(a.title) LIKE ? ESCAPE '!' OR LOWER(a.description) LIKE ? ESCAPE '!' OR LOWER(a.location) LIKE ? ESCAPE '!')`,
			pattern, pattern, pattern)
	}
	return q
}

func (q *activityQuery) add(cond string, args ...interface{}) {
	q.conds = append(q.conds, cond)
	q.args = append(q.args, args...)
}

func (q *activityQuery) where() string {
	return " WHERE " + strings.Join(q.conds, " AND ")
}

// orderBy maps allow-listed field names to columns and appends id DESC as
// the final tie-breaker.
func orderBy(fields []domain.OrderField) string {
	if len(fields) == 0 {
		fields = domain.DefaultOrdering
	}
	parts := make([]string, 0, len(fields)+1)
	for _, f := range fields {
		dir := "ASC"
		if f.Desc {
			dir = "DESC"
		}
		parts = append(parts, "a."+f.Name+" "+dir)
	}
	parts = append(parts, "a.id DESC")
	return " ORDER BY " + strings.Join(parts, ", ")
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}
