package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/yusufkecer/fitness-tracker-backend/internal/domain"
)

type ActivityRepository struct {
	db *sql.DB
}

func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Create inserts a and fills in its id and timestamps.
func (r *ActivityRepository) Create(ctx context.Context, a *domain.Activity) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO activities (user_id, activity_type, title, description, duration, distance,
			calories_burned, intensity, date, start_time, average_heart_rate, max_heart_rate,
			elevation_gain, location, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.UserID, string(a.ActivityType), a.Title, a.Description, a.Duration, a.Distance,
		a.CaloriesBurned, string(a.Intensity), a.Date, a.StartTime, a.AverageHeartRate, a.MaxHeartRate,
		a.ElevationGain, a.Location, dbTime(now), dbTime(now),
	)
	if err != nil {
		return fmt.Errorf("failed to create activity: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read activity id: %w", err)
	}
	a.ID = id
	a.CreatedAt = now
	a.UpdatedAt = now
	return nil
}

// GetForUser returns ErrNotFound both for missing rows and for rows owned
// by someone else.
func (r *ActivityRepository) GetForUser(ctx context.Context, id, userID int64) (*domain.Activity, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+activityColumns+activityFrom+" WHERE a.id = ? AND a.user_id = ?",
		id, userID,
	)
	a, err := scanActivity(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}
	return a, nil
}

func (r *ActivityRepository) Update(ctx context.Context, a *domain.Activity) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`UPDATE activities SET activity_type = ?, title = ?, description = ?, duration = ?,
			distance = ?, calories_burned = ?, intensity = ?, date = ?, start_time = ?,
			average_heart_rate = ?, max_heart_rate = ?, elevation_gain = ?, location = ?,
			updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		string(a.ActivityType), a.Title, a.Description, a.Duration,
		a.Distance, a.CaloriesBurned, string(a.Intensity), a.Date, a.StartTime,
		a.AverageHeartRate, a.MaxHeartRate, a.ElevationGain, a.Location,
		dbTime(now), a.ID, a.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update activity: %w", err)
	}
	a.UpdatedAt = now
	return nil
}

func (r *ActivityRepository) DeleteForUser(ctx context.Context, id, userID int64) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM activities WHERE id = ? AND user_id = ?", id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns one page of the filtered activities and the total match count.
func (r *ActivityRepository) List(ctx context.Context, f domain.ActivityFilter, page domain.PageRequest) ([]domain.Activity, int, error) {
	q := newActivityQuery(f)

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*)"+activityFrom+q.where(), q.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count activities: %w", err)
	}
	if total == 0 {
		return []domain.Activity{}, 0, nil
	}

	args := append(append([]interface{}{}, q.args...), page.Size, page.Offset())
	activities, err := r.query(ctx,
		"SELECT "+activityColumns+activityFrom+q.where()+orderBy(f.Ordering)+" LIMIT ? OFFSET ?",
		args...,
	)
	if err != nil {
		return nil, 0, err
	}
	return activities, total, nil
}

// ListAll returns every activity matching f, unpaginated.
func (r *ActivityRepository) ListAll(ctx context.Context, f domain.ActivityFilter) ([]domain.Activity, error) {
	q := newActivityQuery(f)
	return r.query(ctx, "SELECT "+activityColumns+activityFrom+q.where()+orderBy(f.Ordering), q.args...)
}

func (r *ActivityRepository) Recent(ctx context.Context, userID int64, limit int) ([]domain.Activity, error) {
	return r.query(ctx,
		"SELECT "+activityColumns+activityFrom+" WHERE a.user_id = ?"+orderBy(domain.DefaultOrdering)+" LIMIT ?",
		userID, limit,
	)
}

func (r *ActivityRepository) query(ctx context.Context, query string, args ...interface{}) ([]domain.Activity, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	activities := []domain.Activity{}
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		activities = append(activities, *a)
	}
	return activities, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanActivity(row rowScanner) (*domain.Activity, error) {
	var (
		a                    domain.Activity
		activityType         string
		intensity            string
		startTime            sql.NullString
		createdAt, updatedAt timestamp
	)
	err := row.Scan(
		&a.ID, &a.UserID, &a.Username, &activityType, &a.Title, &a.Description,
		&a.Duration, &a.Distance, &a.CaloriesBurned, &intensity, &a.Date, &startTime,
		&a.AverageHeartRate, &a.MaxHeartRate, &a.ElevationGain, &a.Location,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.ActivityType = domain.ActivityType(activityType)
	a.Intensity = domain.Intensity(intensity)
	if startTime.Valid {
		s := startTime.String
		if len(s) > 8 {
			s = s[:8]
		}
		a.StartTime = &s
	}
	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time
	return &a, nil
}
