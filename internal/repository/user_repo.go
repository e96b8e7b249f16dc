package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/yusufkecer/fitness-tracker-backend/internal/domain"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userSelect = `SELECT u.id, u.username, u.email, u.first_name, u.last_name, u.password_hash, u.date_joined,
	p.user_id, p.date_of_birth, p.gender, p.height, p.weight, p.bio, p.profile_picture, p.created_at, p.updated_at
	FROM users u LEFT JOIN user_profiles p ON p.user_id = u.id`

// Create inserts the user and its profile in one transaction. A nil
// profile is stored empty. Unique violations surface as ErrDuplicate.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	now := time.Now().UTC()
	if u.Profile == nil {
		u.Profile = &domain.UserProfile{}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO users (username, email, first_name, last_name, password_hash, date_joined)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		u.Username, u.Email, u.FirstName, u.LastName, u.PasswordHash, dbTime(now),
	)
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read user id: %w", err)
	}

	p := u.Profile
	p.UserID = id
	if err := insertProfile(ctx, tx, p, now); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit user: %w", err)
	}
	u.ID = id
	u.DateJoined = now
	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.getOne(ctx, userSelect+" WHERE u.id = ?", id)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getOne(ctx, userSelect+" WHERE u.username = ?", username)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg interface{}) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// EmailExists compares case-insensitively and ignores the user excludeID
// (0 excludes nobody).
func (r *UserRepository) EmailExists(ctx context.Context, email string, excludeID int64) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE LOWER(email) = ? AND id <> ?",
		domain.NormalizeEmail(email), excludeID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return count > 0, nil
}

func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE username = ?", username,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return count > 0, nil
}

// Update writes the user's editable fields and its profile together.
func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	now := time.Now().UTC()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"UPDATE users SET email = ?, first_name = ?, last_name = ? WHERE id = ?",
		u.Email, u.FirstName, u.LastName, u.ID,
	); err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	if u.Profile != nil {
		p := u.Profile
		p.UserID = u.ID

		var exists int
		if err := tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM user_profiles WHERE user_id = ?", u.ID,
		).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check profile: %w", err)
		}

		if exists == 0 {
			if err := insertProfile(ctx, tx, p, now); err != nil {
				return err
			}
			p.CreatedAt = now
		} else if _, err := tx.ExecContext(ctx,
			`UPDATE user_profiles SET date_of_birth = ?, gender = ?, height = ?, weight = ?,
				bio = ?, profile_picture = ?, updated_at = ?
			 WHERE user_id = ?`,
			p.DateOfBirth, genderValue(p.Gender), p.Height, p.Weight,
			p.Bio, p.ProfilePicture, dbTime(now), u.ID,
		); err != nil {
			return fmt.Errorf("failed to update profile: %w", err)
		}
		p.UpdatedAt = now
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit user: %w", err)
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	if _, err := r.db.ExecContext(ctx,
		"UPDATE users SET password_hash = ? WHERE id = ?", hash, id,
	); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// Delete removes the user with its profile and activities.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		"DELETE FROM activities WHERE user_id = ?",
		"DELETE FROM user_profiles WHERE user_id = ?",
	} {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return fmt.Errorf("failed to delete user data: %w", err)
		}
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit user deletion: %w", err)
	}
	return nil
}

func insertProfile(ctx context.Context, tx *sql.Tx, p *domain.UserProfile, now time.Time) error {
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO user_profiles (user_id, date_of_birth, gender, height, weight, bio,
			profile_picture, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.UserID, p.DateOfBirth, genderValue(p.Gender), p.Height, p.Weight, p.Bio,
		p.ProfilePicture, dbTime(now), dbTime(now),
	); err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

func genderValue(g *domain.Gender) interface{} {
	if g == nil {
		return nil
	}
	return string(*g)
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		u                domain.User
		joined           timestamp
		profileUserID    sql.NullInt64
		dob              *domain.Date
		gender           sql.NullString
		bio              sql.NullString
		created, updated timestamp
		height, weight   *float64
		profilePicture   *string
	)
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash, &joined,
		&profileUserID, &dob, &gender, &height, &weight, &bio, &profilePicture, &created, &updated,
	)
	if err != nil {
		return nil, err
	}
	u.DateJoined = joined.Time

	p := &domain.UserProfile{UserID: u.ID}
	if profileUserID.Valid {
		p.DateOfBirth = dob
		if gender.Valid && gender.String != "" {
			g := domain.Gender(gender.String)
			p.Gender = &g
		}
		p.Height = height
		p.Weight = weight
		p.Bio = bio.String
		p.ProfilePicture = profilePicture
		p.CreatedAt = created.Time
		p.UpdatedAt = updated.Time
	}
	u.Profile = p
	return &u, nil
}
