package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yusufkecer/fitness-tracker-backend/internal/config"
	"github.com/yusufkecer/fitness-tracker-backend/internal/db"
	"github.com/yusufkecer/fitness-tracker-backend/internal/domain"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.OpenSQLite(filepath.Join(t.TempDir(), "test.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, db.RunMigrations(conn, config.DriverSQLite, zap.NewNop()))
	return conn
}

func createUser(t *testing.T, repo *UserRepository, username string) *domain.User {
	t.Helper()
	u := &domain.User{Username: username, Email: username + "@example.com", PasswordHash: "hash"}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func newActivity(userID int64, typ domain.ActivityType, date domain.Date, duration int) *domain.Activity {
	a := &domain.Activity{
		UserID:       userID,
		ActivityType: typ,
		Duration:     duration,
		Intensity:    domain.IntensityModerate,
		Date:         date,
	}
	a.EnsureTitle()
	return a
}

func TestUserCreateAndGet(t *testing.T) {
	ctx := context.Background()
	users := NewUserRepository(openTestDB(t))

	dob := domain.NewDate(2000, time.June, 15)
	g := domain.GenderFemale
	u := &domain.User{
		Username:     "alice",
		Email:        "alice@example.com",
		FirstName:    "Alice",
		PasswordHash: "hash",
		Profile:      &domain.UserProfile{DateOfBirth: &dob, Gender: &g, Height: floatPtr(180), Weight: floatPtr(81), Bio: "runner"},
	}
	require.NoError(t, users.Create(ctx, u))
	assert.NotZero(t, u.ID)

	got, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "Alice", got.FirstName)
	assert.False(t, got.DateJoined.IsZero())
	require.NotNil(t, got.Profile)
	require.NotNil(t, got.Profile.DateOfBirth)
	assert.Equal(t, "2000-06-15", got.Profile.DateOfBirth.String())
	require.NotNil(t, got.Profile.Gender)
	assert.Equal(t, domain.GenderFemale, *got.Profile.Gender)
	assert.Equal(t, 25.0, *got.Profile.BMI())
	assert.Equal(t, "runner", got.Profile.Bio)

	byName, err := users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)

	_, err = users.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserDuplicates(t *testing.T) {
	ctx := context.Background()
	users := NewUserRepository(openTestDB(t))
	alice := createUser(t, users, "alice")

	err := users.Create(ctx, &domain.User{Username: "alice", Email: "other@example.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, ErrDuplicate)

	exists, err := users.EmailExists(ctx, "ALICE@example.com", 0)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = users.EmailExists(ctx, "alice@example.com", alice.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = users.UsernameExists(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUserUpdateAndPassword(t *testing.T) {
	ctx := context.Background()
	users := NewUserRepository(openTestDB(t))
	u := createUser(t, users, "bob")

	u.Email = "bob@new.example.com"
	u.LastName = "Builder"
	u.Profile.Height = floatPtr(172.5)
	require.NoError(t, users.Update(ctx, u))
	require.NoError(t, users.UpdatePassword(ctx, u.ID, "newhash"))

	got, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob@new.example.com", got.Email)
	assert.Equal(t, "Builder", got.LastName)
	assert.Equal(t, "newhash", got.PasswordHash)
	require.NotNil(t, got.Profile.Height)
	assert.Equal(t, 172.5, *got.Profile.Height)
}

func TestUserDeleteCascades(t *testing.T) {
	ctx := context.Background()
	conn := openTestDB(t)
	users := NewUserRepository(conn)
	activities := NewActivityRepository(conn)
	u := createUser(t, users, "carol")
	require.NoError(t, activities.Create(ctx, newActivity(u.ID, domain.ActivityRunning, domain.NewDate(2024, 1, 1), 30)))

	require.NoError(t, users.Delete(ctx, u.ID))

	var n int
	require.NoError(t, conn.QueryRow("SELECT COUNT(*) FROM activities").Scan(&n))
	assert.Zero(t, n)
	require.NoError(t, conn.QueryRow("SELECT COUNT(*) FROM user_profiles").Scan(&n))
	assert.Zero(t, n)

	assert.ErrorIs(t, users.Delete(ctx, u.ID), ErrNotFound)
}

func TestActivityCRUDScopedToOwner(t *testing.T) {
	ctx := context.Background()
	conn := openTestDB(t)
	users := NewUserRepository(conn)
	repo := NewActivityRepository(conn)
	owner := createUser(t, users, "owner")
	other := createUser(t, users, "other")

	a := newActivity(owner.ID, domain.ActivityRunning, domain.NewDate(2024, 3, 10), 47)
	a.Distance = floatPtr(7.3)
	start := "07:30:00"
	a.StartTime = &start
	require.NoError(t, repo.Create(ctx, a))
	require.NotZero(t, a.ID)

	got, err := repo.GetForUser(ctx, a.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "owner", got.Username)
	assert.Equal(t, "Running - 2024-03-10", got.Title)
	assert.Equal(t, 6.44, *got.Pace())
	assert.Equal(t, "07:30:00", *got.StartTime)
	assert.Nil(t, got.CaloriesBurned)

	_, err = repo.GetForUser(ctx, a.ID, other.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	got.Duration = 50
	got.CaloriesBurned = intPtr(400)
	require.NoError(t, repo.Update(ctx, got))
	reloaded, err := repo.GetForUser(ctx, a.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, reloaded.Duration)
	assert.Equal(t, 400, *reloaded.CaloriesBurned)

	assert.ErrorIs(t, repo.DeleteForUser(ctx, a.ID, other.ID), ErrNotFound)
	require.NoError(t, repo.DeleteForUser(ctx, a.ID, owner.ID))
	_, err = repo.GetForUser(ctx, a.ID, owner.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestActivityListFiltersAndPaging(t *testing.T) {
	ctx := context.Background()
	conn := openTestDB(t)
	users := NewUserRepository(conn)
	repo := NewActivityRepository(conn)
	u := createUser(t, users, "dave")
	other := createUser(t, users, "erin")

	fixtures := []*domain.Activity{
		newActivity(u.ID, domain.ActivityRunning, domain.NewDate(2024, 1, 5), 30),
		newActivity(u.ID, domain.ActivityCycling, domain.NewDate(2024, 2, 10), 60),
		newActivity(u.ID, domain.ActivityRunning, domain.NewDate(2024, 2, 20), 45),
		newActivity(u.ID, domain.ActivityYoga, domain.NewDate(2023, 12, 31), 20),
		newActivity(other.ID, domain.ActivityRunning, domain.NewDate(2024, 2, 1), 30),
	}
	fixtures[0].Description = "Morning loop in the PARK"
	fixtures[1].Distance = floatPtr(25)
	fixtures[2].Location = "100%_track"
	for _, a := range fixtures {
		require.NoError(t, repo.Create(ctx, a))
	}

	page := domain.PageRequest{Page: 1, Size: 10}
	list := func(f domain.ActivityFilter) []domain.Activity {
		f.UserID = u.ID
		got, total, err := repo.List(ctx, f, page)
		require.NoError(t, err)
		assert.Len(t, got, total)
		for _, a := range got {
			assert.True(t, f.Matches(&a), "row %d should match filter", a.ID)
		}
		return got
	}

	all := list(domain.ActivityFilter{})
	require.Len(t, all, 4)
	assert.Equal(t, "2024-02-20", all[0].Date.String())
	assert.Equal(t, "2023-12-31", all[3].Date.String())

	assert.Len(t, list(domain.ActivityFilter{Types: []domain.ActivityType{domain.ActivityRunning}}), 2)
	assert.Len(t, list(domain.ActivityFilter{Types: []domain.ActivityType{domain.ActivityRunning, domain.ActivityYoga}}), 3)

	year, month := 2024, 2
	assert.Len(t, list(domain.ActivityFilter{Year: &year}), 3)
	assert.Len(t, list(domain.ActivityFilter{Year: &year, Month: &month}), 2)

	from := domain.NewDate(2024, 1, 1)
	to := domain.NewDate(2024, 2, 15)
	assert.Len(t, list(domain.ActivityFilter{DateFrom: &from, DateTo: &to}), 2)

	assert.Len(t, list(domain.ActivityFilter{MinDuration: intPtr(40)}), 2)
	assert.Len(t, list(domain.ActivityFilter{MinDistance: floatPtr(1)}), 1)

	park := list(domain.ActivityFilter{Search: "park"})
	require.Len(t, park, 1)
	assert.Equal(t, fixtures[0].ID, park[0].ID)

	// wildcards in the term are literal
	assert.Len(t, list(domain.ActivityFilter{Search: "%_"}), 1)
	assert.Len(t, list(domain.ActivityFilter{Search: "_"}), 1)

	byDuration := list(domain.ActivityFilter{Ordering: domain.ParseOrdering("duration")})
	assert.Equal(t, 20, byDuration[0].Duration)
	assert.Equal(t, 60, byDuration[3].Duration)

	second, total, err := repo.List(ctx, domain.ActivityFilter{UserID: u.ID}, domain.PageRequest{Page: 2, Size: 3})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	require.Len(t, second, 1)
	assert.Equal(t, "2023-12-31", second[0].Date.String())
}

func TestActivityRecentAndListAll(t *testing.T) {
	ctx := context.Background()
	conn := openTestDB(t)
	users := NewUserRepository(conn)
	repo := NewActivityRepository(conn)
	u := createUser(t, users, "frank")

	base := domain.NewDate(2024, 1, 1)
	for i := 0; i < 12; i++ {
		require.NoError(t, repo.Create(ctx, newActivity(u.ID, domain.ActivityWalking, base.AddDays(i), 10+i)))
	}

	recent, err := repo.Recent(ctx, u.ID, domain.RecentLimit)
	require.NoError(t, err)
	require.Len(t, recent, 10)
	assert.Equal(t, "2024-01-12", recent[0].Date.String())

	all, err := repo.ListAll(ctx, domain.ActivityFilter{UserID: u.ID})
	require.NoError(t, err)
	assert.Len(t, all, 12)

	none, err := repo.ListAll(ctx, domain.ActivityFilter{UserID: u.ID + 100})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestTokenDenylist(t *testing.T) {
	ctx := context.Background()
	conn := openTestDB(t)
	tokens := NewTokenRepository(conn)

	require.NoError(t, tokens.Add(ctx, "jti-1", 1, time.Now().Add(time.Hour)))
	require.NoError(t, tokens.Add(ctx, "jti-old", 1, time.Now().Add(-time.Hour)))
	assert.ErrorIs(t, tokens.Add(ctx, "jti-1", 1, time.Now().Add(time.Hour)), ErrDuplicate)

	found, err := tokens.Contains(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, found)

	found, err = tokens.Contains(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, found)

	purged, err := tokens.DeleteExpired(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
}
