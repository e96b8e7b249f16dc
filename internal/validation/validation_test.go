package validation

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yusufkecer/fitness-tracker-backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

func intPtr(v int) *int { return &v }
func floatPtr(v float64) *float64 { return &v }

var today = domain.NewDate(2024, time.June, 15)

func validInput() domain.ActivityInput {
	in := domain.NewActivityInput(today)
	in.ActivityType = string(domain.ActivityRunning)
	in.Duration = intPtr(30)
	return in
}

func TestValidateDate(t *testing.T) {
	assert.Nil(t, ValidateDate("date", today, today))
	assert.Nil(t, ValidateDate("date", today.AddDays(-1), today))

	fe := ValidateDate("date", today.AddDays(1), today)
	require.NotNil(t, fe)
	assert.Equal(t, FutureDate, fe.Kind)
}

func TestValidateHeartRates(t *testing.T) {
	assert.Nil(t, ValidateHeartRates(nil, intPtr(150)))
	assert.Nil(t, ValidateHeartRates(intPtr(150), intPtr(150)))

	fe := ValidateHeartRates(intPtr(160), intPtr(150))
	require.NotNil(t, fe)
	assert.Equal(t, HeartRateOrder, fe.Kind)
	assert.Equal(t, "average_heart_rate", fe.Field)
}

func TestValidatePasswordConfirmation(t *testing.T) {
	assert.Nil(t, ValidatePasswordConfirmation("password", "s3cret-pass", "s3cret-pass"))
	fe := ValidatePasswordConfirmation("new_password", "a", "b")
	require.NotNil(t, fe)
	assert.Equal(t, PasswordMismatch, fe.Kind)
	assert.Equal(t, "new_password", fe.Field)
}

func TestValidateOldPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)

	assert.Nil(t, ValidateOldPassword("correct horse", string(hash)))
	fe := ValidateOldPassword("wrong", string(hash))
	require.NotNil(t, fe)
	assert.Equal(t, BadCredential, fe.Kind)
}

func TestValidatePasswordStrength(t *testing.T) {
	assert.Empty(t, ValidatePasswordStrength("password", "Tr4ining-Log", "runner", "runner@example.com"))

	errs := ValidatePasswordStrength("password", "1234", "runner", "")
	assert.Len(t, errs, 2)
	assert.True(t, errs.Has(WeakPassword))

	errs = ValidatePasswordStrength("password", "runner@home", "runner@home", "")
	assert.Len(t, errs, 1)

	assert.Empty(t, ValidatePasswordStrength("password", "Tr4ining-"+strings.Repeat("x", 63), "runner", ""))
	errs = ValidatePasswordStrength("password", "Tr4ining-"+strings.Repeat("x", 64), "runner", "")
	require.Len(t, errs, 1)
	assert.Equal(t, WeakPassword, errs[0].Kind)
}

type fakeLookup struct {
	emails    map[string]int64
	usernames map[string]bool
	err       error
}

func (f fakeLookup) EmailExists(_ context.Context, email string, excludeID int64) (bool, error) {
	id, ok := f.emails[email]
	return ok && id != excludeID, f.err
}

func (f fakeLookup) UsernameExists(_ context.Context, username string) (bool, error) {
	return f.usernames[username], f.err
}

func TestValidateEmailUniqueness(t *testing.T) {
	lookup := fakeLookup{emails: map[string]int64{"taken@example.com": 7}}
	ctx := context.Background()

	fe, err := ValidateEmailUniqueness(ctx, lookup, "free@example.com", 0)
	require.NoError(t, err)
	assert.Nil(t, fe)

	fe, err = ValidateEmailUniqueness(ctx, lookup, "taken@example.com", 0)
	require.NoError(t, err)
	require.NotNil(t, fe)
	assert.Equal(t, DuplicateEmail, fe.Kind)

	fe, err = ValidateEmailUniqueness(ctx, lookup, "taken@example.com", 7)
	require.NoError(t, err)
	assert.Nil(t, fe)

	_, err = ValidateEmailUniqueness(ctx, fakeLookup{err: errors.New("db down")}, "x@example.com", 0)
	assert.Error(t, err)
}

func TestActivityValid(t *testing.T) {
	assert.Empty(t, Activity(validInput(), today))
}

func TestActivityFieldErrors(t *testing.T) {
	in := validInput()
	in.ActivityType = "SKATING"
	in.Duration = intPtr(0)
	in.Intensity = "MEDIUM"
	in.Date = "15/06/2024"
	bad := "25:99"
	in.StartTime = &bad
	in.AverageHeartRate = intPtr(250)

	errs := Activity(in, today)
	for _, field := range []string{"activity_type", "duration", "intensity", "date", "start_time", "average_heart_rate"} {
		assert.True(t, errs.HasField(field), "expected error for %s", field)
	}
}

func TestActivityDecimalBounds(t *testing.T) {
	in := validInput()
	in.Distance = floatPtr(9999.99)
	in.ElevationGain = floatPtr(9999.99)
	assert.Empty(t, Activity(in, today))

	in.Distance = floatPtr(9999.996)
	in.ElevationGain = floatPtr(10000)
	errs := Activity(in, today)
	assert.True(t, errs.HasField("distance"))
	assert.True(t, errs.HasField("elevation_gain"))
}

func TestActivityMissingRequired(t *testing.T) {
	in := validInput()
	in.ActivityType = ""
	in.Duration = nil

	errs := Activity(in, today)
	assert.True(t, errs.Has(MissingRequiredField))
	assert.True(t, errs.HasField("activity_type"))
	assert.True(t, errs.HasField("duration"))
}

func TestActivityCrossFieldRules(t *testing.T) {
	in := validInput()
	in.Date = today.AddDays(1).String()
	in.AverageHeartRate = intPtr(170)
	in.MaxHeartRate = intPtr(160)

	errs := Activity(in, today)
	assert.True(t, errs.Has(FutureDate))
	assert.True(t, errs.Has(HeartRateOrder))
}

func TestProfileValidation(t *testing.T) {
	dob := today.AddDays(3).String()
	pic := "not a url"
	height := -1.0
	errs := Profile("profile.", &domain.ProfileInput{DateOfBirth: &dob, ProfilePicture: &pic, Height: &height}, today)

	assert.True(t, errs.HasField("profile.date_of_birth"))
	assert.True(t, errs.HasField("profile.profile_picture"))
	assert.True(t, errs.HasField("profile.height"))
	assert.Nil(t, Profile("profile.", nil, today))

	errs = Profile("profile.", &domain.ProfileInput{Height: floatPtr(999.99), Weight: floatPtr(999.996)}, today)
	assert.False(t, errs.HasField("profile.height"))
	assert.True(t, errs.HasField("profile.weight"))
}

func TestErrorsJSON(t *testing.T) {
	var errs Errors
	errs.Add("password", PasswordMismatch, "Password fields didn't match.")
	errs.Add("password", WeakPassword, "This password is too short.")
	errs.Add("email", DuplicateEmail, "A user with this email already exists.")

	b, err := json.Marshal(errs)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"password": ["Password fields didn't match.", "This password is too short."],
		"email": ["A user with this email already exists."]
	}`, string(b))
	assert.Nil(t, Errors(nil).Err())
	assert.Error(t, errs.Err())
}
