package validation

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/yusufkecer/fitness-tracker-backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLength = 8
	// MaxPasswordLength is the most bcrypt will hash.
	MaxPasswordLength = 72
)

// ValidateDate rejects activity dates after today.
func ValidateDate(field string, date, today domain.Date) *FieldError {
	if date.After(today) {
		return &FieldError{Field: field, Kind: FutureDate, Message: "Activity date cannot be in the future."}
	}
	return nil
}

func ValidateHeartRates(avg, peak *int) *FieldError {
	if avg != nil && peak != nil && *avg > *peak {
		return &FieldError{
			Field:   "average_heart_rate",
			Kind:    HeartRateOrder,
			Message: "Average heart rate cannot be greater than max heart rate.",
		}
	}
	return nil
}

func ValidatePasswordConfirmation(field, password, confirmation string) *FieldError {
	if password != confirmation {
		return &FieldError{Field: field, Kind: PasswordMismatch, Message: "Password fields didn't match."}
	}
	return nil
}

// ValidateOldPassword checks candidate against the stored bcrypt hash.
func ValidateOldPassword(candidate, hash string) *FieldError {
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate)) != nil {
		return &FieldError{Field: "old_password", Kind: BadCredential, Message: "Old password is incorrect."}
	}
	return nil
}

var commonPasswords = map[string]bool{
	"password": true, "password1": true, "password123": true, "12345678": true,
	"123456789": true, "1234567890": true, "qwerty123": true, "qwertyuiop": true,
	"iloveyou": true, "sunshine": true, "football": true, "baseball": true,
	"welcome1": true, "letmein1": true, "abc12345": true, "11111111": true,
	"00000000": true, "trustno1": true, "princess": true, "superman": true,
}

// ValidatePasswordStrength applies the account password policy and returns
// every rule the password breaks.
func ValidatePasswordStrength(field, password, username, email string) Errors {
	var errs Errors
	if len(password) < MinPasswordLength {
		errs.Add(field, WeakPassword, fmt.Sprintf("This password is too short. It must contain at least %d characters.", MinPasswordLength))
	}
	if len(password) > MaxPasswordLength {
		errs.Add(field, WeakPassword, fmt.Sprintf("This password is too long. It must contain at most %d bytes.", MaxPasswordLength))
	}
	if commonPasswords[strings.ToLower(password)] {
		errs.Add(field, WeakPassword, "This password is too common.")
	}
	if password != "" && isNumeric(password) {
		errs.Add(field, WeakPassword, "This password is entirely numeric.")
	}
	lower := strings.ToLower(password)
	local, _, _ := strings.Cut(strings.ToLower(email), "@")
	if (username != "" && lower == strings.ToLower(username)) || (local != "" && lower == local) {
		errs.Add(field, WeakPassword, "The password is too similar to the account details.")
	}
	return errs
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// AccountLookup is the read access the uniqueness rules need.
type AccountLookup interface {
	EmailExists(ctx context.Context, email string, excludeID int64) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
}

// ValidateEmailUniqueness fails when another account already uses email.
// excludeID lets an account keep its own address on update.
func ValidateEmailUniqueness(ctx context.Context, lookup AccountLookup, email string, excludeID int64) (*FieldError, error) {
	exists, err := lookup.EmailExists(ctx, email, excludeID)
	if err != nil {
		return nil, err
	}
	if exists {
		return &FieldError{Field: "email", Kind: DuplicateEmail, Message: "A user with this email already exists."}, nil
	}
	return nil, nil
}

func ValidateUsernameUniqueness(ctx context.Context, lookup AccountLookup, username string) (*FieldError, error) {
	exists, err := lookup.UsernameExists(ctx, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return &FieldError{Field: "username", Kind: DuplicateUsername, Message: "A user with that username already exists."}, nil
	}
	return nil, nil
}
