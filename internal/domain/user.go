package domain

import (
	"strings"
	"time"
)

type User struct {
	ID           int64
	Username     string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	DateJoined   time.Time
	Profile      *UserProfile
}

type UserProfile struct {
	UserID         int64
	DateOfBirth    *Date
	Gender         *Gender
	Height         *float64
	Weight         *float64
	Bio            string
	ProfilePicture *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Age in whole years as of today; nil without a birth date.
func (p *UserProfile) Age(today Date) *int {
	if p == nil || p.DateOfBirth == nil || p.DateOfBirth.IsZero() {
		return nil
	}
	dob := *p.DateOfBirth
	age := today.Year() - dob.Year()
	if today.Month() < dob.Month() || (today.Month() == dob.Month() && today.Day() < dob.Day()) {
		age--
	}
	return &age
}

// BMI is weight in kg over height in meters squared, rounded to 2 places.
func (p *UserProfile) BMI() *float64 {
	if p == nil || p.Height == nil || p.Weight == nil || *p.Height <= 0 || *p.Weight <= 0 {
		return nil
	}
	meters := *p.Height / 100
	bmi := Round2(*p.Weight / (meters * meters))
	return &bmi
}

type ProfileInput struct {
	DateOfBirth    *string  `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Gender         *string  `json:"gender" validate:"omitempty,gender"`
	Height         *float64 `json:"height" validate:"omitempty,gte=0,lte=999.99"`
	Weight         *float64 `json:"weight" validate:"omitempty,gte=0,lte=999.99"`
	Bio            string   `json:"bio" validate:"max=500"`
	ProfilePicture *string  `json:"profile_picture" validate:"omitempty,url"`
}

func InputFromProfile(p *UserProfile) ProfileInput {
	in := ProfileInput{
		Height:         p.Height,
		Weight:         p.Weight,
		Bio:            p.Bio,
		ProfilePicture: p.ProfilePicture,
	}
	if p.DateOfBirth != nil {
		s := p.DateOfBirth.String()
		in.DateOfBirth = &s
	}
	if p.Gender != nil {
		s := string(*p.Gender)
		in.Gender = &s
	}
	return in
}

func (in ProfileInput) ApplyTo(p *UserProfile) error {
	p.DateOfBirth = nil
	if in.DateOfBirth != nil && *in.DateOfBirth != "" {
		dob, err := ParseDate(*in.DateOfBirth)
		if err != nil {
			return err
		}
		p.DateOfBirth = &dob
	}
	p.Gender = nil
	if in.Gender != nil && *in.Gender != "" {
		g := Gender(*in.Gender)
		p.Gender = &g
	}
	p.Height = round2Ptr(in.Height)
	p.Weight = round2Ptr(in.Weight)
	p.Bio = in.Bio
	p.ProfilePicture = in.ProfilePicture
	if p.ProfilePicture != nil && *p.ProfilePicture == "" {
		p.ProfilePicture = nil
	}
	return nil
}

type RegisterRequest struct {
	Username  string        `json:"username" validate:"required,max=150"`
	Email     string        `json:"email" validate:"required,email,max=254"`
	Password  string        `json:"password" validate:"required"`
	Password2 string        `json:"password2" validate:"required"`
	FirstName string        `json:"first_name" validate:"max=150"`
	LastName  string        `json:"last_name" validate:"max=150"`
	Profile   *ProfileInput `json:"profile" validate:"-"`
}

func (r *RegisterRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = NormalizeEmail(r.Email)
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
}

// UserUpdate carries the writable user fields plus an optional nested profile.
type UserUpdate struct {
	Email     string        `json:"email" validate:"required,email,max=254"`
	FirstName string        `json:"first_name" validate:"max=150"`
	LastName  string        `json:"last_name" validate:"max=150"`
	Profile   *ProfileInput `json:"profile" validate:"-"`
}

type ChangePasswordRequest struct {
	OldPassword  string `json:"old_password" validate:"required"`
	NewPassword  string `json:"new_password" validate:"required"`
	NewPassword2 string `json:"new_password2" validate:"required"`
}

func NormalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}
