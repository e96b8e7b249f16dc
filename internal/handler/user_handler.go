package handler

import (
	"errors"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/yusufkecer/fitness-tracker-backend/internal/domain"
	"github.com/yusufkecer/fitness-tracker-backend/internal/metrics"
	"github.com/yusufkecer/fitness-tracker-backend/internal/middleware"
	"github.com/yusufkecer/fitness-tracker-backend/internal/repository"
	"github.com/yusufkecer/fitness-tracker-backend/internal/validation"
)

type UserHandler struct {
	users        UserStore
	logger       *zap.Logger
	passwordCost int
	today        func() domain.Date
}

func NewUserHandler(users UserStore, logger *zap.Logger, passwordCost int, today func() domain.Date) *UserHandler {
	return &UserHandler{users: users, logger: logger, passwordCost: passwordCost, today: today}
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	writeJSON(w, http.StatusOK, newUserView(user, h.today()))
}

// UpdateMe serves both PUT and PATCH: fields missing from the body keep
// their stored values, including inside the nested profile.
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	today := h.today()

	if user.Profile == nil {
		user.Profile = &domain.UserProfile{UserID: user.ID}
	}
	profile := domain.InputFromProfile(user.Profile)
	req := domain.UserUpdate{
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Profile:   &profile,
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Email = domain.NormalizeEmail(req.Email)

	errs := validation.Struct(req)
	errs.Merge(validation.Profile("profile.", req.Profile, today))
	if !errs.HasField("email") {
		fe, err := validation.ValidateEmailUniqueness(r.Context(), h.users, req.Email, user.ID)
		if err != nil {
			serverError(w, r, h.logger, "failed to update user", err)
			return
		}
		errs.Append(fe)
	}
	if len(errs) > 0 {
		writeValidation(w, errs)
		return
	}

	user.Email = req.Email
	user.FirstName = req.FirstName
	user.LastName = req.LastName
	if req.Profile != nil {
		if err := req.Profile.ApplyTo(user.Profile); err != nil {
			serverError(w, r, h.logger, "failed to update user", err)
			return
		}
	}

	err := h.users.Update(r.Context(), user)
	if errors.Is(err, repository.ErrDuplicate) {
		var dup validation.Errors
		dup.Add("email", validation.DuplicateEmail, "A user with this email already exists.")
		writeValidation(w, dup)
		return
	}
	if err != nil {
		serverError(w, r, h.logger, "failed to update user", err)
		return
	}

	writeJSON(w, http.StatusOK, newUserView(user, today))
}

// DeleteMe removes the account together with its profile and activities.
func (h *UserHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())

	if err := h.users.Delete(r.Context(), user.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		serverError(w, r, h.logger, "failed to delete user", err)
		return
	}

	metrics.AuthEvents.WithLabelValues(metrics.EventAccountDeleted).Inc()
	h.logger.Info("user deleted", zap.Int64("user_id", user.ID))
	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())

	var req domain.ChangePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	errs := validation.Struct(req)
	if !errs.HasField("old_password") {
		errs.Append(validation.ValidateOldPassword(req.OldPassword, user.PasswordHash))
	}
	if !errs.HasField("new_password") && !errs.HasField("new_password2") {
		if fe := validation.ValidatePasswordConfirmation("new_password", req.NewPassword, req.NewPassword2); fe != nil {
			errs.Append(fe)
		} else {
			errs.Merge(validation.ValidatePasswordStrength("new_password", req.NewPassword, user.Username, user.Email))
		}
	}
	if len(errs) > 0 {
		writeValidation(w, errs)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), h.passwordCost)
	if err != nil {
		serverError(w, r, h.logger, "failed to hash password", err)
		return
	}
	if err := h.users.UpdatePassword(r.Context(), user.ID, string(hash)); err != nil {
		serverError(w, r, h.logger, "failed to change password", err)
		return
	}

	metrics.AuthEvents.WithLabelValues(metrics.EventPasswordChange).Inc()
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password changed successfully"})
}
