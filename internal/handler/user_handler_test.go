package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateMeMergesProfile(t *testing.T) {
	s := newTestServer(t)
	sess := s.register("kate")
	s.register("luke")

	rr := s.do(http.MethodPatch, "/api/users/me/", sess.Access, map[string]interface{}{
		"first_name": "Kate",
		"profile":    map[string]interface{}{"height": 180, "weight": 81, "bio": "trail runner"},
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = s.do(http.MethodPatch, "/api/users/me/", sess.Access, map[string]interface{}{
		"profile": map[string]interface{}{"weight": 72.9},
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = s.do(http.MethodGet, "/api/users/me/", sess.Access, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var me UserView
	decode(t, rr, &me)
	assert.Equal(t, "Kate", me.FirstName)
	assert.Equal(t, "kate@example.com", me.Email)
	require.NotNil(t, me.Profile)
	assert.Equal(t, 180.0, *me.Profile.Height)
	assert.Equal(t, 72.9, *me.Profile.Weight)
	assert.Equal(t, "trail runner", me.Profile.Bio)
	assert.Equal(t, 22.5, *me.Profile.BMI)
	assert.Nil(t, me.Profile.Age)

	// keeping one's own address is fine, taking someone else's is not
	rr = s.do(http.MethodPut, "/api/users/me/", sess.Access, map[string]interface{}{"email": "kate@example.com"})
	assert.Equal(t, http.StatusOK, rr.Code)
	errs := fieldErrors(t, s.do(http.MethodPut, "/api/users/me/", sess.Access, map[string]interface{}{"email": "LUKE@example.com"}))
	assert.Contains(t, errs, "email")

	errs = fieldErrors(t, s.do(http.MethodPatch, "/api/users/me/", sess.Access, map[string]interface{}{
		"profile": map[string]interface{}{"gender": "X", "height": -5},
	}))
	assert.Contains(t, errs, "profile.gender")
	assert.Contains(t, errs, "profile.height")
}

func TestChangePassword(t *testing.T) {
	s := newTestServer(t)
	sess := s.register("mia")
	const newPassword = "N3w-Secret-Pass"

	errs := fieldErrors(t, s.do(http.MethodPost, "/api/users/change-password/", sess.Access, map[string]string{
		"old_password": "wrong", "new_password": newPassword, "new_password2": newPassword,
	}))
	assert.Contains(t, errs, "old_password")

	errs = fieldErrors(t, s.do(http.MethodPost, "/api/users/change-password/", sess.Access, map[string]string{
		"old_password": testPassword, "new_password": newPassword, "new_password2": "different",
	}))
	assert.Contains(t, errs, "new_password")

	errs = fieldErrors(t, s.do(http.MethodPost, "/api/users/change-password/", sess.Access, map[string]string{
		"old_password": testPassword, "new_password": longPassword, "new_password2": longPassword,
	}))
	assert.Contains(t, errs, "new_password")

	rr := s.do(http.MethodPost, "/api/users/change-password/", sess.Access, map[string]string{
		"old_password": testPassword, "new_password": newPassword, "new_password2": newPassword,
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.JSONEq(t, `{"message":"Password changed successfully"}`, rr.Body.String())

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodPost, "/api/auth/login/", "", map[string]string{"username": "mia", "password": testPassword}).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/auth/login/", "", map[string]string{"username": "mia", "password": newPassword}).Code)
}

func TestDeleteMeCascades(t *testing.T) {
	s := newTestServer(t)
	sess := s.register("ned")
	s.createActivity(sess.Access, map[string]interface{}{"activity_type": "ROWING", "duration": 25})

	rr := s.do(http.MethodDelete, "/api/users/me/", sess.Access, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	var n int
	require.NoError(t, s.conn.QueryRow("SELECT COUNT(*) FROM activities").Scan(&n))
	assert.Zero(t, n)

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/users/me/", sess.Access, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodPost, "/api/auth/token/refresh/", "", map[string]string{"refresh": sess.Refresh}).Code)
}
