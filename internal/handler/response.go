package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"

	"go.uber.org/zap"

	"github.com/yusufkecer/fitness-tracker-backend/internal/middleware"
	"github.com/yusufkecer/fitness-tracker-backend/internal/validation"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeValidation(w http.ResponseWriter, errs validation.Errors) {
	writeJSON(w, http.StatusBadRequest, errs)
}

// serverError logs the cause and answers with a generic 500.
func serverError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, msg string, err error) {
	logger.Error(msg,
		zap.String("request_id", middleware.RequestID(r.Context())),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	writeError(w, http.StatusInternalServerError, msg)
}

// decodeJSON decodes the request body into v, which may carry defaults.
// On failure it writes the response and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return true
	}

	var typeErr *json.UnmarshalTypeError
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
	case errors.As(err, &typeErr) && typeErr.Field != "":
		var errs validation.Errors
		errs.Add(typeErr.Field, validation.InvalidValue, typeMessage(typeErr.Type))
		writeValidation(w, errs)
	default:
		writeError(w, http.StatusBadRequest, "invalid request body")
	}
	return false
}

func typeMessage(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "A valid integer is required."
	case reflect.Float32, reflect.Float64:
		return "A valid number is required."
	case reflect.String:
		return "Not a valid string."
	case reflect.Struct:
		return "Invalid data. Expected a dictionary."
	}
	return "Invalid value."
}
