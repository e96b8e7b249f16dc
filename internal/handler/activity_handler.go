package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/yusufkecer/fitness-tracker-backend/internal/domain"
	"github.com/yusufkecer/fitness-tracker-backend/internal/metrics"
	"github.com/yusufkecer/fitness-tracker-backend/internal/middleware"
	"github.com/yusufkecer/fitness-tracker-backend/internal/repository"
	"github.com/yusufkecer/fitness-tracker-backend/internal/stats"
	"github.com/yusufkecer/fitness-tracker-backend/internal/validation"
)

// ActivityStore is the persistence the activity endpoints need. Every
// lookup is scoped to the owning user.
type ActivityStore interface {
	Create(ctx context.Context, a *domain.Activity) error
	GetForUser(ctx context.Context, id, userID int64) (*domain.Activity, error)
	Update(ctx context.Context, a *domain.Activity) error
	DeleteForUser(ctx context.Context, id, userID int64) error
	List(ctx context.Context, f domain.ActivityFilter, page domain.PageRequest) ([]domain.Activity, int, error)
	ListAll(ctx context.Context, f domain.ActivityFilter) ([]domain.Activity, error)
	Recent(ctx context.Context, userID int64, limit int) ([]domain.Activity, error)
}

type ActivityHandler struct {
	repo   ActivityStore
	logger *zap.Logger
	today  func() domain.Date
}

func NewActivityHandler(repo ActivityStore, logger *zap.Logger, today func() domain.Date) *ActivityHandler {
	return &ActivityHandler{repo: repo, logger: logger, today: today}
}

func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())

	filter, errs := parseActivityFilter(r.URL.Query(), user.ID)
	if len(errs) > 0 {
		writeValidation(w, errs)
		return
	}
	page, ok := parsePage(r.URL.Query())
	if !ok {
		writeError(w, http.StatusNotFound, "Invalid page.")
		return
	}

	activities, total, err := h.repo.List(r.Context(), filter, page)
	if err != nil {
		serverError(w, r, h.logger, "failed to list activities", err)
		return
	}
	if page.Page > 1 && page.Offset() >= total {
		writeError(w, http.StatusNotFound, "Invalid page.")
		return
	}

	resp := ActivityPage{Count: total, Results: newActivityViews(activities)}
	if page.Offset()+len(activities) < total {
		resp.Next = pageURL(r, page.Page+1)
	}
	if page.Page > 1 {
		resp.Previous = pageURL(r, page.Page-1)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ActivityHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	today := h.today()

	in := domain.NewActivityInput(today)
	if !decodeJSON(w, r, &in) {
		return
	}
	if errs := validation.Activity(in, today); len(errs) > 0 {
		writeValidation(w, errs)
		return
	}

	a := &domain.Activity{UserID: user.ID, Username: user.Username}
	if err := in.ApplyTo(a); err != nil {
		serverError(w, r, h.logger, "failed to create activity", err)
		return
	}
	if err := h.repo.Create(r.Context(), a); err != nil {
		serverError(w, r, h.logger, "failed to create activity", err)
		return
	}

	metrics.ActivitiesCreated.WithLabelValues(string(a.ActivityType)).Inc()
	writeJSON(w, http.StatusCreated, newActivityView(a))
}

func (h *ActivityHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newActivityView(a))
}

// Update replaces the activity; omitted optional fields are cleared and
// intensity and date fall back to their defaults.
func (h *ActivityHandler) Update(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, false)
}

// Patch changes only the fields present in the body.
func (h *ActivityHandler) Patch(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, true)
}

func (h *ActivityHandler) save(w http.ResponseWriter, r *http.Request, partial bool) {
	a, ok := h.load(w, r)
	if !ok {
		return
	}
	today := h.today()

	in := domain.NewActivityInput(today)
	if partial {
		in = domain.InputFromActivity(a)
	}
	if !decodeJSON(w, r, &in) {
		return
	}
	if errs := validation.Activity(in, today); len(errs) > 0 {
		writeValidation(w, errs)
		return
	}

	if err := in.ApplyTo(a); err != nil {
		serverError(w, r, h.logger, "failed to update activity", err)
		return
	}
	if err := h.repo.Update(r.Context(), a); err != nil {
		serverError(w, r, h.logger, "failed to update activity", err)
		return
	}
	writeJSON(w, http.StatusOK, newActivityView(a))
}

func (h *ActivityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	id, ok := activityID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	err := h.repo.DeleteForUser(r.Context(), id, user.ID)
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		serverError(w, r, h.logger, "failed to delete activity", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Metrics summarizes the caller's activities. A period shortcut and an
// explicit date_from both apply when given together.
func (h *ActivityHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	q := r.URL.Query()
	p := &queryParser{q: q}

	filter := domain.ActivityFilter{
		UserID:   user.ID,
		DateFrom: p.date("date_from"),
		DateTo:   p.date("date_to"),
		Types:    p.activityTypes("activity_type"),
	}
	if len(p.errs) > 0 {
		writeValidation(w, p.errs)
		return
	}
	if from, ok := stats.PeriodFrom(q.Get("period"), h.today()); ok {
		filter.PeriodFrom = from
	}

	activities, err := h.repo.ListAll(r.Context(), filter)
	if err != nil {
		serverError(w, r, h.logger, "failed to compute metrics", err)
		return
	}
	writeJSON(w, http.StatusOK, stats.Summarize(activities))
}

func (h *ActivityHandler) TypeStats(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	p := &queryParser{q: r.URL.Query()}

	filter := domain.ActivityFilter{
		UserID:   user.ID,
		DateFrom: p.date("date_from"),
		DateTo:   p.date("date_to"),
	}
	if len(p.errs) > 0 {
		writeValidation(w, p.errs)
		return
	}

	activities, err := h.repo.ListAll(r.Context(), filter)
	if err != nil {
		serverError(w, r, h.logger, "failed to compute type stats", err)
		return
	}
	writeJSON(w, http.StatusOK, stats.ByType(activities))
}

func (h *ActivityHandler) Recent(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())

	activities, err := h.repo.Recent(r.Context(), user.ID, domain.RecentLimit)
	if err != nil {
		serverError(w, r, h.logger, "failed to list recent activities", err)
		return
	}
	writeJSON(w, http.StatusOK, newActivityViews(activities))
}

// load fetches the activity named in the path for the current user,
// answering 404 for both missing and foreign activities.
func (h *ActivityHandler) load(w http.ResponseWriter, r *http.Request) (*domain.Activity, bool) {
	user := middleware.CurrentUser(r.Context())
	id, ok := activityID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return nil, false
	}

	a, err := h.repo.GetForUser(r.Context(), id, user.ID)
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return nil, false
	}
	if err != nil {
		serverError(w, r, h.logger, "failed to get activity", err)
		return nil, false
	}
	return a, true
}

func activityID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id, err == nil && id > 0
}
