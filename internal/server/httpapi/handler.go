// Package httpapi is the REST surface of the budget server: transaction
// create and list endpoints, the dashboard and the profile.
package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/budgetkeeper/internal/common"
	"github.com/dmitrijs2005/budgetkeeper/internal/logging"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/models"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Transactions interface {
	CreateExpense(ctx context.Context, userID string, in models.TransactionInput) (*models.Expense, error)
	CreateIncome(ctx context.Context, userID string, in models.TransactionInput) (*models.Income, error)
	ListExpenses(ctx context.Context, userID string) ([]*models.Expense, error)
	ListIncomes(ctx context.Context, userID string) ([]*models.Income, error)
	Dashboard(ctx context.Context, userID string, limit int) (*services.Dashboard, error)
}

type Profiles interface {
	Get(ctx context.Context, userID string) (*models.Profile, error)
	Update(ctx context.Context, userID string, in models.ProfileInput) (*models.Profile, error)
	AvatarUploadURL(ctx context.Context, userID, contentType string) (key, url string, err error)
}

// Pinger reports database health for /health.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handler struct {
	tx             Transactions
	profiles       Profiles
	db             Pinger
	log            logging.Logger
	jwtSecret      []byte
	dashboardLimit int
	registry       *prometheus.Registry
	metrics        *Metrics
}

func NewHandler(tx Transactions, profiles Profiles, db Pinger, log logging.Logger, secretKey string, dashboardLimit int) *Handler {
	reg := prometheus.NewRegistry()
	return &Handler{
		tx:             tx,
		profiles:       profiles,
		db:             db,
		log:            log.With("module", "http_api"),
		jwtSecret:      []byte(secretKey),
		dashboardLimit: dashboardLimit,
		registry:       reg,
		metrics:        NewMetrics(reg),
	}
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(h.metrics.middleware)

	r.Get("/health", h.health)
	r.Handle("/metrics", promhttp.HandlerFor(h.registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Use(h.authenticate)

		r.Get("/expense", h.listExpenses)
		r.Get("/income", h.listIncomes)
		r.Get("/dashboard", h.dashboard)
		r.Get("/profile", h.getProfile)

		r.Group(func(r chi.Router) {
			r.Use(requireUser)
			r.Post("/expense", h.createExpense)
			r.Post("/income", h.createIncome)
			r.Put("/profile", h.putProfile)
			r.Post("/profile/avatar", h.avatarUpload)
		})
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		if err := h.db.PingContext(r.Context()); err != nil {
			h.log.Error(r.Context(), "database ping failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// createStatus maps a service error to a status and a message safe to show.
func createStatus(err error, fallback string) (int, string) {
	if errors.Is(err, common.ErrorValidation) {
		return http.StatusBadRequest, err.Error()
	}
	return http.StatusInternalServerError, fallback
}

func (h *Handler) createExpense(w http.ResponseWriter, r *http.Request) {
	var in models.TransactionInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	e, err := h.tx.CreateExpense(r.Context(), UserID(r.Context()), in)
	if err != nil {
		h.log.Error(r.Context(), "create expense failed", "error", err)
		status, msg := createStatus(err, "Failed to save expense")
		writeError(w, status, msg)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"expense": e})
}

func (h *Handler) createIncome(w http.ResponseWriter, r *http.Request) {
	var in models.TransactionInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	i, err := h.tx.CreateIncome(r.Context(), UserID(r.Context()), in)
	if err != nil {
		h.log.Error(r.Context(), "create income failed", "error", err)
		status, msg := createStatus(err, "Failed to save income")
		writeError(w, status, msg)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"income": i})
}

func (h *Handler) listExpenses(w http.ResponseWriter, r *http.Request) {
	userID := UserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusOK, map[string]any{"expenses": []*models.Expense{}})
		return
	}
	rows, err := h.tx.ListExpenses(r.Context(), userID)
	if err != nil {
		h.log.Error(r.Context(), "list expenses failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"expenses": []*models.Expense{}})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"expenses": nonNil(rows)})
}

func (h *Handler) listIncomes(w http.ResponseWriter, r *http.Request) {
	userID := UserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusOK, map[string]any{"incomes": []*models.Income{}})
		return
	}
	rows, err := h.tx.ListIncomes(r.Context(), userID)
	if err != nil {
		h.log.Error(r.Context(), "list incomes failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"incomes": []*models.Income{}})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"incomes": nonNil(rows)})
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	empty := services.Dashboard{Expenses: []*models.Expense{}, Incomes: []*models.Income{}}

	userID := UserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusOK, empty)
		return
	}
	d, err := h.tx.Dashboard(r.Context(), userID, h.dashboardLimit)
	if err != nil {
		h.log.Error(r.Context(), "dashboard failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, empty)
		return
	}
	d.Expenses = nonNil(d.Expenses)
	d.Incomes = nonNil(d.Incomes)
	writeJSON(w, http.StatusOK, d)
}

type profileBody struct {
	Profile *models.Profile `json:"profile"`
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	userID := UserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusOK, profileBody{})
		return
	}
	p, err := h.profiles.Get(r.Context(), userID)
	if err != nil {
		h.log.Error(r.Context(), "get profile failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load profile")
		return
	}
	writeJSON(w, http.StatusOK, profileBody{Profile: p})
}

func (h *Handler) putProfile(w http.ResponseWriter, r *http.Request) {
	var in models.ProfileInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.profiles.Update(r.Context(), UserID(r.Context()), in)
	if err != nil {
		h.log.Error(r.Context(), "save profile failed", "error", err)
		status, msg := createStatus(err, "Failed to save profile")
		writeError(w, status, msg)
		return
	}
	writeJSON(w, http.StatusOK, profileBody{Profile: p})
}

type avatarRequest struct {
	ContentType string `json:"contentType"`
}

type avatarResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

func (h *Handler) avatarUpload(w http.ResponseWriter, r *http.Request) {
	var in avatarRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	key, url, err := h.profiles.AvatarUploadURL(r.Context(), UserID(r.Context()), in.ContentType)
	if err != nil {
		h.log.Error(r.Context(), "avatar presign failed", "error", err)
		status, msg := createStatus(err, "Failed to prepare avatar upload")
		writeError(w, status, msg)
		return
	}
	writeJSON(w, http.StatusOK, avatarResponse{Key: key, URL: url})
}

func nonNil[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}
