// Package handler exposes the reference data store over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"polly/internal/codelist/models"
	"polly/internal/codelist/refreshlog"
	"polly/internal/codelist/rules"
	"polly/internal/codelist/store"
	jwttoken "polly/internal/jwt_token"
	dErrors "polly/pkg/domain-errors"
	"polly/pkg/platform/httputil"
	"polly/pkg/platform/middleware/admin"
	pstrings "polly/pkg/platform/strings"
	"polly/pkg/requestcontext"
)

// AdminTrigger labels refresh rounds requested through the admin endpoint.
const AdminTrigger = "admin"

// Store is the part of the reference data store the HTTP API reads.
type Store interface {
	AllCodes() map[models.ListName][]models.Code
	MakeIDLabelForAllCodeLists() []models.Option
	GetCodes(list models.ListName) []models.Code
	GetCode(list models.ListName, code string) (models.Code, bool)
	GetParsedOptionsFilterOutSelected(list models.ListName, selected []string) []models.Option
	GetParsedOptionsForList(list models.ListName, selected []string) []models.Option
	GetCountries() []models.CountryCode
	GetCountryCodesOutsideEU() []models.CountryCode
	CountryName(code string) string
	IsLoaded() bool
	Phase() store.Phase
	Generation() uint64
	Refresh(ctx context.Context) store.Report
}

var _ Store = (*store.Store)(nil)

// Handler serves the code list API.
type Handler struct {
	store      Store
	logger     *slog.Logger
	refreshLog refreshlog.Log
	validator  admin.TokenValidator
}

// Option configures a Handler.
type Option func(*Handler)

// WithRefreshLog enables GET /admin/codelist/refreshes.
func WithRefreshLog(l refreshlog.Log) Option {
	return func(h *Handler) {
		h.refreshLog = l
	}
}

// WithAdminValidator enables the admin routes, guarded by tokens that carry
// the codelist admin role.
func WithAdminValidator(v admin.TokenValidator) Option {
	return func(h *Handler) {
		h.validator = v
	}
}

// New creates a new code list Handler.
func New(s Store, logger *slog.Logger, opts ...Option) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{store: s, logger: logger}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register registers the code list routes. Admin routes are only mounted
// when an admin token validator is configured.
func (h *Handler) Register(r chi.Router) {
	r.Route("/codelist", func(r chi.Router) {
		r.Get("/", h.handleAllCodes)
		r.Get("/lists", h.handleLists)
		r.Get("/countries", h.handleCountries)
		r.Get("/countries/outside-eu", h.handleCountriesOutsideEU)
		r.Get("/countries/{code}", h.handleCountry)
		r.Get("/rules/{code}", h.handleRules)
		r.Get("/{list}", h.handleCodes)
		r.Get("/{list}/options", h.handleOptions)
		r.Get("/{list}/labels", h.handleLabels)
		r.Get("/{list}/{code}", h.handleCode)
	})

	if h.validator == nil {
		return
	}
	r.Route("/admin/codelist", func(r chi.Router) {
		r.Use(admin.RequireRole(h.validator, jwttoken.RoleCodelistAdmin, h.logger))
		r.Post("/refresh", h.handleRefresh)
		r.Get("/refreshes", h.handleRefreshes)
	})
}

func (h *Handler) handleAllCodes(w http.ResponseWriter, r *http.Request) {
	all := h.store.AllCodes()
	resp := make(map[string][]models.Code, len(all))
	for name, codes := range all {
		resp[name.String()] = codes
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleLists(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.store.MakeIDLabelForAllCodeLists())
}

func (h *Handler) handleCodes(w http.ResponseWriter, r *http.Request) {
	list, ok := h.listParam(w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.store.GetCodes(list))
}

func (h *Handler) handleOptions(w http.ResponseWriter, r *http.Request) {
	list, ok := h.listParam(w, r)
	if !ok {
		return
	}
	exclude := queryList(r, "exclude")
	httputil.WriteJSON(w, http.StatusOK, h.store.GetParsedOptionsFilterOutSelected(list, exclude))
}

func (h *Handler) handleLabels(w http.ResponseWriter, r *http.Request) {
	list, ok := h.listParam(w, r)
	if !ok {
		return
	}
	codes := queryList(r, "codes")
	httputil.WriteJSON(w, http.StatusOK, h.store.GetParsedOptionsForList(list, codes))
}

func (h *Handler) handleCode(w http.ResponseWriter, r *http.Request) {
	list, ok := h.listParam(w, r)
	if !ok {
		return
	}
	if !h.store.IsLoaded() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnavailable, "code lists are not loaded yet"))
		return
	}
	code := chi.URLParam(r, "code")
	c, found := h.store.GetCode(list, code)
	if !found {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "code not found in list "+list.String()))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) handleCountries(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.store.GetCountries())
}

func (h *Handler) handleCountriesOutsideEU(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.store.GetCountryCodesOutsideEU())
}

func (h *Handler) handleCountry(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(chi.URLParam(r, "code"))
	httputil.WriteJSON(w, http.StatusOK, countryResponse{
		Code: code,
		Name: h.store.CountryName(code),
	})
}

func (h *Handler) handleRules(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, rules.Evaluate(chi.URLParam(r, "code")))
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subject := requestcontext.AdminSubject(ctx)

	report := h.store.Refresh(requestcontext.WithTrigger(ctx, AdminTrigger))
	if report.Closed {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnavailable, "codelist store is shutting down"))
		return
	}

	h.logger.InfoContext(ctx, "admin refresh",
		"subject", subject,
		"round_id", report.ID.String(),
		"generation", report.Generation,
		"failed_sources", len(report.Failed()),
		"request_id", requestcontext.RequestID(ctx),
	)
	httputil.WriteJSON(w, http.StatusOK, toReportResponse(report))
}

func (h *Handler) handleRefreshes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.refreshLog == nil {
		httputil.WriteJSON(w, http.StatusOK, refreshesResponse{Refreshes: []refreshlog.Entry{}})
		return
	}

	limit, err := queryLimit(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	entries, err := h.refreshLog.Recent(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list refresh log",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list refreshes"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, refreshesResponse{Refreshes: entries})
}

func (h *Handler) listParam(w http.ResponseWriter, r *http.Request) (models.ListName, bool) {
	list, err := models.ParseListName(chi.URLParam(r, "list"))
	if err != nil {
		httputil.WriteError(w, err)
		return "", false
	}
	return list, true
}

// queryList reads a comma-separated query parameter, which may also repeat.
func queryList(r *http.Request, key string) []string {
	return pstrings.SplitList(r.URL.Query()[key], ",")
}
