package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dropa-gg/dropa/internal/audit"
	"github.com/dropa-gg/dropa/internal/catalog"
	"github.com/dropa-gg/dropa/internal/domain"
	"github.com/dropa-gg/dropa/internal/logger"
	"github.com/dropa-gg/dropa/internal/reconcile"
	"github.com/dropa-gg/dropa/internal/user"
)

// AdminHandlers serves the capability-checked admin routes
type AdminHandlers struct {
	reconciler reconcile.Service
	audit      audit.Service
	catalog    catalog.Service
	users      user.Service
}

// NewAdminHandlers creates the admin handlers
func NewAdminHandlers(reconciler reconcile.Service, auditSvc audit.Service, catalogSvc catalog.Service, users user.Service) *AdminHandlers {
	return &AdminHandlers{
		reconciler: reconciler,
		audit:      auditSvc,
		catalog:    catalogSvc,
		users:      users,
	}
}

// ConsistencyResponse lists users whose stats drift from the ledger
type ConsistencyResponse struct {
	Count           int                    `json:"count"`
	Inconsistencies []domain.Inconsistency `json:"inconsistencies"`
}

// AuditResponse is one page of audit entries, newest first
type AuditResponse struct {
	Entries []domain.AuditEntry `json:"entries"`
}

// CacheStatsResponse reports the read caches
type CacheStatsResponse struct {
	Users   user.CacheStats    `json:"users"`
	Catalog catalog.CacheStats `json:"catalog"`
}

// RegisterUserRequest creates a user
type RegisterUserRequest struct {
	Username string `json:"username" validate:"required,username"`
	Role     string `json:"role" validate:"omitempty,role"`
}

// AddCreditsRequest tops up a balance
type AddCreditsRequest struct {
	Amount int    `json:"amount" validate:"required,min=1,max=1000000"`
	Reason string `json:"reason" validate:"required,max=200"`
}

// HandleCheckConsistency reports stats drift without changing anything
// @Summary Check stats consistency
// @Tags admin
// @Produce json
// @Success 200 {object} ConsistencyResponse
// @Failure 403 {object} ErrorResponse
// @Router /admin/stats/consistency [get]
func (h *AdminHandlers) HandleCheckConsistency() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		found, err := h.reconciler.CheckConsistency(r.Context())
		if err != nil {
			respondServiceError(w, r, OpCheckConsistency, err)
			return
		}
		if found == nil {
			found = []domain.Inconsistency{}
		}
		respondJSON(w, http.StatusOK, ConsistencyResponse{Count: len(found), Inconsistencies: found})
	}
}

// HandleFixStats rewrites one user's stats from the ledger
// @Summary Fix user stats
// @Tags admin
// @Produce json
// @Param userID path string true "User ID"
// @Success 200 {object} domain.FixResult
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/stats/fix/{userID} [post]
func (h *AdminHandlers) HandleFixStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := uuidParam(w, r, PathParamUserID)
		if !ok {
			return
		}
		result, err := h.reconciler.Fix(r.Context(), userID)
		if err != nil {
			respondServiceError(w, r, OpFixStats, err)
			return
		}
		respondJSON(w, http.StatusOK, result)
	}
}

// HandleFixAllStats fixes every drifting user
// @Summary Fix all stats
// @Description Runs under a run lock; a concurrent run gets 409.
// @Tags admin
// @Produce json
// @Success 200 {object} domain.FixAllResult
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /admin/stats/fix-all [post]
func (h *AdminHandlers) HandleFixAllStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := h.reconciler.FixAll(r.Context())
		if err != nil {
			respondServiceError(w, r, OpFixAllStats, err)
			return
		}
		respondJSON(w, http.StatusOK, result)
	}
}

// HandleListAudit queries the audit log
// @Summary List audit entries
// @Tags admin
// @Produce json
// @Param user_id query string false "User ID"
// @Param action query string false "Action, e.g. PACK_OPENED"
// @Param source query string false "Source, e.g. FREE_PACK"
// @Param success query bool false "Only successes or failures"
// @Param since query string false "RFC3339 lower bound"
// @Param until query string false "RFC3339 upper bound"
// @Param limit query int false "Page size (1-500)"
// @Success 200 {object} AuditResponse
// @Failure 400 {object} ErrorResponse
// @Router /admin/audit [get]
func (h *AdminHandlers) HandleListAudit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseAuditFilter(r)
		if err != nil {
			logger.FromContext(r.Context()).Warn("Invalid audit filter", "error", err)
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		entries, err := h.audit.List(r.Context(), filter)
		if err != nil {
			respondServiceError(w, r, OpListAudit, err)
			return
		}
		if entries == nil {
			entries = []domain.AuditEntry{}
		}
		respondJSON(w, http.StatusOK, AuditResponse{Entries: entries})
	}
}

func parseAuditFilter(r *http.Request) (domain.AuditFilter, error) {
	q := r.URL.Query()
	filter := domain.AuditFilter{Limit: DefaultPageLimit}

	if v := q.Get(ParamUserID); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return filter, fmt.Errorf(ErrMsgInvalidFilter, ParamUserID)
		}
		filter.UserID = &id
	}
	if v := q.Get(ParamAction); v != "" {
		action := domain.AuditAction(strings.ToUpper(v))
		filter.Action = &action
	}
	if v := q.Get(ParamSource); v != "" {
		source := domain.Source(strings.ToUpper(v))
		filter.Source = &source
	}
	if v := q.Get(ParamSuccess); v != "" {
		success, err := strconv.ParseBool(v)
		if err != nil {
			return filter, fmt.Errorf(ErrMsgInvalidFilter, ParamSuccess)
		}
		filter.Success = &success
	}
	for _, bound := range []struct {
		name string
		dst  **time.Time
	}{{ParamSince, &filter.Since}, {ParamUntil, &filter.Until}} {
		v := q.Get(bound.name)
		if v == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, fmt.Errorf(ErrMsgInvalidFilter, bound.name)
		}
		*bound.dst = &t
	}
	if v := q.Get(ParamLimit); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 || limit > MaxPageLimit {
			return filter, fmt.Errorf(ErrMsgInvalidFilter, ParamLimit)
		}
		filter.Limit = limit
	}
	return filter, nil
}

// HandleInvalidateCatalog drops the catalog read cache
// @Summary Invalidate catalog cache
// @Tags admin
// @Produce json
// @Success 200 {object} SuccessResponse
// @Router /admin/catalog/invalidate [post]
func (h *AdminHandlers) HandleInvalidateCatalog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.catalog.Invalidate(r.Context())
		respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgCatalogInvalidated})
	}
}

// HandleGetCacheStats returns cache hit/miss counters
// @Summary Cache stats
// @Tags admin
// @Produce json
// @Success 200 {object} CacheStatsResponse
// @Router /admin/cache/stats [get]
func (h *AdminHandlers) HandleGetCacheStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, CacheStatsResponse{
			Users:   h.users.CacheStats(),
			Catalog: h.catalog.CacheStats(),
		})
	}
}

// HandleRegisterUser creates a user with zero credits
// @Summary Register user
// @Tags admin
// @Accept json
// @Produce json
// @Param request body RegisterUserRequest true "User"
// @Success 201 {object} domain.User
// @Failure 400 {object} ValidationErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /admin/users [post]
func (h *AdminHandlers) HandleRegisterUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterUserRequest
		if err := decodeRequest(w, r, &req, OpRegisterUser); err != nil {
			return
		}
		role := domain.RoleUser
		if req.Role != "" {
			role = domain.Role(strings.ToUpper(req.Role))
		}
		u, err := h.users.Register(r.Context(), req.Username, role)
		if err != nil {
			respondServiceError(w, r, OpRegisterUser, err)
			return
		}
		respondJSON(w, http.StatusCreated, u)
	}
}

// HandleAddCredits tops up a user's balance
// @Summary Add credits
// @Tags admin
// @Accept json
// @Produce json
// @Param userID path string true "User ID"
// @Param request body AddCreditsRequest true "Top-up"
// @Success 200 {object} domain.User
// @Failure 400 {object} ValidationErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/users/{userID}/credits [post]
func (h *AdminHandlers) HandleAddCredits() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := requirePrincipal(w, r)
		if !ok {
			return
		}
		userID, ok := uuidParam(w, r, PathParamUserID)
		if !ok {
			return
		}
		var req AddCreditsRequest
		if err := decodeRequest(w, r, &req, OpAddCredits); err != nil {
			return
		}
		u, err := h.users.AddCredits(r.Context(), principal.UserID, userID, req.Amount, req.Reason)
		if err != nil {
			respondServiceError(w, r, OpAddCredits, err)
			return
		}
		respondJSON(w, http.StatusOK, u)
	}
}
