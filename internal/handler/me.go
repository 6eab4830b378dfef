package handler

import (
	"net/http"

	"github.com/dropa-gg/dropa/internal/domain"
	"github.com/dropa-gg/dropa/internal/user"
)

// ItemsResponse is one page of the caller's inventory
type ItemsResponse struct {
	Items  []domain.OwnedItem `json:"items"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}

// OpeningsResponse is one page of the caller's pack history
type OpeningsResponse struct {
	Openings []domain.PackOpening `json:"openings"`
	Limit    int                  `json:"limit"`
	Offset   int                  `json:"offset"`
}

// MeHandlers serves the caller's own records
type MeHandlers struct {
	users user.Service
}

// NewMeHandlers creates the caller-scoped handlers
func NewMeHandlers(users user.Service) *MeHandlers {
	return &MeHandlers{users: users}
}

// HandleGetStats returns the caller's aggregate stats
// @Summary My stats
// @Tags me
// @Produce json
// @Param X-User-ID header string true "Caller user ID"
// @Success 200 {object} domain.UserStats
// @Failure 401 {object} ErrorResponse
// @Router /me/stats [get]
func (h *MeHandlers) HandleGetStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := requirePrincipal(w, r)
		if !ok {
			return
		}
		stats, err := h.users.GetStats(r.Context(), principal.UserID)
		if err != nil {
			respondServiceError(w, r, OpGetStats, err)
			return
		}
		respondJSON(w, http.StatusOK, stats)
	}
}

// HandleListItems returns the caller's inventory, newest first
// @Summary My items
// @Tags me
// @Produce json
// @Param X-User-ID header string true "Caller user ID"
// @Param limit query int false "Page size (1-500)"
// @Param offset query int false "Rows to skip"
// @Success 200 {object} ItemsResponse
// @Failure 400 {object} ErrorResponse
// @Router /me/items [get]
func (h *MeHandlers) HandleListItems() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := requirePrincipal(w, r)
		if !ok {
			return
		}
		limit, offset, ok := pageParams(w, r)
		if !ok {
			return
		}
		items, err := h.users.ListItems(r.Context(), principal.UserID, limit, offset)
		if err != nil {
			respondServiceError(w, r, OpListItems, err)
			return
		}
		respondJSON(w, http.StatusOK, ItemsResponse{Items: items, Limit: limit, Offset: offset})
	}
}

// HandleListOpenings returns the caller's pack history, newest first
// @Summary My pack openings
// @Tags me
// @Produce json
// @Param X-User-ID header string true "Caller user ID"
// @Param limit query int false "Page size (1-500)"
// @Param offset query int false "Rows to skip"
// @Success 200 {object} OpeningsResponse
// @Failure 400 {object} ErrorResponse
// @Router /me/openings [get]
func (h *MeHandlers) HandleListOpenings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := requirePrincipal(w, r)
		if !ok {
			return
		}
		limit, offset, ok := pageParams(w, r)
		if !ok {
			return
		}
		openings, err := h.users.ListOpenings(r.Context(), principal.UserID, limit, offset)
		if err != nil {
			respondServiceError(w, r, OpListOpenings, err)
			return
		}
		respondJSON(w, http.StatusOK, OpeningsResponse{Openings: openings, Limit: limit, Offset: offset})
	}
}
