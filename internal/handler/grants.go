package handler

import (
	"net/http"

	"github.com/dropa-gg/dropa/internal/domain"
	"github.com/dropa-gg/dropa/internal/pack"
)

// GrantsResponse lists a user's pack grants
type GrantsResponse struct {
	Grants []domain.PackGrant `json:"grants"`
}

// HandleGenerateFreePack issues the caller's one free pack
// @Summary Generate free pack
// @Description Issues the caller's single FREE_PACK grant with a weighted random tier.
// @Tags grants
// @Produce json
// @Param X-User-ID header string true "Caller user ID"
// @Success 201 {object} domain.PackGrant
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /free-pack [post]
func HandleGenerateFreePack(svc pack.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := requirePrincipal(w, r)
		if !ok {
			return
		}
		grant, err := svc.GenerateFreePack(r.Context(), principal.UserID)
		if err != nil {
			respondServiceError(w, r, OpFreePack, err)
			return
		}
		respondJSON(w, http.StatusCreated, grant)
	}
}

// HandleListGrants lists the caller's grants, claimed or not
// @Summary List pack grants
// @Tags grants
// @Produce json
// @Param X-User-ID header string true "Caller user ID"
// @Success 200 {object} GrantsResponse
// @Failure 401 {object} ErrorResponse
// @Router /grants [get]
func HandleListGrants(svc pack.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := requirePrincipal(w, r)
		if !ok {
			return
		}
		grants, err := svc.ListGrants(r.Context(), principal.UserID)
		if err != nil {
			respondServiceError(w, r, OpListGrants, err)
			return
		}
		respondJSON(w, http.StatusOK, GrantsResponse{Grants: grants})
	}
}

// HandleClaimGrant opens a granted pack
// @Summary Claim pack grant
// @Description Opens a pack grant without a credit debit. Each grant opens once.
// @Tags grants
// @Produce json
// @Param grantID path string true "Grant ID"
// @Param X-User-ID header string true "Caller user ID"
// @Success 200 {object} domain.OpenResult
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /grants/{grantID}/claim [post]
func HandleClaimGrant(svc pack.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := requirePrincipal(w, r)
		if !ok {
			return
		}
		grantID, ok := uuidParam(w, r, PathParamGrantID)
		if !ok {
			return
		}
		result, err := svc.ClaimPackGrant(r.Context(), principal.UserID, grantID)
		if err != nil {
			respondServiceError(w, r, OpClaimGrant, err)
			return
		}
		respondJSON(w, http.StatusOK, result)
	}
}
