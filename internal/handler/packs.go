package handler

import (
	"net/http"

	"github.com/dropa-gg/dropa/internal/catalog"
	"github.com/dropa-gg/dropa/internal/domain"
	"github.com/dropa-gg/dropa/internal/logger"
	"github.com/dropa-gg/dropa/internal/pack"
)

// PacksResponse lists the packs on sale
type PacksResponse struct {
	Packs []domain.Pack `json:"packs"`
}

// AchievementsResponse lists every achievement
type AchievementsResponse struct {
	Achievements []domain.Achievement `json:"achievements"`
}

// HandleListPacks returns every active pack with its rarity table
// @Summary List packs
// @Description Active packs with their rarity probabilities
// @Tags packs
// @Produce json
// @Success 200 {object} PacksResponse
// @Failure 500 {object} ErrorResponse
// @Router /packs [get]
func HandleListPacks(svc catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		packs, err := svc.ListPacks(r.Context())
		if err != nil {
			respondServiceError(w, r, OpListPacks, err)
			return
		}
		respondJSON(w, http.StatusOK, PacksResponse{Packs: packs})
	}
}

// HandleGetPack returns one pack
// @Summary Get pack
// @Tags packs
// @Produce json
// @Param packID path string true "Pack ID"
// @Success 200 {object} domain.Pack
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /packs/{packID} [get]
func HandleGetPack(svc catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		packID, ok := uuidParam(w, r, PathParamPackID)
		if !ok {
			return
		}
		p, err := svc.GetPack(r.Context(), packID)
		if err != nil {
			respondServiceError(w, r, OpGetPack, err)
			return
		}
		respondJSON(w, http.StatusOK, p)
	}
}

// HandleListAchievements returns the achievement catalog
// @Summary List achievements
// @Tags packs
// @Produce json
// @Success 200 {object} AchievementsResponse
// @Router /achievements [get]
func HandleListAchievements(svc catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		achievements, err := svc.ListAchievements(r.Context())
		if err != nil {
			respondServiceError(w, r, OpListAchievements, err)
			return
		}
		respondJSON(w, http.StatusOK, AchievementsResponse{Achievements: achievements})
	}
}

// HandleOpenPack debits the caller and opens a pack
// @Summary Open pack
// @Description Debits the pack price and grants one item atomically. A 409 means a scarce item was taken concurrently and the open can be retried.
// @Tags packs
// @Produce json
// @Param packID path string true "Pack ID"
// @Param X-User-ID header string true "Caller user ID"
// @Success 200 {object} domain.OpenResult
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 402 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /packs/{packID}/open [post]
func HandleOpenPack(svc pack.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := requirePrincipal(w, r)
		if !ok {
			return
		}
		packID, ok := uuidParam(w, r, PathParamPackID)
		if !ok {
			return
		}

		result, err := svc.OpenPack(r.Context(), principal.UserID, packID)
		if err != nil {
			respondServiceError(w, r, OpOpenPack, err)
			return
		}

		logger.FromContext(r.Context()).Info("Pack opened",
			"user_id", principal.UserID, "pack_id", packID, "rarity", result.Rarity, "item_id", result.Item.ID)
		respondJSON(w, http.StatusOK, result)
	}
}
