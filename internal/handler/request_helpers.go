package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dropa-gg/dropa/internal/auth"
	"github.com/dropa-gg/dropa/internal/logger"
)

// ValidationErrorResponse is the 400 body for a request that decoded but failed validation.
type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// decodeRequest reads a JSON body into dst and validates it. A non-nil
// error means the response is already written.
func decodeRequest(w http.ResponseWriter, r *http.Request, dst any, op string) error {
	log := logger.FromContext(r.Context()).With("op", op)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		log.Warn(LogMsgDecodeFailed, "error", err)
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
		return err
	}

	if err := GetValidator().ValidateStruct(dst); err != nil {
		log.Debug(LogMsgValidationFailed, "error", err)
		respondJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:  ErrMsgInvalidRequestSummary,
			Fields: FormatValidationError(err),
		})
		return err
	}
	return nil
}

// uuidParam parses a chi path parameter. ok=false means a 400 was written.
func uuidParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		logger.FromContext(r.Context()).Warn(LogMsgInvalidPathParam, "param", name, "error", err)
		respondError(w, http.StatusBadRequest, fmt.Sprintf(ErrMsgInvalidPathID, name))
		return uuid.Nil, false
	}
	return id, true
}

// queryInt returns def when the parameter is absent.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

// pageParams reads limit/offset. ok=false means a 400 was written.
func pageParams(w http.ResponseWriter, r *http.Request) (limit, offset int, ok bool) {
	limit, err := queryInt(r, ParamLimit, DefaultPageLimit)
	if err != nil || limit < 1 || limit > MaxPageLimit {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidLimit)
		return 0, 0, false
	}
	offset, err = queryInt(r, ParamOffset, 0)
	if err != nil || offset < 0 {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidOffset)
		return 0, 0, false
	}
	return limit, offset, true
}

// requirePrincipal returns the identified caller. ok=false means a 401 was written.
func requirePrincipal(w http.ResponseWriter, r *http.Request) (*auth.Principal, bool) {
	p := auth.PrincipalFromContext(r.Context())
	if p == nil {
		respondError(w, http.StatusUnauthorized, ErrMsgMissingIdentity)
		return nil, false
	}
	return p, true
}
