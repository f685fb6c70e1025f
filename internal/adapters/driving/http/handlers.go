package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/brightpath-labs/zohobridge/internal/core/domain"
)

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Error string `json:"error" example:"invalid request body"`
}

// StatusResponse represents a simple status response
// @Description Simple status response
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// VersionResponse represents the API version response
// @Description API version response
type VersionResponse struct {
	Version string `json:"version" example:"1.0.0"`
}

// CreateRequest is the payload for the combined account-and-deal create.
// @Description Account and deal creation payload
type CreateRequest struct {
	domain.AccountInput
	domain.DealInput
}

// CreateResponse carries the provider's records for a successful create.
// @Description Created account and deal as returned by Zoho
type CreateResponse struct {
	Account json.RawMessage `json:"account"`
	Deal    json.RawMessage `json:"deal"`
}

// DealStagesResponse lists the selectable deal stages.
// @Description Deal stage picklist
type DealStagesResponse struct {
	Stages []domain.DealStage `json:"stages"`
}

// Health endpoints

// handleHealth godoc
// @Summary      Health check
// @Description  Returns the health status of the API
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady godoc
// @Summary      Readiness check
// @Description  Returns the readiness status of the API (checks database and redis connections)
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Failure      503  {object}  ErrorResponse
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	if s.redisClient != nil {
		if err := s.redisClient.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "redis unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleVersion godoc
// @Summary      Get API version
// @Description  Returns the current API version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  VersionResponse
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// Authorization flow

// handleBeginAuth godoc
// @Summary      Start Zoho authorization
// @Description  Redirects the browser to the Zoho consent page
// @Tags         Auth
// @Success      302
// @Failure      500  {object}  ErrorResponse
// @Router       /auth/zoho [get]
func (s *Server) handleBeginAuth(w http.ResponseWriter, r *http.Request) {
	authURL, err := s.tokenService.BeginAuth(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to start authorization")
		return
	}
	http.Redirect(w, r, authURL, http.StatusFound)
}

// handleAuthCallback godoc
// @Summary      Zoho authorization callback
// @Description  Exchanges the one-time code delivered by Zoho for a token pair
// @Tags         Auth
// @Produce      json
// @Param        code      query  string  true   "authorization code"
// @Param        state     query  string  true   "CSRF state"
// @Param        location  query  string  false  "Zoho deployment zone"
// @Success      200  {object}  StatusResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /oauth2callback [get]
func (s *Server) handleAuthCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if errParam := query.Get("error"); errParam != "" {
		writeError(w, http.StatusBadRequest, "authorization denied: "+errParam)
		return
	}

	code := query.Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "missing authorization code")
		return
	}

	// Zoho reports the user's deployment zone in the location parameter.
	region, err := domain.ParseRegion(query.Get("location"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown deployment zone")
		return
	}

	if err := s.tokenService.ExchangeCode(r.Context(), code, query.Get("state"), region); err != nil {
		if errors.Is(err, domain.ErrInvalidState) {
			writeError(w, http.StatusBadRequest, "invalid or expired state")
			return
		}
		writeError(w, http.StatusBadGateway, "authorization code exchange failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "authorized",
		"region": string(region),
	})
}

// CRM endpoints

// handleCreate godoc
// @Summary      Create an account and a linked deal
// @Description  Creates a Zoho account, then a deal linked to it. A deal failure leaves the account in place and reports it.
// @Tags         CRM
// @Accept       json
// @Produce      json
// @Param        request  body  CreateRequest  true  "account and deal fields"
// @Success      201  {object}  CreateResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      422  {object}  ErrorResponse
// @Router       /api/zoho/create [post]
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.crmService.CreateAccountAndDeal(r.Context(), req.AccountInput, req.DealInput)
	if err != nil {
		s.writeCreateError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, CreateResponse{
		Account: result.Account,
		Deal:    result.Deal,
	})
}

func (s *Server) writeCreateError(w http.ResponseWriter, err error) {
	var partialErr *domain.PartialCreateError
	var provErr *domain.ProviderError

	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidStage):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrTokenMissing), errors.Is(err, domain.ErrTokenExpired):
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"error":         "Unauthorized",
			"authenticated": false,
		})
	case errors.Is(err, domain.ErrStagesUnavailable):
		writeError(w, http.StatusBadGateway, domain.ErrStagesUnavailable.Error())
	case errors.As(err, &partialErr):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":   partialErr.Error(),
			"account": partialErr.Account,
			"details": partialErr.Detail,
		})
	case errors.As(err, &provErr):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":   provErr.Error(),
			"details": provErr.Detail,
		})
	default:
		writeError(w, http.StatusInternalServerError, "failed to create records")
	}
}

// handleDealStages godoc
// @Summary      List deal stages
// @Description  Returns the live Stage picklist of the Deals module
// @Tags         CRM
// @Produce      json
// @Success      200  {object}  DealStagesResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      502  {object}  ErrorResponse
// @Router       /api/zoho/deal-stages [get]
func (s *Server) handleDealStages(w http.ResponseWriter, r *http.Request) {
	stages, err := s.crmService.DealStages(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenMissing), errors.Is(err, domain.ErrTokenExpired):
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"error":         "Unauthorized",
				"authenticated": false,
			})
		default:
			writeError(w, http.StatusBadGateway, domain.ErrStagesUnavailable.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, DealStagesResponse{Stages: stages})
}

// handleOrphans godoc
// @Summary      List orphaned accounts
// @Description  Returns accounts whose dependent deal creation failed
// @Tags         CRM
// @Produce      json
// @Success      200  {array}   domain.OrphanedRecord
// @Failure      500  {object}  ErrorResponse
// @Router       /api/zoho/orphans [get]
func (s *Server) handleOrphans(w http.ResponseWriter, r *http.Request) {
	records, err := s.crmService.Orphans(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list orphaned records")
		return
	}
	if records == nil {
		records = []*domain.OrphanedRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

// Helper functions

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
