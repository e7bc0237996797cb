package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"membership-entitlement/internal/domain"
	"membership-entitlement/internal/domain/model"
	"membership-entitlement/internal/infra/metrics"
	"membership-entitlement/internal/usecase"

	"github.com/go-chi/chi/v5"
)

type loginRequest struct {
	APIKey string `json:"api_key"`
	UserID string `json:"user_id"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if s.apiKey == "" || req.APIKey != s.apiKey {
		metrics.IncAdminCommand("login", "unauthorized")
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	tier, err := s.facade.ResolveUserTier(r.Context(), req.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if tier != model.TierAdmin {
		metrics.IncAdminCommand("login", "unauthorized")
		http.Error(w, "Forbidden: admin tier required", http.StatusForbidden)
		return
	}
	if _, err := s.auth.Mint(w, req.UserID); err != nil {
		http.Error(w, "Failed to mint session", http.StatusInternalServerError)
		return
	}
	metrics.IncAdminCommand("login", "authorized")
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type generateCodeRequest struct {
	Kind              string `json:"kind"`
	MaxUses           int    `json:"max_uses"`
	DurationDays      int    `json:"duration_days"`
	CodeExpiresInDays int    `json:"code_expires_in_days"`
}

func (s *Server) handleGenerateCode(w http.ResponseWriter, r *http.Request) {
	var req generateCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	summary, err := s.facade.GenerateCode(r.Context(), actorID(r), usecase.GenerateCodeInput{
		Kind:                   model.CodeKind(req.Kind),
		MaxUses:                req.MaxUses,
		MembershipDurationDays: req.DurationDays,
		CodeExpiresInDays:      req.CodeExpiresInDays,
	})
	if err != nil {
		metrics.IncAdminCommand("generate_code", commandStatus(err))
		writeDomainError(w, err)
		return
	}
	metrics.IncAdminCommand("generate_code", "authorized")
	writeJSON(w, http.StatusCreated, summary)
}

func (s *Server) handleListCodes(w http.ResponseWriter, r *http.Request) {
	codes, err := s.facade.ListActiveCodes(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, codes)
}

type redeemRequest struct {
	Code   string `json:"code"`
	UserID string `json:"user_id"`
}

func (s *Server) handleRedeemCode(w http.ResponseWriter, r *http.Request) {
	var req redeemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	// The redeeming user defaults to the authenticated actor; a service
	// caller may redeem on behalf of a user it authenticated itself.
	userID := req.UserID
	if userID == "" {
		userID = actorID(r)
	}
	res, err := s.facade.RedeemCode(r.Context(), userID, req.Code)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleRevokeCode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if err := s.facade.RevokeCode(r.Context(), actorID(r), code); err != nil {
		metrics.IncAdminCommand("revoke_code", commandStatus(err))
		writeDomainError(w, err)
		return
	}
	metrics.IncAdminCommand("revoke_code", "authorized")
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleListRedemptions(w http.ResponseWriter, r *http.Request) {
	recs, err := s.facade.ListRedemptions(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleCanCreate(w http.ResponseWriter, r *http.Request) {
	d, err := s.facade.CanCreateOrganization(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		CanCreate bool   `json:"can_create"`
		Reason    string `json:"reason,omitempty"`
	}{d.CanCreate, d.Reason})
}

func (s *Server) handleCanJoin(w http.ResponseWriter, r *http.Request) {
	d, err := s.facade.CanJoinMoreOrganizations(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		CanJoin bool   `json:"can_join"`
		Limit   int    `json:"limit"`
		Current int    `json:"current"`
		Reason  string `json:"reason,omitempty"`
	}{d.CanJoin, d.Limit, d.Current, d.Reason})
}

func (s *Server) handleMemberLimit(w http.ResponseWriter, r *http.Request) {
	limit, err := s.facade.OrganizationMemberLimit(r.Context(), chi.URLParam(r, "orgID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Limit     int  `json:"limit"`
		Unlimited bool `json:"unlimited"`
	}{limit, limit == usecase.Unlimited})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeDomainError maps the error taxonomy onto HTTP statuses. Terminal
// redemption failures each surface their distinct message.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrPermissionDenied):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrCodeInactive),
		errors.Is(err, domain.ErrCodeExpired),
		errors.Is(err, domain.ErrCodeExhausted):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, domain.ErrAlreadyExists):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, domain.ErrStoreUnavailable):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func commandStatus(err error) string {
	if errors.Is(err, domain.ErrPermissionDenied) {
		return "unauthorized"
	}
	return "authorized"
}
