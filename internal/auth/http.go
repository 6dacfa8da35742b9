package auth

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"MiniShop/pkg/kit"
)

type Server struct {
	Log   *zap.Logger
	Store OperatorStore
	JWT   *TokenMaker
}

type tokenReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type tokenResp struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	var req tokenReq
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		kit.WriteBadRequest(w, r, err)
		return
	}

	op, err := s.Store.Verify(req.Email, req.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		kit.WriteError(w, r, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}
	if err != nil {
		s.Log.Error("verify operator", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	tok, exp, err := s.JWT.Issue(op)
	if err != nil {
		s.Log.Error("token issue", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	kit.WriteJSON(w, http.StatusOK, tokenResp{AccessToken: tok, TokenType: "Bearer", ExpiresAt: exp.UTC()})
}

func (s *Server) handleWhoAmI(w http.ResponseWriter, r *http.Request) {
	raw, ok := kit.BearerToken(r)
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "missing token", nil)
		return
	}

	claims, err := s.JWT.Parse(raw)
	if err != nil {
		kit.WriteError(w, r, http.StatusUnauthorized, "invalid token", nil)
		return
	}

	kit.WriteJSON(w, http.StatusOK, map[string]any{
		"operator_id": claims.OperatorID,
		"email":       claims.Email,
		"role":        claims.Role,
	})
}
