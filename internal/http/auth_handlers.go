package httpapi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"playpartner-backend-go/internal/models"
	"playpartner-backend-go/internal/services"
)

const minPasswordLength = 8

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	ExpiresAt    int64        `json:"expiresAt"`
	User         *models.User `json:"user"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Password) == "" {
		WriteError(w, http.StatusBadRequest, "Email and password are required")
		return
	}
	user, err := s.Store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if serr, ok := services.AsServiceError(err); ok && serr.Status == http.StatusNotFound {
			WriteError(w, http.StatusUnauthorized, "Authentication failed")
			return
		}
		s.writeFailure(w, r, "login", err)
		return
	}
	if user.PasswordHash == nil || !s.Tokens.VerifyPassword(req.Password, *user.PasswordHash) {
		WriteError(w, http.StatusUnauthorized, "Authentication failed")
		return
	}
	if err := s.Store.SetLastLogin(r.Context(), user.ID); err != nil {
		s.Logger.Warn("last login not recorded", zap.String("user_id", user.ID), zap.Error(err))
	}
	s.writeTokens(w, r, user)
}

func (s *Server) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	userID, err := s.Tokens.ParseRefreshToken(req.RefreshToken)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "Authentication failed")
		return
	}
	// Role changes take effect on refresh because the user is re-read here.
	user, err := s.Store.GetUser(r.Context(), userID)
	if err != nil {
		if serr, ok := services.AsServiceError(err); ok && serr.Status == http.StatusNotFound {
			WriteError(w, http.StatusUnauthorized, "Authentication failed")
			return
		}
		s.writeFailure(w, r, "refresh", err)
		return
	}
	s.writeTokens(w, r, user)
}

func (s *Server) writeTokens(w http.ResponseWriter, r *http.Request, user models.User) {
	access, exp, err := s.Tokens.CreateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		s.writeFailure(w, r, "sign access token", err)
		return
	}
	refresh, err := s.Tokens.CreateRefreshToken(user.ID)
	if err != nil {
		s.writeFailure(w, r, "sign refresh token", err)
		return
	}
	WriteJSON(w, http.StatusOK, TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    exp,
		User:         &user,
	})
}

// Logout is stateless; clients drop their tokens.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.Store.GetUser(r.Context(), CurrentUserID(r))
	if err != nil {
		s.writeFailure(w, r, "current user", err)
		return
	}
	WriteJSON(w, http.StatusOK, user)
}

func (s *Server) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.NewPassword != req.ConfirmPassword {
		WriteError(w, http.StatusBadRequest, "Password confirmation does not match")
		return
	}
	if len(req.NewPassword) < minPasswordLength {
		WriteError(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}
	user, err := s.Store.GetUser(r.Context(), CurrentUserID(r))
	if err != nil {
		s.writeFailure(w, r, "change password", err)
		return
	}
	if user.PasswordHash == nil || !s.Tokens.VerifyPassword(req.CurrentPassword, *user.PasswordHash) {
		WriteError(w, http.StatusUnauthorized, "Authentication failed")
		return
	}
	hash, err := s.Tokens.HashPassword(req.NewPassword)
	if err != nil {
		s.writeFailure(w, r, "hash password", err)
		return
	}
	if err := s.Store.SetPassword(r.Context(), user.ID, hash, false); err != nil {
		s.writeFailure(w, r, "change password", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
