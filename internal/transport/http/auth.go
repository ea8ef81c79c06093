package http

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/dropfour/backend/internal/repository/postgres"
	authsvc "github.com/dropfour/backend/internal/service/auth"
	"github.com/dropfour/backend/internal/service/match"
	"github.com/dropfour/backend/internal/transport/http/middleware"
	"github.com/dropfour/backend/pkg/auth"
	"github.com/dropfour/backend/pkg/httputil"
	"github.com/dropfour/backend/pkg/useragent"
)

// Disconnector drops a user's live websocket, used when a new login
// invalidates an older one.
type Disconnector interface {
	Disconnect(userID int64, reason string)
}

type AuthHandler struct {
	Users    *postgres.UserRepo
	Sessions *postgres.SessionRepo
	Auth     *authsvc.Service
	Conns    Disconnector
}

func NewAuthHandler(users *postgres.UserRepo, sessions *postgres.SessionRepo, as *authsvc.Service, conns Disconnector) *AuthHandler {
	return &AuthHandler{Users: users, Sessions: sessions, Auth: as, Conns: conns}
}

func validateUsername(username string) string {
	if len(username) < 3 || len(username) > 50 {
		return "username must be between 3 and 50 characters"
	}
	if strings.EqualFold(username, match.BotUsername) {
		return "that username is reserved"
	}
	return ""
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if msg := validateUsername(req.Username); msg != "" {
		httputil.WriteError(w, http.StatusBadRequest, msg)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		httputil.WriteError(w, http.StatusBadRequest, "invalid email")
		return
	}
	if err := auth.ValidatePasswordStrength(req.Password); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if existing, _ := h.Users.GetByUsername(req.Username); existing != nil {
		httputil.WriteError(w, http.StatusConflict, "username already taken")
		return
	}
	if existing, _ := h.Users.GetByEmail(req.Email); existing != nil {
		httputil.WriteError(w, http.StatusConflict, "email already registered")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	userID, err := h.Users.CreateUser(req.Username, req.Email, hash, "")
	if err != nil {
		log.Printf("[AUTH] create user %q failed: %v", req.Username, err)
		httputil.WriteError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	token, err := h.Auth.StartSession(userID, req.Username, useragent.DeviceInfo(r), useragent.IPAddress(r))
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "failed to start session")
		return
	}

	httputil.SetAuthCookie(w, token)
	user, _ := h.Users.GetByID(userID)
	httputil.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.Users.GetByUsername(strings.TrimSpace(req.Username))
	if err != nil || user == nil || !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		httputil.WriteError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	// One active session per user: a fresh login kills the previous one,
	// including its websocket.
	if err := h.Sessions.DeactivateAllUserSessions(user.ID); err != nil {
		log.Printf("[AUTH] deactivating old sessions for user %d: %v", user.ID, err)
	}
	if h.Conns != nil {
		h.Conns.Disconnect(user.ID, "logged in from another device")
	}

	token, err := h.Auth.StartSession(user.ID, user.Username, useragent.DeviceInfo(r), useragent.IPAddress(r))
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "failed to start session")
		return
	}

	httputil.SetAuthCookie(w, token)
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token, err := httputil.TokenFromRequest(r); err == nil {
		if claims, err := auth.ValidateAccessToken(token); err == nil {
			if err := h.Auth.EndSession(claims.SessionID); err != nil {
				log.Printf("[AUTH] ending session %s: %v", claims.SessionID, err)
			}
		}
	}
	httputil.ClearAuthCookie(w)
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.Users.GetByID(userID)
	if err != nil || user == nil {
		httputil.WriteError(w, http.StatusNotFound, "user not found")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}
