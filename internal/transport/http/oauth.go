package http

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/dropfour/backend/internal/config"
	"github.com/dropfour/backend/internal/repository/postgres"
	authsvc "github.com/dropfour/backend/internal/service/auth"
	"github.com/dropfour/backend/pkg/httputil"
	"github.com/dropfour/backend/pkg/useragent"
)

type OAuthHandler struct {
	Users    *postgres.UserRepo
	Sessions *postgres.SessionRepo
	Auth     *authsvc.Service
	Conns    Disconnector
}

func NewOAuthHandler(users *postgres.UserRepo, sessions *postgres.SessionRepo, as *authsvc.Service, conns Disconnector) *OAuthHandler {
	return &OAuthHandler{Users: users, Sessions: sessions, Auth: as, Conns: conns}
}

// GoogleLogin sends the user off to Google's consent screen.
func (h *OAuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	url := config.AppConfig.OAuth.Google.AuthCodeURL("state")
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

func loginRedirect(w http.ResponseWriter, r *http.Request, errCode string) {
	http.Redirect(w, r, config.AppConfig.FrontendURL+"/login?error="+errCode, http.StatusTemporaryRedirect)
}

// GoogleCallback exchanges the code, resolves or creates the player, and
// logs them in.
func (h *OAuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	token, err := config.AppConfig.OAuth.Google.Exchange(context.Background(), code)
	if err != nil {
		log.Printf("[OAUTH] code exchange failed: %v", err)
		loginRedirect(w, r, "auth_failed")
		return
	}

	info, err := config.FetchGoogleUser(token.AccessToken)
	if err != nil {
		log.Printf("[OAUTH] userinfo fetch failed: %v", err)
		loginRedirect(w, r, "user_info_failed")
		return
	}

	user, err := h.Users.GetByGoogleID(info.ID)
	if err != nil {
		loginRedirect(w, r, "server_error")
		return
	}
	if user == nil {
		// Fall back to the email so an existing password account picks up
		// its Google login on first use.
		user, err = h.Users.GetByEmail(info.Email)
		if err != nil {
			loginRedirect(w, r, "server_error")
			return
		}
		if user != nil {
			if err := h.Users.LinkGoogleID(user.ID, info.ID); err != nil {
				log.Printf("[OAUTH] linking google id for user %d: %v", user.ID, err)
			}
		}
	}

	if user == nil {
		user, err = h.createFromGoogle(info)
		if err != nil {
			log.Printf("[OAUTH] creating user for %s: %v", info.Email, err)
			loginRedirect(w, r, "server_error")
			return
		}
	}

	if err := h.Sessions.DeactivateAllUserSessions(user.ID); err != nil {
		log.Printf("[AUTH] deactivating old sessions for user %d: %v", user.ID, err)
	}
	if h.Conns != nil {
		h.Conns.Disconnect(user.ID, "logged in from another device")
	}

	accessToken, err := h.Auth.StartSession(user.ID, user.Username, useragent.DeviceInfo(r), useragent.IPAddress(r))
	if err != nil {
		loginRedirect(w, r, "server_error")
		return
	}

	httputil.SetAuthCookie(w, accessToken)
	http.Redirect(w, r, config.AppConfig.FrontendURL+"/dashboard", http.StatusTemporaryRedirect)
}

// createFromGoogle registers a new player from the Google profile. The
// username starts as the email's local part and gets a numeric suffix when
// taken.
func (h *OAuthHandler) createFromGoogle(info *config.GoogleUser) (*postgres.User, error) {
	base := strings.SplitN(info.Email, "@", 2)[0]
	base = strings.Map(func(c rune) rune {
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' {
			return c
		}
		return '_'
	}, base)
	if len(base) < 3 {
		base = "player_" + base
	}

	username := base
	for i := 1; i <= 20; i++ {
		existing, err := h.Users.GetByUsername(username)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			break
		}
		username = fmt.Sprintf("%s%d", base, i)
	}

	userID, err := h.Users.CreateUser(username, info.Email, "", info.ID)
	if err != nil {
		return nil, err
	}
	return h.Users.GetByID(userID)
}
