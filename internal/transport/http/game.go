package http

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/dropfour/backend/internal/repository/postgres"
	"github.com/dropfour/backend/internal/repository/redis"
	"github.com/dropfour/backend/internal/service/match"
	"github.com/dropfour/backend/internal/transport/http/middleware"
	"github.com/dropfour/backend/pkg/httputil"
)

const leaderboardCacheKey = "leaderboard:top"

// GameHandler serves the read-side endpoints: leaderboard, match history and
// the list of games in progress.
type GameHandler struct {
	Users   *postgres.UserRepo
	Matches *postgres.MatchRepo
	Live    *match.Manager
	Cache   *redis.Cache
}

func NewGameHandler(users *postgres.UserRepo, matches *postgres.MatchRepo, live *match.Manager, cache *redis.Cache) *GameHandler {
	return &GameHandler{Users: users, Matches: matches, Live: live, Cache: cache}
}

// Leaderboard returns the top players by rating, cached for a short window
// because every lobby screen polls it.
func (h *GameHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	if h.Cache != nil {
		if cached, err := h.Cache.Get(r.Context(), leaderboardCacheKey); err == nil && cached != "" {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Cache", "HIT")
			w.Write([]byte(cached))
			return
		}
	}

	users, err := h.Users.Leaderboard(50)
	if err != nil {
		log.Printf("[HTTP] leaderboard query failed: %v", err)
		httputil.WriteError(w, http.StatusInternalServerError, "failed to load leaderboard")
		return
	}

	if h.Cache != nil {
		if data, err := json.Marshal(users); err == nil {
			h.Cache.Set(r.Context(), leaderboardCacheKey, data, 30*time.Second)
		}
	}
	httputil.WriteJSON(w, http.StatusOK, users)
}

// History returns the caller's recent matches.
func (h *GameHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	records, err := h.Matches.GetUserMatchHistory(userID, limit)
	if err != nil {
		log.Printf("[HTTP] match history for user %d failed: %v", userID, err)
		httputil.WriteError(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, records)
}

// Match returns one finished match with its final board.
func (h *GameHandler) Match(w http.ResponseWriter, r *http.Request) {
	matchID := r.PathValue("id")
	if matchID == "" {
		httputil.WriteError(w, http.StatusBadRequest, "missing match id")
		return
	}

	rec, err := h.Matches.GetMatchByID(matchID)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "failed to load match")
		return
	}
	if rec == nil {
		httputil.WriteError(w, http.StatusNotFound, "match not found")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rec)
}

// LiveMatches lists games currently being played.
func (h *GameHandler) LiveMatches(w http.ResponseWriter, r *http.Request) {
	type liveMatch struct {
		MatchID string `json:"match_id"`
		Red     string `json:"red"`
		Yellow  string `json:"yellow"`
	}

	sessions := h.Live.LiveSessions()
	out := make([]liveMatch, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, liveMatch{
			MatchID: s.MatchID,
			Red:     s.RedUsername,
			Yellow:  s.YellowUsername,
		})
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}
