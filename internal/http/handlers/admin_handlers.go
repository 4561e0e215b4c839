package handlers

import (
	"errors"
	"net/http"

	"github.com/rogerio-castellano/safekart/internal/auth"
	"go.uber.org/zap"
)

// AdminLoginHandler godoc
// @Summary Log in as the admin
// @Description Returns a short-lived bearer token for the admin routes
// @Tags admin
// @Accept json
// @Produce json
// @Param credentials body AdminLogin true "username and password"
// @Success 200 {object} LoginResult
// @Failure 400 {object} MessageResponse
// @Failure 401 {object} MessageResponse
// @Failure 429 {string} string "Too many requests"
// @Failure 503 {object} MessageResponse
// @Router /admin/login [post]
func AdminLoginHandler(w http.ResponseWriter, r *http.Request) {
	if tokenIssuer == nil || !adminCredentials.Enabled() {
		respondMessage(w, http.StatusServiceUnavailable, "admin login is not configured")
		return
	}

	var creds AdminLogin
	if err := readJSON(w, r, &creds); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid input")
		return
	}

	if err := adminCredentials.Check(creds.Username, creds.Password); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			logger.Warn("admin login rejected", zap.String("username", creds.Username))
			respondMessage(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		respondMessage(w, http.StatusServiceUnavailable, "admin login is not configured")
		return
	}

	token, err := tokenIssuer.GenerateToken(adminCredentials.Username, auth.RoleAdmin)
	if err != nil {
		logger.Error("failed to generate token", zap.Error(err))
		respondMessage(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	respond(w, http.StatusOK, LoginResult{Token: token})
}

// GetBansHandler godoc
// @Summary List ban events
// @Tags admin
// @Produce json
// @Success 200 {array} ban.BanLogEntry
// @Failure 401 {string} string "Unauthorized"
// @Failure 500 {object} MessageResponse
// @Router /admin/bans [get]
// @Security BearerAuth
func GetBansHandler(w http.ResponseWriter, r *http.Request) {
	if banLog == nil {
		respond(w, http.StatusOK, []any{})
		return
	}
	entries, err := banLog.Entries(r.Context())
	if err != nil {
		logger.Error("could not read ban log", zap.Error(err))
		respondMessage(w, http.StatusInternalServerError, "failed to fetch ban log")
		return
	}
	respond(w, http.StatusOK, entries)
}
