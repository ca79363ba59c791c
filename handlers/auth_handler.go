package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Dosada05/swiss-tournament/middleware"
	"github.com/Dosada05/swiss-tournament/services"
)

const tokenTTL = 24 * time.Hour

type AuthHandler struct {
	authService services.AuthService
	jwtSecret   []byte
	responder
}

func NewAuthHandler(authService services.AuthService, jwtSecret string, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		jwtSecret:   []byte(jwtSecret),
		responder:   responder{logger: logger},
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input services.LoginInput
	if err := readJSON(w, r, &input); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	if err := h.authService.Login(r.Context(), input); err != nil {
		h.logger.Warn("admin login rejected", slog.String("remote_addr", r.RemoteAddr))
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}

	token, err := middleware.IssueToken(h.jwtSecret, middleware.RoleAdmin, tokenTTL)
	if err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"token": token})
}
