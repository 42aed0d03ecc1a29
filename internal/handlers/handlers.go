package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/PAUBookIt/book-it-backend/internal/domain"
	"github.com/PAUBookIt/book-it-backend/internal/service"
	"github.com/PAUBookIt/book-it-backend/pkg/auth"
	"github.com/PAUBookIt/book-it-backend/pkg/config"
	"github.com/PAUBookIt/book-it-backend/pkg/logger"
)

type Handlers struct {
	userService        service.UserService
	classroomService   service.ClassroomService
	reservationService service.ReservationService
	config             *config.Config
}

func New(
	userService service.UserService,
	classroomService service.ClassroomService,
	reservationService service.ReservationService,
	cfg *config.Config,
) *Handlers {
	return &Handlers{
		userService:        userService,
		classroomService:   classroomService,
		reservationService: reservationService,
		config:             cfg,
	}
}

type contextKey string

const actorKey contextKey = "actor"

// RequireJWT authenticates the request and puts the verified actor
// identity on the context. Role gating happens in the services through
// the authorization gate, not here.
func (h *Handlers) RequireJWT(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "Missing or invalid authorization header")
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := auth.Parse(token, h.config.Auth.JWTSecret)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		actor := domain.Actor{
			ID:      claims.Sub,
			Email:   claims.Email,
			Role:    domain.Role(claims.Role),
			SubType: claims.SubType,
		}

		ctx := context.WithValue(r.Context(), logger.UserIDKey, claims.Sub)
		ctx = context.WithValue(ctx, actorKey, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func getActor(r *http.Request) domain.Actor {
	if actor, ok := r.Context().Value(actorKey).(domain.Actor); ok {
		return actor
	}
	return domain.Actor{}
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}
