package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"meritmind/internal/domain"
	"meritmind/internal/repository"
)

// UserHandler mantiene dependencias para endpoints de residentes.
type UserHandler struct {
	logger *zap.Logger
	users  repository.UserRepository
}

func NewUserHandler(logger *zap.Logger, users repository.UserRepository) *UserHandler {
	return &UserHandler{
		logger: logger,
		users:  users,
	}
}

// ListUsers maneja GET /users.
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.users.ListAll(c.Request.Context())
	if err != nil {
		h.logger.Error("list users failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to fetch users")
		return
	}
	if users == nil {
		users = []domain.User{}
	}
	respondData(c, http.StatusOK, users)
}

// GetUser maneja GET /users/:id.
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondError(c, http.StatusNotFound, "user not found")
			return
		}
		h.logger.Error("get user failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to fetch user")
		return
	}
	respondData(c, http.StatusOK, user)
}
