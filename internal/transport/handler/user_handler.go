package handler

import (
	"context"
	"net/http"

	"github.com/niklvrr/issuetracker/internal/transport/dto/request"
	"github.com/niklvrr/issuetracker/internal/transport/dto/response"
	"go.uber.org/zap"
)

type UserService interface {
	Create(ctx context.Context, req *request.CreateUserRequest) (*response.UserResponse, error)
	Get(ctx context.Context, req *request.GetUserRequest) (*response.UserResponse, error)
}

type UserHandler struct {
	svc UserService
	log *zap.Logger
}

func NewUserHandler(svc UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		svc: svc,
		log: log,
	}
}

func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	h.log.Info("create user request received",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)

	// Парсим json в модель CreateUserRequest
	var req request.CreateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		h.log.Error("failed to decode request body", zap.Error(err))
		writeErr(w, err)
		return
	}

	// Вызов сервиса
	resp, err := h.svc.Create(r.Context(), &req)
	if err != nil {
		h.log.Warn("failed to create user", zap.String("username", req.Username), zap.Error(err))
		writeErr(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userId, err := pathID(r, "id")
	if err != nil {
		writeErr(w, err)
		return
	}

	resp, err := h.svc.Get(r.Context(), &request.GetUserRequest{UserId: userId})
	if err != nil {
		writeErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
