package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/geocoder89/userservice/internal/domain/user"
	"github.com/gin-gonic/gin"
)

type UserService interface {
	Create(ctx context.Context, req user.Request) (user.Response, error)
	GetByID(ctx context.Context, id int64) (user.Response, error)
	GetByEmail(ctx context.Context, email string) (user.Response, error)
	GetAll(ctx context.Context) ([]user.Response, error)
	Update(ctx context.Context, id int64, req user.Request) (user.Response, error)
	Delete(ctx context.Context, id int64) error
}

type UsersHandler struct {
	svc     UserService
	log     *slog.Logger
	timeout time.Duration
}

func NewUsersHandler(svc UserService, log *slog.Logger, timeout time.Duration) *UsersHandler {
	if log == nil {
		log = slog.Default()
	}

	if timeout <= 0 {
		timeout = 2 * time.Second
	}

	return &UsersHandler{svc: svc, log: log, timeout: timeout}
}

// opContext bounds store work by the handler timeout while keeping the
// request context (cancellation, trace span, request id).
func (h *UsersHandler) opContext(ctx *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx.Request.Context(), h.timeout)
}

func (h *UsersHandler) CreateUser(ctx *gin.Context) {
	var req user.Request

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := h.opContext(ctx)
	defer cancel()

	resp, err := h.svc.Create(cctx, req)

	if err != nil {
		RespondServiceError(ctx, h.log, "users.create", err)
		return
	}

	ctx.JSON(http.StatusCreated, resp)
}

func (h *UsersHandler) GetUserByID(ctx *gin.Context) {
	id, ok := userIDParam(ctx)
	if !ok {
		return
	}

	cctx, cancel := h.opContext(ctx)
	defer cancel()

	resp, err := h.svc.GetByID(cctx, id)

	if err != nil {
		RespondServiceError(ctx, h.log, "users.get", err)
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, resp)
}

func (h *UsersHandler) GetUserByEmail(ctx *gin.Context) {
	// catch-all params keep their leading slash
	email := strings.TrimPrefix(ctx.Param("email"), "/")

	cctx, cancel := h.opContext(ctx)
	defer cancel()

	resp, err := h.svc.GetByEmail(cctx, email)

	if err != nil {
		RespondServiceError(ctx, h.log, "users.get_by_email", err)
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, resp)
}

// ListUsers always answers 200; an empty store is [] not 404.
func (h *UsersHandler) ListUsers(ctx *gin.Context) {
	cctx, cancel := h.opContext(ctx)
	defer cancel()

	users, err := h.svc.GetAll(cctx)

	if err != nil {
		RespondServiceError(ctx, h.log, "users.list", err)
		return
	}

	if users == nil {
		users = []user.Response{}
	}

	ctx.JSON(http.StatusOK, users)
}

func (h *UsersHandler) UpdateUser(ctx *gin.Context) {
	id, ok := userIDParam(ctx)
	if !ok {
		return
	}

	var req user.Request

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := h.opContext(ctx)
	defer cancel()

	resp, err := h.svc.Update(cctx, id, req)

	if err != nil {
		RespondServiceError(ctx, h.log, "users.update", err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

func (h *UsersHandler) DeleteUser(ctx *gin.Context) {
	id, ok := userIDParam(ctx)
	if !ok {
		return
	}

	cctx, cancel := h.opContext(ctx)
	defer cancel()

	err := h.svc.Delete(cctx, id)

	if err != nil {
		RespondServiceError(ctx, h.log, "users.delete", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func userIDParam(ctx *gin.Context) (int64, bool) {
	raw := ctx.Param("id")

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		RespondBadRequest(ctx, "Invalid user id: "+raw)
		return 0, false
	}

	return id, true
}
