package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/llamacto/llama-gin/internal/constants"
	"github.com/llamacto/llama-gin/internal/dto"
	apperrors "github.com/llamacto/llama-gin/internal/errors"
	"github.com/llamacto/llama-gin/internal/middleware"
	"github.com/llamacto/llama-gin/internal/service"
	ctxutil "github.com/llamacto/llama-gin/pkg/context"
)

type UserHandler struct {
	responder
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService, exposeErrors bool) *UserHandler {
	return &UserHandler{
		responder:   responder{exposeErrors: exposeErrors},
		userService: userService,
	}
}

// List returns users ordered by id, paginated by skip/limit
func (h *UserHandler) List(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "ListUsers")
	page := constants.ParsePaginationParams(c)

	users, err := h.userService.List(ctx, page.Skip, page.Limit)
	if err != nil {
		h.fail(ctx, c, err)
		return
	}

	h.ok(c, users)
}

func (h *UserHandler) Create(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "CreateUser")

	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.invalid(ctx, c, err)
		return
	}

	user, err := h.userService.Create(ctx, req)
	if err != nil {
		h.fail(ctx, c, err)
		return
	}

	h.ok(c, user)
}

// Me returns the authenticated user
func (h *UserHandler) Me(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Me")

	user, ok := middleware.CurrentUser(c)
	if !ok {
		h.fail(ctx, c, apperrors.ErrUnauthorized)
		return
	}

	h.ok(c, service.ToUserResponse(user))
}

func (h *UserHandler) GetByID(c *gin.Context) {
	h.getUser(c, "GetUser")
}

// Profile is the unauthenticated variant of GetByID
func (h *UserHandler) Profile(c *gin.Context) {
	h.getUser(c, "GetUserProfile")
}

func (h *UserHandler) getUser(c *gin.Context, function string) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", function)

	id, ok := parseUserID(c)
	if !ok {
		h.fail(ctx, c, apperrors.ErrInvalidInput)
		return
	}

	user, err := h.userService.GetByID(ctx, id)
	if err != nil {
		h.fail(ctx, c, err)
		return
	}

	h.ok(c, user)
}

// SetStatus toggles is_active, taken from the is_active query parameter
func (h *UserHandler) SetStatus(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "SetUserStatus")

	id, ok := parseUserID(c)
	if !ok {
		h.fail(ctx, c, apperrors.ErrInvalidInput)
		return
	}

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.invalid(ctx, c, err)
		return
	}

	user, err := h.userService.SetActive(ctx, id, *req.IsActive)
	if err != nil {
		h.fail(ctx, c, err)
		return
	}

	h.ok(c, user)
}

func parseUserID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
