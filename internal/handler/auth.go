package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/llamacto/llama-gin/internal/dto"
	"github.com/llamacto/llama-gin/internal/service"
	ctxutil "github.com/llamacto/llama-gin/pkg/context"
	"github.com/llamacto/llama-gin/pkg/logger"
)

type AuthHandler struct {
	responder
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService, exposeErrors bool) *AuthHandler {
	return &AuthHandler{
		responder:   responder{exposeErrors: exposeErrors},
		authService: authService,
	}
}

// Register creates an account and returns an access token
func (h *AuthHandler) Register(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Register")

	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.invalid(ctx, c, err)
		return
	}

	token, err := h.authService.Register(ctx, req)
	if err != nil {
		logger.WarnWithContext(ctx, "Registration failed").
			String("email", req.Email).
			Err(err).
			Log()
		h.fail(ctx, c, err)
		return
	}

	h.ok(c, token)
}

// Login accepts JSON {email, password} or an OAuth2 password form
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Login")

	var req dto.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.invalid(ctx, c, err)
		return
	}

	token, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		h.fail(ctx, c, err)
		return
	}

	h.ok(c, token)
}
