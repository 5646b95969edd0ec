package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/llamacto/llama-gin/internal/constants"
	apperrors "github.com/llamacto/llama-gin/internal/errors"
	"github.com/llamacto/llama-gin/internal/model"
	ctxutil "github.com/llamacto/llama-gin/pkg/context"
	"github.com/llamacto/llama-gin/pkg/logger"
)

// UserResolver resolves a bearer token to an active user.
type UserResolver interface {
	CurrentUser(ctx context.Context, token string) (*model.User, error)
}

type JWTMiddleware struct {
	resolver UserResolver
}

func NewJWTMiddleware(resolver UserResolver) *JWTMiddleware {
	return &JWTMiddleware{resolver: resolver}
}

// RequireAuth rejects requests without a valid bearer token and stores the
// resolved user under constants.GinKeyCurrentUser.
func (m *JWTMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := ctxutil.WithFunction(c.Request.Context(), "middleware", "RequireAuth")

		token, ok := bearerToken(c.GetHeader(constants.HeaderAuthorization))
		if !ok {
			logger.WarnWithContext(ctx, "Missing or malformed Authorization header").
				String("method", c.Request.Method).
				String("path", c.Request.URL.Path).
				Log()
			abortUnauthorized(c, constants.MsgUnauthorized)
			return
		}

		user, err := m.resolver.CurrentUser(ctx, token)
		if err != nil {
			logger.WarnWithContext(ctx, "Authentication rejected").
				String("method", c.Request.Method).
				String("path", c.Request.URL.Path).
				Err(err).
				Log()

			status := apperrors.ToHTTPStatus(err)
			if status == http.StatusUnauthorized {
				abortUnauthorized(c, apperrors.GetErrorMessage(err))
				return
			}
			c.AbortWithStatusJSON(status, constants.BuildErrorResponse(status, apperrors.GetErrorMessage(err), nil))
			return
		}

		c.Set(constants.GinKeyCurrentUser, user)
		c.Set(constants.GinKeyUserID, user.ID)
		c.Set(constants.GinKeyEmail, user.Email)

		ctx = ctxutil.WithUserID(c.Request.Context(), user.ID)
		ctx = ctxutil.WithUserLogin(ctx, user.Email)
		c.Request = c.Request.WithContext(ctx)

		logger.DebugWithContext(ctx, "User authenticated successfully").
			String("path", c.Request.URL.Path).
			Log()

		c.Next()
	}
}

// CurrentUser returns the user stored by RequireAuth.
func CurrentUser(c *gin.Context) (*model.User, bool) {
	v, exists := c.Get(constants.GinKeyCurrentUser)
	if !exists {
		return nil, false
	}
	user, ok := v.(*model.User)
	return user, ok && user != nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, constants.BearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.Header(constants.HeaderWWWAuth, constants.BearerScheme)
	c.AbortWithStatusJSON(http.StatusUnauthorized, constants.BuildErrorResponse(http.StatusUnauthorized, msg, nil))
}
