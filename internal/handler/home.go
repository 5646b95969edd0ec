package handler

import (
	"github.com/gin-gonic/gin"
)

type HomeHandler struct {
	responder
	appName string
}

func NewHomeHandler(appName string) *HomeHandler {
	return &HomeHandler{appName: appName}
}

func (h *HomeHandler) Index(c *gin.Context) {
	h.ok(c, gin.H{
		"message": "Welcome to " + h.appName,
		"health":  "/health",
	})
}
