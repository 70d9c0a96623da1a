package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/toolhub/toolhub_backend/config"
)

func (app *application) auditLogHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := queryInt(c, "limit", 200)
		events, err := app.audit.Recent(c.Request.Context(), limit)
		if err != nil {
			config.LogError(app.logger, "auditlog.go", "auditLogHandler", "audit.Recent", nil, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to list audit events"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"events": events})
	}
}
