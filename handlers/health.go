package handlers

import (
	"net/http"

	"tasknotify/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler returns the latest health snapshot of mongo and redis.
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, utils.GetHealthStatus())
}
