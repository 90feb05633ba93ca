package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/playpool/cuetouch/internal/touch"
)

// GetLayout returns the canvas scale for a viewport of w x h CSS pixels
func GetLayout(c *gin.Context) {
	w, errW := strconv.ParseFloat(c.Query("w"), 64)
	h, errH := strconv.ParseFloat(c.Query("h"), 64)
	if errW != nil || errH != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "w and h must be numbers"})
		return
	}

	layout, ok := touch.DefaultSpace.FitLayout(touch.Viewport{Width: w, Height: h})
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "viewport must be positive"})
		return
	}
	c.JSON(http.StatusOK, layout)
}
