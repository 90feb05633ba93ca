package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playpool/cuetouch/internal/config"
	"github.com/playpool/cuetouch/internal/touch"
)

// GetConfig returns the input settings the browser client needs to render the table
func GetConfig(cfg *config.Config) gin.HandlerFunc {
	tc := cfg.TouchConfig()
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"logical_width":            touch.LogicalWidth,
			"logical_height":           touch.LogicalHeight,
			"input_binding":            cfg.InputBinding,
			"aim_mode":                 tc.Mode,
			"aim_restart":              tc.Restart,
			"distance_to_power_factor": tc.DistanceToPowerFactor,
			"min_power":                tc.MinPower,
			"max_power":                tc.MaxPower,
		})
	}
}
