package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playpool/cuetouch/internal/game"
)

// lookupTable resolves the :id route param, writing a 404 when the table is unknown
func lookupTable(c *gin.Context, tm *game.TableManager) (*game.Table, bool) {
	t, err := tm.GetTable(c.Param("id"))
	if errors.Is(err, game.ErrTableNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "table not found"})
		return nil, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return nil, false
	}
	return t, true
}
