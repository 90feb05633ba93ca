package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/playpool/cuetouch/internal/auth"
	"github.com/playpool/cuetouch/internal/config"
	"github.com/playpool/cuetouch/internal/game"
	"github.com/playpool/cuetouch/internal/ws"
)

// CreateTable racks a new table and issues its controller and spectator tokens.
// The table's frame loop runs under appCtx, not the request.
func CreateTable(appCtx context.Context, tm *game.TableManager, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ttl := time.Duration(cfg.TableTokenTTLHours) * time.Hour
		if ttl <= 0 {
			ttl = 12 * time.Hour
		}

		t := tm.CreateTable(appCtx)

		controller, err := auth.IssueTableToken(cfg.JWTSecret, t.ID, auth.RoleController, ttl)
		if err != nil {
			log.Printf("[TABLE] Failed to sign controller token for %s: %v", t.ID, err)
			tm.RemoveTable(t.ID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		spectator, err := auth.IssueTableToken(cfg.JWTSecret, t.ID, auth.RoleSpectator, ttl)
		if err != nil {
			log.Printf("[TABLE] Failed to sign spectator token for %s: %v", t.ID, err)
			tm.RemoveTable(t.ID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"table_id":         t.ID,
			"controller_token": controller,
			"spectator_token":  spectator,
		})
	}
}

type tableResponse struct {
	game.TableState
	Connections int `json:"connections"`
}

// GetTable returns the live state of a table and how many sockets are attached to it
func GetTable(tm *game.TableManager, hub *ws.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, ok := lookupTable(c, tm)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, tableResponse{TableState: t.State(), Connections: hub.RoomSize(t.ID)})
	}
}

// DeleteTable stops a table's frame loop
func DeleteTable(tm *game.TableManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := tm.RemoveTable(c.Param("id")); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "table not found"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// GetSnapshot returns the last summary persisted for a table
func GetSnapshot(tm *game.TableManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := tm.LoadSnapshot(c.Request.Context(), c.Param("id"))
		if errors.Is(err, game.ErrSnapshotNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no snapshot for table"})
			return
		}
		if err != nil {
			log.Printf("[SNAPSHOT] Load %s failed: %v", c.Param("id"), err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, s)
	}
}

// ListShots returns the recorded shots of a table
func ListShots(tm *game.TableManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		shots, err := tm.ListShots(c.Param("id"))
		if err != nil {
			log.Printf("[DB] List shots for %s failed: %v", c.Param("id"), err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"table_id": c.Param("id"), "shots": shots})
	}
}
