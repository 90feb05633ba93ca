package ws

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/playpool/cuetouch/internal/auth"
	"github.com/playpool/cuetouch/internal/game"
	"github.com/playpool/cuetouch/internal/touch"
)

// SetPowerData is the payload of set_power.
type SetPowerData struct {
	Level float64 `json:"level"`
}

// AimAtData is the payload of aim_at, a target in logical units.
type AimAtData struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ShotData announces an applied shot to the table room.
type ShotData struct {
	Angle      float64 `json:"angle"`
	Power      float64 `json:"power"`
	ShotNumber int     `json:"shot_number"`
	Source     string  `json:"source"`
}

// HandleWebSocket upgrades /tables/:id/ws?token=... once the table's frame loop is live.
func (h *Hub) HandleWebSocket(c *gin.Context) {
	tableID := c.Param("id")
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token required"})
		return
	}

	claims, err := auth.ParseTableToken(h.config.JWTSecret, token, tableID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	t, err := h.tables.GetTable(tableID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "table not found"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.readyTimeout())
	err = t.WaitReady(ctx)
	cancel()
	if err != nil {
		log.Printf("[WS] Table %s not ready after %s: %v", tableID, h.readyTimeout(), err)
		conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		conn.WriteJSON(envelope{Type: "error", Data: errorData{Message: "table not ready"}})
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "table not ready"))
		conn.Close()
		return
	}

	client := &Client{
		hub:     h,
		conn:    conn,
		table:   t,
		tableID: tableID,
		role:    claims.Role,
		send:    make(chan []byte, 256),
	}
	if claims.Role == auth.RoleController {
		client.pointer = newPointerBinding(h.config, client)
	}

	if !h.join(client) {
		log.Printf("[WS] Hub stopped; refusing connection to table %s", tableID)
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

func (h *Hub) readyTimeout() time.Duration {
	if h.config.ReadyTimeoutSeconds > 0 {
		return time.Duration(h.config.ReadyTimeoutSeconds) * time.Second
	}
	return 5 * time.Second
}

// handleMessage processes one inbound message.
func (c *Client) handleMessage(msg WSMessage) {
	if msg.Type == "get_state" {
		c.sendEnvelope("table_state", c.table.State())
		return
	}

	if c.role != auth.RoleController {
		c.sendError("spectators cannot control the table")
		return
	}
	if !c.hub.isController(c) {
		return
	}

	switch msg.Type {
	case "pointer_down", "pointer_move", "pointer_up":
		c.handlePointer(msg)

	case "pointer_cancel":
		if c.releasePointer() {
			log.Printf("[TOUCH] Table %s: gesture cancelled", c.tableID)
		}

	case "toggle_pause":
		paused := c.table.TogglePause()
		c.hub.BroadcastToTable(c.tableID, "paused", gin.H{"paused": paused})

	case "set_power":
		var data SetPowerData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("Invalid power data")
			return
		}
		if _, err := c.table.SetPowerLevel(data.Level); err != nil {
			c.sendError(err.Error())
			return
		}
		c.hub.BroadcastToTable(c.tableID, "table_state", c.table.State())

	case "aim_at":
		var data AimAtData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("Invalid aim data")
			return
		}
		cmd, err := c.table.AimAt(touch.Point{X: data.X, Y: data.Y})
		c.reportShot(game.SourceAimAt, cmd, err)

	case "smart_shot":
		cmd, err := c.table.SmartShot()
		c.reportShot(game.SourceSmart, cmd, err)

	case "reset":
		c.releasePointer()
		c.table.Reset()
		c.hub.BroadcastToTable(c.tableID, "table_state", c.table.State())

	default:
		c.sendError("Unknown message type")
	}
}

// handlePointer feeds a pointer event to the mapper. Undecodable events are dropped
// the same way the mapper drops malformed ones.
func (c *Client) handlePointer(msg WSMessage) {
	if c.pointer == nil {
		c.sendError("pointer input is disabled")
		return
	}

	m := c.pointer.mapper
	if msg.Type == "pointer_up" && isEmptyData(msg.Data) {
		m.Release()
		return
	}

	var ev touch.Event
	if err := json.Unmarshal(msg.Data, &ev); err != nil {
		log.Printf("[TOUCH] Table %s: undecodable %s dropped", c.tableID, msg.Type)
		return
	}

	switch msg.Type {
	case "pointer_down":
		m.PointerDown(ev)
	case "pointer_move":
		m.PointerMove(ev)
	case "pointer_up":
		m.PointerUp(ev)
	}
}

func isEmptyData(data json.RawMessage) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func (c *Client) reportShot(source string, cmd touch.ShotCommand, err error) {
	if err != nil {
		if !errors.Is(err, game.ErrNotEligible) && !errors.Is(err, game.ErrPaused) {
			log.Printf("[TABLE] %s: %s shot failed: %v", c.tableID, source, err)
		}
		c.sendError(err.Error())
		return
	}
	c.hub.shotApplied(c.table, source, cmd)
}

// shotApplied records and announces a shot that the table accepted.
func (h *Hub) shotApplied(t *game.Table, source string, cmd touch.ShotCommand) {
	s := t.Summary()
	h.tables.RecordShotAsync(t.ID, s.TotalShots, source, cmd)

	h.PublishEvent(context.Background(), t.ID, "shot", ShotData{
		Angle:      cmd.Angle,
		Power:      cmd.Power,
		ShotNumber: s.ShotNumber,
		Source:     source,
	})
}
