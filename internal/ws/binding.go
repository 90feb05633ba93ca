package ws

import (
	"log"

	"github.com/playpool/cuetouch/internal/config"
	"github.com/playpool/cuetouch/internal/game"
	"github.com/playpool/cuetouch/internal/touch"
)

// pointerBinding routes one controller's pointer events through a touch mapper into its
// table. It satisfies touch.Game so the mapper never sees the table directly.
type pointerBinding struct {
	client *Client
	mapper *touch.Mapper
}

// newPointerBinding returns nil when pointer input is disabled by configuration.
func newPointerBinding(cfg *config.Config, client *Client) *pointerBinding {
	if cfg.InputBinding == config.BindingDisabled {
		return nil
	}
	b := &pointerBinding{client: client}
	b.mapper = touch.NewMapper(b, cfg.TouchConfig())
	return b
}

func (b *pointerBinding) IsShootEligible() bool {
	return b.client.table.IsShootEligible()
}

func (b *pointerBinding) IsPaused() bool {
	return b.client.table.IsPaused()
}

func (b *pointerBinding) CueBallPosition() (touch.Point, bool) {
	return b.client.table.CueBallPosition()
}

// ApplyShot fires the shot on the table and announces it. A table that refuses the shot
// is reported back to the controller only.
func (b *pointerBinding) ApplyShot(angle, power float64) {
	t := b.client.table
	if err := t.Shoot(angle, power); err != nil {
		log.Printf("[TOUCH] Table %s: shot refused: %v", t.ID, err)
		b.client.sendError(err.Error())
		return
	}
	b.client.hub.shotApplied(t, game.SourceTouch, touch.ShotCommand{
		Angle: angle,
		Power: touch.ClampPower(power, game.MinPower, game.MaxPower),
	})
}

// releasePointer cancels any gesture in progress. It reports whether one was dropped.
func (c *Client) releasePointer() bool {
	if c.pointer == nil {
		return false
	}
	return c.pointer.mapper.Cancel()
}
