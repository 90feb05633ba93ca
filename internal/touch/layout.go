package touch

import "math"

// Viewport is the browser's inner window size in CSS pixels.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Layout is the scale the client should apply to the 960x600 canvas wrapper.
type Layout struct {
	Scale         float64 `json:"scale"`
	Portrait      bool    `json:"portrait"`
	DisplayWidth  int     `json:"display_width"`
	DisplayHeight int     `json:"display_height"`
}

// Share of the viewport the table may occupy. Portrait leaves the lower half for controls.
const (
	portraitWidthShare   = 0.98
	portraitHeightShare  = 0.48
	landscapeWidthShare  = 0.78
	landscapeHeightShare = 0.85
)

// FitLayout computes the largest scale, never above 1, that fits the space into the
// usable part of the viewport.
func (s Space) FitLayout(vp Viewport) (Layout, bool) {
	if !(vp.Width > 0) || !(vp.Height > 0) || math.IsInf(vp.Width, 0) || math.IsInf(vp.Height, 0) {
		return Layout{}, false
	}

	portrait := vp.Height > vp.Width
	var availW, availH float64
	if portrait {
		availW = vp.Width * portraitWidthShare
		availH = vp.Height * portraitHeightShare
	} else {
		availW = vp.Width * landscapeWidthShare
		availH = vp.Height * landscapeHeightShare
	}

	scale := math.Min(math.Min(availW/s.Width, availH/s.Height), 1.0)

	return Layout{
		Scale:         scale,
		Portrait:      portrait,
		DisplayWidth:  int(math.Round(s.Width * scale)),
		DisplayHeight: int(math.Round(s.Height * scale)),
	}, true
}
