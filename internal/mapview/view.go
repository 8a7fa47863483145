// Package mapview wraps the map rendering capability: it places workout
// markers, moves the view and reports clicks.
package mapview

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Ahmed221b/Mapty/internal/domain"
)

// ErrNotInitialized is returned by operations issued before Initialize succeeded.
var ErrNotInitialized = errors.New("map not initialized")

// PanDuration is how long an animated CenterOn takes.
const PanDuration = time.Second

// PopupOptions mirrors the options the map library accepts for a marker popup.
type PopupOptions struct {
	MaxWidth     int    `json:"maxWidth"`
	MinWidth     int    `json:"minWidth"`
	AutoClose    bool   `json:"autoClose"`
	CloseOnClick bool   `json:"closeOnClick"`
	ClassName    string `json:"className"`
}

// Marker is a persistent marker with an open popup.
type Marker struct {
	Coords domain.Coords `json:"coords"`
	Text   string        `json:"text"`
	Popup  PopupOptions  `json:"popup"`
}

// ViewOptions controls how the view moves to a new center.
type ViewOptions struct {
	Animate     bool          `json:"animate"`
	PanDuration time.Duration `json:"-"`
}

// Surface is the black-box mapping capability.
type Surface interface {
	Create(ctx context.Context, center domain.Coords, zoom int) error
	SetView(center domain.Coords, zoom int, opts ViewOptions) error
	AddMarker(m Marker) error
	OnClick(handler func(domain.Coords))
}

// View is the map boundary used by the controller.
type View struct {
	surface Surface

	mu      sync.Mutex
	ready   bool
	handler func(domain.Coords)
}

// New constructs a View over surface. The map is not created until Initialize.
func New(surface Surface) *View {
	v := &View{surface: surface}
	surface.OnClick(v.dispatchClick)
	return v
}

// Initialize creates the map centered on center. On failure the view stays
// uninitialized.
func (v *View) Initialize(ctx context.Context, center domain.Coords, zoom int) error {
	if err := v.surface.Create(ctx, center, zoom); err != nil {
		return fmt.Errorf("create map: %w", err)
	}
	v.mu.Lock()
	v.ready = true
	v.mu.Unlock()
	return nil
}

// Ready reports whether Initialize has succeeded.
func (v *View) Ready() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.ready
}

// OnClick registers the click handler, replacing any previous one.
func (v *View) OnClick(handler func(domain.Coords)) {
	v.mu.Lock()
	v.handler = handler
	v.mu.Unlock()
}

func (v *View) dispatchClick(c domain.Coords) {
	v.mu.Lock()
	handler, ready := v.handler, v.ready
	v.mu.Unlock()
	if handler == nil || !ready {
		return
	}
	handler(c)
}

// AddMarker places a marker whose popup reads "<icon> <label>".
func (v *View) AddMarker(coords domain.Coords, label string, t domain.Type) error {
	if !v.Ready() {
		return ErrNotInitialized
	}
	return v.surface.AddMarker(Marker{
		Coords: coords,
		Text:   domain.Icon(t) + " " + label,
		Popup: PopupOptions{
			MaxWidth:     250,
			MinWidth:     100,
			AutoClose:    false,
			CloseOnClick: false,
			ClassName:    string(t) + "-popup",
		},
	})
}

// CenterOn pans and zooms the view to coords.
func (v *View) CenterOn(coords domain.Coords, zoom int, animated bool) error {
	if !v.Ready() {
		return ErrNotInitialized
	}
	opts := ViewOptions{Animate: animated}
	if animated {
		opts.PanDuration = PanDuration
	}
	return v.surface.SetView(coords, zoom, opts)
}
