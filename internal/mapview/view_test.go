package mapview

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Ahmed221b/Mapty/internal/domain"
)

func TestInitializeFailureLeavesViewUnusable(t *testing.T) {
	surface := &stubSurface{createErr: errors.New("no container")}
	view := New(surface)

	err := view.Initialize(context.Background(), domain.Coords{Lat: 1, Lng: 2}, 13)
	require.ErrorIs(t, err, surface.createErr)
	require.False(t, view.Ready())

	require.ErrorIs(t, view.AddMarker(domain.Coords{}, "Running on May 1", domain.TypeRunning), ErrNotInitialized)
	require.ErrorIs(t, view.CenterOn(domain.Coords{}, 13, true), ErrNotInitialized)
	require.Empty(t, surface.markers)
}

func TestAddMarkerFormatsPopup(t *testing.T) {
	surface := &stubSurface{}
	view := New(surface)
	require.NoError(t, view.Initialize(context.Background(), domain.Coords{Lat: 51.5, Lng: -0.12}, 13))

	require.NoError(t, view.AddMarker(domain.Coords{Lat: 51.5, Lng: -0.12}, "Running on May 1", domain.TypeRunning))
	require.NoError(t, view.AddMarker(domain.Coords{Lat: 51.6, Lng: -0.1}, "Cycling on May 2", domain.TypeCycling))

	require.Len(t, surface.markers, 2)
	require.Equal(t, "🏃‍♂️ Running on May 1", surface.markers[0].Text)
	require.Equal(t, PopupOptions{MaxWidth: 250, MinWidth: 100, ClassName: "running-popup"}, surface.markers[0].Popup)
	require.Equal(t, "🚴‍♀️ Cycling on May 2", surface.markers[1].Text)
	require.Equal(t, "cycling-popup", surface.markers[1].Popup.ClassName)
	require.Equal(t, domain.Coords{Lat: 51.6, Lng: -0.1}, surface.markers[1].Coords)
}

func TestCenterOnAnimates(t *testing.T) {
	surface := &stubSurface{}
	view := New(surface)
	require.NoError(t, view.Initialize(context.Background(), domain.Coords{}, 13))

	require.NoError(t, view.CenterOn(domain.Coords{Lat: 3, Lng: 4}, 13, true))
	require.Equal(t, domain.Coords{Lat: 3, Lng: 4}, surface.center)
	require.Equal(t, 13, surface.zoom)
	require.True(t, surface.opts.Animate)
	require.Equal(t, PanDuration, surface.opts.PanDuration)

	require.NoError(t, view.CenterOn(domain.Coords{Lat: 5, Lng: 6}, 10, false))
	require.False(t, surface.opts.Animate)
	require.Zero(t, surface.opts.PanDuration)
}

func TestOnClickKeepsSingleHandler(t *testing.T) {
	surface := &stubSurface{}
	view := New(surface)

	var first, second []domain.Coords
	view.OnClick(func(c domain.Coords) { first = append(first, c) })

	surface.click(domain.Coords{Lat: 9, Lng: 9})
	require.Empty(t, first, "clicks before the map exists are ignored")

	require.NoError(t, view.Initialize(context.Background(), domain.Coords{}, 13))
	surface.click(domain.Coords{Lat: 1, Lng: 1})
	view.OnClick(func(c domain.Coords) { second = append(second, c) })
	surface.click(domain.Coords{Lat: 2, Lng: 2})

	require.Equal(t, []domain.Coords{{Lat: 1, Lng: 1}}, first)
	require.Equal(t, []domain.Coords{{Lat: 2, Lng: 2}}, second)
}

type stubSurface struct {
	createErr error
	markers   []Marker
	center    domain.Coords
	zoom      int
	opts      ViewOptions
	onClick   func(domain.Coords)
}

func (s *stubSurface) Create(_ context.Context, center domain.Coords, zoom int) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.center, s.zoom = center, zoom
	return nil
}

func (s *stubSurface) SetView(center domain.Coords, zoom int, opts ViewOptions) error {
	s.center, s.zoom, s.opts = center, zoom, opts
	return nil
}

func (s *stubSurface) AddMarker(m Marker) error {
	s.markers = append(s.markers, m)
	return nil
}

func (s *stubSurface) OnClick(handler func(domain.Coords)) { s.onClick = handler }

func (s *stubSurface) click(c domain.Coords) {
	if s.onClick != nil {
		s.onClick(c)
	}
}
