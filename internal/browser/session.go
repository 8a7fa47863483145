// Package browser drives a Mapty page over a message channel. A Session is the
// server-side face of one open page: it is the map surface, the list document,
// the entry form, the alert box and the geolocation source.
package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Ahmed221b/Mapty/internal/app"
	"github.com/Ahmed221b/Mapty/internal/domain"
	"github.com/Ahmed221b/Mapty/internal/listview"
	"github.com/Ahmed221b/Mapty/internal/mapview"
)

// Commands sent to the page.
const (
	CmdRequestPosition   = "request_position"
	CmdMapCreate         = "map_create"
	CmdMapSetView        = "map_set_view"
	CmdMapAddMarker      = "map_add_marker"
	CmdListInsert        = "list_insert"
	CmdFormShow          = "form_show"
	CmdFormHide          = "form_hide"
	CmdFormClear         = "form_clear"
	CmdFormToggleElevate = "form_toggle_elevation"
	CmdAlert             = "alert"
)

// Events received from the page.
const (
	EvtPosition      = "position"
	EvtPositionError = "position_error"
	EvtMapCreated    = "map_created"
	EvtMapClick      = "map_click"
	EvtFormSubmit    = "form_submit"
	EvtFormType      = "form_type_change"
	EvtListClick     = "list_click"
)

// DefaultCreateTimeout bounds how long Create waits for the page to report the map.
const DefaultCreateTimeout = 10 * time.Second

var (
	// ErrPositionDenied is returned when the page could not resolve a position.
	ErrPositionDenied = errors.New("position unavailable")
	// ErrMapFailed is returned when the page could not create the map.
	ErrMapFailed = errors.New("map creation failed")
)

// Sender delivers a typed message to the page.
type Sender interface {
	Send(messageType string, data any) error
}

type mapCreate struct {
	Center  domain.Coords `json:"center"`
	Zoom    int           `json:"zoom"`
	TileURL string        `json:"tileUrl"`
}

type mapSetView struct {
	Center   domain.Coords `json:"center"`
	Zoom     int           `json:"zoom"`
	Animate  bool          `json:"animate"`
	Duration float64       `json:"duration"`
}

type listInsert struct {
	HTML string `json:"html"`
}

type alertMessage struct {
	Message string `json:"message"`
}

type latLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type failure struct {
	Message string `json:"message"`
}

type entryClick struct {
	ID string `json:"id"`
}

type positionResult struct {
	coords domain.Coords
	err    error
}

// Option configures optional behaviour for the Session.
type Option func(*Session)

// WithTileURL sets the tile layer template the page loads.
func WithTileURL(url string) Option {
	return func(s *Session) {
		if url != "" {
			s.tileURL = url
		}
	}
}

// WithCreateTimeout overrides DefaultCreateTimeout.
func WithCreateTimeout(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.createTimeout = d
		}
	}
}

// Session adapts one page to the view and controller ports.
type Session struct {
	sender        Sender
	tileURL       string
	createTimeout time.Duration

	mu         sync.Mutex
	mapClick   func(domain.Coords)
	listClick  func(string)
	submit     func(app.FormInput)
	typeChange func()

	positions chan positionResult
	created   chan error
}

var (
	_ mapview.Surface   = (*Session)(nil)
	_ listview.Document = (*Session)(nil)
	_ app.Form          = (*Session)(nil)
	_ app.Alerter       = (*Session)(nil)
	_ app.Geolocator    = (*Session)(nil)
)

// NewSession constructs a Session sending through sender.
func NewSession(sender Sender, opts ...Option) *Session {
	s := &Session{
		sender:        sender,
		tileURL:       "https://tile.openstreetmap.org/{z}/{x}/{y}.png",
		createTimeout: DefaultCreateTimeout,
		positions:     make(chan positionResult, 1),
		created:       make(chan error, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CurrentPosition asks the page for its position and waits for the answer.
func (s *Session) CurrentPosition(ctx context.Context) (domain.Coords, error) {
	if err := s.sender.Send(CmdRequestPosition, nil); err != nil {
		return domain.Coords{}, fmt.Errorf("request position: %w", err)
	}
	select {
	case <-ctx.Done():
		return domain.Coords{}, ctx.Err()
	case res := <-s.positions:
		return res.coords, res.err
	}
}

// Create asks the page to build the map and waits until it reports back.
func (s *Session) Create(ctx context.Context, center domain.Coords, zoom int) error {
	err := s.sender.Send(CmdMapCreate, mapCreate{Center: center, Zoom: zoom, TileURL: s.tileURL})
	if err != nil {
		return err
	}

	timer := time.NewTimer(s.createTimeout)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return fmt.Errorf("%w: no answer after %s", ErrMapFailed, s.createTimeout)
	case err := <-s.created:
		return err
	}
}

func (s *Session) SetView(center domain.Coords, zoom int, opts mapview.ViewOptions) error {
	return s.sender.Send(CmdMapSetView, mapSetView{
		Center:   center,
		Zoom:     zoom,
		Animate:  opts.Animate,
		Duration: opts.PanDuration.Seconds(),
	})
}

func (s *Session) AddMarker(m mapview.Marker) error {
	return s.sender.Send(CmdMapAddMarker, m)
}

func (s *Session) OnClick(handler func(domain.Coords)) {
	s.mu.Lock()
	s.mapClick = handler
	s.mu.Unlock()
}

// InsertAfterForm places rendered entry markup directly after the form.
func (s *Session) InsertAfterForm(html string) error {
	return s.sender.Send(CmdListInsert, listInsert{HTML: html})
}

func (s *Session) OnListClick(handler func(entryID string)) {
	s.mu.Lock()
	s.listClick = handler
	s.mu.Unlock()
}

func (s *Session) Show() error  { return s.sender.Send(CmdFormShow, nil) }
func (s *Session) Hide() error  { return s.sender.Send(CmdFormHide, nil) }
func (s *Session) Clear() error { return s.sender.Send(CmdFormClear, nil) }

func (s *Session) ToggleElevationField() error {
	return s.sender.Send(CmdFormToggleElevate, nil)
}

func (s *Session) OnSubmit(handler func(app.FormInput)) {
	s.mu.Lock()
	s.submit = handler
	s.mu.Unlock()
}

func (s *Session) OnTypeChange(handler func()) {
	s.mu.Lock()
	s.typeChange = handler
	s.mu.Unlock()
}

func (s *Session) Alert(message string) error {
	return s.sender.Send(CmdAlert, alertMessage{Message: message})
}

// Handle dispatches one event from the page.
func (s *Session) Handle(messageType string, data json.RawMessage) error {
	s.mu.Lock()
	mapClick, listClick, submit, typeChange := s.mapClick, s.listClick, s.submit, s.typeChange
	s.mu.Unlock()

	switch messageType {
	case EvtPosition:
		var p latLng
		if err := decode(data, &p); err != nil {
			return err
		}
		s.deliverPosition(positionResult{coords: domain.Coords{Lat: p.Lat, Lng: p.Lng}})
	case EvtPositionError:
		// a garbled failure still fails the request, then reaches the conn logger
		var f failure
		err := decode(data, &f)
		s.deliverPosition(positionResult{err: fmt.Errorf("%w: %s", ErrPositionDenied, f.Message)})
		if err != nil {
			return err
		}
	case EvtMapCreated:
		var f failure
		if err := decode(data, &f); err != nil {
			return err
		}
		var err error
		if f.Message != "" {
			err = fmt.Errorf("%w: %s", ErrMapFailed, f.Message)
		}
		select {
		case s.created <- err:
		default:
		}
	case EvtMapClick:
		var p latLng
		if err := decode(data, &p); err != nil {
			return err
		}
		if mapClick != nil {
			mapClick(domain.Coords{Lat: p.Lat, Lng: p.Lng})
		}
	case EvtFormSubmit:
		var in app.FormInput
		if err := decode(data, &in); err != nil {
			return err
		}
		if submit != nil {
			submit(in)
		}
	case EvtFormType:
		if typeChange != nil {
			typeChange()
		}
	case EvtListClick:
		var c entryClick
		if err := decode(data, &c); err != nil {
			return err
		}
		if listClick != nil {
			listClick(c.ID)
		}
	default:
		return fmt.Errorf("unknown event %q", messageType)
	}
	return nil
}

// deliverPosition keeps only the most recent unread answer.
func (s *Session) deliverPosition(res positionResult) {
	select {
	case s.positions <- res:
	default:
		select {
		case <-s.positions:
		default:
		}
		s.positions <- res
	}
}

func decode(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode event: %w", err)
	}
	return nil
}
