// Package app owns the workout list and coordinates the map, the list, the
// form and storage.
package app

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/Ahmed221b/Mapty/internal/domain"
	"github.com/Ahmed221b/Mapty/internal/observability"
)

// DefaultZoom is the zoom level used when the map is created and when
// centering on a workout.
const DefaultZoom = 13

// Messages shown to the user.
const (
	MsgInvalidInput = "Distance and duration must be positive numbers"
	MsgNoPosition   = "Could not get your position"
	MsgNoMap        = "Could not load the map"
)

// FormState tracks whether the entry form is on screen.
type FormState int

const (
	FormHidden FormState = iota
	FormVisible
)

// Dependencies are the collaborators a Controller drives.
type Dependencies struct {
	Geolocator Geolocator
	Map        MapView
	List       ListView
	Form       Form
	Alerts     Alerter
	Repository Repository
}

// Option configures optional behaviour for the Controller.
type Option func(*Controller)

// WithLogger overrides the logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithZoom overrides the map zoom level.
func WithZoom(zoom int) Option {
	return func(c *Controller) {
		if zoom > 0 {
			c.zoom = zoom
		}
	}
}

// WithLocation sets the time zone marker labels are rendered in.
func WithLocation(loc *time.Location) Option {
	return func(c *Controller) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// Controller owns the in-memory workout list. All handlers run on the goroutine
// executing Run, one at a time; callbacks from views are queued onto it.
type Controller struct {
	deps   Dependencies
	logger *log.Logger
	zoom   int
	loc    *time.Location

	events chan func()
	done   chan struct{}

	workouts  []domain.Workout
	formState FormState
	clicked   *domain.Coords
	mapReady  bool
}

// NewController constructs a Controller. Call Start, then Run.
func NewController(deps Dependencies, opts ...Option) *Controller {
	c := &Controller{
		deps:   deps,
		logger: log.New(log.Writer(), "[controller] ", log.LstdFlags|log.Lshortfile),
		zoom:   DefaultZoom,
		loc:    time.Local,
		events: make(chan func(), 64),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start queues the startup sequence: request the position, restore and render
// the stored workouts, and wire the form and list handlers.
func (c *Controller) Start(ctx context.Context) {
	c.post(func() { c.start(ctx) })
}

// Run processes queued events until ctx is cancelled.
func (c *Controller) Run(ctx context.Context) error {
	defer close(c.done)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-c.events:
			fn()
		}
	}
}

// Workouts returns a copy of the current list in insertion order.
func (c *Controller) Workouts() []domain.Workout {
	out := make([]domain.Workout, len(c.workouts))
	copy(out, c.workouts)
	return out
}

// FormState reports the current form state.
func (c *Controller) FormState() FormState { return c.formState }

func (c *Controller) post(fn func()) {
	select {
	case c.events <- fn:
	case <-c.done:
	}
}

func (c *Controller) start(ctx context.Context) {
	c.requestPosition(ctx)
	c.restore(ctx)

	c.deps.Form.OnSubmit(func(in FormInput) {
		c.post(func() { c.newWorkout(ctx, in) })
	})
	c.deps.Form.OnTypeChange(func() {
		c.post(c.toggleElevationField)
	})
	c.deps.List.OnEntryClick(func(id string) {
		c.post(func() { c.moveToWorkout(id) })
	})
}

func (c *Controller) requestPosition(ctx context.Context) {
	if c.deps.Geolocator == nil {
		c.logger.Printf("geolocation unavailable, map will not load")
		return
	}
	go func() {
		coords, err := c.deps.Geolocator.CurrentPosition(ctx)
		c.post(func() { c.positionResolved(ctx, coords, err) })
	}()
}

func (c *Controller) positionResolved(ctx context.Context, coords domain.Coords, err error) {
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		c.logger.Printf("geolocation failed: %v", err)
		c.alert(MsgNoPosition)
		return
	}
	c.loadMap(ctx, coords)
}

func (c *Controller) loadMap(ctx context.Context, center domain.Coords) {
	if err := c.deps.Map.Initialize(ctx, center, c.zoom); err != nil {
		c.logger.Printf("map initialization failed: %v", err)
		c.alert(MsgNoMap)
		return
	}
	c.mapReady = true

	c.deps.Map.OnClick(func(coords domain.Coords) {
		c.post(func() { c.showForm(coords) })
	})

	// markers for restored workouts wait for the map
	for _, w := range c.workouts {
		c.addMarker(w)
	}
}

func (c *Controller) restore(ctx context.Context) {
	c.workouts = c.deps.Repository.Load(ctx)
	for _, w := range c.workouts {
		c.renderEntry(w)
	}
}

func (c *Controller) showForm(coords domain.Coords) {
	c.clicked = &coords
	if err := c.deps.Form.Show(); err != nil {
		c.logger.Printf("show form: %v", err)
	}
	c.formState = FormVisible
}

func (c *Controller) toggleElevationField() {
	if err := c.deps.Form.ToggleElevationField(); err != nil {
		c.logger.Printf("toggle elevation field: %v", err)
	}
}

func (c *Controller) newWorkout(ctx context.Context, in FormInput) {
	if c.formState != FormVisible || c.clicked == nil {
		c.logger.Printf("submit ignored: no map position selected")
		return
	}

	workout, err := BuildWorkout(in, *c.clicked)
	if err != nil {
		label := in.Type
		if !domain.Type(label).Valid() {
			label = "unknown"
		}
		observability.RecordRejectedSubmission(label)
		c.alert(MsgInvalidInput)
		return
	}

	c.workouts = append(c.workouts, workout)
	c.addMarker(workout)
	c.renderEntry(workout)

	if err := c.deps.Form.Clear(); err != nil {
		c.logger.Printf("clear form: %v", err)
	}
	if err := c.deps.Form.Hide(); err != nil {
		c.logger.Printf("hide form: %v", err)
	}
	c.formState = FormHidden
	c.clicked = nil

	observability.RecordWorkout(string(workout.Type()), workout.Date())

	if err := c.deps.Repository.Save(ctx, c.workouts); err != nil {
		c.logger.Printf("warning: workouts not saved: %v", err)
	}
}

func (c *Controller) moveToWorkout(id string) {
	workout, ok := domain.Find(c.workouts, id)
	if !ok {
		c.logger.Printf("entry click ignored: no workout %q", id)
		return
	}
	if !c.mapReady {
		c.logger.Printf("entry click ignored: map not loaded")
		return
	}
	if err := c.deps.Map.CenterOn(workout.Coords(), c.zoom, true); err != nil {
		c.logger.Printf("center on %s: %v", id, err)
	}
}

func (c *Controller) addMarker(w domain.Workout) {
	if err := c.deps.Map.AddMarker(w.Coords(), domain.Describe(w, c.loc), w.Type()); err != nil {
		c.logger.Printf("add marker %s: %v", w.ID(), err)
	}
}

func (c *Controller) renderEntry(w domain.Workout) {
	if err := c.deps.List.RenderEntry(w); err != nil {
		c.logger.Printf("render entry %s: %v", w.ID(), err)
	}
}

func (c *Controller) alert(message string) {
	if err := c.deps.Alerts.Alert(message); err != nil {
		c.logger.Printf("alert %q: %v", message, err)
	}
}
