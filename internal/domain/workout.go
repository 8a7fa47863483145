// Package domain defines the workout model recorded by the tracker.
package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Type discriminates the workout variants.
type Type string

const (
	TypeRunning Type = "running"
	TypeCycling Type = "cycling"
)

// Valid reports whether t names a known variant.
func (t Type) Valid() bool {
	return t == TypeRunning || t == TypeCycling
}

// Coords is a latitude/longitude pair. It serialises as [lat, lng].
type Coords struct {
	Lat float64
	Lng float64
}

// MarshalJSON encodes the pair as a two element array.
func (c Coords) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{c.Lat, c.Lng})
}

// UnmarshalJSON decodes a two element array.
func (c *Coords) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("coords: expected [lat, lng], got %d values", len(pair))
	}
	c.Lat, c.Lng = pair[0], pair[1]
	return nil
}

// Workout is the shape shared by every variant. Callers dispatch on the
// concrete type (*Running or *Cycling) with a type switch.
type Workout interface {
	ID() string
	Date() time.Time
	Coords() Coords
	Distance() float64
	Duration() float64
	Type() Type
}

var (
	now   = func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) }
	newID = func() string { return uuid.Must(uuid.NewV7()).String() }
)

type base struct {
	id       string
	date     time.Time
	coords   Coords
	distance float64
	duration float64
}

func newBase(coords Coords, distance, duration float64) base {
	return base{
		id:       newID(),
		date:     now(),
		coords:   coords,
		distance: distance,
		duration: duration,
	}
}

func (b *base) ID() string        { return b.id }
func (b *base) Date() time.Time   { return b.date }
func (b *base) Coords() Coords    { return b.coords }
func (b *base) Distance() float64 { return b.distance }
func (b *base) Duration() float64 { return b.duration }

// restore overwrites the generated identity with a persisted one.
func (b *base) restore(id string, date time.Time) {
	b.id = id
	b.date = date
}

// Running is a run with cadence in steps per minute. Pace is min/km.
type Running struct {
	base
	cadence float64
	pace    float64
}

// NewRunning records a run and computes its pace. Inputs are not validated.
func NewRunning(coords Coords, distance, duration, cadence float64) *Running {
	r := &Running{base: newBase(coords, distance, duration), cadence: cadence}
	r.pace = r.duration / r.distance
	return r
}

// RestoreRunning rebuilds a persisted run, keeping its original id and date.
func RestoreRunning(id string, date time.Time, coords Coords, distance, duration, cadence float64) *Running {
	r := NewRunning(coords, distance, duration, cadence)
	r.restore(id, date)
	return r
}

func (r *Running) Type() Type        { return TypeRunning }
func (r *Running) Cadence() float64 { return r.cadence }
func (r *Running) Pace() float64    { return r.pace }

// Cycling is a ride with elevation gain in metres. Speed is km/h.
type Cycling struct {
	base
	elevationGain float64
	speed         float64
}

// NewCycling records a ride and computes its speed. Inputs are not validated.
func NewCycling(coords Coords, distance, duration, elevationGain float64) *Cycling {
	c := &Cycling{base: newBase(coords, distance, duration), elevationGain: elevationGain}
	c.speed = c.distance / (c.duration / 60)
	return c
}

// RestoreCycling rebuilds a persisted ride, keeping its original id and date.
func RestoreCycling(id string, date time.Time, coords Coords, distance, duration, elevationGain float64) *Cycling {
	c := NewCycling(coords, distance, duration, elevationGain)
	c.restore(id, date)
	return c
}

func (c *Cycling) Type() Type              { return TypeCycling }
func (c *Cycling) ElevationGain() float64 { return c.elevationGain }
func (c *Cycling) Speed() float64         { return c.speed }

// Find returns the workout with the given id using a linear scan.
func Find(workouts []Workout, id string) (Workout, bool) {
	for _, w := range workouts {
		if w.ID() == id {
			return w, true
		}
	}
	return nil, false
}
