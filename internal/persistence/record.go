package persistence

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/Ahmed221b/Mapty/internal/domain"
)

// ErrUnknownWorkoutType is returned when a stored record names no known variant.
var ErrUnknownWorkoutType = errors.New("unknown workout type")

// record is the stored shape of one workout. Pace and speed are written so the
// blob stays readable by the browser app, and are recomputed on load. A
// non-finite pace or speed is left out since JSON cannot hold it.
type record struct {
	ID            string        `json:"id"`
	Date          time.Time     `json:"date"`
	Coords        domain.Coords `json:"coords"`
	Distance      float64       `json:"distance"`
	Duration      float64       `json:"duration"`
	Type          domain.Type   `json:"type"`
	Cadence       *float64      `json:"cadence,omitempty"`
	Pace          *float64      `json:"pace,omitempty"`
	ElevationGain *float64      `json:"elevationGain,omitempty"`
	Speed         *float64      `json:"speed,omitempty"`
}

func toRecord(w domain.Workout) (record, error) {
	rec := record{
		ID:       w.ID(),
		Date:     w.Date(),
		Coords:   w.Coords(),
		Distance: w.Distance(),
		Duration: w.Duration(),
		Type:     w.Type(),
	}
	switch v := w.(type) {
	case *domain.Running:
		cadence := v.Cadence()
		rec.Cadence, rec.Pace = &cadence, finite(v.Pace())
	case *domain.Cycling:
		gain := v.ElevationGain()
		rec.ElevationGain, rec.Speed = &gain, finite(v.Speed())
	default:
		return record{}, fmt.Errorf("%w: %T", ErrUnknownWorkoutType, w)
	}
	return rec, nil
}

func (r record) toWorkout() (domain.Workout, error) {
	switch r.Type {
	case domain.TypeRunning:
		return domain.RestoreRunning(r.ID, r.Date, r.Coords, r.Distance, r.Duration, deref(r.Cadence)), nil
	case domain.TypeCycling:
		return domain.RestoreCycling(r.ID, r.Date, r.Coords, r.Distance, r.Duration, deref(r.ElevationGain)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownWorkoutType, r.Type)
	}
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func finite(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}
