package app

import (
	"context"

	"github.com/Ahmed221b/Mapty/internal/domain"
)

// Geolocator resolves the user's current position. It may block until the
// underlying capability answers; no timeout is imposed.
type Geolocator interface {
	CurrentPosition(ctx context.Context) (domain.Coords, error)
}

// MapView places markers, moves the view and reports clicks.
type MapView interface {
	Initialize(ctx context.Context, center domain.Coords, zoom int) error
	OnClick(handler func(domain.Coords))
	AddMarker(coords domain.Coords, label string, t domain.Type) error
	CenterOn(coords domain.Coords, zoom int, animated bool) error
}

// ListView renders entries and reports entry clicks by workout id.
type ListView interface {
	RenderEntry(w domain.Workout) error
	OnEntryClick(handler func(id string))
}

// FormInput carries the raw form fields read on submit.
type FormInput struct {
	Type      string `json:"type"`
	Distance  string `json:"distance"`
	Duration  string `json:"duration"`
	Cadence   string `json:"cadence"`
	Elevation string `json:"elevation"`
}

// Form is the workout entry form.
type Form interface {
	Show() error
	Hide() error
	Clear() error
	ToggleElevationField() error
	OnSubmit(handler func(FormInput))
	OnTypeChange(handler func())
}

// Alerter shows a blocking message to the user.
type Alerter interface {
	Alert(message string) error
}

// Repository persists the ordered workout list.
type Repository interface {
	Save(ctx context.Context, workouts []domain.Workout) error
	Load(ctx context.Context) []domain.Workout
}
