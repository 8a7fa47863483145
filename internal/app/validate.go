package app

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Ahmed221b/Mapty/internal/domain"
)

var (
	// ErrInvalidInput is returned when a required field is not a finite positive number.
	ErrInvalidInput = errors.New("distance and duration must be positive numbers")
	// ErrUnknownType is returned when the form names no known workout type.
	ErrUnknownType = errors.New("unknown workout type")
)

// BuildWorkout validates the raw form fields and constructs the workout at coords.
//
// Running needs distance, duration and cadence finite and positive. Cycling needs
// distance, duration and elevation finite, but only distance and duration
// positive: a negative elevation gain is accepted.
func BuildWorkout(in FormInput, coords domain.Coords) (domain.Workout, error) {
	distance := parseNumber(in.Distance)
	duration := parseNumber(in.Duration)

	switch domain.Type(in.Type) {
	case domain.TypeRunning:
		cadence := parseNumber(in.Cadence)
		if !allFinite(distance, duration, cadence) || !allPositive(distance, duration, cadence) {
			return nil, ErrInvalidInput
		}
		return domain.NewRunning(coords, distance, duration, cadence), nil
	case domain.TypeCycling:
		elevation := parseNumber(in.Elevation)
		if !allFinite(distance, duration, elevation) || !allPositive(distance, duration) {
			return nil, ErrInvalidInput
		}
		return domain.NewCycling(coords, distance, duration, elevation), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, in.Type)
	}
}

// parseNumber reads a form field with strconv's decimal rules after trimming
// space: blank is zero and anything unparsable is NaN.
func parseNumber(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func allFinite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func allPositive(values ...float64) bool {
	for _, v := range values {
		if !(v > 0) {
			return false
		}
	}
	return true
}
