package domain

import (
	"strings"
	"time"
)

// Icon returns the emoji used for a workout type in popups and list entries.
func Icon(t Type) string {
	if t == TypeRunning {
		return "🏃‍♂️"
	}
	return "🚴‍♀️"
}

// Title capitalises the type name, e.g. "Running".
func (t Type) Title() string {
	if t == "" {
		return ""
	}
	s := string(t)
	return strings.ToUpper(s[:1]) + s[1:]
}

// Describe renders "<Type> on <Month> <Day>" with the date shown in loc.
func Describe(w Workout, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return w.Type().Title() + " on " + w.Date().In(loc).Format("January 2")
}
