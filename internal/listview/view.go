// Package listview renders workouts into the page's workout list.
package listview

import (
	"bytes"
	"fmt"
	"html/template"
	"math"
	"math/big"
	"strconv"
	"sync"
	"time"

	"github.com/Ahmed221b/Mapty/internal/domain"
)

// Document is the page the list lives in. OnListClick reports the id of the
// entry nearest to the click target, or "" when the click hit no entry.
type Document interface {
	InsertAfterForm(html string) error
	OnListClick(handler func(entryID string))
}

// Detail is one icon/value/unit row of an entry.
type Detail struct {
	Icon  string
	Value string
	Unit  string
}

// Entry is the view model of a rendered workout.
type Entry struct {
	ID      string
	Type    domain.Type
	Title   string
	Details []Detail
}

var entryTemplate = template.Must(template.New("entry").Parse(`<li class="workout workout--{{.Type}}" data-id="{{.ID}}">
  <h2 class="workout__title">{{.Title}}</h2>
{{- range .Details}}
  <div class="workout__details">
    <span class="workout__icon">{{.Icon}}</span>
    <span class="workout__value">{{.Value}}</span>
    <span class="workout__unit">{{.Unit}}</span>
  </div>
{{- end}}
</li>
`))

// View renders entries into a Document.
type View struct {
	doc Document
	loc *time.Location

	mu      sync.Mutex
	handler func(id string)
}

// New constructs a View. Dates are shown in loc (time.Local when nil).
func New(doc Document, loc *time.Location) *View {
	if loc == nil {
		loc = time.Local
	}
	v := &View{doc: doc, loc: loc}
	doc.OnListClick(v.dispatchClick)
	return v
}

// RenderEntry inserts w directly after the form, so the newest entry is on top.
func (v *View) RenderEntry(w domain.Workout) error {
	html, err := Render(BuildEntry(w, v.loc))
	if err != nil {
		return err
	}
	return v.doc.InsertAfterForm(html)
}

// OnEntryClick registers the handler fired with the clicked entry's id.
func (v *View) OnEntryClick(handler func(id string)) {
	v.mu.Lock()
	v.handler = handler
	v.mu.Unlock()
}

func (v *View) dispatchClick(id string) {
	if id == "" {
		return
	}
	v.mu.Lock()
	handler := v.handler
	v.mu.Unlock()
	if handler != nil {
		handler(id)
	}
}

// BuildEntry formats w for display. Distances are km and durations min;
// pace and speed are shown with one decimal.
func BuildEntry(w domain.Workout, loc *time.Location) Entry {
	e := Entry{
		ID:    w.ID(),
		Type:  w.Type(),
		Title: domain.Describe(w, loc),
		Details: []Detail{
			{Icon: domain.Icon(w.Type()), Value: number(w.Distance()), Unit: "km"},
			{Icon: "⏱", Value: number(w.Duration()), Unit: "min"},
		},
	}
	switch v := w.(type) {
	case *domain.Running:
		e.Details = append(e.Details,
			Detail{Icon: "⚡️", Value: fixed1(v.Pace()), Unit: "min/km"},
			Detail{Icon: "🦶🏼", Value: number(v.Cadence()), Unit: "spm"},
		)
	case *domain.Cycling:
		e.Details = append(e.Details,
			Detail{Icon: "⚡️", Value: fixed1(v.Speed()), Unit: "km/h"},
			Detail{Icon: "⛰", Value: number(v.ElevationGain()), Unit: "m"},
		)
	}
	return e
}

// Render produces the HTML block for e.
func Render(e Entry) (string, error) {
	var buf bytes.Buffer
	if err := entryTemplate.Execute(&buf, e); err != nil {
		return "", fmt.Errorf("render entry %s: %w", e.ID, err)
	}
	return buf.String(), nil
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// fixed1 formats v with one decimal the way the page's toFixed(1) does: the
// exact binary value is rounded and ties go away from zero, so 2.25 is "2.3".
func fixed1(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	sign := ""
	if v < 0 {
		sign, v = "-", -v
	}
	if v >= 1e21 {
		return sign + strconv.FormatFloat(v, 'g', -1, 64)
	}

	scaled := new(big.Float).SetPrec(128).SetFloat64(v)
	scaled.Mul(scaled, big.NewFloat(10))
	n, _ := scaled.Int(nil)
	frac := new(big.Float).SetPrec(128).Sub(scaled, new(big.Float).SetPrec(128).SetInt(n))
	if frac.Cmp(big.NewFloat(0.5)) >= 0 {
		n.Add(n, big.NewInt(1))
	}

	digits := n.String()
	if len(digits) < 2 {
		digits = "0" + digits
	}
	return sign + digits[:len(digits)-1] + "." + digits[len(digits)-1:]
}
