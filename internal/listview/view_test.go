package listview

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Ahmed221b/Mapty/internal/domain"
)

func TestBuildEntryRunning(t *testing.T) {
	date := time.Date(2024, time.May, 1, 10, 0, 0, 0, time.UTC)
	w := domain.RestoreRunning("r-1", date, domain.Coords{Lat: 51.5, Lng: -0.12}, 5, 25, 180)

	e := BuildEntry(w, time.UTC)

	require.Equal(t, "r-1", e.ID)
	require.Equal(t, "Running on May 1", e.Title)
	require.Equal(t, []Detail{
		{Icon: "🏃‍♂️", Value: "5", Unit: "km"},
		{Icon: "⏱", Value: "25", Unit: "min"},
		{Icon: "⚡️", Value: "5.0", Unit: "min/km"},
		{Icon: "🦶🏼", Value: "180", Unit: "spm"},
	}, e.Details)
}

func TestBuildEntryCycling(t *testing.T) {
	date := time.Date(2024, time.December, 24, 10, 0, 0, 0, time.UTC)
	w := domain.RestoreCycling("c-1", date, domain.Coords{}, 27, 95, -12.5)

	e := BuildEntry(w, time.UTC)

	require.Equal(t, "Cycling on December 24", e.Title)
	require.Equal(t, []Detail{
		{Icon: "🚴‍♀️", Value: "27", Unit: "km"},
		{Icon: "⏱", Value: "95", Unit: "min"},
		{Icon: "⚡️", Value: "17.1", Unit: "km/h"},
		{Icon: "⛰", Value: "-12.5", Unit: "m"},
	}, e.Details)
}

func TestBuildEntryRoundsTiesUp(t *testing.T) {
	date := time.Date(2024, time.May, 1, 10, 0, 0, 0, time.UTC)

	run := BuildEntry(domain.RestoreRunning("r-2", date, domain.Coords{}, 4, 9, 170), time.UTC)
	require.Equal(t, "2.3", run.Details[2].Value)

	ride := BuildEntry(domain.RestoreCycling("c-2", date, domain.Coords{}, 0.75, 180, 0), time.UTC)
	require.Equal(t, "0.3", ride.Details[2].Value)
}

func TestFixed1(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{in: 2.25, want: "2.3"},
		{in: 0.25, want: "0.3"},
		{in: 0.05, want: "0.1"},
		{in: 1.45, want: "1.4"},
		{in: 5, want: "5.0"},
		{in: 0, want: "0.0"},
		{in: 17.052631578947366, want: "17.1"},
		{in: -0.25, want: "-0.3"},
		{in: 1234.95, want: "1235.0"},
		{in: math.Inf(1), want: "Infinity"},
		{in: math.NaN(), want: "NaN"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, fixed1(tt.in), "fixed1(%v)", tt.in)
	}
}

func TestRenderEntryInsertsAfterForm(t *testing.T) {
	doc := &stubDocument{}
	view := New(doc, time.UTC)

	first := domain.NewRunning(domain.Coords{}, 5, 25, 180)
	second := domain.NewCycling(domain.Coords{}, 0.0001, 1, 0)
	require.NoError(t, view.RenderEntry(first))
	require.NoError(t, view.RenderEntry(second))

	require.Len(t, doc.inserted, 2)
	require.Contains(t, doc.inserted[0], `class="workout workout--running"`)
	require.Contains(t, doc.inserted[0], `data-id="`+first.ID()+`"`)
	require.Contains(t, doc.inserted[0], `<span class="workout__value">5.0</span>`)
	require.Contains(t, doc.inserted[1], `class="workout workout--cycling"`)
	require.Contains(t, doc.inserted[1], `<span class="workout__value">0.0001</span>`)
}

func TestOnEntryClickIgnoresClicksOutsideEntries(t *testing.T) {
	doc := &stubDocument{}
	view := New(doc, time.UTC)

	var got []string
	view.OnEntryClick(func(id string) { got = append(got, id) })

	doc.click("")
	doc.click("abc")
	doc.click("")
	doc.click("def")

	require.Equal(t, []string{"abc", "def"}, got)
}

type stubDocument struct {
	inserted []string
	onClick  func(string)
}

func (d *stubDocument) InsertAfterForm(html string) error {
	d.inserted = append(d.inserted, html)
	return nil
}

func (d *stubDocument) OnListClick(handler func(string)) { d.onClick = handler }

func (d *stubDocument) click(id string) {
	if d.onClick != nil {
		d.onClick(id)
	}
}
