package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/Ahmed221b/Mapty/internal/domain"
)

// Option configures optional behaviour for the Adapter.
type Option func(*Adapter)

// WithLogger overrides the logger used to report skipped records.
func WithLogger(logger *log.Logger) Option {
	return func(a *Adapter) {
		a.logger = logger
	}
}

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(a *Adapter) {
		if key != "" {
			a.key = key
		}
	}
}

// Adapter serialises the ordered workout list to one blob in a Store.
type Adapter struct {
	store  Store
	key    string
	logger *log.Logger
}

// NewAdapter constructs an Adapter over store.
func NewAdapter(store Store, opts ...Option) *Adapter {
	a := &Adapter{
		store:  store,
		key:    DefaultKey,
		logger: log.New(log.Writer(), "[storage] ", log.LstdFlags|log.Lshortfile),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Key returns the storage key in use.
func (a *Adapter) Key() string { return a.key }

// Save overwrites the stored blob with the full list, in order.
func (a *Adapter) Save(ctx context.Context, workouts []domain.Workout) error {
	records := make([]record, 0, len(workouts))
	for _, w := range workouts {
		rec, err := toRecord(w)
		if err != nil {
			return err
		}
		records = append(records, rec)
	}

	blob, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode workouts: %w", err)
	}
	if err := a.store.Set(ctx, a.key, string(blob)); err != nil {
		recordStoreError("set")
		return fmt.Errorf("write %q: %w", a.key, err)
	}
	return nil
}

// Load returns the stored list. A missing, unreadable or malformed blob yields
// an empty list. Records that cannot be rebuilt are skipped individually.
func (a *Adapter) Load(ctx context.Context) []domain.Workout {
	blob, ok, err := a.store.Get(ctx, a.key)
	if err != nil {
		recordStoreError("get")
		a.logger.Printf("read %q failed, starting empty: %v", a.key, err)
		return nil
	}
	if !ok || blob == "" {
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(blob), &raw); err != nil {
		recordSkipped(skipMalformedBlob)
		a.logger.Printf("stored %q is not a workout list, starting empty: %v", a.key, err)
		return nil
	}

	workouts := make([]domain.Workout, 0, len(raw))
	for i, item := range raw {
		var rec record
		if err := json.Unmarshal(item, &rec); err != nil {
			recordSkipped(skipMalformedRecord)
			a.logger.Printf("skipping record %d: %v", i, err)
			continue
		}
		w, err := rec.toWorkout()
		if err != nil {
			if errors.Is(err, ErrUnknownWorkoutType) {
				recordSkipped(skipUnknownType)
			}
			a.logger.Printf("skipping record %d (id %q): %v", i, rec.ID, err)
			continue
		}
		workouts = append(workouts, w)
	}
	return workouts
}
