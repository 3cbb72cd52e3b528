// Package records keeps a history of finished keyfall sessions in the
// platform's application data directory.
package records

import (
	"cmp"
	"fmt"
	"log"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	"github.com/plus3/keyfall/game"
)

const (
	recordsObject   = "records"
	historyProperty = "history"

	// DefaultLimit is how many sessions a store keeps.
	DefaultLimit = 50
)

// Record summarises one finished session.
type Record struct {
	ID       uuid.UUID      `yaml:"id"`
	Started  time.Time      `yaml:"started"`
	Duration time.Duration  `yaml:"duration"`
	Matching game.MatchMode `yaml:"matching"`
	Spawned  int            `yaml:"spawned"`
	Hits     int            `yaml:"hits"`
	Misses   int            `yaml:"misses"`
	Expired  int            `yaml:"expired"`
}

// NewRecord captures session under a fresh id.
func NewRecord(session game.Session, started time.Time, matching game.MatchMode) Record {
	return Record{
		ID:       uuid.New(),
		Started:  started.UTC(),
		Duration: session.Elapsed,
		Matching: matching,
		Spawned:  session.Spawned,
		Hits:     session.Hits,
		Misses:   session.Misses,
		Expired:  session.Expired,
	}
}

func (r Record) Accuracy() float64 {
	return game.Session{Hits: r.Hits, Misses: r.Misses}.Accuracy()
}

func (r Record) String() string {
	return fmt.Sprintf("%s %d/%d hits, %d misses, %d expired in %s",
		r.ID.String()[:8], r.Hits, r.Spawned, r.Misses, r.Expired, r.Duration.Round(time.Second))
}

// Store holds session records, persisting them through gdata when a manager
// is available and keeping them in memory otherwise.
type Store struct {
	manager *gdata.Manager
	records []Record
	limit   int
}

// Open opens the data directory for appName and loads its history.
// Failures are logged and leave the store in memory-only mode.
func Open(appName string) *Store {
	manager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("[records] Warning: persistence disabled: %v", err)
		manager = nil
	}

	store := NewStore(manager)
	if err := store.Load(); err != nil {
		log.Printf("[records] Warning: %v (starting with an empty history)", err)
	}
	return store
}

// NewStore wraps manager, which may be nil for a memory-only store.
func NewStore(manager *gdata.Manager) *Store {
	return &Store{
		manager: manager,
		limit:   DefaultLimit,
	}
}

// SetLimit caps the number of kept records; older ones are dropped first.
func (s *Store) SetLimit(limit int) {
	s.limit = max(limit, 1)
	s.trim()
}

func (s *Store) Persistent() bool {
	return s.manager != nil
}

func (s *Store) Load() error {
	s.records = nil
	if s.manager == nil || !s.manager.ObjectPropExists(recordsObject, historyProperty) {
		return nil
	}

	data, err := s.manager.LoadObjectProp(recordsObject, historyProperty)
	if err != nil {
		return fmt.Errorf("failed to load records: %w", err)
	}

	var loaded []Record
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("failed to unmarshal records: %w", err)
	}
	s.records = loaded
	s.trim()
	return nil
}

func (s *Store) Save() error {
	if s.manager == nil {
		return nil
	}

	data, err := yaml.Marshal(s.records)
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}
	if err := s.manager.SaveObjectProp(recordsObject, historyProperty, data); err != nil {
		return fmt.Errorf("failed to save records: %w", err)
	}
	return nil
}

// Add appends r and saves the history.
func (s *Store) Add(r Record) error {
	s.records = append(s.records, r)
	s.trim()
	return s.Save()
}

func (s *Store) trim() {
	if extra := len(s.records) - s.limit; extra > 0 {
		s.records = slices.Delete(s.records, 0, extra)
	}
}

// All returns the kept records, oldest first.
func (s *Store) All() []Record {
	return slices.Clone(s.records)
}

// Best returns the record with the most hits, breaking ties by accuracy and
// then by age.
func (s *Store) Best() (Record, bool) {
	if len(s.records) == 0 {
		return Record{}, false
	}
	best := slices.MaxFunc(s.records, func(a, b Record) int {
		if c := cmp.Compare(a.Hits, b.Hits); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Accuracy(), b.Accuracy()); c != 0 {
			return c
		}
		return b.Started.Compare(a.Started)
	})
	return best, true
}
