// Package store owns the two record windows and the projections derived from
// them. All mutation funnels through one writer lock, and every mutation
// recomputes the projections before the lock is released, so readers can never
// observe a half-applied update or a stale projection.
package store

import (
	"sync"
	"time"

	"churn-dashboard/backend/internal/analytics/domain"
	"churn-dashboard/backend/internal/analytics/engine"
	"churn-dashboard/backend/internal/analytics/window"
)

// Projections is a point-in-time view of the four derived projections plus the
// live feed. It is a deep copy; holding one across mutations is safe.
type Projections struct {
	LifecycleMatrix   engine.LifecycleRiskMatrix `json:"lifecycle_matrix"`
	FeatureImportance engine.ImportanceTable     `json:"feature_importance"`
	FlowGraph         engine.FlowGraph           `json:"flow_graph"`
	Heatmap           engine.Heatmap             `json:"heatmap"`
	HistorySize       int                        `json:"history_size"`
	ComputedAt        time.Time                  `json:"computed_at"`
}

// Store is the aggregation store. The zero value is not usable; construct with New.
type Store struct {
	mu        sync.RWMutex
	history   *window.Window[domain.AlertRecord]
	liveFeed  *window.Window[domain.EventRecord]
	ranked    []domain.FeatureImportance
	projected Projections

	subsMu sync.Mutex
	subs   map[int]chan struct{}
	nextID int

	nowF func() time.Time
}

// New returns a store with a history window of historyCap (chronological,
// oldest-evicted) and a live-feed window of liveCap (newest-first).
func New(historyCap, liveCap int) *Store {
	s := &Store{
		history:  window.NewHistory[domain.AlertRecord](historyCap),
		liveFeed: window.NewLiveFeed[domain.EventRecord](liveCap),
		subs:     make(map[int]chan struct{}),
		nowF:     func() time.Time { return time.Now().UTC() },
	}
	s.projected = s.recompute()
	return s
}

// ApplyEvent head-inserts a live event. Live events do not affect the
// projections, so no recompute happens.
func (s *Store) ApplyEvent(rec domain.EventRecord) {
	s.mu.Lock()
	s.liveFeed.Append(rec)
	s.mu.Unlock()
	s.notify()
}

// ApplyAlert tail-appends an alert to the history window and recomputes all
// projections before releasing the writer lock.
func (s *Store) ApplyAlert(rec domain.AlertRecord) {
	s.mu.Lock()
	s.history.Append(rec)
	s.projected = s.recompute()
	s.mu.Unlock()
	s.notify()
}

// ReplaceHistory swaps the history window wholesale with an authoritative
// chronological snapshot from the pull source, then recomputes. Last writer
// wins against interleaved pushes.
func (s *Store) ReplaceHistory(records []domain.AlertRecord) {
	s.mu.Lock()
	s.history.Replace(records)
	s.projected = s.recompute()
	s.mu.Unlock()
	s.notify()
}

// SetFeatureImportance replaces the externally ranked feature list and
// recomputes the importance table.
func (s *Store) SetFeatureImportance(ranked []domain.FeatureImportance) {
	cp := make([]domain.FeatureImportance, len(ranked))
	copy(cp, ranked)
	s.mu.Lock()
	s.ranked = cp
	s.projected = s.recompute()
	s.mu.Unlock()
	s.notify()
}

// recompute rebuilds every projection from the current window contents.
// Callers must hold mu.
func (s *Store) recompute() Projections {
	history := s.history.Snapshot()
	return Projections{
		LifecycleMatrix:   engine.ComputeLifecycleMatrix(history),
		FeatureImportance: engine.BuildImportanceTable(s.ranked),
		FlowGraph:         engine.BuildFlowGraph(history),
		Heatmap:           engine.ComputeHeatmap(history),
		HistorySize:       len(history),
		ComputedAt:        s.nowF(),
	}
}

// Snapshot returns the current projections.
func (s *Store) Snapshot() Projections {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.projected
}

// LiveFeed returns the live-feed window contents, newest first.
func (s *Store) LiveFeed() []domain.EventRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.liveFeed.Snapshot()
}

// History returns the history window contents in chronological order.
func (s *Store) History() []domain.AlertRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history.Snapshot()
}

// Subscribe registers a listener and returns its id and a signal channel with
// capacity one. Notifications coalesce: a slow consumer sees at least one
// signal for any burst of mutations and reads the latest state via Snapshot.
func (s *Store) Subscribe() (int, <-chan struct{}) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	id := s.nextID
	s.nextID++
	ch := make(chan struct{}, 1)
	s.subs[id] = ch
	return id, ch
}

// Unsubscribe removes the listener registered under id. Unknown ids are ignored.
func (s *Store) Unsubscribe(id int) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	delete(s.subs, id)
}

func (s *Store) notify() {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
