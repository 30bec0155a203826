package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"vitalboard/internal/logger"
)

const defaultRefreshInterval = 30 * time.Second

// refreshTimeout bounds one background fetch cycle.
const refreshTimeout = 10 * time.Second

// ViewState is what a view renders: the last committed snapshot plus the
// loading/error flags around it. The zero state (Loading=true, no snapshot)
// is the first-load indicator.
type ViewState struct {
	Loading     bool          `json:"loading"`
	Error       string        `json:"error,omitempty"`
	Snapshot    *ViewSnapshot `json:"snapshot,omitempty"`
	LastUpdated time.Time     `json:"last_updated,omitempty"`
}

// Refresher keeps a snapshot per category fresh on a fixed interval.
//
// Commit rules: a successful cycle replaces the whole state atomically and
// clears any error; a failed cycle keeps the previous snapshot visible and
// sets a persistent inline error. A manual Refresh racing a timer tick is not
// deduplicated: whichever cycle commits last wins, matching the source
// behavior this reproduces.
type Refresher struct {
	views    *ViewService
	log      *logger.Logger
	interval time.Duration

	mu     sync.RWMutex
	states map[string]ViewState

	stop     chan struct{}
	stopOnce sync.Once
}

func NewRefresher(views *ViewService, interval time.Duration, log *logger.Logger) *Refresher {
	if interval <= 0 {
		interval = defaultRefreshInterval
	}
	r := &Refresher{
		views:    views,
		log:      log,
		interval: interval,
		states:   make(map[string]ViewState),
		stop:     make(chan struct{}),
	}
	for _, c := range views.Categories() {
		r.states[c] = ViewState{Loading: true}
	}
	go r.run()
	return r
}

var _ Views = (*Refresher)(nil)

func (r *Refresher) Categories() []string { return r.views.Categories() }

// State returns the current committed state for the category.
func (r *Refresher) State(category string) (ViewState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	st, ok := r.states[category]
	if !ok {
		return ViewState{}, ErrUnknownCategory
	}
	return st, nil
}

// Refresh runs one fetch cycle for the category right now and returns the
// state it committed.
func (r *Refresher) Refresh(ctx context.Context, category string) (ViewState, error) {
	if _, err := r.State(category); err != nil {
		return ViewState{}, err
	}
	r.refreshOne(ctx, category)
	return r.State(category)
}

// Close stops the background loop. In-flight cycles are not cancelled; their
// commits land and nothing reads them afterwards.
func (r *Refresher) Close() {
	r.stopOnce.Do(func() { close(r.stop) })
}

func (r *Refresher) run() {
	// first load right away, then on the interval
	r.refreshAll()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			r.refreshAll()
		}
	}
}

func (r *Refresher) refreshAll() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()
	for _, c := range r.views.Categories() {
		r.refreshOne(ctx, c)
	}
}

func (r *Refresher) refreshOne(ctx context.Context, category string) {
	snap, err := r.views.Build(ctx, category)

	r.mu.Lock()
	defer r.mu.Unlock()
	prev := r.states[category]
	if err != nil {
		if r.log != nil {
			r.log.Errorw("view_refresh_failed", "category", category, "err", err)
		}
		// stale snapshot stays visible under the error banner
		r.states[category] = ViewState{
			Error:       fmt.Sprintf("Failed to load %s data. Please try again later.", category),
			Snapshot:    prev.Snapshot,
			LastUpdated: prev.LastUpdated,
		}
		return
	}
	r.states[category] = ViewState{
		Snapshot:    &snap,
		LastUpdated: snap.GeneratedAt,
	}
}
