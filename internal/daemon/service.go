// Package daemon provides the long-running watcher that follows the logged-in
// user's ledger across processes and republishes changes over HTTP and SSE.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/theirongolddev/fintrack/internal/account"
	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/pipeline"
)

// Event types published by the service.
const (
	EventSnapshot       = "snapshot"
	EventLedgerDelta    = "ledger_delta"
	EventSessionChanged = "session_changed"
	EventAlerts         = "alerts"
)

// Config controls the daemon runtime behavior.
type Config struct {
	Addr         string
	Interval     time.Duration
	EventsBuffer int
	DataDir      string
	Currency     string

	// Now overrides the clock used for budget windows.
	Now func() time.Time
}

// Sessions is the part of the user directory the daemon follows.
type Sessions interface {
	Sync() (bool, error)
	Session() *model.User
	OnSessionChanged(fn func(account.SessionEvent)) func()
}

// TransactionSource lists one owner's transactions.
type TransactionSource interface {
	ListForOwner(owner string) ([]model.Transaction, error)
}

// BudgetSource lists one owner's budgets.
type BudgetSource interface {
	ListForOwner(owner string) ([]model.Budget, error)
}

// Snapshot is the logged-in user's derived state at one poll.
type Snapshot struct {
	At           time.Time       `json:"at"`
	User         string          `json:"user,omitempty"`
	LoggedIn     bool            `json:"logged_in"`
	Transactions int             `json:"transactions"`
	Budgets      int             `json:"budgets"`
	Income       decimal.Decimal `json:"income"`
	Expense      decimal.Decimal `json:"expense"`
	Balance      decimal.Decimal `json:"balance"`
	Alerts       []string        `json:"alerts,omitempty"`
}

// Delta captures snapshot deltas between polls.
type Delta struct {
	Transactions int             `json:"transactions"`
	Budgets      int             `json:"budgets"`
	Income       decimal.Decimal `json:"income"`
	Expense      decimal.Decimal `json:"expense"`
}

func (d Delta) isZero() bool {
	return d.Transactions == 0 &&
		d.Budgets == 0 &&
		d.Income.IsZero() &&
		d.Expense.IsZero()
}

// Event is emitted whenever the watched state changes.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     *Delta    `json:"delta,omitempty"`
	Reason    string    `json:"reason,omitempty"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	DataDir         string    `json:"data_dir,omitempty"`
	Summary         Snapshot  `json:"summary"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg      Config
	sessions Sessions
	txs      TransactionSource
	budgets  BudgetSource
	metrics  *metrics

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	lastError   string
	hasSnapshot bool
	snapshot    Snapshot
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event

	stop     chan struct{}
	stopOnce sync.Once
	detach   func()
}

// New returns a daemon service watching sessions and the two ledgers.
func New(cfg Config, sessions Sessions, txs TransactionSource, budgets BudgetSource) *Service {
	if cfg.Interval < time.Second {
		cfg.Interval = 5 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8797"
	}
	if cfg.Currency == "" {
		cfg.Currency = "₹"
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	s := &Service{
		cfg:       cfg,
		sessions:  sessions,
		txs:       txs,
		budgets:   budgets,
		metrics:   newMetrics(),
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
		stop:      make(chan struct{}),
	}
	s.detach = sessions.OnSessionChanged(s.onSessionChanged)
	return s
}

// Run starts HTTP endpoints and polling until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	defer s.detach()

	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", s.cfg.Addr).Msg("daemon listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("daemon http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.stopOnce.Do(func() { close(s.stop) })
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		// Seed initial snapshot so status is useful immediately.
		s.pollOnce()

		ticker := time.NewTicker(s.cfg.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				s.pollOnce()
			}
		}
	})

	return g.Wait()
}

// pollOnce reloads the session and the owner's records from the store and
// publishes whatever changed since the previous poll.
func (s *Service) pollOnce() {
	s.metrics.polls.Inc()

	// Sync fires session observers itself, which publish session_changed.
	if _, err := s.sessions.Sync(); err != nil {
		s.recordError(err)
		return
	}

	now := s.cfg.Now()
	snap, err := s.buildSnapshot(now)
	if err != nil {
		s.recordError(err)
		return
	}
	s.metrics.observe(snap)

	var pending []Event

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = snap
	s.lastPollAt = now
	s.pollCount++
	s.lastError = ""

	switch {
	case !prevExists:
		pending = append(pending, s.newEventLocked(EventSnapshot, snap, now))
	case prev.User != snap.User:
		// A different user: the session event already announced it.
	default:
		if delta := diffSnapshots(prev, snap); !delta.isZero() {
			ev := s.newEventLocked(EventLedgerDelta, snap, now)
			ev.Delta = &delta
			pending = append(pending, ev)
		}
	}
	if len(snap.Alerts) > 0 && !sameAlerts(prev.Alerts, snap.Alerts) {
		pending = append(pending, s.newEventLocked(EventAlerts, snap, now))
	}
	s.mu.Unlock()

	for _, ev := range pending {
		s.publishEvent(ev)
	}
}

func (s *Service) recordError(err error) {
	s.metrics.pollErrors.Inc()
	s.mu.Lock()
	s.lastError = err.Error()
	s.lastPollAt = time.Now()
	s.pollCount++
	s.mu.Unlock()
	log.Error().Err(err).Msg("daemon poll failed")
}

func (s *Service) buildSnapshot(now time.Time) (Snapshot, error) {
	snap := Snapshot{
		At:      now,
		Income:  decimal.Zero,
		Expense: decimal.Zero,
		Balance: decimal.Zero,
	}
	u := s.sessions.Session()
	if u == nil {
		return snap, nil
	}
	snap.User = u.Email
	snap.LoggedIn = true

	txs, err := s.txs.ListForOwner(u.Email)
	if err != nil {
		return snap, fmt.Errorf("loading transactions: %w", err)
	}
	budgets, err := s.budgets.ListForOwner(u.Email)
	if err != nil {
		return snap, fmt.Errorf("loading budgets: %w", err)
	}

	totals := pipeline.Totals(txs)
	snap.Transactions = len(txs)
	snap.Budgets = len(budgets)
	snap.Income = totals.Income
	snap.Expense = totals.Expense
	snap.Balance = totals.Balance
	for _, a := range pipeline.BudgetAlerts(u.Email, budgets, txs, now) {
		snap.Alerts = append(snap.Alerts, a.Message(s.cfg.Currency))
	}
	return snap, nil
}

// onSessionChanged runs on the goroutine that changed the session.
func (s *Service) onSessionChanged(ev account.SessionEvent) {
	now := s.cfg.Now()
	snap, err := s.buildSnapshot(now)
	if err != nil {
		log.Error().Err(err).Str("reason", ev.Reason).Msg("daemon session snapshot failed")
		return
	}
	s.metrics.observe(snap)

	s.mu.Lock()
	s.snapshot = snap
	s.hasSnapshot = true
	out := s.newEventLocked(EventSessionChanged, snap, now)
	out.Reason = ev.Reason
	s.mu.Unlock()

	log.Info().Str("reason", ev.Reason).Str("user", snap.User).Msg("session changed")
	s.publishEvent(out)
}

func (s *Service) newEventLocked(typ string, snap Snapshot, at time.Time) Event {
	s.nextEventID++
	return Event{
		ID:        s.nextEventID,
		Type:      typ,
		Timestamp: at,
		Snapshot:  snap,
	}
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		Transactions: curr.Transactions - prev.Transactions,
		Budgets:      curr.Budgets - prev.Budgets,
		Income:       curr.Income.Sub(prev.Income),
		Expense:      curr.Expense.Sub(prev.Expense),
	}
}

func sameAlerts(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	x := append([]string(nil), a...)
	y := append([]string(nil), b...)
	sort.Strings(x)
	sort.Strings(y)
	return strings.Join(x, "\n") == strings.Join(y, "\n")
}

func (s *Service) publishEvent(ev Event) {
	s.metrics.events.WithLabelValues(ev.Type).Inc()

	s.mu.Lock()
	if len(s.events) >= s.cfg.EventsBuffer {
		copy(s.events, s.events[1:])
		s.events = s.events[:len(s.events)-1]
	}
	s.events = append(s.events, ev)

	// Sends and closes both happen under mu, so a channel is never written
	// after close. A subscriber whose buffer is full is dropped.
	dropped := false
	for id, ch := range s.subs {
		select {
		case ch <- ev:
		default:
			delete(s.subs, id)
			close(ch)
			dropped = true
		}
	}
	if dropped {
		s.metrics.subscribers.Set(float64(len(s.subs)))
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		DataDir:         s.cfg.DataDir,
		Summary:         s.snapshot,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	s.metrics.subscribers.Set(float64(len(s.subs)))
	return id
}

// removeSubscriber unregisters and closes the channel for id. It is a no-op
// if publishEvent already dropped it.
func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.subs[id]
	if !ok {
		return
	}
	delete(s.subs, id)
	close(ch)
	s.metrics.subscribers.Set(float64(len(s.subs)))
}
