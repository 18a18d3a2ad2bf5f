package state

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/felixgeelhaar/shopfront/internal/api"
	"github.com/felixgeelhaar/shopfront/internal/domain"
	"github.com/felixgeelhaar/shopfront/internal/log"
	"github.com/felixgeelhaar/shopfront/internal/storage"
	"github.com/felixgeelhaar/shopfront/internal/telemetry"
)

// ErrSuperseded is returned by an asynchronous operation whose result was
// discarded because a newer request for the same slot was dispatched.
var ErrSuperseded = stderrors.New("superseded by a newer request")

// keyFavoritesPrefix starts every favorites slot, so a session change can
// supersede them all.
const keyFavoritesPrefix = "favorites."

// Request slots. Responses are applied only for the latest dispatch per slot.
const (
	keyAuth          = "auth"
	keyFavoritesList = keyFavoritesPrefix + "list"
	keyProductsList  = "products.list"
	keyProduct       = "products.current"
)

// Operation names, used as action and metric labels.
const (
	opRegister       = "register"
	opLogin          = "login"
	opCurrentUser    = "getCurrentUser"
	opFetchFavorites = "fetchFavorites"
	opAddFavorite    = "addFavorite"
	opRemoveFavorite = "removeFavorite"
	opFetchProducts  = "fetchProducts"
	opFetchProduct   = "fetchProductById"
)

// API is the backend surface the store drives. *api.Client implements it.
type API interface {
	Register(ctx context.Context, name, email, password string) (*api.AuthResponse, error)
	Login(ctx context.Context, email, password string) (*api.AuthResponse, error)
	Me(ctx context.Context) (*domain.User, error)
	ListFavorites(ctx context.Context) ([]domain.Favorite, error)
	AddFavorite(ctx context.Context, productID string) (*domain.FavoriteRecord, error)
	RemoveFavorite(ctx context.Context, productID string) error
	ListProducts(ctx context.Context, page, pageSize int) (*api.ProductPage, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
}

// Instruments receives store activity. *metrics.Metrics implements it.
type Instruments interface {
	ObserveAction(action string)
	ObserveOperation(operation, outcome string, duration time.Duration)
	ObserveStorage(op string, err error)
	SetCartItems(n int)
	RecordError(component string, err error)
}

type nopInstruments struct{}

func (nopInstruments) ObserveAction(string)                           {}
func (nopInstruments) ObserveOperation(string, string, time.Duration) {}
func (nopInstruments) ObserveStorage(string, error)                   {}
func (nopInstruments) SetCartItems(int)                               {}
func (nopInstruments) RecordError(string, error)                      {}

// Options configures a Store.
type Options struct {
	API     API
	Tokens  *TokenGate
	Storage storage.Storage

	Logger         *log.Logger
	Metrics        Instruments
	TracerProvider trace.TracerProvider

	// DefaultTheme is used when no valid theme is persisted.
	DefaultTheme Theme
}

// Store holds the current State and serialises every transition.
type Store struct {
	api     API
	tokens  *TokenGate
	storage storage.Storage
	logger  *log.Logger
	metrics Instruments
	tracer  trace.Tracer

	mu      sync.Mutex
	state   State
	seq     map[string]uint64
	subs    map[int]func(State)
	nextSub int
}

// New builds a Store and restores persisted state: the session flag from
// the token, the cart and the theme. Storage failures are logged and the
// affected slice starts empty.
func New(ctx context.Context, opts Options) *Store {
	s := &Store{
		api:     opts.API,
		tokens:  opts.Tokens,
		storage: opts.Storage,
		logger:  log.OrDefault(opts.Logger).With("component", "state"),
		metrics: opts.Metrics,
		seq:     make(map[string]uint64),
		subs:    make(map[int]func(State)),
	}
	if s.metrics == nil {
		s.metrics = nopInstruments{}
	}
	tp := opts.TracerProvider
	if tp == nil {
		tp = noop.NewTracerProvider()
	}
	s.tracer = tp.Tracer("github.com/felixgeelhaar/shopfront/internal/state")

	s.tokens.attach(s)
	s.state.Theme = s.loadTheme(ctx, opts.DefaultTheme)
	s.dispatch(sessionRestored{hasToken: s.tokens.Token(ctx) != ""})
	s.dispatch(cartRestored{items: s.loadCart(ctx)})
	return s
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn to be called with every new snapshot and returns
// a function that removes it. fn runs on the goroutine that caused the
// change, outside the store lock; concurrent changes may be delivered out
// of order, which State.Version disambiguates.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// dispatch applies a synchronous action.
func (s *Store) dispatch(a Action) State {
	s.mu.Lock()
	snap := s.applyLocked(a)
	subs := s.subscribersLocked()
	s.mu.Unlock()
	notify(subs, snap)
	return snap
}

func (s *Store) applyLocked(a Action) State {
	s.state = Reduce(s.state, a)
	s.metrics.ObserveAction(a.Type())
	s.logger.Debug("action applied", "action", a.Type(), "version", s.state.Version)
	return s.state
}

func (s *Store) subscribersLocked() []func(State) {
	if len(s.subs) == 0 {
		return nil
	}
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	return subs
}

func notify(subs []func(State), snap State) {
	for _, fn := range subs {
		fn(snap)
	}
}

// ticket identifies one dispatched request for a slot.
type ticket struct {
	key string
	n   uint64
}

type ticketKey struct{}

func withTicket(ctx context.Context, t ticket) context.Context {
	return context.WithValue(ctx, ticketKey{}, t)
}

func ticketFrom(ctx context.Context) (ticket, bool) {
	t, ok := ctx.Value(ticketKey{}).(ticket)
	return t, ok
}

// currentLocked reports whether t is still the latest request for its slot.
func (s *Store) currentLocked(t ticket) bool {
	return s.seq[t.key] == t.n
}

// supersedeLocked invalidates every in-flight request for the given slots.
func (s *Store) supersedeLocked(keys ...string) {
	for _, k := range keys {
		s.seq[k]++
	}
}

// outcome is what an asynchronous operation settles with. effect, when set,
// runs under the store lock right before action is applied, and only if
// the request is still current.
type outcome struct {
	action Action
	err    error
	effect func()
}

// run executes one fenced asynchronous operation: pending is applied at
// once, call runs without the lock, and its outcome is applied only if no
// newer request for key was dispatched meanwhile.
func (s *Store) run(ctx context.Context, key, op string, pending Action, call func(ctx context.Context) outcome) error {
	ctx, span := telemetry.StartActionSpan(ctx, s.tracer, op)
	defer span.End()
	start := time.Now()

	s.mu.Lock()
	s.supersedeLocked(key)
	t := ticket{key: key, n: s.seq[key]}
	snap := s.applyLocked(pending)
	subs := s.subscribersLocked()
	s.mu.Unlock()
	notify(subs, snap)

	out := call(withTicket(ctx, t))

	s.mu.Lock()
	current := s.currentLocked(t)
	if current {
		if out.effect != nil {
			out.effect()
		}
		snap = s.applyLocked(out.action)
		subs = s.subscribersLocked()
	}
	s.mu.Unlock()

	elapsed := time.Since(start)
	telemetry.RecordDuration(span, op, elapsed)
	switch {
	case !current:
		s.metrics.ObserveOperation(op, "superseded", elapsed)
		s.logger.DebugContext(ctx, "stale response discarded", "operation", op)
		telemetry.RecordError(span, ErrSuperseded)
		return ErrSuperseded
	case out.err != nil:
		notify(subs, snap)
		s.metrics.ObserveOperation(op, "error", elapsed)
		s.metrics.RecordError("state", out.err)
		telemetry.RecordError(span, out.err)
		return out.err
	default:
		notify(subs, snap)
		s.metrics.ObserveOperation(op, "success", elapsed)
		telemetry.RecordSuccess(span)
		return nil
	}
}
