// Package tally implements the confidential batch-aggregation state
// machine. Authorized providers commit opaque encrypted entries into
// capacity-bounded batches; the engine sums a batch homomorphically without
// seeing plaintext and coordinates an asynchronous decryption oracle whose
// callback must match, via an integrity hash, the aggregate that existed at
// request time.
//
// Every operation is atomic: it either applies all of its state changes and
// emits its event, or fails with no side effect. A single mutex serializes
// the read-modify-write sequences, standing in for the transactional host
// the state machine assumes.
package tally

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.vocdoni.io/dvote/log"
	"go.vocdoni.io/dvote/util"

	"github.com/craig6250-nelsony/MTG-FHE-Sideboard/fhe"
	"github.com/craig6250-nelsony/MTG-FHE-Sideboard/storage"
	"github.com/craig6250-nelsony/MTG-FHE-Sideboard/types"
)

// Config holds the dependencies of an Engine.
type Config struct {
	Storage  *storage.Storage
	Scheme   fhe.Scheme
	Oracle   fhe.Oracle
	Verifier fhe.ProofVerifier
	// Clock overrides the time source, used by tests to drive the rate
	// limiter. Defaults to time.Now.
	Clock func() time.Time
	// EventBuffer is the capacity of the event channel. Defaults to 256.
	EventBuffer int
}

// Engine is the confidential tally state machine. All exported operations
// are safe for concurrent use.
type Engine struct {
	mu       sync.Mutex
	stg      *storage.Storage
	scheme   fhe.Scheme
	oracle   fhe.Oracle
	verifier fhe.ProofVerifier
	now      func() time.Time
	events   chan Event
}

// New creates an Engine from the given configuration.
func New(cfg Config) (*Engine, error) {
	if cfg.Storage == nil {
		return nil, fmt.Errorf("missing storage")
	}
	if cfg.Scheme == nil {
		return nil, fmt.Errorf("missing encrypted arithmetic scheme")
	}
	if cfg.Oracle == nil {
		return nil, fmt.Errorf("missing decryption oracle")
	}
	if cfg.Verifier == nil {
		return nil, fmt.Errorf("missing proof verifier")
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.EventBuffer == 0 {
		cfg.EventBuffer = 256
	}
	return &Engine{
		stg:      cfg.Storage,
		scheme:   cfg.Scheme,
		oracle:   cfg.Oracle,
		verifier: cfg.Verifier,
		now:      cfg.Clock,
		events:   make(chan Event, cfg.EventBuffer),
	}, nil
}

// Initialize creates the process-wide state: the global configuration with
// the default cooldown, the first model-version generation, a fresh service
// identity, and the initial open batch. It runs exactly once; a second call
// fails with ErrAlreadyInitialized.
func (e *Engine) Initialize(owner common.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	cfg := &storage.Config{
		Owner:        owner,
		Paused:       false,
		Cooldown:     types.DefaultCooldown,
		CurrentBatch: 1,
		Generation:   types.FirstGeneration,
		ServiceID:    util.RandomBytes(types.ServiceIDSize),
	}
	first := &storage.Batch{ID: 1, Open: true, Capacity: types.DefaultBatchCapacity}
	if err := e.stg.Initialize(cfg, first); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return ErrAlreadyInitialized
		}
		return err
	}
	log.Infow("tally initialized", "owner", owner.String(), "serviceID", cfg.ServiceID.String())
	e.emit(Event{Type: EventBatchOpened, BatchID: first.ID})
	return nil
}

// SetCooldown updates the per-provider cooldown. Owner only.
func (e *Engine) SetCooldown(caller common.Address, cooldown time.Duration) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	cfg, err := e.gateOwner(caller)
	if err != nil {
		return err
	}
	cfg.Cooldown = cooldown
	if err := e.stg.SetConfig(cfg); err != nil {
		return err
	}
	log.Debugw("cooldown updated", "cooldown", cooldown.String())
	e.emit(Event{Type: EventCooldownUpdated, Cooldown: cooldown})
	return nil
}

// AddProvider adds an identity to the provider set. Owner only.
func (e *Engine) AddProvider(caller, provider common.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.gateOwner(caller); err != nil {
		return err
	}
	if err := e.stg.AddProvider(provider); err != nil {
		return err
	}
	log.Debugw("provider added", "provider", provider.String())
	e.emit(Event{Type: EventProviderAdded, Provider: provider})
	return nil
}

// RemoveProvider removes an identity from the provider set. Owner only.
func (e *Engine) RemoveProvider(caller, provider common.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.gateOwner(caller); err != nil {
		return err
	}
	if err := e.stg.RemoveProvider(provider); err != nil {
		return err
	}
	log.Debugw("provider removed", "provider", provider.String())
	e.emit(Event{Type: EventProviderRemoved, Provider: provider})
	return nil
}

// Pause suspends all provider operations. Owner only; fails if the service
// is already paused.
func (e *Engine) Pause(caller common.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	cfg, err := e.gateOwner(caller)
	if err != nil {
		return err
	}
	if cfg.Paused {
		return ErrAlreadyPaused
	}
	cfg.Paused = true
	if err := e.stg.SetConfig(cfg); err != nil {
		return err
	}
	log.Infow("tally paused")
	e.emit(Event{Type: EventPaused})
	return nil
}

// Unpause resumes provider operations. Owner only; fails if the service is
// not paused.
func (e *Engine) Unpause(caller common.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	cfg, err := e.gateOwner(caller)
	if err != nil {
		return err
	}
	if !cfg.Paused {
		return ErrNotPaused
	}
	cfg.Paused = false
	if err := e.stg.SetConfig(cfg); err != nil {
		return err
	}
	log.Infow("tally unpaused")
	e.emit(Event{Type: EventUnpaused})
	return nil
}

// AdvanceGeneration moves the model-version generation forward by one,
// immediately invalidating every previously committed entry for future
// aggregation. The external migration process owns this call; it is gated
// on the owner identity.
func (e *Engine) AdvanceGeneration(caller common.Address) (uint32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cfg, err := e.gateOwner(caller)
	if err != nil {
		return 0, err
	}
	cfg.Generation++
	if err := e.stg.SetConfig(cfg); err != nil {
		return 0, err
	}
	log.Infow("generation advanced", "generation", cfg.Generation)
	return cfg.Generation, nil
}

// gateOwner loads the configuration and checks that the caller is the
// owner. The engine mutex must be held.
func (e *Engine) gateOwner(caller common.Address) (*storage.Config, error) {
	cfg, err := e.stg.Config()
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotInitialized
		}
		return nil, err
	}
	if cfg.Owner != caller {
		return nil, ErrNotOwner
	}
	return cfg, nil
}

// gateProvider runs the authorization and precondition checks shared by all
// state-changing provider operations: service not paused, caller in the
// provider set, caller cooldown elapsed. It does not record the new
// timestamp; the operation persists it together with its own writes once
// everything else has succeeded. The engine mutex must be held.
func (e *Engine) gateProvider(caller common.Address) (*storage.Config, error) {
	cfg, err := e.stg.Config()
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotInitialized
		}
		return nil, err
	}
	if cfg.Paused {
		return nil, ErrPaused
	}
	isProvider, err := e.stg.HasProvider(caller)
	if err != nil {
		return nil, err
	}
	if !isProvider {
		return nil, ErrNotProvider
	}
	last, err := e.stg.LastAction(caller)
	if err != nil {
		return nil, err
	}
	if !last.IsZero() && e.now().Sub(last) < cfg.Cooldown {
		return nil, ErrRateLimited
	}
	return cfg, nil
}

// Owner returns the owner identity, or the zero address before
// initialization.
func (e *Engine) Owner() common.Address {
	cfg, err := e.config()
	if err != nil {
		return common.Address{}
	}
	return cfg.Owner
}

// CurrentBatchID returns the identifier of the most recently opened batch.
func (e *Engine) CurrentBatchID() (uint64, error) {
	cfg, err := e.config()
	if err != nil {
		return 0, err
	}
	return cfg.CurrentBatch, nil
}

// Paused reports whether provider operations are suspended.
func (e *Engine) Paused() (bool, error) {
	cfg, err := e.config()
	if err != nil {
		return false, err
	}
	return cfg.Paused, nil
}

// Cooldown returns the per-provider cooldown currently in force.
func (e *Engine) Cooldown() (time.Duration, error) {
	cfg, err := e.config()
	if err != nil {
		return 0, err
	}
	return cfg.Cooldown, nil
}

// Generation returns the current model-version generation.
func (e *Engine) Generation() (uint32, error) {
	cfg, err := e.config()
	if err != nil {
		return 0, err
	}
	return cfg.Generation, nil
}

// IsProvider reports whether the identity belongs to the provider set.
func (e *Engine) IsProvider(addr common.Address) (bool, error) {
	return e.stg.HasProvider(addr)
}

// Batch returns the stored state of a batch, or ErrBatchUnknown.
func (e *Engine) Batch(id uint64) (*storage.Batch, error) {
	b, err := e.stg.Batch(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrBatchUnknown
		}
		return nil, err
	}
	return b, nil
}

// ContextProcessed reports whether the decryption request has been
// completed. It returns ErrUnknownRequest for unknown identifiers.
func (e *Engine) ContextProcessed(requestID uint64) (bool, error) {
	ctx, err := e.stg.Context(requestID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, ErrUnknownRequest
		}
		return false, err
	}
	return ctx.Processed, nil
}

// Result returns the public result of a completed decryption request.
func (e *Engine) Result(requestID uint64) (*types.BigInt, error) {
	r, err := e.stg.Result(requestID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUnknownRequest
		}
		return nil, err
	}
	return r.Value, nil
}

func (e *Engine) config() (*storage.Config, error) {
	cfg, err := e.stg.Config()
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotInitialized
		}
		return nil, err
	}
	return cfg, nil
}
