// Package oracle implements the reference decryption oracle for the tally
// core. It holds the ElGamal private key, decrypts encrypted aggregates
// with a bounded discrete-log search, and signs each result with its
// secp256k1 key. The signature is the proof the tally core verifies before
// accepting a callback: authenticity of a result comes from the signer set,
// never from transport identity.
package oracle

import (
	"context"
	"encoding/binary"
	"fmt"
	"math/big"
	"sync"
	"sync/atomic"

	"go.vocdoni.io/dvote/log"

	"github.com/craig6250-nelsony/MTG-FHE-Sideboard/crypto/elgamal"
	"github.com/craig6250-nelsony/MTG-FHE-Sideboard/crypto/ethereum"
	"github.com/craig6250-nelsony/MTG-FHE-Sideboard/fhe"
	"github.com/craig6250-nelsony/MTG-FHE-Sideboard/types"
)

// Callback delivers a decrypted result with its proof. The tally engine's
// OnDecrypted has this shape.
type Callback func(requestID uint64, cleartext *types.BigInt, proof []byte) error

// Config holds the dependencies of an oracle Service.
type Config struct {
	// PrivateKey is the ElGamal decryption key for the aggregates.
	PrivateKey *big.Int
	// Signer signs every result; its address must be in the verifier's
	// expected signer set.
	Signer *ethereum.SignKeys
	// Callback receives completed decryptions.
	Callback Callback
	// MaxCleartext bounds the discrete-log search. Defaults to
	// types.MaxCleartext.
	MaxCleartext uint64
	// FirstRequestID is the identifier assigned to the first request.
	// Pass one past the highest identifier already persisted so that
	// identifiers keep strictly increasing across restarts. Defaults to 1.
	FirstRequestID uint64
	// QueueSize is the capacity of the pending request queue. Defaults to
	// 128.
	QueueSize int
}

type request struct {
	id        uint64
	aggregate *elgamal.Ciphertext
}

// Service is an asynchronous decryption oracle. RequestDecryption returns
// immediately; a worker goroutine decrypts in the background and delivers
// results through the callback as independent invocations.
type Service struct {
	privateKey   *big.Int
	signer       *ethereum.SignKeys
	callback     Callback
	maxCleartext uint64

	lastID atomic.Uint64
	queue  chan request

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates an oracle Service from the given configuration.
func New(cfg Config) (*Service, error) {
	if cfg.PrivateKey == nil {
		return nil, fmt.Errorf("missing decryption private key")
	}
	if cfg.Signer == nil {
		return nil, fmt.Errorf("missing result signer")
	}
	if cfg.Callback == nil {
		return nil, fmt.Errorf("missing result callback")
	}
	if cfg.MaxCleartext == 0 {
		cfg.MaxCleartext = types.MaxCleartext
	}
	if cfg.FirstRequestID == 0 {
		cfg.FirstRequestID = 1
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 128
	}
	s := &Service{
		privateKey:   cfg.PrivateKey,
		signer:       cfg.Signer,
		callback:     cfg.Callback,
		maxCleartext: cfg.MaxCleartext,
		queue:        make(chan request, cfg.QueueSize),
	}
	s.lastID.Store(cfg.FirstRequestID - 1)
	return s, nil
}

// RequestDecryption implements fhe.Oracle. It assigns a fresh request
// identifier, enqueues the aggregate and returns without waiting for the
// decryption.
func (s *Service) RequestDecryption(aggregate fhe.Ciphertext) (uint64, error) {
	ct, ok := aggregate.(*elgamal.Ciphertext)
	if !ok {
		return 0, fmt.Errorf("foreign ciphertext type %T", aggregate)
	}
	id := s.lastID.Add(1)
	select {
	case s.queue <- request{id: id, aggregate: ct}:
	default:
		return 0, fmt.Errorf("oracle queue is full")
	}
	return id, nil
}

// Start launches the worker goroutine processing queued requests.
func (s *Service) Start(ctx context.Context) {
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			select {
			case req := <-s.queue:
				s.process(req)
			case <-s.ctx.Done():
				return
			}
		}
	}()
}

// Stop cancels the worker and waits for it to finish. Queued requests not
// yet processed stay pending forever, which their contexts reflect.
func (s *Service) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

// process decrypts a single aggregate and delivers the signed result.
func (s *Service) process(req request) {
	_, message, err := elgamal.DecryptPoints(s.privateKey, req.aggregate.C1, req.aggregate.C2, s.maxCleartext)
	if err != nil {
		log.Errorw(err, fmt.Sprintf("failed to decrypt aggregate for request %d", req.id))
		return
	}
	cleartext := (*types.BigInt)(message)
	proof, err := s.signer.SignEthereum(ResultPayload(req.id, cleartext))
	if err != nil {
		log.Errorw(err, fmt.Sprintf("failed to sign result for request %d", req.id))
		return
	}
	if err := s.callback(req.id, cleartext, proof); err != nil {
		log.Warnw("result callback rejected",
			"requestID", req.id,
			"error", err.Error(),
		)
	}
}

// ResultPayload is the byte string a result proof signs: the request
// identifier followed by the big-endian cleartext bytes.
func ResultPayload(requestID uint64, cleartext *types.BigInt) []byte {
	buf := make([]byte, 8, 8+len(cleartext.Bytes()))
	binary.BigEndian.PutUint64(buf, requestID)
	return append(buf, cleartext.Bytes()...)
}
