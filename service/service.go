// Package service wires the tally storage, engine, decryption oracle and
// HTTP API into a single long-running service.
package service

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"go.vocdoni.io/dvote/db"
	"go.vocdoni.io/dvote/db/metadb"
	"go.vocdoni.io/dvote/log"

	"github.com/craig6250-nelsony/MTG-FHE-Sideboard/api"
	"github.com/craig6250-nelsony/MTG-FHE-Sideboard/crypto/ecc/curves"
	"github.com/craig6250-nelsony/MTG-FHE-Sideboard/crypto/elgamal"
	"github.com/craig6250-nelsony/MTG-FHE-Sideboard/crypto/ethereum"
	"github.com/craig6250-nelsony/MTG-FHE-Sideboard/oracle"
	"github.com/craig6250-nelsony/MTG-FHE-Sideboard/storage"
	"github.com/craig6250-nelsony/MTG-FHE-Sideboard/tally"
	"github.com/craig6250-nelsony/MTG-FHE-Sideboard/types"
)

// Config holds the tally service configuration.
type Config struct {
	// DataDir is the directory holding the persisted state.
	DataDir string
	// Host and Port bind the HTTP API server.
	Host string
	Port int
	// CurveType selects the curve backend for the ElGamal scheme.
	CurveType string
	// EncryptionKey is the ElGamal private key held by the in-process
	// oracle. If nil a fresh key pair is generated.
	EncryptionKey *big.Int
	// OracleSignerHex is the hex private key the oracle signs results
	// with. If empty a fresh key is generated.
	OracleSignerHex string
}

// Service is the assembled tally service.
type Service struct {
	storage *storage.Storage
	engine  *tally.Engine
	oracle  *oracle.Service
	api     *api.API

	mu     sync.Mutex
	cancel context.CancelFunc
	host   string
	port   int
}

// New assembles a tally service from the given configuration. The ElGamal
// public key is derived from the oracle's private key, so every component
// shares one key pair.
func New(cfg Config) (*Service, error) {
	if cfg.CurveType == "" {
		cfg.CurveType = curves.CurveTypeBabyJubJub
	}
	curve := curves.New(cfg.CurveType)

	privateKey := cfg.EncryptionKey
	if privateKey == nil {
		var err error
		if _, privateKey, err = elgamal.GenerateKey(curve); err != nil {
			return nil, fmt.Errorf("generate encryption key: %w", err)
		}
	}
	publicKey := curve.New()
	publicKey.SetGenerator()
	publicKey.ScalarMult(publicKey, privateKey)
	scheme := elgamal.NewScheme(publicKey)

	signer := ethereum.NewSignKeys()
	if cfg.OracleSignerHex != "" {
		if err := signer.AddHexKey(cfg.OracleSignerHex); err != nil {
			return nil, fmt.Errorf("import oracle signer key: %w", err)
		}
	} else if err := signer.Generate(); err != nil {
		return nil, fmt.Errorf("generate oracle signer key: %w", err)
	}

	database, err := metadb.New(db.TypePebble, cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	stg := storage.New(database)

	lastID, err := stg.LastRequestID()
	if err != nil {
		return nil, fmt.Errorf("read last request id: %w", err)
	}

	s := &Service{storage: stg, host: cfg.Host, port: cfg.Port}

	s.oracle, err = oracle.New(oracle.Config{
		PrivateKey: privateKey,
		Signer:     signer,
		Callback: func(requestID uint64, cleartext *types.BigInt, proof []byte) error {
			return s.engine.OnDecrypted(requestID, cleartext, proof)
		},
		FirstRequestID: lastID + 1,
	})
	if err != nil {
		return nil, fmt.Errorf("create oracle: %w", err)
	}

	s.engine, err = tally.New(tally.Config{
		Storage:  stg,
		Scheme:   scheme,
		Oracle:   s.oracle,
		Verifier: oracle.NewVerifier(signer.Address()),
	})
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}
	return s, nil
}

// Engine returns the tally engine, for tests and embedding.
func (s *Service) Engine() *tally.Engine {
	return s.engine
}

// Start launches the oracle worker and the HTTP API server. It returns an
// error if the service is already running.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return fmt.Errorf("service already running")
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.oracle.Start(ctx)

	var err error
	s.api, err = api.New(&api.APIConfig{
		Host:   s.host,
		Port:   s.port,
		Engine: s.engine,
	})
	if err != nil {
		s.cancel()
		s.cancel = nil
		return fmt.Errorf("failed to start API server: %w", err)
	}
	log.Infow("tally service started", "host", s.host, "port", s.port)
	return nil
}

// Stop halts the oracle worker and closes the storage.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.oracle.Stop()
	s.storage.Close()
}
