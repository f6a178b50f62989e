package storage

import (
	"errors"
	"fmt"
)

var configKey = []byte("config")

// ErrAlreadyExists is returned when creating an artifact whose key is
// already in use.
var ErrAlreadyExists = errors.New("already exists")

// Initialize stores the initial configuration and the first batch in a
// single write transaction. It fails with ErrAlreadyExists if a
// configuration is already present: initialization runs exactly once for
// the lifetime of the state.
func (s *Storage) Initialize(cfg *Config, first *Batch) error {
	exists, err := s.hasArtifact(configPrefix, configKey)
	if err != nil {
		return fmt.Errorf("check config: %w", err)
	}
	if exists {
		return ErrAlreadyExists
	}
	tx := s.db.WriteTx()
	if err := setInTx(tx, configPrefix, configKey, cfg); err != nil {
		tx.Discard()
		return fmt.Errorf("set config: %w", err)
	}
	if err := setInTx(tx, batchPrefix, batchKey(first.ID), first); err != nil {
		tx.Discard()
		return fmt.Errorf("set first batch: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	return nil
}

// Config retrieves the global configuration. It returns ErrNotFound if the
// state has not been initialized.
func (s *Storage) Config() (*Config, error) {
	cfg := &Config{}
	if err := s.getArtifact(configPrefix, configKey, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetConfig overwrites the global configuration.
func (s *Storage) SetConfig(cfg *Config) error {
	return s.setArtifact(configPrefix, configKey, cfg)
}
