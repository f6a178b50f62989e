package storage

import (
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// AddProvider adds an identity to the provider set. Adding an existing
// provider is a no-op.
func (s *Storage) AddProvider(addr common.Address) error {
	return s.setArtifact(providerPrefix, addr.Bytes(), true)
}

// RemoveProvider removes an identity from the provider set.
func (s *Storage) RemoveProvider(addr common.Address) error {
	return s.deleteArtifact(providerPrefix, addr.Bytes())
}

// HasProvider reports whether the identity belongs to the provider set.
func (s *Storage) HasProvider(addr common.Address) (bool, error) {
	return s.hasArtifact(providerPrefix, addr.Bytes())
}

// ListProviders returns every identity in the provider set.
func (s *Storage) ListProviders() ([]common.Address, error) {
	keys, err := s.listKeys(providerPrefix, nil)
	if err != nil {
		return nil, err
	}
	providers := make([]common.Address, 0, len(keys))
	for _, k := range keys {
		providers = append(providers, common.BytesToAddress(k))
	}
	return providers, nil
}

// LastAction returns the timestamp of the last accepted state-changing call
// of the identity. It returns the zero time if the identity has no recorded
// action yet.
func (s *Storage) LastAction(addr common.Address) (time.Time, error) {
	var unixNano int64
	if err := s.getArtifact(rateLimitPrefix, addr.Bytes(), &unixNano); err != nil {
		if errors.Is(err, ErrNotFound) {
			return time.Time{}, nil
		}
		return time.Time{}, err
	}
	return time.Unix(0, unixNano), nil
}

// SetLastAction records the timestamp of an accepted state-changing call.
func (s *Storage) SetLastAction(addr common.Address, t time.Time) error {
	return s.setArtifact(rateLimitPrefix, addr.Bytes(), t.UnixNano())
}
