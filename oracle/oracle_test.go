package oracle

import (
	"context"
	"encoding/binary"
	"math/big"
	"sync"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/craig6250-nelsony/MTG-FHE-Sideboard/crypto/ecc/curves"
	"github.com/craig6250-nelsony/MTG-FHE-Sideboard/crypto/elgamal"
	"github.com/craig6250-nelsony/MTG-FHE-Sideboard/crypto/ethereum"
	"github.com/craig6250-nelsony/MTG-FHE-Sideboard/types"
)

type delivery struct {
	requestID uint64
	cleartext *types.BigInt
	proof     []byte
}

// collector is a callback capturing every delivered result.
type collector struct {
	mu         sync.Mutex
	deliveries []delivery
	notify     chan struct{}
}

func newCollector() *collector {
	return &collector{notify: make(chan struct{}, 16)}
}

func (c *collector) callback(requestID uint64, cleartext *types.BigInt, proof []byte) error {
	c.mu.Lock()
	c.deliveries = append(c.deliveries, delivery{requestID, cleartext, proof})
	c.mu.Unlock()
	c.notify <- struct{}{}
	return nil
}

func (c *collector) wait(t *testing.T) delivery {
	select {
	case <-c.notify:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for oracle callback")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deliveries[len(c.deliveries)-1]
}

func TestServiceRoundTrip(t *testing.T) {
	curve := curves.New(curves.CurveTypeBabyJubJub)
	publicKey, privateKey, err := elgamal.GenerateKey(curve)
	qt.Assert(t, err, qt.IsNil)
	scheme := elgamal.NewScheme(publicKey)

	signer := ethereum.NewSignKeys()
	qt.Assert(t, signer.Generate(), qt.IsNil)

	sink := newCollector()
	svc, err := New(Config{
		PrivateKey:   privateKey,
		Signer:       signer,
		Callback:     sink.callback,
		MaxCleartext: 1 << 16,
	})
	qt.Assert(t, err, qt.IsNil)
	svc.Start(context.Background())
	defer svc.Stop()

	a, err := scheme.Encrypt(big.NewInt(4))
	qt.Assert(t, err, qt.IsNil)
	b, err := scheme.Encrypt(big.NewInt(6))
	qt.Assert(t, err, qt.IsNil)
	aggregate, err := scheme.Add(a, b)
	qt.Assert(t, err, qt.IsNil)

	requestID, err := svc.RequestDecryption(aggregate)
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, requestID, qt.Equals, uint64(1))

	got := sink.wait(t)
	qt.Assert(t, got.requestID, qt.Equals, requestID)
	qt.Assert(t, got.cleartext.String(), qt.Equals, "10")

	// The proof verifies against the service signer and nothing else.
	verifier := NewVerifier(signer.Address())
	qt.Assert(t, verifier.VerifyProof(requestID, got.cleartext, got.proof), qt.IsTrue)
	qt.Assert(t, verifier.VerifyProof(requestID+1, got.cleartext, got.proof), qt.IsFalse)
	tampered := new(types.BigInt).SetBytes([]byte{0x0b})
	qt.Assert(t, verifier.VerifyProof(requestID, tampered, got.proof), qt.IsFalse)

	foreign := ethereum.NewSignKeys()
	qt.Assert(t, foreign.Generate(), qt.IsNil)
	qt.Assert(t, NewVerifier(foreign.Address()).VerifyProof(requestID, got.cleartext, got.proof), qt.IsFalse)
}

func TestRequestIDs(t *testing.T) {
	curve := curves.New(curves.CurveTypeBabyJubJub)
	publicKey, privateKey, err := elgamal.GenerateKey(curve)
	qt.Assert(t, err, qt.IsNil)
	scheme := elgamal.NewScheme(publicKey)

	signer := ethereum.NewSignKeys()
	qt.Assert(t, signer.Generate(), qt.IsNil)

	// A service seeded past persisted identifiers keeps them strictly
	// increasing.
	svc, err := New(Config{
		PrivateKey:     privateKey,
		Signer:         signer,
		Callback:       func(uint64, *types.BigInt, []byte) error { return nil },
		FirstRequestID: 42,
	})
	qt.Assert(t, err, qt.IsNil)

	handle, err := scheme.Encrypt(big.NewInt(1))
	qt.Assert(t, err, qt.IsNil)
	for want := uint64(42); want < 45; want++ {
		id, err := svc.RequestDecryption(handle)
		qt.Assert(t, err, qt.IsNil)
		qt.Assert(t, id, qt.Equals, want)
	}
}

func TestResultPayload(t *testing.T) {
	cleartext := new(types.BigInt).SetBytes([]byte{0x01, 0x02})
	payload := ResultPayload(7, cleartext)
	qt.Assert(t, len(payload), qt.Equals, 10)
	qt.Assert(t, binary.BigEndian.Uint64(payload[:8]), qt.Equals, uint64(7))
	qt.Assert(t, payload[8:], qt.DeepEquals, []byte{0x01, 0x02})
}
