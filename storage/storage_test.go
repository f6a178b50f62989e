package storage

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	qt "github.com/frankban/quicktest"
	"go.vocdoni.io/dvote/db/metadb"

	"github.com/craig6250-nelsony/MTG-FHE-Sideboard/types"
)

func testStorage(t *testing.T) *Storage {
	return New(metadb.NewTest(t))
}

func testConfig() *Config {
	return &Config{
		Owner:        common.HexToAddress("0x1111111111111111111111111111111111111111"),
		Cooldown:     10 * time.Second,
		CurrentBatch: 1,
		Generation:   types.FirstGeneration,
		ServiceID:    make(types.HexBytes, types.ServiceIDSize),
	}
}

func TestInitializeOnce(t *testing.T) {
	stg := testStorage(t)

	_, err := stg.Config()
	qt.Assert(t, err, qt.ErrorIs, ErrNotFound)

	cfg := testConfig()
	first := &Batch{ID: 1, Open: true, Capacity: types.DefaultBatchCapacity}
	qt.Assert(t, stg.Initialize(cfg, first), qt.IsNil)

	// Both artifacts landed in the same transaction.
	stored, err := stg.Config()
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, stored, qt.DeepEquals, cfg)
	b, err := stg.Batch(1)
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, b, qt.DeepEquals, first)

	// A second initialization is rejected.
	qt.Assert(t, stg.Initialize(cfg, first), qt.ErrorIs, ErrAlreadyExists)
}

func TestConfigRoundTrip(t *testing.T) {
	stg := testStorage(t)
	cfg := testConfig()
	qt.Assert(t, stg.Initialize(cfg, &Batch{ID: 1, Open: true, Capacity: 4}), qt.IsNil)

	cfg.Paused = true
	cfg.Cooldown = time.Minute
	cfg.Generation = 3
	qt.Assert(t, stg.SetConfig(cfg), qt.IsNil)

	stored, err := stg.Config()
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, stored, qt.DeepEquals, cfg)
}

func TestProviders(t *testing.T) {
	stg := testStorage(t)
	a := common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	b := common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")

	has, err := stg.HasProvider(a)
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, has, qt.IsFalse)

	qt.Assert(t, stg.AddProvider(a), qt.IsNil)
	qt.Assert(t, stg.AddProvider(b), qt.IsNil)
	qt.Assert(t, stg.AddProvider(a), qt.IsNil) // idempotent

	has, err = stg.HasProvider(a)
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, has, qt.IsTrue)

	providers, err := stg.ListProviders()
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, len(providers), qt.Equals, 2)

	qt.Assert(t, stg.RemoveProvider(a), qt.IsNil)
	has, err = stg.HasProvider(a)
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, has, qt.IsFalse)
}

func TestLastAction(t *testing.T) {
	stg := testStorage(t)
	addr := common.HexToAddress("0xcccccccccccccccccccccccccccccccccccccccc")

	last, err := stg.LastAction(addr)
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, last.IsZero(), qt.IsTrue)

	now := time.Unix(1700000000, 123456789)
	qt.Assert(t, stg.SetLastAction(addr, now), qt.IsNil)
	last, err = stg.LastAction(addr)
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, last.Equal(now), qt.IsTrue)
}

func TestBatchLifecycle(t *testing.T) {
	stg := testStorage(t)

	_, err := stg.Batch(7)
	qt.Assert(t, err, qt.ErrorIs, ErrNotFound)

	b := &Batch{ID: 7, Open: true, Capacity: 2}
	qt.Assert(t, stg.CreateBatch(b, nil), qt.IsNil)
	qt.Assert(t, stg.CreateBatch(b, nil), qt.ErrorIs, ErrAlreadyExists)

	b.Open = false
	qt.Assert(t, stg.SetBatch(b), qt.IsNil)
	stored, err := stg.Batch(7)
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, stored.Open, qt.IsFalse)

	qt.Assert(t, stg.CreateBatch(&Batch{ID: 2, Open: true, Capacity: 2}, nil), qt.IsNil)
	ids, err := stg.ListBatches()
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, ids, qt.DeepEquals, []uint64{2, 7})
}

func TestCreateBatchUpdatesConfig(t *testing.T) {
	stg := testStorage(t)
	cfg := testConfig()
	qt.Assert(t, stg.Initialize(cfg, &Batch{ID: 1, Open: true, Capacity: 4}), qt.IsNil)

	// The new batch and the current-batch pointer land together.
	cfg.CurrentBatch = 2
	qt.Assert(t, stg.CreateBatch(&Batch{ID: 2, Open: true, Capacity: 4}, cfg), qt.IsNil)
	stored, err := stg.Config()
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, stored.CurrentBatch, qt.Equals, uint64(2))
}

func TestAppendEntry(t *testing.T) {
	stg := testStorage(t)
	b := &Batch{ID: 1, Open: true, Capacity: 8}
	qt.Assert(t, stg.CreateBatch(b, nil), qt.IsNil)

	provider := common.HexToAddress("0xeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee")
	at := time.Unix(1700000000, 0)
	for i := 0; i < 3; i++ {
		e := &Entry{Ciphertext: types.HexBytes{byte(i), 0xff}, Generation: 1}
		qt.Assert(t, stg.AppendEntry(b, e, provider, at.Add(time.Duration(i)*time.Second)), qt.IsNil)
		qt.Assert(t, b.Size, qt.Equals, uint32(i+1))
	}

	// The stored batch size moved with the appends, and so did the
	// provider's accepted-action stamp.
	stored, err := stg.Batch(1)
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, stored.Size, qt.Equals, uint32(3))
	last, err := stg.LastAction(provider)
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, last.Equal(at.Add(2*time.Second)), qt.IsTrue)

	// Entries come back dense and in slot order.
	entries, err := stg.Entries(1)
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, len(entries), qt.Equals, 3)
	for i, e := range entries {
		qt.Assert(t, e.Ciphertext, qt.DeepEquals, types.HexBytes{byte(i), 0xff})
		qt.Assert(t, e.Generation, qt.Equals, uint32(1))
	}

	// Entries of another batch do not leak into the listing.
	b2 := &Batch{ID: 2, Open: true, Capacity: 8}
	qt.Assert(t, stg.CreateBatch(b2, nil), qt.IsNil)
	qt.Assert(t, stg.AppendEntry(b2, &Entry{Ciphertext: types.HexBytes{0xee}, Generation: 1}, provider, at), qt.IsNil)
	entries, err = stg.Entries(1)
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, len(entries), qt.Equals, 3)
}

func TestDecryptionContext(t *testing.T) {
	stg := testStorage(t)

	_, err := stg.Context(1)
	qt.Assert(t, err, qt.ErrorIs, ErrNotFound)

	ctx := &DecryptionContext{
		RequestID:  1,
		BatchID:    4,
		Generation: 2,
		Hash:       types.HexBytes{0x01, 0x02},
		Requester:  common.HexToAddress("0xdddddddddddddddddddddddddddddddddddddddd"),
	}
	at := time.Unix(1700000000, 0)
	qt.Assert(t, stg.CreateContext(ctx, at), qt.IsNil)
	qt.Assert(t, stg.CreateContext(ctx, at), qt.ErrorIs, ErrAlreadyExists)

	stored, err := stg.Context(1)
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, stored, qt.DeepEquals, ctx)
	qt.Assert(t, stored.Processed, qt.IsFalse)

	// The requester's accepted-action stamp landed with the context.
	last, err := stg.LastAction(ctx.Requester)
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, last.Equal(at), qt.IsTrue)

	_, err = stg.Result(1)
	qt.Assert(t, err, qt.ErrorIs, ErrNotFound)

	value := new(types.BigInt).SetBytes([]byte{0x2a})
	qt.Assert(t, stg.CompleteContext(ctx, &Result{RequestID: 1, Value: value}), qt.IsNil)
	qt.Assert(t, ctx.Processed, qt.IsTrue)

	stored, err = stg.Context(1)
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, stored.Processed, qt.IsTrue)

	r, err := stg.Result(1)
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, r.Value.String(), qt.Equals, "42")
}

func TestLastRequestID(t *testing.T) {
	stg := testStorage(t)

	last, err := stg.LastRequestID()
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, last, qt.Equals, uint64(0))

	for _, id := range []uint64{3, 1, 9} {
		qt.Assert(t, stg.CreateContext(&DecryptionContext{RequestID: id, BatchID: 1}, time.Unix(1, 0)), qt.IsNil)
	}
	last, err = stg.LastRequestID()
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, last, qt.Equals, uint64(9))
}
