package ethereum

import (
	"encoding/binary"
	"encoding/hex"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	qt "github.com/frankban/quicktest"
)

func TestKeyImportExport(t *testing.T) {
	c := qt.New(t)
	t.Parallel()

	s := NewSignKeys()
	c.Assert(s.Generate(), qt.IsNil)
	pub, priv := s.HexString()
	c.Assert(pub, qt.Not(qt.Equals), "")
	c.Assert(priv, qt.Not(qt.Equals), "")

	// Importing the exported private key yields the same pair, with or
	// without the 0x prefix.
	imported := NewSignKeys()
	c.Assert(imported.AddHexKey("0x"+priv), qt.IsNil)
	importedPub, importedPriv := imported.HexString()
	c.Assert(importedPub, qt.Equals, pub)
	c.Assert(importedPriv, qt.Equals, priv)
	c.Assert(imported.Address(), qt.Equals, s.Address())
}

func TestOracleResultSignature(t *testing.T) {
	c := qt.New(t)
	t.Parallel()

	// Fixed oracle key with the signature it must produce over the result
	// payload of request 7 carrying cleartext 4242. The payload layout is
	// the big-endian request identifier followed by the cleartext bytes,
	// as submitted by the decryption oracle.
	const (
		privKey     = "27e8e4bdbaa26bc0e7136d625cd57bd064a31c1b95e8b85f193b33f320482646"
		signerAddr  = "0x38f9343d2efae8e266f8b2be454c4bb29bf352d6"
		expectedHex = "078a87a0abda2a3e293474a3611390f6e9feeddcc26353acf912ecbfae4cb0d564c1f948cc5e336659db7fb69246ac60680f77cca72b59eeb0b21de3db14f95901"
	)
	payload := make([]byte, 8, 10)
	binary.BigEndian.PutUint64(payload, 7)
	payload = append(payload, 0x10, 0x92) // 4242

	s := NewSignKeys()
	c.Assert(s.AddHexKey(privKey), qt.IsNil)
	c.Assert(s.Address(), qt.Equals, common.HexToAddress(signerAddr))

	signature, err := s.SignEthereum(payload)
	c.Assert(err, qt.IsNil)
	expected, err := hex.DecodeString(expectedHex)
	c.Assert(err, qt.IsNil)
	c.Assert(signature, qt.DeepEquals, expected)

	// The signer address is recoverable from the signature alone.
	recovered, err := AddrFromSignature(payload, signature)
	c.Assert(err, qt.IsNil)
	c.Assert(recovered, qt.Equals, s.Address())
}

func TestAddressRecovery(t *testing.T) {
	c := qt.New(t)
	t.Parallel()

	s := NewSignKeys()
	c.Assert(s.Generate(), qt.IsNil)
	expectedAddr, err := AddrFromPublicKey(s.PublicKey())
	c.Assert(err, qt.IsNil)
	c.Assert(expectedAddr.String(), qt.Equals, s.AddressString())

	// Recovery works for the payload shapes the service signs: callback
	// bodies and result payloads of varying length.
	payloads := [][]byte{
		[]byte(`{"requestId":1,"result":"10"}`),
		{0, 0, 0, 0, 0, 0, 0, 42, 0xff},
		make([]byte, 64),
	}
	for _, payload := range payloads {
		signature, err := s.SignEthereum(payload)
		c.Assert(err, qt.IsNil)
		recovered, err := AddrFromSignature(payload, signature)
		c.Assert(err, qt.IsNil)
		c.Assert(recovered, qt.Equals, expectedAddr)
	}

	// Truncated signatures are rejected outright.
	_, err = AddrFromSignature(payloads[0], make([]byte, 64))
	c.Assert(err, qt.IsNotNil)
}
