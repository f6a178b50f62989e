// Package ethereum provides secp256k1 signing and address recovery. The
// decryption oracle signs its results with these keys and the tally core
// verifies the signatures against the expected signer set.
package ethereum

import (
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// SignatureLength is the size in bytes of an ECDSA signature with recovery id.
const SignatureLength = 65

// SigningPrefix is the Ethereum personal message prefix bound into every
// signed payload.
const SigningPrefix = "Ethereum Signed Message:\n"

// SignKeys holds an ECDSA key pair.
type SignKeys struct {
	Public  *ecdsa.PublicKey
	Private *ecdsa.PrivateKey
}

// NewSignKeys creates an empty SignKeys. Call Generate or AddHexKey to make
// it usable.
func NewSignKeys() *SignKeys {
	return &SignKeys{Public: new(ecdsa.PublicKey), Private: new(ecdsa.PrivateKey)}
}

// Generate creates a fresh random key pair.
func (k *SignKeys) Generate() error {
	key, err := ethcrypto.GenerateKey()
	if err != nil {
		return err
	}
	k.Private = key
	k.Public = &key.PublicKey
	return nil
}

// AddHexKey imports a private key from its hex representation.
func (k *SignKeys) AddHexKey(privHex string) error {
	key, err := ethcrypto.HexToECDSA(trimHex(privHex))
	if err != nil {
		return err
	}
	k.Private = key
	k.Public = &key.PublicKey
	return nil
}

// HexString returns the compressed public key and the private key as hex
// strings.
func (k *SignKeys) HexString() (string, string) {
	pubHex := hex.EncodeToString(k.PublicKey())
	privHex := hex.EncodeToString(ethcrypto.FromECDSA(k.Private))
	return pubHex, privHex
}

// PublicKey returns the compressed public key bytes.
func (k *SignKeys) PublicKey() []byte {
	return ethcrypto.CompressPubkey(k.Public)
}

// Address returns the Ethereum address derived from the public key.
func (k *SignKeys) Address() common.Address {
	return ethcrypto.PubkeyToAddress(*k.Public)
}

// AddressString returns the hex string representation of the address.
func (k *SignKeys) AddressString() string {
	return k.Address().String()
}

// SignEthereum signs the message following the Ethereum personal message
// convention and returns the 65 byte signature.
func (k *SignKeys) SignEthereum(message []byte) ([]byte, error) {
	if k.Private.D == nil {
		return nil, fmt.Errorf("no private key available")
	}
	return ethcrypto.Sign(Hash(message), k.Private)
}

// AddrFromPublicKey recovers the address from a compressed public key.
func AddrFromPublicKey(pub []byte) (common.Address, error) {
	pubKey, err := ethcrypto.DecompressPubkey(pub)
	if err != nil {
		return common.Address{}, err
	}
	return ethcrypto.PubkeyToAddress(*pubKey), nil
}

// AddrFromSignature recovers the address that signed the message.
func AddrFromSignature(message, signature []byte) (common.Address, error) {
	if len(signature) != SignatureLength {
		return common.Address{}, fmt.Errorf("invalid signature length %d", len(signature))
	}
	sig := make([]byte, SignatureLength)
	copy(sig, signature)
	if sig[64] > 1 {
		sig[64] -= 27
	}
	pub, err := ethcrypto.SigToPub(Hash(message), sig)
	if err != nil {
		return common.Address{}, err
	}
	return ethcrypto.PubkeyToAddress(*pub), nil
}

// Hash returns the hash of the message applying the Ethereum personal
// message prefix.
func Hash(message []byte) []byte {
	return HashRaw([]byte(fmt.Sprintf("%s%d%s", SigningPrefix, len(message), message)))
}

// HashRaw returns the keccak256 hash of data, without any prefix.
func HashRaw(data []byte) []byte {
	return ethcrypto.Keccak256(data)
}

func trimHex(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}
