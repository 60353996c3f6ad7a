// Package sig defines the Hash, Signature and Signatory types used to seal
// blocks under proof-of-authority, and the interfaces for signing and
// verifying.
package sig

import (
	"bytes"
	"crypto/ecdsa"
	"encoding/base64"

	ethCrypto "github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/sha3"
)

// Hash is a 32 byte digest that can be signed.
type Hash [32]byte

// String implements the `fmt.Stringer` interface for the Hash type.
func (hash Hash) String() string {
	return base64.StdEncoding.WithPadding(base64.NoPadding).EncodeToString(hash[:])
}

// Signature produced by signing a Hash. It is 65 bytes so that the public key
// can be recovered from it.
type Signature [65]byte

// Signatory is the SHA3 hash of an ECDSA public key. It identifies whoever
// produced a Signature.
type Signatory [32]byte

// NewSignatory returns the Signatory of an ECDSA public key.
func NewSignatory(pubKey ecdsa.PublicKey) Signatory {
	return Signatory(sha3.Sum256(ethCrypto.FromECDSAPub(&pubKey)))
}

// Equal compares one Signatory with another.
func (sig Signatory) Equal(other Signatory) bool {
	return bytes.Equal(sig[:], other[:])
}

// String implements the `fmt.Stringer` interface for the Signatory type.
func (sig Signatory) String() string {
	return base64.StdEncoding.WithPadding(base64.NoPadding).EncodeToString(sig[:])
}

// Signatories defines a wrapper type around the []Signatory type.
type Signatories []Signatory

// Signer signs the provided hash, returning a signature.
type Signer interface {
	Sign(hash Hash) (Signature, error)
	Signatory() Signatory
}

// Verifier takes a hash of the data you want to check and the signature, then
// returns the Signatory that produced the signature.
type Verifier interface {
	Verify(hash Hash, sig Signature) (Signatory, error)
}

// SignerVerifier combines a Signer and Verifier.
type SignerVerifier interface {
	Signer
	Verifier
}
