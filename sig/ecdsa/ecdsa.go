package ecdsa

import (
	"crypto/ecdsa"
	"fmt"

	ethCrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/renproject/toychain/sig"
)

// Hash returns the Keccak256 digest of the data.
func Hash(data []byte) sig.Hash {
	return sig.Hash(ethCrypto.Keccak256Hash(data))
}

type signerVerifier struct {
	privKey   *ecdsa.PrivateKey
	signatory sig.Signatory
}

// NewFromPrivKey returns a SignerVerifier that signs using the private key.
func NewFromPrivKey(privKey *ecdsa.PrivateKey) sig.SignerVerifier {
	return signerVerifier{
		privKey:   privKey,
		signatory: sig.NewSignatory(privKey.PublicKey),
	}
}

// NewFromRandom generates a private key for you.
func NewFromRandom() (sig.SignerVerifier, error) {
	privKey, err := ethCrypto.GenerateKey()
	if err != nil {
		return nil, err
	}
	return NewFromPrivKey(privKey), nil
}

// NewVerifier returns a Verifier. It does not need a private key.
func NewVerifier() sig.Verifier {
	return signerVerifier{}
}

func (sv signerVerifier) Sign(hash sig.Hash) (sig.Signature, error) {
	signature := sig.Signature{}
	data, err := ethCrypto.Sign(hash[:], sv.privKey)
	if err != nil {
		return signature, fmt.Errorf("cannot sign hash=%v: %v", hash, err)
	}
	copy(signature[:], data)
	return signature, nil
}

func (sv signerVerifier) Signatory() sig.Signatory {
	return sv.signatory
}

func (sv signerVerifier) Verify(hash sig.Hash, signature sig.Signature) (sig.Signatory, error) {
	pubKey, err := ethCrypto.SigToPub(hash[:], signature[:])
	if err != nil {
		return sig.Signatory{}, fmt.Errorf("cannot recover public key: %v", err)
	}
	return sig.NewSignatory(*pubKey), nil
}
