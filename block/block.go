// Package block defines the Block, the deterministic identity of a Block (its
// Merkle root, its headers, and its Hash), and the Sealer capability that each
// consensus variant supplies.
//
// A Block is assembled once with New, sealed once with SetSeal, and then
// offered for validation. Once a Block has been accepted onto a chain it must
// never be mutated again.
package block

import (
	"math/big"
	"time"

	"github.com/renproject/toychain/digest"
	"github.com/renproject/toychain/tx"
)

// MaxTransactions is the maximum number of Transactions in a Block.
const MaxTransactions = 900

// GenesisParentHash is the ParentHash of every genesis Block.
const GenesisParentHash = digest.Hash("genesis")

// Height of a Block. It is zero if, and only if, the Block is a genesis Block.
type Height int64

// Timestamp represents seconds since Unix Epoch.
type Timestamp int64

// A Sealer is the consensus-specific capability that a Block is parameterised
// over. Proof-of-work and proof-of-authority are both Sealers.
type Sealer interface {
	// CalculateAppropriateTarget returns the Target that the seal of the Block
	// must satisfy. It is called while the Block is being assembled, so it must
	// only depend on the Height, ParentHash and Transactions.
	CalculateAppropriateTarget(*Block) *big.Int

	// SealIsValid returns true if the SealData of the Block satisfies its
	// Target.
	SealIsValid(*Block) bool

	// Weight of the Block, used to compare competing chains.
	Weight(*Block) *big.Int
}

// Blocks defines a wrapper type around the []*Block type.
type Blocks []*Block

// A Block extends the chain ending at its ParentHash with an ordered list of
// Transactions.
type Block struct {
	Height       Height
	Transactions tx.Transactions
	ParentHash   digest.Hash
	Timestamp    Timestamp
	Target       *big.Int
	IsGenesis    bool
	Merkle       digest.Hash
	SealData     []byte
	Hash         digest.Hash

	sealer Sealer
}

// New returns an unsealed Block, timestamped with the current time.
func New(sealer Sealer, height Height, txs tx.Transactions, parentHash digest.Hash, isGenesis bool) *Block {
	return NewAt(sealer, height, txs, parentHash, isGenesis, Timestamp(time.Now().Unix()))
}

// NewAt returns an unsealed Block with the given Timestamp.
func NewAt(sealer Sealer, height Height, txs tx.Transactions, parentHash digest.Hash, isGenesis bool, timestamp Timestamp) *Block {
	if sealer == nil {
		panic("pre-condition violation: blocks must have a sealer")
	}
	block := &Block{
		Height:       height,
		Transactions: txs,
		ParentHash:   parentHash,
		Timestamp:    timestamp,
		IsGenesis:    isGenesis,
		sealer:       sealer,
	}
	block.Target = sealer.CalculateAppropriateTarget(block)
	block.Merkle = MerkleRoot(txs)
	block.Hash = block.ComputeHash()
	return block
}

// Sealer returns the Sealer that the Block was assembled with.
func (block *Block) Sealer() Sealer {
	return block.sealer
}

// WithSealer attaches a Sealer to a Block that was decoded, or otherwise built
// without one. It does not change the Target.
func (block *Block) WithSealer(sealer Sealer) *Block {
	block.sealer = sealer
	return block
}

// UnsealedHeader is the part of the header that is covered by the seal.
func (block *Block) UnsealedHeader() string {
	return digest.EncodeFields(digest.Sep,
		int64(block.Height),
		int64(block.Timestamp),
		block.Target,
		block.ParentHash,
		block.IsGenesis,
		block.Merkle)
}

// Header is the UnsealedHeader followed by the SealData.
func (block *Block) Header() string {
	return digest.AppendFields(block.UnsealedHeader(), digest.Sep, block.SealData)
}

// ComputeHash returns the double hash of the Header. It does not update the
// Hash of the Block.
func (block *Block) ComputeHash() digest.Hash {
	return digest.DoubleHash(block.Header())
}

// SetSeal sets the SealData and recomputes the Hash. It must never be called
// once the Block has been accepted onto a chain, because the chain indexes
// Blocks by their Hash.
func (block *Block) SetSeal(sealData []byte) {
	block.SealData = sealData
	block.Hash = block.ComputeHash()
}

// SealIsValid returns true if the Sealer accepts the SealData. A Block without
// a Sealer is never sealed.
func (block *Block) SealIsValid() bool {
	if block.sealer == nil {
		return false
	}
	return block.sealer.SealIsValid(block)
}

// Weight of the Block according to its Sealer. A Block without a Sealer has
// no weight.
func (block *Block) Weight() *big.Int {
	if block.sealer == nil {
		return new(big.Int)
	}
	return block.sealer.Weight(block)
}

// String implements the `fmt.Stringer` interface for the Block type. It
// includes the Header and every Transaction.
func (block *Block) String() string {
	return digest.AppendFields(block.Header(), digest.Sep, block.Transactions.String())
}
