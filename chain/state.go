package chain

import (
	"math/big"

	"github.com/renproject/toychain/block"
	"github.com/renproject/toychain/digest"
	"github.com/renproject/toychain/tx"
)

// state is not safe for concurrent use. It implements validate.Query, and is
// guarded by the Chain.
type state struct {
	blocks      map[digest.Hash]*block.Block
	txBlocks    map[digest.Hash][]digest.Hash
	inputBlocks map[string][]digest.Hash
	txs         map[digest.Hash]*tx.Transaction

	weights map[digest.Hash]*big.Int
	tip     digest.Hash
}

func newState() *state {
	return &state{
		blocks:      map[digest.Hash]*block.Block{},
		txBlocks:    map[digest.Hash][]digest.Hash{},
		inputBlocks: map[string][]digest.Hash{},
		txs:         map[digest.Hash]*tx.Transaction{},
		weights:     map[digest.Hash]*big.Int{},
	}
}

// insert an accepted Block and update every index.
func (s *state) insert(b *block.Block) {
	s.blocks[b.Hash] = b
	for _, transaction := range b.Transactions {
		s.txBlocks[transaction.Hash] = append(s.txBlocks[transaction.Hash], b.Hash)
		s.txs[transaction.Hash] = transaction
		for _, ref := range transaction.InputRefs {
			s.inputBlocks[ref] = append(s.inputBlocks[ref], b.Hash)
		}
	}

	weight := b.Weight()
	if parentWeight, ok := s.weights[b.ParentHash]; ok && !b.IsGenesis {
		weight = new(big.Int).Add(parentWeight, weight)
	}
	s.weights[b.Hash] = weight
	if tipWeight, ok := s.weights[s.tip]; !ok || weight.Cmp(tipWeight) > 0 {
		s.tip = b.Hash
	}
}

func (s *state) BlockByHash(hash digest.Hash) (*block.Block, bool) {
	b, ok := s.blocks[hash]
	return b, ok
}

func (s *state) AncestryEndingAt(hash digest.Hash) []digest.Hash {
	lineage := []digest.Hash{}
	for {
		b, ok := s.blocks[hash]
		if !ok {
			break
		}
		lineage = append(lineage, b.Hash)
		if b.IsGenesis {
			break
		}
		hash = b.ParentHash
	}
	if len(lineage) == 0 {
		return nil
	}
	for i, j := 0, len(lineage)-1; i < j; i, j = i+1, j-1 {
		lineage[i], lineage[j] = lineage[j], lineage[i]
	}
	return lineage
}

func (s *state) BlocksContainingTx(hash digest.Hash) []digest.Hash {
	return s.txBlocks[hash]
}

func (s *state) BlocksSpendingInput(ref string) []digest.Hash {
	return s.inputBlocks[ref]
}

func (s *state) TransactionByHash(hash digest.Hash) (*tx.Transaction, bool) {
	transaction, ok := s.txs[hash]
	return transaction, ok
}
