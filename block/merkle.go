package block

import (
	"fmt"

	"github.com/renproject/toychain/digest"
	"github.com/renproject/toychain/tx"
)

// MerkleRoot returns the root of the Merkle tree over the Transactions. An
// empty list has the root DoubleHash(""), and a single Transaction is its own
// root. Otherwise, the leaves are the double hashes of each Transaction, odd
// layers are padded by duplicating their last node, and each parent is the
// double hash of the concatenated hex digests of its children.
func MerkleRoot(txs tx.Transactions) digest.Hash {
	switch len(txs) {
	case 0:
		return digest.DoubleHash("")
	case 1:
		return txs[0].Hash
	}
	layer := merkleLeaves(txs)
	for len(layer) > 1 {
		layer = merkleParents(layer)
	}
	return layer[0]
}

func merkleLeaves(txs tx.Transactions) []digest.Hash {
	leaves := make([]digest.Hash, len(txs))
	for i, tx := range txs {
		leaves[i] = digest.DoubleHash(tx.String())
	}
	return leaves
}

func merkleParents(layer []digest.Hash) []digest.Hash {
	if len(layer)%2 != 0 {
		layer = append(layer, layer[len(layer)-1])
	}
	parents := make([]digest.Hash, 0, len(layer)/2)
	for i := 0; i < len(layer); i += 2 {
		parents = append(parents, merklePair(layer[i], layer[i+1]))
	}
	return parents
}

func merklePair(left, right digest.Hash) digest.Hash {
	return digest.DoubleHash(string(left) + string(right))
}

// A MerkleProof shows that a Transaction is included in a list of
// Transactions with a known MerkleRoot, without the rest of the list.
type MerkleProof struct {
	Index    int           `json:"index"`
	Siblings []digest.Hash `json:"siblings"`
	// Lefts[i] is true when Siblings[i] is the left child.
	Lefts []bool `json:"lefts"`
}

// NewMerkleProof returns the MerkleProof for the Transaction at the index.
func NewMerkleProof(txs tx.Transactions, index int) (MerkleProof, error) {
	if index < 0 || index >= len(txs) {
		return MerkleProof{}, fmt.Errorf("index=%d out of range for %d transactions", index, len(txs))
	}
	proof := MerkleProof{Index: index}
	if len(txs) == 1 {
		return proof, nil
	}
	layer := merkleLeaves(txs)
	for i := index; len(layer) > 1; i /= 2 {
		if len(layer)%2 != 0 {
			layer = append(layer, layer[len(layer)-1])
		}
		if i%2 == 0 {
			proof.Siblings = append(proof.Siblings, layer[i+1])
			proof.Lefts = append(proof.Lefts, false)
		} else {
			proof.Siblings = append(proof.Siblings, layer[i-1])
			proof.Lefts = append(proof.Lefts, true)
		}
		layer = merkleParents(layer)
	}
	return proof, nil
}

// Verify that the Transaction is included under the root.
func (proof MerkleProof) Verify(transaction *tx.Transaction, root digest.Hash) bool {
	if len(proof.Siblings) != len(proof.Lefts) {
		return false
	}
	node := digest.DoubleHash(transaction.String())
	for i, sibling := range proof.Siblings {
		if proof.Lefts[i] {
			node = merklePair(sibling, node)
		} else {
			node = merklePair(node, sibling)
		}
	}
	return node == root
}
