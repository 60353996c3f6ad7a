package block_test

import (
	"math/rand"
	"testing/quick"

	"github.com/renproject/toychain/digest"
	"github.com/renproject/toychain/testutil"
	"github.com/renproject/toychain/tx"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	. "github.com/renproject/toychain/block"
)

func leaf(transaction *tx.Transaction) digest.Hash {
	return digest.DoubleHash(transaction.String())
}

func pair(left, right digest.Hash) digest.Hash {
	return digest.DoubleHash(string(left) + string(right))
}

var _ = Describe("Merkle root", func() {
	Context("when there are no transactions", func() {
		It("should return the double hash of the empty string", func() {
			Expect(MerkleRoot(nil)).To(Equal(digest.DoubleHash("")))
			Expect(MerkleRoot(tx.Transactions{})).To(Equal(digest.DoubleHash("")))
		})
	})

	Context("when there is one transaction", func() {
		It("should return the hash of the transaction", func() {
			transaction := testutil.RandomTransaction()
			Expect(MerkleRoot(tx.Transactions{transaction})).To(Equal(transaction.Hash))
			Expect(MerkleRoot(tx.Transactions{transaction})).To(Equal(leaf(transaction)))
		})
	})

	Context("when there are many transactions", func() {
		It("should hash pairs of leaves", func() {
			txs := testutil.RandomTransactions(2)
			Expect(MerkleRoot(txs)).To(Equal(pair(leaf(txs[0]), leaf(txs[1]))))
		})

		It("should duplicate the last leaf of an odd layer", func() {
			txs := testutil.RandomTransactions(3)
			expected := pair(
				pair(leaf(txs[0]), leaf(txs[1])),
				pair(leaf(txs[2]), leaf(txs[2])))
			Expect(MerkleRoot(txs)).To(Equal(expected))
		})

		It("should duplicate the last node of every odd layer", func() {
			txs := testutil.RandomTransactions(5)
			h01 := pair(leaf(txs[0]), leaf(txs[1]))
			h23 := pair(leaf(txs[2]), leaf(txs[3]))
			h44 := pair(leaf(txs[4]), leaf(txs[4]))
			expected := pair(pair(h01, h23), pair(h44, h44))
			Expect(MerkleRoot(txs)).To(Equal(expected))
		})

		It("should be deterministic", func() {
			f := func(n uint8) bool {
				txs := testutil.RandomTransactions(int(n % 64))
				return MerkleRoot(txs) == MerkleRoot(append(tx.Transactions{}, txs...))
			}
			Expect(quick.Check(f, nil)).To(Succeed())
		})

		It("should change when the order of the transactions changes", func() {
			f := func(n uint8) bool {
				size := 2 + int(n%62)
				txs := testutil.RandomTransactions(size)
				i := rand.Intn(size)
				j := (i + 1 + rand.Intn(size-1)) % size
				permuted := append(tx.Transactions{}, txs...)
				permuted[i], permuted[j] = permuted[j], permuted[i]
				return MerkleRoot(txs) != MerkleRoot(permuted)
			}
			Expect(quick.Check(f, nil)).To(Succeed())
		})
	})
})

var _ = Describe("Merkle proofs", func() {
	It("should verify every transaction against the root", func() {
		f := func(n uint8) bool {
			txs := testutil.RandomTransactions(1 + int(n%40))
			root := MerkleRoot(txs)
			for i := range txs {
				proof, err := NewMerkleProof(txs, i)
				Expect(err).ToNot(HaveOccurred())
				Expect(proof.Verify(txs[i], root)).To(BeTrue())
			}
			return true
		}
		Expect(quick.Check(f, nil)).To(Succeed())
	})

	It("should not verify a transaction that is not included", func() {
		txs := testutil.RandomTransactions(7)
		root := MerkleRoot(txs)
		proof, err := NewMerkleProof(txs, 3)
		Expect(err).ToNot(HaveOccurred())
		Expect(proof.Verify(testutil.RandomTransaction(), root)).To(BeFalse())
		Expect(proof.Verify(txs[3], testutil.RandomHash())).To(BeFalse())
	})

	It("should reject indices that are out of range", func() {
		txs := testutil.RandomTransactions(3)
		_, err := NewMerkleProof(txs, 3)
		Expect(err).To(HaveOccurred())
		_, err = NewMerkleProof(txs, -1)
		Expect(err).To(HaveOccurred())
		_, err = NewMerkleProof(nil, 0)
		Expect(err).To(HaveOccurred())
	})

	It("should reject malformed proofs", func() {
		txs := testutil.RandomTransactions(4)
		proof, err := NewMerkleProof(txs, 0)
		Expect(err).ToNot(HaveOccurred())
		proof.Lefts = proof.Lefts[:1]
		Expect(proof.Verify(txs[0], MerkleRoot(txs))).To(BeFalse())
	})
})
