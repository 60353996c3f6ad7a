package block_test

import (
	"encoding/json"
	"math/big"

	"github.com/renproject/toychain/digest"
	"github.com/renproject/toychain/testutil"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	. "github.com/renproject/toychain/block"
)

var _ = Describe("Block", func() {
	sealer := testutil.MockSealer{Valid: true}

	Context("when assembling a block", func() {
		It("should compute the target, merkle root and hash", func() {
			txs := testutil.RandomTransactions(5)
			b := NewAt(sealer, 3, txs, testutil.RandomHash(), false, 1600000000)
			Expect(b.Target).To(Equal(big.NewInt(1)))
			Expect(b.Merkle).To(Equal(MerkleRoot(txs)))
			Expect(b.SealData).To(BeNil())
			Expect(b.Hash).To(Equal(b.ComputeHash()))
			Expect(b.Sealer()).To(Equal(sealer))
		})

		It("should panic without a sealer", func() {
			Expect(func() { New(nil, 0, nil, GenesisParentHash, true) }).To(Panic())
		})
	})

	Context("when encoding headers", func() {
		It("should join the unsealed fields with backticks", func() {
			b := NewAt(sealer, 0, nil, GenesisParentHash, true, 1600000000)
			Expect(b.UnsealedHeader()).To(Equal("0`1600000000`1`genesis`True`" + digest.DoubleHash("").String()))
		})

		It("should append the seal to the unsealed header", func() {
			b := NewAt(sealer, 0, nil, GenesisParentHash, true, 1600000000)
			b.SetSeal([]byte{0xab, 0xcd})
			Expect(b.Header()).To(Equal(b.UnsealedHeader() + "`abcd"))
			Expect(b.Header()).To(Equal("0`1600000000`1`genesis`True`" + digest.DoubleHash("").String() + "`abcd"))
			Expect(b.Hash).To(Equal(digest.DoubleHash(b.Header())))
		})
	})

	Context("when sealing a block", func() {
		It("should recompute the hash", func() {
			b := NewAt(sealer, 1, testutil.RandomTransactions(2), testutil.RandomHash(), false, 1600000000)
			unsealed := b.Hash
			b.SetSeal(testutil.RandomBytesSlice())
			Expect(b.Hash).To(Equal(b.ComputeHash()))
			if len(b.SealData) > 0 {
				Expect(b.Hash).ToNot(Equal(unsealed))
			}
		})
	})

	Context("when a header field is changed without recomputing the hash", func() {
		It("should no longer match its hash", func() {
			mutations := []func(b *Block){
				func(b *Block) { b.Height++ },
				func(b *Block) { b.Timestamp++ },
				func(b *Block) { b.Target = big.NewInt(2) },
				func(b *Block) { b.ParentHash = testutil.RandomHash() },
				func(b *Block) { b.IsGenesis = !b.IsGenesis },
				func(b *Block) { b.Merkle = testutil.RandomHash() },
				func(b *Block) { b.SealData = []byte{1, 2, 3} },
			}
			for _, mutate := range mutations {
				b := testutil.NextBlock(testutil.Genesis(), testutil.RandomTransactions(3)...)
				mutate(b)
				Expect(b.ComputeHash()).ToNot(Equal(b.Hash))
			}
		})
	})

	Context("when delegating to the sealer", func() {
		It("should report the seal and weight of the sealer", func() {
			b := testutil.Genesis()
			Expect(b.SealIsValid()).To(BeTrue())
			Expect(b.Weight()).To(Equal(big.NewInt(1)))

			rejecting := NewAt(testutil.MockSealer{Valid: false}, 0, nil, GenesisParentHash, true, 0)
			Expect(rejecting.SealIsValid()).To(BeFalse())
		})

		It("should never accept the seal of a block without a sealer", func() {
			b := &Block{}
			Expect(b.SealIsValid()).To(BeFalse())
			Expect(b.Weight().Sign()).To(Equal(0))
		})
	})

	Context("when marshaling to JSON", func() {
		It("should preserve the header and transactions", func() {
			b := testutil.NextBlock(testutil.Genesis(), testutil.RandomTransactions(4)...)
			data, err := json.Marshal(b)
			Expect(err).ToNot(HaveOccurred())

			decoded := &Block{}
			Expect(json.Unmarshal(data, decoded)).To(Succeed())
			Expect(decoded.Hash).To(Equal(b.Hash))
			Expect(decoded.ComputeHash()).To(Equal(b.Hash))
			Expect(MerkleRoot(decoded.Transactions)).To(Equal(b.Merkle))
			Expect(decoded.Sealer()).To(BeNil())
			Expect(decoded.WithSealer(b.Sealer()).SealIsValid()).To(BeTrue())
		})
	})
})
