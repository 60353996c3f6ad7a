package tx_test

import (
	"errors"
	"testing/quick"

	"github.com/renproject/toychain/digest"
	"github.com/renproject/toychain/testutil"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	. "github.com/renproject/toychain/tx"
)

var _ = Describe("Transactions", func() {
	Context("when parsing input refs", func() {
		It("should round trip through the string form", func() {
			f := func(index uint16) bool {
				hash := testutil.RandomHash()
				ref, err := ParseInputRef(NewInputRef(hash, int(index)))
				Expect(err).ToNot(HaveOccurred())
				Expect(ref.Hash).To(Equal(hash))
				Expect(ref.Index).To(Equal(int(index)))
				return true
			}
			Expect(quick.Check(f, nil)).To(Succeed())
		})

		It("should reject malformed refs", func() {
			for _, ref := range []string{"", ":0", "abc", "abc:", "abc:-1", "abc:x", "abc:1.5", "abc:00", "abc:01", "abc:+0", "abc:-0", "abc: 1"} {
				_, err := ParseInputRef(ref)
				Expect(errors.Is(err, ErrMalformedInputRef)).To(BeTrue(), ref)
			}
		})
	})

	Context("when checking well-formedness", func() {
		It("should reject refs with a non-canonical index", func() {
			input := testutil.RandomTransaction()
			for _, index := range []string{"00", "+0", "-0"} {
				transaction := New([]string{string(input.Hash) + ":" + index}, Outputs{{Sender: "alice", Receiver: "bob", Amount: 1}})
				Expect(transaction.IsValid()).To(BeFalse(), index)
			}
		})
	})

	Context("when computing hashes", func() {
		It("should hash the canonical encoding", func() {
			tx := testutil.RandomTransaction()
			Expect(tx.Hash).To(Equal(digest.DoubleHash(tx.String())))
		})

		It("should change the hash when an output changes", func() {
			tx := testutil.RandomTransaction()
			other := New(tx.InputRefs, Outputs{{Sender: "a", Receiver: "b", Amount: 1}})
			Expect(other.Hash).ToNot(Equal(tx.Hash))
		})
	})

	Context("when checking structural validity", func() {
		It("should accept well-formed transactions", func() {
			tx := New([]string{NewInputRef(testutil.RandomHash(), 0)}, Outputs{{Sender: "alice", Receiver: "bob", Amount: 5}})
			Expect(tx.IsValid()).To(BeTrue())
		})

		It("should reject transactions with a stale hash", func() {
			tx := testutil.RandomTransaction()
			tx.Outputs[0].Amount++
			Expect(tx.IsValid()).To(BeFalse())
		})

		It("should reject transactions without outputs", func() {
			Expect(New(nil, nil).IsValid()).To(BeFalse())
		})

		It("should reject transactions with malformed input refs", func() {
			tx := New([]string{"nope"}, Outputs{{Sender: "alice", Receiver: "bob", Amount: 5}})
			Expect(tx.IsValid()).To(BeFalse())
		})

		It("should reject outputs with zero amounts or missing users", func() {
			Expect(New(nil, Outputs{{Sender: "alice", Receiver: "bob", Amount: 0}}).IsValid()).To(BeFalse())
			Expect(New(nil, Outputs{{Sender: "", Receiver: "bob", Amount: 1}}).IsValid()).To(BeFalse())
			Expect(New(nil, Outputs{{Sender: "alice", Receiver: "", Amount: 1}}).IsValid()).To(BeFalse())
		})

		It("should reject nil transactions", func() {
			var tx *Transaction
			Expect(tx.IsValid()).To(BeFalse())
		})
	})

	Context("when summing outputs", func() {
		It("should add every amount", func() {
			outputs := Outputs{{Amount: 1}, {Amount: 2}, {Amount: 3}}
			Expect(outputs.Sum()).To(Equal(uint64(6)))
		})
	})
})
