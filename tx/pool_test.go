package tx_test

import (
	"fmt"

	"github.com/renproject/toychain/testutil"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	. "github.com/renproject/toychain/tx"
)

var _ = Describe("txPool", func() {
	table := []struct {
		cap int
	}{
		{1},
		{100},
		{5000},
	}

	for _, entry := range table {
		entry := entry
		txPool := FIFOPool(entry.cap)

		Context(fmt.Sprintf("when a new FIFOPool is created with cap = %d", entry.cap), func() {
			It(fmt.Sprintf("should enqueue %d transactions without errors", entry.cap), func() {
				for i := 0; i < entry.cap; i++ {
					Expect(txPool.Enqueue(testutil.RandomTransaction())).ShouldNot(HaveOccurred())
				}
				Expect(txPool.Len()).To(Equal(entry.cap))
			})

			Context("when max cap has reached", func() {
				It("should error on enqueuing a new transaction", func() {
					Expect(txPool.Enqueue(testutil.RandomTransaction())).Should(HaveOccurred())
				})
			})

			It("should free a slot when dequeuing", func() {
				_, ok := txPool.Dequeue()
				Expect(ok).Should(BeTrue())
				Expect(txPool.Len()).To(Equal(entry.cap - 1))
			})

			It("should not error on enqueuing a new transaction", func() {
				Expect(txPool.Enqueue(testutil.RandomTransaction())).ShouldNot(HaveOccurred())
			})

			It(fmt.Sprintf("should be able to dequeue %d transactions without errors", entry.cap), func() {
				for i := 0; i < entry.cap; i++ {
					tx, ok := txPool.Dequeue()
					Expect(ok).Should(BeTrue())
					Expect(tx).NotTo(BeNil())
				}
			})

			Context("when queue is empty", func() {
				It("should return nil Transaction on dequeuing", func() {
					tx, ok := txPool.Dequeue()
					Expect(ok).Should(BeFalse())
					Expect(tx).To(BeNil())
				})
			})
		})
	}

	Context("when dequeuing", func() {
		It("should return transactions in the order they were enqueued", func() {
			txPool := FIFOPool(10)
			txs := testutil.RandomTransactions(10)
			for _, tx := range txs {
				Expect(txPool.Enqueue(tx)).To(Succeed())
			}
			for _, tx := range txs {
				dequeued, ok := txPool.Dequeue()
				Expect(ok).To(BeTrue())
				Expect(dequeued.Hash).To(Equal(tx.Hash))
			}
		})
	})
})
