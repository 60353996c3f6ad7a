package tx

import (
	"fmt"
	"sync"
)

// A Pool holds Transactions that are waiting to be included in a block.
type Pool interface {
	Enqueue(*Transaction) error
	Dequeue() (*Transaction, bool)
	Len() int
}

type fifoPool struct {
	cap int

	txsMu *sync.Mutex
	txs   Transactions
}

// FIFOPool is a First-In, First-Out transaction pool that is thread safe. It
// holds at most cap Transactions.
func FIFOPool(cap int) Pool {
	return &fifoPool{
		cap:   cap,
		txsMu: new(sync.Mutex),
		txs:   Transactions{},
	}
}

func (pool *fifoPool) Enqueue(tx *Transaction) error {
	pool.txsMu.Lock()
	defer pool.txsMu.Unlock()

	if len(pool.txs) >= pool.cap {
		return fmt.Errorf("max capacity of %d reached", pool.cap)
	}
	pool.txs = append(pool.txs, tx)
	return nil
}

func (pool *fifoPool) Dequeue() (*Transaction, bool) {
	pool.txsMu.Lock()
	defer pool.txsMu.Unlock()

	if len(pool.txs) > 0 {
		tx := pool.txs[0]
		if len(pool.txs) > 1 {
			pool.txs = pool.txs[1:]
			return tx, true
		}
		pool.txs = Transactions{}
		return tx, true
	}
	return nil, false
}

func (pool *fifoPool) Len() int {
	pool.txsMu.Lock()
	defer pool.txsMu.Unlock()

	return len(pool.txs)
}
