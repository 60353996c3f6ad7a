package testutil

import (
	"github.com/renproject/toychain/block"
	"github.com/renproject/toychain/chain"
	"github.com/renproject/toychain/validate"
	"github.com/sirupsen/logrus"

	"go.uber.org/zap"
)

// NewChain returns an empty chain.Chain that does not log.
func NewChain() *chain.Chain {
	return chain.New(QuietChainOptions())
}

// QuietChainOptions returns chain.Options that do not log.
func QuietChainOptions() chain.Options {
	return chain.DefaultOptions().
		WithLogger(zap.NewNop()).
		WithValidatorOptions(QuietValidatorOptions())
}

// QuietValidatorOptions returns validate.Options that only log panics.
func QuietValidatorOptions() validate.Options {
	return validate.DefaultOptions().WithLogLevel(logrus.PanicLevel)
}

// MustAppend appends the Blocks to the Chain, in order, and panics if any of
// them is rejected.
func MustAppend(c *chain.Chain, blocks ...*block.Block) {
	for _, b := range blocks {
		if err := c.Append(b); err != nil {
			panic(err)
		}
	}
}
