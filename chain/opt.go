package chain

import (
	"github.com/renproject/toychain/validate"

	"go.uber.org/zap"
)

// Options represent the options for a Chain.
type Options struct {
	Logger        *zap.Logger
	ValidatorOpts validate.Options
}

// DefaultOptions returns the default options for a Chain.
func DefaultOptions() Options {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	return Options{
		Logger:        logger,
		ValidatorOpts: validate.DefaultOptions(),
	}
}

// WithLogger updates the logger used by the Chain.
func (opts Options) WithLogger(logger *zap.Logger) Options {
	opts.Logger = logger
	return opts
}

// WithValidatorOptions updates the options of the Validator that the Chain
// uses before appending Blocks.
func (opts Options) WithValidatorOptions(validatorOpts validate.Options) Options {
	opts.ValidatorOpts = validatorOpts
	return opts
}
