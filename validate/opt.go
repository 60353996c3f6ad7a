package validate

import (
	"io"

	"github.com/renproject/toychain/block"
	"github.com/sirupsen/logrus"
)

// Options represent the options for a Validator.
type Options struct {
	Logger          logrus.FieldLogger
	MaxTransactions int
}

// DefaultOptions returns the default options for a Validator.
func DefaultOptions() Options {
	return Options{
		Logger:          loggerWithFields(logrus.New()),
		MaxTransactions: block.MaxTransactions,
	}
}

// WithLogLevel updates the log level of the Validator's logger.
func (opts Options) WithLogLevel(level logrus.Level) Options {
	logger := logrus.New()
	logger.SetLevel(level)
	opts.Logger = loggerWithFields(logger)
	return opts
}

// WithLogOutput updates where the Validator's logger will log data to.
func (opts Options) WithLogOutput(output io.Writer) Options {
	logger := logrus.New()
	logger.SetOutput(output)
	opts.Logger = loggerWithFields(logger)
	return opts
}

// WithLogger updates the Validator's logger.
func (opts Options) WithLogger(logger logrus.FieldLogger) Options {
	opts.Logger = logger
	return opts
}

// WithMaxTransactions updates the maximum number of Transactions in a Block.
func (opts Options) WithMaxTransactions(max int) Options {
	opts.MaxTransactions = max
	return opts
}

func loggerWithFields(logger *logrus.Logger) logrus.FieldLogger {
	return logger.
		WithField("lib", "toychain").
		WithField("pkg", "validate").
		WithField("com", "validator")
}
