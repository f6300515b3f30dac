// Package repository reads match logs from and publishes rankings to the
// competition's results store.
package repository

import "github.com/okian/pacpong/pkg/logger"

// Option applies a configuration option shared by all stores.
type Option func(*common)

type common struct {
	logger logger.Logger
}

// WithLogger sets the logger used by a store.
func WithLogger(l logger.Logger) Option {
	return func(c *common) {
		if l != nil {
			c.logger = l
		}
	}
}

func newCommon(name string, opts []Option) common {
	c := common{}
	for _, opt := range opts {
		opt(&c)
	}
	if c.logger == nil {
		c.logger = logger.Nop()
	}
	c.logger = c.logger.Named(name)
	return c
}
