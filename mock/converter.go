package mock

import "github.com/fwojciec/kbase"

var _ kbase.Converter = (*Converter)(nil)

// Converter is a mock implementation of kbase.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
