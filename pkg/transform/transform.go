// Package transform defines the string-to-string Transformer interface shared
// by the markup minifier and the transformers it is compared against.
package transform

import "strings"

// Transformer rewrites markup into an equivalent, usually smaller, form.
type Transformer interface {
	// Transform returns the rewritten input.
	Transform(input string) (string, error)

	// Name returns the transformer type for logging and reports.
	Name() string
}

// Func adapts a plain function to the Transformer interface.
type Func struct {
	name string
	fn   func(string) (string, error)
}

// NewFunc wraps fn as a Transformer called name.
func NewFunc(name string, fn func(string) (string, error)) *Func {
	return &Func{name: name, fn: fn}
}

// Transform calls the wrapped function.
func (f *Func) Transform(input string) (string, error) {
	return f.fn(input)
}

// Name returns the name given to NewFunc.
func (f *Func) Name() string {
	return f.name
}

// Chain applies multiple transformers in sequence.
type Chain struct {
	transformers []Transformer
}

// NewChain creates a transformer that applies transformers in the order
// provided.
//
// Example:
//
//	chain := transform.NewChain(
//	    markup.New(markup.PresetSafe()),
//	    transform.NewReference(),
//	)
func NewChain(transformers ...Transformer) *Chain {
	return &Chain{
		transformers: transformers,
	}
}

// Transform applies all transformers in sequence and stops at the first error.
func (c *Chain) Transform(content string) (string, error) {
	var err error
	for _, t := range c.transformers {
		content, err = t.Transform(content)
		if err != nil {
			return "", err
		}
	}
	return content, nil
}

// Name returns the names of all chained transformers.
func (c *Chain) Name() string {
	names := make([]string, len(c.transformers))
	for i, t := range c.transformers {
		names[i] = t.Name()
	}
	return "chain(" + strings.Join(names, "->") + ")"
}

// Noop passes content through without modification. It is the baseline row
// of a comparison.
type Noop struct{}

// NewNoop creates a new no-op transformer.
func NewNoop() *Noop {
	return &Noop{}
}

// Transform returns the input unchanged.
func (n *Noop) Transform(input string) (string, error) {
	return input, nil
}

// Name returns the transformer type.
func (n *Noop) Name() string {
	return "noop"
}
