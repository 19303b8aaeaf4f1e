package di

import (
	"context"
	"slices"
)

// resolution tracks the names currently under construction for one
// top-level lookup. It is passed explicitly through every recursive step.
type resolution struct {
	ctx   context.Context
	chain []string
}

func newResolution(ctx context.Context) *resolution {
	if ctx == nil {
		ctx = context.Background()
	}

	return &resolution{ctx: ctx}
}

func (r *resolution) contains(name string) bool {
	return slices.Contains(r.chain, name)
}

func (r *resolution) push(name string) {
	r.chain = append(r.chain, name)
}

// pop removes the most recent occurrence of name.
func (r *resolution) pop(name string) {
	for i := len(r.chain) - 1; i >= 0; i-- {
		if r.chain[i] == name {
			r.chain = slices.Delete(r.chain, i, i+1)
			return
		}
	}
}

// cycle renders the chain from the first occurrence of name, closed by name.
func (r *resolution) cycle(name string) []string {
	start := slices.Index(r.chain, name)
	if start < 0 {
		start = 0
	}

	path := slices.Clone(r.chain[start:])
	return append(path, name)
}
