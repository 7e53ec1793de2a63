package injective

import (
	"context"
	"fmt"
	"sync"
)

// PageFunc fetches the page that starts at key ("" for the first page).
type PageFunc[T any] func(ctx context.Context, key string) (*Page[T], error)

// CollectPages walks every page sequentially, passing each batch to visit.
// The context is checked between pages and a repeated key aborts the walk.
func CollectPages[T any](ctx context.Context, fetch PageFunc[T], visit func([]T) error) error {
	seen := make(map[string]struct{})
	key := ""
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		page, err := fetch(ctx, key)
		if err != nil {
			return err
		}
		if err := visit(page.Items); err != nil {
			return err
		}
		if page.NextKey == "" {
			return nil
		}
		if _, dup := seen[page.NextKey]; dup {
			return fmt.Errorf("pagination key %q repeated: %w", page.NextKey, ErrDecoding)
		}
		seen[page.NextKey] = struct{}{}
		key = page.NextKey
	}
}

// DecimalsResolver memoizes denom exponents for the lifetime of one request.
type DecimalsResolver struct {
	chain ChainReader
	mu    sync.Mutex
	cache map[string]int32
}

// NewDecimalsResolver creates a resolver backed by chain metadata.
func NewDecimalsResolver(chain ChainReader) *DecimalsResolver {
	return &DecimalsResolver{chain: chain, cache: make(map[string]int32)}
}

// Decimals returns the exponent of denom. A positive override wins without a
// chain call; missing or zero metadata resolves to the default of 18.
func (r *DecimalsResolver) Decimals(ctx context.Context, denom string, override int32) (int32, error) {
	if override > 0 {
		return override, nil
	}
	r.mu.Lock()
	d, ok := r.cache[denom]
	r.mu.Unlock()
	if ok {
		return d, nil
	}

	md, err := r.chain.DenomMetadata(ctx, denom)
	if err != nil {
		return 0, fmt.Errorf("metadata for %s: %w", denom, err)
	}
	d = resolveExponent(md.Exponent())

	r.mu.Lock()
	r.cache[denom] = d
	r.mu.Unlock()
	return d, nil
}

func resolveExponent(onChain int32) int32 {
	if onChain > 0 {
		return onChain
	}
	return 18
}
