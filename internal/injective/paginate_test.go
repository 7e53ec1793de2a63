package injective_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"injective-token-lab/internal/injective"
	"injective-token-lab/internal/injective/stub"
)

func TestDecimalsResolver(t *testing.T) {
	chain := stub.NewChain()
	chain.Metadata["a"] = &injective.DenomMetadata{Decimals: 6}
	chain.Metadata["b"] = &injective.DenomMetadata{DenomUnits: []injective.DenomUnit{{Exponent: 0}, {Exponent: 8}}}
	chain.Metadata["zero"] = &injective.DenomMetadata{}

	r := injective.NewDecimalsResolver(chain)
	ctx := context.Background()

	d, err := r.Decimals(ctx, "a", 0)
	require.NoError(t, err)
	assert.Equal(t, int32(6), d)

	d, err = r.Decimals(ctx, "a", 0)
	require.NoError(t, err)
	assert.Equal(t, int32(6), d)
	assert.Equal(t, 1, chain.Calls("denom_metadata:a"), "second lookup must be memoized")

	d, err = r.Decimals(ctx, "b", 0)
	require.NoError(t, err)
	assert.Equal(t, int32(8), d)

	d, err = r.Decimals(ctx, "zero", 0)
	require.NoError(t, err)
	assert.Equal(t, int32(18), d)

	d, err = r.Decimals(ctx, "missing", 0)
	require.NoError(t, err)
	assert.Equal(t, int32(18), d)

	d, err = r.Decimals(ctx, "a", 9)
	require.NoError(t, err)
	assert.Equal(t, int32(9), d, "override wins")
}
