package orderbook

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	cases := []struct {
		in   string
		want Price
	}{
		{"100", 10_000_000},
		{"100.0", 10_000_000},
		{"99.5", 9_950_000},
		{"0.00001", 1},
		{"9999999.99999", MaxPrice},
		{"100.000000", 10_000_000},
	}
	for _, c := range cases {
		got, err := ParsePrice(c.in)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, got, c.in)
	}
}

func TestParsePriceRejects(t *testing.T) {
	for _, in := range []string{
		"", "abc", "1.000001", "1e", "99999999999999",
		"1e2", "1E2", "1e9999999", "1.5e-3", "+5", ".5", "5.", "1.2.3", "0x10",
		"000000000000000000000000000000001",
	} {
		_, err := ParsePrice(in)
		assert.True(t, errors.Is(err, ErrPriceFormat), "%q: %v", in, err)
	}
}

func TestPriceString(t *testing.T) {
	assert.Equal(t, "0000100.00000", PriceFromInt(100).String())
	assert.Equal(t, "0000000.00001", Price(1).String())
	assert.Equal(t, "9999999.99999", MaxPrice.String())
	assert.Equal(t, "0000099.50000", MustParsePrice("99.5").String())
}

func TestPriceValid(t *testing.T) {
	assert.False(t, Price(0).Valid())
	assert.False(t, Price(-1).Valid())
	assert.True(t, Price(1).Valid())
	assert.True(t, MaxPrice.Valid())
	assert.False(t, (MaxPrice + 1).Valid())
}

func TestParsePriceExponentIsCheap(t *testing.T) {
	start := time.Now()
	_, err := ParsePrice("1e9999999")
	assert.True(t, errors.Is(err, ErrPriceFormat))
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}
