package coinex

import (
	"net/url"
	"regexp"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/lukehollenback/coinex/exchange"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var signaturePattern = regexp.MustCompile(`^[0-9A-F]{32}$`)

func TestCanonicalSortsKeys(t *testing.T) {
	query, err := Canonical(exchange.Fields{"b": 2, "a": 1})
	require.NoError(t, err)
	assert.Equal(t, "a=1&b=2", query)
}

func TestCanonicalKeysAscendingRegardlessOfInputOrder(t *testing.T) {
	keys := []string{"tonce", "access_id", "market", "Zulu", "amount", "_x", "a", "ab", "aa", "type", "1"}

	for i := 0; i < len(keys); i++ {
		fields := exchange.Fields{}

		// Rotate the insertion order each round.
		for j := range keys {
			fields[keys[(i+j)%len(keys)]] = j
		}

		query, err := Canonical(fields)
		require.NoError(t, err)

		var got []string
		for _, pair := range strings.Split(query, "&") {
			got = append(got, strings.SplitN(pair, "=", 2)[0])
		}

		require.Len(t, got, len(keys))
		assert.True(t, sort.SliceIsSorted(got, func(a, b int) bool { return got[a] < got[b] }), "keys out of order: %v", got)

		for k := 1; k < len(got); k++ {
			assert.NotEqual(t, got[k-1], got[k])
		}
	}
}

func TestSignMatchesReferenceDigest(t *testing.T) {
	signer := NewSigner("ignored", "S")

	// md5("a=1&b=2&secret_key=S")
	assert.Equal(t, "69F4793BE2F0C7D4DC30FE163A8EFEB5", signer.Sign("a=1&b=2"))
}

func TestSignIsDeterministic(t *testing.T) {
	signer := NewSigner("key", "secret")
	now := time.UnixMilli(1600000000000)
	fields := exchange.Fields{"market": "BTCUSDT", "limit": 10}

	first, err := signer.SignFields(fields, now)
	require.NoError(t, err)

	second, err := signer.SignFields(fields, now)
	require.NoError(t, err)

	assert.Equal(t, first.Signature, second.Signature)
	assert.Regexp(t, signaturePattern, first.Signature)
}

func TestSignDependsOnSecret(t *testing.T) {
	assert.NotEqual(t, NewSigner("key", "one").Sign("a=1"), NewSigner("key", "two").Sign("a=1"))
}

func TestSignFieldsInjectsAccessIDAndTonce(t *testing.T) {
	signer := NewSigner("my-key", "secret")

	signed, err := signer.SignFields(nil, time.UnixMilli(1600000000123))
	require.NoError(t, err)

	assert.Equal(t, "access_id=my-key&tonce=1600000000123", signed.Query)
	assert.Equal(t, "my-key", signed.Params[AccessIDField])
	assert.Equal(t, "1600000000123", signed.Params[TonceField])
	assert.Equal(t, signer.Sign(signed.Query), signed.Signature)
	assert.NotContains(t, signed.Query, "secret")
}

func TestSignFieldsLetsCallerOverrideInjectedFields(t *testing.T) {
	signer := NewSigner("my-key", "secret")

	signed, err := signer.SignFields(exchange.Fields{
		AccessIDField: "other-key",
		TonceField:    "42",
	}, time.UnixMilli(1600000000000))
	require.NoError(t, err)

	assert.Equal(t, "access_id=other-key&tonce=42", signed.Query)
}

func TestSignFieldsDoesNotModifyCallerFields(t *testing.T) {
	fields := exchange.Fields{"market": "BTCUSDT"}

	_, err := NewSigner("key", "secret").SignFields(fields, time.Now())
	require.NoError(t, err)

	assert.Equal(t, exchange.Fields{"market": "BTCUSDT"}, fields)
}

func TestCanonicalEscapesLikeAQueryStringEncoder(t *testing.T) {
	query, err := Canonical(exchange.Fields{"note": "a b!*'()~+&=", "k y": "é"})
	require.NoError(t, err)

	assert.Equal(t, "k%20y=%C3%A9&note=a%20b!*'()~%2B%26%3D", query)

	// Whatever we sign must still round trip through a standard parser.
	values, err := url.ParseQuery(query)
	require.NoError(t, err)
	assert.Equal(t, "a b!*'()~+&=", values.Get("note"))
	assert.Equal(t, "é", values.Get("k y"))
}

func TestCanonicalRendersValueKinds(t *testing.T) {
	query, err := Canonical(exchange.Fields{
		"amount": decimal.New(15, -1),
		"flag":   true,
		"ids":    []int{3, 1},
		"none":   nil,
		"price":  0.25,
		"size":   uint8(7),
	})
	require.NoError(t, err)

	assert.Equal(t, "amount=1.5&flag=true&ids=3&ids=1&none=&price=0.25&size=7", query)
}

func TestCanonicalRejectsUnsupportedValues(t *testing.T) {
	_, err := Canonical(exchange.Fields{"nested": map[string]string{"a": "b"}})

	assert.ErrorIs(t, err, exchange.ErrUnsupportedValue)
}
