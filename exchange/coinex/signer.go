package coinex

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/lukehollenback/coinex/exchange"
)

var (
	// The exchange recomputes signatures with a form encoder that leaves !'()* alone and encodes
	// spaces as %20 rather than "+".
	queryEscaper = strings.NewReplacer(
		"+", "%20",
		"%21", "!",
		"%27", "'",
		"%28", "(",
		"%29", ")",
		"%2A", "*",
	)
)

//
// Signer signs request parameters on behalf of a single set of API credentials. It holds no mutable
// state, so a single instance may be shared by any number of goroutines.
//
type Signer struct {
	accessID string
	secret   string
}

//
// Signed holds everything that is derived from one set of fields when a request is signed.
//
type Signed struct {
	// Params are the caller's fields with access_id and tonce injected.
	Params exchange.Fields

	// Query is the canonical query string (sorted keys, percent-encoded, no leading "?"). It never
	// contains the secret.
	Query string

	// Signature is the uppercase hex MD5 digest of Query + "&secret_key=" + secret.
	Signature string
}

func NewSigner(accessID string, secret string) *Signer {
	return &Signer{
		accessID: accessID,
		secret:   secret,
	}
}

//
// Params returns the parameter set that gets signed for the provided fields: the access ID and a
// millisecond tonce taken from the provided instant, overlaid with the caller's fields. A caller
// that supplies its own access_id or tonce therefore overrides the generated value.
//
func (o *Signer) Params(fields exchange.Fields, now time.Time) exchange.Fields {
	base := exchange.Fields{
		AccessIDField: o.accessID,
		TonceField:    strconv.FormatInt(now.UnixMilli(), 10),
	}

	return base.Merge(fields)
}

//
// Sign computes the signature of an already canonicalized query string.
//
func (o *Signer) Sign(query string) string {
	sum := md5.Sum([]byte(query + "&" + SecretKeyField + "=" + o.secret))

	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

//
// SignFields injects the access ID and tonce into the provided fields, canonicalizes the result,
// and signs it.
//
func (o *Signer) SignFields(fields exchange.Fields, now time.Time) (*Signed, error) {
	params := o.Params(fields, now)

	query, err := Canonical(params)
	if err != nil {
		return nil, err
	}

	return &Signed{
		Params:    params,
		Query:     query,
		Signature: o.Sign(query),
	}, nil
}

//
// Canonical serializes the provided parameters into a query string with keys in ascending byte-wise
// order. Slice values produce one pair per element, in element order.
//
func Canonical(params exchange.Fields) (string, error) {
	var sb strings.Builder

	for _, key := range params.SortedKeys() {
		values, err := params.Values(key)
		if err != nil {
			return "", err
		}

		for _, value := range values {
			if sb.Len() > 0 {
				sb.WriteByte('&')
			}

			sb.WriteString(escape(key))
			sb.WriteByte('=')
			sb.WriteString(escape(value))
		}
	}

	return sb.String(), nil
}

func escape(s string) string {
	return queryEscaper.Replace(url.QueryEscape(s))
}
