package exchange

import (
	"context"
	"encoding/json"
)

//
// Client generically provides an interface to an object that can be used to interact with a
// cryptocurrency exchange's signed REST API. Every call signs the provided fields with the
// credentials the client was constructed with, so callers never deal with signatures themselves.
//
// Whenever an endpoint fails – whether due to a network failure, an HTTP error, or an API error –
// the error component of the response will be non-nil and the payload will be nil. Implementations
// are expected to be safe for concurrent use.
//
type Client interface {

	//
	// Get issues a signed GET request against the specified path with the provided fields encoded
	// into the query string. The "data" portion of the exchange's response envelope is returned.
	//
	Get(ctx context.Context, path string, fields Fields) (json.RawMessage, error)

	//
	// Post issues a signed POST request against the specified path with the provided fields encoded
	// into the request body. The "data" portion of the exchange's response envelope is returned.
	//
	Post(ctx context.Context, path string, fields Fields) (json.RawMessage, error)
}
