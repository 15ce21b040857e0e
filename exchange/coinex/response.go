package coinex

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lukehollenback/coinex/exchange"
)

var errNotEnvelope = errors.New("response body is not a JSON object")

//
// Envelope represents the JSON structure that wraps every response from the CoinEx API. A zero code
// signals success, in which case Data holds the payload of the call.
//
type Envelope struct {
	Code    int64           `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// wireEnvelope tracks whether "code" was present at all.
type wireEnvelope struct {
	Code    *int64          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

//
// Response implements the exchange.Response interface for responses from the CoinEx API.
//
type Response struct {
	response *http.Response
	body     []byte
}

func (o *Response) Raw() *http.Response {
	return o.response
}

func (o *Response) Body() []byte {
	return o.body
}

//
// Text returns the body of the response as a string.
//
func (o *Response) Text() string {
	return string(o.body)
}

//
// StatusCode returns the HTTP status code of the response, or zero if there is no raw response.
//
func (o *Response) StatusCode() int {
	if o.response == nil {
		return 0
	}

	return o.response.StatusCode
}

//
// decodeEnvelope parses the provided body as a response envelope. Anything other than a JSON object
// (an empty body, an HTML error page, a bare literal) is rejected.
//
func decodeEnvelope(body []byte) (*wireEnvelope, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, errNotEnvelope
	}

	var envelope wireEnvelope

	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, err
	}

	return &envelope, nil
}

func (o *wireEnvelope) code() int64 {
	if o.Code == nil {
		return 0
	}

	return *o.Code
}

func (o *wireEnvelope) envelope() *Envelope {
	return &Envelope{
		Code:    o.code(),
		Message: o.Message,
		Data:    o.Data,
	}
}

var _ exchange.Response = (*Response)(nil)
