package coinex

import (
	"errors"
	"fmt"

	"github.com/lukehollenback/coinex/exchange"
)

var (
	// ErrPathRequired is returned, before anything is sent, when a call is made without a path.
	ErrPathRequired = errors.New("coinex: path is required")

	// ErrMalformedEnvelope is returned when a failed HTTP response carries a JSON body without a
	// non-zero error code. The exchange never does that on purpose.
	ErrMalformedEnvelope = errors.New("coinex: error response carried no error code")
)

//
// Kind is an enum that represents the ways a call against the CoinEx API can fail.
//
type Kind int

const (
	// KindTransport means no HTTP response was obtained at all.
	KindTransport Kind = iota

	// KindBodylessHTTP means a response was obtained but its body was not a response envelope.
	KindBodylessHTTP

	// KindDomain means the response envelope carried a non-zero code.
	KindDomain
)

var kindNames = [...]string{"transport", "bodyless_http", "domain"}

func (o Kind) String() string {
	if o < 0 || int(o) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(o))
	}

	return kindNames[o]
}

//
// Error is the error returned by every failed call to the CoinEx API. Which fields are populated
// depends on its Kind:
//
//  KindTransport     Inner holds the error the transport returned, without net/http's URL wrapper.
//  KindBodylessHTTP  HTTP holds the status and raw text; Response holds the raw response; Inner holds
//                    the read failure, or the decode failure if the response was a 2xx.
//  KindDomain        Envelope holds the parsed response envelope; Response holds the raw response.
//
type Error struct {
	Kind     Kind
	Envelope *Envelope
	HTTP     *exchange.HTTPError
	Response *Response
	Inner    error
}

func (o *Error) Error() string {
	switch o.Kind {
	case KindTransport:
		if o.Inner == nil {
			return "coinex: transport failure"
		}

		return o.Inner.Error()
	case KindBodylessHTTP:
		status, text := 0, ""

		if o.HTTP != nil {
			status, text = o.HTTP.StatusCode(), o.HTTP.Text()
		} else if o.Response != nil {
			status, text = o.Response.StatusCode(), o.Response.Text()
		}

		return fmt.Sprintf("Coinex: %d %s. See Response field of error.", status, text)
	default:
		return fmt.Sprintf(
			"Coinex: %d %s. See Envelope field of error.",
			o.Code(), o.Message(),
		)
	}
}

//
// Unwrap exposes the original transport or decode failure, falling back to the HTTP status error.
//
func (o *Error) Unwrap() error {
	if o.Inner != nil {
		return o.Inner
	}

	if o.HTTP != nil {
		return o.HTTP
	}

	return nil
}

//
// Code returns the error code of the response envelope, or zero if there was no envelope.
//
func (o *Error) Code() int64 {
	if o.Envelope == nil {
		return 0
	}

	return o.Envelope.Code
}

//
// Message returns the message of the response envelope, or an empty string if there was no
// envelope.
//
func (o *Error) Message() string {
	if o.Envelope == nil {
		return ""
	}

	return o.Envelope.Message
}

//
// KindOf reports the Kind of the provided error if it is (or wraps) an *Error.
//
func KindOf(err error) (Kind, bool) {
	var e *Error

	if errors.As(err, &e) {
		return e.Kind, true
	}

	return 0, false
}

//
// IsDomain reports whether the provided error is an API error reported through the response
// envelope.
//
func IsDomain(err error) bool {
	kind, ok := KindOf(err)

	return ok && kind == KindDomain
}

var _ exchange.APIError = (*Error)(nil)
