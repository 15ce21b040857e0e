package exchange

import (
	"fmt"
	"net/http"
)

//
// HTTPError represents an error due to a non-2xx response from an API endpoint whose body could not
// be understood as the exchange's response envelope. When dealing with cryptocurrency exchange APIs,
// such a response almost always means that something critically wrong has occurred (a gateway
// error page, a proxy failure, a bot-blocking interstitial, etc).
//
type HTTPError struct {
	statusCode int
	text       string
}

func NewHTTPError(statusCode int, text string) *HTTPError {
	return &HTTPError{
		statusCode: statusCode,
		text:       text,
	}
}

func (o *HTTPError) StatusCode() int {
	return o.statusCode
}

//
// Text returns the raw response text that accompanied the status code. It may be empty.
//
func (o *HTTPError) Text() string {
	return o.text
}

//
// Status returns the status code along with its canonical reason phrase (e.g. "502 Bad Gateway").
//
func (o *HTTPError) Status() string {
	if reason := http.StatusText(o.statusCode); reason != "" {
		return fmt.Sprintf("%d %s", o.statusCode, reason)
	}

	return fmt.Sprintf("%d", o.statusCode)
}

func (o *HTTPError) Error() string {
	if o.text == "" {
		return fmt.Sprintf("server responded with a %d status code", o.statusCode)
	}

	return fmt.Sprintf("server responded with a %d status code (%s)", o.statusCode, o.text)
}
