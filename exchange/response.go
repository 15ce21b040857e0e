package exchange

import "net/http"

//
// Response generically provides an interface to an object that represents a response from a call to
// an exchange's API endpoint.
//
type Response interface {

	//
	// Raw provides the raw HTTP response from the endpoint call that was made. Its body has already
	// been drained and closed.
	//
	Raw() *http.Response

	//
	// Body provides the bytes that were read from the raw HTTP response's body.
	//
	Body() []byte
}
