package exchange

import (
	"strings"
	"testing"
)

func TestHTTPError(t *testing.T) {
	err := NewHTTPError(502, "Bad Gateway")

	if err.StatusCode() != 502 {
		t.Errorf("The status code should have been 502, but instead was %d.", err.StatusCode())
	}

	if err.Status() != "502 Bad Gateway" {
		t.Errorf("The status should have been \"502 Bad Gateway\", but instead was %q.", err.Status())
	}

	if msg := err.Error(); !strings.Contains(msg, "502") || !strings.Contains(msg, "Bad Gateway") {
		t.Errorf("The error message should have mentioned the status and text, but instead was %q.", msg)
	}
}

func TestHTTPErrorWithoutText(t *testing.T) {
	err := NewHTTPError(599, "")

	if err.Status() != "599" {
		t.Errorf("An unknown status code should render without a reason phrase, but instead was %q.", err.Status())
	}

	if err.Error() != "server responded with a 599 status code" {
		t.Errorf("Unexpected error message %q.", err.Error())
	}
}
