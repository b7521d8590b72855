package walletconnect

import (
	"fmt"

	"moff.io/chia-walletconnect/pkg/errors"
)

var (
	// ErrTransportClosed is returned for requests that could not be written,
	// or whose connection dropped before an answer arrived.
	ErrTransportClosed = errors.New("walletconnect transport closed")
	// ErrNoSession is returned by Disconnect when there is nothing to delete.
	ErrNoSession = errors.New("walletconnect session not found")
)

// TransportError is a failure reported by the sign client itself, such as a
// relay timeout or an unknown topic. It is distinct from a wallet answering
// with an error payload, which arrives as a regular result.
type TransportError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *TransportError) Error() string {
	if e.Code == 0 {
		return fmt.Sprintf("walletconnect: %s", e.Message)
	}
	return fmt.Sprintf("walletconnect: %s (code %d)", e.Message, e.Code)
}
