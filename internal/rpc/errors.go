package rpc

import (
	"fmt"

	"moff.io/chia-walletconnect/internal/chia"
	"moff.io/chia-walletconnect/pkg/errors"
)

var (
	// ErrNotConnected is returned before any network attempt when there is
	// no transport or no approved session.
	ErrNotConnected = errors.New("walletconnect session is not connected")
	// ErrInvalidParams is returned, without sending anything, for params
	// missing a required field or not encoding to a JSON object.
	ErrInvalidParams = chia.ErrInvalidParams
	// ErrUnknownMethod is returned by Call for names outside the catalog.
	ErrUnknownMethod = errors.New("unknown method")
	// ErrMethodNotGranted is returned, without sending, when the session lists
	// the methods the wallet approved and the call is not among them.
	ErrMethodNotGranted = errors.New("method not granted by the wallet session")
)

// RemoteError is a wallet answer carrying an "error" field. Detail is the
// JSON encoding of that field, verbatim.
type RemoteError struct {
	Method chia.Method
	Detail string
}

func (e *RemoteError) Error() string {
	return e.Detail
}

// String includes the method, for logs.
func (e *RemoteError) String() string {
	return fmt.Sprintf("%s: %s", e.Method, e.Detail)
}
