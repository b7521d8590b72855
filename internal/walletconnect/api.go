package walletconnect

import (
	"context"
	"encoding/json"
)

// Transport sends one request over an established session and waits for the
// wallet's answer. Implementations are safe for concurrent use; every call is
// an independent round trip.
type Transport interface {
	Request(ctx context.Context, req *Request) (json.RawMessage, error)
}

// SessionProvider exposes the live WalletConnect state. Any accessor may
// report "unavailable": Transport and Session return nil in that case.
// Callers re-read the provider on every request, the session can be replaced
// or deleted at any time.
type SessionProvider interface {
	Transport() Transport
	Session() *Session
	ChainID() string
}
