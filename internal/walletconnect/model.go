package walletconnect

import (
	"encoding/json"
	"strings"
	"time"

	"moff.io/chia-walletconnect/internal/chia"
)

// Request is the envelope handed to the sign client: which session, which
// chain, and the JSON-RPC call to forward to the wallet.
type Request struct {
	Topic   string           `json:"topic"`
	ChainID string           `json:"chainId"`
	Request RequestArguments `json:"request"`
}

type RequestArguments struct {
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
}

// Session is an approved WalletConnect session as reported by the sign client.
type Session struct {
	Topic      string                      `json:"topic"`
	Expiry     int64                       `json:"expiry"`
	Peer       Peer                        `json:"peer"`
	Namespaces map[string]SessionNamespace `json:"namespaces"`
}

type Peer struct {
	PublicKey string        `json:"publicKey"`
	Metadata  chia.Metadata `json:"metadata"`
}

type SessionNamespace struct {
	Accounts []string `json:"accounts"`
	Chains   []string `json:"chains,omitempty"`
	Methods  []string `json:"methods"`
	Events   []string `json:"events"`
}

// Expired reports whether the session expiry (unix seconds) has passed.
// A zero expiry never expires.
func (s *Session) Expired(now time.Time) bool {
	return s.Expiry > 0 && now.Unix() >= s.Expiry
}

// Accounts returns every CAIP-10 account granted by the wallet.
func (s *Session) Accounts() []string {
	var out []string
	for _, ns := range s.Namespaces {
		out = append(out, ns.Accounts...)
	}
	return out
}

// ChainID returns the chain of the first granted account, e.g. "chia:testnet".
func (s *Session) ChainID() string {
	for _, ns := range s.Namespaces {
		if len(ns.Chains) > 0 {
			return ns.Chains[0]
		}
		for _, account := range ns.Accounts {
			if i := strings.LastIndex(account, ":"); i > 0 {
				return account[:i]
			}
		}
	}
	return ""
}

// Supports reports whether the wallet granted method in any namespace.
func (s *Session) Supports(method string) bool {
	for _, ns := range s.Namespaces {
		for _, m := range ns.Methods {
			if m == method {
				return true
			}
		}
	}
	return false
}

// Frame types exchanged with the sign-client sidecar.
const (
	frameRequest       = "request"
	frameConnect       = "connect"
	frameDisconnect    = "disconnect"
	frameResponse      = "response"
	frameSessionUpdate = "session_update"
	frameSessionDelete = "session_delete"
)

type frame struct {
	ID      string          `json:"id,omitempty"`
	Type    string          `json:"type"`
	Payload interface{}     `json:"payload,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *TransportError `json:"error,omitempty"`
	Session *Session        `json:"session,omitempty"`
	Topic   string          `json:"topic,omitempty"`
}

type connectPayload struct {
	RequiredNamespaces chia.Namespaces `json:"requiredNamespaces"`
	Metadata           chia.Metadata   `json:"metadata"`
}

type connectResult struct {
	URI string `json:"uri"`
}

type disconnectPayload struct {
	Topic string `json:"topic"`
}
