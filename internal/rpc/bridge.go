// Package rpc maps the Chia method catalog onto requests over the current
// WalletConnect session.
//
// Every call runs the same four steps: check that a transport and a session
// exist, sanitize the params against the method descriptor, send exactly one
// request, and unwrap the answer. The bridge keeps no state between calls.
package rpc

import (
	"context"
	"encoding/json"
	"time"

	"github.com/tidwall/gjson"
	"moff.io/chia-walletconnect/internal/chia"
	"moff.io/chia-walletconnect/internal/walletconnect"
	"moff.io/chia-walletconnect/pkg/errors"
	"moff.io/chia-walletconnect/pkg/log"
	"moff.io/chia-walletconnect/pkg/log/meta"
)

type Bridge struct {
	provider walletconnect.SessionProvider
}

func NewBridge(provider walletconnect.SessionProvider) *Bridge {
	return &Bridge{provider: provider}
}

// Call runs method with raw JSON params and returns the raw answer.
func (b *Bridge) Call(ctx context.Context, method string, params json.RawMessage) (json.RawMessage, error) {
	m := chia.Method(method)
	if !m.Valid() {
		return nil, errors.Wrapf(ErrUnknownMethod, "%q", method)
	}
	return b.send(ctx, m, params)
}

// invoke is the typed form of Call shared by every method wrapper.
func invoke[R any](ctx context.Context, b *Bridge, m chia.Method, params interface{}) (*R, error) {
	raw, err := b.send(ctx, m, params)
	if err != nil {
		return nil, err
	}
	var result R
	if len(raw) == 0 || gjson.ParseBytes(raw).Type == gjson.Null {
		return &result, nil
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, errors.WrapfAndReport(err, "decode %s result", m)
	}
	return &result, nil
}

func (b *Bridge) send(ctx context.Context, m chia.Method, params interface{}) (json.RawMessage, error) {
	transport := b.provider.Transport()
	session := b.provider.Session()
	if transport == nil || session == nil {
		return nil, ErrNotConnected
	}
	if !granted(session, m) {
		return nil, errors.Wrapf(ErrMethodNotGranted, "%s", m)
	}
	sanitized, err := m.Describe().Sanitize(params)
	if err != nil {
		return nil, err
	}
	req := &walletconnect.Request{
		Topic:   session.Topic,
		ChainID: b.provider.ChainID(),
		Request: walletconnect.RequestArguments{
			Method: string(m),
			Params: sanitized,
		},
	}

	start := time.Now()
	raw, err := transport.Request(ctx, req)
	log.Debugf("rpc - %v topic=%v request_id=%v elapsed=%v err=%v",
		m, session.Topic, meta.RequestID(ctx), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	if detail := remoteError(raw); detail != "" {
		return nil, &RemoteError{Method: m, Detail: detail}
	}
	return raw, nil
}

// granted reports whether session allows m. Sessions that list no methods
// at all leave the decision to the wallet.
func granted(session *walletconnect.Session, m chia.Method) bool {
	for _, ns := range session.Namespaces {
		if len(ns.Methods) > 0 {
			return session.Supports(string(m))
		}
	}
	return true
}

// remoteError returns the raw "error" value of an object answer, or "".
func remoteError(raw json.RawMessage) string {
	answer := gjson.ParseBytes(raw)
	if !answer.IsObject() {
		return ""
	}
	if e := answer.Get("error"); e.Exists() {
		return e.Raw
	}
	return ""
}
