package walletconnect

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/tidwall/gjson"
	"go.uber.org/atomic"
	"moff.io/chia-walletconnect/internal/chia"
	"moff.io/chia-walletconnect/pkg/errors"
	"moff.io/chia-walletconnect/pkg/log"
)

// ClientConfig configures the connection to the sign-client sidecar, the
// process owning the WalletConnect SignClient (pairing, relay, encryption).
type ClientConfig struct {
	// SidecarURL is the sidecar websocket endpoint; http(s) schemes are
	// rewritten to ws(s).
	SidecarURL string
	// ChainID is sent with every request, e.g. "chia:testnet". When empty
	// the chain granted by the session is used.
	ChainID        string
	Metadata       chia.Metadata
	ReconnectDelay time.Duration
	WriteTimeout   time.Duration
	// PingInterval enables websocket keepalive; zero disables it.
	PingInterval time.Duration
}

const (
	defaultReconnectDelay = time.Second * 3
	defaultWriteTimeout   = time.Second * 10
)

type pendingReply struct {
	result json.RawMessage
	err    error
}

// Client talks to the sign-client sidecar over a websocket. It implements
// SessionProvider and Transport; requests are correlated by id so any number
// of them can be in flight.
type Client struct {
	cfg    ClientConfig
	wsURL  string
	dialer *websocket.Dialer

	// writeMu serializes frame writes, gorilla connections allow one writer.
	writeMu sync.Mutex
	connMu  sync.RWMutex
	conn    *websocket.Conn

	connected  atomic.Bool
	session    atomic.Value // *Session
	pairingURI atomic.String
	pending    sync.Map // id => chan pendingReply

	now func() time.Time
}

var _ SessionProvider = (*Client)(nil)
var _ Transport = (*Client)(nil)

func NewClient(cfg ClientConfig) (*Client, error) {
	wsURL, err := websocketURL(cfg.SidecarURL)
	if err != nil {
		return nil, err
	}
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = defaultReconnectDelay
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaultWriteTimeout
	}
	if cfg.Metadata.Name == "" {
		cfg.Metadata = chia.DefaultMetadata
	}
	c := &Client{
		cfg:    cfg,
		wsURL:  wsURL,
		dialer: &websocket.Dialer{HandshakeTimeout: cfg.WriteTimeout},
		now:    time.Now,
	}
	c.session.Store((*Session)(nil))
	return c, nil
}

func websocketURL(raw string) (string, error) {
	if raw == "" {
		return "", errors.New("sidecar url not present")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", errors.Wrap(err, "parse sidecar url")
	}
	switch strings.ToLower(u.Scheme) {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", errors.Errorf("unsupported sidecar url scheme %q", u.Scheme)
	}
	return u.String(), nil
}

// Start keeps a connection to the sidecar open until ctx is done, redialing
// after ReconnectDelay whenever it drops.
func (c *Client) Start(ctx context.Context) {
	go c.run(ctx)
}

func (c *Client) run(ctx context.Context) {
	for {
		conn, err := c.dialWS(ctx)
		if err == nil {
			log.Infof("walletconnect - connected to sidecar %v", c.wsURL)
			err = c.serve(ctx, conn)
			c.drop(conn)
			if ctx.Err() == nil {
				log.Warnf("walletconnect - sidecar connection lost: %v", err)
			}
		} else if ctx.Err() == nil {
			log.Warnf("walletconnect - dial sidecar: %v", err)
		}
		select {
		case <-ctx.Done():
			log.Info("walletconnect - client stopped")
			return
		case <-time.After(c.cfg.ReconnectDelay):
		}
	}
}

func (c *Client) dialWS(ctx context.Context) (*websocket.Conn, error) {
	conn, _, err := c.dialer.DialContext(ctx, c.wsURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "dial to walletconnect sidecar")
	}
	c.connMu.Lock()
	c.conn = conn
	c.connMu.Unlock()
	c.connected.Store(true)
	return conn, nil
}

// serve reads frames until the connection fails or ctx is done.
func (c *Client) serve(ctx context.Context, conn *websocket.Conn) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()
	if c.cfg.PingInterval > 0 {
		c.keepalive(conn, done)
	}
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return errors.Wrap(err, "read sidecar frame")
		}
		if msgType != websocket.TextMessage {
			log.Warnf("walletconnect - ignoring non text frame type %d", msgType)
			continue
		}
		c.dispatch(data)
	}
}

func (c *Client) keepalive(conn *websocket.Conn, done <-chan struct{}) {
	wait := c.cfg.PingInterval * 2
	_ = conn.SetReadDeadline(c.now().Add(wait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(c.now().Add(wait))
	})
	go func() {
		ticker := time.NewTicker(c.cfg.PingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				deadline := c.now().Add(c.cfg.WriteTimeout)
				if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
					return
				}
			}
		}
	}()
}

// drop forgets conn, the session seen through it, and fails every request
// still waiting for an answer.
func (c *Client) drop(conn *websocket.Conn) {
	c.connMu.Lock()
	if c.conn == conn {
		c.conn = nil
		c.connected.Store(false)
	}
	c.connMu.Unlock()
	conn.Close()
	c.session.Store((*Session)(nil))
	c.pending.Range(func(key, _ interface{}) bool {
		if value, ok := c.pending.LoadAndDelete(key); ok {
			value.(chan pendingReply) <- pendingReply{err: ErrTransportClosed}
		}
		return true
	})
}

func (c *Client) dispatch(data []byte) {
	switch typ := gjson.GetBytes(data, "type").String(); typ {
	case frameResponse:
		var f frame
		if err := json.Unmarshal(data, &f); err != nil {
			log.Error(errors.WrapAndReport(err, "unmarshal sidecar response"))
			return
		}
		value, ok := c.pending.LoadAndDelete(f.ID)
		if !ok {
			log.Debugf("walletconnect - response for unknown request %v", f.ID)
			return
		}
		reply := pendingReply{result: f.Result}
		if f.Error != nil {
			reply = pendingReply{err: f.Error}
		}
		value.(chan pendingReply) <- reply
	case frameSessionUpdate:
		var f frame
		if err := json.Unmarshal(data, &f); err != nil || f.Session == nil || f.Session.Topic == "" {
			log.Warnf("walletconnect - malformed session update: %s", data)
			return
		}
		c.session.Store(f.Session)
		c.pairingURI.Store("")
		log.Infof("walletconnect - session %v approved by %v", f.Session.Topic, f.Session.Peer.Metadata.Name)
	case frameSessionDelete:
		topic := gjson.GetBytes(data, "topic").String()
		if current := c.Session(); current != nil && (topic == "" || topic == current.Topic) {
			c.session.Store((*Session)(nil))
			log.Infof("walletconnect - session %v deleted", current.Topic)
		}
	default:
		log.Warnf("walletconnect - unsupported sidecar frame type %q", typ)
	}
}

func (c *Client) write(f *frame) error {
	c.connMu.RLock()
	conn := c.conn
	c.connMu.RUnlock()
	if conn == nil {
		return ErrTransportClosed
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := conn.SetWriteDeadline(c.now().Add(c.cfg.WriteTimeout)); err != nil {
		return errors.Wrap(ErrTransportClosed, err.Error())
	}
	if err := conn.WriteJSON(f); err != nil {
		return errors.Wrap(ErrTransportClosed, err.Error())
	}
	return nil
}

// roundTrip writes one frame and waits for the response carrying its id.
// Abandoning the wait through ctx does not retract the frame.
func (c *Client) roundTrip(ctx context.Context, typ string, payload interface{}) (json.RawMessage, error) {
	id := uuid.NewString()
	ch := make(chan pendingReply, 1)
	c.pending.Store(id, ch)
	defer c.pending.Delete(id)

	if err := c.write(&frame{ID: id, Type: typ, Payload: payload}); err != nil {
		return nil, err
	}
	select {
	case reply := <-ch:
		return reply.result, reply.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Request forwards req to the wallet through the sidecar.
func (c *Client) Request(ctx context.Context, req *Request) (json.RawMessage, error) {
	return c.roundTrip(ctx, frameRequest, req)
}

// Connect asks the sidecar to propose a new session for every catalog method
// and returns the pairing URI to show to the wallet.
func (c *Client) Connect(ctx context.Context) (string, error) {
	result, err := c.roundTrip(ctx, frameConnect, &connectPayload{
		RequiredNamespaces: chia.RequiredNamespaces(c.chainID(nil)),
		Metadata:           c.cfg.Metadata,
	})
	if err != nil {
		return "", err
	}
	var cr connectResult
	if err := json.Unmarshal(result, &cr); err != nil || cr.URI == "" {
		return "", errors.Errorf("sidecar returned no pairing uri: %s", result)
	}
	c.pairingURI.Store(cr.URI)
	return cr.URI, nil
}

// Disconnect asks the sidecar to delete the current session.
func (c *Client) Disconnect(ctx context.Context) error {
	s := c.Session()
	if s == nil {
		return ErrNoSession
	}
	if _, err := c.roundTrip(ctx, frameDisconnect, &disconnectPayload{Topic: s.Topic}); err != nil {
		return err
	}
	c.session.Store((*Session)(nil))
	return nil
}

// Transport returns c while the sidecar connection is up, nil otherwise.
func (c *Client) Transport() Transport {
	if !c.connected.Load() {
		return nil
	}
	return c
}

// Session returns the approved, unexpired session or nil.
func (c *Client) Session() *Session {
	s, _ := c.session.Load().(*Session)
	if s == nil || s.Expired(c.now()) {
		return nil
	}
	return s
}

func (c *Client) ChainID() string {
	return c.chainID(c.Session())
}

func (c *Client) chainID(s *Session) string {
	if c.cfg.ChainID != "" || s == nil {
		return c.cfg.ChainID
	}
	return s.ChainID()
}

// PairingURI returns the URI of the pending proposal, empty once a session
// has been approved.
func (c *Client) PairingURI() string {
	return c.pairingURI.Load()
}
