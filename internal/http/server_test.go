package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"moff.io/chia-walletconnect/internal/chia"
	"moff.io/chia-walletconnect/internal/config"
	"moff.io/chia-walletconnect/internal/walletconnect"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type spyTransport struct {
	mu       sync.Mutex
	requests []*walletconnect.Request
	answer   func(req *walletconnect.Request) (json.RawMessage, error)
}

func (s *spyTransport) Request(_ context.Context, req *walletconnect.Request) (json.RawMessage, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()
	return s.answer(req)
}

func (s *spyTransport) calls() []*walletconnect.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*walletconnect.Request(nil), s.requests...)
}

type fakeSessions struct {
	transport  walletconnect.Transport
	session    *walletconnect.Session
	pairingURI string
	connectErr error
}

func (f *fakeSessions) Transport() walletconnect.Transport { return f.transport }
func (f *fakeSessions) Session() *walletconnect.Session    { return f.session }
func (f *fakeSessions) ChainID() string                    { return "chia:testnet" }
func (f *fakeSessions) PairingURI() string                 { return f.pairingURI }

func (f *fakeSessions) Connect(context.Context) (string, error) {
	if f.connectErr != nil {
		return "", f.connectErr
	}
	f.pairingURI = "wc:abc@2?relay-protocol=irn&symKey=k"
	return f.pairingURI, nil
}

func (f *fakeSessions) Disconnect(context.Context) error {
	if f.session == nil {
		return walletconnect.ErrNoSession
	}
	f.session = nil
	return nil
}

func answering(raw string) *spyTransport {
	return &spyTransport{answer: func(*walletconnect.Request) (json.RawMessage, error) {
		return json.RawMessage(raw), nil
	}}
}

func connectedSessions(t walletconnect.Transport) *fakeSessions {
	return &fakeSessions{
		transport: t,
		session: &walletconnect.Session{
			Topic: "topic-1",
			Peer:  walletconnect.Peer{Metadata: chia.Metadata{Name: "Sage"}},
			Namespaces: map[string]walletconnect.SessionNamespace{
				"chia": {Accounts: []string{"chia:testnet:xch1abc"}},
			},
		},
	}
}

func newTestServer(sessions SessionController) *Server {
	cfg := config.Default().HTTP
	return NewServer(cfg, sessions)
}

func postForm(s *Server, path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func postJSON(s *Server, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func get(s *Server, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestSendFormSplitsMemosAndDropsDefaults(t *testing.T) {
	spy := answering(`{}`)
	s := newTestServer(connectedSessions(spy))

	rec := postForm(s, "/api/rpc/chia_send", url.Values{
		"address": {"addr1"},
		"amount":  {"10"},
		"fee":     {"0"},
		"assetId": {""},
		"memos":   {"a, b"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"result":{}}`, rec.Body.String())

	calls := spy.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "chia_send", calls[0].Request.Method)
	assert.JSONEq(t, `{"address":"addr1","amount":10,"memos":["a","b"]}`, string(calls[0].Request.Params))
}

func TestGetNftsFormOmitsZeroPaging(t *testing.T) {
	spy := answering(`{"nfts":[]}`)
	s := newTestServer(connectedSessions(spy))

	rec := postForm(s, "/api/rpc/chia_getNfts", url.Values{"limit": {"0"}, "offset": {"0"}, "collectionId": {""}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"result":{"nfts":[]}}`, rec.Body.String())
	assert.Equal(t, `{}`, string(spy.calls()[0].Request.Params))

	rec = postForm(s, "/api/rpc/chia_getNfts", url.Values{"limit": {"ten"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, spy.calls(), 1)
}

func TestCreateOfferJSONBody(t *testing.T) {
	spy := answering(`{"id":"o1","offer":"offer1..."}`)
	s := newTestServer(connectedSessions(spy))

	rec := postJSON(s, "/api/rpc/chia_createOffer",
		`{"offerAssets":[{"assetId":"A","amount":5}],"requestAssets":[{"assetId":"B","amount":3}]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"result":{"id":"o1","offer":"offer1..."}}`, rec.Body.String())
	assert.Equal(t,
		`{"offerAssets":[{"assetId":"A","amount":5}],"requestAssets":[{"assetId":"B","amount":3}]}`,
		string(spy.calls()[0].Request.Params))
}

func TestBulkMintForm(t *testing.T) {
	spy := answering(`{"nftIds":["n1"]}`)
	s := newTestServer(connectedSessions(spy))

	rec := postForm(s, "/api/rpc/chia_bulkMintNfts", url.Values{
		"did":  {"did:chia:1"},
		"nfts": {`[{"dataUris":["ipfs://x"],"editionNumber":1,"editionTotal":0}]`},
		"fee":  {"0.5"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t,
		`{"did":"did:chia:1","nfts":[{"dataUris":["ipfs://x"],"editionNumber":1}],"fee":0.5}`,
		string(spy.calls()[0].Request.Params))

	rec = postForm(s, "/api/rpc/chia_bulkMintNfts", url.Values{"did": {"did:chia:1"}, "nfts": {"[{"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestErrorsAreRenderedVerbatim(t *testing.T) {
	rec := postForm(newTestServer(&fakeSessions{}), "/api/rpc/chia_getAddress", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"error":"walletconnect session is not connected"}`, rec.Body.String())

	rec = postForm(newTestServer(connectedSessions(answering(`{"error":"rejected"}`))), "/api/rpc/chia_takeOffer",
		url.Values{"offer": {"offer1"}})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"error":"\"rejected\""}`, rec.Body.String())

	failing := &spyTransport{answer: func(*walletconnect.Request) (json.RawMessage, error) {
		return nil, &walletconnect.TransportError{Message: "relay down"}
	}}
	rec = postForm(newTestServer(connectedSessions(failing)), "/api/rpc/chia_getAddress", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"walletconnect: relay down"}`, rec.Body.String())

	rec = postForm(newTestServer(connectedSessions(answering(`{}`))), "/api/rpc/chia_logout", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postForm(newTestServer(connectedSessions(answering(`{}`))), "/api/rpc/chia_cancelOffer", url.Values{"fee": {"1"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing required id")
}

func TestMethodsAndIndex(t *testing.T) {
	s := newTestServer(connectedSessions(answering(`{}`)))

	rec := get(s, "/api/methods")
	require.Equal(t, http.StatusOK, rec.Code)
	var views []methodView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	require.Len(t, views, 8)
	assert.Equal(t, "chia_send", string(views[1].Method))
	assert.Len(t, views[1].Fields, 5)

	rec = get(s, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `data-action="/api/rpc/chia_bulkMintNfts"`)
	assert.Contains(t, body, "Memos (comma-separated)")
	assert.Contains(t, body, "Connected to Sage")
	assert.Contains(t, body, `<input name="amount" type="number" min="0" step="any" required>`)
	assert.Contains(t, body, `<input name="fee" type="number" min="0" step="any" value="0">`)
}

func TestFormFieldsFollowCatalog(t *testing.T) {
	for _, d := range chia.Descriptors() {
		_, ok := binders[d.Method]
		assert.True(t, ok, d.Method)
		for _, f := range FormFields(d.Method) {
			assert.True(t, d.IsRequired(f.Name) || d.IsOptional(f.Name), "%s.%s", d.Method, f.Name)
			assert.Equal(t, d.IsRequired(f.Name), f.Required, "%s.%s", d.Method, f.Name)
		}
	}
}

func TestUnsetOrMalformedAmountsAreRejected(t *testing.T) {
	spy := answering(`{}`)
	s := newTestServer(connectedSessions(spy))

	rec := postForm(s, "/api/rpc/chia_send", url.Values{"address": {"addr1"}, "amount": {""}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing required amount")

	rec = postJSON(s, "/api/rpc/chia_send", `{"address":"addr1","amount":"ten"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(s, "/api/rpc/chia_createOffer",
		`{"offerAssets":[{"assetId":"A"}],"requestAssets":[{"assetId":"B","amount":3}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "offerAssets[0].amount")

	assert.Empty(t, spy.calls())
}

func TestUngrantedMethodIsForbidden(t *testing.T) {
	spy := answering(`{}`)
	sessions := connectedSessions(spy)
	sessions.session.Namespaces = map[string]walletconnect.SessionNamespace{
		"chia": {Methods: []string{"chia_getAddress"}},
	}
	rec := postForm(newTestServer(sessions), "/api/rpc/chia_takeOffer", url.Values{"offer": {"offer1"}})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, spy.calls())
}

func TestSessionEndpoints(t *testing.T) {
	sessions := &fakeSessions{transport: answering(`{}`)}
	s := newTestServer(sessions)

	rec := get(s, "/api/session")
	assert.JSONEq(t, `{"transport":true,"connected":false,"chainId":"chia:testnet"}`, rec.Body.String())

	rec = get(s, "/api/session/qr.png")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = postForm(s, "/api/session/connect", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"uri":"wc:abc@2?relay-protocol=irn&symKey=k"}`, rec.Body.String())

	rec = get(s, "/api/session/qr.png")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "\x89PNG"))

	rec = postForm(s, "/api/session/disconnect", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	sessions.session = &walletconnect.Session{Topic: "topic-1"}
	rec = get(s, "/api/session")
	assert.JSONEq(t, `{"transport":true,"connected":true,"topic":"topic-1","chainId":"chia:testnet","pairingUri":"wc:abc@2?relay-protocol=irn&symKey=k"}`, rec.Body.String())
	rec = postForm(s, "/api/session/disconnect", nil)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	sessions.connectErr = walletconnect.ErrTransportClosed
	rec = postForm(s, "/api/session/connect", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestPendingWalletRequestsAreCapped(t *testing.T) {
	release := make(chan struct{})
	spy := &spyTransport{answer: func(*walletconnect.Request) (json.RawMessage, error) {
		<-release
		return json.RawMessage(`{"address":"xch1"}`), nil
	}}
	cfg := config.Default().HTTP
	cfg.MaxPendingRequests = 1
	s := NewServer(cfg, connectedSessions(spy))

	first := make(chan int, 1)
	go func() {
		first <- postForm(s, "/api/rpc/chia_getAddress", nil).Code
	}()
	require.Eventually(t, func() bool { return len(spy.calls()) == 1 }, time.Second, 5*time.Millisecond)

	rec := postForm(s, "/api/rpc/chia_getAddress", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// reads are not capped
	assert.Equal(t, http.StatusOK, get(s, "/api/session").Code)

	close(release)
	assert.Equal(t, http.StatusOK, <-first)
}
