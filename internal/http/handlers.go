package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
	"moff.io/chia-walletconnect/internal/chia"
	"moff.io/chia-walletconnect/internal/rpc"
	"moff.io/chia-walletconnect/internal/walletconnect"
	"moff.io/chia-walletconnect/pkg/errors"
	"moff.io/chia-walletconnect/pkg/log"
)

type methodView struct {
	Method   chia.Method `json:"method"`
	Title    string      `json:"title"`
	Required []string    `json:"required"`
	Optional []string    `json:"optional"`
	Fields   []FormField `json:"fields"`
}

func methodViews() []methodView {
	descriptors := chia.Descriptors()
	views := make([]methodView, 0, len(descriptors))
	for _, d := range descriptors {
		views = append(views, methodView{
			Method:   d.Method,
			Title:    d.Title,
			Required: d.Required,
			Optional: d.Optional,
			Fields:   FormFields(d.Method),
		})
	}
	return views
}

type sessionView struct {
	// Transport is true while the sidecar socket is up.
	Transport  bool     `json:"transport"`
	Connected  bool     `json:"connected"`
	Topic      string   `json:"topic,omitempty"`
	ChainID    string   `json:"chainId,omitempty"`
	Wallet     string   `json:"wallet,omitempty"`
	Accounts   []string `json:"accounts,omitempty"`
	PairingURI string   `json:"pairingUri,omitempty"`
}

func (s *Server) currentSession() sessionView {
	view := sessionView{
		Transport:  s.sessions.Transport() != nil,
		ChainID:    s.sessions.ChainID(),
		PairingURI: s.sessions.PairingURI(),
	}
	if session := s.sessions.Session(); session != nil {
		view.Connected = view.Transport
		view.Topic = session.Topic
		view.Wallet = session.Peer.Metadata.Name
		view.Accounts = session.Accounts()
	}
	return view
}

func (s *Server) index(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "index", gin.H{
		"Methods": methodViews(),
		"Session": s.currentSession(),
	})
}

func (s *Server) listMethods(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, methodViews())
}

func (s *Server) getSession(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, s.currentSession())
}

func (s *Server) pairingQRCode(ctx *gin.Context) {
	uri := s.sessions.PairingURI()
	if uri == "" {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "no pairing in progress"})
		return
	}
	png, err := qrcode.Encode(uri, qrcode.Medium, 256)
	if err != nil {
		s.fail(ctx, errors.WrapAndReport(err, "encode pairing qr code"))
		return
	}
	ctx.Data(http.StatusOK, "image/png", png)
}

func (s *Server) connect(ctx *gin.Context) {
	uri, err := s.sessions.Connect(ctx.Request.Context())
	if err != nil {
		s.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"uri": uri})
}

func (s *Server) disconnect(ctx *gin.Context) {
	if err := s.sessions.Disconnect(ctx.Request.Context()); err != nil {
		s.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

// invocation runs one bound bridge call.
type invocation func(ctx context.Context) (interface{}, error)

func (s *Server) callMethod(ctx *gin.Context) {
	name := ctx.Param("method")
	d, ok := chia.Lookup(name)
	if !ok {
		s.fail(ctx, errors.Wrapf(rpc.ErrUnknownMethod, "%q", name))
		return
	}
	bind, ok := binders[d.Method]
	if !ok {
		s.fail(ctx, errors.Wrapf(rpc.ErrUnknownMethod, "%q has no form", name))
		return
	}
	call, err := bind(ctx, s.bridge)
	if err != nil {
		s.fail(ctx, err)
		return
	}
	result, err := call(ctx.Request.Context())
	if err != nil {
		s.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"result": result})
}

// bindParams fills a request from a JSON body, or from form fields through fromForm.
func bindParams[P any](ctx *gin.Context, fromForm func(form) (P, error)) (*P, error) {
	var req P
	if ctx.ContentType() == gin.MIMEJSON {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			return nil, errors.Wrapf(chia.ErrInvalidParams, "decode body: %v", err)
		}
		return &req, nil
	}
	req, err := fromForm(form{ctx: ctx})
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func statusOf(err error) int {
	var remote *rpc.RemoteError
	switch {
	case errors.Is(err, rpc.ErrInvalidParams), errors.Is(err, rpc.ErrUnknownMethod):
		return http.StatusBadRequest
	case errors.Is(err, rpc.ErrNotConnected), errors.Is(err, walletconnect.ErrTransportClosed):
		return http.StatusServiceUnavailable
	case errors.Is(err, walletconnect.ErrNoSession):
		return http.StatusConflict
	case errors.Is(err, rpc.ErrMethodNotGranted):
		return http.StatusForbidden
	case errors.As(err, &remote):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// fail writes err verbatim under "error", the way the page displays it.
func (s *Server) fail(ctx *gin.Context, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		log.Errorf("http - %v %v: %+v", ctx.Request.Method, ctx.Request.URL.Path, err)
	}
	ctx.JSON(status, gin.H{"error": err.Error()})
}
