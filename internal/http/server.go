package http

import (
	"context"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"moff.io/chia-walletconnect/internal/config"
	"moff.io/chia-walletconnect/internal/rpc"
	"moff.io/chia-walletconnect/internal/walletconnect"
	"moff.io/chia-walletconnect/pkg/concurrent"
	"moff.io/chia-walletconnect/pkg/errors"
	"moff.io/chia-walletconnect/pkg/log"
	"moff.io/chia-walletconnect/pkg/log/middleware"
)

// SessionController is the session side the page needs: the live state plus
// pairing and disconnect.
type SessionController interface {
	walletconnect.SessionProvider
	Connect(ctx context.Context) (string, error)
	Disconnect(ctx context.Context) error
	PairingURI() string
}

// Server renders one form per catalog method and forwards submissions to
// the wallet through the RPC bridge.
type Server struct {
	cfg      config.HTTP
	bridge   *rpc.Bridge
	sessions SessionController
	router   *gin.Engine
}

const shutdownTimeout = time.Second * 10

func NewServer(cfg config.HTTP, sessions SessionController) *Server {
	s := &Server{
		cfg:      cfg,
		bridge:   rpc.NewBridge(sessions),
		sessions: sessions,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	router := gin.New()
	router.Use(middleware.RecoveredHTTPLog(), middleware.TimeoutHTTP(s.cfg.RequestTimeout))
	router.SetHTMLTemplate(template.Must(template.New("index").Parse(indexPage)))

	router.GET("/", s.index)
	api := router.Group("/api")
	api.GET("/methods", s.listMethods)
	api.GET("/session", s.getSession)
	api.GET("/session/qr.png", s.pairingQRCode)

	// every route below may prompt the user in the wallet; throttled waits
	// count as pending
	wallet := api.Group("", middleware.Pending(concurrent.NewLimiter(s.cfg.MaxPendingRequests)),
		middleware.Throttle(s.cfg.WalletRequestsPerSecond))
	wallet.POST("/session/connect", s.connect)
	wallet.POST("/session/disconnect", s.disconnect)
	wallet.POST("/rpc/:method", s.callMethod)
	return router
}

// Handler exposes the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves on cfg.Listen until ctx is done.
func (s *Server) Start(ctx context.Context) {
	srv := &http.Server{
		Addr:    s.cfg.Listen,
		Handler: s.router,
	}
	go func() {
		log.Infof("http - listening on %v", s.cfg.Listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(errors.WrapAndReport(err, "serve http"))
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Errorf("http - shutdown: %v", err)
		}
	}()
}
