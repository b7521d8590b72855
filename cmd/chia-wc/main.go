package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"moff.io/chia-walletconnect/internal/config"
	"moff.io/chia-walletconnect/internal/http"
	"moff.io/chia-walletconnect/internal/starter"
	"moff.io/chia-walletconnect/internal/walletconnect"
	"moff.io/chia-walletconnect/pkg/errors"
	"moff.io/chia-walletconnect/pkg/log"
)

func main() {
	log.Infof("Starting app")
	startApp()
	log.Infof("Bye")
}

func startApp() {
	defer func() {
		if i := recover(); i != nil {
			log.Fatal(errors.ErrorfAndReport("%v", i))
		}
	}()
	config.Read()
	log.SetLevel(config.Global.LogLevel)
	if config.Global.SentryDSN != "" {
		if err := errors.NewSentryReporter(config.Global.SentryDSN); err != nil {
			log.Errorf("init sentry reporter: %v", err)
		}
	}
	if config.Global.LarkAlarmWebhook != "" {
		errors.NewLarkReporter(config.Global.LarkAlarmWebhook, config.Global.LarkSilent)
	}
	if !log.IsDebug() {
		gin.SetMode(gin.ReleaseMode)
	}
	gin.DefaultWriter = log.Writer()

	wc := config.Global.WalletConnect
	client, err := walletconnect.NewClient(walletconnect.ClientConfig{
		SidecarURL:     wc.SidecarURL,
		ChainID:        wc.ChainID,
		Metadata:       wc.Metadata,
		ReconnectDelay: wc.ReconnectDelay,
		PingInterval:   wc.PingInterval,
	})
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	starter.Start(ctx, config.Global,
		client,
		http.NewServer(config.Global.HTTP, client),
	)
	<-ctx.Done()
	log.Infof("Shutting down")
}
