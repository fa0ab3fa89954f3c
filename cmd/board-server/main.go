package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/nrednav/cuid2"
	"uk.co.dudmesh.board/internal/boot"
	"uk.co.dudmesh.board/internal/handlers"
	"uk.co.dudmesh.board/internal/notifier"
	"uk.co.dudmesh.board/internal/service/board"
	"uk.co.dudmesh.board/internal/store"
)

func logLevel(config *boot.Config) log.Lvl {
	if config.IsDevelopment() {
		return log.DEBUG
	}
	return log.INFO
}

// newServer builds the public echo instance: middleware, static assets and
// the message API.
func newServer(config *boot.Config, messageService handlers.MessageService) *echo.Echo {
	server := echo.New()
	server.HideBanner = true
	server.Logger.SetLevel(logLevel(config))
	server.HTTPErrorHandler = handlers.ErrorHandler(server.Logger)

	server.Use(middleware.BodyLimit(config.Server.BodyLimit))
	server.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string {
			return cuid2.Generate()
		},
	}))
	server.Use(echoprometheus.NewMiddleware("board"))
	server.Use(middleware.Recover())

	headers := []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept}
	server.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: config.AllowedOrigins(),
		AllowHeaders: headers,
	}))

	server.Static("/", config.PublicDir)

	handlers.Register(server, messageService)

	return server
}

func main() {
	config, err := boot.Load()
	if err != nil {
		log.Fatalf("boot: %+v", err)
	}
	log.SetLevel(logLevel(config))

	messageStore, err := store.NewMessageStore(config.MessagesFile())
	if err != nil {
		log.Fatalf("opening message store: %+v", err)
	}

	notifierLogger := log.New("notifier")
	notifierLogger.SetLevel(logLevel(config))
	messageNotifier := notifier.New(config.Notifier, notifierLogger)
	if !config.Notifier.Enabled() {
		log.Infof("TELEGRAM_BOT_TOKEN or TELEGRAM_CHAT_ID not set, notifications disabled")
	}

	boardService := board.New(messageStore, messageNotifier)

	server := newServer(config, boardService)

	if config.Server.MetricsEnabled {
		go func() {
			metrics := echo.New()
			metrics.HideBanner = true
			metrics.GET("/metrics", echoprometheus.NewHandler())
			if err := metrics.Start(":" + config.Server.MetricsPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal(err)
			}
		}()
	}

	go func() {
		log.Infof("message board listening on port %s, store %s", config.Server.Port, messageStore.Path())
		if err := server.Start(":" + config.Server.Port); err != nil && err != http.ErrServerClosed {
			server.Logger.Fatal("shutting down the server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		server.Logger.Fatal(err)
	}
	messageNotifier.Wait()
}
