// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the assessment service over HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/pdiddy/toxassess/pkg/types"
)

// Version is reported by the service descriptor. Set from the build
// version at startup.
var Version = "dev"

// Fetcher retrieves papers from the literature source.
type Fetcher interface {
	Fetch(ctx context.Context, query string, maxResults int) ([]types.Paper, error)
}

// PaperStore is the persistence surface the handlers need.
type PaperStore interface {
	Add(ctx context.Context, papers []types.Paper) (int, error)
	Stats(ctx context.Context) (types.StoreStats, error)
	List(ctx context.Context, limit int) ([]types.PaperSummary, int, error)
	Clear(ctx context.Context) error
}

// Assessor answers toxicity queries against the stored corpus.
type Assessor interface {
	Assess(ctx context.Context, q types.AssessmentQuery) (types.AssessmentResult, error)
}

type Server struct {
	echo     *echo.Echo
	fetcher  Fetcher
	store    PaperStore
	assessor Assessor
	cfg      types.ServerConfig
}

func New(cfg types.ServerConfig, fetcher Fetcher, store PaperStore, assessor Assessor) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:     e,
		fetcher:  fetcher,
		store:    store,
		assessor: assessor,
		cfg:      cfg,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.echo.GET("/", s.handleRoot)
	s.echo.POST("/load-papers", s.handleLoadPapers)
	s.echo.POST("/assess", s.handleAssess)
	s.echo.GET("/stats", s.handleStats)
	s.echo.GET("/papers", s.handleListPapers)
	s.echo.DELETE("/papers", s.handleClearPapers)
}

// Run serves until ctx is cancelled, then drains in-flight requests
// within the configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", s.cfg.Port)
		slog.Info("server_starting", slog.String("addr", addr))
		if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	slog.Info("server_stopping")
	return s.echo.Shutdown(shutdownCtx)
}

// errorBody is the uniform error envelope. Code is one of
// validation_error, upstream_error, not_found, internal_error.
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func fail(c echo.Context, status int, code, msg string) error {
	return c.JSON(status, errorBody{Error: msg, Code: code})
}
