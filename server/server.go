package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/MixinNetwork/keymint/gate"
	"github.com/MixinNetwork/keymint/nft"
	"github.com/MixinNetwork/mixin/logger"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServer struct {
	engine *gin.Engine
	gate   *gate.Engine
	ledger *nft.Ledger

	mutex     sync.Mutex
	lastAdmin int64
}

func NewHTTPServer(engine *gate.Engine, ledger *nft.Ledger) *HTTPServer {
	gin.SetMode(gin.ReleaseMode)

	s := &HTTPServer{
		engine: gin.New(),
		gate:   engine,
		ledger: ledger,
	}
	s.engine.Use(gin.Recovery())
	s.engine.Use(s.requestLogger())
	s.registerRoutes()
	return s
}

func (s *HTTPServer) Handler() http.Handler {
	return s.engine
}

func (s *HTTPServer) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(sctx)
	}()

	logger.Printf("HTTPServer.Run(%s)\n", addr)
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *HTTPServer) registerRoutes() {
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.engine.POST("/mint", s.authenticate(), s.mint)
	s.engine.POST("/admin", s.authenticate(), s.admin)

	s.engine.GET("/collections", s.listCollections)
	s.engine.GET("/collections/:index", s.readCollection)
	s.engine.GET("/supply", s.readSupply)
	s.engine.GET("/keys/:collection/:nonce", s.readKey)
	s.engine.GET("/tokens/:id", s.readToken)
	s.engine.GET("/owners/:address/tokens", s.listOwnerTokens)
	s.engine.GET("/mints", s.listMints)
	s.engine.GET("/mints/:trace", s.readMint)
	s.engine.GET("/revisions", s.listRevisions)
}

func (s *HTTPServer) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Verbosef("HTTP %s %s => %d %s\n",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

func renderError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(errorStatus(err), gin.H{"error": err.Error()})
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, gate.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, gate.ErrInvalidAccessKey):
		return http.StatusForbidden
	case errors.Is(err, gate.ErrRangeInvalid):
		return http.StatusBadRequest
	case errors.Is(err, gate.ErrNoCollection),
		errors.Is(err, gate.ErrIndexOutOfRange):
		return http.StatusNotFound
	case errors.Is(err, gate.ErrRangeOverlap),
		errors.Is(err, gate.ErrSupplyViolation),
		errors.Is(err, gate.ErrAlreadyUsed),
		errors.Is(err, gate.ErrSoldOut),
		errors.Is(err, nft.ErrAlreadyPaused),
		errors.Is(err, nft.ErrNotPaused):
		return http.StatusConflict
	case errors.Is(err, gate.ErrPaused):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
