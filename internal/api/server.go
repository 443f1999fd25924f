// Package api exposes the transaction ledger and swap archive over HTTP.
package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"solana-wallet-monitor/internal/observability"
	"solana-wallet-monitor/internal/storage"
)

// Config holds the API server configuration.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string
	// APIKey protects mutating endpoints when non-empty.
	APIKey string
}

// Server serves the management API.
type Server struct {
	store      storage.TransactionStore
	archive    storage.SwapArchive
	httpServer *http.Server
}

// NewServer builds the router and wraps it in an http.Server.
func NewServer(cfg Config, store storage.TransactionStore, archive storage.SwapArchive) *Server {
	s := &Server{
		store:   store,
		archive: archive,
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), corsMiddleware())

	router.GET("/health", s.health)
	router.GET("/metrics", gin.WrapH(observability.Handler()))

	api := router.Group("/")
	api.Use(apiKeyMiddleware(cfg.APIKey))
	api.GET("/transactions", s.listTransactions)
	api.GET("/transactions/:id", s.getTransaction)
	api.POST("/transactions", s.createTransaction)
	api.PUT("/transactions/:id", s.updateTransaction)
	api.DELETE("/transactions/:id", s.deleteTransaction)
	api.GET("/swaps", s.listSwaps)

	s.httpServer = &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}
	return s
}

// Start begins serving in a background goroutine.
func (s *Server) Start() {
	log.Printf("[api] listening on %s", s.httpServer.Addr)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[api] serve: %v", err)
		}
	}()
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) listTransactions(c *gin.Context) {
	records, err := s.store.GetAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, toTransactionViews(records))
}

func (s *Server) getTransaction(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}

	record, err := s.store.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, errorResponse{Error: "transaction not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, toTransactionView(record))
}

func (s *Server) createTransaction(c *gin.Context) {
	var body transactionRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	record := body.toRecord()
	if err := record.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	if err := s.store.Insert(c.Request.Context(), record); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			c.JSON(http.StatusConflict, errorResponse{Error: "txhash already recorded"})
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, toTransactionView(record))
}

func (s *Server) updateTransaction(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}

	var body transactionRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	record := body.toRecord()
	record.ID = id
	if err := record.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	if err := s.store.Update(c.Request.Context(), record); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			c.JSON(http.StatusNotFound, errorResponse{Error: "transaction not found"})
		case errors.Is(err, storage.ErrDuplicateKey):
			c.JSON(http.StatusConflict, errorResponse{Error: "txhash already recorded"})
		default:
			c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, toTransactionView(record))
}

func (s *Server) deleteTransaction(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}

	if err := s.store.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, errorResponse{Error: "transaction not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) listSwaps(c *gin.Context) {
	if s.archive == nil {
		c.JSON(http.StatusNotFound, errorResponse{Error: "archive not configured"})
		return
	}

	limit := 100
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid limit"})
			return
		}
		limit = parsed
	}

	swaps, err := s.archive.GetRecent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, toArchivedSwapViews(swaps))
}
