package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/NethermindEth/prompt-mint/pkg/agent/ledger"
	"github.com/NethermindEth/prompt-mint/pkg/agent/pipeline"
)

const (
	shutdownTimeout  = 5 * time.Second
	defaultListLimit = 20
)

type errorResponse struct {
	ErrorKind string             `json:"errorKind"`
	Error     string             `json:"error"`
	Current   *pipeline.Snapshot `json:"current,omitempty"`
}

func (a *Agent) generateRouter() *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
		MaxAge:          12 * time.Hour,
	}))

	router.GET("/address", func(c *gin.Context) {
		c.String(http.StatusOK, a.Address().String())
	})

	router.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, a.Current())
	})

	router.POST("/creations", a.handleCreate)
	router.GET("/creations", a.handleList)
	router.GET("/creations/:id", a.handleGet)

	return router
}

func (a *Agent) GetRouter() *gin.Engine {
	return a.apiRouter
}

func (a *Agent) handleCreate(c *gin.Context) {
	var request pipeline.CreationRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{ErrorKind: string(pipeline.ErrValidation), Error: err.Error()})
		return
	}

	snapshot, err := a.Submit(request)
	switch {
	case err == nil:
		c.JSON(http.StatusAccepted, snapshot)
	case errors.Is(err, pipeline.ErrValidation):
		c.JSON(http.StatusBadRequest, errorResponse{ErrorKind: string(pipeline.ErrValidation), Error: err.Error()})
	case errors.Is(err, pipeline.ErrAlreadyInProgress):
		c.JSON(http.StatusConflict, errorResponse{ErrorKind: string(pipeline.ErrAlreadyInProgress), Error: err.Error(), Current: &snapshot})
	default:
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}

func (a *Agent) handleGet(c *gin.Context) {
	id := c.Param("id")

	if snapshot, ok := a.recentRuns.Get(id); ok {
		c.JSON(http.StatusOK, recordFromSnapshot(snapshot))
		return
	}

	if a.ledger != nil {
		record, err := a.ledger.Get(c.Request.Context(), id)
		if err != nil {
			c.String(http.StatusInternalServerError, err.Error())
			return
		}
		if record != nil {
			c.JSON(http.StatusOK, record)
			return
		}
	}

	c.String(http.StatusNotFound, "run not found")
}

func (a *Agent) handleList(c *gin.Context) {
	limit := defaultListLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.String(http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	if a.ledger == nil {
		c.String(http.StatusNotFound, "ledger is not configured")
		return
	}

	var records []*ledger.Record
	var err error
	if c.Query("unconfirmed") == "true" {
		records, err = a.ledger.Unconfirmed(c.Request.Context())
	} else {
		records, err = a.ledger.List(c.Request.Context(), limit)
	}
	if err != nil {
		c.String(http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, records)
}

// Start serves the api until ctx is done.
func (a *Agent) Start(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.StartServer(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		return gctx.Err()
	})

	return g.Wait()
}

func (a *Agent) StartServer(ctx context.Context) error {
	slog.Info("starting server", "address", a.Address().String(), "port", a.apiIpPort)

	if a.apiIpPort == "" {
		slog.Info("api ip port is empty, skipping server")
		return nil
	}

	server := &http.Server{
		Addr:    a.apiIpPort,
		Handler: a.apiRouter,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve api: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
			return err
		}
		return nil
	}
}
