// Package prefsd implements the local preference daemon: an HTTP server
// backed by the embedded NATS draft store that speaks the same wire
// protocol as the hosted TaDa API.
package prefsd

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/IlyaRozhok/TaDa-sub005/internal/logger"
	"github.com/IlyaRozhok/TaDa-sub005/internal/natsstore"
	"github.com/IlyaRozhok/TaDa-sub005/internal/prefstore"
	"github.com/IlyaRozhok/TaDa-sub005/internal/schema"
	"github.com/IlyaRozhok/TaDa-sub005/internal/wizard"
	"github.com/gin-gonic/gin"
)

// defaultUser keys drafts when the request carries no user header. The
// daemon is a single-tenant local server; the header exists so tests and
// shared setups can separate drafts.
const defaultUser = "local"

// Server serves the preference draft API over a NATS-backed store.
type Server struct {
	store  *natsstore.DraftStore
	schema *schema.Schema
	engine *wizard.Engine
	token  string
}

// NewServer creates a preference daemon. If token is non-empty, every
// request must carry it as a bearer token.
func NewServer(store *natsstore.DraftStore, s *schema.Schema, token string) *Server {
	return &Server{
		store:  store,
		schema: s,
		engine: wizard.NewEngine(s),
		token:  token,
	}
}

// Router builds the gin engine with all routes mounted.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthcheck", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/")
	api.Use(s.requireAuth())
	api.GET("/preferences", s.handleGet)
	api.POST("/preferences", s.handleSave)
	api.POST("/preferences/submit", s.handleSubmit)

	return router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("Preference daemon listening on %s", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.token == "" {
			c.Next()
			return
		}
		header := c.GetHeader("Authorization")
		if len(header) <= 7 || !strings.EqualFold(header[:7], "Bearer ") || header[7:] != s.token {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
			return
		}
		c.Next()
	}
}

func userFrom(c *gin.Context) string {
	if u := c.GetHeader("X-Tada-User"); u != "" {
		return u
	}
	return defaultUser
}

func (s *Server) handleGet(c *gin.Context) {
	rec, err := s.store.Get(c.Request.Context(), userFrom(c))
	if err != nil {
		if errors.Is(err, natsstore.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no draft"})
			return
		}
		logger.Error("Failed to read draft: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage failure"})
		return
	}

	c.JSON(http.StatusOK, prefstore.DraftResponse{
		Fields:    rec.Fields,
		Revision:  rec.Revision,
		Submitted: rec.Submitted,
	})
}

func (s *Server) handleSave(c *gin.Context) {
	s.saveDraft(c, false)
}

func (s *Server) handleSubmit(c *gin.Context) {
	s.saveDraft(c, true)
}

// saveDraft validates and stores the incoming draft. A plain save accepts
// incomplete drafts; a submit rejects anything the full ruleset blocks.
func (s *Server) saveDraft(c *gin.Context, submit bool) {
	var req prefstore.SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	values, err := prefstore.DecodeDraft(s.schema, req.Fields)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if errs := s.validate(values, submit); len(errs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errs})
		return
	}

	user := userFrom(c)
	submitted := submit
	if !submit {
		// A save after submission keeps the submitted flag.
		if prev, err := s.store.Get(c.Request.Context(), user); err == nil {
			submitted = prev.Submitted
		}
	}

	rec := natsstore.Record{
		Fields:    req.Fields,
		Revision:  req.Revision,
		Submitted: submitted,
	}
	if err := s.store.Put(c.Request.Context(), user, rec); err != nil {
		logger.Error("Failed to store draft: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage failure"})
		return
	}

	c.JSON(http.StatusOK, prefstore.DraftResponse{
		Fields:    rec.Fields,
		Revision:  rec.Revision,
		Submitted: rec.Submitted,
	})
}

// validate returns the field errors that reject the request. Saving an
// incomplete draft is allowed, so required-field errors only count on
// submit; everything else (bounds, options, inverted ranges) always does.
func (s *Server) validate(values map[string]wizard.Value, submit bool) map[string]string {
	all := s.engine.Validate(values)
	errs := make(map[string]string)
	for name, msg := range all {
		if !submit && msg == "is required" {
			continue
		}
		errs[name] = msg
	}
	return errs
}
