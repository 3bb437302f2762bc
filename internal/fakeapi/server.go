// Package fakeapi is an in-memory stand-in for the remote todo API. It serves
// the same routes with the same status codes so the client, CLI and TUI can
// be exercised without the real service.
package fakeapi

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// SessionCookie is the cookie the login endpoint sets.
const SessionCookie = "JSESSIONID"

// Light enough for tests; this never guards real accounts.
var hashParams = &argon2id.Params{
	Memory:      16 * 1024,
	Iterations:  1,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

type Server struct {
	logger       zerolog.Logger
	username     string
	passwordHash string
	requireAuth  bool
	router       *gin.Engine

	mu       sync.RWMutex
	todos    map[string]Record
	order    []string
	sessions map[string]time.Time
}

type Option func(*Server)

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithoutAuth serves todo routes to anyone.
func WithoutAuth() Option {
	return func(s *Server) { s.requireAuth = false }
}

func New(username, password string, opts ...Option) (*Server, error) {
	hash, err := argon2id.CreateHash(password, hashParams)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	s := &Server{
		logger:       zerolog.Nop(),
		username:     username,
		passwordHash: hash,
		requireAuth:  true,
		todos:        make(map[string]Record),
		sessions:     make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(s)
	}

	router := gin.New()
	router.Use(requestLogger(s.logger))
	router.Use(gin.Recovery())
	s.registerRoutes(router)
	s.router = router
	return s, nil
}

func (s *Server) registerRoutes(router gin.IRouter) {
	router.POST("/login", s.handleLogin)

	todos := router.Group("/")
	todos.Use(s.handleAuth)
	todos.GET("/todos", s.handleListTodos)
	todos.POST("/create-todo", s.handleCreateTodo)
	todos.PUT("/update-todo/:id", s.handleUpdateTodo)
	todos.DELETE("/delete-todo/:id", s.handleDeleteTodo)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("handled request")
	}
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}
