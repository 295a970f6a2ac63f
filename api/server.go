// Package api serves persisted analysis runs over HTTP. The surface is
// read only: runs are produced by the CLI, the server only reports them.
package api

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/stellarlinkco/cot-bench/internal/store"
)

type Server struct {
	router *gin.Engine
	runs   *store.Store
}

func NewServer(runs *store.Store) (*Server, error) {
	if runs == nil {
		return nil, errors.New("api: nil store")
	}

	r := gin.New()
	s := &Server{router: r, runs: runs}
	s.registerMiddleware()
	s.registerRoutes()
	return s, nil
}

func (s *Server) Run(addr string) error {
	if s == nil || s.router == nil {
		return errors.New("api: nil server")
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		addr = ":8080"
	}
	return s.router.Run(addr)
}
