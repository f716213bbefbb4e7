package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/chatwire/internal/config"
	"github.com/vovakirdan/chatwire/internal/proto"
	"github.com/vovakirdan/chatwire/internal/store"
)

// Server owns the session table, admission control, authentication and
// message routing. One goroutine per accepted connection.
type Server struct {
	cfg   config.Config
	creds store.Credentials
	log   *zerolog.Logger
	table *table
	wg    sync.WaitGroup
}

// New constructs a server around the given credential store.
func New(cfg config.Config, creds store.Credentials, logger *zerolog.Logger) *Server {
	return &Server{
		cfg:   cfg,
		creds: creds,
		log:   logger,
		table: newTable(),
	}
}

// Run listens on the configured address and serves until the context
// is cancelled.
func (srv *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", srv.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return srv.Serve(ctx, ln)
}

// Serve accepts connections from ln until the context is cancelled,
// then closes every open connection and waits for the handlers to
// drain.
func (srv *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv.log.Info().
		Str("addr", ln.Addr().String()).
		Int("version", srv.cfg.Version).
		Int("max_conns", srv.cfg.MaxConns).
		Msg("chat server listening")

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				break
			}
			srv.log.Warn().Err(err).Msg("accept failed")
			continue
		}
		srv.wg.Add(1)
		go func() {
			defer srv.wg.Done()
			srv.handleConn(conn)
		}()
	}

	srv.log.Info().Msg("shutting down, closing client connections")
	srv.table.closeAll()
	srv.wg.Wait()
	return nil
}

// LoggedIn lists the currently authenticated user ids, sorted
// case-insensitively.
func (srv *Server) LoggedIn() []string {
	return srv.table.loggedIn()
}

// Connections reports the number of open connections, authenticated or
// not.
func (srv *Server) Connections() int {
	return srv.table.count()
}

// broadcast delivers msg to every authenticated session except the
// given one. Recipients see the frame in an unspecified order; each
// socket's own write mutex keeps its frames whole.
func (srv *Server) broadcast(msg string, except *session) {
	for _, s := range srv.table.authenticated(except) {
		if err := s.send(proto.Print{Message: msg}); err != nil {
			srv.log.Warn().Err(err).Str("conn_id", s.id).Msg("broadcast delivery failed")
		}
	}
}

// newSessionID tags a connection for the logs.
func newSessionID() string {
	return uuid.NewString()
}
