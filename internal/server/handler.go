package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/vovakirdan/chatwire/internal/proto"
	"github.com/vovakirdan/chatwire/internal/store"
)

// errCloseConn makes the read loop tear the connection down after a
// reply has already been sent (version mismatch handshake).
var errCloseConn = errors.New("server: close connection")

// handleConn runs the read loop for one accepted connection. It
// returns only when the connection is being torn down.
func (srv *Server) handleConn(conn net.Conn) {
	s := &session{id: newSessionID(), conn: conn}

	if !srv.table.add(s, srv.cfg.MaxConns) {
		srv.log.Info().
			Str("remote", conn.RemoteAddr().String()).
			Int("max_conns", srv.cfg.MaxConns).
			Msg("connection rejected, server full")
		// Sole writer at this point, no need for the session mutex.
		_ = proto.WriteFrame(conn, proto.Disconnect{Message: "Server cannot accept new connections. Try later."})
		_ = conn.Close()
		return
	}
	defer srv.teardown(s)

	srv.log.Debug().
		Str("conn_id", s.id).
		Str("remote", conn.RemoteAddr().String()).
		Msg("connection accepted")

	for {
		cmd, err := proto.ReadFrame(conn, proto.ClientToServer)
		if err != nil {
			switch {
			case errors.Is(err, proto.ErrPeerClosed):
				srv.log.Debug().Str("conn_id", s.id).Msg("peer closed connection")
			case errors.Is(err, proto.ErrUnknownCommand), errors.Is(err, proto.ErrMalformedHeader):
				// Protocol desync is unrecoverable; drop the
				// connection without touching any other.
				srv.log.Warn().Err(err).Str("conn_id", s.id).Msg("protocol error, dropping connection")
			default:
				srv.log.Warn().Err(err).Str("conn_id", s.id).Msg("read failed")
			}
			return
		}

		srv.log.Debug().
			Str("conn_id", s.id).
			Str("command", fmt.Sprintf("%T", cmd)).
			Msg("command received")

		if err := srv.execute(s, cmd); err != nil {
			if !errors.Is(err, errCloseConn) {
				srv.log.Warn().Err(err).Str("conn_id", s.id).Msg("command failed")
			}
			return
		}
	}
}

// teardown runs once per connection: the session leaves the table, the
// socket closes, and if the peer had logged in the remaining users
// hear about the departure.
func (srv *Server) teardown(s *session) {
	user := srv.table.remove(s)
	_ = s.conn.Close()
	if user != "" {
		srv.log.Info().Str("user", user).Msg("logout")
		srv.broadcast(user+" left", s)
	}
	srv.log.Debug().Str("conn_id", s.id).Msg("connection closed")
}

// execute dispatches one decoded command. A non-nil return tears the
// connection down; business failures reply to the peer and return nil.
func (srv *Server) execute(s *session, cmd proto.Command) error {
	switch cmd := cmd.(type) {
	case proto.Connect:
		return srv.handleConnect(s, cmd)
	case proto.Login:
		return srv.handleLogin(s, cmd)
	case proto.NewUser:
		return srv.handleNewUser(s, cmd)
	case proto.SendAll:
		return srv.handleSendAll(s, cmd)
	case proto.SendDirect:
		return srv.handleSendDirect(s, cmd)
	case proto.Who:
		return srv.handleWho(s)
	default:
		return fmt.Errorf("server: no handler for %T", cmd)
	}
}

func (srv *Server) handleConnect(s *session, cmd proto.Connect) error {
	if cmd.Validate() == nil && cmd.Version == fmt.Sprint(srv.cfg.Version) {
		return nil
	}
	msg := fmt.Sprintf("Server is running version %d. Update client to correct version.", srv.cfg.Version)
	if err := s.send(proto.Disconnect{Message: msg}); err != nil {
		return err
	}
	return errCloseConn
}

func (srv *Server) handleLogin(s *session, cmd proto.Login) error {
	if err := cmd.Validate(); err != nil {
		// Rejected before the store is consulted.
		return s.send(proto.Print{Message: "Denied. User name or password invalid."})
	}
	if srv.table.userOf(s) != "" {
		return s.send(proto.Print{Message: "Denied. Already logged in. Logout first."})
	}

	ok, err := srv.creds.Authenticate(context.Background(), cmd.UserID, cmd.Password)
	if err != nil {
		srv.log.Error().Err(err).Str("user", cmd.UserID).Msg("credential lookup failed")
		return s.send(proto.Print{Message: "Denied. Server error, try again."})
	}
	if !ok {
		return s.send(proto.Print{Message: "Denied. User name or password incorrect."})
	}

	if !srv.table.bind(s, cmd.UserID) {
		return s.send(proto.Print{Message: "Denied. User already logged in elsewhere."})
	}

	srv.log.Info().Str("user", cmd.UserID).Msg("login")
	srv.broadcast(cmd.UserID+" joins.", s)
	return s.send(proto.UserID{UserID: cmd.UserID})
}

func (srv *Server) handleNewUser(s *session, cmd proto.NewUser) error {
	if err := cmd.Validate(); err != nil {
		return s.send(proto.Print{Message: "Denied. User name or password invalid."})
	}

	err := srv.creds.Insert(context.Background(), cmd.UserID, cmd.Password)
	switch {
	case errors.Is(err, store.ErrUserExists):
		return s.send(proto.Print{Message: "Denied. User account already exists."})
	case err != nil:
		srv.log.Error().Err(err).Str("user", cmd.UserID).Msg("user creation failed")
		return s.send(proto.Print{Message: "Denied. Server error, try again."})
	}

	srv.log.Info().Str("user", cmd.UserID).Msg("new user account created")
	return s.send(proto.Print{Message: "New user account created. Please login."})
}

func (srv *Server) handleSendAll(s *session, cmd proto.SendAll) error {
	// Authentication is enforced here, not only in the client.
	user := srv.table.userOf(s)
	if user == "" {
		return s.send(proto.Print{Message: "Denied. Please login first."})
	}
	if err := cmd.Validate(); err != nil {
		return s.send(proto.Print{Message: "Denied. Message must be 1-256 characters."})
	}

	full := user + ": " + cmd.Message
	srv.log.Info().Str("user", user).Msg(full)
	// The sender is excluded; their own console already shows the input.
	srv.broadcast(full, s)
	return nil
}

func (srv *Server) handleSendDirect(s *session, cmd proto.SendDirect) error {
	user := srv.table.userOf(s)
	if user == "" {
		return s.send(proto.Print{Message: "Denied. Please login first."})
	}
	if err := cmd.Validate(); err != nil {
		return s.send(proto.Print{Message: "Denied. Check user id and message length."})
	}

	srv.log.Info().Str("from", user).Str("to", cmd.UserID).Msg(cmd.Message)

	target := srv.table.lookup(cmd.UserID)
	if target == nil {
		return s.send(proto.Print{Message: "That user is not logged in."})
	}
	return target.send(proto.Print{Message: user + "= " + cmd.Message})
}

func (srv *Server) handleWho(s *session) error {
	user := srv.table.userOf(s)
	if user == "" {
		return s.send(proto.Print{Message: "Denied. Please login first."})
	}

	users := srv.table.loggedIn()
	for i, u := range users {
		if u == user {
			users[i] = u + " (you)"
		}
	}
	return s.send(proto.Print{Message: strings.Join(users, ", ")})
}
