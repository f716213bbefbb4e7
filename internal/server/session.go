package server

import (
	"net"
	"sort"
	"strings"
	"sync"

	"github.com/vovakirdan/chatwire/internal/proto"
)

// session is one accepted connection. It owns the write side of its
// socket: send holds mu for the duration of one full frame, so frames
// bound for this peer are never interleaved, no matter which handler
// goroutine triggered them.
type session struct {
	id   string // connection id for logs
	conn net.Conn

	mu sync.Mutex // serializes whole-frame writes to conn

	// user is the authenticated identity, "" before login. Guarded by
	// the owning table's mutex, never by mu.
	user string
}

func (s *session) send(cmd proto.Command) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return proto.WriteFrame(s.conn, cmd)
}

// table tracks every open connection plus the user-to-session binding
// for the authenticated ones. One mutex covers both structures; every
// connection goroutine mutates it on login and teardown, and routing
// reads it from any goroutine.
type table struct {
	mu       sync.Mutex
	sessions map[*session]struct{}
	users    map[string]*session
}

func newTable() *table {
	return &table{
		sessions: make(map[*session]struct{}),
		users:    make(map[string]*session),
	}
}

// add admits a session unless the connection cap is reached.
// max <= 0 means unlimited.
func (t *table) add(s *session, max int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if max > 0 && len(t.sessions) >= max {
		return false
	}
	t.sessions[s] = struct{}{}
	return true
}

// bind associates a user id with a session. It fails when the session
// is already authenticated or the user id is bound elsewhere: a user
// maps to at most one connection and vice versa.
func (t *table) bind(s *session, user string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s.user != "" {
		return false
	}
	if _, taken := t.users[user]; taken {
		return false
	}
	s.user = user
	t.users[user] = s
	return true
}

// remove drops a session from both structures and returns the user id
// it was bound to, if any.
func (t *table) remove(s *session) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.sessions, s)
	user := s.user
	if user != "" {
		delete(t.users, user)
		s.user = ""
	}
	return user
}

// userOf returns the authenticated identity of a session, "" if none.
func (t *table) userOf(s *session) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return s.user
}

// lookup resolves a logged-in user id to its session.
func (t *table) lookup(user string) *session {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.users[user]
}

// authenticated snapshots every logged-in session except the given one.
// The snapshot lets broadcast writes happen outside the table lock.
func (t *table) authenticated(except *session) []*session {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*session, 0, len(t.users))
	for _, s := range t.users {
		if s != except {
			out = append(out, s)
		}
	}
	return out
}

// loggedIn lists the user ids currently bound, sorted
// case-insensitively.
func (t *table) loggedIn() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, 0, len(t.users))
	for user := range t.users {
		out = append(out, user)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	return out
}

// count reports the number of open connections, authenticated or not.
func (t *table) count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.sessions)
}

// closeAll force-closes every open connection, unblocking any pending
// reads in their handler goroutines.
func (t *table) closeAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for s := range t.sessions {
		_ = s.conn.Close()
	}
}
