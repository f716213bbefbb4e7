package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/chatwire/internal/proto"
)

// Options configures the client binary.
type Options struct {
	Addr    string
	Version int
}

// Client owns one outgoing connection. An input goroutine parses
// console lines into commands and writes frames; a receive goroutine
// decodes inbound frames and renders them. Both share currentUser.
type Client struct {
	opts Options
	log  *zerolog.Logger

	conn net.Conn

	mu          sync.Mutex
	currentUser string

	in  io.Reader // console input, stdin unless a test injects one
	out io.Writer // console output
}

// New constructs a client reading commands from stdin and rendering to
// stdout.
func New(opts Options, logger *zerolog.Logger) *Client {
	return &Client{
		opts: opts,
		log:  logger,
		in:   os.Stdin,
		out:  os.Stdout,
	}
}

// Run dials the server, performs the version handshake and serves the
// console until logout, server disconnect, or context cancellation.
func (c *Client) Run(ctx context.Context) error {
	versionText := map[int]string{1: "One", 2: "Two"}[c.opts.Version]
	fmt.Fprintf(c.out, "My chat room client. Version %s.\n", versionText)

	conn, err := net.Dial("tcp", c.opts.Addr)
	if err != nil {
		fmt.Fprintln(c.out, "The chat client is unable to connect to the chat server.")
		fmt.Fprintf(c.out, "Is the server running at %s?\n", c.opts.Addr)
		return fmt.Errorf("dial: %w", err)
	}
	c.conn = conn
	defer conn.Close()

	c.log.Debug().Str("addr", c.opts.Addr).Int("version", c.opts.Version).Msg("connected to chat server")

	if err := proto.WriteFrame(conn, proto.Connect{Version: strconv.Itoa(c.opts.Version)}); err != nil {
		return fmt.Errorf("handshake: %w", err)
	}

	// First loop to finish wins; closing the socket unblocks the
	// other. A console read blocked on stdin simply dies with the
	// process, as it has nothing left to deliver to.
	done := make(chan error, 2)
	go func() { done <- c.inputLoop() }()
	go func() { done <- c.receiveLoop() }()

	select {
	case err = <-done:
	case <-ctx.Done():
		err = nil
	}
	conn.Close()
	return err
}

// inputLoop reads console lines, validates them locally as a fast-fail
// convenience (the server re-validates) and sends the resulting
// commands.
func (c *Client) inputLoop() error {
	scanner := bufio.NewScanner(c.in)
	for scanner.Scan() {
		act := parse(scanner.Text(), c.opts.Version, c.user())
		if act.text != "" {
			fmt.Fprintln(c.out, act.text)
		}
		if act.cmd != nil {
			if err := proto.WriteFrame(c.conn, act.cmd); err != nil {
				fmt.Fprintln(c.out, "Server has disconnected. Good-bye!")
				return nil
			}
		}
		if act.quit {
			return nil
		}
	}
	return scanner.Err()
}

// receiveLoop decodes inbound frames and executes the server-to-client
// commands.
func (c *Client) receiveLoop() error {
	for {
		cmd, err := proto.ReadFrame(c.conn, proto.ServerToClient)
		if err != nil {
			if errors.Is(err, proto.ErrPeerClosed) {
				fmt.Fprintln(c.out, "Server has disconnected. Good-bye!")
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}

		switch cmd := cmd.(type) {
		case proto.Print:
			fmt.Fprintln(c.out, cmd.Message)
		case proto.UserID:
			c.setUser(cmd.UserID)
			fmt.Fprintln(c.out, "login confirmed")
		case proto.Disconnect:
			fmt.Fprintln(c.out, cmd.Message)
			return nil
		}
	}
}

func (c *Client) user() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentUser
}

func (c *Client) setUser(user string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentUser = user
}
