package client

import (
	"bytes"
	"net"
	"strings"
	"testing"

	"github.com/vovakirdan/chatwire/internal/log"
	"github.com/vovakirdan/chatwire/internal/proto"
)

func TestReceiveLoopRendersServerCommands(t *testing.T) {
	clientSide, serverSide := net.Pipe()
	defer serverSide.Close()

	var out bytes.Buffer
	c := &Client{
		opts: Options{Version: 2},
		log:  log.NewWithOutput("error", &out),
		conn: clientSide,
		out:  &out,
	}

	go func() {
		_ = proto.WriteFrame(serverSide, proto.Print{Message: "bob: hi"})
		_ = proto.WriteFrame(serverSide, proto.UserID{UserID: "alice"})
		_ = proto.WriteFrame(serverSide, proto.Disconnect{Message: "Server going down."})
	}()

	if err := c.receiveLoop(); err != nil {
		t.Fatalf("receive loop: %v", err)
	}

	got := out.String()
	for _, want := range []string{"bob: hi", "login confirmed", "Server going down."} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}
	if c.user() != "alice" {
		t.Fatalf("current user = %q, want alice", c.user())
	}
}

func TestReceiveLoopReportsServerGone(t *testing.T) {
	clientSide, serverSide := net.Pipe()

	var out bytes.Buffer
	c := &Client{
		opts: Options{Version: 2},
		log:  log.NewWithOutput("error", &out),
		conn: clientSide,
		out:  &out,
	}

	serverSide.Close()

	if err := c.receiveLoop(); err != nil {
		t.Fatalf("receive loop: %v", err)
	}
	if !strings.Contains(out.String(), "Server has disconnected. Good-bye!") {
		t.Fatalf("missing disconnect notice, got:\n%s", out.String())
	}
}

func TestInputLoopSendsParsedCommands(t *testing.T) {
	clientSide, serverSide := net.Pipe()
	defer serverSide.Close()

	var out bytes.Buffer
	c := &Client{
		opts:        Options{Version: 2},
		log:         log.NewWithOutput("error", &out),
		conn:        clientSide,
		currentUser: "alice",
		in:          strings.NewReader("send all hi\nlogout\n"),
		out:         &out,
	}

	go func() {
		if err := c.inputLoop(); err != nil {
			t.Errorf("input loop: %v", err)
		}
		clientSide.Close()
	}()

	cmd, err := proto.ReadFrame(serverSide, proto.ClientToServer)
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	if got, ok := cmd.(proto.SendAll); !ok || got.Message != "hi" {
		t.Fatalf("unexpected command: %#v", cmd)
	}
}
