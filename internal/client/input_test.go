package client

import (
	"reflect"
	"strings"
	"testing"

	"github.com/vovakirdan/chatwire/internal/proto"
)

func TestParseVersion2(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		loggedIn string
		want     action
	}{
		{
			name: "login",
			line: "login alice secret1",
			want: action{cmd: proto.Login{UserID: "alice", Password: "secret1"}},
		},
		{
			name:     "login while logged in",
			line:     "login alice secret1",
			loggedIn: "alice",
			want:     action{text: "Already logged in as 'alice'. Logout first"},
		},
		{
			name: "login with invalid user id",
			line: "login al secret1",
			want: action{text: usage(proto.Login{}.Help())},
		},
		{
			name: "login with missing args",
			line: "login alice",
			want: action{text: usage(proto.Login{}.Help())},
		},
		{
			name: "newuser",
			line: "newuser bob pass",
			want: action{cmd: proto.NewUser{UserID: "bob", Password: "pass"}},
		},
		{
			name:     "send all",
			line:     "send all hello  world",
			loggedIn: "alice",
			want:     action{cmd: proto.SendAll{Message: "hello  world"}},
		},
		{
			name:     "send direct",
			line:     "send bob hi there",
			loggedIn: "alice",
			want:     action{cmd: proto.SendDirect{UserID: "bob", Message: "hi there"}},
		},
		{
			name: "send while logged out",
			line: "send all hi",
			want: action{text: notLoggedIn},
		},
		{
			name: "bare send while logged out",
			line: "send",
			want: action{text: "Denied. Please login first."},
		},
		{
			name:     "who",
			line:     "who",
			loggedIn: "alice",
			want:     action{cmd: proto.Who{}},
		},
		{
			name: "who while logged out",
			line: "who",
			want: action{text: notLoggedIn},
		},
		{
			name: "logout",
			line: "logout",
			want: action{quit: true},
		},
		{
			name: "empty line",
			line: "   ",
			want: action{},
		},
		{
			name: "unknown command",
			line: "dance",
			want: action{text: `Unknown command "dance". Type help<Enter> to see chat commands`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parse(tt.line, 2, tt.loggedIn)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("parse(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestParseVersion1(t *testing.T) {
	// Version 1 broadcasts by default: no "all" keyword, no direct
	// sends.
	got := parse("send hi everyone", 1, "alice")
	want := action{cmd: proto.SendAll{Message: "hi everyone"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("parse = %+v, want %+v", got, want)
	}

	got = parse("logout", 1, "alice")
	if !got.quit || got.text != "alice left" {
		t.Fatalf("version 1 logout = %+v", got)
	}
}

func TestParseHelpListsEveryCommand(t *testing.T) {
	got := parse("help", 2, "")
	for _, word := range []string{"login", "newuser", "send", "who", "logout"} {
		if !strings.Contains(got.text, word) {
			t.Fatalf("help text missing %q:\n%s", word, got.text)
		}
	}
	if h := parse("h", 2, ""); h.text != got.text {
		t.Fatal("h should be an alias for help")
	}
}

func TestTail(t *testing.T) {
	tests := []struct {
		line string
		skip int
		want string
	}{
		{"send all hello  world", 2, "hello  world"},
		{"send hi", 1, "hi"},
		{"send", 1, ""},
		{"  send   bob   hi", 2, "hi"},
	}
	for _, tt := range tests {
		if got := tail(tt.line, tt.skip); got != tt.want {
			t.Errorf("tail(%q, %d) = %q, want %q", tt.line, tt.skip, got, tt.want)
		}
	}
}
