package client

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/chatwire/internal/proto"
)

// action is the outcome of parsing one console line: optionally a
// command to send, optionally text to print locally, optionally a
// request to quit. Unrecognized or invalid input never leaves the
// client.
type action struct {
	cmd  proto.Command
	text string
	quit bool
}

const notLoggedIn = "You must be logged in first to do that."

// parse interprets one console line for the given protocol version and
// login state. Version 1 sends are broadcast by default; version 2
// distinguishes "send all" from "send <user>".
func parse(line string, version int, currentUser string) action {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return action{}
	}

	switch tokens[0] {
	case "help", "h":
		if len(tokens) == 1 {
			return action{text: allHelp()}
		}
	case "login":
		if len(tokens) == 3 {
			return credentialAction(proto.Login{UserID: tokens[1], Password: tokens[2]}, currentUser)
		}
		return action{text: usage(proto.Login{}.Help())}
	case "newuser":
		if len(tokens) == 3 {
			return credentialAction(proto.NewUser{UserID: tokens[1], Password: tokens[2]}, currentUser)
		}
		return action{text: usage(proto.NewUser{}.Help())}
	case "send":
		return parseSend(line, tokens, version, currentUser)
	case "who":
		if len(tokens) == 1 {
			if currentUser == "" {
				return action{text: notLoggedIn}
			}
			return action{cmd: proto.Who{}}
		}
	case "logout":
		if len(tokens) == 1 {
			if version == 1 && currentUser != "" {
				return action{text: currentUser + " left", quit: true}
			}
			return action{quit: true}
		}
	}

	return action{text: fmt.Sprintf("Unknown command %q. Type help<Enter> to see chat commands", line)}
}

func parseSend(line string, tokens []string, version int, currentUser string) action {
	if len(tokens) == 1 {
		if currentUser == "" {
			return action{text: "Denied. Please login first."}
		}
		return action{text: usage(proto.SendAll{}.Help())}
	}
	if currentUser == "" {
		return action{text: notLoggedIn}
	}

	if version == 1 {
		cmd := proto.SendAll{Message: tail(line, 1)}
		if cmd.Validate() != nil {
			return action{text: usage(cmd.Help())}
		}
		return action{cmd: cmd}
	}

	// Version 2: "send all <msg>" broadcasts, "send <user> <msg>" is
	// direct.
	if len(tokens) < 3 {
		return action{text: usage(proto.SendAll{}.Help())}
	}
	if tokens[1] == "all" {
		cmd := proto.SendAll{Message: tail(line, 2)}
		if cmd.Validate() != nil {
			return action{text: usage(cmd.Help())}
		}
		return action{cmd: cmd}
	}
	cmd := proto.SendDirect{UserID: tokens[1], Message: tail(line, 2)}
	if cmd.Validate() != nil {
		return action{text: usage(cmd.Help())}
	}
	return action{cmd: cmd}
}

func credentialAction(cmd interface {
	proto.Command
	Validate() error
	Help() string
}, currentUser string) action {
	if currentUser != "" {
		return action{text: fmt.Sprintf("Already logged in as '%s'. Logout first", currentUser)}
	}
	if cmd.Validate() != nil {
		return action{text: usage(cmd.Help())}
	}
	return action{cmd: cmd}
}

// tail returns line with the first skip whitespace-separated tokens
// removed, preserving the rest of the message verbatim.
func tail(line string, skip int) string {
	rest := line
	for i := 0; i < skip; i++ {
		rest = strings.TrimLeft(rest, " \t")
		j := strings.IndexAny(rest, " \t")
		if j < 0 {
			return ""
		}
		rest = rest[j:]
	}
	return strings.TrimLeft(rest, " \t")
}

func usage(help string) string {
	return "Usage:\n" + help
}

func allHelp() string {
	sections := []string{
		"\nUsage:",
		"    help",
		"        Show this help message.",
		"    logout",
		"        Exit the chat program.",
		proto.Login{}.Help(),
		proto.NewUser{}.Help(),
		proto.SendAll{}.Help(),
		proto.SendDirect{}.Help(),
		proto.Who{}.Help(),
	}
	return strings.Join(sections, "\n")
}
