package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/chatwire/internal/client"
	"github.com/vovakirdan/chatwire/internal/log"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		addr    string
		version int
		debug   bool
	)

	cmd := &cobra.Command{
		Use:          "chatwire-client",
		Short:        "Run a group chat client",
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			if version != 1 && version != 2 {
				return fmt.Errorf("version must be 1 or 2, got %d", version)
			}

			level := "warn"
			if debug {
				level = "debug"
			}
			// Logs go to stderr so the chat console stays clean.
			logger := log.NewWithOutput(level, os.Stderr)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			c := client.New(client.Options{Addr: addr, Version: version}, logger)
			return c.Run(ctx)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&addr, "addr", "a", "127.0.0.1:19150", "chat server address")
	f.IntVarP(&version, "version", "v", 2, "protocol version (1 or 2)")
	f.BoolVarP(&debug, "debug", "d", false, "show debug information")
	return cmd
}
