package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/chatwire/internal/app"
	"github.com/vovakirdan/chatwire/internal/config"
	"github.com/vovakirdan/chatwire/internal/log"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfgPath   string
		debug     bool
		overrides = config.Default()
	)

	cmd := &cobra.Command{
		Use:          "chatwire-server",
		Short:        "Run a group chat server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bootLog := log.New("info")
			cfg, cfgFile, err := config.Load(bootLog, cfgPath)
			if err != nil {
				return err
			}

			// Explicit flags win over config file and environment.
			flags := cmd.Flags()
			if flags.Changed("addr") {
				cfg.Addr = overrides.Addr
			}
			if flags.Changed("version") {
				cfg.Version = overrides.Version
			}
			if flags.Changed("max-connections") {
				cfg.MaxConns = overrides.MaxConns
			}
			if flags.Changed("database") {
				cfg.DatabasePath = overrides.DatabasePath
			}
			if flags.Changed("admin-addr") {
				cfg.AdminAddr = overrides.AdminAddr
			}
			if debug {
				cfg.LogLevel = "debug"
			}
			// Version 1 runs without a connection cap.
			if cfg.Version == 1 {
				cfg.MaxConns = 0
			}

			logger := log.New(cfg.LogLevel)
			logger.Debug().Str("config", cfgFile).Msg("configuration loaded")

			versionText := map[int]string{1: "One", 2: "Two"}[cfg.Version]
			fmt.Printf("My chat room server. Version %s.\n", versionText)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			application, err := app.New(cfg, logger)
			if err != nil {
				return err
			}
			return application.Run(ctx)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&cfgPath, "config", "c", "", "path to config file")
	f.StringVarP(&overrides.Addr, "addr", "a", overrides.Addr, "TCP listen address")
	f.IntVarP(&overrides.Version, "version", "v", overrides.Version, "protocol version (1 or 2)")
	f.IntVarP(&overrides.MaxConns, "max-connections", "m", overrides.MaxConns, "maximum simultaneous connections, 0 for unlimited")
	f.StringVar(&overrides.DatabasePath, "database", overrides.DatabasePath, "path to the user database")
	f.StringVar(&overrides.AdminAddr, "admin-addr", overrides.AdminAddr, "admin HTTP listen address, empty to disable")
	f.BoolVarP(&debug, "debug", "d", false, "show debug information")
	return cmd
}
