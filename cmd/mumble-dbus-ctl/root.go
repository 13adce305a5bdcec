package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/spf13/cobra"

	"github.com/restitux/mumble-dbus/internal/bus"
	"github.com/restitux/mumble-dbus/internal/config"
	"github.com/restitux/mumble-dbus/internal/logging"
	"github.com/restitux/mumble-dbus/internal/mumble"
)

// options holds the persistent flags.
type options struct {
	configPath string
	system     bool
	address    string
	logLevel   string
	timeout    time.Duration
}

// muteClient is what the subcommands need from bus.Client.
type muteClient interface {
	SetMute(ctx context.Context, muted bool) error
	ToggleMute(ctx context.Context) error
}

// connect is replaced in tests.
var connect = func(cfg config.BusConfig) (muteClient, func() error, error) {
	addr, err := bus.Address(cfg)
	if err != nil {
		return nil, nil, err
	}
	conn, err := dbus.Connect(addr)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to %s: %w", addr, err)
	}
	return bus.NewClient(conn), conn.Close, nil
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "mumble-dbus-ctl",
		Short:         "Control Mumble's local mute state through the mumble-dbus plugin",
		Version:       mumble.PluginVersion.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/mumble-dbus/config.yaml)")
	pf.BoolVar(&opts.system, "system", false, "use the system bus instead of the session bus")
	pf.StringVar(&opts.address, "address", "", "explicit D-Bus address")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level: error, warn, info, debug")
	pf.DurationVar(&opts.timeout, "timeout", 5*time.Second, "call timeout")

	root.AddCommand(
		&cobra.Command{
			Use:   "mute",
			Short: "Mute the local user",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return run(cmd, opts, func(ctx context.Context, c muteClient) error { return c.SetMute(ctx, true) })
			},
		},
		&cobra.Command{
			Use:   "unmute",
			Short: "Unmute the local user",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return run(cmd, opts, func(ctx context.Context, c muteClient) error { return c.SetMute(ctx, false) })
			},
		},
		&cobra.Command{
			Use:   "toggle",
			Short: "Toggle the local user's mute state",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return run(cmd, opts, func(ctx context.Context, c muteClient) error { return c.ToggleMute(ctx) })
			},
		},
		&cobra.Command{
			Use:   "set true|false",
			Short: "Set the local user's mute state",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				muted, err := strconv.ParseBool(args[0])
				if err != nil {
					return fmt.Errorf("invalid mute state %q: %w", args[0], err)
				}
				return run(cmd, opts, func(ctx context.Context, c muteClient) error { return c.SetMute(ctx, muted) })
			},
		},
	)

	return root
}

// resolveConfig layers defaults, the config file and flags.
func resolveConfig(cmd *cobra.Command, opts *options) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	switch {
	case opts.configPath != "":
		cfg, err = config.LoadConfigFile(opts.configPath)
	default:
		cfg, _, err = config.Load()
	}
	if err != nil {
		return config.Config{}, err
	}

	var o config.FlagOverrides
	flags := cmd.Flags()
	if flags.Changed("system") {
		kind := config.BusSession
		if opts.system {
			kind = config.BusSystem
		}
		o.BusKind = &kind
	}
	if flags.Changed("address") {
		o.BusAddress = &opts.address
	}
	if flags.Changed("log-level") {
		o.LogLevel = &opts.logLevel
	}
	o.Apply(&cfg)

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func run(cmd *cobra.Command, opts *options, do func(context.Context, muteClient) error) error {
	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		return err
	}

	level, _ := logging.ParseLevel(cfg.Logging.Level)
	logger := logging.NewTextLogger(cmd.ErrOrStderr(), level)

	client, closeConn, err := connect(cfg.Bus)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeConn(); err != nil {
			logger.Debug("close bus connection", "error", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()

	logger.Debug("calling mute service", "command", cmd.Name(), "bus", cfg.Bus.Kind, "service", bus.ServiceName)
	// main reports the returned error.
	return do(ctx, client)
}
