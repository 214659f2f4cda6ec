package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/spachava753/imsgwatch/internal/config"
	"github.com/spachava753/imsgwatch/internal/logging"
	"github.com/spachava753/imsgwatch/macos/messages"
	"github.com/spachava753/imsgwatch/watch"
)

var version = "dev"

// errReported marks failures already explained to the user on stdout.
var errReported = errors.New("imsgwatch: failure already reported")

func main() {
	if err := rootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		if !errors.Is(err, errReported) {
			slog.Error("command failed", "err", err)
		}
		os.Exit(1)
	}
}

type options struct {
	configPath string
	database   string
	interval   time.Duration
	textLimit  int
	color      string
	startRowID int64
	once       bool
	debug      bool
}

func rootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "imsgwatch",
		Short: "Print new iMessage/SMS messages as they arrive",
		Long: `Watch the local Messages database and print every new text message.

imsgwatch records the newest message ROWID at startup and then polls
~/Library/Messages/chat.db for rows beyond it. Attachments, reactions and
other rows without text are skipped. The position is kept in memory only.

Reading chat.db requires Full Disk Access for the terminal running imsgwatch.

Example:
  imsgwatch
  imsgwatch --interval 500ms --text-limit 200
  imsgwatch --start-rowid 120000 --once`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, stdout, stderr)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "config file (default ~/.config/imsgwatch/config.toml)")
	cmd.Flags().StringVar(&opts.database, "db", "", "path to chat.db (default ~/Library/Messages/chat.db)")
	cmd.Flags().DurationVar(&opts.interval, "interval", watch.DefaultInterval, "wait between polls")
	cmd.Flags().IntVar(&opts.textLimit, "text-limit", watch.DefaultTextLimit, "characters of message text to print")
	cmd.Flags().StringVar(&opts.color, "color", string(watch.ColorAuto), "colorize output (auto|always|never)")
	cmd.Flags().Int64Var(&opts.startRowID, "start-rowid", 0, "report messages after this ROWID instead of the latest")
	cmd.Flags().BoolVar(&opts.once, "once", false, "poll a single time and exit")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "enable debug logging")
	return cmd
}

func run(cmd *cobra.Command, opts *options, stdout, stderr io.Writer) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.Database = opts.database
	}
	if flags.Changed("interval") {
		cfg.PollInterval = opts.interval
	}
	if flags.Changed("text-limit") {
		cfg.TextLimit = opts.textLimit
	}
	if flags.Changed("color") {
		cfg.Color = opts.color
	}
	if opts.debug {
		cfg.LogLevel = logging.LevelDebug
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := logging.Configure(stderr, cfg.LogLevel); err != nil {
		return err
	}
	colorMode, err := watch.ParseColorMode(cfg.Color)
	if err != nil {
		return err
	}
	console := watch.NewConsole(stdout, watch.WithTextLimit(cfg.TextLimit), watch.WithColor(colorMode))

	source := messages.NewSource(cfg.Database)
	if err := source.Check(); err != nil {
		if errors.Is(err, messages.ErrDatabaseNotFound) {
			if perr := console.MissingDatabase(source.Path()); perr != nil {
				return perr
			}
			return errReported
		}
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pollerOpts := []watch.Option{
		watch.WithInterval(cfg.PollInterval),
		watch.WithLogger(slog.Default()),
	}
	if flags.Changed("start-rowid") {
		pollerOpts = append(pollerOpts, watch.WithStartRowID(opts.startRowID))
	}
	poller := watch.NewPoller(source, console, pollerOpts...)
	if err := poller.Init(ctx); err != nil {
		if ctx.Err() != nil {
			return console.Stopped()
		}
		return err
	}
	if err := console.Banner(source.Path(), poller.Interval(), poller.Cursor()); err != nil {
		return err
	}
	slog.Debug("watching", "db", source.Path(), "interval", poller.Interval(), "cursor", poller.Cursor())

	if opts.once {
		n, err := poller.Poll(ctx)
		if err != nil {
			return err
		}
		slog.Debug("single poll complete", "emitted", n, "cursor", poller.Cursor())
		return nil
	}

	if err := poller.Run(ctx); err != nil {
		return fmt.Errorf("imsgwatch: %w", err)
	}
	return console.Stopped()
}
