package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"

	"github.com/spacemeshos/fixbin/command"
	"github.com/spacemeshos/fixbin/config"
	"github.com/spacemeshos/fixbin/logging"
)

// fixbin binary version.
// It should be passed during the build with '-ldflags "-X main.version="'.
var version = "unknown"

// fixbinMain is the true entry point for fixbin. This function is required
// since defers created in the top-level scope of a main method aren't
// executed if os.Exit() is called.
func fixbinMain(args []string, out io.Writer) error {
	var err error
	// Start with a default Config with sane settings
	cfg := config.DefaultConfig()
	// Pre-parse the command line to check for an alternative Config file
	cfg, err = config.ParseFlags(cfg, args)
	if err != nil {
		return err
	}
	// Load configuration file overwriting defaults with any specified options
	cfg, err = config.ReadConfigFile(cfg)
	if err != nil {
		return err
	}
	// Command line options must take precedence over the config file,
	// so parse them once more before setting up.
	cfg, err = config.ParseFlags(cfg, args)
	if err != nil {
		return err
	}
	cfg, err = config.SetupConfig(cfg)
	if err != nil {
		return err
	}

	logLevel := zap.InfoLevel
	if cfg.DebugLog {
		logLevel = zap.DebugLevel
	}
	logger := logging.New(logging.Options{
		Level:       logLevel,
		File:        cfg.LogFile(),
		MaxFileSize: cfg.MaxLogFileSize,
		MaxFiles:    cfg.MaxLogFiles,
		JSON:        cfg.JSONLog,
	})
	defer func() { _ = logger.Sync() }()

	env := &command.Env{
		Ctx:    logging.NewContext(context.Background(), logger),
		Config: cfg,
		Out:    out,
	}

	// The full parse executes the selected command. It writes the raw option
	// values into a copy so cfg keeps the paths SetupConfig expanded.
	parsed := *cfg
	parser := flags.NewParser(&parsed, flags.HelpFlag|flags.PassDoubleDash)
	if err := command.Register(parser, env); err != nil {
		return err
	}
	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		logger.Debug("running command",
			zap.String("version", version),
			zap.String("command", parser.Active.Name),
			zap.String("datadir", cfg.DataDir),
		)
		return cmd.Execute(args)
	}
	_, err = parser.ParseArgs(args)
	return err
}

func main() {
	// Call the "real" main in a nested manner so the defers will properly
	// be executed in the case of a graceful shutdown.
	if err := fixbinMain(os.Args[1:], os.Stdout); err != nil {
		// Help is not a failure.
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			_, _ = fmt.Fprintln(os.Stdout, err)
			return
		}
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
