package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"redis_walkthrough/internal/walkthrough"
	"redis_walkthrough/src"
	"redis_walkthrough/src/logger"
	"redis_walkthrough/src/storage"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Process exit codes
const (
	ExitOK          = 0
	ExitError       = 1
	ExitInterrupted = 130
)

// Env is what a walkthrough builder gets to work with
type Env struct {
	Config  *src.Config
	Redis   *redis.Client
	Console *walkthrough.Console
	Logger  zerolog.Logger
}

// Builder constructs the walkthrough a binary runs
type Builder func(env Env) (walkthrough.Walkthrough, error)

// Main loads configuration, connects to the store and runs the walkthrough
// built by build on the terminal. It returns the process exit code.
func Main(name string, build Builder) int {
	cfg, envLoaded, err := src.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return ExitError
	}

	if err := logger.InitLogger(cfg.LogConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return ExitError
	}
	logger.Logger = logger.Logger.With().Str("walkthrough", name).Logger()
	if !envLoaded {
		logger.Debug().Msg("No .env file found, using process environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	// A second interrupt kills the process even if a store call is blocked.
	go func() {
		<-ctx.Done()
		stop()
	}()

	err = Run(ctx, Env{Config: cfg, Logger: *logger.GetLogger()}, os.Stdin, os.Stdout, build)
	code := ExitCode(err)
	switch {
	case code == ExitInterrupted:
		fmt.Fprintln(os.Stdout, "\nInterrupted. Exiting.")
		logger.Info().Msg("Walkthrough interrupted by operator")
	case errors.Is(err, walkthrough.ErrInputClosed):
		logger.Warn().Msg("Input closed before the walkthrough finished")
	case code == ExitError:
		logger.Error().Err(err).Msg("Walkthrough failed")
	}
	return code
}

// Run opens the store connection, builds the walkthrough and drives it with
// a console reading in and writing out. env.Config and env.Logger must be
// set; the connection and console are filled in here.
func Run(ctx context.Context, env Env, in io.Reader, out io.Writer, build Builder) error {
	store, err := storage.NewRedisStorage(ctx, env.Config.RedisConfig)
	if err != nil {
		return err
	}
	defer store.Close()
	env.Logger.Info().Str("addr", store.Addr()).Msg("Connected to Redis")

	env.Redis = store.Client()
	env.Console = walkthrough.NewConsole(in, out, env.Config.WalkthroughConfig.ClearScreen)

	wt, err := build(env)
	if err != nil {
		return fmt.Errorf("failed to build walkthrough: %w", err)
	}

	runner := walkthrough.NewRunner(out, env.Console, walkthrough.WithLogger(env.Logger))
	return runner.Run(ctx, wt)
}

// ExitCode maps the outcome of Run to a process exit code
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	default:
		return ExitError
	}
}
