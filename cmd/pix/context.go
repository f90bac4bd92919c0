package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"pix/internal/config"
	"pix/internal/frames"
	"pix/internal/history"
	"pix/internal/library"
	"pix/internal/logging"
	"pix/internal/mover"
	"pix/internal/notifications"
	"pix/internal/preflight"
)

const lockRetryDelay = 100 * time.Millisecond

var lockTimeout = 10 * time.Second

type commandContext struct {
	configFlag *string

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.configPath = resolved
		c.configExists = exists
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

func (c *commandContext) baseLogger() *slog.Logger {
	c.loggerOnce.Do(func() {
		logger, err := logging.NewFromConfig(c.configValue())
		if err != nil {
			fallback, fallbackErr := logging.New(logging.Options{Level: "info"})
			if fallbackErr != nil {
				c.logger = logging.NewNop()
				return
			}
			fallback.Warn("log file unavailable; logging to stderr only", logging.Error(err))
			logger = fallback
		}
		c.logger = logger
	})
	return c.logger
}

// invocation carries everything one command run needs after config loading.
type invocation struct {
	ctx      context.Context
	cmd      *cobra.Command
	cfg      *config.Config
	logger   *slog.Logger
	notifier notifications.Service
}

// begin tags the command's context with a fresh correlation ID and builds
// the logger and notifier for this run.
func (c *commandContext) begin(cmd *cobra.Command) (*invocation, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.WithCommand(ctx, strings.TrimPrefix(cmd.CommandPath(), cmd.Root().Name()+" "))
	ctx = logging.WithCorrelationID(ctx, uuid.NewString())
	return &invocation{
		ctx:      ctx,
		cmd:      cmd,
		cfg:      cfg,
		logger:   logging.WithContext(ctx, c.baseLogger()),
		notifier: notifications.NewService(cfg),
	}, nil
}

// lock takes the state directory lock shared by mutating commands.
func (inv *invocation) lock() (func(), error) {
	path := inv.cfg.LockPath()
	fileLock := flock.New(path)

	lockCtx, cancel := context.WithTimeout(inv.ctx, lockTimeout)
	defer cancel()

	ok, err := fileLock.TryLockContext(lockCtx, lockRetryDelay)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("another pix command is still running (lock %s held for %s)", path, lockTimeout)
		}
		return nil, fmt.Errorf("acquire lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("another pix command is still running (lock %s)", path)
	}
	return func() {
		if err := fileLock.Unlock(); err != nil {
			inv.logger.Warn("failed to release command lock", logging.String("lock", path), logging.Error(err))
		}
	}, nil
}

// openHistory returns nil when the ledger is disabled or cannot be opened.
// A broken ledger never blocks a move.
func (inv *invocation) openHistory() *history.Store {
	if !inv.cfg.History.Enabled {
		return nil
	}
	store, err := history.Open(inv.cfg)
	if err != nil {
		inv.logger.Warn("move history unavailable",
			logging.String(logging.FieldEventType, "history_open_failed"),
			logging.String(logging.FieldErrorHint, "delete the history database to recreate it"),
			logging.Error(err),
		)
		return nil
	}
	return store
}

// requirePicturesAccess prints the remedy for an inaccessible pictures root
// and returns the matching *library.AccessError. With allowMissing a root
// that does not exist yet passes; the mover creates it.
func (inv *invocation) requirePicturesAccess(allowMissing bool) error {
	access := preflight.CheckPicturesAccess(inv.cfg.Paths.PicturesDir)
	if access.Granted || (allowMissing && errors.Is(access.Err, fs.ErrNotExist)) {
		return nil
	}
	printRemedy(inv.cmd.ErrOrStderr(), access.Remedy)
	return access.AccessError()
}

func printRemedy(w io.Writer, remedy *preflight.Remedy) {
	if remedy == nil {
		return
	}
	fmt.Fprintln(w, remedy.Message)
	if remedy.SettingsURL != "" {
		fmt.Fprintf(w, "Open settings: %s\n", remedy.SettingsURL)
	}
}

// fail is the single failure boundary for commands: the error is logged
// once, pushed as one notification, and returned for main to print.
func (inv *invocation) fail(label string, err error) error {
	if err == nil || errors.Is(err, context.Canceled) {
		return err
	}
	eventType, hint := classifyFailure(err)
	logging.ErrorWithContext(inv.logger, label+" failed", eventType, hint, logging.Error(err))
	if notifyErr := inv.notifier.NotifyError(inv.ctx, err, label); notifyErr != nil {
		inv.logger.Warn("error notification failed", logging.Error(notifyErr))
	}
	return err
}

func classifyFailure(err error) (string, string) {
	var accessErr *library.AccessError
	var moveErr *mover.MoveError
	var batchErr *frames.BatchError
	switch {
	case errors.As(err, &accessErr):
		return "pictures_access_denied", "grant access to the pictures folder or fix paths.pictures_dir"
	case errors.Is(err, mover.ErrNoFilesSelected):
		return "no_files_selected", "pass files as arguments or pipe paths with --stdin"
	case errors.Is(err, mover.ErrInvalidDestination):
		return "invalid_destination", "use a folder name relative to the pictures root"
	case errors.As(err, &moveErr):
		return "move_failed", "files already moved stay in place; check the listed paths"
	case errors.Is(err, frames.ErrToolNotFound):
		return "ffmpeg_not_found", "install ffmpeg (brew install ffmpeg) or set frames.ffmpeg"
	case errors.Is(err, frames.ErrNoVideos):
		return "no_videos_selected", "select files matching frames.extensions"
	case errors.As(err, &batchErr):
		return "frame_extraction_failed", "run ffmpeg on the failing video to inspect it"
	default:
		return "command_failed", ""
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
