package mover

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"pix/internal/config"
	"pix/internal/fileutil"
	"pix/internal/history"
	"pix/internal/logging"
)

const maxConcurrentRenames = 16

// Recorder persists move batches. *history.Store satisfies it.
type Recorder interface {
	RecordMove(ctx context.Context, batch *history.Batch) error
}

// Moved pairs a source with the path it now lives at.
type Moved struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Copied bool   `json:"copied,omitempty"`
}

// Result describes a fully successful move.
type Result struct {
	Destination string  `json:"destination"`
	Moved       int     `json:"moved"`
	Files       []Moved `json:"files"`
	BatchID     string  `json:"batch_id,omitempty"`
}

// Option configures a Mover.
type Option func(*Mover)

// WithRecorder records every batch to r.
func WithRecorder(r Recorder) Option {
	return func(m *Mover) {
		m.recorder = r
	}
}

// Mover renames files into subdirectories of the pictures root.
type Mover struct {
	root              string
	copyAcrossDevices bool
	recorder          Recorder
	logger            *slog.Logger
}

// New constructs a Mover rooted at cfg.Paths.PicturesDir.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Mover {
	m := &Mover{
		root:              cfg.Paths.PicturesDir,
		copyAcrossDevices: cfg.Move.CrossDeviceCopy,
		logger:            logging.NewComponentLogger(logger, "mover"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Destination resolves name against the pictures root. Nested names such as
// "2024/summer" are allowed; absolute names and names escaping the root are
// rejected with ErrInvalidDestination.
func (m *Mover) Destination(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name is empty", ErrInvalidDestination)
	}
	if filepath.IsAbs(name) || !filepath.IsLocal(name) {
		return "", fmt.Errorf("%w: %q must be a subdirectory name inside %s", ErrInvalidDestination, name, m.root)
	}
	return filepath.Join(m.root, name), nil
}

// Move creates <root>/<name> if needed and renames every source into it,
// keeping each file's base name. Renames run concurrently once the directory
// exists. When two sources share a base name only the first is moved; the
// rest fail with ErrDuplicateName. When any rename fails the returned error
// is a *MoveError; files that did move stay moved.
func (m *Mover) Move(ctx context.Context, name string, sources []string) (Result, error) {
	if len(sources) == 0 {
		return Result{}, ErrNoFilesSelected
	}
	dest, err := m.Destination(name)
	if err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	logger := logging.WithContext(ctx, m.logger)
	logger.Debug("moving files",
		logging.String("destination", dest),
		logging.Int("requested", len(sources)),
	)

	if err := os.MkdirAll(dest, 0o755); err != nil {
		mkdirErr := &MoveError{
			Destination: dest,
			Requested:   len(sources),
			Failed:      []FileError{{Target: dest, Err: fmt.Errorf("create destination: %w", err)}},
		}
		m.record(ctx, logger, dest, sources, nil, mkdirErr)
		return Result{}, mkdirErr
	}

	outcomes := m.renameAll(dest, sources)

	var (
		moved  []Moved
		failed []FileError
	)
	for _, outcome := range outcomes {
		if outcome.err != nil {
			failed = append(failed, FileError{Source: outcome.source, Target: outcome.target, Err: outcome.err})
			continue
		}
		moved = append(moved, Moved{Source: outcome.source, Target: outcome.target, Copied: outcome.copied})
	}

	if len(failed) > 0 {
		moveErr := &MoveError{Destination: dest, Requested: len(sources), Moved: moved, Failed: failed}
		for _, f := range failed {
			logger.Warn("file move failed",
				logging.String("source", f.Source),
				logging.String("target", f.Target),
				logging.Error(f.Err),
				logging.String(logging.FieldEventType, "move_file_failed"),
			)
		}
		m.record(ctx, logger, dest, sources, outcomes, moveErr)
		return Result{}, moveErr
	}

	result := Result{Destination: dest, Moved: len(moved), Files: moved}
	result.BatchID = m.record(ctx, logger, dest, sources, outcomes, nil)
	logger.Info("files moved",
		logging.String("destination", dest),
		logging.Int("moved", result.Moved),
	)
	return result, nil
}

type outcome struct {
	source string
	target string
	copied bool
	err    error
}

func (m *Mover) renameAll(dest string, sources []string) []outcome {
	outcomes := make([]outcome, len(sources))
	claimed := make(map[string]string, len(sources))
	var g errgroup.Group
	g.SetLimit(maxConcurrentRenames)
	for i, source := range sources {
		target := filepath.Join(dest, filepath.Base(source))
		outcomes[i] = outcome{source: source, target: target}
		if first, ok := claimed[target]; ok {
			outcomes[i].err = fmt.Errorf("%w: %s", ErrDuplicateName, first)
			continue
		}
		claimed[target] = source
		g.Go(func() error {
			copied, err := fileutil.MoveFile(source, target, m.copyAcrossDevices)
			outcomes[i].copied = copied
			outcomes[i].err = err
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

// record writes the batch to the ledger and returns its ID. Failures are
// logged and otherwise ignored.
func (m *Mover) record(ctx context.Context, logger *slog.Logger, dest string, sources []string, outcomes []outcome, moveErr *MoveError) string {
	if m.recorder == nil {
		return ""
	}
	batch := &history.Batch{Destination: dest, Requested: len(sources)}
	if moveErr != nil {
		batch.Error = moveErr.Error()
	}
	if outcomes == nil {
		for _, source := range sources {
			batch.Files = append(batch.Files, history.FileRecord{
				Source: source,
				Target: filepath.Join(dest, filepath.Base(source)),
				Error:  "not attempted",
			})
		}
	}
	for _, o := range outcomes {
		record := history.FileRecord{Source: o.source, Target: o.target, Copied: o.copied}
		if o.err != nil {
			record.Error = o.err.Error()
		} else {
			batch.Moved++
		}
		batch.Files = append(batch.Files, record)
	}
	if err := m.recorder.RecordMove(ctx, batch); err != nil {
		logger.Warn("move history not recorded",
			logging.Error(err),
			logging.String(logging.FieldEventType, "history_record_failed"),
			logging.String(logging.FieldErrorHint, "check state_dir permissions or delete history.db"),
		)
		return ""
	}
	return batch.ID
}
