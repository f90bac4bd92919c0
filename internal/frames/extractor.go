package frames

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"

	"pix/internal/config"
	"pix/internal/deps"
	"pix/internal/logging"
)

var commandContext = exec.CommandContext

const outputTailBytes = 512

// Frames lists the images written for one video.
type Frames struct {
	Video string `json:"video"`
	First string `json:"first"`
	Last  string `json:"last"`
}

// BatchResult summarizes ExtractAll.
type BatchResult struct {
	Extracted []Frames           `json:"extracted"`
	Skipped   []string           `json:"skipped,omitempty"`
	Failed    []*ExtractionError `json:"-"`
}

// Processed returns the number of videos ffmpeg was run against.
func (b BatchResult) Processed() int {
	return len(b.Extracted) + len(b.Failed)
}

// Progress is reported before and after each video in a batch.
type Progress struct {
	Index int
	Total int
	Video string
	Done  bool
	Err   error
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithProgress registers a callback invoked around each video.
func WithProgress(fn func(Progress)) Option {
	return func(e *Extractor) {
		e.progress = fn
	}
}

// Extractor runs ffmpeg against video files.
type Extractor struct {
	binary      string
	searchPaths []string
	extensions  map[string]struct{}
	progress    func(Progress)
	logger      *slog.Logger
}

// New resolves ffmpeg on the configured search path. A missing binary yields
// an error wrapping ErrToolNotFound.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Extractor, error) {
	binary, err := deps.Resolve(cfg.FFmpegBinary(), cfg.Frames.SearchPaths)
	if err != nil {
		return nil, fmt.Errorf("%w: install ffmpeg (brew install ffmpeg) or set frames.ffmpeg: %v", ErrToolNotFound, err)
	}
	extensions := make(map[string]struct{}, len(cfg.Frames.Extensions))
	for _, ext := range cfg.Frames.Extensions {
		extensions[strings.ToLower(ext)] = struct{}{}
	}
	e := &Extractor{
		binary:      binary,
		searchPaths: append([]string(nil), cfg.Frames.SearchPaths...),
		extensions:  extensions,
		logger:      logging.NewComponentLogger(logger, "frames"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Binary returns the resolved ffmpeg path.
func (e *Extractor) Binary() string { return e.binary }

// IsVideo reports whether path has one of the configured video extensions.
func (e *Extractor) IsVideo(path string) bool {
	_, ok := e.extensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// OutputPaths returns the first and last frame paths for video.
func OutputPaths(video string) (string, string) {
	dir := filepath.Dir(video)
	base := filepath.Base(video)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		stem = base
	}
	return filepath.Join(dir, stem+"-first.png"), filepath.Join(dir, stem+"-last.png")
}

// Extract writes the first and last frame of video. Existing outputs are
// overwritten.
func (e *Extractor) Extract(ctx context.Context, video string) (Frames, error) {
	first, last := OutputPaths(video)
	result := Frames{Video: video, First: first, Last: last}

	firstArgs := []string{
		"-hide_banner",
		"-v", "error",
		"-y",
		"-i", video,
		"-frames:v", "1",
		"-update", "1",
		"-q:v", "1",
		first,
	}
	if err := e.run(ctx, video, "first", firstArgs); err != nil {
		return result, err
	}

	// -sseof -1 decodes the final second; -update 1 keeps overwriting the
	// same image so the last decoded frame remains.
	lastArgs := []string{
		"-hide_banner",
		"-v", "error",
		"-y",
		"-sseof", "-1",
		"-i", video,
		"-update", "1",
		"-q:v", "1",
		last,
	}
	if err := e.run(ctx, video, "last", lastArgs); err != nil {
		return result, err
	}
	return result, nil
}

// ExtractAll processes every supported video in paths, serially. Unsupported
// paths are skipped. Per-video failures are collected in the result and
// returned together as a *BatchError; the remaining videos still run.
func (e *Extractor) ExtractAll(ctx context.Context, paths []string) (BatchResult, error) {
	var result BatchResult
	videos := make([]string, 0, len(paths))
	for _, path := range paths {
		if e.IsVideo(path) {
			videos = append(videos, path)
			continue
		}
		result.Skipped = append(result.Skipped, path)
	}
	if len(videos) == 0 {
		return result, ErrNoVideos
	}

	logger := logging.WithContext(ctx, e.logger)
	if len(result.Skipped) > 0 {
		logger.Info("skipping non-video files", logging.Int("skipped", len(result.Skipped)))
	}

	for i, video := range videos {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		e.report(Progress{Index: i, Total: len(videos), Video: video})

		frames, err := e.Extract(ctx, video)
		if err != nil {
			var extractionErr *ExtractionError
			if !errors.As(err, &extractionErr) {
				extractionErr = &ExtractionError{Video: video, Err: err}
			}
			result.Failed = append(result.Failed, extractionErr)
			logger.Warn("frame extraction failed",
				logging.String("video", video),
				logging.Error(err),
				logging.String(logging.FieldEventType, "frame_extraction_failed"),
			)
			e.report(Progress{Index: i, Total: len(videos), Video: video, Done: true, Err: err})
			continue
		}
		result.Extracted = append(result.Extracted, frames)
		logger.Info("frames extracted",
			logging.String("video", video),
			logging.String("first", frames.First),
			logging.String("last", frames.Last),
		)
		e.report(Progress{Index: i, Total: len(videos), Video: video, Done: true})
	}

	if len(result.Failed) > 0 {
		return result, &BatchError{Total: len(videos), Failed: result.Failed}
	}
	return result, nil
}

func (e *Extractor) run(ctx context.Context, video, frame string, args []string) error {
	cmd := commandContext(ctx, e.binary, args...) //nolint:gosec
	cmd.Env = deps.Environ(e.searchPaths)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return &ExtractionError{Video: video, Frame: frame, Output: tail(output), Err: err}
	}
	return nil
}

func (e *Extractor) report(p Progress) {
	if e.progress != nil {
		e.progress(p)
	}
}

func tail(output []byte) string {
	text := strings.TrimSpace(string(output))
	if len(text) <= outputTailBytes {
		return text
	}
	return "..." + text[len(text)-outputTailBytes:]
}
