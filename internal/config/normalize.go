package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizePicker()
	if err := c.normalizeFrames(); err != nil {
		return err
	}
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("PIX_PICTURES_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.PicturesDir = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Paths.PicturesDir) == "" {
		c.Paths.PicturesDir = defaultPicturesDir
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}

	var err error
	if c.Paths.PicturesDir, err = expandPath(strings.TrimSpace(c.Paths.PicturesDir)); err != nil {
		return fmt.Errorf("paths.pictures_dir: %w", err)
	}
	if c.Paths.StateDir, err = expandPath(strings.TrimSpace(c.Paths.StateDir)); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

// NormalizeOrder maps user-supplied picker order spellings, including the
// camelCase names addTime, createTime and modifiedTime, to canonical values.
// Unknown values are returned lowercased and trimmed so Validate can reject them.
func NormalizeOrder(value string) string {
	trimmed := strings.TrimSpace(value)
	switch strings.ToLower(strings.ReplaceAll(strings.ReplaceAll(trimmed, "_", ""), "-", "")) {
	case "":
		return defaultPickerOrder
	case "addtime", "added", "accessed":
		return OrderAddTime
	case "createtime", "created":
		return OrderCreateTime
	case "modifiedtime", "modified":
		return OrderModifiedTime
	default:
		return strings.ToLower(trimmed)
	}
}

func (c *Config) normalizePicker() {
	c.Picker.Order = NormalizeOrder(c.Picker.Order)
}

func (c *Config) normalizeFrames() error {
	c.Frames.FFmpeg = strings.TrimSpace(c.Frames.FFmpeg)
	if c.Frames.FFmpeg == "" {
		c.Frames.FFmpeg = defaultFFmpegBinary
	}
	if strings.ContainsRune(c.Frames.FFmpeg, os.PathSeparator) || strings.HasPrefix(c.Frames.FFmpeg, "~") {
		expanded, err := expandPath(c.Frames.FFmpeg)
		if err != nil {
			return fmt.Errorf("frames.ffmpeg: %w", err)
		}
		c.Frames.FFmpeg = expanded
	}

	paths := make([]string, 0, len(c.Frames.SearchPaths))
	seen := make(map[string]struct{}, len(c.Frames.SearchPaths))
	for _, dir := range c.Frames.SearchPaths {
		dir = strings.TrimSpace(dir)
		if dir == "" {
			continue
		}
		expanded, err := expandPath(dir)
		if err != nil {
			return fmt.Errorf("frames.search_paths: %w", err)
		}
		if _, ok := seen[expanded]; ok {
			continue
		}
		seen[expanded] = struct{}{}
		paths = append(paths, expanded)
	}
	c.Frames.SearchPaths = paths

	exts := make([]string, 0, len(c.Frames.Extensions))
	seenExt := make(map[string]struct{}, len(c.Frames.Extensions))
	for _, ext := range c.Frames.Extensions {
		normalized := strings.ToLower(strings.TrimSpace(ext))
		if normalized == "" {
			continue
		}
		if !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		if _, ok := seenExt[normalized]; ok {
			continue
		}
		seenExt[normalized] = struct{}{}
		exts = append(exts, normalized)
	}
	if len(exts) == 0 {
		exts = append(exts, defaultVideoExtensions...)
	}
	c.Frames.Extensions = exts
	return nil
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.NtfyTopic == "" {
		if value, ok := os.LookupEnv("PIX_NTFY_TOPIC"); ok {
			c.Notifications.NtfyTopic = strings.TrimSpace(value)
		}
	}
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
