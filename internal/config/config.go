package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/clipdeck/clipdeck/internal/app"
	"github.com/clipdeck/clipdeck/internal/placement"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	Flags   map[string]string
	Args    []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

const (
	envDBPath    = "CLIPDECK_DB"
	envWidth     = "CLIPDECK_WIDTH"
	envMaxHeight = "CLIPDECK_MAX_HEIGHT"
	envRowHeight = "CLIPDECK_ROW_HEIGHT"
	envPoll      = "CLIPDECK_POLL_MS"
	envAnchor    = "CLIPDECK_ANCHOR"
	envQuery     = "CLIPDECK_QUERY"
	envFooter    = "CLIPDECK_FOOTER"
	envVerbose   = "CLIPDECK_VERBOSE"
	envTrace     = "CLIPDECK_TRACE"
	envLogFile   = "CLIPDECK_LOG_FILE"
)

// Load parses configuration from CLI arguments and environment
// variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	fs := flag.NewFlagSet("clipdeck", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	db := fs.String("db", envOrDefault(env, envDBPath, ""), "path to the history database (defaults to the user data dir)")
	width := fs.Int("width", envOrInt(env, envWidth, 40), "popup width in cells")
	maxHeight := fs.Int("max-height", envOrInt(env, envMaxHeight, 20), "maximum popup height in rows")
	rowHeight := fs.Int("row-height", envOrInt(env, envRowHeight, 2), "item row height in rows")
	poll := fs.Int("poll", envOrInt(env, envPoll, 750), "clipboard poll interval in milliseconds")
	anchor := fs.String("anchor", envOrDefault(env, envAnchor, ""), "anchor rectangle as x,y,w,h in top-left-origin units (empty centers the popup)")
	query := fs.String("query", envOrDefault(env, envQuery, ""), "open with the history pre-filtered to fuzzy matches of this text")
	footer := fs.Bool("footer", envOrBool(env, envFooter, false), "enable footer hint row (disabled by default)")
	trace := fs.Bool("trace", envOrBool(env, envTrace, false), "enable verbose JSON trace logging")
	verbose := fs.Bool("verbose", envOrBool(env, envVerbose, false), "print success messages for actions")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, ""), "path to the log file")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *width <= 0 {
		return Config{}, fmt.Errorf("width must be > 0 (got %d)", *width)
	}
	if *maxHeight <= 0 {
		return Config{}, fmt.Errorf("max-height must be > 0 (got %d)", *maxHeight)
	}
	if *rowHeight <= 0 {
		return Config{}, fmt.Errorf("row-height must be > 0 (got %d)", *rowHeight)
	}
	if *poll <= 0 {
		return Config{}, fmt.Errorf("poll must be > 0 (got %d)", *poll)
	}
	anchorRect, haveAnchor, err := parseAnchor(*anchor)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		App: app.Config{
			DBPath:       *db,
			Width:        *width,
			MaxHeight:    *maxHeight,
			RowHeight:    *rowHeight,
			PollInterval: time.Duration(*poll) * time.Millisecond,
			Anchor:       anchorRect,
			HaveAnchor:   haveAnchor,
			Query:        *query,
			ShowFooter:   *footer,
			Verbose:      *verbose,
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		Flags: map[string]string{
			"db":        *db,
			"width":     strconv.Itoa(*width),
			"maxHeight": strconv.Itoa(*maxHeight),
			"rowHeight": strconv.Itoa(*rowHeight),
			"poll":      strconv.Itoa(*poll),
			"anchor":    *anchor,
			"query":     *query,
			"footer":    strconv.FormatBool(*footer),
			"trace":     strconv.FormatBool(*trace),
			"verbose":   strconv.FormatBool(*verbose),
			"logFile":   *logFile,
		},
		Args: append([]string(nil), args...),
	}

	return cfg, nil
}

func parseAnchor(value string) (placement.Rect, bool, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return placement.Rect{}, false, nil
	}
	parts := strings.Split(trimmed, ",")
	if len(parts) != 4 {
		return placement.Rect{}, false, fmt.Errorf("anchor must be x,y,w,h (got %q)", value)
	}
	nums := make([]float64, 4)
	for i, part := range parts {
		n, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return placement.Rect{}, false, fmt.Errorf("anchor component %q: %w", part, err)
		}
		nums[i] = n
	}
	return placement.Rect{X: nums[0], Y: nums[1], Width: nums[2], Height: nums[3]}, true, nil
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}
