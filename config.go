package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Config holds service settings. Environment variables provide defaults
// that command-line flags override.
type Config struct {
	Port      string
	ProjectID string // GCP_PROJECT_ID; empty disables Gemini hints
	Region    string
	HintsDB   string // empty keeps the corpus in memory
	Corpus    string // doublestar pattern of YAML corpus files
	Watch     bool
	LogFormat string
	Verbose   bool
}

func configFromEnv() Config {
	cfg := Config{
		Port:      os.Getenv("PORT"),
		ProjectID: os.Getenv("GCP_PROJECT_ID"),
		Region:    os.Getenv("GCP_REGION"),
		HintsDB:   os.Getenv("XWEDIT_HINTS_DB"),
		Corpus:    os.Getenv("XWEDIT_CORPUS"),
		LogFormat: "text",
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	return cfg
}

// setupLogging installs the default slog logger.
func setupLogging(w io.Writer, format string, verbose bool) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch format {
	case "text":
		handler = slog.NewTextHandler(w, opts)
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		return fmt.Errorf("invalid log format %q: must be text or json", format)
	}
	slog.SetDefault(slog.New(handler))
	return nil
}
