package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bodul/xwedit/internal/hints"
	"github.com/bodul/xwedit/internal/xword"
)

func newRootCommand() *cobra.Command {
	cfg := configFromEnv()

	cmd := &cobra.Command{
		Use:          "xwedit",
		Short:        "Crossword grid editor",
		Long:         "Edit crossword grids collaboratively, with clue hints from a local corpus and Gemini.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(cmd.ErrOrStderr(), cfg.LogFormat, cfg.Verbose)
		},
	}

	cmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "debug logging")
	cmd.PersistentFlags().StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format (text|json)")

	cmd.AddCommand(newServeCommand(&cfg))
	cmd.AddCommand(newDemoCommand())
	cmd.AddCommand(newHintsCommand(&cfg))

	return cmd
}

func newServeCommand(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP editor service",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, *cfg)
		},
	}
	cmd.Flags().StringVar(&cfg.Port, "port", cfg.Port, "listen port (PORT)")
	cmd.Flags().StringVar(&cfg.ProjectID, "project", cfg.ProjectID, "GCP project for Gemini hints (GCP_PROJECT_ID)")
	cmd.Flags().StringVar(&cfg.Region, "region", cfg.Region, "GCP region (GCP_REGION)")
	cmd.Flags().StringVar(&cfg.HintsDB, "hints-db", cfg.HintsDB, "SQLite clue corpus path (XWEDIT_HINTS_DB)")
	cmd.Flags().StringVar(&cfg.Corpus, "corpus", cfg.Corpus, "YAML corpus files to import, e.g. 'corpus/**/*.yaml' (XWEDIT_CORPUS)")
	cmd.Flags().BoolVar(&cfg.Watch, "watch", false, "re-import corpus files when they change")
	return cmd
}

func serve(ctx context.Context, cfg Config) error {
	store, err := hints.Open(cfg.HintsDB)
	if err != nil {
		return err
	}
	defer store.Close()

	if cfg.Corpus != "" {
		stats, err := hints.Import(ctx, store, cfg.Corpus)
		if err != nil {
			return fmt.Errorf("import corpus: %w", err)
		}
		slog.Info("corpus imported", "files", stats.Files, "words", stats.Words, "clues", stats.Clues)

		if cfg.Watch {
			w, err := hints.NewWatcher(store, cfg.Corpus)
			if err != nil {
				return fmt.Errorf("watch corpus: %w", err)
			}
			go w.Run(ctx)
		}
	}

	sources := []HintSource{store}
	if cfg.ProjectID != "" {
		gemini, err := NewGeminiClient(ctx, cfg.ProjectID, cfg.Region)
		if err != nil {
			return fmt.Errorf("init gemini: %w", err)
		}
		defer gemini.Close()
		sources = append(sources, gemini)
		slog.Info("gemini client ready", "project", cfg.ProjectID)
	} else {
		slog.Info("GCP_PROJECT_ID not set, gemini hints disabled")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           NewServer(NewStore(), sources...),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		slog.Info("server started", "addr", "http://localhost:"+cfg.Port)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	slog.Info("server stopped")
	return nil
}

func newDemoCommand() *cobra.Command {
	var size int
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Fill a board with the alphabet, block a cell and dump the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := runDemo(size)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().IntVar(&size, "size", 5, "board side")
	return cmd
}

// runDemo fills a size x size board column by column with A, B, C...,
// blocks (1, 1) and dumps the board.
func runDemo(size int) (string, error) {
	xw, err := xword.New(size, size)
	if err != nil {
		return "", err
	}
	for x := range size {
		for y := range size {
			v := xword.Value((size*x+y)%26) + xword.A
			if err := xw.Mutate(xword.Position{X: x, Y: y}, v); err != nil {
				return "", err
			}
		}
	}
	if size > 1 {
		if err := xw.Mutate(xword.Position{X: 1, Y: 1}, xword.Blocked); err != nil {
			return "", err
		}
	}
	if err := xw.Check(); err != nil {
		return "", err
	}
	return xw.Dump(), nil
}

func newHintsCommand(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hints",
		Short: "Manage the clue corpus",
	}
	cmd.PersistentFlags().StringVar(&cfg.HintsDB, "hints-db", cfg.HintsDB, "SQLite clue corpus path (XWEDIT_HINTS_DB)")
	cmd.AddCommand(newHintsImportCommand(cfg))
	cmd.AddCommand(newHintsLookupCommand(cfg))
	return cmd
}

func newHintsImportCommand(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "import <pattern>...",
		Short: "Import YAML corpus files matching the given patterns",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := hints.Open(cfg.HintsDB)
			if err != nil {
				return err
			}
			defer store.Close()

			stats, err := hints.Import(cmd.Context(), store, args...)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d words, %d clues from %d files\n",
				stats.Words, stats.Clues, stats.Files)
			return nil
		},
	}
}

func newHintsLookupCommand(cfg *Config) *cobra.Command {
	var limit int
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "lookup <pattern>",
		Short: "List corpus words matching a pattern such as H?L?O",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := hints.Open(cfg.HintsDB)
			if err != nil {
				return err
			}
			defer store.Close()

			found, err := store.Lookup(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(found)
			}
			for _, h := range found {
				fmt.Fprintln(out, h.Word)
				for _, c := range h.Clues {
					fmt.Fprintf(out, "\t%s\n", c.Text)
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", hints.DefaultLimit, "maximum number of words")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
