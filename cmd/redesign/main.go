package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"roomMakerAi/internal/bootstrap"
	"roomMakerAi/internal/config"
	"roomMakerAi/internal/design"
	"roomMakerAi/internal/intake"
	"roomMakerAi/internal/llm"
	"roomMakerAi/internal/logging"
	"roomMakerAi/internal/redesign"
	"roomMakerAi/internal/session"
	"roomMakerAi/internal/styles"
)

var version = "dev"

// App carries the process dependencies so tests can swap them.
type App struct {
	Out          io.Writer
	Err          io.Writer
	LoadConfig   func(path string, overrides map[string]any) (config.Config, error)
	NewGenerator func(ctx context.Context, cfg config.Config, logger *zap.Logger) (session.Generator, error)
}

type options struct {
	style      string
	outDir     string
	asJSON     bool
	model      string
	configPath string
	offline    bool
	listStyles bool
	verbose    bool
}

func DefaultApp() *App {
	return &App{
		Out:        os.Stdout,
		Err:        os.Stderr,
		LoadConfig: config.LoadWithOverrides,
		NewGenerator: func(ctx context.Context, cfg config.Config, logger *zap.Logger) (session.Generator, error) {
			components, err := bootstrap.Build(ctx, cfg, logger)
			if err != nil {
				return nil, err
			}
			return components.Orchestrator, nil
		},
	}
}

func main() {
	if err := newRootCmd(DefaultApp()).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(app *App) *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "redesign <image>",
		Short: "Redesign a room photo in a decorating style",
		Long: `redesign sends a room photo to the generative provider and prints design ideas
next to a newly rendered image of the room.

Examples:
  redesign living-room.jpg --style Japandi
  redesign bedroom.png --style "Mid-Century Modern" --out ./renders --json
  redesign --list-styles`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if opts.listStyles {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.listStyles {
				return listStyles(app)
			}
			err := runRedesign(cmd.Context(), app, opts, args[0])
			if err != nil {
				fmt.Fprintf(app.Err, "Error: %v\n", err)
			}
			return err
		},
	}
	cmd.SetOut(app.Out)
	cmd.SetErr(app.Err)

	cmd.Flags().StringVarP(&opts.style, "style", "s", "", "target style (see --list-styles)")
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", "", "directory to write the render and the ideas JSON")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the design ideas as JSON")
	cmd.Flags().StringVarP(&opts.model, "model", "m", "", "override the design model for this run")
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "config.json", "config file")
	cmd.Flags().BoolVar(&opts.offline, "offline", false, "use the offline provider")
	cmd.Flags().BoolVar(&opts.listStyles, "list-styles", false, "list the available styles")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	return cmd
}

func listStyles(app *App) error {
	for _, style := range styles.All() {
		fmt.Fprintf(app.Out, "%-20s %s\n", style.Name, strings.Join(style.Palette, " "))
	}
	return nil
}

func runRedesign(ctx context.Context, app *App, opts *options, imagePath string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	style, ok := styles.Lookup(opts.style)
	if !ok {
		if strings.TrimSpace(opts.style) == "" {
			return redesign.ErrPrecondition
		}
		return fmt.Errorf("unknown style %q: available styles: %s", opts.style, strings.Join(styles.Names(), ", "))
	}

	file, err := os.Open(imagePath)
	if err != nil {
		return fmt.Errorf("%w: %v", intake.ErrRead, err)
	}
	upload, err := intake.Ingest(file, imagePath, "")
	file.Close()
	if err != nil {
		return err
	}

	overrides := map[string]any{}
	if opts.offline {
		overrides["ai.backend"] = config.BackendOffline
	}
	cfg, err := app.LoadConfig(opts.configPath, overrides)
	if err != nil {
		return err
	}

	level := cfg.LogLevel
	if opts.verbose {
		level = "debug"
	} else if !cfg.IsProduction() {
		level = "warn"
	}
	logger, err := logging.New(cfg.Env, level)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	gen, err := app.NewGenerator(ctx, cfg, logger)
	if err != nil {
		return err
	}

	ctx = llm.WithModel(ctx, opts.model)
	result, err := gen.Generate(ctx, redesign.Request{
		Image:    upload.Data,
		MIMEType: upload.MIMEType,
		Style:    style.Name,
	})
	if err != nil {
		logger.Debug("redesign failed", zap.Error(err))
		return errors.New(redesign.UserMessage(err))
	}

	if opts.asJSON {
		enc := json.NewEncoder(app.Out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result.Ideas); err != nil {
			return err
		}
	} else if err := design.WriteSummary(app.Out, result.Ideas); err != nil {
		return err
	}

	if opts.outDir == "" {
		return nil
	}
	paths, err := writeOutputs(opts.outDir, style.Name, result)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintf(app.Err, "wrote %s\n", p)
	}
	return nil
}

func writeOutputs(dir, style string, result redesign.Result) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	slug := strings.ToLower(strings.ReplaceAll(style, " ", "-"))

	ext := ".jpg"
	if result.Image.MIMEType == "image/png" {
		ext = ".png"
	}
	renderPath := filepath.Join(dir, "render-"+slug+ext)
	if err := os.WriteFile(renderPath, result.Image.Data, 0o644); err != nil {
		return nil, fmt.Errorf("write render: %w", err)
	}

	doc, err := json.MarshalIndent(result.Ideas, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode ideas: %w", err)
	}
	ideasPath := filepath.Join(dir, "ideas-"+slug+".json")
	if err := os.WriteFile(ideasPath, doc, 0o644); err != nil {
		return nil, fmt.Errorf("write ideas: %w", err)
	}
	return []string{renderPath, ideasPath}, nil
}
