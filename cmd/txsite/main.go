package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"txsite/internal/builder"
	"txsite/internal/config"
	"txsite/internal/metrics"
	"txsite/internal/scaffold"
	"txsite/internal/server"
)

// CLI is the command line of txsite. Flags left empty fall back to the config file.
type CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"txsite.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Build BuildCmd `cmd:"" help:"Apply the site template to every fragment of a content package"`
	Serve ServeCmd `cmd:"" help:"Build, serve the output and rebuild on changes"`
	New   NewCmd   `cmd:"" help:"Scaffold a new site or content page"`
}

// PackageFlags override the package settings of the config file.
type PackageFlags struct {
	Type     string `short:"t" help:"Resource type (bible, ulb, udb, reg, obs, ta, ...)"`
	Source   string `short:"s" help:"Source directory of fragments"`
	Output   string `short:"o" help:"Output directory"`
	Template string `help:"Site template file"`
	Unsafe   bool   `help:"Disable HTML sanitisation of converted markdown"`
}

func (f PackageFlags) apply(cfg *config.Config) {
	if f.Type != "" {
		cfg.ResourceType = f.Type
	}
	if f.Source != "" {
		cfg.Source = f.Source
	}
	if f.Output != "" {
		cfg.Output = f.Output
	}
	if f.Template != "" {
		cfg.Template = f.Template
	}
	if f.Unsafe {
		cfg.Unsafe = true
	}
}

type BuildCmd struct {
	PackageFlags
	Clean bool `help:"Empty the output directory first"`
}

func (c *BuildCmd) Run(cli *CLI, logger *slog.Logger) error {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return err
	}
	c.apply(&cfg)

	start := time.Now()
	n, err := builder.Build(cfg, builder.BuildOptions{
		CleanDestination: cfg.Clean || c.Clean,
		Unsafe:           cfg.Unsafe,
		Debug:            cli.Verbose,
		Logger:           logger,
	})
	if err != nil {
		return fmt.Errorf("site generation failed: %w", err)
	}
	logger.Info("Build successful", "pages", n, "output", cfg.Output, "duration", time.Since(start).Round(time.Millisecond))
	return nil
}

type ServeCmd struct {
	PackageFlags
	Port int `short:"p" help:"Port for the preview server"`
}

func (c *ServeCmd) Run(cli *CLI, logger *slog.Logger) error {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return err
	}
	c.apply(&cfg)
	if c.Port != 0 {
		cfg.Port = c.Port
	}

	reg := prom.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(reg)
	build := func(clean bool) error {
		n, err := builder.Build(cfg, builder.BuildOptions{
			CleanDestination: clean,
			Unsafe:           cfg.Unsafe,
			Debug:            cli.Verbose,
			Logger:           logger,
			Recorder:         recorder,
		})
		if err != nil {
			return err
		}
		logger.Info("Pages generated", "pages", n)
		return nil
	}
	return server.Run(server.Options{
		Port:       cfg.Port,
		OutputDir:  cfg.Output,
		WatchPaths: []string{cfg.Source, cfg.Template, cfg.Static, cli.Config},
		Metrics:    metrics.HTTPHandler(reg),
		Logger:     logger,
	}, build)
}

type NewCmd struct {
	Site    NewSiteCmd    `cmd:"" help:"Create a new site scaffold"`
	Content NewContentCmd `cmd:"" help:"Create a markdown page from the archetype"`
}

type NewSiteCmd struct {
	Dir  string `arg:"" help:"Directory to create the site in"`
	Type string `short:"t" help:"Resource type of the sample package" default:"bible"`
}

func (c *NewSiteCmd) Run(logger *slog.Logger) error {
	return scaffold.CreateNewSite(c.Dir, c.Type, logger)
}

type NewContentCmd struct {
	Title string `arg:"" help:"Title of the new page"`
}

func (c *NewContentCmd) Run(cli *CLI, logger *slog.Logger) error {
	path, err := scaffold.CreateNewContent(c.Title, cli.Config)
	if err != nil {
		return err
	}
	logger.Info("Created", "path", path)
	return nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("txsite"),
		kong.Description("Template converted Bible, OBS and Translation Academy content into a navigable site."),
		kong.UsageOnError(),
	)

	logLevel := slog.LevelInfo
	if cli.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	ctx.Bind(&cli, logger)
	if err := ctx.Run(); err != nil {
		logger.Error("Operation failed", "error", err)
		os.Exit(1)
	}
}
