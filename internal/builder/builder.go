package builder

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"txsite/internal/config"
	"txsite/internal/metrics"
	"txsite/internal/templater"
	"txsite/internal/util"
)

// BuildOptions controls a build. Debug keeps the staging directory of
// converted fragments for inspection.
type BuildOptions struct {
	CleanDestination bool
	Unsafe           bool
	Debug            bool
	Logger           *slog.Logger
	Recorder         metrics.Recorder
}

// Build stages the content package, applies the site template to every
// fragment and copies static assets. It returns the number of pages written.
func Build(cfg config.Config, opts BuildOptions) (int, error) {
	if err := cfg.Validate(); err != nil {
		return 0, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(cfg.Output, 0755); err != nil {
		return 0, err
	}
	if opts.CleanDestination {
		logger.Info("Cleaning destination directory", "dir", cfg.Output)
		if err := util.ClearDir(cfg.Output); err != nil {
			return 0, err
		}
	}

	stageDir, err := os.MkdirTemp("", "txsite-stage-")
	if err != nil {
		return 0, err
	}
	if opts.Debug {
		logger.Debug("Keeping staged fragments", "stage_dir", stageDir)
	} else {
		defer os.RemoveAll(stageDir)
	}

	converted, err := stagePackage(cfg.Source, stageDir, opts)
	if err != nil {
		return 0, err
	}
	if converted > 0 {
		logger.Info("Converted markdown sources", "count", converted)
	}

	topts := []templater.Option{templater.WithLogger(logger)}
	if opts.Recorder != nil {
		topts = append(topts, templater.WithRecorder(opts.Recorder))
	}
	pages, err := templater.Do(cfg.ResourceType, stageDir, cfg.Output, cfg.Template, topts...)
	if err != nil {
		return 0, fmt.Errorf("templating %s failed: %w", cfg.Source, err)
	}

	if err := copyStaticAssets(cfg.Static, cfg.Output); err != nil {
		return 0, err
	}
	return pages, nil
}

// stagePackage fills stageDir with the fragments of sourceDir: markdown
// sources are converted, HTML fragments and YAML metadata are copied.
func stagePackage(sourceDir, stageDir string, opts BuildOptions) (int, error) {
	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		return 0, fmt.Errorf("failed to read source directory: %w", err)
	}
	converted := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(sourceDir, entry.Name())
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".md":
			written, err := convertMarkdown(path, stageDir, opts)
			if err != nil {
				return 0, err
			}
			if written {
				converted++
			}
		case ".html", ".yaml", ".yml":
			if err := util.CopyFile(path, filepath.Join(stageDir, entry.Name())); err != nil {
				return 0, fmt.Errorf("failed to stage %s: %w", path, err)
			}
		}
	}
	return converted, nil
}

// convertMarkdown writes the HTML fragment for one markdown source. Drafts are skipped.
func convertMarkdown(path, stageDir string, opts BuildOptions) (bool, error) {
	contentBytes, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	if !utf8.Valid(contentBytes) {
		return false, fmt.Errorf("content file is not valid UTF-8: %s", path)
	}

	meta, htmlOut, err := processContent(contentBytes, opts)
	if err != nil {
		return false, fmt.Errorf("failed to process content for %s: %w", path, err)
	}
	if meta.Draft {
		return false, nil
	}

	var buf bytes.Buffer
	data := FragmentData{Title: meta.Title, Lang: meta.Lang, Content: template.HTML(htmlOut)}
	if err := fragmentTemplate.Execute(&buf, data); err != nil {
		return false, fmt.Errorf("failed to render fragment %s: %w", path, err)
	}
	outPath := filepath.Join(stageDir, util.Stem(path)+".html")
	if err := util.WriteFile(outPath, buf.Bytes()); err != nil {
		return false, err
	}
	return true, nil
}

// copyStaticAssets copies files from the static directory to the output directory.
func copyStaticAssets(staticDir, outputDir string) error {
	if staticDir == "" {
		return nil
	}
	if _, err := os.Stat(staticDir); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	allowedExts := map[string]bool{
		".css": true, ".js": true, ".txt": true, ".svg": true,
		".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
		".woff": true, ".woff2": true,
	}
	return filepath.Walk(staticDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !allowedExts[strings.ToLower(filepath.Ext(info.Name()))] {
			return nil
		}
		rel, err := filepath.Rel(staticDir, path)
		if err != nil {
			return err
		}
		return util.CopyFile(path, filepath.Join(outputDir, rel))
	})
}
