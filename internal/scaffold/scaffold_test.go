package scaffold

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"txsite/internal/builder"
	"txsite/internal/config"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "how-to-translate-names", Slugify("How to Translate Names"))
	assert.Equal(t, "what-s-new", Slugify("  What's new?  "))
	assert.Equal(t, "", Slugify("???"))
}

// Each scaffolded kind must build cleanly out of the box.
func TestScaffoldedSitesBuild(t *testing.T) {
	for _, typ := range []string{"ulb", "obs", "ta", "tn"} {
		t.Run(typ, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, CreateNewSite(dir, typ, quietLogger()))

			cfg, err := config.Load(filepath.Join(dir, configFileName))
			require.NoError(t, err)
			assert.Equal(t, typ, cfg.ResourceType)

			cfg.Source = filepath.Join(dir, cfg.Source)
			cfg.Output = filepath.Join(dir, cfg.Output)
			cfg.Template = filepath.Join(dir, cfg.Template)
			cfg.Static = filepath.Join(dir, cfg.Static)

			n, err := builder.Build(cfg, builder.BuildOptions{Logger: quietLogger()})
			require.NoError(t, err)
			assert.Positive(t, n)
			assert.FileExists(t, filepath.Join(cfg.Output, "css", "style.css"))
		})
	}
}

func TestCreateNewSiteRefusesExistingProject(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, CreateNewSite(dir, "obs", quietLogger()))
	require.Error(t, CreateNewSite(dir, "obs", quietLogger()))
}

func TestCreateNewContent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, CreateNewSite(dir, "ta", quietLogger()))
	t.Chdir(dir)

	path, err := CreateNewContent("Translate Names", configFileName)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("content", "translate-names.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "title: Translate Names")
	assert.Contains(t, string(data), "# Translate Names")

	_, err = CreateNewContent("Translate Names", configFileName)
	require.Error(t, err)
}
