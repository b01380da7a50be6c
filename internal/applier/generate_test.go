package applier

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fprime-community/fprime-fppm/internal/fault"
	"github.com/fprime-community/fprime-fppm/internal/ui"
)

func TestGenerateWritesFillables(t *testing.T) {
	f := newFixture(t, map[string]string{"config/{{ cookiecutter.comp }}Cfg.fpp": queueConfig})
	g := &Generator{Package: f.pkg, UI: ui.New(f.out)}

	results, err := g.Generate(context.Background(), []string{queueObject}, false)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NotEmpty(t, results[0].Fillable)

	d, err := f.pkg.Store().Read(results[0].Fillable)
	require.NoError(t, err)
	assert.Equal(t, f.pkg.Path, d.PackagePath)
	assert.Equal(t, queueObject, d.ConfigObject)
	assert.Equal(t, "Config/", d.Metadata.Output)
	assert.Equal(t, "# Queue depth.\n", d.Description)
	assert.ElementsMatch(t, []string{"comp", "depth"}, d.Unfilled())
}

func TestGenerateKeepsExistingUnlessForced(t *testing.T) {
	f := newFixture(t, map[string]string{"Value.fpp": "v = {{ cookiecutter.v }}\n"})
	g := &Generator{Package: f.pkg, UI: ui.New(f.out)}

	first, err := g.Generate(context.Background(), []string{"./Value.fpp"}, false)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(first[0].Fillable, []byte("edited"), 0644))

	again, err := g.Generate(context.Background(), []string{"./Value.fpp"}, false)
	require.NoError(t, err)
	assert.True(t, again[0].Existing)
	data, err := os.ReadFile(first[0].Fillable)
	require.NoError(t, err)
	assert.Equal(t, "edited", string(data))

	forced, err := g.Generate(context.Background(), []string{"./Value.fpp"}, true)
	require.NoError(t, err)
	assert.False(t, forced[0].Existing)
	data, err = os.ReadFile(first[0].Fillable)
	require.NoError(t, err)
	assert.NotEqual(t, "edited", string(data))
}

func TestGenerateCopiesThroughWhenNothingToFill(t *testing.T) {
	f := newFixture(t, map[string]string{"Static.fpp": "constant X = 1\n"})
	g := &Generator{Package: f.pkg, UI: ui.New(f.out)}

	results, err := g.Generate(context.Background(), []string{"./Static.fpp"}, false)
	require.NoError(t, err)

	want := filepath.Join(f.root, "acme.widget.config", "Static.fpp")
	assert.Equal(t, want, results[0].Copied)
	assert.Empty(t, results[0].Fillable)
	data, err := os.ReadFile(want)
	require.NoError(t, err)
	assert.Equal(t, "constant X = 1\n", string(data))
	assert.FileExists(t, filepath.Join(f.pkg.Dir, "Static.fpp"), "source must be copied, not moved")
}

func TestGenerateErrors(t *testing.T) {
	f := newFixture(t, map[string]string{"Value.fpp": "v\n"})
	g := &Generator{Package: f.pkg}

	_, err := g.Generate(context.Background(), []string{"Value.fpp"}, false)
	assert.True(t, fault.Is(err, fault.PathFormat), "%v", err)

	_, err = g.Generate(context.Background(), []string{"./Missing.fpp"}, false)
	assert.True(t, fault.Is(err, fault.MissingPackage), "%v", err)
}
