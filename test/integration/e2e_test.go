//go:build integration

package integration_test

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fprime-community/fprime-fppm/internal/applier"
	"github.com/fprime-community/fprime-fppm/internal/installer"
	"github.com/fprime-community/fprime-fppm/internal/manifest"
	"github.com/fprime-community/fprime-fppm/internal/prompt"
	"github.com/fprime-community/fprime-fppm/internal/registry"
	"github.com/fprime-community/fprime-fppm/internal/render"
	"github.com/fprime-community/fprime-fppm/internal/scaffold"
	"github.com/fprime-community/fprime-fppm/internal/vcs"
)

// TestFullFlowInstallConfigureRemove tests the complete flow:
// init project -> install stable -> switch version -> generate -> fill ->
// apply -> remove.
func TestFullFlowInstallConfigureRemove(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	repo := setupWidgetRepo(t, env.RemoteDir)
	writeRegistry(t, filepath.Join(env.ProjectDir, "registry.yaml"), repo)
	writeFile(t, filepath.Join(env.ProjectDir, ".gitignore"), "build/\n")

	// Step 1: Initialize the project.
	if _, err := scaffold.InitProject(env.ProjectDir, &scaffold.ProjectData{
		Name:       "demo",
		Registries: []string{"registry.yaml"},
	}); err != nil {
		t.Fatalf("InitProject: %v", err)
	}
	projectFile := filepath.Join(env.ProjectDir, manifest.ProjectFile)

	newInstaller := func(answers string) *installer.Installer {
		return &installer.Installer{
			ProjectFile: projectFile,
			Resolver:    registry.New(registry.WithBaseDir(env.ProjectDir)),
			VCS:         vcs.Git{},
			Asker:       prompt.NewLines(strings.NewReader(answers), io.Discard),
		}
	}

	// Step 2: Install the stable version.
	res, err := newInstaller("").Install(ctx, "acme/widget", "")
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	packagesDir := filepath.Join(env.ProjectDir, installer.DefaultPackagesDir)
	assertDirExists(t, filepath.Join(packagesDir, "acme.widget@v1.0.0"))
	if res.Dir != filepath.Join(packagesDir, "acme.widget@v1.0.0") {
		t.Errorf("Dir = %s", res.Dir)
	}
	if !strings.Contains(readFile(t, filepath.Join(env.ProjectDir, ".gitignore")), "/.fprime.packages/") {
		t.Error(".gitignore does not ignore the packages directory")
	}

	// Step 3: Switch to v1.1.0.
	res, err = newInstaller("").Install(ctx, "acme/widget", "v1.1.0")
	if err != nil {
		t.Fatalf("Install v1.1.0: %v", err)
	}
	if !res.Switch || !res.Updated {
		t.Errorf("result = %+v, want a switch of a listed package", res)
	}
	assertNotExists(t, filepath.Join(packagesDir, "acme.widget@v1.0.0"))
	pkgDir := filepath.Join(packagesDir, "acme.widget@v1.1.0")
	if !strings.Contains(readFile(t, filepath.Join(pkgDir, "config", "WidgetCfg.fpp")), "WIDGET_QUEUE") {
		t.Error("checkout did not move to v1.1.0")
	}

	project, err := manifest.LoadProject(projectFile)
	if err != nil {
		t.Fatalf("LoadProject: %v", err)
	}
	if ref, ok := project.FindPackage("acme/widget"); !ok || ref.Version != "v1.1.0" {
		t.Errorf("project entry = %+v, %v", ref, ok)
	}

	// Step 4: Generate fillables.
	m, err := manifest.LoadPackage(pkgDir)
	if err != nil {
		t.Fatalf("LoadPackage: %v", err)
	}
	pkg, err := applier.NewPackage(env.ProjectDir, pkgDir, manifest.FolderName("acme/widget"))
	if err != nil {
		t.Fatalf("NewPackage: %v", err)
	}
	gen := &applier.Generator{Package: pkg}
	generated, err := gen.Generate(ctx, m.ConfigObjects, false)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(generated) != 1 || generated[0].Fillable == "" {
		t.Fatalf("generated = %+v", generated)
	}

	// Step 5: Fill in the values.
	text := readFile(t, generated[0].Fillable)
	text = strings.Replace(text, "rate: << FILL IN >>", "rate: 10", 1)
	text = strings.Replace(text, "queue: << FILL IN >>", "queue: 32", 1)
	writeFile(t, generated[0].Fillable, text)

	// Step 6: Apply.
	a := &applier.Applier{Package: pkg, Engine: render.TextTemplate{}, StagingDir: t.TempDir()}
	if _, err := a.Apply(ctx, applier.Options{}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	got := readFile(t, filepath.Join(env.ProjectDir, "Config", "WidgetCfg.fpp"))
	want := "constant WIDGET_RATE = 10\nconstant WIDGET_QUEUE = 32\n"
	if got != want {
		t.Errorf("rendered config = %q, want %q", got, want)
	}
	assertNotExists(t, generated[0].Fillable)

	// Step 7: Remove, deleting the fillables directory as well.
	writeFile(t, filepath.Join(packagesDir, installer.CMakeListsFile),
		"add_fprime_subdirectory(\"${CMAKE_CURRENT_LIST_DIR}/acme.widget@v1.1.0/\")\n")
	if err := newInstaller("y\n").Remove(ctx, "acme/widget"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	assertNotExists(t, pkgDir)
	assertNotExists(t, filepath.Join(env.ProjectDir, "acme.widget.fillables"))
	if strings.Contains(readFile(t, filepath.Join(packagesDir, installer.CMakeListsFile)), "acme.widget") {
		t.Error("CMakeLists.txt still references the package")
	}

	project, err = manifest.LoadProject(projectFile)
	if err != nil {
		t.Fatalf("LoadProject: %v", err)
	}
	if len(project.Packages) != 0 {
		t.Errorf("packages after remove = %v", project.Packages)
	}

	// The rendered output belongs to the project and survives removal.
	assertFileExists(t, filepath.Join(env.ProjectDir, "Config", "WidgetCfg.fpp"))
}

// TestInstallUnknownPackage checks resolution failures leave no trace.
func TestInstallUnknownPackage(t *testing.T) {
	env := setupTestEnv(t)
	repo := setupWidgetRepo(t, env.RemoteDir)
	writeRegistry(t, filepath.Join(env.ProjectDir, "registry.yaml"), repo)

	if _, err := scaffold.InitProject(env.ProjectDir, &scaffold.ProjectData{
		Name:       "demo",
		Registries: []string{"registry.yaml"},
	}); err != nil {
		t.Fatalf("InitProject: %v", err)
	}

	in := &installer.Installer{
		ProjectFile: filepath.Join(env.ProjectDir, manifest.ProjectFile),
		Resolver:    registry.New(registry.WithBaseDir(env.ProjectDir)),
		VCS:         vcs.Git{},
	}
	if _, err := in.Install(context.Background(), "acme/nothing", ""); err == nil {
		t.Fatal("Install of an unknown package succeeded")
	}
	assertNotExists(t, filepath.Join(env.ProjectDir, installer.DefaultPackagesDir, "acme.nothing"))
}
