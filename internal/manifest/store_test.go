package manifest

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/fprime-community/fprime-fppm/internal/fault"
)

const testdataDir = "testdata"

func testPath(name string) string {
	return filepath.Join(testdataDir, name)
}

func TestLoadProject(t *testing.T) {
	p, err := LoadProject(testPath("project.yaml"))
	if err != nil {
		t.Fatalf("LoadProject: %v", err)
	}
	if p.Name != "flight-software" {
		t.Errorf("Name = %q", p.Name)
	}
	if len(p.Registries) != 2 {
		t.Errorf("Registries = %v", p.Registries)
	}
	if ref, ok := p.FindPackage("acme/widget"); !ok || ref.Version != "v1.2.0" {
		t.Errorf("FindPackage = %+v, %v", ref, ok)
	}
}

func TestLoadProject_NotFound(t *testing.T) {
	if _, err := LoadProject(testPath("nonexistent.yaml")); err == nil {
		t.Fatal("expected error for nonexistent file, got nil")
	}
}

func TestSaveProjectRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ProjectFile)
	want := &Project{
		Name:       "demo",
		Registries: []string{"./r.yaml"},
		Packages:   []PackageRef{{Name: "acme/widget", Version: "abc123"}},
	}
	if err := SaveProject(path, want); err != nil {
		t.Fatalf("SaveProject: %v", err)
	}
	got, err := LoadProject(path)
	if err != nil {
		t.Fatalf("LoadProject: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file left behind")
	}
}

func TestProjectMutations(t *testing.T) {
	p := &Project{Name: "demo"}

	if err := p.AddRegistry("./r.yaml"); err != nil {
		t.Fatalf("AddRegistry: %v", err)
	}
	if err := p.AddRegistry("./r.yaml"); err == nil {
		t.Error("expected duplicate registry error")
	}

	if updated := p.SetPackage("acme/widget", "v1.0.0"); updated {
		t.Error("first SetPackage should insert")
	}
	if updated := p.SetPackage("acme/widget", "v1.1.0"); !updated {
		t.Error("second SetPackage should update")
	}
	if len(p.Packages) != 1 || p.Packages[0].Version != "v1.1.0" {
		t.Errorf("Packages = %+v", p.Packages)
	}

	if !p.RemovePackage("acme/widget") {
		t.Error("RemovePackage returned false for existing entry")
	}
	if p.RemovePackage("acme/widget") {
		t.Error("RemovePackage returned true for missing entry")
	}
}

func TestLoadPackage(t *testing.T) {
	p, err := LoadPackage(testPath("widget"))
	if err != nil {
		t.Fatalf("LoadPackage: %v", err)
	}
	if p.Namespace != "acme" || p.Name != "widget" {
		t.Errorf("package = %+v", p)
	}
	if len(p.ConfigObjects) != 2 {
		t.Errorf("ConfigObjects = %v", p.ConfigObjects)
	}
}

func TestLoadPackage_Missing(t *testing.T) {
	_, err := LoadPackage(t.TempDir())
	if !fault.Is(err, fault.MissingPackage) {
		t.Errorf("err = %v, want MissingPackageError", err)
	}
}

func TestFolderName(t *testing.T) {
	if got := FolderName("acme/widget"); got != "acme.widget" {
		t.Errorf("FolderName = %q", got)
	}
}
