package project

import (
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/mt-software-de/wodoo/pkg/errors"
)

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	if err := afero.WriteFile(fs, path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestOpen(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/p/MANIFEST", `{
    # python style
    'version': 14.0,
    'install': ['sale', 'stock'],
    'auto_repo': True,
}`)

	f, err := Open(fs, "/p/MANIFEST")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got := f.Install(); !reflect.DeepEqual(got, []string{"sale", "stock"}) {
		t.Errorf("Install() = %v", got)
	}
}

func TestOpenErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    errors.Code
	}{
		{"not a dict", "['sale']", errors.ErrCodeManifestParse},
		{"syntax", "{'install': [", errors.ErrCodeManifestParse},
		{"install not a list", "{'install': 'sale'}", errors.ErrCodeManifestParse},
		{"install items", "{'install': ['sale', 3]}", errors.ErrCodeManifestParse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			writeFile(t, fs, "/MANIFEST", tt.content)
			_, err := Open(fs, "/MANIFEST")
			if !errors.Is(err, tt.code) {
				t.Errorf("Open() = %v, want %s", err, tt.code)
			}
		})
	}

	_, err := Open(afero.NewMemMapFs(), "/missing")
	if !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("Open(missing) = %v", err)
	}
}

func TestAddModuleAndSave(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/MANIFEST", `{"install": ["sale"], "version": 14.0, "modules": [{"url": "x"}]}`)

	f, err := Open(fs, "/MANIFEST")
	if err != nil {
		t.Fatal(err)
	}
	changed, err := f.AddModule("shop")
	if err != nil || !changed {
		t.Fatalf("AddModule(shop) = %v, %v", changed, err)
	}
	changed, err = f.AddModule("sale")
	if err != nil || changed {
		t.Errorf("AddModule(sale) = %v, %v, want no change", changed, err)
	}
	if _, err := f.AddModule("../etc"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("AddModule(../etc) = %v", err)
	}
	if err := f.Save(); err != nil {
		t.Fatal(err)
	}

	reopened, err := Open(fs, "/MANIFEST")
	if err != nil {
		t.Fatalf("saved file does not parse: %v", err)
	}
	if got := reopened.Install(); !reflect.DeepEqual(got, []string{"sale", "shop"}) {
		t.Errorf("Install() after save = %v", got)
	}
	data, _ := afero.ReadFile(fs, "/MANIFEST")
	if !strings.Contains(string(data), `"version": 14`) || !strings.Contains(string(data), `"url": "x"`) {
		t.Errorf("other keys lost:\n%s", data)
	}
}

func TestAddModuleWithoutInstallKey(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/MANIFEST", "{}")

	f, err := Open(fs, "/MANIFEST")
	if err != nil {
		t.Fatal(err)
	}
	if got := f.Install(); len(got) != 0 {
		t.Errorf("Install() = %v, want empty", got)
	}
	if _, err := f.AddModule("shop"); err != nil {
		t.Fatal(err)
	}
	if got := f.Install(); !reflect.DeepEqual(got, []string{"shop"}) {
		t.Errorf("Install() = %v", got)
	}
}

func TestReadInstallList(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"project file", "{'install': ['a', 'b']}", []string{"a", "b"}},
		{"text", "a\n# comment\n\n  b  # trailing\nc\n", []string{"a", "b", "c"}},
		{"empty text", "", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			writeFile(t, fs, "/install", tt.content)
			got, err := ReadInstallList(fs, "/install")
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ReadInstallList() = %v, want %v", got, tt.want)
			}
		})
	}

	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/install", "a/b\n")
	if _, err := ReadInstallList(fs, "/install"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("ReadInstallList(a/b) = %v", err)
	}
}

func TestWriteModulesTxt(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := WriteModulesTxt(fs, "/modules.txt", []string{"base", "sale", "shop"}); err != nil {
		t.Fatal(err)
	}
	data, _ := afero.ReadFile(fs, "/modules.txt")
	if string(data) != "base,sale,shop" {
		t.Errorf("modules.txt = %q", data)
	}
}
