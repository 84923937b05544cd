package manifest

import (
	"testing"

	"github.com/spf13/afero"

	"github.com/mt-software-de/wodoo/pkg/errors"
)

func moduleWithVersion(path, version string) *Module {
	m := New()
	if version != "" {
		m.SetVersion(version)
	}
	return &Module{Name: "m", Path: path, ManifestPath: path + "/__manifest__.py", Manifest: m}
}

func TestCompatibleModernPlatform(t *testing.T) {
	fs := afero.NewMemMapFs()

	tests := []struct {
		name    string
		version string
		target  string
		want    bool
	}{
		{"no version", "", "14.0", true},
		{"short version", "1.0", "14.0", true},
		{"three components", "1.2.3", "14.0", true},
		{"matching major", "14.0.1.0.0", "14.0", true},
		{"other major", "13.0.1.0.0", "14.0", false},
		{"four components other major", "3.0.1.2", "14.0", false},
		{"prefix must end at the dot", "140.0.1.0.0", "14.0", false},
		{"version 10", "10.0.1.0.0", "10.0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compatible(fs, moduleWithVersion("/addons/m", tt.version), tt.target)
			if err != nil {
				t.Fatalf("Compatible: %v", err)
			}
			if got != tt.want {
				t.Errorf("Compatible(%q, %q) = %v, want %v", tt.version, tt.target, got, tt.want)
			}
		})
	}
}

func TestCompatibleLegacyPlatform(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		sidecar string
		target  string
		want    bool
		code    errors.Code
	}{
		{"scalar range match", "/addons/m", "7.0", "7.0", true, ""},
		{"scalar range miss", "/addons/m", "7.0", "8.0", false, ""},
		{"dict range", "/addons/m", "{'minimum_version': 6.0, 'maximum_version': 8.0}", "7.0", true, ""},
		{"dict range inclusive upper", "/addons/m", "{'minimum_version': 6.0, 'maximum_version': 8.0}", "8.0", true, ""},
		{"dict default maximum", "/addons/m", "{'minimum_version': 8}", "9.0", true, ""},
		{"dict default minimum", "/addons/m", "{'maximum_version': 6.1}", "7.0", false, ""},
		{"inverted range", "/addons/m", "{'minimum_version': 9.0, 'maximum_version': 7.0}", "8.0", false, errors.ErrCodeInvalidRange},
		{"unparseable sidecar", "/addons/m", "six", "8.0", false, errors.ErrCodeManifestParse},
		{"sidecar wins over contrib heuristic", "/src/OCA/web/m", "6.0", "8.0", false, ""},
		{"contrib top-level module", "/src/OCA/web/m", "", "8.0", true, ""},
		{"contrib nested module", "/src/OCA/web/sub/m", "", "8.0", false, ""},
		{"no sidecar outside contrib", "/addons/m", "", "8.0", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			if err := fs.MkdirAll(tt.path, 0o755); err != nil {
				t.Fatal(err)
			}
			if tt.sidecar != "" {
				writeFile(t, fs, tt.path+"/"+RangeFile, tt.sidecar)
			}

			got, err := Compatible(fs, moduleWithVersion(tt.path, ""), tt.target)
			if tt.code != "" {
				if !errors.Is(err, tt.code) {
					t.Fatalf("Compatible() error = %v, want %s", err, tt.code)
				}
				return
			}
			if err != nil {
				t.Fatalf("Compatible: %v", err)
			}
			if got != tt.want {
				t.Errorf("Compatible() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompatibleInvalidTarget(t *testing.T) {
	_, err := Compatible(afero.NewMemMapFs(), moduleWithVersion("/addons/m", ""), "latest")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Compatible() error = %v, want INVALID_INPUT", err)
	}
}
