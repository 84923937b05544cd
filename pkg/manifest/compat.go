package manifest

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/afero"

	"github.com/mt-software-de/wodoo/pkg/errors"
	"github.com/mt-software-de/wodoo/pkg/manifest/literal"
)

// RangeFile is the sidecar file that declares the platform versions a
// module supports on platforms before version 10.
const RangeFile = ".ln"

// contribSegment marks the directory holding third-party contributed
// repositories.
const contribSegment = "OCA"

const (
	defaultMinimumVersion = 1.0
	defaultMaximumVersion = 1000.0
)

// ParseVersion parses a platform version such as "14.0".
func ParseVersion(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid platform version %q", s)
	}
	return v, nil
}

// Compatible reports whether mod can be used with the target platform
// version.
//
// From version 10 on the module version decides: an empty version or one
// with at most three components is always accepted, a longer one must start
// with the target major version. Older platforms consult the range sidecar
// file, and without one accept modules sitting exactly one repository below
// the contribution directory.
func Compatible(fs afero.Fs, mod *Module, target string) (bool, error) {
	version, err := ParseVersion(target)
	if err != nil {
		return false, err
	}

	if version >= 10 {
		declared := mod.Manifest.Version()
		if declared == "" || len(strings.Split(declared, ".")) <= 3 {
			return true, nil
		}
		major := strings.Split(strconv.FormatFloat(version, 'f', 1, 64), ".")[0]
		return strings.HasPrefix(declared, major+"."), nil
	}

	sidecar := filepath.Join(mod.Path, RangeFile)
	if ok, _ := afero.Exists(fs, sidecar); ok {
		lo, hi, err := readRange(fs, sidecar)
		if err != nil {
			return false, err
		}
		return version >= lo && version <= hi, nil
	}

	slashed := filepath.ToSlash(mod.Path)
	marker := "/" + contribSegment + "/"
	if i := strings.Index(slashed, marker); i >= 0 {
		rel := strings.Split(slashed[i+len(marker):], "/")
		return len(rel) == 2, nil
	}
	return false, nil
}

// readRange reads a sidecar holding either a single number or a dict with
// minimum_version and maximum_version.
func readRange(fs afero.Fs, path string) (lo, hi float64, err error) {
	content, err := afero.ReadFile(fs, path)
	if err != nil {
		return 0, 0, errors.Wrap(errors.ErrCodeInvalidRange, err, "read %s", path)
	}
	v, err := literal.Parse(string(content))
	if err != nil {
		return 0, 0, errors.Wrap(errors.ErrCodeManifestParse, err, "parse %s", path)
	}

	switch x := v.(type) {
	case map[string]any:
		lo, hi = defaultMinimumVersion, defaultMaximumVersion
		if raw, ok := x["minimum_version"]; ok {
			if lo, err = toFloat(raw); err != nil {
				return 0, 0, errors.Wrap(errors.ErrCodeInvalidRange, err, "%s: minimum_version", path)
			}
		}
		if raw, ok := x["maximum_version"]; ok {
			if hi, err = toFloat(raw); err != nil {
				return 0, 0, errors.Wrap(errors.ErrCodeInvalidRange, err, "%s: maximum_version", path)
			}
		}
	default:
		if lo, err = toFloat(v); err != nil {
			return 0, 0, errors.Wrap(errors.ErrCodeInvalidRange, err, "parse %s", path)
		}
		hi = lo
	}

	if lo > hi {
		return 0, 0, errors.New(errors.ErrCodeInvalidRange, "invalid version range in %s: minimum %v > maximum %v", path, lo, hi)
	}
	return lo, hi, nil
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case int64:
		return float64(x), nil
	case float64:
		return x, nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(x), 64)
	}
	return 0, errors.New(errors.ErrCodeInvalidRange, "expected a number, got %s", literal.TypeName(v))
}
