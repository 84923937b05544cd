package manifest

import (
	"strconv"
	"strings"

	"github.com/mt-software-de/wodoo/pkg/errors"
)

// BumpKind selects the version component [BumpVersion] increments.
type BumpKind string

const (
	// Bugfix increments the last component.
	Bugfix BumpKind = "bugfix"
	// Feature increments the second to last component.
	Feature BumpKind = "feature"
)

// BumpVersion increments a module version. A two component version is
// first extended with ".0". Components after the incremented one are kept.
func BumpVersion(version string, kind BumpKind) (string, error) {
	if version == "" {
		return "", errors.New(errors.ErrCodeInvalidInput, "no version to bump")
	}
	parts := strings.Split(version, ".")
	if len(parts) == 2 {
		parts = append(parts, "0")
	}

	var idx int
	switch kind {
	case Bugfix:
		idx = len(parts) - 1
	case Feature:
		idx = len(parts) - 2
	default:
		return "", errors.New(errors.ErrCodeInvalidInput, "unknown bump kind %q (use %s or %s)", kind, Bugfix, Feature)
	}
	if idx < 0 {
		return "", errors.New(errors.ErrCodeInvalidInput, "version %q has too few components", version)
	}

	n, err := strconv.Atoi(parts[idx])
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "version %q: component %q is not a number", version, parts[idx])
	}
	parts[idx] = strconv.Itoa(n + 1)
	return strings.Join(parts, "."), nil
}
