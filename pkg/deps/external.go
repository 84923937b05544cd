package deps

import (
	"encoding/json"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/spf13/afero"

	"github.com/mt-software-de/wodoo/pkg/addons"
	"github.com/mt-software-de/wodoo/pkg/errors"
)

// DeclarationFile is the per-module file that overrides the manifest's
// external dependency declaration.
const DeclarationFile = "external_dependencies.txt"

// Bundle is the external dependency set of a group of modules. Both lists
// are sorted and unique.
type Bundle struct {
	Pip []string `json:"pip" yaml:"pip"`
	Deb []string `json:"deb" yaml:"deb"`
}

type declaration struct {
	Pip []string `json:"pip"`
	Deb []string `json:"deb"`
}

// ExternalDependencies aggregates the external dependencies of modules.
//
// For each module, external_dependencies.txt (JSON with "pip" and "deb"
// lists) is used if present, otherwise the manifest's
// external_dependencies.python entry. A module declaring neither
// contributes nothing. Once everything is collected, two distinct pip
// requirements that normalize to the same package name fail with a
// [errors.ConflictError].
func ExternalDependencies(s *addons.Session, modules []string) (Bundle, error) {
	var pip, deb []string
	for _, name := range sortedUnique(modules) {
		mod, err := s.ByName(name)
		if err != nil {
			return Bundle{}, err
		}

		path := filepath.Join(mod.Path, DeclarationFile)
		if ok, _ := afero.Exists(s.FS(), path); ok {
			decl, err := readDeclaration(s.FS(), path)
			if err != nil {
				return Bundle{}, err
			}
			pip = append(pip, decl.Pip...)
			deb = append(deb, decl.Deb...)
			continue
		}
		pip = append(pip, mod.Manifest.ExternalDependencies("python")...)
	}

	bundle := Bundle{Pip: sortedUnique(pip), Deb: sortedUnique(deb)}
	if err := checkConflicts(bundle.Pip); err != nil {
		return Bundle{}, err
	}
	return bundle, nil
}

func readDeclaration(fs afero.Fs, path string) (declaration, error) {
	var decl declaration
	content, err := afero.ReadFile(fs, path)
	if err != nil {
		return decl, errors.Wrap(errors.ErrCodeManifestParse, err, "read %s", path)
	}
	if err := json.Unmarshal(content, &decl); err != nil {
		return decl, errors.Wrap(errors.ErrCodeManifestParse, err, "parse %s", path)
	}
	return decl, nil
}

func checkConflicts(requirements []string) error {
	first := make(map[string]string, len(requirements))
	for _, req := range requirements {
		name := RequirementName(req)
		if prev, ok := first[name]; ok && prev != req {
			return &errors.ConflictError{Name: name, First: prev, Second: req}
		}
		first[name] = req
	}
	return nil
}

var (
	requirementNameRE = regexp.MustCompile(`^([a-zA-Z0-9][-a-zA-Z0-9._]*)`)
	separatorRE       = regexp.MustCompile(`[-_.]+`)
)

// RequirementName returns the normalized package name of a requirement
// string: extras, environment markers, URLs and version specifiers are
// stripped, the name is lowercased and runs of "-", "_" and "." become a
// single "-".
func RequirementName(req string) string {
	req = strings.TrimSpace(req)
	if i := strings.IndexAny(req, ";@"); i >= 0 {
		req = strings.TrimSpace(req[:i])
	}
	name := req
	if m := requirementNameRE.FindStringSubmatch(req); len(m) > 1 {
		name = m[1]
	}
	return separatorRE.ReplaceAllString(strings.ToLower(name), "-")
}

func sortedUnique(items []string) []string {
	out := slices.Clone(items)
	slices.Sort(out)
	out = slices.Compact(out)
	if out == nil {
		out = []string{}
	}
	return out
}
