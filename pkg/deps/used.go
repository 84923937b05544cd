package deps

import (
	"slices"

	"github.com/mt-software-de/wodoo/pkg/addons"
	"github.com/mt-software-de/wodoo/pkg/errors"
	"github.com/mt-software-de/wodoo/pkg/manifest"
)

// AllUsedModules returns every module that ends up installed for the
// install list: the listed modules, their transitive dependencies and the
// auto-install modules activated by them. The result is sorted.
//
// Auto-install candidates are the installable auto-install modules of the
// session that resolve by name; modules only found nested below a search
// path are not candidates. A candidate joins once all of its non-base
// triggers are in the result; passes repeat until one adds nothing, so
// auto-install modules triggered by other auto-install modules are found as
// well.
func AllUsedModules(s *addons.Session, install []string) ([]string, error) {
	result := make(map[string]bool)
	add := func(name string) error {
		if result[name] {
			return nil
		}
		flat, err := FlatDependencies(s, name)
		if err != nil {
			return err
		}
		result[name] = true
		for _, dep := range flat {
			result[dep] = true
		}
		return nil
	}

	for _, name := range install {
		if err := add(name); err != nil {
			return nil, err
		}
	}

	var candidates []*manifest.Module
	for _, name := range s.Names() {
		mod, err := s.ByName(name)
		if errors.Is(err, errors.ErrCodeModuleNotFound) {
			// nested below a search path, not reachable by name
			continue
		}
		if err != nil {
			return nil, err
		}
		if mod.Manifest.AutoInstall() && mod.Manifest.IsInstallable() {
			candidates = append(candidates, mod)
		}
	}

	for pass := 1; ; pass++ {
		changed := false
		for _, mod := range candidates {
			if result[mod.Name] {
				continue
			}
			if !triggered(mod.Manifest.AutoInstallTriggers(), result) {
				continue
			}
			if err := add(mod.Name); err != nil {
				return nil, err
			}
			s.Logger().Debug("auto-install module activated", "module", mod.Name, "pass", pass)
			changed = true
		}
		if !changed {
			break
		}
	}

	names := make([]string, 0, len(result))
	for name := range result {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

func triggered(triggers []string, installed map[string]bool) bool {
	for _, dep := range triggers {
		if dep != addons.BaseModule && !installed[dep] {
			return false
		}
	}
	return true
}
