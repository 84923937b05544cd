package deps

import (
	"slices"

	"github.com/mt-software-de/wodoo/pkg/addons"
	"github.com/mt-software-de/wodoo/pkg/errors"
)

// Tree maps a module name to the tree of its dependencies. Subtrees may be
// shared between branches and must be treated as read-only.
type Tree map[string]Tree

// Names returns every module name in the tree, sorted and unique.
func (t Tree) Names() []string {
	seen := make(map[string]bool)
	var walk func(Tree)
	walk = func(t Tree) {
		for name, sub := range t {
			seen[name] = true
			walk(sub)
		}
	}
	walk(t)

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// DependencyTree returns the dependency tree of module name. The result
// holds a single key, name itself.
func DependencyTree(s *addons.Session, name string) (Tree, error) {
	if _, err := s.ByName(name); err != nil {
		return nil, err
	}
	b := &treeBuilder{s: s, done: make(map[string]Tree)}
	sub, err := b.expand(name)
	if err != nil {
		return nil, err
	}
	return Tree{name: sub}, nil
}

// FlatDependencies returns the names of all direct and indirect
// dependencies of module name, sorted. The module itself and the base
// module are not included.
func FlatDependencies(s *addons.Session, name string) ([]string, error) {
	tree, err := DependencyTree(s, name)
	if err != nil {
		return nil, err
	}
	return tree[name].Names(), nil
}

type treeBuilder struct {
	s        *addons.Session
	visiting []string
	done     map[string]Tree
}

func (b *treeBuilder) expand(name string) (Tree, error) {
	if sub, ok := b.done[name]; ok {
		return sub, nil
	}
	if i := slices.Index(b.visiting, name); i >= 0 {
		path := append(slices.Clone(b.visiting[i:]), name)
		return nil, &errors.CycleError{Path: path}
	}

	mod, err := b.s.ByName(name)
	if err != nil {
		return nil, err
	}

	b.visiting = append(b.visiting, name)
	defer func() { b.visiting = b.visiting[:len(b.visiting)-1] }()

	sub := Tree{}
	for _, dep := range mod.Manifest.Depends() {
		if dep == addons.BaseModule {
			continue
		}
		if _, err := b.s.ByName(dep); err != nil {
			if errors.Is(err, errors.ErrCodeModuleNotFound) || errors.Is(err, errors.ErrCodeInvalidInput) {
				return nil, errors.Wrap(errors.ErrCodeDependencyNotFound, err, "module %s depends on %s", name, dep)
			}
			return nil, err
		}
		depTree, err := b.expand(dep)
		if err != nil {
			return nil, err
		}
		sub[dep] = depTree
	}
	b.done[name] = sub
	return sub, nil
}
