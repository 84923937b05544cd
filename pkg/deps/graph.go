package deps

import (
	"github.com/mt-software-de/wodoo/pkg/addons"
	"github.com/mt-software-de/wodoo/pkg/dag"
	"github.com/mt-software-de/wodoo/pkg/errors"
)

// Graph builds the dependency graph over the closure of names. Each node
// carries the module's "version" and "path" metadata; the roots are marked
// with "root". Edges point from a module to its dependencies; the base
// module is left out.
func Graph(s *addons.Session, names []string) (*dag.DAG, error) {
	g := dag.New()
	queue := sortedUnique(names)
	roots := make(map[string]bool, len(queue))
	for _, name := range queue {
		roots[name] = true
	}

	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if _, ok := g.Node(name); ok {
			continue
		}
		mod, err := s.ByName(name)
		if err != nil {
			if !roots[name] {
				return nil, errors.Wrap(errors.ErrCodeDependencyNotFound, err, "dependency %s", name)
			}
			return nil, err
		}
		meta := dag.Metadata{"path": mod.Path}
		if v := mod.Manifest.Version(); v != "" {
			meta["version"] = v
		}
		if roots[name] {
			meta["root"] = true
		}
		if err := g.AddNode(dag.Node{ID: name, Meta: meta}); err != nil {
			return nil, err
		}
		for _, dep := range mod.Manifest.Depends() {
			if dep != addons.BaseModule {
				queue = append(queue, dep)
			}
		}
	}

	for _, n := range g.Nodes() {
		mod, _ := s.ByName(n.ID)
		for _, dep := range sortedUnique(mod.Manifest.Depends()) {
			if dep == addons.BaseModule {
				continue
			}
			if err := g.AddEdge(dag.Edge{From: n.ID, To: dep}); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "add edge %s -> %s", n.ID, dep)
			}
		}
	}

	if cycle := g.FindCycle(); cycle != nil {
		return nil, &errors.CycleError{Path: cycle}
	}
	return g, nil
}

// InstallOrder returns the closure of names ordered so that every module
// follows all of its dependencies. Modules without an ordering constraint
// between them are sorted by name.
func InstallOrder(s *addons.Session, names []string) ([]string, error) {
	g, err := Graph(s, names)
	if err != nil {
		return nil, err
	}
	order, err := g.TopologicalOrder()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCyclicDependency, err, "install order")
	}
	return order, nil
}
