// Package deps resolves module dependencies within an addons session.
//
// # Overview
//
// All functions take an explicit [addons.Session]; nothing is looked up
// through global state. The session supplies module lookup by name and the
// filesystem used for dependency declaration files.
//
// # Dependency Trees
//
// [DependencyTree] expands the depends declarations of a module recursively
// into a [Tree], skipping the universal base module. A dependency that
// cannot be found fails with DEPENDENCY_NOT_FOUND. A module that depends on
// itself, directly or through others, fails with CYCLIC_DEPENDENCY and the
// error names the cycle:
//
//	tree, err := deps.DependencyTree(s, "sale_extra")
//	var cycle *errors.CycleError
//	if stderrors.As(err, &cycle) {
//	    fmt.Println(strings.Join(cycle.Path, " -> "))
//	}
//
// [FlatDependencies] flattens a tree into a sorted set of names.
//
// # Used Modules
//
// [AllUsedModules] starts from an install list, adds every transitive
// dependency and then adds auto-install modules until a fixed point is
// reached: a module flagged auto_install joins once all of its triggering
// dependencies are part of the result.
//
// # External Dependencies
//
// [ExternalDependencies] collects the Python and system packages a module
// set needs. A module's external_dependencies.txt file, if present, takes
// precedence over the manifest declaration. Two requirement strings that
// name the same package differently (for example "foo==1.0" and "foo==2.0")
// are reported as a [errors.ConflictError] naming both.
//
// # Graphs
//
// [Graph] builds a [dag.DAG] over the closure of a set of modules for export.
package deps
