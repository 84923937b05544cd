// Package manifest locates, parses and writes module manifests.
//
// # Loading
//
// A module is identified by its manifest file. [Load] accepts any path below
// a module directory and walks upward until it finds one of
// [DefaultFileNames]:
//
//	mod, err := manifest.Load(afero.NewOsFs(), "addons/sale_extra/views/x.xml", manifest.Options{})
//	if errors.Is(err, errors.ErrCodeNotAModule) {
//	    // path is not inside a module
//	}
//
// Manifest content is read with the closed grammar of package [literal];
// nothing in a manifest is ever evaluated.
//
// # Typed Fields
//
// [Manifest] validates the fields this toolkit understands (depends, version,
// the file lists, flags and external_dependencies) and keeps all other keys
// untouched. Setters only write the keys they name, so a module that never
// declared "web" does not gain it by being loaded and written.
//
// # Writing
//
// [Write] renders the manifest with sorted keys in the layout of the
// platform's pretty printer. The output is a pure function of the manifest
// content, which keeps regeneration diffs minimal.
//
// # Compatibility
//
// [Compatible] decides whether a module belongs to a platform version, and
// [BumpVersion] increments module versions for releases.
package manifest
