// Package rebuild regenerates the generated parts of a module: the file
// lists in its manifest and its asset bundle document.
//
// Both operations are pure functions of the files on disk and the current
// manifest. Running them twice on an unchanged module produces byte-identical
// output.
package rebuild

import (
	"cmp"
	"path"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/afero"

	"github.com/mt-software-de/wodoo/pkg/addons"
	"github.com/mt-software-de/wodoo/pkg/errors"
	"github.com/mt-software-de/wodoo/pkg/manifest"
)

// legacyDataVersion is the last platform version that names the data list
// update_xml.
const legacyDataVersion = 7.0

var sequenceMarkers = []struct {
	literal string
	re      *regexp.Regexp
}{
	{"__openerp__.sequence", regexp.MustCompile(`__openerp__.sequence[^\d]*(\d*)`)},
	{"odoo.sequence", regexp.MustCompile(`odoo.sequence[^\d]*(\d*)`)},
}

// Priorities of well-known data files without a sequence marker. Group
// definitions load first and access rules last.
var defaultPriorities = map[string]int{
	"menu.xml":            1000,
	"groups.xml":          -999999,
	"ir.model.access.csv": 999999,
}

// FileLists rescans mod and rewrites the file lists of its manifest.
//
// The asset document is regenerated first so it is picked up as data. Files
// below a "test" directory are ignored. Structured data files (.xml, .csv,
// .yml) go to demo_xml when they live in demo/, to qweb when they live below
// a static directory and to the data list otherwise. Scripts go to js and
// stylesheets (.css, .less) to css. The test list is emptied.
//
// All lists are sorted lexically, then the data list is stable-sorted by
// priority: a sequence marker in the file wins, otherwise menu.xml,
// groups.xml and ir.model.access.csv have fixed priorities and everything
// else has priority 0. depends is sorted, web is set when qweb templates
// exist and application defaults to false.
func FileLists(s *addons.Session, mod *manifest.Module) error {
	if err := Assets(s, mod); err != nil {
		return err
	}

	dataList, err := dataListFor(s.Version())
	if err != nil {
		return err
	}

	files, err := moduleFiles(s.FS(), mod.Path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "list files of %s", mod.Name)
	}

	buckets := map[manifest.List][]string{
		dataList:         {},
		manifest.QWeb:    {},
		manifest.JS:      {},
		manifest.DemoXML: {},
		manifest.CSS:     {},
	}
	for _, rel := range files {
		if hasSegment(rel, "test") {
			continue
		}
		switch path.Ext(rel) {
		case ".xml", ".csv", ".yml":
			switch {
			case strings.HasPrefix(rel, "demo/"):
				buckets[manifest.DemoXML] = append(buckets[manifest.DemoXML], rel)
			case hasSegment(rel, "static"):
				buckets[manifest.QWeb] = append(buckets[manifest.QWeb], rel)
			default:
				buckets[dataList] = append(buckets[dataList], rel)
			}
		case ".js":
			buckets[manifest.JS] = append(buckets[manifest.JS], rel)
		case ".css", ".less":
			buckets[manifest.CSS] = append(buckets[manifest.CSS], rel)
		}
	}

	for _, list := range buckets {
		slices.Sort(list)
	}
	data, err := sortByPriority(s.FS(), mod.Path, buckets[dataList])
	if err != nil {
		return err
	}
	buckets[dataList] = data

	m := mod.Manifest.Clone()
	for list, files := range buckets {
		m.SetFiles(list, files)
	}
	m.SetFiles(manifest.Test, nil)
	if m.Has("depends") {
		depends := m.Depends()
		slices.Sort(depends)
		m.SetDepends(depends)
	}
	if len(buckets[manifest.QWeb]) > 0 {
		m.SetFlag(manifest.Web, true)
	}
	if _, ok := m.Flag(manifest.Application); !ok {
		m.SetFlag(manifest.Application, false)
	}

	s.Logger().Debug("rewriting manifest", "module", mod.Name, "data", len(data), "qweb", len(buckets[manifest.QWeb]))
	return manifest.Write(s.FS(), mod, m)
}

func dataListFor(version string) (manifest.List, error) {
	if version == "" {
		return manifest.Data, nil
	}
	v, err := manifest.ParseVersion(version)
	if err != nil {
		return "", err
	}
	if v <= legacyDataVersion {
		return manifest.UpdateXML, nil
	}
	return manifest.Data, nil
}

// sortByPriority stable-sorts files, relative to root, by load priority.
func sortByPriority(fsys afero.Fs, root string, files []string) ([]string, error) {
	priorities := make(map[string]int, len(files))
	for _, rel := range files {
		p, err := filePriority(fsys, path.Join(root, rel))
		if err != nil {
			return nil, err
		}
		priorities[rel] = p
	}
	sorted := slices.Clone(files)
	slices.SortStableFunc(sorted, func(a, b string) int {
		return cmp.Compare(priorities[a], priorities[b])
	})
	return sorted, nil
}

// Priority returns the load priority of a data file with the given name and
// content. A sequence marker whose number does not fit an int is a
// MANIFEST_PARSE error.
func Priority(name string, content []byte) (int, error) {
	text := string(content)
	for _, marker := range sequenceMarkers {
		if !strings.Contains(text, marker.literal) {
			continue
		}
		m := marker.re.FindStringSubmatch(text)
		if len(m) < 2 || m[1] == "" {
			return 0, nil
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, errors.Wrap(errors.ErrCodeManifestParse, err, "%s: %s number %s", name, marker.literal, m[1])
		}
		return n, nil
	}
	return defaultPriorities[name], nil
}

func filePriority(fsys afero.Fs, filePath string) (int, error) {
	content, err := afero.ReadFile(fsys, filePath)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInternal, err, "read %s", filePath)
	}
	p, err := Priority(path.Base(filePath), content)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeManifestParse, err, "sequence marker in %s", filePath)
	}
	return p, nil
}
