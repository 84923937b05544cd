package rebuild

import (
	"bytes"
	"encoding/xml"
	"io"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/spf13/afero"

	"github.com/mt-software-de/wodoo/pkg/addons"
	"github.com/mt-software-de/wodoo/pkg/errors"
	"github.com/mt-software-de/wodoo/pkg/manifest"
)

// AssetsFile is the asset document of a module, relative to its root.
const AssetsFile = "views/assets.xml"

// Default bundles for files that are not pinned by an existing document.
const (
	BackendBundle = "web.assets_backend"
	ReportBundle  = "web.report_assets_common"
)

type assetsDoc struct {
	XMLName xml.Name `xml:"odoo"`
	Data    struct {
		Templates []assetTemplate `xml:"template"`
	} `xml:"data"`
}

type assetTemplate struct {
	ID        string     `xml:"id,attr"`
	InheritID string     `xml:"inherit_id,attr"`
	XPath     assetXPath `xml:"xpath"`
}

type assetXPath struct {
	Expr     string        `xml:"expr,attr"`
	Position string        `xml:"position,attr"`
	Links    []assetLink   `xml:"link"`
	Scripts  []assetScript `xml:"script"`
}

type assetLink struct {
	Rel  string `xml:"rel,attr"`
	Href string `xml:"href,attr"`
}

type assetScript struct {
	Type string `xml:"type,attr"`
	Src  string `xml:"src,attr"`
}

type bundle struct {
	stylesheets []string
	scripts     []string
}

// Assets regenerates views/assets.xml of mod.
//
// If the document already exists and the inherit_id of its last template
// names a bundle other than [BackendBundle] and [ReportBundle], every
// stylesheet and script of the module is pinned to that bundle. Otherwise
// files below a static directory go to [BackendBundle] and files below
// report or reports go to [ReportBundle]; everything else is not an asset.
// The default bundles never pin, so a document written from them is
// reproduced unchanged. References
// are written as /<module>/<relative path>. Bundles without references are
// left out, and the document is removed when no bundle remains.
func Assets(s *addons.Session, mod *manifest.Module) error {
	fsys := s.FS()
	docPath := path.Join(mod.Path, AssetsFile)

	pinned, err := pinnedBundle(fsys, docPath)
	if err != nil {
		return err
	}

	files, err := moduleFiles(fsys, mod.Path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "list files of %s", mod.Name)
	}

	bundles := make(map[string]*bundle)
	for _, rel := range files {
		ext := path.Ext(rel)
		if ext != ".css" && ext != ".less" && ext != ".js" {
			continue
		}
		var id string
		switch {
		case pinned != "":
			id = pinned
		case hasSegment(rel, "static"):
			id = BackendBundle
		case hasSegment(rel, "report", "reports"):
			id = ReportBundle
		default:
			continue
		}
		b := bundles[id]
		if b == nil {
			b = &bundle{}
			bundles[id] = b
		}
		ref := "/" + mod.Name + "/" + rel
		if ext == ".js" {
			b.scripts = append(b.scripts, ref)
		} else {
			b.stylesheets = append(b.stylesheets, ref)
		}
	}

	if len(bundles) == 0 {
		if exists, _ := afero.Exists(fsys, docPath); exists {
			s.Logger().Debug("removing asset document", "module", mod.Name)
			if err := fsys.Remove(docPath); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "remove %s", docPath)
			}
		}
		return nil
	}

	out, err := renderAssets(bundles)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "render %s", docPath)
	}
	if err := fsys.MkdirAll(path.Dir(docPath), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", path.Dir(docPath))
	}
	s.Logger().Debug("writing asset document", "module", mod.Name, "bundles", len(bundles))
	if err := afero.WriteFile(fsys, docPath, out, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", docPath)
	}
	return nil
}

// pinnedBundle returns the inherit_id of the last template in the document
// at docPath, or "" if there is no such document or template or the
// inherit_id is one of the default bundles.
func pinnedBundle(fsys afero.Fs, docPath string) (string, error) {
	data, err := afero.ReadFile(fsys, docPath)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "read %s", docPath)
	}

	var id string
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			if id == BackendBundle || id == ReportBundle {
				return "", nil
			}
			return id, nil
		}
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeManifestParse, err, "parse %s", docPath)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "template" {
			continue
		}
		for _, attr := range start.Attr {
			if attr.Name.Local == "inherit_id" {
				id = attr.Value
			}
		}
	}
}

func renderAssets(bundles map[string]*bundle) ([]byte, error) {
	var doc assetsDoc
	ids := make([]string, 0, len(bundles))
	for id := range bundles {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		b := bundles[id]
		t := assetTemplate{
			ID:        templateID(id),
			InheritID: id,
			XPath:     assetXPath{Expr: ".", Position: "inside"},
		}
		for _, href := range b.stylesheets {
			t.XPath.Links = append(t.XPath.Links, assetLink{Rel: "stylesheet", Href: href})
		}
		for _, src := range b.scripts {
			t.XPath.Scripts = append(t.XPath.Scripts, assetScript{Type: "text/javascript", Src: src})
		}
		doc.Data.Templates = append(doc.Data.Templates, t)
	}

	out, err := xml.MarshalIndent(doc, "", "    ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

// templateID is the last dotted component of a bundle id.
func templateID(inheritID string) string {
	if i := strings.LastIndex(inheritID, "."); i >= 0 {
		return inheritID[i+1:]
	}
	return inheritID
}
