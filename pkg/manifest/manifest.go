package manifest

import (
	"maps"

	"github.com/mt-software-de/wodoo/pkg/errors"
	"github.com/mt-software-de/wodoo/pkg/manifest/literal"
)

// List names a file-list field of a manifest.
type List string

// File-list fields. Data is the primary data list; platforms up to version 7
// use UpdateXML for the same purpose.
const (
	Data      List = "data"
	UpdateXML List = "update_xml"
	DemoXML   List = "demo_xml"
	Demo      List = "demo"
	QWeb      List = "qweb"
	JS        List = "js"
	CSS       List = "css"
	Test      List = "test"
)

// Flag names a boolean field of a manifest.
type Flag string

// Boolean fields.
const (
	Installable Flag = "installable"
	Application Flag = "application"
	Web         Flag = "web"
)

const (
	keyName         = "name"
	keyVersion      = "version"
	keyDepends      = "depends"
	keyAutoInstall  = "auto_install"
	keyExternalDeps = "external_dependencies"
)

var lists = []List{Data, UpdateXML, DemoXML, Demo, QWeb, JS, CSS, Test}

var flags = []Flag{Installable, Application, Web}

// Manifest is the parsed metadata of one module.
//
// Known fields are validated on [Decode] and read through typed accessors.
// Every other key is kept verbatim and returned by [Manifest.Extra], so a
// decode and [Manifest.Map] round trip never loses data. Keys absent from
// the source stay absent unless a setter writes them.
type Manifest struct {
	fields map[string]any
}

// New returns an empty manifest.
func New() *Manifest {
	return &Manifest{fields: make(map[string]any)}
}

// Decode validates the known fields of m and wraps it. The map is copied.
func Decode(m map[string]any) (*Manifest, error) {
	for _, key := range []string{keyName, keyVersion} {
		if err := expect(m, key, isString, "str"); err != nil {
			return nil, err
		}
	}
	if err := expect(m, keyDepends, isStringList, "list of str"); err != nil {
		return nil, err
	}
	for _, l := range lists {
		if err := expect(m, string(l), isStringList, "list of str"); err != nil {
			return nil, err
		}
	}
	for _, f := range flags {
		if err := expect(m, string(f), isBool, "bool"); err != nil {
			return nil, err
		}
	}
	if err := expect(m, keyAutoInstall, func(v any) bool { return isBool(v) || isStringList(v) }, "bool or list of str"); err != nil {
		return nil, err
	}
	if err := expect(m, keyExternalDeps, isDependencyDict, "dict of lists of str"); err != nil {
		return nil, err
	}
	return &Manifest{fields: deepCopy(m).(map[string]any)}, nil
}

func expect(m map[string]any, key string, ok func(any) bool, want string) error {
	v, present := m[key]
	if !present || ok(v) {
		return nil
	}
	return errors.New(errors.ErrCodeManifestParse, "field %q: expected %s, got %s", key, want, literal.TypeName(v))
}

func isString(v any) bool {
	_, ok := v.(string)
	return ok
}

func isBool(v any) bool {
	_, ok := v.(bool)
	return ok
}

func isStringList(v any) bool {
	items, ok := v.([]any)
	if !ok {
		return false
	}
	for _, item := range items {
		if !isString(item) {
			return false
		}
	}
	return true
}

func isDependencyDict(v any) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}
	for _, e := range m {
		if !isStringList(e) {
			return false
		}
	}
	return true
}

// Map returns a deep copy of all fields, suitable for [literal.Format].
func (m *Manifest) Map() map[string]any {
	return deepCopy(m.fields).(map[string]any)
}

// Clone returns an independent copy of m.
func (m *Manifest) Clone() *Manifest {
	return &Manifest{fields: m.Map()}
}

// Has reports whether key is present.
func (m *Manifest) Has(key string) bool {
	_, ok := m.fields[key]
	return ok
}

// Get returns the raw value of key.
func (m *Manifest) Get(key string) (any, bool) {
	v, ok := m.fields[key]
	return deepCopy(v), ok
}

// Set stores a raw value. Known fields must still satisfy their type.
func (m *Manifest) Set(key string, v any) error {
	next := maps.Clone(m.fields)
	next[key] = deepCopy(v)
	if _, err := Decode(next); err != nil {
		return err
	}
	m.fields[key] = deepCopy(v)
	return nil
}

// Extra returns the fields that have no typed accessor.
func (m *Manifest) Extra() map[string]any {
	known := map[string]bool{keyName: true, keyVersion: true, keyDepends: true, keyAutoInstall: true, keyExternalDeps: true}
	for _, l := range lists {
		known[string(l)] = true
	}
	for _, f := range flags {
		known[string(f)] = true
	}
	extra := make(map[string]any)
	for k, v := range m.fields {
		if !known[k] {
			extra[k] = deepCopy(v)
		}
	}
	return extra
}

// Name returns the human readable module title.
func (m *Manifest) Name() string {
	s, _ := m.fields[keyName].(string)
	return s
}

// Version returns the declared version, or "" if none is declared.
func (m *Manifest) Version() string {
	s, _ := m.fields[keyVersion].(string)
	return s
}

// SetVersion sets the declared version.
func (m *Manifest) SetVersion(v string) {
	m.fields[keyVersion] = v
}

// Depends returns the declared module dependencies in declaration order.
func (m *Manifest) Depends() []string {
	return stringList(m.fields[keyDepends])
}

// SetDepends replaces the declared dependencies.
func (m *Manifest) SetDepends(names []string) {
	m.fields[keyDepends] = anyList(names)
}

// Files returns a file-list field. A missing field yields nil.
func (m *Manifest) Files(l List) []string {
	return stringList(m.fields[string(l)])
}

// SetFiles replaces a file-list field. An empty list is written as [].
func (m *Manifest) SetFiles(l List, files []string) {
	m.fields[string(l)] = anyList(files)
}

// Flag returns a boolean field and whether it is present.
func (m *Manifest) Flag(f Flag) (value, present bool) {
	v, ok := m.fields[string(f)].(bool)
	return v, ok
}

// SetFlag sets a boolean field.
func (m *Manifest) SetFlag(f Flag, v bool) {
	m.fields[string(f)] = v
}

// IsInstallable reports the installable flag, which defaults to true.
func (m *Manifest) IsInstallable() bool {
	v, ok := m.Flag(Installable)
	return v || !ok
}

// AutoInstall reports whether the module is installed automatically once
// its dependencies are. Both the boolean and the list form enable it.
func (m *Manifest) AutoInstall() bool {
	switch v := m.fields[keyAutoInstall].(type) {
	case bool:
		return v
	case []any:
		return true
	}
	return false
}

// AutoInstallTriggers returns the modules that trigger automatic
// installation. With the boolean form these are all declared dependencies.
func (m *Manifest) AutoInstallTriggers() []string {
	if v, ok := m.fields[keyAutoInstall].([]any); ok {
		return stringList(v)
	}
	if m.AutoInstall() {
		return m.Depends()
	}
	return nil
}

// ExternalDependencies returns the external_dependencies entry of kind
// (for example "python" or "bin").
func (m *Manifest) ExternalDependencies(kind string) []string {
	deps, _ := m.fields[keyExternalDeps].(map[string]any)
	return stringList(deps[kind])
}

func stringList(v any) []string {
	items, _ := v.([]any)
	if items == nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func anyList(items []string) []any {
	out := make([]any, len(items))
	for i, s := range items {
		out[i] = s
	}
	return out
}

func deepCopy(v any) any {
	switch x := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(x))
		for k, e := range x {
			m[k] = deepCopy(e)
		}
		return m
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = deepCopy(e)
		}
		return out
	}
	return v
}
