package template

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"photoframe/internal/pkg/errors"
)

// Catalog serves the template files shipped in a directory. Files are read
// and validated on every call.
type Catalog struct {
	dir string
}

// Entry summarizes one catalog file. Err is set when the file failed to load.
type Entry struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
	File string `json:"file"`
	Err  error  `json:"-"`
}

func NewCatalog(dir string) *Catalog {
	return &Catalog{dir: dir}
}

func (c *Catalog) Dir() string { return c.dir }

// List loads every *.json file in the catalog directory, sorted by file name.
func (c *Catalog) List() ([]Entry, error) {
	files, err := filepath.Glob(filepath.Join(c.dir, "*.json"))
	if err != nil {
		return nil, errors.Wrap(err, "catalog.list", "invalid catalog pattern")
	}
	if _, err := os.Stat(c.dir); err != nil {
		return nil, errors.Wrap(err, "catalog.list", "catalog directory unavailable").
			WithField("dir", c.dir)
	}
	sort.Strings(files)

	out := make([]Entry, 0, len(files))
	for _, f := range files {
		e := Entry{File: filepath.Base(f)}
		doc, err := Load(f)
		if err != nil {
			e.Err = err
		} else {
			e.ID = doc.ID()
			e.Name = doc.Name()
		}
		out = append(out, e)
	}
	return out, nil
}

// Get loads the template stored as <id>.json. A file whose own id differs
// from its name is reported as not found.
func (c *Catalog) Get(id string) (Document, error) {
	id = strings.TrimSpace(id)
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return nil, errors.ValidationField("id", "invalid template id")
	}
	doc, err := Load(filepath.Join(c.dir, id+".json"))
	if err != nil {
		return nil, err
	}
	if doc.ID() != id {
		return nil, errors.NotFound("template", id).WithField("file_id", doc.ID())
	}
	return doc, nil
}
