// Package record loads and enumerates the entity records stored as JSON
// files under the data directory. Identity is derived from file location,
// never from the document body.
package record

import (
	"path/filepath"
	"strings"
)

// Type tags the two entity kinds.
type Type string

const (
	TypePerson  Type = "person"
	TypeProject Type = "project"
)

// Plural returns the entity's collection name, used for directory and URL
// segments.
func (t Type) Plural() string {
	if t == TypePerson {
		return "people"
	}
	return "projects"
}

// descriptor captures an entity's on-disk naming convention.
type descriptor struct {
	glob    string
	pathFor func(slug string) string
	slugOf  func(path string) string
}

var descriptors = map[Type]descriptor{
	TypePerson: {
		glob: "*.json",
		pathFor: func(slug string) string {
			return slug + ".json"
		},
		slugOf: func(path string) string {
			return strings.TrimSuffix(filepath.Base(path), ".json")
		},
	},
	TypeProject: {
		glob: filepath.Join("*", "project.json"),
		pathFor: func(slug string) string {
			return filepath.Join(slug, "project.json")
		},
		slugOf: func(path string) string {
			return filepath.Base(filepath.Dir(path))
		},
	},
}

// Record is one loaded, validated entity document.
type Record struct {
	Type Type
	Slug string
	Path string
	Data map[string]any
}

// Ref points at a record's backing file without loading it.
type Ref struct {
	Slug string
	Path string
}
