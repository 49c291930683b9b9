package record

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"almanac/internal/schema"
	pkgerrors "almanac/pkg/errors"
)

// ErrNotFound keeps missing-record lookups consistent across callers. A
// missing record is a normal outcome; only validation failures are errors
// worth surfacing loudly.
var ErrNotFound = pkgerrors.New(pkgerrors.CodeNotFound, "record not found")

// Store reads entity records from the data directory, validating every
// document on load. Records are read fresh per call; there is no record
// cache.
type Store struct {
	dataDir   string
	validator *schema.Validator
}

// NewStore creates a Store rooted at dataDir, validating loads with the
// given validator.
func NewStore(dataDir string, validator *schema.Validator) *Store {
	return &Store{dataDir: dataDir, validator: validator}
}

// Enumerate lists the backing files for all records of the given type, in
// stable slug order. It does not load or validate them.
func (s *Store) Enumerate(t Type) ([]Ref, error) {
	desc := descriptors[t]
	matches, err := filepath.Glob(filepath.Join(s.dataDir, t.Plural(), desc.glob))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal,
			fmt.Sprintf("enumerating %s records", t), err)
	}
	sort.Strings(matches)

	refs := make([]Ref, 0, len(matches))
	for _, path := range matches {
		refs = append(refs, Ref{Slug: desc.slugOf(path), Path: path})
	}
	return refs, nil
}

// Load reads and validates one record from its backing file.
func (s *Store) Load(t Type, ref Ref) (*Record, error) {
	raw, err := os.ReadFile(ref.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal,
			fmt.Sprintf("reading %s %q", t, ref.Slug), err)
	}

	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInvalidRecord,
			fmt.Sprintf("%s %q is not valid JSON", t, ref.Slug), err)
	}
	if err := s.validator.Validate(string(t), data); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeOf(err),
			fmt.Sprintf("%s %q", t, ref.Slug), err)
	}

	return &Record{Type: t, Slug: ref.Slug, Path: ref.Path, Data: data}, nil
}

// ListAll loads every record of the given type. The first invalid record
// aborts the listing with its validation error; silently skipping bad
// records would hide corrupted data from API consumers.
func (s *Store) ListAll(t Type) ([]*Record, error) {
	refs, err := s.Enumerate(t)
	if err != nil {
		return nil, err
	}

	records := make([]*Record, 0, len(refs))
	for _, ref := range refs {
		rec, err := s.Load(t, ref)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// GetByID loads one record by slug, computing the expected path from the
// entity's naming convention. A missing file yields ErrNotFound.
func (s *Store) GetByID(t Type, slug string) (*Record, error) {
	if !validSlug(slug) {
		return nil, ErrNotFound
	}
	path := filepath.Join(s.dataDir, t.Plural(), descriptors[t].pathFor(slug))
	return s.Load(t, Ref{Slug: slug, Path: path})
}

// validSlug rejects anything that could escape the data directory.
func validSlug(slug string) bool {
	if slug == "" || slug == "." || slug == ".." {
		return false
	}
	return !strings.ContainsAny(slug, `/\`)
}
