// Package schema validates raw records against per-entity JSON Schemas.
// A schema is compiled once on first use and cached for the process
// lifetime; picking up schema edits requires a restart.
package schema

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	pkgerrors "almanac/pkg/errors"
)

// Validator owns the compiled-schema cache. Construct one at startup and
// hand it to the record store; it is safe for concurrent use.
type Validator struct {
	dir string

	mu       sync.RWMutex
	compiled map[string]*jsonschema.Schema
}

// NewValidator creates a Validator reading schema files from dir. Each
// entity's schema lives at <dir>/<entity>.schema.json.
func NewValidator(dir string) *Validator {
	return &Validator{
		dir:      dir,
		compiled: make(map[string]*jsonschema.Schema),
	}
}

// Validate checks doc against the named entity's schema, including format
// assertions such as email syntax. A violation comes back as an
// invalid_record error whose message spells out the broken constraint.
func (v *Validator) Validate(entity string, doc any) error {
	sch, err := v.schemaFor(entity)
	if err != nil {
		return err
	}
	if err := sch.Validate(doc); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInvalidRecord,
			fmt.Sprintf("invalid %s record", entity), err)
	}
	return nil
}

func (v *Validator) schemaFor(entity string) (*jsonschema.Schema, error) {
	v.mu.RLock()
	sch, ok := v.compiled[entity]
	v.mu.RUnlock()
	if ok {
		return sch, nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if sch, ok := v.compiled[entity]; ok {
		return sch, nil
	}

	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat()
	path := filepath.Join(v.dir, entity+".schema.json")
	sch, err := compiler.Compile(path)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal,
			fmt.Sprintf("compiling schema for %s", entity), err)
	}
	v.compiled[entity] = sch
	return sch, nil
}
