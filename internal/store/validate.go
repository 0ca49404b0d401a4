package store

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed record.schema.json
var recordSchema []byte

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("record.schema.json", bytes.NewReader(recordSchema)); err != nil {
			compileErr = fmt.Errorf("load record schema: %w", err)
			return
		}
		compiledSchema, compileErr = compiler.Compile("record.schema.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("compile record schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// Validate checks a record against the persisted record schema.
func Validate(rec doctree.Record) error {
	s, err := schema()
	if err != nil {
		return err
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("decode record for validation: %w", err)
	}
	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("record does not match schema: %w", err)
	}
	return nil
}
