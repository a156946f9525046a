package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"fwlens/pkg/schema"
)

// ErrNoSchemaFile is returned by FileSchemaStore.Load when the file does not exist.
var ErrNoSchemaFile = errors.New("schema file not found")

// SchemaStore abstracts where a schema is read from and written to, for testability.
type SchemaStore interface {
	Load() (schema.Schema, error)
	Save(schema.Schema) error
}

// schemaFile is the on-disk layout. A bare list of fields is accepted as well.
type schemaFile struct {
	Fields schema.Schema `yaml:"fields"`
}

// FileSchemaStore implements SchemaStore using a YAML file. JSON files parse as YAML.
type FileSchemaStore struct {
	File string
}

func NewFileSchemaStore(file string) *FileSchemaStore {
	return &FileSchemaStore{File: file}
}

// Load reads and validates the schema. Fields written by hand may omit ids and
// colors; those are filled in.
func (fs *FileSchemaStore) Load() (schema.Schema, error) {
	data, err := os.ReadFile(fs.File)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", fs.File, ErrNoSchemaFile)
		}
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}

	var doc schemaFile
	if err := yaml.Unmarshal(data, &doc); err != nil || doc.Fields == nil {
		var fields schema.Schema
		if listErr := yaml.Unmarshal(data, &fields); listErr != nil {
			if err == nil {
				err = listErr
			}
			return nil, fmt.Errorf("failed to parse schema file %s: %w", fs.File, err)
		}
		doc.Fields = fields
	}

	s := fillDefaults(doc.Fields)
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("schema file %s: %w", fs.File, err)
	}
	return s, nil
}

func (fs *FileSchemaStore) Save(s schema.Schema) error {
	if err := s.Validate(); err != nil {
		return err
	}
	data, err := MarshalSchema(s)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(fs.File); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create schema directory: %w", err)
		}
	}
	return os.WriteFile(fs.File, data, 0o644)
}

// MarshalSchema encodes s in the schema file layout.
func MarshalSchema(s schema.Schema) ([]byte, error) {
	data, err := yaml.Marshal(schemaFile{Fields: s})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return data, nil
}

func fillDefaults(fields schema.Schema) schema.Schema {
	out := fields.Clone()
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = schema.NewID()
		}
		if out[i].Color == "" {
			out[i].Color = schema.ColorAt(i)
		}
	}
	return out
}

// InMemorySchemaStore implements SchemaStore for testing (no disk I/O).
type InMemorySchemaStore struct {
	mu     sync.Mutex
	schema schema.Schema
}

func NewInMemorySchemaStore() *InMemorySchemaStore {
	return &InMemorySchemaStore{}
}

// Load returns a copy of the saved schema, or ErrNoSchemaFile if nothing was saved.
func (ms *InMemorySchemaStore) Load() (schema.Schema, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.schema == nil {
		return nil, ErrNoSchemaFile
	}
	return ms.schema.Clone(), nil
}

func (ms *InMemorySchemaStore) Save(s schema.Schema) error {
	if err := s.Validate(); err != nil {
		return err
	}
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.schema = s.Clone()
	return nil
}
