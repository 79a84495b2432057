package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

type Storer[T ValidatingSpec] interface {
	Save(string, T) error
	Get(string) T
	GetAll() map[string]T
}

type FileStore[T ValidatingSpec] struct {
	path    string
	schema  *jsonschema.Schema
	records map[string]T

	mu sync.RWMutex
}

type FileStoreOpt func(*fileStoreOptions)

type fileStoreOptions struct {
	schema *jsonschema.Schema
}

// WithSchema validates every asset document against schema before decoding it.
func WithSchema(schema *jsonschema.Schema) FileStoreOpt {
	return func(o *fileStoreOptions) {
		o.schema = schema
	}
}

func NewFileStore[T ValidatingSpec](path string, opts ...FileStoreOpt) (*FileStore[T], error) {
	o := &fileStoreOptions{}
	for _, opt := range opts {
		opt(o)
	}

	s := &FileStore[T]{
		path:    path,
		schema:  o.schema,
		records: map[string]T{},
	}

	err := s.load()
	if err != nil {
		return nil, err
	}

	return s, nil
}

func (s *FileStore[T]) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = map[string]T{}

	return filepath.Walk(s.path, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if info.IsDir() || !isAssetFile(path) {
			return nil
		}

		asset, err := s.loadAsset(path)
		if err != nil {
			return fmt.Errorf("loading %s: %w", filepath.Base(path), err)
		}

		err = asset.Validate()
		if err != nil {
			return fmt.Errorf("validating %s: %w", filepath.Base(path), err)
		}

		if _, ok := s.records[asset.Id()]; ok {
			return fmt.Errorf("duplicate key detected: %s", asset.Id())
		}

		s.records[asset.Id()] = asset.Spec
		return nil
	})
}

func isAssetFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// Save validates o, caches it and writes it to <id>.json under the store's path.
func (s *FileStore[T]) Save(id string, o T) error {
	asset := &Asset[T]{
		Version:    AssetVersion,
		Identifier: id,
		Spec:       o,
	}
	if err := asset.Validate(); err != nil {
		return fmt.Errorf("validating %q: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[id] = o

	jsonData, err := json.MarshalIndent(asset, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling json: %w", err)
	}

	return atomicWrite(s.filePath(asset.Id()), jsonData, 0644)
}

// atomicWrite writes data to a temp file then renames it to the target path.
func atomicWrite(path string, data []byte, perm os.FileMode) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, perm); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		if removeErr := os.Remove(tmp); removeErr != nil {
			slog.Warn("failed to remove temp file after rename failure", "path", tmp, "error", removeErr)
		}
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

func (s *FileStore[T]) Get(id string) T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.records[id]
}

func (s *FileStore[T]) GetAll() map[string]T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vals := make(map[string]T, len(s.records))
	for id, v := range s.records {
		vals[id] = v
	}

	return vals
}

// Ids returns every stored key in sorted order.
func (s *FileStore[T]) Ids() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *FileStore[T]) filePath(id string) string {
	return filepath.Join(s.path, fmt.Sprintf("%s.json", id))
}

func (s *FileStore[T]) loadAsset(path string) (*Asset[T], error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	jsonData, err := toJSON(path, raw)
	if err != nil {
		return nil, err
	}

	if s.schema != nil {
		var doc any
		if err := json.Unmarshal(jsonData, &doc); err != nil {
			return nil, fmt.Errorf("decoding document: %w", err)
		}
		if err := s.schema.Validate(doc); err != nil {
			return nil, fmt.Errorf("schema: %w", err)
		}
	}

	asset := &Asset[T]{}
	err = json.Unmarshal(jsonData, asset)
	if err != nil {
		return nil, fmt.Errorf("unmarshalling asset: %w", err)
	}

	return asset, nil
}

// toJSON converts yaml documents to json. Json passes through untouched.
func toJSON(path string, raw []byte) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc any
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("unmarshalling yaml: %w", err)
		}
		out, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("converting yaml: %w", err)
		}
		return out, nil
	default:
		return raw, nil
	}
}
