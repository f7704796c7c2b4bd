package graph

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	errs "github.com/matzehuels/tagmagic/pkg/errors"
	"github.com/matzehuels/tagmagic/pkg/hierarchy"
	"github.com/matzehuels/tagmagic/pkg/tag"
)

// =============================================================================
// Hierarchy Serialization API
// =============================================================================

// MarshalHierarchy converts a hierarchy to indented JSON bytes.
func MarshalHierarchy(h *hierarchy.Hierarchy) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteHierarchy(h, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteHierarchy writes a hierarchy as JSON to an io.Writer.
func WriteHierarchy(h *hierarchy.Hierarchy, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromHierarchy(h)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteHierarchyFile writes a hierarchy to a JSON file.
func WriteHierarchyFile(h *hierarchy.Hierarchy, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteHierarchy(h, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadDescriptors decodes a JSON graph into descriptors ready for loading.
// Unknown fields are rejected with INVALID_MANIFEST.
func ReadDescriptors(r io.Reader) ([]tag.Descriptor, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var g Graph
	if err := dec.Decode(&g); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidManifest, err, "decode graph")
	}
	return g.Descriptors()
}

// ReadDescriptorsFile reads a JSON graph file. A missing file fails with
// FILE_NOT_FOUND.
func ReadDescriptorsFile(path string) ([]tag.Descriptor, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "graph %s not found", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	descs, err := ReadDescriptors(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return descs, nil
}
