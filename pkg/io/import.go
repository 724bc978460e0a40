package io

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"

	apperr "github.com/martialmarel/linkrank/pkg/errors"
	"github.com/martialmarel/linkrank/pkg/graph"
)

// ReadJSON decodes a JSON graph document from r.
//
// ReadJSON returns an error if:
//   - The JSON is malformed or has unknown fields (INVALID_FORMAT)
//   - A node has an empty or duplicate name (INVALID_GRAPH)
//   - A link references an unknown name or index (INVALID_GRAPH)
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (graph.Named, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var doc document
	if err := dec.Decode(&doc); err != nil {
		return graph.Named{}, apperr.Wrap(apperr.ErrCodeInvalidFormat, err, "decode json graph")
	}
	return doc.toNamed()
}

// ReadTOML decodes a TOML graph document from r.
// It reports the same errors as [ReadJSON]; undecoded keys are rejected.
func ReadTOML(r io.Reader) (graph.Named, error) {
	var doc document
	md, err := toml.NewDecoder(r).Decode(&doc)
	if err != nil {
		return graph.Named{}, apperr.Wrap(apperr.ErrCodeInvalidFormat, err, "decode toml graph")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return graph.Named{}, apperr.New(apperr.ErrCodeInvalidFormat,
			"decode toml graph: unknown key %q", undecoded[0].String())
	}
	return doc.toNamed()
}

// Read decodes a graph document from r in the given format.
func Read(r io.Reader, f Format) (graph.Named, error) {
	switch f {
	case FormatJSON:
		return ReadJSON(r)
	case FormatTOML:
		return ReadTOML(r)
	}
	return graph.Named{}, apperr.New(apperr.ErrCodeInvalidFormat, "unsupported format %q", f)
}

// ImportFile reads the graph file at path, picking the decoder from the file
// extension. A missing file yields FILE_NOT_FOUND.
func ImportFile(path string) (graph.Named, error) {
	format, err := FormatOf(path)
	if err != nil {
		return graph.Named{}, err
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return graph.Named{}, apperr.Wrap(apperr.ErrCodeFileNotFound, err, "graph file %s", path)
	}
	if err != nil {
		return graph.Named{}, apperr.Wrap(apperr.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()

	n, err := Read(f, format)
	if err != nil {
		return graph.Named{}, err
	}
	return n, nil
}
