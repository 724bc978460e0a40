package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/martialmarel/linkrank/pkg/graph"
)

// WriteJSON encodes n in the name-based JSON format and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(n graph.Named, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(fromNamed(n)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteTOML encodes n in the name-based TOML format and writes it to w.
func WriteTOML(n graph.Named, w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(fromNamed(n)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportFile writes n to path, picking the encoder from the file extension.
func ExportFile(n graph.Named, path string) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if format == FormatTOML {
		return WriteTOML(n, f)
	}
	return WriteJSON(n, f)
}
