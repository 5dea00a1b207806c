package export

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	apperrors "github.com/tanzeel291994/HGT-BioGuard/pkg/errors"
	"github.com/tanzeel291994/HGT-BioGuard/pkg/hetero"
)

// UnmarshalJSON decodes the node list back into its concrete record types,
// dispatching on each node's "type" tag.
func (d *Document) UnmarshalJSON(data []byte) error {
	var raw struct {
		Nodes    []json.RawMessage `json:"nodes"`
		Links    []Link            `json:"links"`
		Metadata Metadata          `json:"metadata"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	d.Links = raw.Links
	d.Metadata = raw.Metadata
	d.Nodes = make([]Node, 0, len(raw.Nodes))
	for _, msg := range raw.Nodes {
		var tag struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(msg, &tag); err != nil {
			return err
		}
		switch tag.Type {
		case hetero.NodeAirport:
			var rec AirportRecord
			if err := json.Unmarshal(msg, &rec); err != nil {
				return err
			}
			d.Nodes = append(d.Nodes, rec)
		case hetero.NodeLineage:
			var rec LineageRecord
			if err := json.Unmarshal(msg, &rec); err != nil {
				return err
			}
			d.Nodes = append(d.Nodes, rec)
		default:
			return apperrors.New(apperrors.ErrCodeInvalidFormat, "unknown node type %q", tag.Type)
		}
	}
	return nil
}

// Marshal renders doc as indented JSON, matching the on-disk format
// produced by [ExportJSON].
func Marshal(doc *Document) ([]byte, error) {
	if doc == nil {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "document is nil")
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "failed to marshal export document")
	}
	return data, nil
}

// WriteJSON writes doc to w as indented JSON with a trailing newline.
func WriteJSON(doc *Document, w io.Writer) error {
	data, err := Marshal(doc)
	if err != nil {
		return err
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, err, "failed to write export document")
	}
	return nil
}

// ExportJSON writes doc to path, creating parent directories as needed.
// The document is marshaled fully before the file is touched, so a marshal
// failure leaves no partial output behind.
func ExportJSON(doc *Document, path string) error {
	data, err := Marshal(doc)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInternal, err, "failed to create output directory")
		}
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, err, "failed to write output file")
	}
	return nil
}
