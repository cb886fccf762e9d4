// Package bundleformat encodes chart bundles for files and pipes. JSON is
// the default format; MessagePack is available for compact storage. Both
// encoders use the json struct tags, so the two formats carry identical
// field names.
package bundleformat

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/navagraha/jyotish/pkg/engine"
)

// Format identifies an encoding.
type Format string

const (
	JSON    Format = "json"
	MsgPack Format = "msgpack"
)

// ParseFormat validates a format name from a flag or query value. Empty
// selects JSON.
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case JSON, "":
		return JSON, nil
	case MsgPack:
		return MsgPack, nil
	}
	return "", fmt.Errorf("bundleformat: unknown format %q", name)
}

// Formatter encodes bundles in a fixed format.
type Formatter struct {
	format Format
	indent bool
}

// NewFormatter creates a formatter for the given format.
func NewFormatter(format Format) *Formatter {
	return &Formatter{format: format}
}

// WithIndent makes JSON output human-readable. MessagePack ignores it.
func (f *Formatter) WithIndent() *Formatter {
	f.indent = true
	return f
}

// Write encodes the bundle to w.
func (f *Formatter) Write(w io.Writer, bundle *engine.ChartBundle) error {
	switch f.format {
	case MsgPack:
		enc := msgpack.NewEncoder(w)
		enc.SetCustomStructTag("json")
		return enc.Encode(bundle)
	default:
		enc := json.NewEncoder(w)
		if f.indent {
			enc.SetIndent("", "  ")
		}
		return enc.Encode(bundle)
	}
}

// Read decodes a bundle previously written in the formatter's format.
func (f *Formatter) Read(r io.Reader) (*engine.ChartBundle, error) {
	var bundle engine.ChartBundle
	switch f.format {
	case MsgPack:
		dec := msgpack.NewDecoder(r)
		dec.SetCustomStructTag("json")
		if err := dec.Decode(&bundle); err != nil {
			return nil, err
		}
	default:
		if err := json.NewDecoder(r).Decode(&bundle); err != nil {
			return nil, err
		}
	}
	return &bundle, nil
}
