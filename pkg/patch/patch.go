// Package patch builds RFC 6902 JSON Patch documents from flat key/value
// objects and applies them to JSON documents.
package patch

import (
	"encoding/json"
	"fmt"
	"sort"

	jsonpatch "github.com/evanphx/json-patch/v5"
)

// Op is a JSON Patch operation kind.
type Op string

const (
	OpAdd     Op = "add"
	OpRemove  Op = "remove"
	OpReplace Op = "replace"
	OpCopy    Op = "copy"
	OpMove    Op = "move"
	OpTest    Op = "test"
)

// Parameter is a single JSON Patch operation.
type Parameter struct {
	Op    Op
	Path  string
	Value any
	From  string
}

// MarshalJSON emits the RFC 6902 wire form. The value member is included
// exactly when the operation carries one (add, replace, test), so zero
// values like 0, false, and null survive encoding.
func (p Parameter) MarshalJSON() ([]byte, error) {
	type wire struct {
		Op    Op     `json:"op"`
		Path  string `json:"path"`
		Value *any   `json:"value,omitempty"`
		From  string `json:"from,omitempty"`
	}
	w := wire{Op: p.Op, Path: p.Path, From: p.From}
	switch p.Op {
	case OpAdd, OpReplace, OpTest:
		v := p.Value
		w.Value = &v
	}
	return json.Marshal(w)
}

// undefinedSentinel is the type of Undefined. Unexported so the sentinel
// cannot be forged.
type undefinedSentinel struct{}

// Undefined marks a field as absent. Fields whose value is Undefined are
// skipped entirely by FromFields, unlike nil, which patches the field to
// JSON null.
var Undefined any = undefinedSentinel{}

// FromFields converts a flat key/value object into a list of replace
// operations, one per field whose value is not Undefined, with the path
// "/" + key. Keys are emitted in sorted order so the result is
// deterministic. No nested-path flattening and no validation is performed.
func FromFields(fields map[string]any) []Parameter {
	keys := make([]string, 0, len(fields))
	for k, v := range fields {
		// A type check rather than ==, which would panic on uncomparable
		// values like slices.
		if _, skip := v.(undefinedSentinel); skip {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	params := make([]Parameter, 0, len(keys))
	for _, k := range keys {
		params = append(params, Parameter{
			Op:    OpReplace,
			Path:  "/" + k,
			Value: fields[k],
		})
	}
	return params
}

// Apply encodes params as a JSON Patch and applies it to doc, returning the
// patched document.
func Apply(doc []byte, params []Parameter) ([]byte, error) {
	encoded, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("encoding patch: %w", err)
	}
	decoded, err := jsonpatch.DecodePatch(encoded)
	if err != nil {
		return nil, fmt.Errorf("decoding patch: %w", err)
	}
	out, err := decoded.Apply(doc)
	if err != nil {
		return nil, fmt.Errorf("applying patch: %w", err)
	}
	return out, nil
}
