package katalog

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Object is a JSON object whose member order survives decode, transform and
// re-encode. The interchange format the catalog round-trips to is
// byte-order-sensitive, so the default map-backed decoding is not usable for
// node documents. Values are one of: *Object, []any, string, json.Number,
// bool, nil.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject returns an empty ordered object.
func NewObject() *Object {
	return &Object{values: make(map[string]any)}
}

// Len returns the number of members.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Keys returns the member names in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Has reports whether the member exists.
func (o *Object) Has(key string) bool {
	if o == nil {
		return false
	}
	_, ok := o.values[key]
	return ok
}

// Get returns the raw member value.
func (o *Object) Get(key string) (any, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.values[key]
	return v, ok
}

// Set updates a member in place, appending it when absent.
func (o *Object) Set(key string, value any) {
	if o.values == nil {
		o.values = make(map[string]any)
	}
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Delete removes a member, reporting whether it existed.
func (o *Object) Delete(key string) bool {
	if o == nil {
		return false
	}
	if _, ok := o.values[key]; !ok {
		return false
	}
	delete(o.values, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
	return true
}

// ObjectAt returns the member as a nested object.
func (o *Object) ObjectAt(key string) (*Object, bool) {
	v, ok := o.Get(key)
	if !ok {
		return nil, false
	}
	obj, ok := v.(*Object)
	return obj, ok
}

// ListAt returns the member as a list. A single nested object is normalized
// to a one-element list; the upstream XML conversion collapses one-element
// sequences into a bare object, so both spellings mean the same thing.
func (o *Object) ListAt(key string) ([]any, bool) {
	v, ok := o.Get(key)
	if !ok {
		return nil, false
	}
	switch t := v.(type) {
	case []any:
		return t, true
	case *Object:
		return []any{t}, true
	default:
		return nil, false
	}
}

// StringAt returns the member's scalar text. Numbers (the upstream format
// sometimes emits "@_nr" as a bare number) are rendered verbatim.
func (o *Object) StringAt(key string) (string, bool) {
	v, ok := o.Get(key)
	if !ok {
		return "", false
	}
	return ScalarText(v), true
}

// ScalarText renders a scalar value the way member comparison expects it:
// strings verbatim, numbers as their literal text, nil as the empty string.
func ScalarText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		if t {
			return "true"
		}
		return "false"
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}

// Clone returns a deep copy. Filters never mutate their inputs; every
// transformation works on clones so callers can reuse the original tree.
func (o *Object) Clone() *Object {
	if o == nil {
		return nil
	}
	out := &Object{
		keys:   make([]string, len(o.keys)),
		values: make(map[string]any, len(o.values)),
	}
	copy(out.keys, o.keys)
	for k, v := range o.values {
		out.values[k] = CloneValue(v)
	}
	return out
}

// CloneValue deep-copies any document value.
func CloneValue(v any) any {
	switch t := v.(type) {
	case *Object:
		return t.Clone()
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = CloneValue(item)
		}
		return out
	default:
		return v
	}
}

// MarshalJSON encodes members in insertion order.
func (o *Object) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		if err := encodeValue(&buf, o.values[key]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func encodeValue(buf *bytes.Buffer, v any) error {
	switch t := v.(type) {
	case *Object:
		b, err := t.MarshalJSON()
		if err != nil {
			return err
		}
		buf.Write(b)
	case []any:
		buf.WriteByte('[')
		for i, item := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeValue(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return err
		}
		buf.Write(b)
	}
	return nil
}

// UnmarshalJSON decodes a JSON object, retaining member order.
func (o *Object) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	delim, ok := tok.(json.Delim)
	if !ok || delim != '{' {
		return fmt.Errorf("document is not a JSON object")
	}
	decoded, err := decodeObject(dec)
	if err != nil {
		return err
	}
	*o = *decoded
	return nil
}

// DecodeDocument parses a complete node document.
func DecodeDocument(data []byte) (*Object, error) {
	obj := NewObject()
	if err := obj.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return obj, nil
}

// DecodeDocumentList parses a JSON array of node documents (the shape of a
// full catalog payload: one entry per LG).
func DecodeDocumentList(data []byte) ([]*Object, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok || delim != '[' {
		return nil, fmt.Errorf("catalog payload is not a JSON array")
	}
	var out []*Object
	for dec.More() {
		v, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		obj, ok := v.(*Object)
		if !ok {
			return nil, fmt.Errorf("catalog entry %d is not a JSON object", len(out))
		}
		out = append(out, obj)
	}
	if _, err := dec.Token(); err != nil { // consume closing ]
		return nil, err
	}
	return out, nil
}

// decodeObject consumes members until the matching '}'. The opening '{' must
// already have been read.
func decodeObject(dec *json.Decoder) (*Object, error) {
	obj := NewObject()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected object key token %v", keyTok)
		}
		value, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		obj.Set(key, value)
	}
	if _, err := dec.Token(); err != nil { // consume closing }
		return nil, err
	}
	return obj, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			var list []any
			for dec.More() {
				item, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				list = append(list, item)
			}
			if _, err := dec.Token(); err != nil { // consume closing ]
				return nil, err
			}
			if list == nil {
				list = []any{}
			}
			return list, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %v", t)
		}
	default:
		return tok, nil
	}
}
