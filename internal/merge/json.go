package merge

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Object is a JSON object that remembers key order, so merged manifests keep
// the layout their first contributor chose.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{values: make(map[string]any)}
}

// Keys returns the keys in order.
func (o *Object) Keys() []string {
	return append([]string(nil), o.keys...)
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Set stores value under key. New keys are appended; existing keys keep
// their position.
func (o *Object) Set(key string, value any) {
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Len returns the number of keys.
func (o *Object) Len() int {
	return len(o.keys)
}

// ParseObject decodes data into an ordered object. Blank input yields an
// empty object. Nested objects decode as *Object, arrays as []any and
// numbers as json.Number.
func ParseObject(data string) (*Object, error) {
	if strings.TrimSpace(data) == "" {
		return NewObject(), nil
	}

	dec := json.NewDecoder(strings.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after top-level value")
	}

	obj, ok := v.(*Object)
	if !ok {
		return nil, fmt.Errorf("top-level value is not an object")
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
			obj := NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key is not a string")
				}
				val, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				obj.Set(key, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return obj, nil
		case '[':
			arr := []any{}
			for dec.More() {
				val, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return arr, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", t)
		}
	default:
		return t, nil
	}
}

// Marshal encodes the object with two-space indentation and a trailing
// newline. HTML characters are not escaped.
func (o *Object) Marshal() (string, error) {
	var buf bytes.Buffer
	if err := writeValue(&buf, o, 0); err != nil {
		return "", err
	}
	buf.WriteByte('\n')
	return buf.String(), nil
}

func writeValue(buf *bytes.Buffer, v any, depth int) error {
	switch val := v.(type) {
	case *Object:
		if val.Len() == 0 {
			buf.WriteString("{}")
			return nil
		}
		buf.WriteString("{\n")
		for i, key := range val.keys {
			indent(buf, depth+1)
			if err := writeScalar(buf, key); err != nil {
				return err
			}
			buf.WriteString(": ")
			if err := writeValue(buf, val.values[key], depth+1); err != nil {
				return err
			}
			if i < len(val.keys)-1 {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		indent(buf, depth)
		buf.WriteByte('}')
	case []any:
		if len(val) == 0 {
			buf.WriteString("[]")
			return nil
		}
		buf.WriteString("[\n")
		for i, item := range val {
			indent(buf, depth+1)
			if err := writeValue(buf, item, depth+1); err != nil {
				return err
			}
			if i < len(val)-1 {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		indent(buf, depth)
		buf.WriteByte(']')
	default:
		return writeScalar(buf, val)
	}
	return nil
}

func writeScalar(buf *bytes.Buffer, v any) error {
	var scratch bytes.Buffer
	enc := json.NewEncoder(&scratch)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(scratch.Bytes(), []byte("\n")))
	return nil
}

func indent(buf *bytes.Buffer, depth int) {
	for range depth {
		buf.WriteString("  ")
	}
}

// MergeObjects merges src into dst in place.
//
// A shallow merge unions top-level keys. When both sides hold an object under
// the same key, that object's own keys are unioned once more with src winning,
// which is what package.json sections like "scripts" expect. Anything nested
// deeper, and every array or scalar, is replaced. A deep merge recurses into
// objects at every level and concatenates arrays.
func MergeObjects(dst, src *Object, deep bool) {
	for _, key := range src.keys {
		incoming := src.values[key]
		if !deep {
			cur, curOK := dst.values[key].(*Object)
			next, nextOK := incoming.(*Object)
			if curOK && nextOK {
				for _, k := range next.keys {
					cur.Set(k, next.values[k])
				}
				continue
			}
			dst.Set(key, incoming)
			continue
		}

		existing, ok := dst.values[key]
		if !ok {
			dst.Set(key, incoming)
			continue
		}

		switch cur := existing.(type) {
		case *Object:
			if next, ok := incoming.(*Object); ok {
				MergeObjects(cur, next, true)
				continue
			}
		case []any:
			if next, ok := incoming.([]any); ok {
				merged := make([]any, 0, len(cur)+len(next))
				merged = append(merged, cur...)
				merged = append(merged, next...)
				dst.Set(key, merged)
				continue
			}
		}
		dst.Set(key, incoming)
	}
}

func mergeJSON(path, acc string, c Contribution, deep bool) (string, error) {
	base, err := ParseObject(acc)
	if err != nil {
		return "", &InvalidJSONError{Path: path, Err: err}
	}
	incoming, err := ParseObject(c.Content)
	if err != nil {
		return "", &InvalidJSONError{Path: path, PluginID: c.PluginID, Err: err}
	}

	MergeObjects(base, incoming, deep)
	return base.Marshal()
}
