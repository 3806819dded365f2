package internal

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// member is one key of a JSON object together with the predicate result
// deciding whether it is written.
type member struct {
	key   string
	value any
	emit  bool
}

// always emits the key regardless of its value.
func always(key string, value any) member {
	return member{key: key, value: value, emit: true}
}

// whenTrue emits a boolean only when it is set.
func whenTrue(key string, value bool) member {
	return member{key: key, value: value, emit: value}
}

// whenPresent emits the pointed-to value when the pointer is non-nil.
func whenPresent[T any](key string, value *T) member {
	if value == nil {
		return member{key: key}
	}
	return member{key: key, value: *value, emit: true}
}

// whenNonEmpty emits a string only when it is not empty.
func whenNonEmpty(key, value string) member {
	return member{key: key, value: value, emit: value != ""}
}

// marshalObject writes the emitted members in order as a JSON object.
func marshalObject(members ...member) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	written := 0
	for _, m := range members {
		if !m.emit {
			continue
		}
		if written > 0 {
			buf.WriteByte(',')
		}
		if err := encodeValue(&buf, m.key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := encodeValue(&buf, m.value); err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", m.key, err)
		}
		written++
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// encodeValue appends v without HTML escaping; URLs keep their literal '&'.
func encodeValue(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	// Encoder terminates every value with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}

// marshalCompact serializes v as a single line without HTML escaping.
func marshalCompact(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeValue(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeRecord unmarshals interchange JSON and converts decoding failures
// into a ParseError naming the offending key.
func decodeRecord(source string, data []byte, v any) error {
	if exact, ok := exactKeys(data, reflect.TypeOf(v)); ok {
		data = exact
	}
	if err := json.Unmarshal(data, v); err != nil {
		return asParseError(source, err)
	}
	return nil
}

func asParseError(source string, err error) error {
	var perr *ParseError
	if errors.As(err, &perr) {
		return err
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &ParseError{Source: source, Key: typeErr.Field, Err: err}
	}
	return &ParseError{Source: source, Err: err}
}

// exactKeys drops object members whose name matches a field of t only when
// case is ignored, at every level of t. encoding/json would otherwise read
// "URL" as "url". ok is false when data does not parse.
func exactKeys(data []byte, t reflect.Type) ([]byte, bool) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == reflect.TypeOf(Session{}) {
		t = reflect.TypeOf(sessionJSON{})
	}

	trimmed := bytes.TrimSpace(data)
	switch {
	case t.Kind() == reflect.Struct && len(trimmed) > 0 && trimmed[0] == '{':
		var members map[string]json.RawMessage
		if err := json.Unmarshal(data, &members); err != nil {
			return nil, false
		}
		fields := jsonFieldTypes(t)
		changed := false
		for key, value := range members {
			ft, ok := fields[key]
			if !ok {
				if foldsToField(fields, key) {
					delete(members, key)
					changed = true
				}
				continue
			}
			exact, ok := exactKeys(value, ft)
			if !ok {
				return nil, false
			}
			if !bytes.Equal(exact, value) {
				members[key] = exact
				changed = true
			}
		}
		if !changed {
			return data, true
		}
		out, err := json.Marshal(members)
		return out, err == nil

	case t.Kind() == reflect.Slice && len(trimmed) > 0 && trimmed[0] == '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, false
		}
		changed := false
		for i, item := range items {
			exact, ok := exactKeys(item, t.Elem())
			if !ok {
				return nil, false
			}
			if !bytes.Equal(exact, item) {
				items[i] = exact
				changed = true
			}
		}
		if !changed {
			return data, true
		}
		out, err := json.Marshal(items)
		return out, err == nil
	}
	return data, true
}

// jsonFieldTypes maps the JSON member names of struct t to their types.
func jsonFieldTypes(t reflect.Type) map[string]reflect.Type {
	fields := make(map[string]reflect.Type, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		fields[name] = f.Type
	}
	return fields
}

func foldsToField(fields map[string]reflect.Type, key string) bool {
	for name := range fields {
		if strings.EqualFold(name, key) {
			return true
		}
	}
	return false
}
