package jsonval

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Parse decodes a single JSON document. Object member order is preserved
// and numbers are kept as decimal text, so integers larger than 2^53
// survive without precision loss.
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := parseValue(dec)
	if err != nil {
		return Null(), err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Null(), errors.New("trailing data after JSON document")
	}
	return v, nil
}

func parseValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Null(), fmt.Errorf("failed to parse JSON: %w", err)
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return parseObject(dec)
		case '[':
			return parseArray(dec)
		default:
			return Null(), fmt.Errorf("unexpected delimiter %q", t.String())
		}
	case bool:
		return Bool(t), nil
	case json.Number:
		return Number(t), nil
	case string:
		return String(t), nil
	case nil:
		return Null(), nil
	default:
		return Null(), fmt.Errorf("unexpected token %v", tok)
	}
}

func parseObject(dec *json.Decoder) (Value, error) {
	obj := Object()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Null(), fmt.Errorf("failed to parse object key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return Null(), fmt.Errorf("object key is not a string: %v", tok)
		}
		val, err := parseValue(dec)
		if err != nil {
			return Null(), err
		}
		obj.Set(key, val)
	}
	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return Null(), fmt.Errorf("unterminated object: %w", err)
	}
	return obj, nil
}

func parseArray(dec *json.Decoder) (Value, error) {
	arr := Array()
	for dec.More() {
		val, err := parseValue(dec)
		if err != nil {
			return Null(), err
		}
		arr.Append(val)
	}
	if _, err := dec.Token(); err != nil {
		return Null(), fmt.Errorf("unterminated array: %w", err)
	}
	return arr, nil
}

// UnmarshalJSON implements [json.Unmarshaler].
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// MarshalJSON implements [json.Marshaler] with standard escaping only.
func (v Value) MarshalJSON() ([]byte, error) {
	s, err := Encode(v, EncodeOptions{})
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}
