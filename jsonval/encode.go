package jsonval

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf16"
)

// EncodeOptions controls presentation details of the JSON output. The zero
// value produces compact JSON with standard escaping only.
type EncodeOptions struct {
	// EscapeHTML escapes the HTML-sensitive characters < > & ' " as
	// \uXXXX sequences so the output can be embedded in HTML.
	EscapeHTML bool

	// RawText emits slashes and non-ASCII characters literally. When set
	// it also disables EscapeHTML.
	RawText bool
}

// jsonNumberRE matches the JSON number grammar.
var jsonNumberRE = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// Encode renders a value as a single line of JSON text.
//
// Strings whose text is a safely representable JSON number are normalized
// to numbers: integer forms must fit int64, fraction/exponent forms must
// parse as a finite float64. Object keys are never normalized.
//
// Encoding fails only when a number value carries text that is not a valid
// JSON number.
func Encode(v Value, opts EncodeOptions) (string, error) {
	var sb strings.Builder
	if err := encodeValue(&sb, v, opts); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func encodeValue(sb *strings.Builder, v Value, opts EncodeOptions) error {
	switch v.kind {
	case KindNull:
		sb.WriteString("null")
	case KindBool:
		if v.b {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case KindNumber:
		s := string(v.num)
		if !jsonNumberRE.MatchString(s) {
			return fmt.Errorf("invalid number %q", s)
		}
		sb.WriteString(s)
	case KindString:
		if numericString(v.str) {
			sb.WriteString(v.str)
		} else {
			encodeString(sb, v.str, opts)
		}
	case KindArray:
		sb.WriteByte('[')
		for i, e := range v.arr {
			if i > 0 {
				sb.WriteByte(',')
			}
			if err := encodeValue(sb, e, opts); err != nil {
				return err
			}
		}
		sb.WriteByte(']')
	case KindObject:
		sb.WriteByte('{')
		first := true
		for p := v.obj.Oldest(); p != nil; p = p.Next() {
			if !first {
				sb.WriteByte(',')
			}
			first = false
			encodeString(sb, p.Key, opts)
			sb.WriteByte(':')
			if err := encodeValue(sb, p.Value, opts); err != nil {
				return err
			}
		}
		sb.WriteByte('}')
	}
	return nil
}

// numericString reports whether s can be emitted as a JSON number without
// losing information.
func numericString(s string) bool {
	if !jsonNumberRE.MatchString(s) {
		return false
	}
	if !strings.ContainsAny(s, ".eE") {
		_, err := strconv.ParseInt(s, 10, 64)
		return err == nil
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func encodeString(sb *strings.Builder, s string, opts EncodeOptions) {
	escapeHTML := opts.EscapeHTML && !opts.RawText
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			if escapeHTML {
				writeHex(sb, r)
			} else {
				sb.WriteString(`\"`)
			}
		case '\\':
			sb.WriteString(`\\`)
		case '/':
			if opts.RawText {
				sb.WriteByte('/')
			} else {
				sb.WriteString(`\/`)
			}
		case '<', '>', '&', '\'':
			if escapeHTML {
				writeHex(sb, r)
			} else {
				sb.WriteRune(r)
			}
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			switch {
			case r < 0x20:
				writeHex(sb, r)
			case r > 0x7e && !opts.RawText:
				writeHex(sb, r)
			default:
				sb.WriteRune(r)
			}
		}
	}
	sb.WriteByte('"')
}

// writeHex emits \uXXXX escapes, using a surrogate pair for runes outside
// the basic multilingual plane.
func writeHex(sb *strings.Builder, r rune) {
	if r > 0xffff {
		r1, r2 := utf16.EncodeRune(r)
		fmt.Fprintf(sb, `\u%04x\u%04x`, r1, r2)
		return
	}
	fmt.Fprintf(sb, `\u%04x`, r)
}
