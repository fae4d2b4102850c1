package jsonval

import "strconv"

type keyKind int

const (
	keyNone keyKind = iota
	keyIndex
	keyMember
)

// Key addresses one element of an array-valued member: an integer index
// into a sequence or a string member name of an object. The zero Key means
// "no key", which the store operations treat as append semantics.
//
// Keys juggle between the two forms the way loosely typed containers do:
// an index key addresses object member "3", and a member key whose text is
// a decimal integer addresses array element 3.
type Key struct {
	kind keyKind
	idx  int
	name string
}

// Index returns a key addressing array element i.
func Index(i int) Key {
	return Key{kind: keyIndex, idx: i}
}

// Member returns a key addressing object member name.
func Member(name string) Key {
	return Key{kind: keyMember, name: name}
}

// ParseKey interprets decimal integer text as an index key and anything
// else as a member key.
func ParseKey(s string) Key {
	if i, err := strconv.Atoi(s); err == nil {
		return Index(i)
	}
	return Member(s)
}

// IsZero reports whether this is the zero "no key" Key.
func (k Key) IsZero() bool {
	return k.kind == keyNone
}

// String returns the key's text form, or "" for the zero Key.
func (k Key) String() string {
	switch k.kind {
	case keyIndex:
		return strconv.Itoa(k.idx)
	case keyMember:
		return k.name
	default:
		return ""
	}
}

// Index returns the key as an array index when possible: either an index
// key, or a member key whose text is a decimal integer.
func (k Key) Index() (int, bool) {
	switch k.kind {
	case keyIndex:
		return k.idx, true
	case keyMember:
		if i, err := strconv.Atoi(k.name); err == nil {
			return i, true
		}
	}
	return 0, false
}

// MemberName returns the key as an object member name when possible. The
// zero key has no member form.
func (k Key) MemberName() (string, bool) {
	switch k.kind {
	case keyIndex:
		return strconv.Itoa(k.idx), true
	case keyMember:
		return k.name, true
	}
	return "", false
}

// KeyIn resolves the key against a container value.
func (k Key) KeyIn(v Value) (Value, bool) {
	switch v.Kind() {
	case KindArray:
		if i, ok := k.Index(); ok {
			return v.At(i)
		}
	case KindObject:
		if name, ok := k.MemberName(); ok {
			return v.Get(name)
		}
	}
	return Null(), false
}
