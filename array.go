package jsonstore

import "github.com/maruel/jsonstore/jsonval"

// Array operations target a member whose value is a sequence or an object
// used as a keyed container. They share the degradation contract of the
// plain accessors: a missing record, a missing member or a member of the
// wrong shape turns the operation into a no-op or a false/default result.

// ArrayHas reports whether the member named name is a sequence containing
// an element equal to value. Always false for a null value.
func (s *Store) ArrayHas(name string, value jsonval.Value) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if value.IsNull() {
		return false
	}
	m, ok := s.record.Get(name)
	if !ok || m.Kind() != jsonval.KindArray {
		return false
	}
	for _, e := range m.Items() {
		if e.Equal(value) {
			return true
		}
	}
	return false
}

// ArrayHasKey reports whether key addresses an existing entry within the
// member named name: an in-range index for a sequence, a present member
// for an object. Always false for the zero key.
func (s *Store) ArrayHasKey(name string, key jsonval.Key) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if key.IsZero() {
		return false
	}
	m, ok := s.record.Get(name)
	if !ok {
		return false
	}
	_, ok = key.KeyIn(m)
	return ok
}

// ArrayGet returns the entry at key within the member named name, or def.
func (s *Store) ArrayGet(name string, key jsonval.Key, def jsonval.Value) jsonval.Value {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if key.IsZero() {
		return def
	}
	m, ok := s.record.Get(name)
	if !ok {
		return def
	}
	if v, ok := key.KeyIn(m); ok {
		return v
	}
	return def
}

// ArrayAdd inserts value into the member named name only if absent: with
// the zero key it appends unless an equal element already exists; with a
// key it sets that entry unless the key is already taken. No-op when the
// record is null or when both key and value are null.
func (s *Store) ArrayAdd(name string, value jsonval.Value, key jsonval.Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.record.IsNull() || (key.IsZero() && value.IsNull()) {
		return
	}
	m, ok := s.record.Get(name)
	if !ok {
		s.record.Set(name, newContainer(key, value))
		return
	}
	if key.IsZero() {
		if m.Kind() != jsonval.KindArray {
			return
		}
		for _, e := range m.Items() {
			if e.Equal(value) {
				return
			}
		}
		m.Append(value)
		s.record.Set(name, m)
		return
	}
	if _, taken := key.KeyIn(m); taken {
		return
	}
	if put(&m, key, value) {
		s.record.Set(name, m)
	}
}

// ArraySet unconditionally upserts value at key within the member named
// name, overwriting any existing entry; the zero key appends. Setting an
// index past a sequence's end grows it with nulls. No-op when the record
// is null or when both key and value are null.
func (s *Store) ArraySet(name string, value jsonval.Value, key jsonval.Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.record.IsNull() || (key.IsZero() && value.IsNull()) {
		return
	}
	m, ok := s.record.Get(name)
	if !ok {
		s.record.Set(name, newContainer(key, value))
		return
	}
	if key.IsZero() {
		if m.Kind() != jsonval.KindArray {
			return
		}
		m.Append(value)
		s.record.Set(name, m)
		return
	}
	if put(&m, key, value) {
		s.record.Set(name, m)
	}
}

// ArrayRemove deletes the entry at key within the member named name if
// present. Sequence elements after the removed one shift down.
func (s *Store) ArrayRemove(name string, key jsonval.Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if key.IsZero() {
		return
	}
	m, ok := s.record.Get(name)
	if !ok {
		return
	}
	changed := false
	switch m.Kind() {
	case jsonval.KindArray:
		if i, ok := key.Index(); ok {
			changed = m.RemoveAt(i)
		}
	case jsonval.KindObject:
		if member, ok := key.MemberName(); ok {
			changed = m.Delete(member)
		}
	}
	if changed {
		s.record.Set(name, m)
	}
}

// ArrayRemoveValue removes the first element equal to value from the
// sequence member named name. Later duplicates remain.
func (s *Store) ArrayRemoveValue(name string, value jsonval.Value) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.record.Get(name)
	if !ok || m.Kind() != jsonval.KindArray {
		return
	}
	for i, e := range m.Items() {
		if e.Equal(value) {
			m.RemoveAt(i)
			s.record.Set(name, m)
			return
		}
	}
}

// newContainer builds a fresh member holding value at key: a sequence for
// the zero key or an index key, an object for a member key.
func newContainer(key jsonval.Key, value jsonval.Value) jsonval.Value {
	if key.IsZero() {
		return jsonval.Array(value)
	}
	if i, ok := key.Index(); ok {
		m := jsonval.Array()
		m.SetAt(i, value)
		return m
	}
	member, _ := key.MemberName()
	m := jsonval.Object()
	m.Set(member, value)
	return m
}

// put upserts value at key within container m, reporting whether m
// changed. Scalar members degrade to no change.
func put(m *jsonval.Value, key jsonval.Key, value jsonval.Value) bool {
	switch m.Kind() {
	case jsonval.KindArray:
		if i, ok := key.Index(); ok {
			m.SetAt(i, value)
			return true
		}
	case jsonval.KindObject:
		if member, ok := key.MemberName(); ok {
			m.Set(member, value)
			return true
		}
	}
	return false
}
