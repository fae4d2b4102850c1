// Package jsonstore persists a single JSON document to a file and exposes
// accessor and mutator helpers over its top-level members.
//
// # Lifecycle
//
// Construct with [New] (load-or-default), call any number of get/set/array
// operations, then optionally [Store.Save]. Every save rewrites the whole
// file; there is no partial update and no atomic rename.
//
// # Degradation
//
// Accessors never fail. When the record is absent or a member has the
// wrong shape they return the supplied default or perform a no-op, which
// keeps chained access ergonomic. Only construction, [Store.Save] and
// [Store.SetOption] return errors.
//
// # Concurrency
//
// The contract is single-threaded. An internal lock only exists so that
// [Store.Watch] reloads cannot interleave with an accessor mid-read;
// multiple stores bound to the same path remain out of contract.
package jsonstore

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/maruel/jsonstore/jsonval"
)

// Option names accepted by [Store.SetOption].
const (
	// OptionEncodeSpecChars escapes HTML-sensitive characters (< > & ' ")
	// as \uXXXX sequences on serialize. Default true.
	OptionEncodeSpecChars = "encode_spec_chars"
	// OptionRawText emits slashes and non-ASCII characters literally on
	// serialize. Default false. Wins over encode_spec_chars when both are
	// set.
	OptionRawText = "raw_text"
)

// newFileNameRE restricts the base name of files the store creates.
// Pre-existing files may have any name.
var newFileNameRE = regexp.MustCompile(`^[A-Za-z0-9_.~-]+$`)

// Store is a JSON document bound to a file path.
type Store struct {
	path string

	mu     sync.RWMutex
	record jsonval.Value
	opts   jsonval.EncodeOptions
}

// New creates a store bound to path. When the file exists its contents are
// parsed as the record; a file holding non-object JSON (or unparseable
// text) yields a null record, which is not a construction error — the
// accessors degrade instead. When the file does not exist the record
// starts from def if def is an object, and null otherwise.
//
// Fails with [ErrInvalidArgument] when path is empty, or when the file
// does not exist and either its parent directory is missing or its base
// name contains characters outside [A-Za-z0-9_.~-].
func New(path string, def jsonval.Value) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidArgument)
	}
	s := &Store{path: path, opts: jsonval.EncodeOptions{EscapeHTML: true}}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		rec, perr := jsonval.Parse(data)
		if perr != nil {
			// Trusted pre-existing file with unparseable content: the
			// record stays null and accessors treat it as nothing present.
			rec = jsonval.Null()
		}
		s.record = rec
	case os.IsNotExist(err):
		dir := filepath.Dir(path)
		if fi, serr := os.Stat(dir); serr != nil || !fi.IsDir() {
			return nil, fmt.Errorf("%w: parent directory %q does not exist", ErrInvalidArgument, dir)
		}
		if base := filepath.Base(path); !newFileNameRE.MatchString(base) {
			return nil, fmt.Errorf("%w: file name %q contains disallowed characters", ErrInvalidArgument, base)
		}
		if def.Kind() == jsonval.KindObject {
			s.record = def.Clone()
		} else {
			s.record = jsonval.Null()
		}
	default:
		return nil, fmt.Errorf("%w: failed to read %q: %v", ErrInvalidArgument, path, err)
	}
	return s, nil
}

// NewInMemory creates a store with no file bound. [Store.Save] is a no-op;
// callers render the record themselves through [Store.Serialize].
func NewInMemory(def jsonval.Value) *Store {
	s := &Store{opts: jsonval.EncodeOptions{EscapeHTML: true}}
	if def.Kind() == jsonval.KindObject {
		s.record = def.Clone()
	} else {
		s.record = jsonval.Null()
	}
	return s
}

// Has reports whether the record contains a member named name.
func (s *Store) Has(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.record.Get(name)
	return ok
}

// Get returns the member's value, or def when absent.
func (s *Store) Get(name string, def jsonval.Value) jsonval.Value {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.record.Get(name); ok {
		return v
	}
	return def
}

// Set writes or overwrites the member named name. A null record is
// initialized to an empty object first.
func (s *Store) Set(name string, value jsonval.Value) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.record.IsNull() {
		s.record = jsonval.Object()
	}
	s.record.Set(name, value)
}

// Remove deletes the member named name if present.
func (s *Store) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record.Delete(name)
}

// Record returns a deep copy of the current record.
func (s *Store) Record() jsonval.Value {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.record.Clone()
}

// Keys returns the record's member names in insertion order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.record.Keys()
}

// Serialize renders the record as JSON text per the current options.
func (s *Store) Serialize() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return jsonval.Encode(s.record, s.opts)
}

// Save serializes the record and overwrites the bound file in full. No-op
// when no file is bound. The write is not atomic: a failure mid-write can
// leave a truncated file.
//
// Fails with [ErrDataFile] when serialization fails or the file cannot be
// written.
func (s *Store) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.path == "" {
		return nil
	}
	out, err := jsonval.Encode(s.record, s.opts)
	if err != nil {
		return fmt.Errorf("%w: failed to serialize record: %v", ErrDataFile, err)
	}
	if err := os.WriteFile(s.path, []byte(out), 0o644); err != nil {
		return fmt.Errorf("%w: failed to write %q: %v", ErrDataFile, s.path, err)
	}
	return nil
}

// SetOption updates one presentation option. Fails with
// [ErrInvalidArgument] for unrecognized names.
func (s *Store) SetOption(name string, on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch name {
	case OptionEncodeSpecChars:
		s.opts.EscapeHTML = on
	case OptionRawText:
		s.opts.RawText = on
	default:
		return fmt.Errorf("%w: unknown option %q", ErrInvalidArgument, name)
	}
	return nil
}

// Option returns the current value of one presentation option.
func (s *Store) Option(name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch name {
	case OptionEncodeSpecChars:
		return s.opts.EscapeHTML, nil
	case OptionRawText:
		return s.opts.RawText, nil
	default:
		return false, fmt.Errorf("%w: unknown option %q", ErrInvalidArgument, name)
	}
}

// Filename returns the bound file path, or "" for an in-memory store.
func (s *Store) Filename() string {
	return s.path
}
