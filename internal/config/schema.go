package config

import (
	"fmt"
	"os"
	"strings"
	"sync"
)

// Entry is one recognised configuration key.
type Entry struct {
	Key     string
	Default Value
	parse   Parser
}

// Kind is the declared kind of the entry, taken from its default.
func (e Entry) Kind() Kind { return e.Default.Kind() }

// Parse converts a raw file value using the entry's parser.
func (e Entry) Parse(raw string) (Value, bool) { return e.parse(raw) }

// NewEntry builds an entry whose parser is chosen from the default's kind.
func NewEntry(key string, def Value) (Entry, error) {
	if err := validKey(key); err != nil {
		return Entry{}, err
	}
	p := parserFor(def.Kind())
	if p == nil {
		return Entry{}, fmt.Errorf("key %q: default has no kind", key)
	}
	if def.Kind() == KindText {
		if err := checkText(def.AsText()); err != nil {
			return Entry{}, fmt.Errorf("key %q: default: %w", key, err)
		}
	}
	return Entry{Key: key, Default: def, parse: p}, nil
}

func validKey(key string) error {
	switch {
	case key == "":
		return fmt.Errorf("empty key")
	case key == reservedKey:
		return fmt.Errorf("key %q is reserved", key)
	case strings.ContainsAny(key, "=\r\n"):
		return fmt.Errorf("key %q contains '=' or a line break", key)
	case strings.TrimSpace(key) != key:
		return fmt.Errorf("key %q has surrounding whitespace", key)
	}
	return nil
}

// Schema is an immutable, ordered set of entries.
type Schema struct {
	entries []Entry
	index   map[string]int
}

// NewSchema builds a schema. Keys must be unique.
func NewSchema(entries ...Entry) (*Schema, error) {
	s := &Schema{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		if e.parse == nil {
			return nil, fmt.Errorf("key %q: entry not built with NewEntry", e.Key)
		}
		if _, dup := s.index[e.Key]; dup {
			return nil, fmt.Errorf("duplicate key %q", e.Key)
		}
		s.index[e.Key] = len(s.entries)
		s.entries = append(s.entries, e)
	}
	return s, nil
}

// With returns a copy of s with key registered (or re-registered) with the
// given default. The receiver is left unchanged.
func (s *Schema) With(key string, def Value) (*Schema, error) {
	e, err := NewEntry(key, def)
	if err != nil {
		return nil, err
	}
	entries := s.Entries()
	if i, ok := s.index[key]; ok {
		entries[i] = e
	} else {
		entries = append(entries, e)
	}
	return NewSchema(entries...)
}

// Lookup returns the entry registered for key.
func (s *Schema) Lookup(key string) (Entry, bool) {
	i, ok := s.index[key]
	if !ok {
		return Entry{}, false
	}
	return s.entries[i], true
}

// Default returns the default value for key, or a KeyNoExist error.
func (s *Schema) Default(key string) (Value, error) {
	e, ok := s.Lookup(key)
	if !ok {
		return Value{}, newError(KeyNoExist, key, "", nil)
	}
	return e.Default, nil
}

// Keys returns the registered keys in registration order.
func (s *Schema) Keys() []string {
	keys := make([]string, len(s.entries))
	for i, e := range s.entries {
		keys[i] = e.Key
	}
	return keys
}

// Entries returns a copy of the entries in registration order.
func (s *Schema) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *Schema) Len() int { return len(s.entries) }

// DefaultSchema returns the Debreate window/session schema with workingdir
// defaulting to home.
func DefaultSchema(home string) *Schema {
	s, err := NewSchema(
		mustEntry("center", Bool(true)),
		mustEntry("maximize", Bool(false)),
		mustEntry("position", IntPair(0, 0)),
		mustEntry("size", IntPair(800, 640)),
		mustEntry("workingdir", Text(home)),
		mustEntry("tooltips", Bool(true)),
	)
	if err != nil {
		panic(err)
	}
	return s
}

func mustEntry(key string, def Value) Entry {
	e, err := NewEntry(key, def)
	if err != nil {
		panic(err)
	}
	return e
}

var (
	defaultsOnce   sync.Once
	defaultsSchema *Schema
)

// Defaults returns the process-wide default schema, built on first use with
// the current user's home directory.
func Defaults() *Schema {
	defaultsOnce.Do(func() {
		defaultsSchema = DefaultSchema(HomeDir())
	})
	return defaultsSchema
}

// HomeDir resolves the user's home directory, falling back to the working
// directory when it cannot be determined.
func HomeDir() string {
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return home
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}
