package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// reservedKey is reserved; it is never a schema key.
const reservedKey = "__test__"

// Store reads and writes one configuration file against a fixed schema.
//
// A Store keeps no state between calls: every read re-parses the file and
// every write is a full read-modify-write. Writes are atomic but not locked,
// so concurrent writers to the same file may lose updates.
type Store struct {
	path    string
	schema  *Schema
	version Version
	logger  zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithSchema replaces the process default schema.
func WithSchema(s *Schema) Option {
	return func(st *Store) { st.schema = s }
}

// WithLogger sets the logger used for debug and warning output.
func WithLogger(l zerolog.Logger) Option {
	return func(st *Store) { st.logger = l }
}

// WithVersion sets the header written to newly created files.
func WithVersion(v Version) Option {
	return func(st *Store) { st.version = v }
}

// NewStore returns a store for the file at path. An empty path selects
// DefaultPath().
func NewStore(path string, opts ...Option) *Store {
	if path == "" {
		path = DefaultPath()
	}
	s := &Store{
		path:    path,
		version: CurrentVersion,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.schema == nil {
		s.schema = Defaults()
	}
	return s
}

func (s *Store) Path() string { return s.path }

func (s *Store) Schema() *Schema { return s.schema }

// Exists succeeds when the configuration file exists.
func (s *Store) Exists() error {
	if !isRegularFile(s.path) {
		return newError(FileNotFound, "", s.path, nil)
	}
	return nil
}

// Version reports the format version declared by the file's header line.
func (s *Store) Version() (Version, error) {
	if err := s.Exists(); err != nil {
		return Version{}, err
	}
	text, _, err := readText(s.path)
	if err != nil {
		return Version{}, newError(ReadError, "", s.path, err)
	}
	v, ok := parseDocument(text).version()
	if !ok {
		return Version{}, newError(ReadError, "", s.path, fmt.Errorf("missing or malformed header"))
	}
	return v, nil
}

// ReadValue returns the typed value of key.
//
// Keys missing from a non-empty file resolve to their schema default. A
// boolean that does not read as true is false; a malformed pair is
// WrongType.
func (s *Store) ReadValue(key string) (Value, error) {
	s.logger.Debug().
		Str("event", "config.read").
		Str("path", s.path).
		Str("key", key).
		Msg("reading configuration file")

	if !isRegularFile(s.path) {
		return Value{}, newError(FileNotFound, key, s.path, nil)
	}

	e, ok := s.schema.Lookup(key)
	if !ok {
		return Value{}, newError(KeyNotDefined, key, s.path, nil)
	}

	text, _, err := readText(s.path)
	if err != nil {
		return Value{}, newError(KeyNoExist, key, s.path, err)
	}
	if strings.TrimSpace(text) == "" {
		return Value{}, newError(KeyNoExist, key, s.path, nil)
	}

	raw, found := parseDocument(text).lookup(key)
	if !found {
		return e.Default, nil
	}
	v, ok := e.Parse(raw)
	if !ok {
		return Value{}, newError(WrongType, key, s.path, fmt.Errorf("cannot read %q as %s", raw, e.Kind()))
	}
	return v, nil
}

// WriteValue stores value under key, keeping every other line of the file.
// value may be a Value of the key's kind or a Go value coercible to it.
func (s *Store) WriteValue(key string, value any) error {
	e, ok := s.schema.Lookup(key)
	if !ok {
		return newError(KeyNotDefined, key, s.path, nil)
	}
	v, err := coerce(e.Kind(), value)
	if err != nil {
		return newError(WrongType, key, s.path, err)
	}

	if err := ensureDir(filepath.Dir(s.path)); err != nil {
		return newError(WriteError, key, s.path, err)
	}

	text, exists, err := readText(s.path)
	if exists && !isRegularFile(s.path) {
		return newError(WriteError, key, s.path, fmt.Errorf("cannot open config for writing, not a regular file"))
	}
	if err != nil {
		if isRegularFile(s.path) {
			return newError(ReadError, key, s.path, err)
		}
		return newError(WriteError, key, s.path, err)
	}

	var doc *document
	if strings.TrimSpace(text) == "" {
		doc = newDocument(s.version)
	} else {
		doc = parseDocument(text)
	}
	doc.set(key, v.String())

	out := doc.String()
	if strings.TrimSpace(out) == "" {
		return newError(WriteError, key, s.path, fmt.Errorf("refusing to write empty configuration"))
	}
	if err := writeText(s.path, out); err != nil {
		return newError(WriteError, key, s.path, err)
	}
	if !isRegularFile(s.path) {
		return newError(WriteError, key, s.path, fmt.Errorf("file missing after write"))
	}

	s.logger.Debug().
		Str("event", "config.write").
		Str("path", s.path).
		Str("key", key).
		Str("value", v.String()).
		Msg("configuration key written")
	return nil
}

// InitializeDefaults writes every schema default, in schema order, and
// returns the first failure.
func (s *Store) InitializeDefaults() error {
	for _, e := range s.schema.entries {
		if err := s.WriteValue(e.Key, e.Default); err != nil {
			return err
		}
	}
	s.logger.Info().
		Str("event", "config.initialized").
		Str("path", s.path).
		Int("keys", s.schema.Len()).
		Msg("default configuration written")
	return nil
}

// ResetDefaults replaces the whole file with a fresh header and every schema
// default in a single atomic write. The previous file, if any, is left in
// place when the write fails.
func (s *Store) ResetDefaults() error {
	doc := newDocument(s.version)
	for _, e := range s.schema.entries {
		v, err := coerce(e.Kind(), e.Default)
		if err != nil {
			return newError(WrongType, e.Key, s.path, err)
		}
		doc.set(e.Key, v.String())
	}

	if err := ensureDir(filepath.Dir(s.path)); err != nil {
		return newError(WriteError, "", s.path, err)
	}
	if _, err := os.Stat(s.path); err == nil && !isRegularFile(s.path) {
		return newError(WriteError, "", s.path, fmt.Errorf("cannot open config for writing, not a regular file"))
	}
	if err := writeText(s.path, doc.String()); err != nil {
		return newError(WriteError, "", s.path, err)
	}

	s.logger.Info().
		Str("event", "config.reset").
		Str("path", s.path).
		Int("keys", s.schema.Len()).
		Msg("configuration reset to defaults")
	return nil
}

// Default returns the schema default for key.
func (s *Store) Default(key string) (Value, error) {
	return s.schema.Default(key)
}

// LoadAll reads every schema key. It returns a nil map and the first error
// when any key fails to read or reads back with the wrong kind; callers
// treat that as a corrupt file and re-initialize.
func (s *Store) LoadAll() (map[string]Value, error) {
	values := make(map[string]Value, s.schema.Len())
	for _, e := range s.schema.entries {
		v, err := s.ReadValue(e.Key)
		if err != nil {
			s.logger.Warn().
				Err(err).
				Str("event", "config.load_failed").
				Str("key", e.Key).
				Msg("config error")
			return nil, err
		}
		if v.Kind() != e.Kind() {
			s.logger.Warn().
				Str("event", "config.bad_type").
				Str("key", e.Key).
				Str("value", v.String()).
				Stringer("type", v.Kind()).
				Stringer("target", e.Kind()).
				Msg("bad value type")
			return nil, newError(WrongType, e.Key, s.path, fmt.Errorf("got %s, want %s", v.Kind(), e.Kind()))
		}
		values[e.Key] = v
	}
	return values, nil
}

// Remove deletes the configuration file. A missing file is not an error.
func (s *Store) Remove() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return newError(WriteError, "", s.path, err)
	}
	return nil
}
