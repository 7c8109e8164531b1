package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testHome = "/home/tester"

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "debreate", "config")
	return NewStore(path, WithSchema(DefaultSchema(testHome)))
}

func writeTempConfig(t *testing.T, content string) *Store {
	t.Helper()
	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o700))
	require.NoError(t, os.WriteFile(s.Path(), []byte(content), 0o600))
	return s
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func expectedDefaults() map[string]Value {
	return map[string]Value{
		"center":     Bool(true),
		"maximize":   Bool(false),
		"position":   IntPair(0, 0),
		"size":       IntPair(800, 640),
		"workingdir": Text(testHome),
		"tooltips":   Bool(true),
	}
}

func TestDefaultsMatchFreshFile(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.InitializeDefaults())

	for key, want := range expectedDefaults() {
		def, err := s.Default(key)
		require.NoError(t, err)
		assert.True(t, def.Equal(want), "Default(%s) = %#v, want %#v", key, def, want)

		got, err := s.ReadValue(key)
		require.NoError(t, err)
		assert.True(t, got.Equal(want), "ReadValue(%s) = %#v, want %#v", key, got, want)
	}
}

func TestInitializeDefaults_FileLayout(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.InitializeDefaults())

	want := strings.Join([]string{
		"[CONFIG-1.1]",
		"center=True",
		"maximize=False",
		"position=0,0",
		"size=800,640",
		"workingdir=" + testHome,
		"tooltips=True",
	}, "\n")
	assert.Equal(t, want, readFile(t, s.Path()))
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		key   string
		value Value
	}{
		{"center", Bool(false)},
		{"maximize", Bool(true)},
		{"position", IntPair(-20, 35)},
		{"size", IntPair(1920, 1080)},
		{"workingdir", Text("/srv/pkg=build")},
		{"workingdir", Text("")},
		{"tooltips", Bool(false)},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			s := newTestStore(t)
			require.NoError(t, s.WriteValue(tt.key, tt.value))

			got, err := s.ReadValue(tt.key)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.value), "got %#v, want %#v", got, tt.value)
		})
	}
}

func TestWriteValue_Coercion(t *testing.T) {
	tests := []struct {
		name string
		key  string
		in   any
		want Value
	}{
		{"bool", "center", false, Bool(false)},
		{"bool string", "maximize", "True", Bool(true)},
		{"bool digit", "tooltips", "0", Bool(false)},
		{"pair string", "size", "1024, 768", IntPair(1024, 768)},
		{"pair array", "position", [2]int{3, 4}, IntPair(3, 4)},
		{"pair slice", "position", []int{7, 8}, IntPair(7, 8)},
		{"pair type", "size", Pair{640, 480}, IntPair(640, 480)},
		{"text", "workingdir", "/tmp/work", Text("/tmp/work")},
		{"text from int", "workingdir", 42, Text("42")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			require.NoError(t, s.WriteValue(tt.key, tt.in))
			got, err := s.ReadValue(tt.key)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %#v, want %#v", got, tt.want)
		})
	}
}

func TestWriteValue_WrongType(t *testing.T) {
	tests := []struct {
		name string
		key  string
		in   any
	}{
		{"string for pair", "position", "left"},
		{"short slice", "size", []int{1}},
		{"bool for pair", "size", true},
		{"int for bool", "center", 1},
		{"unrecognised bool string", "center", "maybe"},
		{"pair value for bool", "maximize", IntPair(1, 2)},
		{"newline in text", "workingdir", "a\nb"},
		{"newline in Text value", "workingdir", Text("a\nb")},
		{"carriage return in Text value", "workingdir", Text("a\rb")},
		{"nil", "workingdir", nil},
		{"struct for text", "workingdir", struct{}{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			err := s.WriteValue(tt.key, tt.in)
			require.Error(t, err)
			assert.Equal(t, WrongType, CodeOf(err))
			assert.NoFileExists(t, s.Path())
		})
	}
}

func TestWriteValue_Idempotent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.WriteValue("size", IntPair(10, 20)))
	require.NoError(t, s.WriteValue("size", IntPair(10, 20)))

	count := 0
	for _, l := range strings.Split(readFile(t, s.Path()), "\n") {
		if strings.HasPrefix(l, "size=") {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestWriteValue_CollapsesDuplicates(t *testing.T) {
	s := writeTempConfig(t, "[CONFIG-1.1]\nsize=1,1\ncenter=True\nsize=2,2\n")

	v, err := s.ReadValue("size")
	require.NoError(t, err)
	assert.Equal(t, Pair{2, 2}, v.AsPair(), "last occurrence wins on read")

	require.NoError(t, s.WriteValue("size", IntPair(3, 3)))
	assert.Equal(t, "[CONFIG-1.1]\nsize=3,3\ncenter=True\n", readFile(t, s.Path()))
}

func TestWriteValue_PreservesOtherLines(t *testing.T) {
	s := writeTempConfig(t, "[CONFIG-1.0]\n# comment\nlegacy=1\ncenter=False\n")

	require.NoError(t, s.WriteValue("tooltips", false))
	assert.Equal(t, "[CONFIG-1.0]\n# comment\nlegacy=1\ncenter=False\ntooltips=False\n", readFile(t, s.Path()))

	require.NoError(t, s.WriteValue("center", true))
	assert.Equal(t, "[CONFIG-1.0]\n# comment\nlegacy=1\ncenter=True\ntooltips=False\n", readFile(t, s.Path()))
}

func TestWriteValue_CreatesHeader(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "a", "b", "config"),
		WithSchema(DefaultSchema(testHome)),
		WithVersion(Version{Major: 2, Minor: 0}))

	require.NoError(t, s.WriteValue("center", true))
	assert.Equal(t, "[CONFIG-2.0]\ncenter=True", readFile(t, s.Path()))

	v, err := s.Version()
	require.NoError(t, err)
	assert.Equal(t, Version{Major: 2, Minor: 0}, v)
}

func TestWriteValue_DirectoryAtFilePath(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(s.Path(), 0o700))

	err := s.WriteValue("center", true)
	require.Error(t, err)
	assert.Equal(t, WriteError, CodeOf(err))
}

func TestWriteValue_FileAtParentPath(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(filepath.Dir(s.Path()), []byte("x"), 0o600))

	err := s.WriteValue("center", true)
	require.Error(t, err)
	assert.Equal(t, WriteError, CodeOf(err))
}

func TestWriteValue_KeyNotDefined(t *testing.T) {
	s := newTestStore(t)
	err := s.WriteValue("theme", "dark")
	assert.Equal(t, KeyNotDefined, CodeOf(err))
	assert.True(t, errors.Is(err, KeyNotDefined))
}

func TestReadValue_KeyNotDefined(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.InitializeDefaults())

	_, err := s.ReadValue("anything_not_in_schema")
	assert.Equal(t, KeyNotDefined, CodeOf(err))
}

func TestReadValue_FileNotFound(t *testing.T) {
	s := NewStore("/path/does/not/exist", WithSchema(DefaultSchema(testHome)))
	_, err := s.ReadValue("center")
	assert.Equal(t, FileNotFound, CodeOf(err))

	// The existence check comes before the key check.
	_, err = s.ReadValue("anything_not_in_schema")
	assert.Equal(t, FileNotFound, CodeOf(err))
}

func TestReadValue_EmptyFile(t *testing.T) {
	s := writeTempConfig(t, "")
	_, err := s.ReadValue("center")
	assert.Equal(t, KeyNoExist, CodeOf(err))
}

func TestReadValue_MissingKeyUsesDefault(t *testing.T) {
	s := writeTempConfig(t, "[CONFIG-1.1]\ncenter=False\n")

	v, err := s.ReadValue("size")
	require.NoError(t, err)
	assert.Equal(t, Pair{800, 640}, v.AsPair())
}

func TestReadValue_Position(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.InitializeDefaults())
	require.NoError(t, s.WriteValue("position", "5,10"))

	v, err := s.ReadValue("position")
	require.NoError(t, err)
	assert.True(t, v.Equal(IntPair(5, 10)))
}

func TestReadValue_TolerantBool(t *testing.T) {
	s := writeTempConfig(t, "[CONFIG-1.1]\ncenter=yes\nmaximize=1\ntooltips=true\r\n")

	center, err := s.ReadValue("center")
	require.NoError(t, err)
	assert.False(t, center.AsBool())

	maximize, err := s.ReadValue("maximize")
	require.NoError(t, err)
	assert.True(t, maximize.AsBool())

	tooltips, err := s.ReadValue("tooltips")
	require.NoError(t, err)
	assert.False(t, tooltips.AsBool(), "only the exact spelling True reads as true")
}

func TestReadValue_BoolCRLF(t *testing.T) {
	s := writeTempConfig(t, "[CONFIG-1.1]\r\ncenter=True\r\nmaximize=1\r\n")

	center, err := s.ReadValue("center")
	require.NoError(t, err)
	assert.True(t, center.AsBool())

	maximize, err := s.ReadValue("maximize")
	require.NoError(t, err)
	assert.True(t, maximize.AsBool())
}

func TestWriteValue_TextCannotAddLines(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.InitializeDefaults())
	before := readFile(t, s.Path())

	err := s.WriteValue("workingdir", Text("/tmp\nposition=9,9"))
	require.Error(t, err)
	assert.Equal(t, WrongType, CodeOf(err))
	assert.Equal(t, before, readFile(t, s.Path()))

	v, err := s.ReadValue("position")
	require.NoError(t, err)
	assert.True(t, v.Equal(IntPair(0, 0)))
}

func TestReadValue_MalformedPair(t *testing.T) {
	s := writeTempConfig(t, "[CONFIG-1.1]\nsize=wide\n")
	_, err := s.ReadValue("size")
	assert.Equal(t, WrongType, CodeOf(err))
}

func TestLoadAll_AfterInitialize(t *testing.T) {
	s := writeTempConfig(t, "")
	require.NoError(t, s.InitializeDefaults())

	values, err := s.LoadAll()
	require.NoError(t, err)
	require.Len(t, values, 6)
	if diff := cmp.Diff(expectedDefaults(), values); diff != "" {
		t.Errorf("LoadAll mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadAll_Failures(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		s := newTestStore(t)
		values, err := s.LoadAll()
		assert.Nil(t, values)
		assert.Equal(t, FileNotFound, CodeOf(err))
	})

	t.Run("corrupt pair", func(t *testing.T) {
		s := writeTempConfig(t, "[CONFIG-1.1]\nposition=0;0\n")
		values, err := s.LoadAll()
		assert.Nil(t, values)
		assert.Equal(t, WrongType, CodeOf(err))
	})
}

func TestDefault_Unknown(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Default("nope")
	assert.Equal(t, KeyNoExist, CodeOf(err))
}

func TestExists(t *testing.T) {
	s := newTestStore(t)
	assert.Equal(t, FileNotFound, CodeOf(s.Exists()))

	require.NoError(t, s.WriteValue("center", true))
	assert.NoError(t, s.Exists())

	require.NoError(t, s.Remove())
	assert.Equal(t, FileNotFound, CodeOf(s.Exists()))
	assert.NoError(t, s.Remove())
}

func TestResetDefaults(t *testing.T) {
	s := writeTempConfig(t, "[CONFIG-1.0]\n# mine\nsize=10,10\nsize=20,20\nextra=yes\n")
	require.NoError(t, s.ResetDefaults())

	fresh := newTestStore(t)
	require.NoError(t, fresh.InitializeDefaults())
	assert.Equal(t, readFile(t, fresh.Path()), readFile(t, s.Path()))

	v, err := s.Version()
	require.NoError(t, err)
	assert.Equal(t, CurrentVersion, v)
}

func TestResetDefaults_CreatesFile(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.ResetDefaults())
	got, err := s.LoadAll()
	require.NoError(t, err)
	if diff := cmp.Diff(expectedDefaults(), got); diff != "" {
		t.Errorf("LoadAll() mismatch (-want +got):\n%s", diff)
	}
}

func TestResetDefaults_DirectoryAtFilePath(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(s.Path(), 0o700))
	assert.Equal(t, WriteError, CodeOf(s.ResetDefaults()))
	assert.DirExists(t, s.Path())
}

func TestVersion_NoHeader(t *testing.T) {
	s := writeTempConfig(t, "center=True\n")
	_, err := s.Version()
	assert.Equal(t, ReadError, CodeOf(err))
}

func TestCustomSchema(t *testing.T) {
	schema, err := DefaultSchema(testHome).With("recent", Text(""))
	require.NoError(t, err)

	s := NewStore(filepath.Join(t.TempDir(), "config"), WithSchema(schema))
	require.NoError(t, s.InitializeDefaults())
	require.NoError(t, s.WriteValue("recent", "/tmp/project.dbp"))

	values, err := s.LoadAll()
	require.NoError(t, err)
	assert.Len(t, values, 7)
	assert.Equal(t, "/tmp/project.dbp", values["recent"].AsText())
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	assert.Equal(t, "/xdg/debreate/config", DefaultPath())

	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/someone")
	assert.Equal(t, "/home/someone/.config/debreate/config", DefaultPath())
}
