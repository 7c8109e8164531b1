package config

import (
	"fmt"
	"strings"
)

// Version is the format version written into the header line.
type Version struct {
	Major int
	Minor int
}

// CurrentVersion is the header written to new files.
var CurrentVersion = Version{Major: 1, Minor: 1}

// Header renders the header line, e.g. "[CONFIG-1.1]".
func (v Version) Header() string {
	return fmt.Sprintf("[CONFIG-%d.%d]", v.Major, v.Minor)
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// ParseHeader reads a "[CONFIG-<major>.<minor>]" line.
func ParseHeader(line string) (Version, bool) {
	var v Version
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "[CONFIG-") || !strings.HasSuffix(line, "]") {
		return v, false
	}
	n, err := fmt.Sscanf(line, "[CONFIG-%d.%d]", &v.Major, &v.Minor)
	if err != nil || n != 2 {
		return Version{}, false
	}
	return v, true
}

// document is a config file held as its ordered lines. Lines that are not
// key=value pairs (the header, blanks, anything else) are kept verbatim.
type document struct {
	lines []string
}

func parseDocument(text string) *document {
	return &document{lines: strings.Split(text, "\n")}
}

func newDocument(v Version) *document {
	return &document{lines: []string{v.Header()}}
}

// splitLine returns the key and value of a key=value line. The value is
// everything after the first '='.
func splitLine(line string) (key, value string, ok bool) {
	line = strings.TrimSuffix(line, "\r")
	key, value, ok = strings.Cut(line, "=")
	if !ok {
		return "", "", false
	}
	return strings.TrimSpace(key), value, true
}

// lookup returns the value of the last line carrying key.
func (d *document) lookup(key string) (string, bool) {
	var (
		value string
		found bool
	)
	for _, l := range d.lines {
		if k, v, ok := splitLine(l); ok && k == key {
			value, found = v, true
		}
	}
	return value, found
}

// set replaces the first line carrying key and drops any later duplicates,
// or appends a new line when key is absent.
func (d *document) set(key, value string) {
	entry := key + "=" + value
	out := d.lines[:0]
	replaced := false
	for _, l := range d.lines {
		if k, _, ok := splitLine(l); ok && k == key {
			if replaced {
				continue
			}
			l = entry
			replaced = true
		}
		out = append(out, l)
	}
	if !replaced {
		// Keep a trailing newline at the end of the file.
		if n := len(out); n > 1 && out[n-1] == "" {
			out = append(out[:n-1], entry, "")
		} else {
			out = append(out, entry)
		}
	}
	d.lines = out
}

func (d *document) version() (Version, bool) {
	if len(d.lines) == 0 {
		return Version{}, false
	}
	return ParseHeader(d.lines[0])
}

func (d *document) String() string {
	return strings.Join(d.lines, "\n")
}
