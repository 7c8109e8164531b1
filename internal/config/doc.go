// Package config reads and writes Debreate's flat key=value configuration
// file.
//
// The file starts with a "[CONFIG-<major>.<minor>]" header followed by one
// key=value pair per line. Only keys registered in a Schema are read or
// written; each has a declared kind (bool, integer pair, or string) and a
// default that is returned when the key is missing from the file.
//
// Failures carry a Code (FileNotFound, WrongType, ...) recoverable with
// CodeOf or matched with errors.Is.
package config
