package config

import (
	"errors"
	"fmt"
)

// Code classifies a store failure.
type Code int

const (
	Success Code = iota
	ReadError
	WriteError
	FileNotFound
	WrongType
	KeyNoExist
	KeyNotDefined
)

var codeNames = map[Code]string{
	Success:       "SUCCESS",
	ReadError:     "ERR_READ",
	WriteError:    "ERR_WRITE",
	FileNotFound:  "FILE_NOT_FOUND",
	WrongType:     "WRONG_TYPE",
	KeyNoExist:    "KEY_NO_EXIST",
	KeyNotDefined: "KEY_NOT_DEFINED",
}

func (c Code) String() string {
	if s, ok := codeNames[c]; ok {
		return s
	}
	return fmt.Sprintf("Code(%d)", int(c))
}

// Error lets a bare Code be used as an errors.Is target.
func (c Code) Error() string {
	return c.String()
}

// Error is returned by every Store operation that fails.
type Error struct {
	Code Code
	Key  string
	Path string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Code.String()
	if e.Key != "" {
		msg += " key=" + e.Key
	}
	if e.Path != "" {
		msg += " path=" + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the same Code as e.
func (e *Error) Is(target error) bool {
	c, ok := target.(Code)
	return ok && c == e.Code
}

// CodeOf extracts the Code carried by err. A nil error is Success; an error
// that did not come from this package is ReadError.
func CodeOf(err error) Code {
	if err == nil {
		return Success
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var c Code
	if errors.As(err, &c) {
		return c
	}
	return ReadError
}

func newError(code Code, key, path string, cause error) *Error {
	return &Error{Code: code, Key: key, Path: path, Err: cause}
}
