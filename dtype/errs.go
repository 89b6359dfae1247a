// Copyright 2024 Real-Time Innovations, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dtype

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the failures surfaced by the meta-model. Every
// failed mutation rolls back before returning one of these.
type ErrorKind int

const (
	// MalformedDecl marks a declaration not shaped as {name = body}.
	MalformedDecl ErrorKind = iota
	// DuplicateName marks a member, enumerator or module-child collision.
	DuplicateName
	// UnresolvedName marks a qualified name the resolver cannot find.
	UnresolvedName
	// KindMismatch marks an operation applied to the wrong kind of node.
	KindMismatch
	// InvalidDimension marks a collection or atom dimension that is not a
	// positive integer.
	InvalidDimension
	// InvalidCase marks a union case incompatible with the discriminator,
	// or a duplicate case value.
	InvalidCase
	// CycleDetected marks a module containment or typedef chain loop.
	CycleDetected
	// IOError marks a file open or read failure during import.
	IOError
	// ParseError marks malformed XML tag structure during import.
	ParseError
)

var errorKindNames = map[ErrorKind]string{
	MalformedDecl:    "MalformedDecl",
	DuplicateName:    "DuplicateName",
	UnresolvedName:   "UnresolvedName",
	KindMismatch:     "KindMismatch",
	InvalidDimension: "InvalidDimension",
	InvalidCase:      "InvalidCase",
	CycleDetected:    "CycleDetected",
	IOError:          "IOError",
	ParseError:       "ParseError",
}

// String implements the stringer#String method.
func (k ErrorKind) String() string {
	if n, ok := errorKindNames[k]; ok {
		return n
	}
	return "Unknown"
}

// Error is a structured meta-model error: a kind, a human message and an
// optional path or name for diagnostics.
type Error struct {
	Kind ErrorKind
	Path string
	Msg  string
}

// Error implements the error#Error method.
func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%v: %s", e.Kind, e.Msg)
	}
	return fmt.Sprintf("%v: %s: %s", e.Kind, e.Path, e.Msg)
}

// Errorf builds an *Error of kind k at path with a Printf-style message.
func Errorf(k ErrorKind, path, format string, v ...interface{}) error {
	return &Error{Kind: k, Path: path, Msg: fmt.Sprintf(format, v...)}
}

// KindOfError returns the ErrorKind carried by err, unwrapping as needed.
// ok is false when err carries no structured kind.
func KindOfError(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
