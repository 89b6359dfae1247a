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

package util

import "strings"

// Errors accumulates the failures of one multi-element operation, such
// as importing every top-level element of an XML file. It unwraps to its
// elements, so errors.As reaches the structured model errors inside a
// join.
type Errors []error

// Error implements the error#Error method.
func (e Errors) Error() string {
	var b strings.Builder
	for _, err := range e {
		if err == nil {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		b.WriteString(err.Error())
	}
	return b.String()
}

// String implements the stringer#String method.
func (e Errors) String() string {
	return e.Error()
}

// Unwrap exposes the accumulated errors to errors.Is and errors.As.
func (e Errors) Unwrap() []error {
	return e
}

// Err returns e as an error, or nil when nothing accumulated. Callers
// use it to return an Errors value without leaking a typed nil.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// AppendErr appends err to errors if it is not nil and returns the
// result.
func AppendErr(errors Errors, err error) Errors {
	if err == nil {
		return errors
	}
	return append(errors, err)
}

// AppendErrs appends every non-nil error in newErrs and returns the
// result.
func AppendErrs(errors Errors, newErrs []error) Errors {
	for _, err := range newErrs {
		errors = AppendErr(errors, err)
	}
	return errors
}
