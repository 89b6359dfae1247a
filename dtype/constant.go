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
	"fmt"
	"strconv"

	"github.com/cockroachdb/apd/v2"

	"github.com/rticommunity/ddsl-go/util"
)

// constDefn is the body of a const: the atom and the coerced value. Once
// created, a const never changes.
type constDefn struct {
	atom  *Node
	value interface{}
}

func (*constDefn) defnKind() Kind { return KindConst }

// decCtx is the decimal context for const coercion. 34 digits covers
// every integral atom width.
var decCtx = apd.BaseContext.WithPrecision(34)

// Const creates an immutable (atom, value) pair. The value is coerced to
// the atom's kind; lossy coercions log a notice and keep going.
func Const(name string, atom *Node, value interface{}) (*Node, error) {
	if atom == nil || atom.kind != KindAtom {
		return nil, Errorf(KindMismatch, name, "a const needs an atom type")
	}
	coerced, err := coerceValue(name, atom, value)
	if err != nil {
		return nil, err
	}
	n, _, err := NewTemplate(name, KindConst)
	if err != nil {
		return nil, err
	}
	n.defn = &constDefn{atom: atom, value: coerced}
	return n, nil
}

// ConstValue returns the const's coerced value and its atom.
func (n *Node) ConstValue() (interface{}, *Node) {
	if cd, ok := n.defn.(*constDefn); ok {
		return cd.value, cd.atom
	}
	return nil, nil
}

// coerceValue applies the per-atom coercion rules: booleans from
// true/1/false/0 with a truthy fallback, chars truncated to the first
// rune, integrals floored, unsigned negativity noticed but not clamped,
// floats parsed as numbers.
func coerceValue(name string, atom *Node, value interface{}) (interface{}, error) {
	switch {
	case BaseAtomName(atom) == "boolean":
		switch v := value.(type) {
		case bool:
			return v, nil
		case string:
			switch v {
			case "true", "1":
				return true, nil
			case "false", "0":
				return false, nil
			}
			util.Notice("const %s: ambiguous boolean %q coerced to %v", name, v, v != "")
			return v != "", nil
		default:
			d, err := decimalOf(name, value)
			if err != nil {
				return nil, err
			}
			b := !d.IsZero()
			util.Notice("const %s: ambiguous boolean %v coerced to %v", name, value, b)
			return b, nil
		}
	case isCharAtom(atom):
		s := fmt.Sprintf("%v", value)
		r := []rune(s)
		if len(r) > 1 {
			util.Notice("const %s: %q truncated to %q", name, s, string(r[0]))
		}
		if len(r) == 0 {
			return "", nil
		}
		return string(r[0]), nil
	case isStringAtom(atom):
		if s, ok := value.(string); ok {
			return s, nil
		}
		return fmt.Sprintf("%v", value), nil
	case isIntegralAtom(atom):
		d, err := decimalOf(name, value)
		if err != nil {
			return nil, err
		}
		floored := new(apd.Decimal)
		if _, err := decCtx.Floor(floored, d); err != nil {
			return nil, Errorf(MalformedDecl, name, "cannot floor %v: %v", value, err)
		}
		if d.Cmp(floored) != 0 {
			util.Notice("const %s: decimal %v truncated to %v", name, d, floored)
		}
		i, err := floored.Int64()
		if err != nil {
			return nil, Errorf(MalformedDecl, name, "integer %v out of range: %v", value, err)
		}
		if isUnsignedAtom(atom) && i < 0 {
			util.Notice("const %s: negative value %d for unsigned %s", name, i, atom.name)
		}
		return i, nil
	case isFloatAtom(atom):
		switch v := value.(type) {
		case float64:
			return v, nil
		case float32:
			return float64(v), nil
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		case string:
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, Errorf(MalformedDecl, name, "cannot parse %q as a number", v)
			}
			return f, nil
		}
		return nil, Errorf(MalformedDecl, name, "cannot coerce %T to %s", value, atom.name)
	}
	return nil, Errorf(KindMismatch, name, "cannot coerce to a %s const", atom.name)
}

// decimalOf parses value as an exact decimal.
func decimalOf(name string, value interface{}) (*apd.Decimal, error) {
	switch v := value.(type) {
	case int:
		return apd.New(int64(v), 0), nil
	case int32:
		return apd.New(int64(v), 0), nil
	case int64:
		return apd.New(v, 0), nil
	case uint64:
		d := new(apd.Decimal)
		d.SetInt64(int64(v))
		return d, nil
	case float64:
		d := new(apd.Decimal)
		if _, err := d.SetFloat64(v); err != nil {
			return nil, Errorf(MalformedDecl, name, "cannot represent %v: %v", v, err)
		}
		return d, nil
	case string:
		d, _, err := apd.NewFromString(v)
		if err != nil {
			return nil, Errorf(MalformedDecl, name, "cannot parse %q as a number", v)
		}
		return d, nil
	}
	return nil, Errorf(MalformedDecl, name, "cannot parse %T as a number", value)
}
