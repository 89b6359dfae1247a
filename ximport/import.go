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

package ximport

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rticommunity/ddsl-go/dname"
	"github.com/rticommunity/ddsl-go/dtype"
	"github.com/rticommunity/ddsl-go/util"
)

// knownAttrs are the attributes the dialect defines; anything else is
// logged at debug and skipped.
var knownAttrs = map[string]bool{
	"name": true, "type": true, "nonBasicTypeName": true,
	"baseType": true, "baseClass": true,
	"stringMaxLength": true, "sequenceMaxLength": true, "arrayDimensions": true,
	"value": true, "key": true, "optional": true, "topLevel": true,
	"id": true, "extensibility": true, "visibility": true,
	"typeModifier": true, "required": true, "kind": true, "file": true,
}

// containerTags are document wrappers recursed through transparently.
var containerTags = map[string]bool{
	"dds": true, "types": true,
}

// Importer loads XML type files into a shared root module. A single
// Importer corresponds to one global namespace: duplicate definitions
// across its files are errors, repeated includes load once.
type Importer struct {
	Root *dtype.Node

	index   *dname.Index
	loaded  map[string]bool
	forward map[*dtype.Node]bool
}

// NewImporter returns an importer depositing into root.
func NewImporter(root *dtype.Node) *Importer {
	return &Importer{
		Root:    root,
		index:   dname.BuildIndex(root),
		loaded:  map[string]bool{},
		forward: map[*dtype.Node]bool{},
	}
}

// ImportFile loads one XML file, skipping it when already loaded through
// an earlier import or include.
func (im *Importer) ImportFile(path string) error {
	clean := filepath.Clean(path)
	if im.loaded[clean] {
		util.Debug("ximport: %s already loaded, skipping", clean)
		return nil
	}
	im.loaded[clean] = true
	f, err := os.Open(clean)
	if err != nil {
		return dtype.Errorf(dtype.IOError, clean, "%v", err)
	}
	defer f.Close()
	return im.Import(f, clean)
}

// Import loads one XML document from r. name labels the source in errors
// and resolves relative includes. Top-level elements import
// independently: a failed element is reported but does not stop its
// siblings, and every failure comes back in one accumulated error.
func (im *Importer) Import(r io.Reader, name string) error {
	roots, err := ParseElements(r, name)
	if err != nil {
		return err
	}
	var errs util.Errors
	for _, el := range roots {
		errs = util.AppendErr(errs, im.importElement(el, im.Root, name))
	}
	return errs.Err()
}

// importElement dispatches one element against the cursor module ns.
func (im *Importer) importElement(el *Element, ns *dtype.Node, src string) error {
	im.noteUnknownAttrs(el, src)
	switch el.Label {
	case "module":
		return im.importModule(el, ns, src)
	case "struct":
		return im.importStruct(el, ns, src, false)
	case "valuetype", "sparse_valuetype":
		util.Warning("ximport: %s: legacy <%s> %q imported as a struct", src, el.Label, el.Attr("name"))
		return im.importStruct(el, ns, src, true)
	case "union":
		return im.importUnion(el, ns, src)
	case "enum":
		return im.importEnum(el, ns, src)
	case "typedef":
		return im.importTypedef(el, ns, src)
	case "const":
		return im.importConst(el, ns, src)
	case "include":
		return im.importInclude(el, src)
	case "forward_dcl":
		return im.importForward(el, ns, src)
	default:
		if containerTags[el.Label] {
			var errs util.Errors
			for _, c := range el.Children {
				errs = util.AppendErr(errs, im.importElement(c, ns, src))
			}
			return errs.Err()
		}
		util.Debug("ximport: %s: skipping unknown tag <%s>", src, el.Label)
		return nil
	}
}

func (im *Importer) noteUnknownAttrs(el *Element, src string) {
	for a := range el.Attrs {
		if !knownAttrs[a] {
			util.Debug("ximport: %s: <%s> has unknown attribute %q, skipping", src, el.Label, a)
		}
	}
}

func (im *Importer) importModule(el *Element, ns *dtype.Node, src string) error {
	name := el.Attr("name")
	if name == "" {
		return dtype.Errorf(dtype.ParseError, src, "<module> needs a name")
	}
	m := ns.Child(name)
	if m == nil {
		var err error
		m, err = dtype.Module(name)
		if err != nil {
			return err
		}
		if err := ns.AddChild(m); err != nil {
			return err
		}
		im.index.Add(m)
	} else if m.Kind() != dtype.KindModule {
		return dtype.Errorf(dtype.DuplicateName, src, "%q already defined as a %v", name, m.Kind())
	}
	var errs util.Errors
	for _, c := range el.Children {
		errs = util.AppendErr(errs, im.importElement(c, m, src))
	}
	return errs.Err()
}

// claim allocates a named node of the given kind in ns, reusing a
// matching forward declaration, and rejecting redefinitions.
func (im *Importer) claim(ns *dtype.Node, name string, kind dtype.Kind, src string) (*dtype.Node, error) {
	if name == "" {
		return nil, dtype.Errorf(dtype.ParseError, src, "a <%v> needs a name", kind)
	}
	if existing := ns.Child(name); existing != nil {
		if im.forward[existing] && existing.Kind() == kind {
			delete(im.forward, existing)
			return existing, nil
		}
		return nil, dtype.Errorf(dtype.DuplicateName, src, "%s already defined", dtype.NSName(existing, nil))
	}
	n, _, err := dtype.NewTemplate(name, kind)
	if err != nil {
		return nil, err
	}
	if err := ns.AddChild(n); err != nil {
		return nil, err
	}
	im.index.Add(n)
	return n, nil
}

func (im *Importer) importStruct(el *Element, ns *dtype.Node, src string, valuetype bool) error {
	st, err := im.claim(ns, el.Attr("name"), dtype.KindStruct, src)
	if err != nil {
		return err
	}
	base := el.Attr("baseType")
	if base == "" {
		base = el.Attr("baseClass")
	}
	if base != "" {
		b, _, err := dname.Resolve(base, ns)
		if err != nil {
			return err
		}
		if b == nil {
			return dtype.Errorf(dtype.UnresolvedName, src, "base %q of %s", base, st.Name())
		}
		if err := st.SetBase(b); err != nil {
			return err
		}
	}
	if err := im.applyTypeQualifiers(st, el, valuetype); err != nil {
		return err
	}
	for _, c := range el.Children {
		if c.Label != "member" {
			util.Debug("ximport: %s: skipping <%s> inside struct %s", src, c.Label, st.Name())
			continue
		}
		im.noteUnknownAttrs(c, src)
		m, err := im.buildMember(c, ns, st.Name(), src)
		if err != nil {
			return err
		}
		if err := st.SetMember(len(st.Members())+1, m); err != nil {
			return err
		}
	}
	return nil
}

func (im *Importer) importUnion(el *Element, ns *dtype.Node, src string) error {
	un, err := im.claim(ns, el.Attr("name"), dtype.KindUnion, src)
	if err != nil {
		return err
	}
	var disc *dtype.Node
	for _, c := range el.Children {
		if c.Label == "discriminator" {
			im.noteUnknownAttrs(c, src)
			disc, err = im.resolveType(c, ns, src)
			if err != nil {
				return err
			}
			break
		}
	}
	if disc == nil {
		return dtype.Errorf(dtype.ParseError, src, "union %s has no <discriminator>", un.Name())
	}
	if err := un.SetSwitch(disc); err != nil {
		return err
	}
	if err := im.applyTypeQualifiers(un, el, false); err != nil {
		return err
	}
	discBase, _ := dtype.Resolve(disc)
	for _, c := range el.Children {
		if c.Label != "case" {
			continue
		}
		im.noteUnknownAttrs(c, src)
		uc := &dtype.Case{}
		for _, cc := range c.Children {
			switch cc.Label {
			case "caseDiscriminator":
				im.noteUnknownAttrs(cc, src)
				v := cc.Attr("value")
				if v == "default" {
					uc.Default = true
					continue
				}
				uc.Values = append(uc.Values, im.caseValue(v, discBase, ns))
			case "member":
				im.noteUnknownAttrs(cc, src)
				m, err := im.buildMember(cc, ns, un.Name(), src)
				if err != nil {
					return err
				}
				uc.Member = m
			default:
				util.Debug("ximport: %s: skipping <%s> inside case of %s", src, cc.Label, un.Name())
			}
		}
		if err := un.SetCase(len(un.Cases())+1, uc); err != nil {
			return err
		}
	}
	return nil
}

// caseValue maps a caseDiscriminator value to the model form: an
// enumerator name resolved through the scope for enum discriminators, a
// literal string otherwise.
func (im *Importer) caseValue(v string, discBase *dtype.Node, ns *dtype.Node) interface{} {
	if discBase != nil && discBase.Kind() == dtype.KindEnum {
		if _, enumerator, err := dname.Resolve(v, ns); err == nil && enumerator != "" {
			return enumerator
		}
	}
	return strings.Trim(v, "'")
}

func (im *Importer) importEnum(el *Element, ns *dtype.Node, src string) error {
	en, err := im.claim(ns, el.Attr("name"), dtype.KindEnum, src)
	if err != nil {
		return err
	}
	for _, c := range el.Children {
		if c.Label != "enumerator" {
			util.Debug("ximport: %s: skipping <%s> inside enum %s", src, c.Label, en.Name())
			continue
		}
		im.noteUnknownAttrs(c, src)
		e := dtype.Enumerator{Name: c.Attr("name")}
		if v := c.Attr("value"); v != "" {
			ord, err := strconv.ParseInt(v, 10, 32)
			if err != nil {
				return dtype.Errorf(dtype.ParseError, src, "enumerator %s value %q is not an integer", e.Name, v)
			}
			e.Ordinal, e.Explicit = int32(ord), true
		}
		if err := en.SetEnumerator(len(en.Enumerators())+1, e); err != nil {
			return err
		}
	}
	return nil
}

func (im *Importer) importTypedef(el *Element, ns *dtype.Node, src string) error {
	name := el.Attr("name")
	if name == "" {
		return dtype.Errorf(dtype.ParseError, src, "<typedef> needs a name")
	}
	typ, err := im.resolveType(el, ns, src)
	if err != nil {
		return err
	}
	typ, coll, err := im.collectionOf(el, typ, ns, name, src)
	if err != nil {
		return err
	}
	td, err := im.claim(ns, name, dtype.KindTypedef, src)
	if err != nil {
		return err
	}
	return td.SetAlias(typ, coll)
}

func (im *Importer) importConst(el *Element, ns *dtype.Node, src string) error {
	name := el.Attr("name")
	atom, err := im.resolveType(el, ns, src)
	if err != nil {
		return err
	}
	base, chain := dtype.Resolve(atom)
	if base == nil || base.Kind() != dtype.KindAtom || len(chain) > 0 {
		return dtype.Errorf(dtype.KindMismatch, src, "const %s needs an atom type", name)
	}
	if !el.HasAttr("value") {
		return dtype.Errorf(dtype.ParseError, src, "const %s has no value", name)
	}
	if existing := ns.Child(name); existing != nil {
		return dtype.Errorf(dtype.DuplicateName, src, "%s already defined", dtype.NSName(existing, nil))
	}
	c, err := dtype.Const(name, base, el.Attr("value"))
	if err != nil {
		return err
	}
	if err := ns.AddChild(c); err != nil {
		return err
	}
	im.index.Add(c)
	return nil
}

func (im *Importer) importInclude(el *Element, src string) error {
	file := el.Attr("file")
	if file == "" {
		return dtype.Errorf(dtype.ParseError, src, "<include> needs a file")
	}
	if !filepath.IsAbs(file) {
		file = filepath.Join(filepath.Dir(src), file)
	}
	return im.ImportFile(file)
}

func (im *Importer) importForward(el *Element, ns *dtype.Node, src string) error {
	name := el.Attr("name")
	kind := dtype.KindStruct
	switch el.Attr("kind") {
	case "", "struct":
	case "union":
		kind = dtype.KindUnion
	default:
		return dtype.Errorf(dtype.ParseError, src, "forward_dcl kind %q", el.Attr("kind"))
	}
	if existing := ns.Child(name); existing != nil {
		// A forward declaration after the definition, or a repeat, is a
		// no-op.
		return nil
	}
	n, _, err := dtype.NewTemplate(name, kind)
	if err != nil {
		return err
	}
	if err := ns.AddChild(n); err != nil {
		return err
	}
	im.forward[n] = true
	im.index.Add(n)
	return nil
}

// applyTypeQualifiers maps struct/union element attributes to builtin
// annotation values on the datatype.
func (im *Importer) applyTypeQualifiers(n *dtype.Node, el *Element, valuetype bool) error {
	var quals []*dtype.AnnotationValue
	if v := el.Attr("extensibility"); v != "" {
		q, err := dtype.Extensibility.Apply(v)
		if err != nil {
			return err
		}
		quals = append(quals, q)
	}
	if el.Attr("topLevel") == "false" {
		q, err := dtype.TopLevel.Apply(false)
		if err != nil {
			return err
		}
		quals = append(quals, q)
	}
	if valuetype && el.Attr("typeModifier") == "shared" {
		q, err := dtype.Shared.Apply()
		if err != nil {
			return err
		}
		quals = append(quals, q)
	}
	if len(quals) == 0 {
		return nil
	}
	return n.SetQualifiers(quals)
}

// buildMember maps a <member> element to a member descriptor.
func (im *Importer) buildMember(el *Element, ns *dtype.Node, owner, src string) (*dtype.Member, error) {
	role := el.Attr("name")
	typ, err := im.resolveType(el, ns, src)
	if err != nil {
		return nil, err
	}
	typ, coll, err := im.collectionOf(el, typ, ns, owner+"_"+role, src)
	if err != nil {
		return nil, err
	}
	m := &dtype.Member{Role: role, Type: typ, Collection: coll}
	if el.Attr("key") == "true" {
		q, err := dtype.Key.Apply()
		if err != nil {
			return nil, err
		}
		m.Annotations = append(m.Annotations, q)
	}
	if el.Attr("optional") == "true" {
		q, err := dtype.Optional.Apply()
		if err != nil {
			return nil, err
		}
		m.Annotations = append(m.Annotations, q)
	}
	if el.Attr("required") == "true" {
		q, err := dtype.MustUnderstand.Apply()
		if err != nil {
			return nil, err
		}
		m.Annotations = append(m.Annotations, q)
	}
	if v := el.Attr("id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return nil, dtype.Errorf(dtype.ParseError, src, "member %s id %q is not an integer", role, v)
		}
		q, err := dtype.ID.Apply(id)
		if err != nil {
			return nil, err
		}
		m.Annotations = append(m.Annotations, q)
	}
	return m, nil
}

// collectionOf derives the collection qualifier of a member or typedef
// from its arrayDimensions and sequenceMaxLength attributes. When both
// are present the sequence is hoisted into an implicit alias so the
// array can wrap it.
func (im *Importer) collectionOf(el *Element, typ *dtype.Node, ns *dtype.Node, hint, src string) (*dtype.Node, *dtype.AnnotationValue, error) {
	var seq *dtype.AnnotationValue
	if el.HasAttr("sequenceMaxLength") {
		v := el.Attr("sequenceMaxLength")
		var err error
		if v == "-1" {
			seq, err = dtype.Sequence()
		} else {
			b, berr := im.bound(v, ns, src)
			if berr != nil {
				return nil, nil, berr
			}
			seq, err = dtype.Sequence(b)
		}
		if err != nil {
			return nil, nil, err
		}
	}
	var arr *dtype.AnnotationValue
	if el.HasAttr("arrayDimensions") {
		var dims []interface{}
		for _, d := range strings.Split(el.Attr("arrayDimensions"), "::") {
			b, err := im.bound(d, ns, src)
			if err != nil {
				return nil, nil, err
			}
			dims = append(dims, b)
		}
		var err error
		arr, err = dtype.Array(dims...)
		if err != nil {
			return nil, nil, err
		}
	}
	switch {
	case arr != nil && seq != nil:
		alias := hint + "_seq"
		if existing := ns.Child(alias); existing != nil {
			return existing, arr, nil
		}
		util.Info("ximport: %s: array of sequences hoisted into alias %s", src, alias)
		td, err := dtype.Typedef(alias, typ, seq)
		if err != nil {
			return nil, nil, err
		}
		if err := ns.AddChild(td); err != nil {
			return nil, nil, err
		}
		im.index.Add(td)
		return td, arr, nil
	case arr != nil:
		return typ, arr, nil
	case seq != nil:
		return typ, seq, nil
	}
	return typ, nil, nil
}

// bound parses a dimension scalar: an integer literal, or the name of an
// integral const.
func (im *Importer) bound(v string, ns *dtype.Node, src string) (interface{}, error) {
	if n, err := strconv.Atoi(v); err == nil {
		return n, nil
	}
	node, _, err := dname.Resolve(v, ns)
	if err != nil {
		return nil, err
	}
	if node == nil || node.Kind() != dtype.KindConst {
		return nil, dtype.Errorf(dtype.InvalidDimension, src, "dimension %q is not a const", v)
	}
	return node, nil
}

// resolveType maps the type attributes of an element to a datatype node:
// nonBasic through the resolver, string/wstring with an optional
// dimension, anything else as a builtin or scoped name.
func (im *Importer) resolveType(el *Element, ns *dtype.Node, src string) (*dtype.Node, error) {
	t := el.Attr("type")
	switch t {
	case "":
		return nil, dtype.Errorf(dtype.ParseError, src, "<%s %s> has no type", el.Label, el.Attr("name"))
	case "nonBasic":
		name := el.Attr("nonBasicTypeName")
		if name == "" {
			return nil, dtype.Errorf(dtype.ParseError, src, "nonBasic type without nonBasicTypeName")
		}
		node, _, err := dname.Resolve(name, ns)
		if err != nil {
			return nil, err
		}
		if node == nil {
			return nil, dtype.Errorf(dtype.UnresolvedName, src, "%q", name)
		}
		return node, nil
	case "string", "wstring":
		mk := dtype.String
		if t == "wstring" {
			mk = dtype.WString
		}
		if !el.HasAttr("stringMaxLength") || el.Attr("stringMaxLength") == "-1" {
			return mk()
		}
		b, err := im.bound(el.Attr("stringMaxLength"), ns, src)
		if err != nil {
			return nil, err
		}
		return mk(b)
	default:
		node, _, err := dname.Resolve(t, ns)
		if err != nil {
			return nil, err
		}
		if node == nil {
			return nil, dtype.Errorf(dtype.UnresolvedName, src, "%q", t)
		}
		return node, nil
	}
}

// Loaded reports whether path was already imported.
func (im *Importer) Loaded(path string) bool {
	return im.loaded[filepath.Clean(path)]
}

// Contents lists the fully qualified names imported so far under prefix.
func (im *Importer) Contents(prefix string) []string {
	return im.index.WithPrefix(prefix)
}
