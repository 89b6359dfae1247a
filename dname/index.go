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

package dname

import (
	"sort"

	"github.com/derekparker/trie"

	"github.com/rticommunity/ddsl-go/dtype"
)

// Index is a trie of fully qualified datatype names. The XML importer
// records every imported definition in one and lists the contents of a
// namespace by prefix through it.
type Index struct {
	t *trie.Trie
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{t: trie.New()}
}

// BuildIndex indexes every datatype reachable from root.
func BuildIndex(root *dtype.Node) *Index {
	ix := NewIndex()
	ix.addTree(root)
	return ix
}

func (ix *Index) addTree(n *dtype.Node) {
	if q := dtype.NSName(n, nil); q != "" {
		ix.t.Add(q, n)
	}
	if n.Kind() == dtype.KindModule {
		for _, c := range n.Children() {
			ix.addTree(c)
		}
	}
}

// Add records the qualified name of n. It returns false when the name
// was already present.
func (ix *Index) Add(n *dtype.Node) bool {
	q := dtype.NSName(n, nil)
	if q == "" {
		return false
	}
	if _, ok := ix.t.Find(q); ok {
		return false
	}
	ix.t.Add(q, n)
	return true
}

// Has reports whether the fully qualified name is indexed.
func (ix *Index) Has(qname string) bool {
	_, ok := ix.t.Find(qname)
	return ok
}

// WithPrefix returns the indexed names sharing the given prefix, sorted.
func (ix *Index) WithPrefix(prefix string) []string {
	out := ix.t.PrefixSearch(prefix)
	sort.Strings(out)
	return out
}
