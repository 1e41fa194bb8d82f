// Copyright 2015-2017 Piprate Limited
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package canon

// Quad represents an RDF quad: (subject, predicate, object, graph).
// Predicate is always an IRI; subject/object/graph may additionally be
// a BlankNode, object may additionally be a Literal, and graph may
// additionally be nil/DefaultGraph.
type Quad struct {
	Subject   Term
	Predicate Term
	Object    Term
	Graph     Term
}

// NewQuad creates a new Quad. A nil or DefaultGraph graph term means
// the quad belongs to the default graph.
func NewQuad(subject, predicate, object, graph Term) *Quad {
	if _, ok := graph.(DefaultGraph); ok {
		graph = nil
	}
	return &Quad{
		Subject:   subject,
		Predicate: predicate,
		Object:    object,
		Graph:     graph,
	}
}

// Equal reports whether q and o represent the same quad.
func (q *Quad) Equal(o *Quad) bool {
	if o == nil {
		return false
	}
	if (q.Graph != nil && !q.Graph.Equal(o.Graph)) || (q.Graph == nil && o.Graph != nil) {
		return false
	}
	return q.Subject.Equal(o.Subject) && q.Predicate.Equal(o.Predicate) && q.Object.Equal(o.Object)
}

// Dataset is a finite sequence of quads. Canonicalization treats a
// Dataset as a multiset: its output is invariant under reordering of
// Quads, but this implementation walks Quads in the given order
// wherever the spec allows a choice, so that behavior is reproducible.
type Dataset struct {
	Quads []*Quad
}

// NewDataset creates an empty Dataset.
func NewDataset() *Dataset {
	return &Dataset{Quads: make([]*Quad, 0)}
}

// AddQuad appends a quad to the dataset.
func (d *Dataset) AddQuad(q *Quad) {
	d.Quads = append(d.Quads, q)
}

// forEachComponent visits a quad's subject, object and graph (in that
// order) but never its predicate — predicates are always IRIs in RDF
// and never participate in blank-node substitution (spec §4.7).
func forEachComponent(q *Quad, fn func(position string, term Term)) {
	if q.Subject != nil {
		fn("s", q.Subject)
	}
	if q.Object != nil {
		fn("o", q.Object)
	}
	if q.Graph != nil {
		fn("g", q.Graph)
	}
}

// blankNodeInfo is the per-blank-node bookkeeping record described in
// spec §3: every quad the node appears in (possibly with duplicates),
// plus its first-degree hash once computed.
type blankNodeInfo struct {
	quads []*Quad
	hash  string
	// hashSet distinguishes "not yet computed" from "cached empty
	// hash" (the latter never legitimately occurs for sha256/hmac/
	// blake2b hex digests, which are always non-empty, but the flag
	// keeps the cache honest regardless of digest implementation).
	hashSet bool
}

// quadIndex maps each blank node identifier occurring in a dataset to
// its blankNodeInfo record (spec §4.6 step 1 / §4.7 QuadIndex).
type quadIndex map[string]*blankNodeInfo

// buildQuadIndex scans every quad's non-predicate components and
// returns the blank-node-to-quads index plus the initial
// non-normalized id set, in the order blank nodes are first seen.
func buildQuadIndex(ds *Dataset) (quadIndex, []string) {
	index := make(quadIndex)
	order := make([]string, 0)
	for _, q := range ds.Quads {
		forEachComponent(q, func(_ string, term Term) {
			if !IsBlankNode(term) {
				return
			}
			id := term.GetValue()
			info, ok := index[id]
			if !ok {
				info = &blankNodeInfo{quads: make([]*Quad, 0, 1)}
				index[id] = info
				order = append(order, id)
			}
			info.quads = append(info.quads, q)
		})
	}
	return index, order
}
