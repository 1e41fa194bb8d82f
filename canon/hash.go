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

import "sort"

// hashFirstDegreeQuads computes the first-degree hash of the blank
// node ref (spec §4.3): every quad ref appears in is rewritten with
// ref's own occurrences masked to "_:a" and every other blank node
// masked to "_:z", serialized, sorted, and hashed. The result is
// cached in the blank node's info record for the lifetime of this
// canonicalization.
func (c *Canonicalizer) hashFirstDegreeQuads(ref string) string {
	info := c.index[ref]
	if info.hashSet {
		return info.hash
	}

	lines := make([]string, 0, len(info.quads))
	for _, q := range info.quads {
		masked := &Quad{
			Subject:   maskFirstDegreeComponent(ref, q.Subject),
			Predicate: q.Predicate,
			Object:    maskFirstDegreeComponent(ref, q.Object),
			Graph:     maskFirstDegreeComponent(ref, q.Graph),
		}
		lines = append(lines, c.serializer.SerializeQuad(masked))
	}
	sort.Strings(lines)

	digest := c.newDigest()
	for _, line := range lines {
		digest.Write([]byte(line))
	}

	hash := digest.SumHex()
	info.hash = hash
	info.hashSet = true
	return hash
}

// maskFirstDegreeComponent applies the spec §4.3 substitution rule to
// a single quad component: blank nodes equal to ref become "_:a",
// every other blank node becomes "_:z", and non-blank terms (or a nil
// default-graph position) pass through unchanged.
func maskFirstDegreeComponent(ref string, term Term) Term {
	if term == nil || !IsBlankNode(term) {
		return term
	}
	if term.GetValue() == ref {
		return NewBlankNode("_:a")
	}
	return NewBlankNode("_:z")
}

// hashRelatedBlankNode computes the hash incorporating related's
// position (s/o/g), the quad's predicate (unless position is g), and
// an identifier for related chosen, in order of preference, from: the
// canonical issuer, the supplied temporary issuer, or related's own
// first-degree hash (spec §4.4).
func (c *Canonicalizer) hashRelatedBlankNode(related string, q *Quad, issuer *IdentifierIssuer, position string) string {
	var id string
	switch {
	case c.canonicalIssuer.Has(related):
		id = c.canonicalIssuer.Issue(related)
	case issuer.Has(related):
		id = issuer.Issue(related)
	default:
		id = c.hashFirstDegreeQuads(related)
	}

	digest := c.newDigest()
	digest.Write([]byte(position))
	if position != "g" {
		digest.Write([]byte("<" + q.Predicate.GetValue() + ">"))
	}
	digest.Write([]byte(id))
	return digest.SumHex()
}
