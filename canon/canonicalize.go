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

import (
	"sort"
	"time"
)

// AlgorithmURDNA2015 names the only canonicalization algorithm this
// core implements. URGNA2012, the SHA-1-based predecessor the teacher
// also supports, is out of scope (spec §1 Non-goals).
const AlgorithmURDNA2015 = "URDNA2015"

// Options configures a Canonicalizer (spec §6).
type Options struct {
	// Algorithm must be AlgorithmURDNA2015. Required.
	Algorithm string

	// CreateMessageDigest builds the hash used throughout
	// canonicalization. Defaults to NewSHA256Digest.
	CreateMessageDigest MessageDigestFactory

	// Serializer renders quads to canonical N-Quads lines. Defaults to
	// DefaultNQuadsSerializer{}.
	Serializer NQuadsSerializer

	// MaxDeepIterations caps the total number of NDegreeHasher
	// recursive entries across the whole canonicalization. Zero means
	// unbounded.
	MaxDeepIterations int
}

func (o *Options) validate() error {
	if o.Algorithm == "" {
		return NewCanonicalizeError(MissingAlgorithm, nil)
	}
	if o.Algorithm != AlgorithmURDNA2015 {
		return NewCanonicalizeError(InvalidAlgorithm, o.Algorithm)
	}
	return nil
}

// Canonicalizer holds the mutable state of a single canonicalization
// run (spec §3 "Canonicalization state"). Create one per call to
// Canonicalize; it is not safe for reuse or concurrent use.
type Canonicalizer struct {
	opts            *Options
	index           quadIndex
	canonicalIssuer *IdentifierIssuer
	serializer      NQuadsSerializer
}

// Canonicalize computes the canonical N-Quads serialization of ds
// (spec §4.6, the full URDNA2015 algorithm). The result is a slice of
// canonically-labeled, canonically-sorted quads; call Serialize on the
// result (or range over it with the configured NQuadsSerializer) to
// obtain text.
func Canonicalize(ds *Dataset, opts *Options) ([]*Quad, error) {
	if opts == nil {
		opts = &Options{Algorithm: AlgorithmURDNA2015}
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	timer := prometheusTimer()
	defer timer()

	c := &Canonicalizer{
		opts:            opts,
		canonicalIssuer: NewIdentifierIssuer("_:c14n"),
		serializer:      opts.Serializer,
	}
	if c.serializer == nil {
		c.serializer = DefaultNQuadsSerializer{}
	}

	var order []string
	c.index, order = buildQuadIndex(ds)

	// nonNormalized tracks set membership only; every place that needs
	// to list ids walks `order` (the dataset's first-seen blank-node
	// order) filtered by this map, never the map itself, so that
	// bucket contents are built in a fixed, reproducible sequence. Go
	// deliberately randomizes map iteration order on every `range`, and
	// when two or more ids in the same hash bucket share an identical
	// N-degree hash (spec §8's symmetric-pair tie case), the order
	// those ids are appended to a bucket decides which one is promoted
	// to _:c14n0 vs _:c14n1 below — so that order must be deterministic.
	nonNormalized := make(map[string]bool, len(c.index))
	for _, id := range order {
		nonNormalized[id] = true
	}

	// bucketsInOrder groups the ids still in nonNormalized by their
	// first-degree hash, preserving `order` within each bucket.
	bucketsInOrder := func() (map[string][]string, []string) {
		hashToBlankNodes := make(map[string][]string)
		for _, id := range order {
			if !nonNormalized[id] {
				continue
			}
			hash := c.hashFirstDegreeQuads(id)
			hashToBlankNodes[hash] = append(hashToBlankNodes[hash], id)
		}
		sortedHashes := make([]string, 0, len(hashToBlankNodes))
		for hash := range hashToBlankNodes {
			sortedHashes = append(sortedHashes, hash)
		}
		sort.Strings(sortedHashes)
		return hashToBlankNodes, sortedHashes
	}

	// Simple labeling loop (spec §4.6 step 5): repeatedly issue
	// canonical ids to any blank node whose first-degree hash is
	// currently unique among the not-yet-labeled set, until a full
	// pass issues nothing new.
	for {
		hashToBlankNodes, sortedHashes := bucketsInOrder()

		progressed := false
		for _, hash := range sortedHashes {
			idList := hashToBlankNodes[hash]
			if len(idList) > 1 {
				continue
			}
			id := idList[0]
			c.canonicalIssuer.Issue(id)
			delete(nonNormalized, id)
			progressed = true
		}
		if !progressed {
			break
		}
	}

	// Recompute the remaining hash groups (those still containing more
	// than one id after the simple loop gave up) for the complex pass.
	hashToBlankNodes, sortedHashes := bucketsInOrder()

	// Complex labeling pass (spec §4.6 step 6): for every remaining
	// ambiguous hash group, run NDegreeHasher per candidate, then, in
	// ascending order of the resulting N-degree hashes, promote each
	// result issuer's temporary labels to canonical ones in the order
	// they were first issued.
	deepIterations := 0
	for _, hash := range sortedHashes {
		idList := hashToBlankNodes[hash]
		hashPaths := make(map[string][]*IdentifierIssuer)

		for _, id := range idList {
			if c.canonicalIssuer.Has(id) {
				continue
			}
			issuer := NewIdentifierIssuer("_:b")
			issuer.Issue(id)

			resultHash, resultIssuer, err := c.hashNDegreeQuads(id, issuer, &deepIterations)
			if err != nil {
				return nil, err
			}
			hashPaths[resultHash] = append(hashPaths[resultHash], resultIssuer)
		}

		innerHashes := make([]string, 0, len(hashPaths))
		for h := range hashPaths {
			innerHashes = append(innerHashes, h)
		}
		sort.Strings(innerHashes)

		for _, h := range innerHashes {
			for _, resultIssuer := range hashPaths[h] {
				for _, existing := range resultIssuer.IssuedInOrder() {
					c.canonicalIssuer.Issue(existing)
				}
			}
		}
	}

	return c.relabelAndSort(ds), nil
}

// relabelAndSort replaces every blank node's original label with its
// canonical one and returns the quads sorted by their canonical
// N-Quads serialization (spec §4.6 step 7).
func (c *Canonicalizer) relabelAndSort(ds *Dataset) []*Quad {
	out := make([]*Quad, len(ds.Quads))
	lines := make([]string, len(ds.Quads))

	for i, q := range ds.Quads {
		relabeled := &Quad{
			Subject:   c.relabelComponent(q.Subject),
			Predicate: q.Predicate,
			Object:    c.relabelComponent(q.Object),
			Graph:     c.relabelComponent(q.Graph),
		}
		out[i] = relabeled
		lines[i] = c.serializer.SerializeQuad(relabeled)
	}

	sort.Sort(&sortedQuads{quads: out, lines: lines})
	return out
}

func (c *Canonicalizer) relabelComponent(t Term) Term {
	if t == nil || !IsBlankNode(t) {
		return t
	}
	return NewBlankNode(c.canonicalIssuer.Issue(t.GetValue()))
}

// newDigest creates a fresh MessageDigest using the configured
// factory, defaulting to SHA-256.
func (c *Canonicalizer) newDigest() MessageDigest {
	if c.opts.CreateMessageDigest != nil {
		return c.opts.CreateMessageDigest()
	}
	return NewSHA256Digest()
}

// sortedQuads sorts quads and their parallel serialized lines in
// lockstep by line (spec §4.6 step 7, "sort normalized output").
type sortedQuads struct {
	quads []*Quad
	lines []string
}

func (s *sortedQuads) Len() int { return len(s.quads) }
func (s *sortedQuads) Less(i, j int) bool {
	return s.lines[i] < s.lines[j]
}
func (s *sortedQuads) Swap(i, j int) {
	s.quads[i], s.quads[j] = s.quads[j], s.quads[i]
	s.lines[i], s.lines[j] = s.lines[j], s.lines[i]
}

// prometheusTimer starts the rdfcanonize_duration_seconds observation
// and returns a func to stop it, so callers can `defer timer()`.
func prometheusTimer() func() {
	start := time.Now()
	return func() {
		mDuration.Observe(time.Since(start).Seconds())
	}
}

// Serialize renders a canonicalized quad slice (as returned by
// Canonicalize) to its canonical N-Quads text using serializer. A nil
// serializer defaults to DefaultNQuadsSerializer{}.
func Serialize(quads []*Quad, serializer NQuadsSerializer) string {
	if serializer == nil {
		serializer = DefaultNQuadsSerializer{}
	}
	var out string
	for _, q := range quads {
		out += serializer.SerializeQuad(q)
	}
	return out
}
