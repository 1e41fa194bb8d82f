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

	"github.com/golang/glog"
)

// createHashToRelated groups every blank node related to id (i.e. a
// blank node other than id that co-occurs with it in some quad) by
// its hashRelatedBlankNode hash (spec §4.5 step 1-3).
func (c *Canonicalizer) createHashToRelated(id string, issuer *IdentifierIssuer) map[string][]string {
	hashToRelated := make(map[string][]string)

	for _, q := range c.index[id].quads {
		forEachComponent(q, func(position string, term Term) {
			if !IsBlankNode(term) {
				return
			}
			related := term.GetValue()
			if related == id {
				return
			}
			hash := c.hashRelatedBlankNode(related, q, issuer, position)
			hashToRelated[hash] = append(hashToRelated[hash], related)
		})
	}

	return hashToRelated
}

// hashNDegreeQuads implements the N-degree hash computation of spec
// §4.5: for each related-hash group in lexicographic order, it finds
// the lexicographically smallest path string over all permutations of
// the group (recursing into any blank node not yet issued a temporary
// label), then folds hash and path into the running digest.
//
// deepIterations tracks recursive calls made across the whole
// Canonicalize invocation and is propagated by pointer so a
// MaxDeepIterations cap (an extension absent from the upstream
// algorithm, see SPEC_FULL.md §4) applies to the aggregate work done,
// not just to one top-level call.
func (c *Canonicalizer) hashNDegreeQuads(id string, issuer *IdentifierIssuer, deepIterations *int) (string, *IdentifierIssuer, error) {
	*deepIterations++
	mDeepIterations.Inc()
	if c.opts.MaxDeepIterations > 0 {
		if *deepIterations > c.opts.MaxDeepIterations {
			c.recordDeepIterationsExceeded()
			return "", nil, NewCanonicalizeError(DeepIterationsExceeded, *deepIterations)
		}
		if *deepIterations == (c.opts.MaxDeepIterations*4)/5 {
			glog.Warningf("canonicalize: deep iterations at %d/%d (80%%)", *deepIterations, c.opts.MaxDeepIterations)
		}
	}

	hashToRelated := c.createHashToRelated(id, issuer)

	digest := c.newDigest()

	sortedHashes := make([]string, 0, len(hashToRelated))
	for hash := range hashToRelated {
		sortedHashes = append(sortedHashes, hash)
	}
	sort.Strings(sortedHashes)

	for _, hash := range sortedHashes {
		blankNodes := hashToRelated[hash]
		digest.Write([]byte(hash))

		chosenPath := ""
		var chosenIssuer *IdentifierIssuer
		recursionListLen := -1

		permutator := NewPermutator(blankNodes)
		for permutator.HasNext() {
			permutation := permutator.Next()
			issuerCopy := issuer.Clone()
			path := ""
			recursionList := make([]string, 0, len(permutation))
			skip := false

			for _, related := range permutation {
				switch {
				case c.canonicalIssuer.Has(related):
					path += c.canonicalIssuer.Issue(related)
				default:
					if !issuerCopy.Has(related) {
						recursionList = append(recursionList, related)
					}
					path += issuerCopy.Issue(related)
				}
				if len(chosenPath) != 0 && len(path) >= len(chosenPath) && path > chosenPath {
					skip = true
					break
				}
			}
			if skip {
				continue
			}

			// Which related nodes fall to recursionList depends only on
			// canonicalIssuer and the outer issuer, both fixed for the
			// whole related-hash group; it does not depend on
			// permutation order. So every surviving permutation in this
			// group must compute the same recursion list length. A
			// mismatch means the bookkeeping above has a defect, not
			// that the input dataset is malformed.
			if recursionListLen == -1 {
				recursionListLen = len(recursionList)
			} else if len(recursionList) != recursionListLen {
				return "", nil, NewCanonicalizeError(InternalInvariantViolated,
					"recursion list length differs across permutations of the same related-hash group")
			}

			for _, related := range recursionList {
				resultHash, resultIssuer, err := c.hashNDegreeQuads(related, issuerCopy, deepIterations)
				if err != nil {
					return "", nil, err
				}
				path += issuerCopy.Issue(related)
				path += "<" + resultHash + ">"
				issuerCopy = resultIssuer

				if len(chosenPath) != 0 && len(path) >= len(chosenPath) && path > chosenPath {
					skip = true
					break
				}
			}
			if skip {
				continue
			}

			if len(chosenPath) == 0 || path < chosenPath {
				chosenPath = path
				chosenIssuer = issuerCopy
			}
		}

		digest.Write([]byte(chosenPath))
		issuer = chosenIssuer
	}

	return digest.SumHex(), issuer, nil
}
