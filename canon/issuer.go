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

import "fmt"

// IdentifierIssuer deterministically maps existing (input) blank-node
// identifiers to freshly issued labels with a fixed prefix, and
// remembers the order in which labels were first assigned (spec §4.1).
type IdentifierIssuer struct {
	prefix        string
	counter       int
	existing      map[string]string
	existingOrder []string
}

// NewIdentifierIssuer creates an issuer that mints labels
// "prefix0", "prefix1", ....
func NewIdentifierIssuer(prefix string) *IdentifierIssuer {
	return &IdentifierIssuer{
		prefix:        prefix,
		existing:      make(map[string]string),
		existingOrder: make([]string, 0),
	}
}

// Clone returns a deep, independently-mutable copy of the issuer,
// preserving prefix, counter and the full insertion-ordered mapping.
func (ii *IdentifierIssuer) Clone() *IdentifierIssuer {
	c := &IdentifierIssuer{
		prefix:        ii.prefix,
		counter:       ii.counter,
		existing:      make(map[string]string, len(ii.existing)),
		existingOrder: make([]string, len(ii.existingOrder)),
	}
	copy(c.existingOrder, ii.existingOrder)
	for k, v := range ii.existing {
		c.existing[k] = v
	}
	return c
}

// Issue returns the label for existingID, minting and recording one if
// this is the first time existingID has been seen. An empty existingID
// mints a fresh, unrecorded label (used when issuing ids for
// synthetic/anonymous list nodes elsewhere in an RDF pipeline); this
// module's canonicalizer always calls Issue with a non-empty id.
func (ii *IdentifierIssuer) Issue(existingID string) string {
	if existingID != "" {
		if id, ok := ii.existing[existingID]; ok {
			return id
		}
	}

	id := fmt.Sprintf("%s%d", ii.prefix, ii.counter)
	ii.counter++

	if existingID != "" {
		ii.existing[existingID] = id
		ii.existingOrder = append(ii.existingOrder, existingID)
	}

	return id
}

// Has reports whether existingID has already been issued a label.
func (ii *IdentifierIssuer) Has(existingID string) bool {
	_, ok := ii.existing[existingID]
	return ok
}

// IssuedInOrder returns the existing identifiers in the order their
// labels were first issued. This ordering is load-bearing: it defines
// the order in which complex labeling (spec §4.6 step 3.c) promotes
// temporary labels to canonical ones.
func (ii *IdentifierIssuer) IssuedInOrder() []string {
	return ii.existingOrder
}
