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

// Permutator produces every permutation of a finite list of strings,
// in Steinhaus-Johnson-Trotter order. The emission order is not
// observable in the canonical result (NDegreeHasher picks the
// lexicographically smallest path over all permutations), but it must
// be exhaustive and non-repeating.
type Permutator struct {
	list []string
	done bool
	left map[string]bool
}

// NewPermutator creates a permutator over a copy of list, sorted into
// its starting order.
func NewPermutator(list []string) *Permutator {
	p := &Permutator{
		list: make([]string, len(list)),
		left: make(map[string]bool, len(list)),
	}
	copy(p.list, list)
	sort.Strings(p.list)
	for _, s := range p.list {
		p.left[s] = true
	}
	return p
}

// HasNext reports whether another permutation remains.
func (p *Permutator) HasNext() bool {
	return !p.done
}

// Next returns the next permutation. Call HasNext first.
func (p *Permutator) Next() []string {
	rval := make([]string, len(p.list))
	copy(rval, p.list)

	// Find the largest mobile element k: one that is greater than the
	// adjacent element it is "looking at" (per its direction flag).
	k := ""
	pos := 0
	length := len(p.list)
	for i := 0; i < length; i++ {
		element := p.list[i]
		lookingLeft := p.left[element]
		if (k == "" || element > k) &&
			((lookingLeft && i > 0 && element > p.list[i-1]) ||
				(!lookingLeft && i < length-1 && element > p.list[i+1])) {
			k = element
			pos = i
		}
	}

	if k == "" {
		p.done = true
		return rval
	}

	var swap int
	if p.left[k] {
		swap = pos - 1
	} else {
		swap = pos + 1
	}
	p.list[pos], p.list[swap] = p.list[swap], k

	// Reverse the looking-direction of every element larger than k.
	for i := 0; i < length; i++ {
		if p.list[i] > k {
			p.left[p.list[i]] = !p.left[p.list[i]]
		}
	}

	return rval
}
