package canon_test

import (
	"strings"
	"testing"

	. "github.com/Smartlogic-Semaphore-Limited/rdf-canonize/canon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRead(t *testing.T, nquads string) *Dataset {
	t.Helper()
	ds, err := ReadDataset(strings.NewReader(nquads))
	require.NoError(t, err)
	return ds
}

func canonicalText(t *testing.T, ds *Dataset, opts *Options) string {
	t.Helper()
	quads, err := Canonicalize(ds, opts)
	require.NoError(t, err)
	return Serialize(quads, nil)
}

// Scenario 1: empty dataset canonicalizes to empty output.
func TestCanonicalizeEmptyDataset(t *testing.T) {
	ds := NewDataset()
	out := canonicalText(t, ds, &Options{Algorithm: AlgorithmURDNA2015})
	assert.Equal(t, "", out)
}

// Scenario 2: a single quad with no blank nodes is unchanged but for
// possible serialization normalization.
func TestCanonicalizeNoBlankNodes(t *testing.T) {
	ds := mustRead(t, `<http://example.org/s> <http://example.org/p> <http://example.org/o> .
`)
	out := canonicalText(t, ds, &Options{Algorithm: AlgorithmURDNA2015})
	assert.Equal(t, "<http://example.org/s> <http://example.org/p> <http://example.org/o> .\n", out)
}

// Scenario 3: a single blank node with a unique first-degree hash gets
// a deterministic canonical label regardless of its original name.
func TestCanonicalizeSingleBlankNode(t *testing.T) {
	a := mustRead(t, `_:x <http://example.org/p> <http://example.org/o> .
`)
	b := mustRead(t, `_:completelyDifferentLabel <http://example.org/p> <http://example.org/o> .
`)

	outA := canonicalText(t, a, &Options{Algorithm: AlgorithmURDNA2015})
	outB := canonicalText(t, b, &Options{Algorithm: AlgorithmURDNA2015})

	assert.Equal(t, outA, outB)
	assert.Equal(t, "_:c14n0 <http://example.org/p> <http://example.org/o> .\n", outA)
}

// Scenario 4: two disjoint blank nodes (no edge between them) each get
// their own canonical label, chosen independent of input order.
func TestCanonicalizeTwoDisjointBlankNodes(t *testing.T) {
	ds := mustRead(t, `_:a <http://example.org/p> <http://example.org/o1> .
_:b <http://example.org/p> <http://example.org/o2> .
`)
	quads, err := Canonicalize(ds, &Options{Algorithm: AlgorithmURDNA2015})
	require.NoError(t, err)
	require.Len(t, quads, 2)

	labels := map[string]bool{}
	for _, q := range quads {
		require.True(t, IsBlankNode(q.Subject))
		labels[q.Subject.GetValue()] = true
	}
	assert.Len(t, labels, 2)
}

// Scenario 5: a symmetric pair of blank nodes (each referencing the
// other identically) must still canonicalize deterministically, and
// relabeling the inputs must not change the result (input-order and
// relabel invariance, spec §8).
func TestCanonicalizeSymmetricPairIsOrderAndLabelInvariant(t *testing.T) {
	original := mustRead(t, `_:a <http://example.org/knows> _:b .
_:b <http://example.org/knows> _:a .
_:a <http://example.org/name> "Alice" .
_:b <http://example.org/name> "Bob" .
`)
	relabeled := mustRead(t, `_:x <http://example.org/knows> _:y .
_:y <http://example.org/knows> _:x .
_:x <http://example.org/name> "Alice" .
_:y <http://example.org/name> "Bob" .
`)
	reordered := mustRead(t, `_:b <http://example.org/name> "Bob" .
_:a <http://example.org/name> "Alice" .
_:b <http://example.org/knows> _:a .
_:a <http://example.org/knows> _:b .
`)

	out1 := canonicalText(t, original, &Options{Algorithm: AlgorithmURDNA2015})
	out2 := canonicalText(t, relabeled, &Options{Algorithm: AlgorithmURDNA2015})
	out3 := canonicalText(t, reordered, &Options{Algorithm: AlgorithmURDNA2015})

	assert.Equal(t, out1, out2)
	assert.Equal(t, out1, out3)
}

// Scenario 5 (literal tie case): two blank nodes related only to each
// other, with no distinguishing data anywhere in the dataset, so their
// first-degree hashes are identical and the simple labeling loop
// (spec §4.6 step 5) can never break the tie — only the complex,
// N-degree pass (step 6) can, and even there resultHash(_:a) and
// resultHash(_:b) come out bit-for-bit equal. Canonicalize must still
// pick one deterministic output every time it runs, in the same
// process, on the same input (spec §8 Determinism).
func TestCanonicalizeSymmetricPairTieCaseIsDeterministic(t *testing.T) {
	ds := mustRead(t, `_:a <http://example.org/knows> _:b .
_:b <http://example.org/knows> _:a .
`)

	first := canonicalText(t, ds, &Options{Algorithm: AlgorithmURDNA2015})
	for i := 0; i < 20; i++ {
		out := canonicalText(t, ds, &Options{Algorithm: AlgorithmURDNA2015})
		require.Equal(t, first, out)
	}
}

// Scenario 6: a pathological clique of mutually-related blank nodes
// with MaxDeepIterations set low enough to trip the cap must fail with
// DeepIterationsExceeded rather than run unbounded.
func TestCanonicalizeDeepIterationsCapEnforced(t *testing.T) {
	var b strings.Builder
	const n = 6
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			b.WriteString("_:n")
			b.WriteString(itoa(i))
			b.WriteString(" <http://example.org/related> _:n")
			b.WriteString(itoa(j))
			b.WriteString(" .\n")
		}
	}
	ds := mustRead(t, b.String())

	_, err := Canonicalize(ds, &Options{Algorithm: AlgorithmURDNA2015, MaxDeepIterations: 1})
	require.Error(t, err)

	cerr, ok := err.(*CanonicalizeError)
	require.True(t, ok)
	assert.Equal(t, DeepIterationsExceeded, cerr.Code)
}

func itoa(i int) string {
	digits := "0123456789"
	if i < 10 {
		return string(digits[i])
	}
	return string(digits[i/10]) + string(digits[i%10])
}

// Determinism: canonicalizing the same dataset twice produces
// byte-identical output.
func TestCanonicalizeIsDeterministic(t *testing.T) {
	ds := mustRead(t, `_:a <http://example.org/knows> _:b .
_:b <http://example.org/knows> _:c .
_:c <http://example.org/knows> _:a .
`)
	out1 := canonicalText(t, ds, &Options{Algorithm: AlgorithmURDNA2015})
	out2 := canonicalText(t, ds, &Options{Algorithm: AlgorithmURDNA2015})
	assert.Equal(t, out1, out2)
}

// Canonical output must be sorted.
func TestCanonicalizeOutputIsSorted(t *testing.T) {
	ds := mustRead(t, `_:b <http://example.org/p> <http://example.org/o2> .
_:a <http://example.org/p> <http://example.org/o1> .
`)
	out := canonicalText(t, ds, &Options{Algorithm: AlgorithmURDNA2015})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, lines[0] < lines[1])
}

// Round trip: canonical output re-read and re-canonicalized is a
// fixed point.
func TestCanonicalizeRoundTripIsFixedPoint(t *testing.T) {
	ds := mustRead(t, `_:a <http://example.org/knows> _:b .
_:b <http://example.org/name> "Bob" .
`)
	first := canonicalText(t, ds, &Options{Algorithm: AlgorithmURDNA2015})

	reparsed := mustRead(t, first)
	second := canonicalText(t, reparsed, &Options{Algorithm: AlgorithmURDNA2015})

	assert.Equal(t, first, second)
}

func TestCanonicalizeRejectsMissingAlgorithm(t *testing.T) {
	ds := NewDataset()
	_, err := Canonicalize(ds, &Options{})
	require.Error(t, err)
	cerr, ok := err.(*CanonicalizeError)
	require.True(t, ok)
	assert.Equal(t, MissingAlgorithm, cerr.Code)
}

func TestCanonicalizeRejectsUnknownAlgorithm(t *testing.T) {
	ds := NewDataset()
	_, err := Canonicalize(ds, &Options{Algorithm: "URGNA2012"})
	require.Error(t, err)
	cerr, ok := err.(*CanonicalizeError)
	require.True(t, ok)
	assert.Equal(t, InvalidAlgorithm, cerr.Code)
}

func TestCanonicalizeWithCustomDigestPreservesShape(t *testing.T) {
	ds := mustRead(t, `_:a <http://example.org/knows> _:b .
_:b <http://example.org/knows> _:a .
`)

	sha := canonicalText(t, ds, &Options{Algorithm: AlgorithmURDNA2015})
	hmac := canonicalText(t, ds, &Options{
		Algorithm:           AlgorithmURDNA2015,
		CreateMessageDigest: NewHMACSHA256Digest([]byte("key")),
	})

	assert.Equal(t, strings.Count(sha, "\n"), strings.Count(hmac, "\n"))
}
