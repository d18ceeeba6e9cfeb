package diff_test

import (
	"testing"

	"github.com/lintgate/lintgate/internal/diff"
)

func TestComputeMapping_EmptyDiffIsIdentity(t *testing.T) {
	m, err := diff.ComputeMapping("", 10, 10)
	if err != nil {
		t.Fatalf("ComputeMapping() error = %v", err)
	}

	for n := 1; n <= 10; n++ {
		if got := m.NewLine(n); got != n {
			t.Errorf("NewLine(%d) = %d, want %d", n, got, n)
		}
		if got := m.OldLine(n); got != n {
			t.Errorf("OldLine(%d) = %d, want %d", n, got, n)
		}
	}
	if m.RefMissing() {
		t.Error("RefMissing() = true for a populated reference side")
	}
}

func TestComputeMapping_DeletionShiftsFollowingLines(t *testing.T) {
	// 10-line file with old line 5 deleted and no insertion.
	patch := `--- a/pkg/a.py
+++ b/pkg/a.py
@@ -2,7 +2,6 @@
 two
 three
 four
-five
 six
 seven
 eight
`

	m, err := diff.ComputeMapping(patch, 10, 9)
	if err != nil {
		t.Fatalf("ComputeMapping() error = %v", err)
	}

	if got := m.NewLine(5); got != diff.NoMatch {
		t.Errorf("NewLine(5) = %d, want NoMatch", got)
	}
	for k := 6; k <= 10; k++ {
		if got := m.NewLine(k); got != k-1 {
			t.Errorf("NewLine(%d) = %d, want %d", k, got, k-1)
		}
	}
	for k := 1; k <= 4; k++ {
		if got := m.NewLine(k); got != k {
			t.Errorf("NewLine(%d) = %d, want %d", k, got, k)
		}
	}
}

func TestComputeMapping_InsertionShiftsFollowingLines(t *testing.T) {
	// 10-line file with one line inserted at new position 3.
	patch := `--- a/pkg/a.py
+++ b/pkg/a.py
@@ -1,5 +1,6 @@
 one
 two
+inserted
 three
 four
 five
`

	m, err := diff.ComputeMapping(patch, 10, 11)
	if err != nil {
		t.Fatalf("ComputeMapping() error = %v", err)
	}

	if got := m.OldLine(3); got != diff.NoMatch {
		t.Errorf("OldLine(3) = %d, want NoMatch", got)
	}
	for k := 4; k <= 11; k++ {
		if got := m.OldLine(k); got != k-1 {
			t.Errorf("OldLine(%d) = %d, want %d", k, got, k-1)
		}
	}
	for k := 1; k <= 2; k++ {
		if got := m.OldLine(k); got != k {
			t.Errorf("OldLine(%d) = %d, want %d", k, got, k)
		}
	}
}

func TestComputeMapping_RoundTrip(t *testing.T) {
	// Mixed edit: a deletion and an insertion in separate hunks over a
	// 40-line file. Every resolved old line must map back to itself.
	patch := `--- a/pkg/a.py
+++ b/pkg/a.py
@@ -2,7 +2,6 @@
 two
 three
 four
-five
 six
 seven
 eight
@@ -28,6 +27,7 @@
 twenty-eight
 twenty-nine
 thirty
+inserted
 thirty-one
 thirty-two
 thirty-three
`

	m, err := diff.ComputeMapping(patch, 40, 40)
	if err != nil {
		t.Fatalf("ComputeMapping() error = %v", err)
	}

	for n := 1; n <= 40; n++ {
		mapped := m.NewLine(n)
		if mapped == diff.NoMatch {
			continue
		}
		if got := m.OldLine(mapped); got != n {
			t.Errorf("OldLine(NewLine(%d)) = %d, want %d", n, got, n)
		}
	}
}

func TestComputeMapping_OffsetCarriesBetweenHunks(t *testing.T) {
	// Same two-hunk diff as the round-trip case: lines between the hunks
	// extrapolate with the deletion's -1 offset, lines after the second
	// hunk with the net offset of zero.
	patch := `--- a/pkg/a.py
+++ b/pkg/a.py
@@ -2,7 +2,6 @@
 two
 three
 four
-five
 six
 seven
 eight
@@ -28,6 +27,7 @@
 twenty-eight
 twenty-nine
 thirty
+inserted
 thirty-one
 thirty-two
 thirty-three
`

	m, err := diff.ComputeMapping(patch, 40, 40)
	if err != nil {
		t.Fatalf("ComputeMapping() error = %v", err)
	}

	for k := 9; k <= 27; k++ {
		if got := m.NewLine(k); got != k-1 {
			t.Errorf("between hunks: NewLine(%d) = %d, want %d", k, got, k-1)
		}
	}
	for k := 34; k <= 40; k++ {
		if got := m.NewLine(k); got != k {
			t.Errorf("after second hunk: NewLine(%d) = %d, want %d", k, got, k)
		}
	}
}

func TestComputeMapping_TrailingDeletionKeepsResolvedOffset(t *testing.T) {
	// A hunk whose final body line is a deletion: the extrapolation after
	// the hunk must carry the offset of the last resolved pair, not the
	// deletion's NoMatch entry.
	patch := `--- a/pkg/a.py
+++ b/pkg/a.py
@@ -5,4 +5,3 @@
 five
 six
 seven
-eight
`

	m, err := diff.ComputeMapping(patch, 10, 9)
	if err != nil {
		t.Fatalf("ComputeMapping() error = %v", err)
	}

	if got := m.NewLine(8); got != diff.NoMatch {
		t.Errorf("NewLine(8) = %d, want NoMatch", got)
	}
	// Last resolved pair is (7, 7), offset zero.
	if got := m.NewLine(9); got != 9 {
		t.Errorf("NewLine(9) = %d, want 9", got)
	}
	if got := m.NewLine(10); got != 10 {
		t.Errorf("NewLine(10) = %d, want 10", got)
	}
}

func TestComputeMapping_MissingReferenceFile(t *testing.T) {
	// New file: nothing exists at the reference revision.
	patch := `--- /dev/null
+++ b/pkg/new.py
@@ -0,0 +1,3 @@
+one
+two
+three
`

	m, err := diff.ComputeMapping(patch, 0, 3)
	if err != nil {
		t.Fatalf("ComputeMapping() error = %v", err)
	}

	if !m.RefMissing() {
		t.Error("RefMissing() = false, want true")
	}
	for n := 1; n <= 3; n++ {
		if got := m.OldLine(n); got != diff.NoMatch {
			t.Errorf("OldLine(%d) = %d, want NoMatch", n, got)
		}
	}
}

func TestComputeMapping_GitEnvelope(t *testing.T) {
	patch := `diff --git a/pkg/a.py b/pkg/a.py
index 83db48f..bf269f4 100644
--- a/pkg/a.py
+++ b/pkg/a.py
@@ -1,3 +1,3 @@
 one
-two
+TWO
 three
`

	m, err := diff.ComputeMapping(patch, 3, 3)
	if err != nil {
		t.Fatalf("ComputeMapping() error = %v", err)
	}

	if got := m.NewLine(2); got != diff.NoMatch {
		t.Errorf("NewLine(2) = %d, want NoMatch", got)
	}
	if got := m.OldLine(2); got != diff.NoMatch {
		t.Errorf("OldLine(2) = %d, want NoMatch", got)
	}
	if got := m.NewLine(3); got != 3 {
		t.Errorf("NewLine(3) = %d, want 3", got)
	}
}

func TestComputeMapping_MalformedDiff(t *testing.T) {
	patch := `--- a/pkg/a.py
+++ b/pkg/a.py
@@ -1,bogus +1,2 @@
 one
`

	if _, err := diff.ComputeMapping(patch, 3, 3); err == nil {
		t.Fatal("expected an error for a malformed hunk header")
	}
}

func TestMappingLookupOutOfRange(t *testing.T) {
	m, err := diff.ComputeMapping("", 3, 3)
	if err != nil {
		t.Fatalf("ComputeMapping() error = %v", err)
	}

	for _, n := range []int{-1, 0, 4, 100} {
		if got := m.NewLine(n); got != diff.NoMatch {
			t.Errorf("NewLine(%d) = %d, want NoMatch", n, got)
		}
		if got := m.OldLine(n); got != diff.NoMatch {
			t.Errorf("OldLine(%d) = %d, want NoMatch", n, got)
		}
	}
}

func TestIdentity(t *testing.T) {
	m := diff.Identity(5)

	for n := 1; n <= 5; n++ {
		if m.NewLine(n) != n || m.OldLine(n) != n {
			t.Errorf("Identity mapping broken at line %d", n)
		}
	}
	if m.NewLine(6) != diff.NoMatch {
		t.Error("Identity mapping must not extend past its line count")
	}
}
