package engine

import "testing"

func TestComputeEmptyTyped(t *testing.T) {
	got := Compute("the quick brown fox", "", 30)
	want := Metrics{WPM: 0, Accuracy: 100, Errors: 0}
	if got != want {
		t.Errorf("Compute with empty typed = %+v, want %+v", got, want)
	}
}

func TestComputePrefixIsClean(t *testing.T) {
	ref := "the quick brown fox jumps over the lazy dog"
	for _, n := range []int{1, 4, 9, 19, len(ref)} {
		got := Compute(ref, ref[:n], 10)
		if got.Errors != 0 {
			t.Errorf("Compute(ref, ref[:%d]) errors = %d, want 0", n, got.Errors)
		}
		if got.Accuracy != 100 {
			t.Errorf("Compute(ref, ref[:%d]) accuracy = %d, want 100", n, got.Accuracy)
		}
	}
}

func TestComputePositionalErrors(t *testing.T) {
	got := Compute("axc", "abc", 10)
	if got.Errors != 1 {
		t.Errorf("errors = %d, want 1", got.Errors)
	}
	// round(2/3 * 100) = 67
	if got.Accuracy != 67 {
		t.Errorf("accuracy = %d, want 67", got.Accuracy)
	}
}

func TestComputeWPMIsTokenCount(t *testing.T) {
	// 3 tokens in 30 seconds → round(3 / 0.5) = 6
	got := Compute("hello world foo bar", "hello world foo", 30)
	if got.WPM != 6 {
		t.Errorf("wpm = %d, want 6", got.WPM)
	}

	// A trailing partial word still counts as a whole token.
	got = Compute("hello world foo bar", "hello world fo", 30)
	if got.WPM != 6 {
		t.Errorf("wpm with partial trailing word = %d, want 6", got.WPM)
	}
}

func TestComputeZeroElapsed(t *testing.T) {
	got := Compute("hello world", "hello", 0)
	if got.WPM != 0 {
		t.Errorf("wpm with zero elapsed = %d, want 0", got.WPM)
	}
}

func TestComputeExactMatch(t *testing.T) {
	ref := "pack my box with five dozen liquor jugs"
	got := Compute(ref, ref, 60)
	if got.Errors != 0 || got.Accuracy != 100 {
		t.Errorf("exact match = %+v, want 0 errors, 100 accuracy", got)
	}
	if got.WPM != 8 {
		t.Errorf("wpm = %d, want 8", got.WPM)
	}
}

func TestComputeRunesNotBytes(t *testing.T) {
	// Multi-byte characters compare per rune, not per byte.
	got := Compute("héllo", "héllo", 10)
	if got.Errors != 0 || got.Accuracy != 100 {
		t.Errorf("unicode exact match = %+v, want clean", got)
	}

	got = Compute("héllo", "hèllo", 10)
	if got.Errors != 1 {
		t.Errorf("unicode mismatch errors = %d, want 1", got.Errors)
	}
}

func TestComputeDeterministic(t *testing.T) {
	a := Compute("reference text here", "refrence text", 42)
	b := Compute("reference text here", "refrence text", 42)
	if a != b {
		t.Errorf("Compute is not deterministic: %+v vs %+v", a, b)
	}
}
