package main

import "testing"

func TestReadUIMode(t *testing.T) {
	cases := []struct {
		input string
		want  uiMode
		ok    bool
	}{
		{"", uiModeAuto, true},
		{"auto", uiModeAuto, true},
		{"Auto", uiModeAuto, true},
		{"on", uiModeOn, true},
		{"off", uiModeOff, true},
		{" off ", uiModeOff, true},
		{"maybe", "", false},
	}
	for _, tc := range cases {
		got, err := readUIMode(tc.input)
		if tc.ok != (err == nil) {
			t.Fatalf("readUIMode(%q) error = %v, want ok=%v", tc.input, err, tc.ok)
		}
		if tc.ok && got != tc.want {
			t.Fatalf("readUIMode(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestShouldUseTUIExplicitModes(t *testing.T) {
	if !shouldUseTUI(uiModeOn) {
		t.Fatal("shouldUseTUI(on) = false")
	}
	if shouldUseTUI(uiModeOff) {
		t.Fatal("shouldUseTUI(off) = true")
	}
}

func TestStateFilter(t *testing.T) {
	keep, err := stateFilter("valued")
	if err != nil {
		t.Fatalf("stateFilter: %v", err)
	}
	if keep("[enabled]") || !keep("200") {
		t.Fatal("valued filter misclassifies states")
	}
	if _, err := stateFilter("sideways"); err == nil {
		t.Fatal("stateFilter accepted an invalid value")
	}
}
