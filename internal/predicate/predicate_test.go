package predicate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestExpand(t *testing.T) {
	cases := []struct {
		template string
		arg      string
		want     string
	}{
		{"gcc {} -o test test.c", "-O2 -fno-inline", "gcc -O2 -fno-inline -o test test.c"},
		{"{} and {}", "x", "x and x"},
		{`CFLAGS="{{}}" make`, "-O2", `CFLAGS="{}" make`},
		{"{{literal}}", "-O2", "{literal}"},
		{"no placeholder", "-O2", "no placeholder"},
		{"", "-O2", ""},
		{"{}", "", ""},
	}
	for _, tc := range cases {
		if got := Expand(tc.template, tc.arg); got != tc.want {
			t.Fatalf("Expand(%q, %q) = %q, want %q", tc.template, tc.arg, got, tc.want)
		}
	}
}

func TestEvalAccept(t *testing.T) {
	r := &Runner{Template: "true {}"}
	if err := r.Eval(context.Background(), []string{"-O2", "-funroll-loops"}); err != nil {
		t.Fatalf("Eval: %v", err)
	}
}

func TestEvalReject(t *testing.T) {
	r := &Runner{Template: "false {}"}
	err := r.Eval(context.Background(), []string{"-O2"})
	var failure *Failure
	if !errors.As(err, &failure) {
		t.Fatalf("Eval error = %v, want *Failure", err)
	}
	if failure.TimedOut {
		t.Fatalf("Failure.TimedOut = true for plain non-zero exit")
	}
}

func TestEvalCapturesOutput(t *testing.T) {
	r := &Runner{Template: `sh -c "echo boom; exit 1"`}
	err := r.Eval(context.Background(), nil)
	var failure *Failure
	if !errors.As(err, &failure) {
		t.Fatalf("Eval error = %v, want *Failure", err)
	}
	if !strings.Contains(string(failure.Output), "boom") {
		t.Fatalf("Failure.Output = %q, want captured output", failure.Output)
	}
}

func TestEvalCommandSequence(t *testing.T) {
	// The second segment fails, so a third would never matter; what does
	// matter is that the first's success is not the verdict.
	r := &Runner{Template: "true ; false ; true"}
	err := r.Eval(context.Background(), nil)
	var failure *Failure
	if !errors.As(err, &failure) {
		t.Fatalf("Eval error = %v, want *Failure from second segment", err)
	}
	if len(failure.Cmd) != 1 || failure.Cmd[0] != "false" {
		t.Fatalf("Failure.Cmd = %v, want [false]", failure.Cmd)
	}
}

func TestEvalTimeout(t *testing.T) {
	r := &Runner{Template: "sleep 5", Timeout: 50 * time.Millisecond}
	start := time.Now()
	err := r.Eval(context.Background(), nil)
	if time.Since(start) > 3*time.Second {
		t.Fatalf("Eval did not honor the timeout")
	}
	var failure *Failure
	if !errors.As(err, &failure) {
		t.Fatalf("Eval error = %v, want *Failure", err)
	}
	if !failure.TimedOut {
		t.Fatalf("Failure.TimedOut = false, want true")
	}
}

func TestEvalFormatsAndJoins(t *testing.T) {
	// -I{} style per-argument formatting, custom separator.
	r := &Runner{
		Template:  `sh -c 'test "$0" = "-Xa,-Xb"' {}`,
		Separator: ",",
		Format:    "-X{}",
	}
	if err := r.Eval(context.Background(), []string{"a", "b"}); err != nil {
		t.Fatalf("Eval: %v", err)
	}
}

func TestEvalBadTemplateIsFatal(t *testing.T) {
	r := &Runner{Template: "echo 'unterminated {}"}
	err := r.Eval(context.Background(), []string{"-O2"})
	if err == nil {
		t.Fatal("Eval succeeded with malformed template")
	}
	var failure *Failure
	if errors.As(err, &failure) {
		t.Fatalf("malformed template reported as *Failure: %v", err)
	}
}

func TestEvalSkipsEmptySegments(t *testing.T) {
	r := &Runner{Template: "; true ;"}
	if err := r.Eval(context.Background(), nil); err != nil {
		t.Fatalf("Eval: %v", err)
	}
}

func TestEvalTrace(t *testing.T) {
	var lines []string
	r := &Runner{
		Template: "true ; true",
		Tracef: func(format string, args ...any) {
			lines = append(lines, fmt.Sprintf(format, args...))
		},
	}
	if err := r.Eval(context.Background(), nil); err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("trace lines = %v, want 2 entries", lines)
	}
	if !strings.Contains(lines[0], "1/2") || !strings.Contains(lines[1], "2/2") {
		t.Fatalf("trace lines = %v, want 1/2 and 2/2", lines)
	}
}
