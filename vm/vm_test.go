package vm

import (
	"io"
	"os"
	"strings"
	"testing"

	"wisp/compiler"
)

func TestVMRunsArithmeticAndPrints(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"print 1 + 2 * 3;", "7"},
		{"print (1 + 2) * 3;", "9"},
		{"print 10 / 4;", "2.5"},
		{"print -5 + 2;", "-3"},
		{"print \"foo\" + \"bar\";", "foobar"},
	}
	for _, tt := range tests {
		got, err := capturePrint(t, tt.src)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tt.src, err)
		}
		if got != tt.want+"\n" {
			t.Errorf("%q: printed %q, want %q", tt.src, got, tt.want+"\n")
		}
	}
}

func TestVMComparisons(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"print 1 < 2;", "true"},
		{"print 1 >= 2;", "false"},
		{"print 1 == 1;", "true"},
		{"print 1 != 1;", "false"},
		{"print \"a\" == \"a\";", "true"},
		{"print nil == false;", "false"},
	}
	for _, tt := range tests {
		got, err := capturePrint(t, tt.src)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tt.src, err)
		}
		if got != tt.want+"\n" {
			t.Errorf("%q: printed %q, want %q", tt.src, got, tt.want+"\n")
		}
	}
}

func TestVMGlobalVariableLifecycle(t *testing.T) {
	got, err := capturePrint(t, "var a = 1; var b = 2; print a + b; a = a + 10; print a;")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "3\n11\n" {
		t.Errorf("printed %q, want %q", got, "3\n11\n")
	}
}

func TestVMAssignToUndefinedGlobalIsRuntimeError(t *testing.T) {
	_, err := capturePrint(t, "a = 1;")
	if err == nil {
		t.Fatal("expected a runtime error assigning to an undefined global")
	}
	rerr, ok := err.(*RuntimeError)
	if !ok {
		t.Fatalf("error is not *RuntimeError: %T", err)
	}
	if !strings.Contains(rerr.Message, "Undefined variable") {
		t.Errorf("message = %q, want it to mention the undefined variable", rerr.Message)
	}
}

func TestVMLocalsAreStackSlotsAndDoNotLeakGlobally(t *testing.T) {
	got, err := capturePrint(t, "{ var a = 5; print a; }")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "5\n" {
		t.Errorf("printed %q, want %q", got, "5\n")
	}

	_, err = capturePrint(t, "{ var a = 5; } print a;")
	if err == nil {
		t.Fatal("expected a runtime error: locals do not escape their block")
	}
}

func TestVMWhileLoop(t *testing.T) {
	got, err := capturePrint(t, "var i = 0; while (i < 3) { print i; i = i + 1; }")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "0\n1\n2\n" {
		t.Errorf("printed %q, want %q", got, "0\n1\n2\n")
	}
}

func TestVMAndOrShortCircuit(t *testing.T) {
	got, err := capturePrint(t, "var a = false; var b = true; print a and b; print a or b;")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "false\ntrue\n" {
		t.Errorf("printed %q, want %q", got, "false\ntrue\n")
	}
}

func TestVMNegatingNonNumberIsRuntimeError(t *testing.T) {
	_, err := capturePrint(t, "print -\"x\";")
	if err == nil {
		t.Fatal("expected a runtime error")
	}
	rerr, ok := err.(*RuntimeError)
	if !ok {
		t.Fatalf("error is not *RuntimeError: %T", err)
	}
	if rerr.Message != "Attempt to negate a non-numeric value" {
		t.Errorf("message = %q", rerr.Message)
	}
}

func TestVMAddingMismatchedTypesIsRuntimeError(t *testing.T) {
	_, err := capturePrint(t, "print 1 + \"x\";")
	if err == nil {
		t.Fatal("expected a runtime error")
	}
	if _, ok := err.(*RuntimeError); !ok {
		t.Fatalf("error is not *RuntimeError: %T", err)
	}
}

func TestVMComparingMismatchedTypesIsRuntimeError(t *testing.T) {
	_, err := capturePrint(t, "print 1 < \"x\";")
	if err == nil {
		t.Fatal("expected a runtime error")
	}
	if _, ok := err.(*RuntimeError); !ok {
		t.Fatalf("error is not *RuntimeError: %T", err)
	}
}

func TestVMRuntimeErrorReportsLineOffsetAndInstruction(t *testing.T) {
	_, err := capturePrint(t, "print -\"x\";")
	rerr, ok := err.(*RuntimeError)
	if !ok {
		t.Fatalf("error is not *RuntimeError: %T", err)
	}
	msg := rerr.Error()
	if !strings.HasPrefix(msg, "[source line 1, byte code offset ") {
		t.Errorf("message = %q, want the source-line/offset/inst prefix", msg)
	}
	if !strings.Contains(msg, "OP_NEGATE") {
		t.Errorf("message = %q, want it to name the failing instruction", msg)
	}
}

func TestVMGlobalsSurviveAcrossRunsOnTheSameVM(t *testing.T) {
	m := New()
	if _, err := runOn(t, m, "var a = 1;"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := runOn(t, m, "print a + 1;")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "2\n" {
		t.Errorf("printed %q, want %q", got, "2\n")
	}
}

// capturePrint compiles src and runs it on a fresh VM, returning whatever
// it printed to stdout and any error from compiling or running it.
func capturePrint(t *testing.T, src string) (string, error) {
	t.Helper()
	return runOn(t, New(), src)
}

// runOn compiles src and runs it on m, capturing stdout.
func runOn(t *testing.T, m *VM, src string) (string, error) {
	t.Helper()
	chunk, err := compiler.Compile(src)
	if err != nil {
		t.Fatalf("Compile(%q): %v", src, err)
	}

	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	os.Stdout = w

	runErr := m.Run(chunk)

	w.Close()
	os.Stdout = old

	out, readErr := io.ReadAll(r)
	if readErr != nil {
		t.Fatalf("reading captured stdout: %v", readErr)
	}
	return string(out), runErr
}
