package value

import "testing"

func TestEqualAcrossKinds(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"same number", Number(1), Number(1), true},
		{"different number", Number(1), Number(2), false},
		{"number vs string never equal", Number(1), String("1"), false},
		{"nil vs nil", Nil, Nil, true},
		{"nil vs false", Nil, Boolean(false), false},
		{"same string", String("foo"), String("foo"), true},
		{"different string", String("foo"), String("bar"), false},
		{"same bool", Boolean(true), Boolean(true), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestCompareRestrictedToNumbers(t *testing.T) {
	if cmp, ok := Compare(Number(1), Number(2)); !ok || cmp >= 0 {
		t.Errorf("Compare(1, 2) = (%d, %v), want (<0, true)", cmp, ok)
	}
	if _, ok := Compare(String("a"), String("b")); ok {
		t.Errorf("Compare on strings should be unsupported, got ok=true")
	}
	if _, ok := Compare(Number(1), Boolean(true)); ok {
		t.Errorf("Compare across kinds should be unsupported, got ok=true")
	}
}

func TestStringRendering(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Nil, "nil"},
		{Boolean(true), "true"},
		{Boolean(false), "false"},
		{Number(7), "7"},
		{Number(1.5), "1.5"},
		{String("hi"), "hi"},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
