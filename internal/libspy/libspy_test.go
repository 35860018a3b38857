package libspy

import (
	"math"
	"testing"
)

func TestI32FloorDivRoundsTowardNegativeInfinity(t *testing.T) {
	cases := []struct{ a, b, want int32 }{
		{7, 2, 3},
		{-7, 2, -4},
		{7, -2, -4},
		{-7, -2, 3},
	}
	for _, c := range cases {
		got, err := I32FloorDiv(c.a, c.b)
		if err != nil {
			t.Fatalf("I32FloorDiv(%d, %d) error: %v", c.a, c.b, err)
		}
		if got != c.want {
			t.Errorf("I32FloorDiv(%d, %d) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestI32ModSignMatchesDivisor(t *testing.T) {
	cases := []struct{ a, b, want int32 }{
		{7, 2, 1},
		{-7, 2, 1},
		{7, -2, -1},
		{-7, -2, -1},
	}
	for _, c := range cases {
		got, err := I32Mod(c.a, c.b)
		if err != nil {
			t.Fatalf("I32Mod(%d, %d) error: %v", c.a, c.b, err)
		}
		if got != c.want {
			t.Errorf("I32Mod(%d, %d) = %d, want %d", c.a, c.b, got, c.want)
		}
		if (got < 0) != (c.b < 0) && got != 0 {
			t.Errorf("sign(I32Mod(%d, %d))=%d should match sign(divisor)", c.a, c.b, got)
		}
	}
}

func TestDivisionByZeroPanics(t *testing.T) {
	if _, err := I32Div(1, 0); err == nil {
		t.Fatal("I32Div by zero should error")
	}
	if _, err := I32FloorDiv(1, 0); err == nil {
		t.Fatal("I32FloorDiv by zero should error")
	}
	if _, err := I32Mod(1, 0); err == nil {
		t.Fatal("I32Mod by zero should error")
	}
	if _, err := F64Div(1, 0); err == nil {
		t.Fatal("F64Div by zero should error")
	}
}

func TestSaturateF64ToI32(t *testing.T) {
	cases := []struct {
		in   float64
		want int32
	}{
		{0, 0},
		{3.9, 3},
		{-3.9, -3},
		{math.NaN(), 0},
		{math.MaxInt32 * 10.0, math.MaxInt32},
		{math.MinInt32 * 10.0, math.MinInt32},
	}
	for _, c := range cases {
		if got := SaturateF64ToI32(c.in); got != c.want {
			t.Errorf("SaturateF64ToI32(%v) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestStrHashNeverZeroOrNegOne(t *testing.T) {
	// No input is guaranteed to hash to exactly 0 or -1 under FNV-1a, but
	// the remap logic itself can be checked directly: any raw sum of 0 or
	// 0xFFFFFFFF must come out remapped.
	inputs := []string{"", "a", "hello world", "SPy", "the quick brown fox"}
	for _, s := range inputs {
		h := StrHash(s)
		if h == 0 || h == -1 {
			t.Errorf("StrHash(%q) = %d, must never be 0 or -1", s, h)
		}
	}
}

func TestStrGetItemNegativeIndexWraps(t *testing.T) {
	got, err := StrGetItem("abc", -1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "c" {
		t.Fatalf("StrGetItem(\"abc\", -1) = %q, want %q", got, "c")
	}
}

func TestStrGetItemOutOfBounds(t *testing.T) {
	if _, err := StrGetItem("abc", 5); err == nil {
		t.Fatal("expected out-of-bounds index to error")
	}
}

func TestStrMulNonPositiveYieldsEmpty(t *testing.T) {
	if got := StrMul("ab", 0); got != "" {
		t.Fatalf("StrMul(_, 0) = %q, want empty", got)
	}
	if got := StrMul("ab", -3); got != "" {
		t.Fatalf("StrMul(_, -3) = %q, want empty", got)
	}
	if got := StrMul("ab", 3); got != "ababab" {
		t.Fatalf("StrMul(_, 3) = %q, want %q", got, "ababab")
	}
}
