package dptable

import (
	"math"
	"testing"
)

// synthesize builds a Size-byte buffer where Expected(u,m) == f(u,m), for
// probing the offset arithmetic without needing the real backwards-induction
// table (which only internal/dpbuild can produce).
func synthesize(f func(u, m int) float32) []byte {
	buf := make([]byte, Size)
	for u := 0; u < UpperSumCount; u++ {
		for m := 0; m < UsedMaskCount; m++ {
			idx := (u*UsedMaskCount + m) * entrySize
			bits := math.Float32bits(f(u, m))
			buf[idx] = byte(bits)
			buf[idx+1] = byte(bits >> 8)
			buf[idx+2] = byte(bits >> 16)
			buf[idx+3] = byte(bits >> 24)
		}
	}
	return buf
}

func TestFromBytesRejectsWrongSize(t *testing.T) {
	if _, err := FromBytes(make([]byte, Size-1)); err == nil {
		t.Error("expected error for undersized buffer")
	}
	if _, err := FromBytes(make([]byte, Size+1)); err == nil {
		t.Error("expected error for oversized buffer")
	}
}

func TestExpectedOffsetArithmetic(t *testing.T) {
	buf := synthesize(func(u, m int) float32 {
		return float32(u)*10000 + float32(m)
	})
	tbl, err := FromBytes(buf)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	cases := []struct{ u, m int }{
		{0, 0}, {63, 4095}, {10, 2048}, {1, 1},
	}
	for _, c := range cases {
		want := float32(c.u)*10000 + float32(c.m)
		if got := tbl.Expected(c.u, c.m); got != want {
			t.Errorf("Expected(%d,%d) = %v, want %v", c.u, c.m, got, want)
		}
	}
}

func TestTerminalStateIsZero(t *testing.T) {
	buf := synthesize(func(u, m int) float32 {
		if m == AllUsedMask {
			return 0
		}
		return 1
	})
	tbl, _ := FromBytes(buf)
	for u := 0; u < UpperSumCount; u++ {
		if got := tbl.Expected(u, AllUsedMask); got != 0 {
			t.Errorf("Expected(%d, AllUsedMask) = %v, want 0", u, got)
		}
	}
}

func TestExpectedClampsOutOfRange(t *testing.T) {
	buf := synthesize(func(u, m int) float32 { return float32(u + m) })
	tbl, _ := FromBytes(buf)
	if got, want := tbl.Expected(-5, 0), tbl.Expected(0, 0); got != want {
		t.Errorf("negative upperSum not clamped: got %v, want %v", got, want)
	}
	if got, want := tbl.Expected(1000, 0), tbl.Expected(UpperSumCount-1, 0); got != want {
		t.Errorf("oversized upperSum not clamped: got %v, want %v", got, want)
	}
}
