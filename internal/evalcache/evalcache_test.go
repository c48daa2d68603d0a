package evalcache

import (
	"testing"

	"github.com/yourusername/yachtcore/internal/dice"
)

func TestMissThenHit(t *testing.T) {
	c := New(16)
	key := MakeKey(10, 0b1010, 2, dice.FromFaces([]int{1, 1, 2}))

	if _, ok := c.Lookup(key); ok {
		t.Fatal("expected miss on empty cache")
	}
	c.Add(key, 123.5)
	if v, ok := c.Lookup(key); !ok || v != 123.5 {
		t.Errorf("Lookup after Add = (%v, %v), want (123.5, true)", v, ok)
	}
}

func TestDistinctKeysDoNotCollideLogically(t *testing.T) {
	c := New(64)
	k1 := MakeKey(0, 0, 1, dice.FromFaces([]int{1}))
	k2 := MakeKey(0, 0, 2, dice.FromFaces([]int{1}))
	c.Add(k1, 1.0)
	c.Add(k2, 2.0)
	if v, ok := c.Lookup(k1); !ok || v != 1.0 {
		t.Errorf("k1 lookup = (%v,%v), want (1.0,true)", v, ok)
	}
	if v, ok := c.Lookup(k2); !ok || v != 2.0 {
		t.Errorf("k2 lookup = (%v,%v), want (2.0,true)", v, ok)
	}
}

func TestFlushClearsEntries(t *testing.T) {
	c := New(8)
	key := MakeKey(5, 3, 1, dice.Multiset{})
	c.Add(key, 7)
	c.Flush()
	if _, ok := c.Lookup(key); ok {
		t.Error("expected miss after Flush")
	}
}

func TestHitRate(t *testing.T) {
	c := New(8)
	key := MakeKey(1, 1, 1, dice.Multiset{})
	c.Lookup(key) // miss
	c.Add(key, 1)
	c.Lookup(key) // hit
	c.Lookup(key) // hit
	lookups, hits, adds := c.Stats()
	if lookups != 3 || hits != 2 || adds != 1 {
		t.Errorf("Stats = (%d,%d,%d), want (3,2,1)", lookups, hits, adds)
	}
	if rate := c.HitRate(); rate < 66.0 || rate > 67.0 {
		t.Errorf("HitRate = %v, want ~66.7", rate)
	}
}
