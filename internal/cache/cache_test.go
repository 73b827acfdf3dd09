package cache

import (
	"testing"
	"time"
)

func TestGetReturnsFreshValue(t *testing.T) {
	s := New(time.Hour)

	s.Put("AAPL_security_20250412_09", 42)

	v, ok := s.Get("AAPL_security_20250412_09")
	if !ok {
		t.Fatal("expected a cache hit")
	}
	if v.(int) != 42 {
		t.Errorf("expected 42, got %v", v)
	}
}

func TestMissAfterTTL(t *testing.T) {
	s := New(time.Hour)

	base := time.Date(2025, 4, 12, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }
	s.Put("k", "v")

	s.now = func() time.Time { return base.Add(59 * time.Minute) }
	if _, ok := s.Get("k"); !ok {
		t.Error("expected hit just inside the TTL")
	}

	s.now = func() time.Time { return base.Add(time.Hour) }
	if _, ok := s.Get("k"); ok {
		t.Error("expected miss at exactly the TTL")
	}
}

func TestMissForUnknownKey(t *testing.T) {
	s := New(time.Hour)
	if _, ok := s.Get("nope"); ok {
		t.Error("expected miss for unknown key")
	}
}

func TestStringStampedEntry(t *testing.T) {
	s := New(time.Hour)

	now := time.Date(2025, 4, 12, 10, 30, 0, 0, time.Local)
	s.now = func() time.Time { return now }

	s.PutStamped("k", "2025-04-12 10:00:00", "v")
	v, ok := s.Get("k")
	if !ok {
		t.Fatal("expected hit for 30-minute-old string stamp")
	}
	if v.(string) != "v" {
		t.Errorf("expected v, got %v", v)
	}

	s.now = func() time.Time { return now.Add(time.Hour) }
	if _, ok := s.Get("k"); ok {
		t.Error("expected miss once the string stamp is older than TTL")
	}
}

func TestCorruptStampIsAMiss(t *testing.T) {
	s := New(time.Hour)

	s.PutStamped("k", "not-a-timestamp", "v")
	if _, ok := s.Get("k"); ok {
		t.Error("expected corrupt stamp to behave as a miss")
	}

	// The entry stays in place; the store never evicts.
	if s.Len() != 1 {
		t.Errorf("expected 1 entry retained, got %d", s.Len())
	}
}

func TestPutOverwrites(t *testing.T) {
	s := New(time.Hour)
	s.Put("k", 1)
	s.Put("k", 2)

	v, ok := s.Get("k")
	if !ok || v.(int) != 2 {
		t.Errorf("expected overwritten value 2, got %v (hit=%v)", v, ok)
	}
	if s.Len() != 1 {
		t.Errorf("expected a single entry, got %d", s.Len())
	}
}
