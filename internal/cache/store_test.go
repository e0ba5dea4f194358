package cache

import (
	"context"
	"fmt"
	"testing"
	"time"
)

// openTestStore creates a store in a temp directory with a controllable clock.
func openTestStore(t *testing.T, ttl time.Duration) (*Store, *time.Time) {
	t.Helper()

	s, err := Open(t.TempDir(), Options{TTL: ttl, EnableWAL: true})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})

	now := time.Now()
	s.now = func() time.Time { return now }
	return s, &now
}

func TestStorePutGet(t *testing.T) {
	t.Parallel()

	s, _ := openTestStore(t, time.Hour)
	ctx := context.Background()

	if err := s.Put(ctx, "k1", []byte("hello")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, ok, err := s.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !ok {
		t.Fatal("Get() miss, want hit")
	}
	if string(got) != "hello" {
		t.Errorf("Get() = %q, want %q", got, "hello")
	}
}

func TestStoreGetMiss(t *testing.T) {
	t.Parallel()

	s, _ := openTestStore(t, time.Hour)

	_, ok, err := s.Get(context.Background(), "absent")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ok {
		t.Error("Get() hit for absent key, want miss")
	}
}

func TestStoreTTLExpiry(t *testing.T) {
	t.Parallel()

	s, now := openTestStore(t, time.Hour)
	ctx := context.Background()

	if err := s.Put(ctx, "k1", []byte("v")); err != nil {
		t.Fatal(err)
	}

	// Just inside the TTL: still a hit
	*now = now.Add(time.Hour - time.Second)
	if _, ok, err := s.Get(ctx, "k1"); err != nil || !ok {
		t.Errorf("Get() inside TTL: ok=%v err=%v, want hit", ok, err)
	}

	// At the TTL boundary: expired means absent
	*now = now.Add(time.Second)
	if _, ok, err := s.Get(ctx, "k1"); err != nil || ok {
		t.Errorf("Get() at TTL boundary: ok=%v err=%v, want miss", ok, err)
	}

	// The expired row was deleted on read
	n, err := s.Len(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("Len() = %d after expired read, want 0", n)
	}
}

func TestStoreLastWriterWins(t *testing.T) {
	t.Parallel()

	s, _ := openTestStore(t, time.Hour)
	ctx := context.Background()

	if err := s.Put(ctx, "k", []byte("first")); err != nil {
		t.Fatal(err)
	}
	if err := s.Put(ctx, "k", []byte("second")); err != nil {
		t.Fatal(err)
	}

	got, ok, err := s.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Get(): ok=%v err=%v", ok, err)
	}
	if string(got) != "second" {
		t.Errorf("Get() = %q, want %q", got, "second")
	}

	n, err := s.Len(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("Len() = %d after overwrite, want 1", n)
	}
}

func TestStoreGetJSONSelfHeals(t *testing.T) {
	t.Parallel()

	s, _ := openTestStore(t, time.Hour)
	ctx := context.Background()

	// Write a payload that is not valid JSON
	if err := s.Put(ctx, "bad", []byte("{not json")); err != nil {
		t.Fatal(err)
	}

	var v map[string]string
	ok, err := s.GetJSON(ctx, "bad", &v)
	if err != nil {
		t.Fatalf("GetJSON() error = %v, want corruption absorbed", err)
	}
	if ok {
		t.Error("GetJSON() hit for corrupt payload, want miss")
	}

	// The corrupt entry was deleted
	if _, ok, _ := s.Get(ctx, "bad"); ok {
		t.Error("corrupt entry still present after GetJSON")
	}
}

func TestStorePutJSONRoundTrip(t *testing.T) {
	t.Parallel()

	s, _ := openTestStore(t, time.Hour)
	ctx := context.Background()

	in := map[string]int{"a": 1, "b": 2}
	if err := s.PutJSON(ctx, "m", in); err != nil {
		t.Fatalf("PutJSON() error = %v", err)
	}

	var out map[string]int
	ok, err := s.GetJSON(ctx, "m", &out)
	if err != nil || !ok {
		t.Fatalf("GetJSON(): ok=%v err=%v", ok, err)
	}
	if out["a"] != 1 || out["b"] != 2 {
		t.Errorf("GetJSON() = %v, want %v", out, in)
	}
}

func TestStoreSweepExpired(t *testing.T) {
	t.Parallel()

	s, now := openTestStore(t, time.Minute)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := s.Put(ctx, fmt.Sprintf("old%d", i), []byte("v")); err != nil {
			t.Fatal(err)
		}
	}

	*now = now.Add(2 * time.Minute)
	for i := 0; i < 3; i++ {
		if err := s.Put(ctx, fmt.Sprintf("new%d", i), []byte("v")); err != nil {
			t.Fatal(err)
		}
	}

	removed, err := s.SweepExpired(ctx)
	if err != nil {
		t.Fatalf("SweepExpired() error = %v", err)
	}
	if removed != 5 {
		t.Errorf("SweepExpired() removed %d, want 5", removed)
	}

	n, err := s.Len(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("Len() = %d after sweep, want 3", n)
	}
}

func TestStoreEnforceSizeCap(t *testing.T) {
	t.Parallel()

	s, now := openTestStore(t, 0) // no expiry; size cap only
	ctx := context.Background()

	// 1050 entries with strictly increasing creation times
	for i := 0; i < 1050; i++ {
		*now = now.Add(time.Second)
		if err := s.Put(ctx, fmt.Sprintf("k%04d", i), []byte("v")); err != nil {
			t.Fatal(err)
		}
	}

	evicted, err := s.EnforceSizeCap(ctx, 1000)
	if err != nil {
		t.Fatalf("EnforceSizeCap() error = %v", err)
	}
	// 20% of 1050 entries
	if evicted != 210 {
		t.Errorf("EnforceSizeCap() evicted %d, want 210", evicted)
	}

	n, err := s.Len(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 840 {
		t.Errorf("Len() = %d after eviction, want 840", n)
	}

	// Oldest entries were the ones removed
	if _, ok, _ := s.Get(ctx, "k0000"); ok {
		t.Error("oldest entry survived eviction")
	}
	if _, ok, _ := s.Get(ctx, "k1049"); !ok {
		t.Error("newest entry was evicted")
	}
}

func TestStoreEnforceSizeCapUnderLimit(t *testing.T) {
	t.Parallel()

	s, _ := openTestStore(t, 0)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		if err := s.Put(ctx, fmt.Sprintf("k%d", i), []byte("v")); err != nil {
			t.Fatal(err)
		}
	}

	evicted, err := s.EnforceSizeCap(ctx, 100)
	if err != nil {
		t.Fatalf("EnforceSizeCap() error = %v", err)
	}
	if evicted != 0 {
		t.Errorf("EnforceSizeCap() evicted %d under the cap, want 0", evicted)
	}
}

func TestKeyDeterministic(t *testing.T) {
	t.Parallel()

	k1 := Key("query", "10", "github")
	k2 := Key("query", "10", "github")
	if k1 != k2 {
		t.Errorf("identical inputs produced different keys: %q vs %q", k1, k2)
	}

	if Key("ab", "c") == Key("a", "bc") {
		t.Error("concatenation-ambiguous inputs collided")
	}

	if len(k1) != 64 {
		t.Errorf("key length = %d, want 64 hex chars", len(k1))
	}
}
