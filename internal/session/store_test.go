package session

import (
	"errors"
	"sync"
	"testing"

	"github.com/hyunsol/choir-seating-map/internal/seating"
)

func TestGetCreatesEmptyAggregate(t *testing.T) {
	s := NewStore()

	m := s.Get("u1")
	if len(m.Sections) != 0 || len(m.Members) != 0 || len(m.Seats) != 0 {
		t.Fatalf("first access should yield an empty map, got %+v", m)
	}
}

func TestMutateInstallsResult(t *testing.T) {
	s := NewStore()

	next, err := s.Mutate("u1", func(m seating.Map) (seating.Map, error) {
		return m.AddSection("A")
	})
	if err != nil {
		t.Fatalf("Mutate: %v", err)
	}
	if _, ok := next.Sections["A"]; !ok {
		t.Fatal("returned map should carry the edit")
	}
	if _, ok := s.Get("u1").Sections["A"]; !ok {
		t.Fatal("stored map should carry the edit")
	}
}

func TestMutateErrorLeavesStateUntouched(t *testing.T) {
	s := NewStore()
	s.Mutate("u1", func(m seating.Map) (seating.Map, error) {
		return m.AddSection("A")
	})

	boom := errors.New("boom")
	got, err := s.Mutate("u1", func(m seating.Map) (seating.Map, error) {
		poisoned := m.RemoveSection("A")
		return poisoned, boom
	})
	if err != boom {
		t.Fatalf("Mutate should surface fn's error, got %v", err)
	}
	if _, ok := got.Sections["A"]; !ok {
		t.Fatal("a failed mutation must return the prior map")
	}
	if _, ok := s.Get("u1").Sections["A"]; !ok {
		t.Fatal("a failed mutation must not replace the stored map")
	}
}

func TestUsersAreIsolated(t *testing.T) {
	s := NewStore()
	s.Mutate("u1", func(m seating.Map) (seating.Map, error) {
		return m.AddSection("A")
	})

	if len(s.Get("u2").Sections) != 0 {
		t.Fatal("one user's edits must not leak into another's session")
	}
}

func TestReplaceAndDiscard(t *testing.T) {
	s := NewStore()
	restored := seating.NewMap()
	restored, _ = restored.AddSection("A")

	s.Replace("u1", restored)
	if _, ok := s.Get("u1").Sections["A"]; !ok {
		t.Fatal("Replace should install the snapshot wholesale")
	}

	s.Discard("u1")
	if len(s.Get("u1").Sections) != 0 {
		t.Fatal("Discard should drop the entry, yielding a fresh empty map")
	}
}

func TestRemoteInFlightFlag(t *testing.T) {
	s := NewStore()

	if !s.BeginRemote("u1") {
		t.Fatal("first BeginRemote should succeed")
	}
	if s.BeginRemote("u1") {
		t.Fatal("second BeginRemote while in flight should be rejected")
	}
	if !s.BeginRemote("u2") {
		t.Fatal("the flag is per user, another user must not be blocked")
	}

	s.EndRemote("u1")
	if !s.BeginRemote("u1") {
		t.Fatal("BeginRemote should succeed again after EndRemote")
	}
}

func TestMutateSerializesConcurrentEdits(t *testing.T) {
	s := NewStore()
	s.Mutate("u1", func(m seating.Map) (seating.Map, error) {
		return m.AddSection("A")
	})

	const rounds = 50
	var wg sync.WaitGroup
	for i := 0; i < rounds; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Mutate("u1", func(m seating.Map) (seating.Map, error) {
				return m.AddRow("A")
			})
		}()
	}
	wg.Wait()

	// Row 1 exists from AddSection; each AddRow appended exactly one row.
	if got := len(s.Get("u1").Sections["A"].Rows); got != rounds+1 {
		t.Fatalf("expected %d rows after %d concurrent AddRow calls, got %d", rounds+1, rounds, got)
	}
}
