package seating

import (
	"reflect"
	"testing"
)

// fixture builds a map with section A (row 1: 4 seats) and one member.
func fixture(t *testing.T) (Map, Member) {
	t.Helper()
	m := NewMap()
	m, err := m.AddSection("A")
	if err != nil {
		t.Fatalf("AddSection: %v", err)
	}
	m, member, err := m.AddMember("Alice", PartSoprano, "")
	if err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	return m, member
}

func TestAssignMember(t *testing.T) {
	m, alice := fixture(t)

	m, err := m.AssignMember("a", 1, 3, alice.ID)
	if err != nil {
		t.Fatalf("AssignMember: %v", err)
	}
	if id, ok := m.MemberAt("A", 1, 3); !ok || id != alice.ID {
		t.Fatalf("MemberAt = (%q, %v), want (%q, true)", id, ok, alice.ID)
	}

	tests := []struct {
		name      string
		section   string
		row, seat int
		memberID  string
		want      error
	}{
		{"unknown section", "Z", 1, 1, alice.ID, ErrInvalidSeat},
		{"unknown row", "A", 9, 1, alice.ID, ErrInvalidSeat},
		{"seat below one", "A", 1, 0, alice.ID, ErrInvalidSeat},
		{"seat past row count", "A", 1, 5, alice.ID, ErrInvalidSeat},
		{"unknown member", "A", 1, 1, "nobody", ErrInvalidMember},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.AssignMember(tt.section, tt.row, tt.seat, tt.memberID); err != tt.want {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestAssignKeepsPreviousSeat(t *testing.T) {
	m, alice := fixture(t)

	m, _ = m.AssignMember("A", 1, 1, alice.ID)
	m, _ = m.AssignMember("A", 1, 2, alice.ID)

	if _, ok := m.MemberAt("A", 1, 1); !ok {
		t.Fatal("seating a member elsewhere must not vacate their first seat")
	}
	if _, ok := m.MemberAt("A", 1, 2); !ok {
		t.Fatal("second seat should be occupied")
	}
}

func TestAssignOverwritesOccupant(t *testing.T) {
	m, alice := fixture(t)
	m, bob, _ := m.AddMember("Bob", PartBass, "")

	m, _ = m.AssignMember("A", 1, 1, alice.ID)
	m, _ = m.AssignMember("A", 1, 1, bob.ID)

	if id, _ := m.MemberAt("A", 1, 1); id != bob.ID {
		t.Fatalf("seat should hold the latest assignee, got %q", id)
	}
}

func TestClearSeat(t *testing.T) {
	m, alice := fixture(t)
	m, _ = m.AssignMember("A", 1, 2, alice.ID)

	m = m.ClearSeat("A", 1, 2)
	if _, ok := m.MemberAt("A", 1, 2); ok {
		t.Fatal("seat should be empty after ClearSeat")
	}
	// Clearing again, or clearing a seat that never existed, is a no-op.
	m = m.ClearSeat("A", 1, 2)
	m = m.ClearSeat("Z", 3, 9)
	if len(m.Seats) != 0 {
		t.Fatalf("assignment table should be empty, got %v", m.Seats)
	}
}

func TestRemoveSectionPrunesAssignments(t *testing.T) {
	m, alice := fixture(t)
	m, _ = m.AddSection("B")
	m, _ = m.AssignMember("A", 1, 1, alice.ID)
	m, _ = m.AssignMember("B", 1, 1, alice.ID)

	m = m.RemoveSection("A")
	if _, ok := m.Seats["A"]; ok {
		t.Fatal("removing a section must drop its assignments")
	}
	if _, ok := m.MemberAt("B", 1, 1); !ok {
		t.Fatal("assignments in other sections must survive")
	}
}

func TestRemoveRowPrunesAssignments(t *testing.T) {
	m, alice := fixture(t)
	m, _ = m.AddRow("A")
	m, _ = m.AssignMember("A", 1, 1, alice.ID)
	m, _ = m.AssignMember("A", 2, 1, alice.ID)

	m = m.RemoveRow("A", 2)
	if _, ok := m.MemberAt("A", 2, 1); ok {
		t.Fatal("removing a row must drop its assignments")
	}
	if _, ok := m.MemberAt("A", 1, 1); !ok {
		t.Fatal("other rows keep their assignments")
	}
}

func TestSeatCountReductionPrunesAboveNewCount(t *testing.T) {
	m, alice := fixture(t)
	m, _ = m.AssignMember("A", 1, 2, alice.ID)
	m, _ = m.AssignMember("A", 1, 4, alice.ID)

	m = m.SetSeatCount("A", 1, 2)
	if _, ok := m.MemberAt("A", 1, 4); ok {
		t.Fatal("assignment past the new seat count must be pruned")
	}
	if _, ok := m.MemberAt("A", 1, 2); !ok {
		t.Fatal("assignment within the new seat count must survive")
	}
}

func TestRemoveMemberClearsTheirSeats(t *testing.T) {
	m, alice := fixture(t)
	m, bob, _ := m.AddMember("Bob", PartBass, "")
	m, _ = m.AssignMember("A", 1, 1, alice.ID)
	m, _ = m.AssignMember("A", 1, 2, alice.ID)
	m, _ = m.AssignMember("A", 1, 3, bob.ID)

	m = m.RemoveMember(alice.ID)
	if _, ok := m.MemberAt("A", 1, 1); ok {
		t.Fatal("removed member's seat 1 should be cleared")
	}
	if _, ok := m.MemberAt("A", 1, 2); ok {
		t.Fatal("removed member's seat 2 should be cleared")
	}
	if id, _ := m.MemberAt("A", 1, 3); id != bob.ID {
		t.Fatal("other members' seats must be untouched")
	}
}

// TestEditLifecycle walks one member through seat-count changes: the
// assignment survives a reduction that keeps the seat in range, an
// out-of-range seat count is rejected without touching anything, and
// removing the member finally clears the seat.
func TestEditLifecycle(t *testing.T) {
	m, alice := fixture(t)

	m, err := m.AssignMember("A", 1, 2, alice.ID)
	if err != nil {
		t.Fatalf("AssignMember: %v", err)
	}

	m = m.SetSeatCount("A", 1, 2)
	if id, ok := m.MemberAt("A", 1, 2); !ok || id != alice.ID {
		t.Fatal("seat 2 is still within the reduced row and must keep its occupant")
	}

	m = m.SetSeatCount("A", 1, 0)
	if got := m.Sections["A"].Rows[1]; got != 2 {
		t.Fatalf("seat count 0 must be rejected, row has %d seats", got)
	}
	if _, ok := m.MemberAt("A", 1, 2); !ok {
		t.Fatal("rejected edit must not disturb assignments")
	}

	m = m.RemoveMember(alice.ID)
	if _, ok := m.MemberAt("A", 1, 2); ok {
		t.Fatal("removing the member should vacate the seat")
	}
}

func TestMutationsLeaveSnapshotUntouched(t *testing.T) {
	before, alice := fixture(t)
	before, _ = before.AssignMember("A", 1, 1, alice.ID)
	witness := before.Clone()

	after, _ := before.AddSection("B")
	after, _ = after.AddRow("A")
	after = after.SetSeatCount("A", 1, 2)
	after = after.RemoveMember(alice.ID)
	after = after.RemoveSection("A")
	_ = after

	if !reflect.DeepEqual(before, witness) {
		t.Fatalf("snapshot changed under mutation:\nbefore %+v\nnow    %+v", witness, before)
	}
}
