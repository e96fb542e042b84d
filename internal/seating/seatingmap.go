package seating

// seatingmap.go composes the layout, the roster and the assignment table
// into one aggregate. All editing goes through Map methods; each method
// deep-copies the aggregate before touching it and returns the copy, so
// a caller holding the previous value (for example a render pass) never
// observes a half-applied edit. Pruning of stale assignments happens
// inside the same method call as the layout or roster change that made
// them stale, never as a deferred or render-driven side effect.

// Map is the seating map aggregate: the layout (Sections), the sparse
// assignment table (Seats) and the roster (Members). Seats nests section
// name -> row number -> seat key -> member id; only occupied seats are
// present. The zero value is not usable, construct with NewMap or
// restore a snapshot through the codec.
type Map struct {
	Sections map[string]Section                   `json:"sections"`
	Seats    map[string]map[int]map[string]string `json:"seats"`
	Members  map[string]Member                    `json:"members"`
}

// NewMap returns an empty seating map with zero sections and members.
func NewMap() Map {
	return Map{
		Sections: make(map[string]Section),
		Seats:    make(map[string]map[int]map[string]string),
		Members:  make(map[string]Member),
	}
}

// Clone returns a deep copy of the aggregate. Mutating methods clone
// first and hand the copy back to the caller; the original is never
// written to after it has been returned.
func (m Map) Clone() Map {
	next := NewMap()
	for name, sec := range m.Sections {
		rows := make(map[int]int, len(sec.Rows))
		for num, count := range sec.Rows {
			rows[num] = count
		}
		next.Sections[name] = Section{Rows: rows}
	}
	for name, rows := range m.Seats {
		copied := make(map[int]map[string]string, len(rows))
		for num, seats := range rows {
			inner := make(map[string]string, len(seats))
			for key, id := range seats {
				inner[key] = id
			}
			copied[num] = inner
		}
		next.Seats[name] = copied
	}
	for id, member := range m.Members {
		next.Members[id] = member
	}
	return next
}

// AssignMember seats a member. The seat must currently exist in the
// layout (section present, row present, 1 <= seat <= the row's seat
// count) or ErrInvalidSeat is returned; the member must exist in the
// roster or ErrInvalidMember is returned. An occupied seat is silently
// overwritten. A member may hold several seats at once; assigning them
// elsewhere does not vacate their previous seat.
func (m Map) AssignMember(section string, row, seat int, memberID string) (Map, error) {
	key := NormalizeSectionName(section)
	sec, ok := m.Sections[key]
	if !ok {
		return m, ErrInvalidSeat
	}
	count, ok := sec.Rows[row]
	if !ok || seat < 1 || seat > count {
		return m, ErrInvalidSeat
	}
	if _, ok := m.Members[memberID]; !ok {
		return m, ErrInvalidMember
	}
	next := m.Clone()
	next.setSeat(key, row, seat, memberID)
	return next, nil
}

// ClearSeat removes the assignment at a seat. It always succeeds:
// clearing an empty or nonexistent seat is a no-op.
func (m Map) ClearSeat(section string, row, seat int) Map {
	key := NormalizeSectionName(section)
	if _, ok := m.Seats[key][row][SeatKey(seat)]; !ok {
		return m
	}
	next := m.Clone()
	next.clearSeat(key, row, seat)
	return next
}

// pruneRow drops every assignment of one row of a section. Used when
// the row itself is removed from the layout. The receiver must already
// be a private clone.
func (m Map) pruneRow(section string, row int) {
	if _, ok := m.Seats[section][row]; !ok {
		return
	}
	delete(m.Seats[section], row)
	m.dropEmpty(section, row)
}

// pruneRowAbove drops every assignment of a row whose seat index exceeds
// count. Used when a row's seat count is reduced. The receiver must
// already be a private clone.
func (m Map) pruneRowAbove(section string, row, count int) {
	seats, ok := m.Seats[section][row]
	if !ok {
		return
	}
	for key := range seats {
		if num, ok := seatNumber(key); !ok || num > count {
			delete(seats, key)
		}
	}
	m.dropEmpty(section, row)
}

// pruneMember drops every assignment referencing a member id across all
// sections and rows. Used when the member is removed from the roster.
// The receiver must already be a private clone.
func (m Map) pruneMember(memberID string) {
	for section, rows := range m.Seats {
		for row, seats := range rows {
			for key, id := range seats {
				if id == memberID {
					delete(seats, key)
				}
			}
			m.dropEmpty(section, row)
		}
	}
}
