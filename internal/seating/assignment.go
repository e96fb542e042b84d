package seating // the sparse assignment table and its seat key encoding

import (
	"sort"
	"strconv"
	"strings"
)

// seatKeyPrefix is the literal prefix of the seat key token. Within a
// row a seat is addressed as "Seat" plus its 1-based number ("Seat3").
// The token is part of the persisted and exported shape and must be
// preserved for compatibility with existing snapshots.
const seatKeyPrefix = "Seat"

// SeatKey returns the token addressing the n-th seat of a row.
func SeatKey(n int) string {
	return seatKeyPrefix + strconv.Itoa(n)
}

// seatNumber parses a seat key token back into its 1-based seat number.
// It reports false for tokens that do not carry a positive number.
func seatNumber(key string) (int, bool) {
	rest, ok := strings.CutPrefix(key, seatKeyPrefix)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// SeatEntry is one occupied seat produced by EntriesForSection.
type SeatEntry struct {
	Row      int    `json:"row"`       // row number within the section
	Seat     int    `json:"seat"`      // 1-based seat index within the row
	MemberID string `json:"member_id"` // assigned member identifier
}

// MemberAt returns the member identifier assigned to a seat. The second
// return value reports whether the seat holds an assignment; an empty
// seat yields ("", false).
func (m Map) MemberAt(section string, row, seat int) (string, bool) {
	key := NormalizeSectionName(section)
	id, ok := m.Seats[key][row][SeatKey(seat)]
	return id, ok
}

// EntriesForSection lists every occupied seat of a section ordered by
// row then seat number. Each call walks the table afresh and returns a
// new slice, so callers may range over it any number of times.
func (m Map) EntriesForSection(section string) []SeatEntry {
	key := NormalizeSectionName(section)
	var out []SeatEntry
	for row, seats := range m.Seats[key] {
		for seatKey, memberID := range seats {
			num, ok := seatNumber(seatKey)
			if !ok {
				continue
			}
			out = append(out, SeatEntry{Row: row, Seat: num, MemberID: memberID})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Seat < out[j].Seat
	})
	return out
}

// setSeat writes an assignment entry, silently replacing any prior
// occupant (last write wins). It performs no bounds or roster checks;
// validation happens in AssignMember before the table is touched. The
// receiver must already be a private clone.
func (m Map) setSeat(section string, row, seat int, memberID string) {
	rows, ok := m.Seats[section]
	if !ok {
		rows = make(map[int]map[string]string)
		m.Seats[section] = rows
	}
	seats, ok := rows[row]
	if !ok {
		seats = make(map[string]string)
		rows[row] = seats
	}
	seats[SeatKey(seat)] = memberID
}

// clearSeat removes an assignment entry if present and drops any row or
// section buckets it leaves empty. The receiver must already be a
// private clone.
func (m Map) clearSeat(section string, row, seat int) {
	seats, ok := m.Seats[section][row]
	if !ok {
		return
	}
	delete(seats, SeatKey(seat))
	m.dropEmpty(section, row)
}

// dropEmpty removes the row bucket when it holds no entries, and the
// section bucket when it holds no rows. Keeping the table free of empty
// buckets makes snapshots canonical: two maps with identical assignments
// always encode identically.
func (m Map) dropEmpty(section string, row int) {
	if len(m.Seats[section][row]) == 0 {
		delete(m.Seats[section], row)
	}
	if len(m.Seats[section]) == 0 {
		delete(m.Seats, section)
	}
}
