package seating // canonical JSON codec and CSV projection of the aggregate

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// EncodeJSON serializes the aggregate to its canonical structured
// encoding: {"sections": ..., "seats": ..., "members": ...} with seat
// keys in the "SeatN" form. The output round-trips exactly through
// DecodeJSON and is the same shape older snapshots were written in.
func EncodeJSON(m Map) ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}

// DecodeJSON rebuilds an aggregate from its canonical encoding. The
// layout and roster must be structurally valid: row numbers positive,
// seat counts inside [1, 20], member names non-blank, voice parts inside
// the enumeration. Any violation aborts the decode with ErrValidation so
// a bad import never replaces a good in-memory map. Assignment entries
// that point at a missing section, row, seat or member are pruned with
// the same rules an edit would apply, so a decoded map always satisfies
// the aggregate invariants.
func DecodeJSON(data []byte) (Map, error) {
	var raw Map
	if err := json.Unmarshal(data, &raw); err != nil {
		return Map{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	m := NewMap()
	for name, sec := range raw.Sections {
		key := NormalizeSectionName(name)
		if key == "" {
			return Map{}, fmt.Errorf("%w: blank section name", ErrValidation)
		}
		rows := make(map[int]int, len(sec.Rows))
		for num, count := range sec.Rows {
			if num < 1 {
				return Map{}, fmt.Errorf("%w: section %s has row %d", ErrValidation, key, num)
			}
			if count < minSeatCount || count > maxSeatCount {
				return Map{}, fmt.Errorf("%w: section %s row %d has %d seats", ErrValidation, key, num, count)
			}
			rows[num] = count
		}
		m.Sections[key] = Section{Rows: rows}
	}
	for id, member := range raw.Members {
		if id == "" || member.Name == "" || !member.Part.Valid() {
			return Map{}, fmt.Errorf("%w: bad member %q", ErrValidation, id)
		}
		member.ID = id // the outer key is authoritative
		m.Members[id] = member
	}
	for name, rows := range raw.Seats {
		key := NormalizeSectionName(name)
		sec, ok := m.Sections[key]
		if !ok {
			continue // assignment for a vanished section
		}
		for row, seats := range rows {
			count, ok := sec.Rows[row]
			if !ok {
				continue
			}
			for seatKey, memberID := range seats {
				num, ok := seatNumber(seatKey)
				if !ok || num > count {
					continue
				}
				if _, ok := m.Members[memberID]; !ok {
					continue
				}
				m.setSeat(key, row, num, memberID)
			}
		}
	}
	return m, nil
}

// csvHeader is the fixed header of the flat export. The column order is
// part of the exported shape consumed by spreadsheets downstream.
var csvHeader = []string{"Section", "Row", "Seat", "MemberId", "MemberName", "Part", "Group"}

// ExportCSV projects the aggregate to one record per occupied seat,
// ordered by section name, row and seat number. The Seat column carries
// the "SeatN" key token, the same form the JSON snapshot uses. When an
// assignment references a member missing from the roster the member
// columns are left blank rather than dropping the record. The projection
// is pure: it reads the map and produces bytes, nothing else.
func ExportCSV(m Map) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	sections := make([]string, 0, len(m.Seats))
	for name := range m.Seats {
		sections = append(sections, name)
	}
	sort.Strings(sections)
	for _, section := range sections {
		for _, entry := range m.EntriesForSection(section) {
			member := m.Members[entry.MemberID] // zero value when missing
			record := []string{
				section,
				strconv.Itoa(entry.Row),
				SeatKey(entry.Seat),
				entry.MemberID,
				member.Name,
				string(member.Part),
				member.Group,
			}
			if err := w.Write(record); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
