package seating // layout editing operations on the seating map aggregate

import "strings"

// Section is a named block of the venue layout. Rows maps a 1-based row
// number to that row's seat count; seat indices within a row are implied
// as the contiguous range 1..count.
type Section struct {
	Rows map[int]int `json:"rows"` // row number -> seat count
}

const (
	defaultSeatCount = 4  // every new row starts with four seats
	minSeatCount     = 1  // a persisted row never drops below one seat
	maxSeatCount     = 20 // widest row the grid supports
)

// NormalizeSectionName trims surrounding whitespace and upper-cases a
// section name. All layout and assignment operations key sections by
// their normalized form, so "a " and "A" address the same section.
func NormalizeSectionName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// AddSection creates a new section with a single default row of four
// seats, so a freshly created section is immediately visible and usable.
// It returns ErrValidation when the name is empty after trimming and
// ErrDuplicateSection when the normalized name is already present.
func (m Map) AddSection(name string) (Map, error) {
	key := NormalizeSectionName(name)
	if key == "" {
		return m, ErrValidation
	}
	if _, ok := m.Sections[key]; ok {
		return m, ErrDuplicateSection
	}
	next := m.Clone()
	next.Sections[key] = Section{Rows: map[int]int{1: defaultSeatCount}}
	return next, nil
}

// RemoveSection deletes a section and every seat assignment inside it.
// Removing an absent section is a no-op.
func (m Map) RemoveSection(name string) Map {
	key := NormalizeSectionName(name)
	if _, ok := m.Sections[key]; !ok {
		return m
	}
	next := m.Clone()
	delete(next.Sections, key)
	delete(next.Seats, key)
	return next
}

// AddRow appends a row to the section, numbered one greater than the
// current maximum row number (1 when empty), with the default seat count.
// It returns ErrNotFound when the section does not exist.
func (m Map) AddRow(section string) (Map, error) {
	key := NormalizeSectionName(section)
	sec, ok := m.Sections[key]
	if !ok {
		return m, ErrNotFound
	}
	maxRow := 0
	for num := range sec.Rows {
		if num > maxRow {
			maxRow = num
		}
	}
	next := m.Clone()
	next.Sections[key].Rows[maxRow+1] = defaultSeatCount
	return next, nil
}

// RemoveRow deletes a row and every seat assignment inside it. Removing
// an absent section or row is a no-op.
func (m Map) RemoveRow(section string, row int) Map {
	key := NormalizeSectionName(section)
	sec, ok := m.Sections[key]
	if !ok {
		return m
	}
	if _, ok := sec.Rows[row]; !ok {
		return m
	}
	next := m.Clone()
	delete(next.Sections[key].Rows, row)
	next.pruneRow(key, row)
	return next
}

// SetSeatCount changes the seat count of a row. Counts outside [1, 20]
// are rejected silently: the requested value is simply not applied and
// the map is returned unchanged. Reducing the count prunes every
// assignment whose seat index exceeds the new count; entries at or below
// it survive. A missing section or row is also a no-op.
func (m Map) SetSeatCount(section string, row, count int) Map {
	if count < minSeatCount || count > maxSeatCount {
		return m
	}
	key := NormalizeSectionName(section)
	sec, ok := m.Sections[key]
	if !ok {
		return m
	}
	if _, ok := sec.Rows[row]; !ok {
		return m
	}
	next := m.Clone()
	next.Sections[key].Rows[row] = count
	next.pruneRowAbove(key, row, count)
	return next
}

// TotalSeats sums the seat counts of every row in every section.
func (m Map) TotalSeats() int {
	total := 0
	for _, sec := range m.Sections {
		for _, count := range sec.Rows {
			total += count
		}
	}
	return total
}
