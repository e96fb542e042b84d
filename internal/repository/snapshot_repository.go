package repository // repository defines data access for seating map snapshots

import (
	"context"      // context allows query cancellation and timeouts
	"database/sql" // sql provides DB primitives
	"sort"
	"strings"

	"github.com/hyunsol/choir-seating-map/internal/seating"
)

// SnapshotRepo persists whole seating maps to the four remote relations:
// sections, section_rows, seats and members, each scoped by user id.
// It is the only component that reads or writes these tables. A save is
// a full replace of the user's records; reads always reassemble the map
// from scratch.
type SnapshotRepo struct {
	db *sql.DB
}

// NewSnapshotRepo constructs a SnapshotRepo with the given DB handle.
func NewSnapshotRepo(db *sql.DB) *SnapshotRepo {
	return &SnapshotRepo{db: db}
}

// ReplaceAll overwrites the user's remote snapshot with the given map.
// The delete-then-reinsert sequence runs inside a single transaction so
// a failure partway through rolls back to the previous snapshot; there
// is no window where the remote copy is missing. Member identifiers are
// written as-is, so they stay stable across saves and a stored seat
// keeps pointing at the same person after every save/load cycle.
func (r *SnapshotRepo) ReplaceAll(ctx context.Context, userID uint64, m seating.Map) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	// Children first: seats and rows reference sections.
	deletes := []string{
		`DELETE st FROM seats st JOIN sections sec ON sec.id = st.section_id WHERE sec.user_id = ?`,
		`DELETE sr FROM section_rows sr JOIN sections sec ON sec.id = sr.section_id WHERE sec.user_id = ?`,
		`DELETE FROM sections WHERE user_id = ?`,
		`DELETE FROM members WHERE user_id = ?`,
	}
	for _, q := range deletes {
		if _, err := tx.ExecContext(ctx, q, userID); err != nil {
			return err
		}
	}

	if err := insertMembers(ctx, tx, userID, m); err != nil {
		return err
	}
	sectionIDs, err := insertSections(ctx, tx, userID, m)
	if err != nil {
		return err
	}
	if err := insertRows(ctx, tx, sectionIDs, m); err != nil {
		return err
	}
	if err := insertSeats(ctx, tx, sectionIDs, m); err != nil {
		return err
	}
	return tx.Commit()
}

// insertMembers bulk-inserts the roster, keeping the generated UUIDs as
// primary keys.
func insertMembers(ctx context.Context, tx *sql.Tx, userID uint64, m seating.Map) error {
	if len(m.Members) == 0 {
		return nil
	}
	query := `INSERT INTO members (id, user_id, name, part, group_label) VALUES `
	args := make([]interface{}, 0, len(m.Members)*5)
	i := 0
	for _, member := range m.Members {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?)"
		args = append(args, member.ID, userID, member.Name, string(member.Part), member.Group)
		i++
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// insertSections inserts sections ordered by name and returns the
// generated id per section name. display_order records the position so
// loads list sections the way they were saved.
func insertSections(ctx context.Context, tx *sql.Tx, userID uint64, m seating.Map) (map[string]uint64, error) {
	names := make([]string, 0, len(m.Sections))
	for name := range m.Sections {
		names = append(names, name)
	}
	sort.Strings(names)

	const q = `INSERT INTO sections (user_id, name, display_order) VALUES (?, ?, ?)`
	ids := make(map[string]uint64, len(names))
	for order, name := range names {
		res, err := tx.ExecContext(ctx, q, userID, name, order)
		if err != nil {
			return nil, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		ids[name] = uint64(id)
	}
	return ids, nil
}

// insertRows bulk-inserts every row of every section.
func insertRows(ctx context.Context, tx *sql.Tx, sectionIDs map[string]uint64, m seating.Map) error {
	query := `INSERT INTO section_rows (section_id, row_num, seat_count) VALUES `
	var args []interface{}
	for name, sec := range m.Sections {
		for num, count := range sec.Rows {
			if len(args) > 0 {
				query += ","
			}
			query += "(?, ?, ?)"
			args = append(args, sectionIDs[name], num, count)
		}
	}
	if len(args) == 0 {
		return nil
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// insertSeats bulk-inserts one record per occupied seat.
func insertSeats(ctx context.Context, tx *sql.Tx, sectionIDs map[string]uint64, m seating.Map) error {
	query := `INSERT INTO seats (section_id, row_num, seat_num, member_id) VALUES `
	var args []interface{}
	for name := range m.Sections {
		for _, entry := range m.EntriesForSection(name) {
			if len(args) > 0 {
				query += ","
			}
			query += "(?, ?, ?, ?)"
			args = append(args, sectionIDs[name], entry.Row, entry.Seat, entry.MemberID)
		}
	}
	if len(args) == 0 {
		return nil
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// LoadAll reassembles the user's seating map from the remote relations.
// A user with zero stored sections has no snapshot: the second return
// value is false and the caller falls back to the local cache. Seat
// records pointing outside the stored layout or at a missing member are
// skipped so the returned map always satisfies the aggregate invariants.
func (r *SnapshotRepo) LoadAll(ctx context.Context, userID uint64) (seating.Map, bool, error) {
	m := seating.NewMap()

	const qSections = `SELECT id, name FROM sections WHERE user_id = ? ORDER BY display_order, id`
	rows, err := r.db.QueryContext(ctx, qSections, userID)
	if err != nil {
		return seating.Map{}, false, err
	}
	defer rows.Close()
	sectionNames := make(map[uint64]string)
	for rows.Next() {
		var (
			id   uint64
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return seating.Map{}, false, err
		}
		sectionNames[id] = name
		m.Sections[name] = seating.Section{Rows: make(map[int]int)}
	}
	if err := rows.Err(); err != nil {
		return seating.Map{}, false, err
	}
	if len(sectionNames) == 0 {
		return seating.Map{}, false, nil
	}

	const qRows = `SELECT sr.section_id, sr.row_num, sr.seat_count
	               FROM section_rows sr
	               JOIN sections sec ON sec.id = sr.section_id
	               WHERE sec.user_id = ?`
	rowRows, err := r.db.QueryContext(ctx, qRows, userID)
	if err != nil {
		return seating.Map{}, false, err
	}
	defer rowRows.Close()
	for rowRows.Next() {
		var (
			sectionID uint64
			rowNum    int
			seatCount int
		)
		if err := rowRows.Scan(&sectionID, &rowNum, &seatCount); err != nil {
			return seating.Map{}, false, err
		}
		if name, ok := sectionNames[sectionID]; ok {
			m.Sections[name].Rows[rowNum] = seatCount
		}
	}
	if err := rowRows.Err(); err != nil {
		return seating.Map{}, false, err
	}

	const qMembers = `SELECT id, name, part, group_label FROM members WHERE user_id = ?`
	memberRows, err := r.db.QueryContext(ctx, qMembers, userID)
	if err != nil {
		return seating.Map{}, false, err
	}
	defer memberRows.Close()
	for memberRows.Next() {
		var member seating.Member
		var part string
		if err := memberRows.Scan(&member.ID, &member.Name, &part, &member.Group); err != nil {
			return seating.Map{}, false, err
		}
		member.Part = partLabel(part)
		m.Members[member.ID] = member
	}
	if err := memberRows.Err(); err != nil {
		return seating.Map{}, false, err
	}

	const qSeats = `SELECT st.section_id, st.row_num, st.seat_num, st.member_id
	                FROM seats st
	                JOIN sections sec ON sec.id = st.section_id
	                WHERE sec.user_id = ? AND st.member_id IS NOT NULL`
	seatRows, err := r.db.QueryContext(ctx, qSeats, userID)
	if err != nil {
		return seating.Map{}, false, err
	}
	defer seatRows.Close()
	assigned := m
	for seatRows.Next() {
		var (
			sectionID uint64
			rowNum    int
			seatNum   int
			memberID  string
		)
		if err := seatRows.Scan(&sectionID, &rowNum, &seatNum, &memberID); err != nil {
			return seating.Map{}, false, err
		}
		name, ok := sectionNames[sectionID]
		if !ok {
			continue
		}
		next, err := assigned.AssignMember(name, rowNum, seatNum, memberID)
		if err != nil {
			continue // stale record outside the stored layout
		}
		assigned = next
	}
	if err := seatRows.Err(); err != nil {
		return seating.Map{}, false, err
	}
	return assigned, true, nil
}

// partLabel normalizes a stored part value back into the enumeration,
// tolerating legacy lower-cased rows.
func partLabel(raw string) seating.Part {
	if p, ok := seating.ParsePart(raw); ok {
		return p
	}
	return seating.Part(strings.TrimSpace(raw))
}
