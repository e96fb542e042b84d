package seating // roster editing and queries on the seating map aggregate

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Part is a member's voice part. Only the four fixed values below are
// accepted by the roster operations.
type Part string

const (
	PartSoprano Part = "Soprano"
	PartAlto    Part = "Alto"
	PartTenor   Part = "Tenor"
	PartBass    Part = "Bass"
)

// ParsePart matches an input string against the voice part enumeration,
// ignoring case and surrounding whitespace. It reports false for any
// value outside the enumeration.
func ParsePart(s string) (Part, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "soprano":
		return PartSoprano, true
	case "alto":
		return PartAlto, true
	case "tenor":
		return PartTenor, true
	case "bass":
		return PartBass, true
	}
	return "", false
}

// Valid reports whether p is one of the four voice parts.
func (p Part) Valid() bool {
	switch p {
	case PartSoprano, PartAlto, PartTenor, PartBass:
		return true
	}
	return false
}

// Member is a choir participant. The ID is system generated on creation
// and never changes afterwards; names are not required to be unique.
type Member struct {
	ID    string `json:"id"`    // immutable identifier
	Name  string `json:"name"`  // display name, non-empty
	Part  Part   `json:"part"`  // voice part
	Group string `json:"group"` // sub-group label, e.g. "1"
}

// nameCollator orders member names for display. A collator is used
// instead of a byte comparison so that names in any script sort the way
// a user expects.
var nameCollator = collate.New(language.Und)

// AddMember creates a roster member with a fresh UUID identifier and
// returns it together with the updated map. UUIDs stay unique under
// rapid repeated calls, unlike millisecond timestamps. It returns
// ErrValidation when the name is blank after trimming or the part is not
// one of the four voice parts.
func (m Map) AddMember(name string, part Part, group string) (Map, Member, error) {
	name = strings.TrimSpace(name)
	if name == "" || !part.Valid() {
		return m, Member{}, ErrValidation
	}
	member := Member{ID: uuid.NewString(), Name: name, Part: part, Group: group}
	next := m.Clone()
	next.Members[member.ID] = member
	return next, member, nil
}

// UpdateMember replaces every field of an existing member except the
// identifier, which is preserved. It returns ErrNotFound when the id is
// absent and ErrValidation when the new name is blank or the part is
// invalid. No assignments need pruning: entries reference the stable id.
func (m Map) UpdateMember(id, name string, part Part, group string) (Map, error) {
	if _, ok := m.Members[id]; !ok {
		return m, ErrNotFound
	}
	name = strings.TrimSpace(name)
	if name == "" || !part.Valid() {
		return m, ErrValidation
	}
	next := m.Clone()
	next.Members[id] = Member{ID: id, Name: name, Part: part, Group: group}
	return next, nil
}

// RemoveMember deletes a member and prunes every seat assignment
// referencing them across all sections and rows. Removing an absent
// member is a no-op.
func (m Map) RemoveMember(id string) Map {
	if _, ok := m.Members[id]; !ok {
		return m
	}
	next := m.Clone()
	delete(next.Members, id)
	next.pruneMember(id)
	return next
}

// FilterMembers returns members whose name contains the query as a
// case-insensitive substring and, when part is non-empty, whose voice
// part matches exactly. The result is sorted by name ascending using the
// collator so repeated renders are deterministic.
func (m Map) FilterMembers(query string, part Part) []Member {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]Member, 0, len(m.Members))
	for _, member := range m.Members {
		if query != "" && !strings.Contains(strings.ToLower(member.Name), query) {
			continue
		}
		if part != "" && member.Part != part {
			continue
		}
		out = append(out, member)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c := nameCollator.CompareString(out[i].Name, out[j].Name); c != 0 {
			return c < 0
		}
		return out[i].ID < out[j].ID
	})
	return out
}
