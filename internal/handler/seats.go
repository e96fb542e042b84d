package handler // seat assignment endpoints

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/hyunsol/choir-seating-map/internal/seating"
)

// seatReq addresses one seat by (section, row, 1-based seat index).
type seatReq struct {
	Section  string `json:"section"`
	Row      int    `json:"row"`
	Seat     int    `json:"seat"`
	MemberID string `json:"member_id"`
}

// AssignSeat handles PUT /v1/seats. Assigning to an occupied seat
// silently replaces the prior occupant; a member already seated
// elsewhere keeps their other seat.
func (h *SeatingHandler) AssignSeat(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body seatReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	_, err = h.Sessions.Mutate(sessionKey(uid), func(m seating.Map) (seating.Map, error) {
		return m.AssignMember(body.Section, body.Row, body.Seat, body.MemberID)
	})
	if err != nil {
		return seatingErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"section":   seating.NormalizeSectionName(body.Section),
		"row":       body.Row,
		"seat":      body.Seat,
		"member_id": body.MemberID,
	})
}

// ClearSeat handles DELETE /v1/seats. Clearing an empty seat answers 204
// like clearing an occupied one; the end state is identical.
func (h *SeatingHandler) ClearSeat(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body seatReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	_, _ = h.Sessions.Mutate(sessionKey(uid), func(m seating.Map) (seating.Map, error) {
		return m.ClearSeat(body.Section, body.Row, body.Seat), nil
	})
	return c.NoContent(http.StatusNoContent)
}

// GetSeat handles GET /v1/seats/:section/:row/:seat and reports the
// occupant of a single seat, or member_id = "" when empty.
func (h *SeatingHandler) GetSeat(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	row, err1 := strconv.Atoi(c.Param("row"))
	seat, err2 := strconv.Atoi(c.Param("seat"))
	if err1 != nil || err2 != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid row or seat number"})
	}
	m := h.Sessions.Get(sessionKey(uid))
	memberID, occupied := m.MemberAt(c.Param("section"), row, seat)
	return c.JSON(http.StatusOK, echo.Map{"member_id": memberID, "occupied": occupied})
}

// ListSectionSeats handles GET /v1/seats/:section and lists every
// occupied seat of the section ordered by row then seat number.
func (h *SeatingHandler) ListSectionSeats(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	m := h.Sessions.Get(sessionKey(uid))
	entries := m.EntriesForSection(c.Param("section"))
	return c.JSON(http.StatusOK, echo.Map{"entries": entries, "total": len(entries)})
}

// GetMap handles GET /v1/map and returns the whole aggregate: layout,
// roster and assignments in the canonical shape.
func (h *SeatingHandler) GetMap(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return c.JSON(http.StatusOK, h.Sessions.Get(sessionKey(uid)))
}
