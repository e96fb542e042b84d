package handler // layout editing endpoints

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/hyunsol/choir-seating-map/internal/seating"
	"github.com/hyunsol/choir-seating-map/internal/session"
)

// SeatingHandler bundles the session store and exposes every endpoint
// operating on a user's in-memory seating map: layout editing, roster
// editing and seat assignment. Persistence endpoints live on
// DataHandler.
type SeatingHandler struct {
	Sessions *session.Store
}

// NewSeatingHandler constructs a SeatingHandler and panics when the
// session store is missing.
func NewSeatingHandler(sessions *session.Store) *SeatingHandler {
	if sessions == nil {
		panic("nil session store passed to NewSeatingHandler")
	}
	return &SeatingHandler{Sessions: sessions}
}

// layoutResp is the map's layout plus the derived seat total.
type layoutResp struct {
	Sections   map[string]seating.Section `json:"sections"`
	TotalSeats int                        `json:"total_seats"`
}

// seatingErr translates a domain sentinel into an HTTP response.
func seatingErr(c echo.Context, err error) error {
	switch {
	case errors.Is(err, seating.ErrDuplicateSection):
		return c.JSON(http.StatusConflict, echo.Map{"error": "section already exists"})
	case errors.Is(err, seating.ErrValidation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed"})
	case errors.Is(err, seating.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, seating.ErrInvalidSeat):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "seat does not exist in layout"})
	case errors.Is(err, seating.ErrInvalidMember):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "member does not exist in roster"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// GetLayout handles GET /v1/layout and returns sections with seat totals.
func (h *SeatingHandler) GetLayout(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	m := h.Sessions.Get(sessionKey(uid))
	return c.JSON(http.StatusOK, layoutResp{Sections: m.Sections, TotalSeats: m.TotalSeats()})
}

// CreateSection handles POST /v1/layout/sections. The new section comes
// with one default row so it renders immediately.
func (h *SeatingHandler) CreateSection(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	m, err := h.Sessions.Mutate(sessionKey(uid), func(m seating.Map) (seating.Map, error) {
		return m.AddSection(body.Name)
	})
	if err != nil {
		return seatingErr(c, err)
	}
	return c.JSON(http.StatusCreated, layoutResp{Sections: m.Sections, TotalSeats: m.TotalSeats()})
}

// DeleteSection handles DELETE /v1/layout/sections/:name. Removing an
// absent section still answers 204: the operation is idempotent and the
// end state is the same.
func (h *SeatingHandler) DeleteSection(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	_, _ = h.Sessions.Mutate(sessionKey(uid), func(m seating.Map) (seating.Map, error) {
		return m.RemoveSection(c.Param("name")), nil
	})
	return c.NoContent(http.StatusNoContent)
}

// CreateRow handles POST /v1/layout/sections/:name/rows and appends a
// row numbered after the section's current maximum.
func (h *SeatingHandler) CreateRow(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	m, err := h.Sessions.Mutate(sessionKey(uid), func(m seating.Map) (seating.Map, error) {
		return m.AddRow(c.Param("name"))
	})
	if err != nil {
		return seatingErr(c, err)
	}
	return c.JSON(http.StatusCreated, layoutResp{Sections: m.Sections, TotalSeats: m.TotalSeats()})
}

// DeleteRow handles DELETE /v1/layout/sections/:name/rows/:row.
// Idempotent like DeleteSection.
func (h *SeatingHandler) DeleteRow(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	row, err := strconv.Atoi(c.Param("row"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid row number"})
	}
	_, _ = h.Sessions.Mutate(sessionKey(uid), func(m seating.Map) (seating.Map, error) {
		return m.RemoveRow(c.Param("name"), row), nil
	})
	return c.NoContent(http.StatusNoContent)
}

// UpdateSeatCount handles PUT /v1/layout/sections/:name/rows/:row. A
// count outside [1, 20] is not an error: the requested value is simply
// not applied and the unchanged layout is returned, matching the
// editor's clamp-by-rejection behavior.
func (h *SeatingHandler) UpdateSeatCount(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	row, err := strconv.Atoi(c.Param("row"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid row number"})
	}
	var body struct {
		SeatCount int `json:"seat_count"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	m, _ := h.Sessions.Mutate(sessionKey(uid), func(m seating.Map) (seating.Map, error) {
		return m.SetSeatCount(c.Param("name"), row, body.SeatCount), nil
	})
	return c.JSON(http.StatusOK, layoutResp{Sections: m.Sections, TotalSeats: m.TotalSeats()})
}
