package handler // roster editing and query endpoints

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hyunsol/choir-seating-map/internal/seating"
)

// memberReq carries the editable member fields. The identifier is never
// accepted from the client: it is generated on create and preserved on
// update.
type memberReq struct {
	Name  string `json:"name"`
	Part  string `json:"part"`
	Group string `json:"group"`
}

// CreateMember handles POST /v1/members.
func (h *SeatingHandler) CreateMember(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body memberReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	part, ok := seating.ParsePart(body.Part)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "part must be Soprano, Alto, Tenor or Bass"})
	}
	var created seating.Member
	_, err = h.Sessions.Mutate(sessionKey(uid), func(m seating.Map) (seating.Map, error) {
		next, member, err := m.AddMember(body.Name, part, body.Group)
		created = member
		return next, err
	})
	if err != nil {
		return seatingErr(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

// UpdateMember handles PUT /v1/members/:id. Every field except the
// identifier is replaced.
func (h *SeatingHandler) UpdateMember(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body memberReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	part, ok := seating.ParsePart(body.Part)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "part must be Soprano, Alto, Tenor or Bass"})
	}
	id := c.Param("id")
	m, err := h.Sessions.Mutate(sessionKey(uid), func(m seating.Map) (seating.Map, error) {
		return m.UpdateMember(id, body.Name, part, body.Group)
	})
	if err != nil {
		return seatingErr(c, err)
	}
	return c.JSON(http.StatusOK, m.Members[id])
}

// DeleteMember handles DELETE /v1/members/:id. The member's seat
// assignments are pruned map-wide in the same step; deleting an unknown
// member is a no-op.
func (h *SeatingHandler) DeleteMember(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	_, _ = h.Sessions.Mutate(sessionKey(uid), func(m seating.Map) (seating.Map, error) {
		return m.RemoveMember(c.Param("id")), nil
	})
	return c.NoContent(http.StatusNoContent)
}

// ListMembers handles GET /v1/members. The optional ?query= parameter
// filters by case-insensitive name substring and ?part= by exact voice
// part; results are sorted by name for display determinism.
func (h *SeatingHandler) ListMembers(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var part seating.Part
	if raw := c.QueryParam("part"); raw != "" {
		p, ok := seating.ParsePart(raw)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "part must be Soprano, Alto, Tenor or Bass"})
		}
		part = p
	}
	m := h.Sessions.Get(sessionKey(uid))
	members := m.FilterMembers(c.QueryParam("query"), part)
	return c.JSON(http.StatusOK, echo.Map{"members": members, "total": len(members)})
}
