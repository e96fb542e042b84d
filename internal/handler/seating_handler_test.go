package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/hyunsol/choir-seating-map/internal/seating"
	"github.com/hyunsol/choir-seating-map/internal/session"
)

// call runs one handler against an in-memory request with the identity
// the JWT middleware would have set, and returns the recorder.
func call(t *testing.T, h echo.HandlerFunc, method, path, body string, params map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint64(1))
	if len(params) > 0 {
		names := make([]string, 0, len(params))
		values := make([]string, 0, len(params))
		for name, value := range params {
			names = append(names, name)
			values = append(values, value)
		}
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}
	if err := h(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, into any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), into); err != nil {
		t.Fatalf("response is not valid JSON: %v\n%s", err, rec.Body.String())
	}
}

func TestCreateSection(t *testing.T) {
	h := NewSeatingHandler(session.NewStore())

	rec := call(t, h.CreateSection, http.MethodPost, "/v1/layout/sections", `{"name":" alto left "}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Sections   map[string]seating.Section `json:"sections"`
		TotalSeats int                        `json:"total_seats"`
	}
	decodeBody(t, rec, &resp)
	if _, ok := resp.Sections["ALTO LEFT"]; !ok {
		t.Fatalf("section name should be normalized, got %v", resp.Sections)
	}
	if resp.TotalSeats != 4 {
		t.Fatalf("new section carries one default row of 4 seats, total = %d", resp.TotalSeats)
	}

	rec = call(t, h.CreateSection, http.MethodPost, "/v1/layout/sections", `{"name":"Alto Left"}`, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate section: status = %d, want 409", rec.Code)
	}

	rec = call(t, h.CreateSection, http.MethodPost, "/v1/layout/sections", `{"name":"  "}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("blank name: status = %d, want 400", rec.Code)
	}
}

func TestDeleteSectionIdempotent(t *testing.T) {
	h := NewSeatingHandler(session.NewStore())
	call(t, h.CreateSection, http.MethodPost, "/v1/layout/sections", `{"name":"A"}`, nil)

	for i := 0; i < 2; i++ {
		rec := call(t, h.DeleteSection, http.MethodDelete, "/v1/layout/sections/A", "", map[string]string{"name": "A"})
		if rec.Code != http.StatusNoContent {
			t.Fatalf("attempt %d: status = %d, want 204", i+1, rec.Code)
		}
	}
}

func TestUpdateSeatCountRejection(t *testing.T) {
	h := NewSeatingHandler(session.NewStore())
	call(t, h.CreateSection, http.MethodPost, "/v1/layout/sections", `{"name":"A"}`, nil)

	rec := call(t, h.UpdateSeatCount, http.MethodPut, "/v1/layout/sections/A/rows/1",
		`{"seat_count":0}`, map[string]string{"name": "A", "row": "1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		Sections map[string]seating.Section `json:"sections"`
	}
	decodeBody(t, rec, &resp)
	if got := resp.Sections["A"].Rows[1]; got != 4 {
		t.Fatalf("out-of-range count must leave the row unchanged, got %d seats", got)
	}
}

func TestMemberLifecycle(t *testing.T) {
	h := NewSeatingHandler(session.NewStore())

	rec := call(t, h.CreateMember, http.MethodPost, "/v1/members", `{"name":"Alice","part":"soprano","group":"1"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var created seating.Member
	decodeBody(t, rec, &created)
	if created.ID == "" || created.Part != seating.PartSoprano {
		t.Fatalf("unexpected created member: %+v", created)
	}

	rec = call(t, h.UpdateMember, http.MethodPut, "/v1/members/"+created.ID,
		`{"name":"Alicia","part":"Alto","group":"2"}`, map[string]string{"id": created.ID})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var updated seating.Member
	decodeBody(t, rec, &updated)
	if updated.ID != created.ID {
		t.Fatalf("update must preserve the ID, got %q", updated.ID)
	}

	rec = call(t, h.CreateMember, http.MethodPost, "/v1/members", `{"name":"Bob","part":"baritone"}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad part: status = %d, want 400", rec.Code)
	}

	rec = call(t, h.UpdateMember, http.MethodPut, "/v1/members/missing",
		`{"name":"X","part":"Bass"}`, map[string]string{"id": "missing"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown member: status = %d, want 404", rec.Code)
	}

	rec = call(t, h.DeleteMember, http.MethodDelete, "/v1/members/"+created.ID, "", map[string]string{"id": created.ID})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: status = %d, want 204", rec.Code)
	}
}

func TestAssignAndClearSeat(t *testing.T) {
	h := NewSeatingHandler(session.NewStore())
	call(t, h.CreateSection, http.MethodPost, "/v1/layout/sections", `{"name":"A"}`, nil)

	rec := call(t, h.CreateMember, http.MethodPost, "/v1/members", `{"name":"Alice","part":"Soprano"}`, nil)
	var alice seating.Member
	decodeBody(t, rec, &alice)

	rec = call(t, h.AssignSeat, http.MethodPut, "/v1/seats",
		`{"section":"a","row":1,"seat":2,"member_id":"`+alice.ID+`"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("assign: status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	rec = call(t, h.GetSeat, http.MethodGet, "/v1/seats/A/1/2", "",
		map[string]string{"section": "A", "row": "1", "seat": "2"})
	var seat struct {
		MemberID string `json:"member_id"`
		Occupied bool   `json:"occupied"`
	}
	decodeBody(t, rec, &seat)
	if !seat.Occupied || seat.MemberID != alice.ID {
		t.Fatalf("seat should hold the member, got %+v", seat)
	}

	rec = call(t, h.AssignSeat, http.MethodPut, "/v1/seats",
		`{"section":"A","row":1,"seat":9,"member_id":"`+alice.ID+`"}`, nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("seat outside the layout: status = %d, want 422", rec.Code)
	}

	rec = call(t, h.AssignSeat, http.MethodPut, "/v1/seats",
		`{"section":"A","row":1,"seat":1,"member_id":"nobody"}`, nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("unknown member: status = %d, want 422", rec.Code)
	}

	rec = call(t, h.ClearSeat, http.MethodDelete, "/v1/seats",
		`{"section":"A","row":1,"seat":2}`, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("clear: status = %d, want 204", rec.Code)
	}
	rec = call(t, h.GetSeat, http.MethodGet, "/v1/seats/A/1/2", "",
		map[string]string{"section": "A", "row": "1", "seat": "2"})
	decodeBody(t, rec, &seat)
	if seat.Occupied {
		t.Fatal("seat should be empty after clearing")
	}
}

func TestListMembersFiltering(t *testing.T) {
	h := NewSeatingHandler(session.NewStore())
	call(t, h.CreateMember, http.MethodPost, "/v1/members", `{"name":"Anna","part":"Soprano"}`, nil)
	call(t, h.CreateMember, http.MethodPost, "/v1/members", `{"name":"Annika","part":"Alto"}`, nil)
	call(t, h.CreateMember, http.MethodPost, "/v1/members", `{"name":"Boris","part":"Bass"}`, nil)

	rec := call(t, h.ListMembers, http.MethodGet, "/v1/members?query=ann&part=Alto", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		Members []seating.Member `json:"members"`
		Total   int              `json:"total"`
	}
	decodeBody(t, rec, &resp)
	if resp.Total != 1 || len(resp.Members) != 1 || resp.Members[0].Name != "Annika" {
		t.Fatalf("unexpected filter result: %+v", resp)
	}

	rec = call(t, h.ListMembers, http.MethodGet, "/v1/members?part=countertenor", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown part filter: status = %d, want 400", rec.Code)
	}
}

func TestHandlersRequireIdentity(t *testing.T) {
	h := NewSeatingHandler(session.NewStore())

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/layout", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec) // no user_id in context
	if err := h.GetLayout(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
