package handler // snapshot persistence, restore and export endpoints

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hyunsol/choir-seating-map/internal/cache"
	"github.com/hyunsol/choir-seating-map/internal/queue"
	"github.com/hyunsol/choir-seating-map/internal/repository"
	"github.com/hyunsol/choir-seating-map/internal/seating"
	queue_publisher "github.com/hyunsol/choir-seating-map/internal/service"
	"github.com/hyunsol/choir-seating-map/internal/session"
)

// maxImportBytes caps uploaded snapshot files. A full map with hundreds
// of members encodes well under a megabyte.
const maxImportBytes = 1 << 20

// DataHandler bundles the persistence adapters around the session store.
// The remote store and the local cache are independent backends; the
// restore endpoint implements the precedence between them.
type DataHandler struct {
	Sessions  *session.Store
	Snapshots *repository.SnapshotRepo
	Cache     *cache.SnapshotCache
}

// NewDataHandler constructs a DataHandler and panics if any dependency is nil.
func NewDataHandler(sessions *session.Store, snapshots *repository.SnapshotRepo, localCache *cache.SnapshotCache) *DataHandler {
	if sessions == nil || snapshots == nil || localCache == nil {
		panic("nil dependency passed to NewDataHandler")
	}
	return &DataHandler{Sessions: sessions, Snapshots: snapshots, Cache: localCache}
}

// SaveLocal handles POST /v1/data/local/save and overwrites the user's
// local snapshot slot with the current map.
func (h *DataHandler) SaveLocal(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m := h.Sessions.Get(sessionKey(uid))
	if err := h.Cache.Save(ctx, sessionKey(uid), m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "local save failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"saved": true})
}

// LoadLocal handles POST /v1/data/local/load. A never-saved slot answers
// 404 without touching the in-memory map.
func (h *DataHandler) LoadLocal(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m, ok, err := h.Cache.Load(ctx, sessionKey(uid))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "local load failed"})
	}
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no local snapshot"})
	}
	h.Sessions.Replace(sessionKey(uid), m)
	return c.JSON(http.StatusOK, m)
}

// SaveRemote handles POST /v1/data/remote/save. Only one remote
// operation may run per user at a time: the replace sequence is not safe
// to interleave with itself, so a second trigger answers 409 instead of
// queueing. The adapter boundary collapses any remote failure to a
// boolean; callers must treat a false as "remote state unknown".
func (h *DataHandler) SaveRemote(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if !h.Sessions.BeginRemote(sessionKey(uid)) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "remote operation already in progress"})
	}
	defer h.Sessions.EndRemote(sessionKey(uid))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	m := h.Sessions.Get(sessionKey(uid))
	if err := h.Snapshots.ReplaceAll(ctx, uid, m); err != nil {
		c.Logger().Errorf("remote save failed for user %d: %v", uid, err)
		return c.JSON(http.StatusOK, echo.Map{"saved": false})
	}

	// Best effort: a broker outage must not fail the save.
	occupied := 0
	for name := range m.Seats {
		occupied += len(m.EntriesForSection(name))
	}
	_ = queue_publisher.PublishSnapshotSaved(ctx, queue.SnapshotSavedEvent{
		UserID:        uid,
		Sections:      len(m.Sections),
		Members:       len(m.Members),
		OccupiedSeats: occupied,
		TotalSeats:    m.TotalSeats(),
		SavedAt:       time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusOK, echo.Map{"saved": true})
}

// LoadRemote handles POST /v1/data/remote/load under the same in-flight
// guard as SaveRemote. A user with no stored snapshot answers 404.
func (h *DataHandler) LoadRemote(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if !h.Sessions.BeginRemote(sessionKey(uid)) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "remote operation already in progress"})
	}
	defer h.Sessions.EndRemote(sessionKey(uid))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	m, ok, err := h.Snapshots.LoadAll(ctx, uid)
	if err != nil {
		c.Logger().Errorf("remote load failed for user %d: %v", uid, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "remote load failed"})
	}
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no remote snapshot"})
	}
	h.Sessions.Replace(sessionKey(uid), m)
	return c.JSON(http.StatusOK, m)
}

// Restore handles POST /v1/data/restore: the startup precedence flow.
// Remote first; when the remote has no snapshot fall back to the local
// slot; when that is empty too, install a fresh empty map. The response
// names which source won.
func (h *DataHandler) Restore(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if !h.Sessions.BeginRemote(sessionKey(uid)) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "remote operation already in progress"})
	}
	defer h.Sessions.EndRemote(sessionKey(uid))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	if m, ok, err := h.Snapshots.LoadAll(ctx, uid); err == nil && ok {
		h.Sessions.Replace(sessionKey(uid), m)
		return c.JSON(http.StatusOK, echo.Map{"source": "remote", "map": m})
	}
	if m, ok, err := h.Cache.Load(ctx, sessionKey(uid)); err == nil && ok {
		h.Sessions.Replace(sessionKey(uid), m)
		return c.JSON(http.StatusOK, echo.Map{"source": "local", "map": m})
	}
	empty := seating.NewMap()
	h.Sessions.Replace(sessionKey(uid), empty)
	return c.JSON(http.StatusOK, echo.Map{"source": "empty", "map": empty})
}

// ExportJSON handles GET /v1/data/export.json: the canonical structured
// encoding as a download.
func (h *DataHandler) ExportJSON(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	data, err := seating.EncodeJSON(h.Sessions.Get(sessionKey(uid)))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "encode failed"})
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="seating-map.json"`)
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, data)
}

// ExportCSV handles GET /v1/data/export.csv: one record per occupied
// seat, write-only format.
func (h *DataHandler) ExportCSV(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	data, err := seating.ExportCSV(h.Sessions.Get(sessionKey(uid)))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "encode failed"})
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="seating-map.csv"`)
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", data)
}

// ImportJSON handles POST /v1/data/import. The body must be the
// canonical encoding; a map that fails validation is rejected wholesale
// and the in-memory state stays as it was.
func (h *DataHandler) ImportJSON(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxImportBytes))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "read body failed"})
	}
	m, err := seating.DecodeJSON(body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "not a valid seating map file"})
	}
	h.Sessions.Replace(sessionKey(uid), m)
	return c.JSON(http.StatusOK, m)
}
