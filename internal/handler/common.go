// Package handler defines HTTP handlers for the choir seating map API.
package handler

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"
)

// getUserID extracts the user_id stored by the JWT middleware and
// converts it to uint64. JWT numeric claims decode as float64, but the
// value may also arrive as a string or integer depending on how the
// token was minted.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// sessionKey renders a numeric user id as the string key used by the
// session store and the snapshot cache. The identity is treated as an
// opaque partition key from here on.
func sessionKey(userID uint64) string {
	return strconv.FormatUint(userID, 10)
}
