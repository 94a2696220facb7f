package handlers

import (
	"net/http"
	"time"

	"marksync/services"

	"github.com/gin-gonic/gin"
)

type userInfo struct {
	Sub   string  `json:"sub"`
	Email string  `json:"email"`
	Name  *string `json:"name"`
}

type changesResponse struct {
	User userInfo `json:"user"`
	services.ChangesOutput
}

// GetChanges serves the delta-sync endpoint. The client echoes the
// Last-Modified value it last saw via If-Modified-Since; an unchanged store
// answers 304 with no body. The advertised Last-Modified is rounded up to the
// next whole second so that echoing it back covers the sub-second remainder
// of the real watermark.
func GetChanges(c *gin.Context) {
	sub := c.GetString("sub")

	var since *time.Time
	if raw := c.GetHeader("If-Modified-Since"); raw != "" {
		if ts, err := http.ParseTime(raw); err == nil {
			ts = ts.UTC()
			since = &ts
		}
	}

	changes, err := getServices().Sync.ComputeChanges(c.Request.Context(), sub, since)
	if respondServiceError(c, err) {
		return
	}

	if changes.Watermark != nil {
		c.Header("Last-Modified", ceilSecond(*changes.Watermark).Format(http.TimeFormat))
	}
	if changes.NotModified {
		c.Status(http.StatusNotModified)
		return
	}

	name := c.GetString("name")
	resp := changesResponse{
		User: userInfo{
			Sub:   sub,
			Email: c.GetString("email"),
		},
		ChangesOutput: changes,
	}
	if name != "" {
		resp.User.Name = &name
	}
	c.JSON(http.StatusOK, resp)
}

// ceilSecond rounds up so an echoed header is never before the true
// watermark. A write landing in the sub-second remainder would be skipped by
// the next conditional fetch; a principal syncs from one client at a time, so
// no other writer exists in that window.
func ceilSecond(t time.Time) time.Time {
	truncated := t.Truncate(time.Second)
	if truncated.Equal(t) {
		return t.UTC()
	}
	return truncated.Add(time.Second).UTC()
}
