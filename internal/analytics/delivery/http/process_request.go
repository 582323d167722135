package http

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"conversational-commerce/internal/analytics"
	"conversational-commerce/internal/eventlog"
	"conversational-commerce/pkg/response"
)

const (
	dateLayout  = response.DateFormat
	defaultDays = 30
	maxDays     = 365
)

type windowReq struct {
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	Days      string `form:"days"`
}

// toWindow resolves the query into [start, end). end_date is inclusive, so the
// bound is the following midnight UTC. Without dates the window covers the
// trailing days up to the end of today.
func (r windowReq) toWindow(now time.Time) (eventlog.Window, error) {
	days := defaultDays
	if r.Days != "" {
		n, err := strconv.Atoi(r.Days)
		if err != nil || n < 1 || n > maxDays {
			return eventlog.Window{}, analytics.ErrInvalidWindow
		}
		days = n
	}

	end := now.UTC().Truncate(24*time.Hour).AddDate(0, 0, 1)
	if r.EndDate != "" {
		d, err := time.Parse(dateLayout, r.EndDate)
		if err != nil {
			return eventlog.Window{}, analytics.ErrInvalidWindow
		}
		end = d.AddDate(0, 0, 1)
	}

	start := end.AddDate(0, 0, -days)
	if r.StartDate != "" {
		d, err := time.Parse(dateLayout, r.StartDate)
		if err != nil {
			return eventlog.Window{}, analytics.ErrInvalidWindow
		}
		start = d
	}

	if !start.Before(end) || end.Sub(start) > maxDays*24*time.Hour {
		return eventlog.Window{}, analytics.ErrInvalidWindow
	}
	return eventlog.Window{Start: start, End: end}, nil
}

func (h *handler) processWindowReq(c *gin.Context) (eventlog.Window, error) {
	var req windowReq
	if err := c.ShouldBindQuery(&req); err != nil {
		return eventlog.Window{}, errInvalidWindow
	}
	w, err := req.toWindow(h.now())
	if err != nil {
		return eventlog.Window{}, errInvalidWindow
	}
	return w, nil
}

func (h *handler) processLimit(c *gin.Context) (int, error) {
	raw := c.Query("limit")
	if raw == "" {
		return analytics.DefaultTopLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > analytics.MaxTopLimit {
		return 0, errInvalidLimit
	}
	return n, nil
}
