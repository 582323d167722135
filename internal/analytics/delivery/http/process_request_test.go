package http

import (
	"errors"
	"testing"
	"time"

	"conversational-commerce/internal/analytics"
)

func TestWindowReq_ToWindow(t *testing.T) {
	now := time.Date(2025, 6, 15, 13, 30, 0, 0, time.UTC)
	date := func(s string) time.Time {
		d, _ := time.Parse(dateLayout, s)
		return d
	}

	tests := []struct {
		name      string
		req       windowReq
		wantStart time.Time
		wantEnd   time.Time
		wantErr   bool
	}{
		{"default trailing 30 days", windowReq{}, date("2025-05-17"), date("2025-06-16"), false},
		{"trailing 7 days", windowReq{Days: "7"}, date("2025-06-09"), date("2025-06-16"), false},
		{"explicit dates, end inclusive", windowReq{StartDate: "2025-06-01", EndDate: "2025-06-01"}, date("2025-06-01"), date("2025-06-02"), false},
		{"end date with days", windowReq{EndDate: "2025-06-10", Days: "3"}, date("2025-06-08"), date("2025-06-11"), false},
		{"days zero", windowReq{Days: "0"}, time.Time{}, time.Time{}, true},
		{"days too large", windowReq{Days: "366"}, time.Time{}, time.Time{}, true},
		{"days not a number", windowReq{Days: "week"}, time.Time{}, time.Time{}, true},
		{"bad date", windowReq{StartDate: "06/01/2025"}, time.Time{}, time.Time{}, true},
		{"start after end", windowReq{StartDate: "2025-06-10", EndDate: "2025-06-01"}, time.Time{}, time.Time{}, true},
		{"range over a year", windowReq{StartDate: "2023-01-01", EndDate: "2025-01-01"}, time.Time{}, time.Time{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := tt.req.toWindow(now)
			if tt.wantErr {
				if !errors.Is(err, analytics.ErrInvalidWindow) {
					t.Errorf("expected ErrInvalidWindow, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("toWindow: %v", err)
			}
			if !w.Start.Equal(tt.wantStart) || !w.End.Equal(tt.wantEnd) {
				t.Errorf("window = [%s, %s), want [%s, %s)", w.Start, w.End, tt.wantStart, tt.wantEnd)
			}
		})
	}
}
