// Package dashboard computes the admin view: filters, KPI counters and the
// daily submissions chart.
package dashboard

import (
	"strings"
	"time"

	"github.com/jengzang/smartcity-backend-go/internal/demostore"
	"github.com/jengzang/smartcity-backend-go/internal/models"
)

// DefaultDays is the chart window
const DefaultDays = 7

// Entry is the part of a complaint the dashboard looks at
type Entry struct {
	ID        string
	Category  string
	Status    string // NEW, IN_PROGRESS, DONE, REJECTED
	CreatedAt time.Time
}

// FromComplaints converts API complaints. Category is Complaint.Category, the
// same label the map popups and the stats summary use.
func FromComplaints(cs []models.Complaint) []Entry {
	out := make([]Entry, 0, len(cs))
	for _, c := range cs {
		out = append(out, Entry{ID: c.ID, Category: c.Category(), Status: c.Status, CreatedAt: c.CreatedAt})
	}
	return out
}

// FromReports converts local demo reports
func FromReports(rs []demostore.Report) []Entry {
	out := make([]Entry, 0, len(rs))
	for _, r := range rs {
		out = append(out, Entry{ID: r.ID, Category: r.Category, Status: r.StatusValue(), CreatedAt: r.Created()})
	}
	return out
}

// Filter narrows entries by category and status
type Filter struct {
	Category string
	Status   string
}

func isAll(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, "all") || v == "Все"
}

// Match reports whether e passes the filter. Status may be given either as a
// lifecycle value or as a citizen-facing label.
func (f Filter) Match(e Entry) bool {
	if !isAll(f.Category) && !strings.EqualFold(strings.TrimSpace(f.Category), e.Category) {
		return false
	}
	if !isAll(f.Status) {
		want := strings.ToUpper(demostore.Lifecycle(strings.TrimSpace(f.Status)))
		if want != e.Status {
			return false
		}
	}
	return true
}

// Apply returns the entries that match, preserving order
func (f Filter) Apply(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}

// Categories lists distinct non-empty categories in first-seen order
func Categories(entries []Entry) []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range entries {
		if e.Category == "" || seen[e.Category] {
			continue
		}
		seen[e.Category] = true
		out = append(out, e.Category)
	}
	return out
}

// KPI 统计卡片
type KPI struct {
	Total      int `json:"total"`
	New        int `json:"new"`
	InProgress int `json:"in_progress"`
	Done       int `json:"done"`
	Rejected   int `json:"rejected"`
}

// KPIs counts entries per status
func KPIs(entries []Entry) KPI {
	k := KPI{Total: len(entries)}
	for _, e := range entries {
		switch e.Status {
		case models.StatusNew:
			k.New++
		case models.StatusInProgress:
			k.InProgress++
		case models.StatusDone:
			k.Done++
		case models.StatusRejected:
			k.Rejected++
		}
	}
	return k
}

// Day is one bar of the chart
type Day struct {
	Date  string `json:"date"` // YYYY-MM-DD, local time
	Count int    `json:"count"`
}

// Chart is a daily submissions series
type Chart struct {
	Days []Day `json:"days"`
	Max  int   `json:"max"` // Never below 1
}

// DailyChart counts entries per local calendar day over the n days ending
// with now's day, oldest first. Entries outside the window are ignored.
func DailyChart(entries []Entry, n int, now time.Time) Chart {
	if n <= 0 {
		n = DefaultDays
	}
	now = now.Local()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	days := make([]Day, n)
	index := make(map[string]int, n)
	for i := 0; i < n; i++ {
		key := today.AddDate(0, 0, i-n+1).Format("2006-01-02")
		days[i] = Day{Date: key}
		index[key] = i
	}

	for _, e := range entries {
		if e.CreatedAt.IsZero() {
			continue
		}
		if i, ok := index[e.CreatedAt.Local().Format("2006-01-02")]; ok {
			days[i].Count++
		}
	}

	maxCount := 1
	for _, d := range days {
		if d.Count > maxCount {
			maxCount = d.Count
		}
	}
	return Chart{Days: days, Max: maxCount}
}
