package repository

import (
	"sort"
	"time"
)

// Keyspaces used against the persistence adapter. The timetable draft being
// edited lives under its own key and joins the submissions list only on
// submit.
const (
	keyCPSEntries           = "cps_entries"
	keyLeaveEntries         = "leave_entries"
	keyTimetableDraft       = "timetable_draft"
	keyTimetableSubmissions = "timetable_submissions"
	keyUsers                = "users"
)

func sortNewestFirst[T any](items []T, ts func(T) time.Time) {
	sort.Slice(items, func(i, j int) bool {
		return ts(items[i]).After(ts(items[j]))
	})
}
