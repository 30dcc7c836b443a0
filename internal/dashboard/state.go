// Package dashboard holds the view state for the scheduling dashboard and
// the pure derivations over the session list. Rendering and transport live
// in the handlers; everything here is plain data in, plain data out.
package dashboard

import (
	"net/url"
	"strings"

	"caredash/internal/models"
)

// FilterAll disables status filtering.
const FilterAll = "All"

// State is the serializable view state for one render of the dashboard.
// It is owned entirely by the request that builds it.
type State struct {
	Search       string `json:"search"`
	StatusFilter string `json:"statusFilter"`
	Error        string `json:"error,omitempty"`
}

// StateFromQuery parses view state from request query parameters. An
// unrecognised status value falls back to All.
func StateFromQuery(q url.Values) State {
	st := State{
		Search:       strings.TrimSpace(q.Get("q")),
		StatusFilter: q.Get("status"),
		Error:        q.Get("error"),
	}
	if !models.ValidStatus(st.StatusFilter) {
		st.StatusFilter = FilterAll
	}
	return st
}

// Query encodes the filter portion of the state back into query parameters,
// used to keep filters sticky across form submissions.
func (st State) Query() url.Values {
	q := url.Values{}
	if st.Search != "" {
		q.Set("q", st.Search)
	}
	if st.StatusFilter != "" && st.StatusFilter != FilterAll {
		q.Set("status", st.StatusFilter)
	}
	return q
}

// Matches reports whether a single session passes the state's filters:
// a case-insensitive substring match of the search text against therapist or
// patient name, and status equality unless the filter is All.
func (st State) Matches(s models.FlatSession) bool {
	if st.Search != "" {
		needle := strings.ToLower(st.Search)
		if !strings.Contains(strings.ToLower(s.TherapistName), needle) &&
			!strings.Contains(strings.ToLower(s.PatientName), needle) {
			return false
		}
	}
	if st.StatusFilter != "" && st.StatusFilter != FilterAll && s.Status != st.StatusFilter {
		return false
	}
	return true
}

// Filter returns the sessions passing the state's filters, preserving order.
// The result is never nil.
func Filter(sessions []models.FlatSession, st State) []models.FlatSession {
	filtered := make([]models.FlatSession, 0, len(sessions))
	for _, s := range sessions {
		if st.Matches(s) {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

// Summary holds the headline counts shown above the session table. Counts
// are always derived from the full unfiltered list.
type Summary struct {
	Therapists int
	Patients   int
	Scheduled  int
	Completed  int
}

// Summarize derives the summary counts: distinct therapist and patient names
// plus per-status totals.
func Summarize(sessions []models.FlatSession) Summary {
	therapists := map[string]struct{}{}
	patients := map[string]struct{}{}

	var sum Summary
	for _, s := range sessions {
		therapists[s.TherapistName] = struct{}{}
		patients[s.PatientName] = struct{}{}
		switch s.Status {
		case models.StatusScheduled:
			sum.Scheduled++
		case models.StatusCompleted:
			sum.Completed++
		}
	}

	sum.Therapists = len(therapists)
	sum.Patients = len(patients)
	return sum
}

// MergeUpdated replaces the row matching updated.ID with the updated record,
// leaving every other row in place. The input slice is not modified. A row
// that is not present is not inserted.
func MergeUpdated(sessions []models.FlatSession, updated models.FlatSession) []models.FlatSession {
	merged := make([]models.FlatSession, len(sessions))
	for i, s := range sessions {
		if s.ID == updated.ID {
			merged[i] = updated
		} else {
			merged[i] = s
		}
	}
	return merged
}
