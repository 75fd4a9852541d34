package prescreen

import (
	"sort"
	"strings"
)

// Tab identifies one of the list view's eligibility tabs.
type Tab string

const (
	TabAll        Tab = "all"
	TabSafe       Tab = "safe"
	TabReview     Tab = "review"
	TabUnsuitable Tab = "unsuitable"
)

// ParseTab maps a query-string value onto a Tab, defaulting to all.
func ParseTab(value string) Tab {
	switch Tab(strings.ToLower(strings.TrimSpace(value))) {
	case TabSafe:
		return TabSafe
	case TabReview:
		return TabReview
	case TabUnsuitable:
		return TabUnsuitable
	default:
		return TabAll
	}
}

// FilterByTab keeps the records whose eligibility matches the tab.
// TabAll passes everything through; UNKNOWN records appear only there.
func FilterByTab(records []Record, tab Tab) []Record {
	if tab == TabAll {
		return records
	}
	var want Eligibility
	switch tab {
	case TabSafe:
		want = EligibilitySafe
	case TabReview:
		want = EligibilityReview
	case TabUnsuitable:
		want = EligibilityUnsuitable
	default:
		return records
	}

	filtered := make([]Record, 0, len(records))
	for _, record := range records {
		if record.Eligibility == want {
			filtered = append(filtered, record)
		}
	}
	return filtered
}

// FilterBySearch keeps the records whose display name, email or
// treatment contains the query as a case-insensitive substring. An
// empty query passes everything through.
func FilterBySearch(records []Record, query string) []Record {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return records
	}

	filtered := make([]Record, 0, len(records))
	for _, record := range records {
		if strings.Contains(strings.ToLower(record.DisplayName), needle) ||
			strings.Contains(strings.ToLower(record.Email), needle) ||
			strings.Contains(strings.ToLower(record.Treatment), needle) {
			filtered = append(filtered, record)
		}
	}
	return filtered
}

// SortByRecency returns a new slice sorted by timestamp descending.
// Records without a parseable timestamp sort as the epoch, i.e. last.
// The sort is stable: ties keep first-seen input order.
func SortByRecency(records []Record) []Record {
	sorted := make([]Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})
	return sorted
}

// Counts holds the per-state totals shown on the tab headers.
type Counts struct {
	Safe       int `json:"safe"`
	Review     int `json:"review"`
	Unsuitable int `json:"unsuitable"`
	Unknown    int `json:"unknown"`
	Total      int `json:"total"`
}

// CountByEligibility tallies the four canonical states in one pass.
func CountByEligibility(records []Record) Counts {
	var counts Counts
	for _, record := range records {
		switch record.Eligibility {
		case EligibilitySafe:
			counts.Safe++
		case EligibilityReview:
			counts.Review++
		case EligibilityUnsuitable:
			counts.Unsuitable++
		default:
			counts.Unknown++
		}
		counts.Total++
	}
	return counts
}
