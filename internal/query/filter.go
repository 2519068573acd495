// Package query implements the filtering and aggregation engines over a
// normalized record set. Everything here is a pure function: inputs are
// never mutated and empty inputs yield empty, never-nil results.
package query

import (
	"strings"

	"github.com/achyuthrachur/KYC-Analysis-Dashboard/internal/models"
)

// ManagerAll is the relationship-manager filter sentinel that disables
// filtering on that axis.
const ManagerAll = "All"

// Filter applies the relationship-manager equality filter and the free-text
// substring filter, AND-composed. The text filter is case-insensitive and
// matches against the textual form of every record field; an empty search
// string matches everything. Relative record order is preserved.
func Filter(records []models.KycRecord, manager, search string) []models.KycRecord {
	q := strings.ToLower(strings.TrimSpace(search))
	out := make([]models.KycRecord, 0, len(records))
	for i := range records {
		if manager != "" && manager != ManagerAll && records[i].RelationshipManager != manager {
			continue
		}
		if q != "" && !matchesText(&records[i], q) {
			continue
		}
		out = append(out, records[i])
	}
	return out
}

// matchesText reports whether any field's lower-cased textual form contains
// q. Pure substring containment: no tokenization, no fuzzy matching.
func matchesText(r *models.KycRecord, q string) bool {
	for _, field := range r.SearchFields() {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}
