package models

import "sort"

// Snapshot is one ingested KYC compliance snapshot. It is immutable once
// constructed: derived views (filters, aggregates) never modify it, and a
// refresh replaces the whole value.
type Snapshot struct {
	Records     []KycRecord `json:"records"`
	GeneratedAt string      `json:"generatedAt,omitempty"` // opaque upstream timestamp, never recomputed
	InputFile   string      `json:"inputFile,omitempty"`
	ManagerTabs []string    `json:"managerTabs,omitempty"`
	// Missing marks the "no snapshot file yet" state, distinct from a
	// snapshot that genuinely contains zero records.
	Missing bool `json:"missing,omitempty"`
}

// EmptySnapshot returns the canonical "no data yet" snapshot.
func EmptySnapshot() *Snapshot {
	return &Snapshot{Records: []KycRecord{}, Missing: true}
}

// Managers returns the relationship-manager filter options: the explicit
// upstream tab list if present, otherwise the distinct managers found in
// the records, sorted.
func (s *Snapshot) Managers() []string {
	if len(s.ManagerTabs) > 0 {
		return s.ManagerTabs
	}
	seen := make(map[string]struct{})
	var managers []string
	for i := range s.Records {
		rm := s.Records[i].RelationshipManager
		if rm == "" {
			continue
		}
		if _, ok := seen[rm]; !ok {
			seen[rm] = struct{}{}
			managers = append(managers, rm)
		}
	}
	sort.Strings(managers)
	return managers
}
