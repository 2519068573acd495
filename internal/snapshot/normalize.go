package snapshot

import (
	"strconv"
	"strings"
	"time"

	"github.com/achyuthrachur/KYC-Analysis-Dashboard/internal/models"
)

// dateLayouts are tried in order when parsing doc_expiry_date. Upstream
// emits ISO dates, occasionally with a time component.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// normalizeRecord coerces one raw snapshot row into a KycRecord. A bad
// field degrades to its documented default or unknown sentinel; it never
// drops the record or fails the load.
func normalizeRecord(raw map[string]interface{}) models.KycRecord {
	return models.KycRecord{
		CustomerID:          stringField(raw, "customer_id"),
		CustomerName:        stringField(raw, "customer_name"),
		RiskRating:          riskField(raw),
		KycDocumentType:     stringField(raw, "kyc_document_type"),
		DocExpiryDate:       dateField(raw, "doc_expiry_date"),
		DaysToExpiry:        daysField(raw, "days_to_expiry"),
		ExpiryBucket:        models.ParseExpiryBucket(stringField(raw, "expiry_bucket")),
		RelationshipManager: managerField(raw),
	}
}

func stringField(raw map[string]interface{}, key string) string {
	s, _ := raw[key].(string)
	return s
}

func riskField(raw map[string]interface{}) models.RiskRating {
	s, ok := raw["risk_rating"].(string)
	if !ok || s == "" {
		return models.RiskUnknown
	}
	return models.ParseRiskRating(s)
}

func managerField(raw map[string]interface{}) string {
	s, ok := raw["relationship_manager"].(string)
	if !ok || s == "" {
		return "Unknown"
	}
	return s
}

// daysField parses days_to_expiry, which upstream emits as a number, a
// numeric string, or junk like "N/A". Unparseable input becomes the nil
// sentinel, never zero.
func daysField(raw map[string]interface{}, key string) *int {
	switch v := raw[key].(type) {
	case float64:
		d := int(v)
		return &d
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return &n
		}
	}
	return nil
}

func dateField(raw map[string]interface{}, key string) *time.Time {
	s, ok := raw[key].(string)
	if !ok || s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
			return &t
		}
	}
	return nil
}
