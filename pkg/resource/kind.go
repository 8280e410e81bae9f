package resource

import "strings"

// Kind identifies one of the five endpoint families the control plane vends.
type Kind string

const (
	// KindSecuredReadyForAggregationQueue carries ingest notification messages.
	KindSecuredReadyForAggregationQueue Kind = "SecuredReadyForAggregationQueue"
	// KindFailedIngestionsQueue carries failure reports.
	KindFailedIngestionsQueue Kind = "FailedIngestionsQueue"
	// KindSuccessfulIngestionsQueue carries success reports.
	KindSuccessfulIngestionsQueue Kind = "SuccessfulIngestionsQueue"
	// KindTempStorage addresses blob containers for transient payloads.
	KindTempStorage Kind = "TempStorage"
	// KindIngestionsStatusTable addresses the per-operation status table.
	KindIngestionsStatusTable Kind = "IngestionsStatusTable"
)

// Kinds lists the closed enumeration of resource kinds, in the order a
// freshly built snapshot enumerates them.
func Kinds() []Kind {
	return []Kind{
		KindSecuredReadyForAggregationQueue,
		KindFailedIngestionsQueue,
		KindSuccessfulIngestionsQueue,
		KindTempStorage,
		KindIngestionsStatusTable,
	}
}

// ParseKind matches a control-plane wire name to a Kind, case-insensitively.
func ParseKind(wireName string) (Kind, bool) {
	for _, k := range Kinds() {
		if strings.EqualFold(string(k), wireName) {
			return k, true
		}
	}
	return "", false
}
