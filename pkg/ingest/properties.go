package ingest

// ReportLevel controls how much feedback the caller wants about an
// ingestion's outcome.
type ReportLevel string

const (
	ReportLevelNone           ReportLevel = "None"
	ReportLevelFailuresOnly   ReportLevel = "FailuresOnly"
	ReportLevelFailuresAndSuccesses ReportLevel = "FailuresAndSuccesses"
)

// ReportMethod selects where ingestion status is reported.
type ReportMethod string

const (
	ReportMethodQueue ReportMethod = "Queue"
	ReportMethodTable ReportMethod = "Table"
)

// ValidationPolicy describes how the service should validate ingested
// data before committing it.
type ValidationPolicy struct {
	ValidationOptions int `json:"validationOptions,omitempty"`
	ValidationPolicyType int `json:"validationPolicyType,omitempty"`
}

// IngestionProperties describes the target of one ingest call and the
// reporting preferences attached to it.
type IngestionProperties struct {
	DatabaseName string
	TableName    string

	Format   string
	Mapping  string

	ReportLevel  ReportLevel
	ReportMethod ReportMethod

	FlushImmediately bool
	ValidationPolicy ValidationPolicy

	AdditionalProperties map[string]string

	// AuthorizationContext is filled in by Ingestor from
	// resource.Manager.GetIdentityToken immediately before building the
	// blob info document; callers never set it directly.
	AuthorizationContext string
}

// Validate checks the minimal set of fields required to carry out an
// ingest.
func (p IngestionProperties) Validate() error {
	if p.DatabaseName == "" {
		return newClientValidationError("database name is required")
	}
	if p.TableName == "" {
		return newClientValidationError("table name is required")
	}
	if p.ReportMethod == ReportMethodTable && p.ReportLevel == ReportLevelNone {
		return newClientValidationError("table reporting requires a non-None report level")
	}
	return nil
}
