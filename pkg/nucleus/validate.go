package nucleus

// Severity captures structure-data rule outcomes.
type Severity string

// Rule evaluation severities determine whether a dataset may be used for
// event generation.
const (
	// SeverityBlock rejects the dataset.
	SeverityBlock Severity = "block"
	// SeverityWarn logs a warning but allows generation.
	SeverityWarn Severity = "warn"
)

// Violation reports a failed rule evaluation against one decay scheme.
type Violation struct {
	Rule     string
	Severity Severity
	Message  string
	Nuclide  Nuclide
	Level    int
}

// Result aggregates violations from the structure rules engine.
type Result struct {
	Violations []Violation
}

// Merge appends violations from another result.
func (r *Result) Merge(other Result) {
	if len(other.Violations) == 0 {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}

// HasBlocking returns true if the result contains blocking violations.
func (r Result) HasBlocking() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			return true
		}
	}
	return false
}

// RuleViolationError is returned when blocking violations are present.
type RuleViolationError struct {
	Result Result
}

func (e RuleViolationError) Error() string {
	return "structure data rejected by validation rules"
}
