package review

// Priority is the project-level optimization goal used by context-driven
// conflict resolution.
type Priority string

const (
	PrioritySecurity        Priority = "security"
	PriorityPerformance     Priority = "performance"
	PriorityMaintainability Priority = "maintainability"
	PriorityBalanced        Priority = "balanced"
)

// Valid reports whether the priority is a recognized value.
func (p Priority) Valid() bool {
	switch p {
	case PrioritySecurity, PriorityPerformance, PriorityMaintainability, PriorityBalanced:
		return true
	}
	return false
}

// DebtLevel describes accumulated technical debt.
type DebtLevel string

const (
	DebtLow    DebtLevel = "low"
	DebtMedium DebtLevel = "medium"
	DebtHigh   DebtLevel = "high"
)

// ProjectContext guides resolution choices. Unrecognized configuration keys
// are dropped at the config boundary; here every field has a usable default.
type ProjectContext struct {
	Priority            Priority  `json:"priority" yaml:"priority"`
	SecuritySensitive   bool      `json:"securitySensitive" yaml:"securitySensitive"`
	PerformanceCritical bool      `json:"performanceCritical" yaml:"performanceCritical"`
	TestCoverage        float64   `json:"testCoverage" yaml:"testCoverage"` // [0,1]
	TechnicalDebtLevel  DebtLevel `json:"technicalDebtLevel" yaml:"technicalDebtLevel"`
}

// DefaultProjectContext returns the balanced baseline context.
func DefaultProjectContext() ProjectContext {
	return ProjectContext{
		Priority:           PriorityBalanced,
		TestCoverage:       0.7,
		TechnicalDebtLevel: DebtMedium,
	}
}

// Normalize replaces unrecognized enum values with their defaults so a
// partially-filled context never derails resolution.
func (c ProjectContext) Normalize() ProjectContext {
	if !c.Priority.Valid() {
		c.Priority = PriorityBalanced
	}
	switch c.TechnicalDebtLevel {
	case DebtLow, DebtMedium, DebtHigh:
	default:
		c.TechnicalDebtLevel = DebtMedium
	}
	if c.TestCoverage < 0 {
		c.TestCoverage = 0
	}
	if c.TestCoverage > 1 {
		c.TestCoverage = 1
	}
	return c
}
