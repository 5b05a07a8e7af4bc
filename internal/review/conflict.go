package review

// ConflictKind classifies the nature of a disagreement between findings.
type ConflictKind string

const (
	// ConflictOverlapping marks literally incompatible edits to
	// intersecting ranges of the same text.
	ConflictOverlapping ConflictKind = "overlapping-location-contradiction"

	// ConflictPhilosophical marks a trade-off between different
	// optimization goals (e.g. brevity vs. defensiveness).
	ConflictPhilosophical ConflictKind = "philosophical-tradeoff"

	// ConflictPriority marks agreement on the defect but disagreement on
	// its urgency.
	ConflictPriority ConflictKind = "priority-disagreement"
)

// ConflictStatus is the lifecycle state of a conflict within one run.
type ConflictStatus string

const (
	ConflictDetected   ConflictStatus = "detected"
	ConflictResolved   ConflictStatus = "resolved"
	ConflictUnresolved ConflictStatus = "unresolved"
)

// Conflict groups two or more findings whose recommendations cannot all be
// applied as-is. Conflicts are derived by the detector, never produced by a
// role.
type Conflict struct {
	ID          string         `json:"id"`
	Kind        ConflictKind   `json:"kind"`
	Members     []string       `json:"members"` // finding IDs, >= 2
	Description string         `json:"description"`
	Impact      float64        `json:"impact"` // max member impact score
	Status      ConflictStatus `json:"status"`
}

// Synergy groups findings whose combined application is worth more than any
// one of them alone.
type Synergy struct {
	ID            string   `json:"id"`
	Members       []string `json:"members"` // finding IDs, >= 2
	CombinedValue float64  `json:"combinedValue"`
	Description   string   `json:"description"`
}

// Resolution is the coordinator's single chosen outcome for one conflict.
// Resolved is a synthesized finding-shaped recommendation; for
// member-selection strategies it is a copy of the winning member.
type Resolution struct {
	ConflictID string  `json:"conflictId"`
	Strategy   string  `json:"strategy"`
	Resolved   Finding `json:"resolved"`
	Rationale  string  `json:"rationale"`
}
