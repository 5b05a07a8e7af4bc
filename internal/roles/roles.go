// Package roles defines the analyzer roles of the review system and the
// agents that embody them. Each role is a perspective on the same source:
// what it looks for, how it phrases its instructions to the model, and how
// much weight its opinion carries when roles disagree.
package roles

// Name identifies an analyzer role.
type Name string

const (
	CleanStructure Name = "clean-structure"
	Security       Name = "security"
	Efficiency     Name = "efficiency"
	Architecture   Name = "architecture"
	Testability    Name = "testability"
)

// Definition describes a single analyzer role.
type Definition struct {
	Name        Name
	Description string

	// Instruction is the system-style preamble sent to the model ahead of
	// the source under review.
	Instruction string

	// FocusKeywords tag the concerns this role gravitates toward. Used for
	// focus-area summaries in reports.
	FocusKeywords []string

	// HierarchyWeight ranks roles against each other when their findings
	// conflict and context gives no better signal. Higher wins.
	HierarchyWeight int
}

// definitions holds every role in declaration order. The order is load-bearing:
// it fixes dispatch order, port assignment, and the final tie-break when
// ordering findings.
var definitions = []Definition{
	{
		Name:        CleanStructure,
		Description: "Reviews naming, function size, duplication, and readability",
		Instruction: "You are a code reviewer focused on clean code structure. " +
			"Examine the source for unclear naming, overlong functions, deep nesting, " +
			"duplicated logic, and dead code. Prefer small, composable refactorings. " +
			"Do not comment on security, performance, or test coverage.",
		FocusKeywords:   []string{"naming", "duplication", "readability", "complexity"},
		HierarchyWeight: 60,
	},
	{
		Name:        Security,
		Description: "Reviews input validation, injection risks, and secret handling",
		Instruction: "You are a security reviewer. Examine the source for missing input " +
			"validation, injection vectors, unsafe deserialization, hardcoded secrets, " +
			"and insufficient authorization checks. Flag anything that could be abused " +
			"by a hostile caller. Do not comment on style or performance.",
		FocusKeywords:   []string{"validation", "injection", "secrets", "authorization"},
		HierarchyWeight: 100,
	},
	{
		Name:        Efficiency,
		Description: "Reviews algorithmic cost, allocation pressure, and caching",
		Instruction: "You are a performance reviewer. Examine the source for needless " +
			"allocations, quadratic loops, repeated recomputation that caching would " +
			"remove, and blocking calls on hot paths. Quantify the cost where you can. " +
			"Do not comment on style or security.",
		FocusKeywords:   []string{"caching", "allocation", "complexity", "latency"},
		HierarchyWeight: 80,
	},
	{
		Name:        Architecture,
		Description: "Reviews coupling, layering, and dependency direction",
		Instruction: "You are an architecture reviewer. Examine the source for tight " +
			"coupling, leaked abstractions, inverted dependencies, and responsibilities " +
			"that belong elsewhere. Suggest boundary and pattern changes, not line edits. " +
			"Do not comment on formatting or micro-optimizations.",
		FocusKeywords:   []string{"coupling", "layering", "abstraction", "dependencies"},
		HierarchyWeight: 50,
	},
	{
		Name:        Testability,
		Description: "Reviews seams, hidden state, and hard-to-test constructs",
		Instruction: "You are a testability reviewer. Examine the source for hidden " +
			"dependencies, global state, non-deterministic behavior, and missing seams " +
			"that make unit testing hard. Suggest injection points and test seams. " +
			"Do not comment on security or performance.",
		FocusKeywords:   []string{"seams", "injection", "determinism", "coverage"},
		HierarchyWeight: 40,
	},
}

// All returns every role definition in declaration order.
func All() []Definition {
	out := make([]Definition, len(definitions))
	copy(out, definitions)
	return out
}

// Names returns the role names in declaration order.
func Names() []Name {
	out := make([]Name, len(definitions))
	for i, d := range definitions {
		out[i] = d.Name
	}
	return out
}

// Lookup returns the definition for a role name.
func Lookup(name Name) (Definition, bool) {
	for _, d := range definitions {
		if d.Name == name {
			return d, true
		}
	}
	return Definition{}, false
}

// Weight returns the hierarchy weight for a role, or 0 for unknown roles.
func Weight(name Name) int {
	d, ok := Lookup(name)
	if !ok {
		return 0
	}
	return d.HierarchyWeight
}

// DeclarationIndex returns the position of a role in declaration order.
// Unknown roles sort last.
func DeclarationIndex(name Name) int {
	for i, d := range definitions {
		if d.Name == name {
			return i
		}
	}
	return len(definitions)
}
