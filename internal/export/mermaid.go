package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dusk-indust/crosscheck/internal/review"
)

// GenerateMermaid produces a Mermaid graph TD diagram of the run: findings
// grouped by role, conflicts as dashed edges, synergies as solid ones.
func GenerateMermaid(report *review.Report) string {
	// Collect raw findings from every successful role so the diagram shows
	// what each role saw, not just what survived resolution.
	byRole := make(map[string][]review.Finding)
	for _, o := range report.RoleOutcomes {
		if o.Failure == nil {
			byRole[o.Role] = append(byRole[o.Role], o.Findings...)
		}
	}

	roleNames := make([]string, 0, len(byRole))
	for role := range byRole {
		roleNames = append(roleNames, role)
	}
	sort.Strings(roleNames)

	// Build node → ID mapping for Mermaid (alphanumeric only).
	nodeIDs := make(map[string]string)
	nextID := 0
	getID := func(key string) string {
		if id, ok := nodeIDs[key]; ok {
			return id
		}
		id := fmt.Sprintf("N%d", nextID)
		nextID++
		nodeIDs[key] = id
		return id
	}

	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, role := range roleNames {
		findings := byRole[role]
		if len(findings) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("  subgraph %s[\"%s\"]\n", getID(role+"_role"), role))
		for _, f := range findings {
			sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", getID(f.ID), nodeLabel(f)))
		}
		sb.WriteString("  end\n")
	}

	for _, c := range report.Conflicts {
		label := string(c.Kind)
		if c.Status == review.ConflictUnresolved {
			label += " (unresolved)"
		}
		for i := 0; i+1 < len(c.Members); i++ {
			sb.WriteString(fmt.Sprintf("  %s -. \"%s\" .- %s\n",
				getID(c.Members[i]), label, getID(c.Members[i+1])))
		}
	}

	for _, s := range report.Synergies {
		for i := 0; i+1 < len(s.Members); i++ {
			sb.WriteString(fmt.Sprintf("  %s -- \"synergy\" --- %s\n",
				getID(s.Members[i]), getID(s.Members[i+1])))
		}
	}

	return sb.String()
}

// nodeLabel keeps diagram nodes short: principle plus location.
func nodeLabel(f review.Finding) string {
	label := f.Principle
	if len(label) > 40 {
		label = label[:40]
	}
	return fmt.Sprintf("%s %s", label, f.Location)
}
