package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/dusk-indust/crosscheck/internal/roles"
)

func runAgents(args []string) error {
	fs := flag.NewFlagSet("agents", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	fmt.Println("analyzer roles (in dispatch order):")
	for _, def := range roles.All() {
		fmt.Printf("  %-16s weight %-4d %s\n", def.Name, def.HierarchyWeight, def.Description)
		fmt.Printf("  %-16s focus: %s\n", "", strings.Join(def.FocusKeywords, ", "))
	}
	return nil
}
