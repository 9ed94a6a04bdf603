package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/marcelsud/webhook-relay/routes"
)

/* validate-routes - Standalone CLI tool to validate a static routes file
 * Usage: go run ./cmd/validate-routes [routes.yaml]
 * Exit codes: 0 = valid, 1 = invalid
 */

func main() {
	routesFile := "routes.yaml"
	if len(os.Args) > 1 {
		routesFile = os.Args[1]
	}

	fmt.Printf("Validating routes file: %s\n", routesFile)
	fmt.Println(strings.Repeat("-", 50))

	loader := routes.NewLoader()
	if err := loader.Load(routesFile); err != nil {
		fmt.Fprintf(os.Stderr, "VALIDATION FAILED\n\n")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	loaded := loader.List()
	fmt.Printf("VALIDATION PASSED\n\n")
	fmt.Printf("Loaded %d route(s):\n", len(loaded))

	for i, route := range loaded {
		fmt.Printf("\n%d. Service: %s\n", i+1, route.Service)
		fmt.Printf("   Name:       %s\n", route.DisplayName())
		fmt.Printf("   Target URL: %s\n", route.TargetURL)
	}
}
