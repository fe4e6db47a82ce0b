package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mind-engage/populism-atlas/internal/boundary"
)

var errCoverageGaps = errors.New("coverage gaps found")

var coverageFlags struct {
	snapshotFlags
	strict bool
	asJSON bool
}

var coverageCmd = &cobra.Command{
	Use:   "coverage",
	Short: "Report boundary names that do not resolve to dataset countries",
	RunE:  runCoverage,
}

func init() {
	coverageFlags.register(coverageCmd)
	f := coverageCmd.Flags()
	f.BoolVar(&coverageFlags.strict, "strict", false, "exit non-zero when any dataset country has no boundary")
	f.BoolVar(&coverageFlags.asJSON, "json", false, "print the report as JSON")
}

func runCoverage(cmd *cobra.Command, _ []string) error {
	in, err := coverageFlags.load(cmd.Context())
	if err != nil {
		return err
	}
	c := boundary.CheckCoverage(in.set, in.resolver, in.index)

	out := cmd.OutOrStdout()
	if coverageFlags.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(c); err != nil {
			return err
		}
	} else {
		printCoverage(out, c)
	}
	if coverageFlags.strict && (len(c.UnmappedCountries) > 0 || len(c.UnreachableAliases) > 0) {
		return errCoverageGaps
	}
	return nil
}

func printCoverage(w io.Writer, c boundary.Coverage) {
	fmt.Fprintf(w, "Features:  %d (%d resolved)\n", c.Features, c.Resolved)
	section := func(title string, names []string) {
		fmt.Fprintf(w, "%s: %d\n", title, len(names))
		for _, n := range names {
			fmt.Fprintf(w, "  %s\n", n)
		}
	}
	section("Unmapped dataset countries", c.UnmappedCountries)
	section("Unreachable aliases", c.UnreachableAliases)
	section("Unresolved boundary features", c.UnresolvedFeatures)
}
