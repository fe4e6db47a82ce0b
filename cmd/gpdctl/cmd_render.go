package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mind-engage/populism-atlas/internal/boundary"
	"github.com/mind-engage/populism-atlas/internal/choropleth"
)

var renderFlags struct {
	snapshotFlags
	colorMode string
	ideology  string
	selected  string
	output    string
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Write the styled choropleth as GeoJSON",
	RunE:  runRender,
}

func init() {
	renderFlags.register(renderCmd)
	f := renderCmd.Flags()
	f.StringVar(&renderFlags.colorMode, "color-mode", "ideology", "intensity|ideology")
	f.StringVar(&renderFlags.ideology, "ideology", "", "dim countries not matching left|center|right (ideology mode)")
	f.StringVar(&renderFlags.selected, "selected", "", "country to outline as selected")
	f.StringVarP(&renderFlags.output, "output", "o", "", "output file (default: stdout)")
}

func runRender(cmd *cobra.Command, _ []string) error {
	mode, err := choropleth.ParseColorMode(renderFlags.colorMode)
	if err != nil {
		return err
	}
	filter := choropleth.FilterState{Mode: mode}
	if renderFlags.ideology != "" {
		ideo, err := choropleth.ParseIdeology(renderFlags.ideology)
		if err != nil {
			return err
		}
		filter.Ideology = &ideo
	}

	in, err := renderFlags.load(cmd.Context())
	if err != nil {
		return err
	}
	sel := choropleth.Selection{Key: renderFlags.selected}
	if rec, ok := in.resolver.Resolve(sel.Key, in.index); ok {
		sel.Key = rec.Country
	}

	fc := boundary.Render(choropleth.NewPass(in.resolver, in.index, filter, sel), in.set)
	body, err := fc.MarshalJSON()
	if err != nil {
		return err
	}
	if renderFlags.output == "" {
		_, err = cmd.OutOrStdout().Write(append(body, '\n'))
		return err
	}
	if err := os.WriteFile(renderFlags.output, body, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d features to %s\n", len(fc.Features), renderFlags.output)
	return nil
}
