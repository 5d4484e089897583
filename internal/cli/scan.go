package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"routereel/internal/anim"
	"routereel/internal/config"
	"routereel/internal/ledger"
	"routereel/internal/reel"
	"routereel/internal/track"
)

func newScanCommand() *cobra.Command {
	var showFiles bool
	cmd := &cobra.Command{
		Use:   "scan [data-dir]",
		Short: "List periods, files and distances without rendering",
		Long: `Build the load manifest for the data directory and print one row per
period folder with its name, file and track counts, and ledger totals.
Configuration gaps, such as more folders than period names, are reported.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(args)
			if err != nil {
				return err
			}
			return runScan(cmd.OutOrStdout(), cfg, showFiles)
		},
	}
	cmd.Flags().BoolVar(&showFiles, "files", false, "list every file in load order")
	return cmd
}

func runScan(out io.Writer, cfg *config.Config, showFiles bool) error {
	loader := track.NewLoader(cfg.Input.Extensions, newLogger())
	m, err := track.BuildManifest(cfg.Input.DataDir, cfg.Input.Extensions)
	if err != nil {
		return err
	}
	recs, err := loader.LoadManifest(m)
	if err != nil {
		return err
	}
	parts := make([]int, len(m.Periods))
	for _, r := range recs {
		parts[r.Period]++
	}

	sum := reel.Summarize(m, ledger.New(cfg.Periods.Distances), cfg.Periods.Names)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "FOLDER", "NAME", "FILES", "TRACKS", "DISTANCE", "CUMULATIVE")
	for _, r := range sum.Rows {
		name := r.Name
		if name == "" {
			name = "-"
		}
		t.Row(
			strconv.Itoa(r.Index),
			r.Folder,
			name,
			strconv.Itoa(r.Files),
			strconv.Itoa(parts[r.Index]),
			anim.FormatDistance(r.Distance)+" "+cfg.Overlay.Unit,
			anim.FormatDistance(r.Cumulative)+" "+cfg.Overlay.Unit,
		)
	}
	fmt.Fprintln(out, t.Render())
	fmt.Fprintf(out, "%d frames from %d files in %s\n", len(recs), len(m.Entries), m.Root)

	if showFiles {
		for _, e := range m.Entries {
			fmt.Fprintf(out, "  %s/%s\n", e.Folder, e.Name)
		}
	}
	for _, w := range sum.Warnings {
		fmt.Fprintf(out, "warning: %s\n", w)
	}
	return nil
}
