package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/zjrosen/soundscape/internal/sound"
)

var soundsCategory string

var soundsCmd = &cobra.Command{
	Use:   "sounds",
	Short: "List the available sounds",
	Long:  `Display every sound in the registry grouped by category, and whether its file is present under the assets directory.`,
	RunE:  runSounds,
}

func init() {
	soundsCmd.Flags().StringVar(&soundsCategory, "category", "", "only list one category (nature, human, life)")
	rootCmd.AddCommand(soundsCmd)
}

func runSounds(cmd *cobra.Command, _ []string) error {
	return listSounds(cmd, sound.Default(), assetFs(cfg.AssetsDir), soundsCategory)
}

func listSounds(cmd *cobra.Command, reg *sound.Registry, fs afero.Fs, category string) error {
	cats := reg.Categories()
	if category != "" {
		c, err := sound.ParseCategory(category)
		if err != nil {
			return err
		}
		cats = []sound.Category{c}
	}

	cell := lipgloss.NewStyle().PaddingRight(2)
	out := cmd.OutOrStdout()
	for i, c := range cats {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "%s:\n", c.Label())

		t := table.New().
			Border(lipgloss.HiddenBorder()).
			BorderTop(false).
			BorderBottom(false).
			BorderRight(false).
			BorderColumn(false).
			StyleFunc(func(_, _ int) lipgloss.Style { return cell })
		for _, d := range reg.ListByCategory(c) {
			status := "ok"
			if ok, err := afero.Exists(fs, d.Path.String()); err != nil || !ok {
				status = "missing"
			}
			t.Row(d.ID.String(), d.Name, d.Path.String(), status)
		}
		fmt.Fprintln(out, t.Render())
	}
	return nil
}
