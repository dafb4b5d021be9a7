// Package signatures implements the command that lists the defect signature table.
package signatures

import (
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/doctracer/cmd/common"
	"github.com/jonesrussell/doctracer/internal/signature"
)

const flagSignatures = "signatures"

// TableRenderer handles the display of signature tables.
type TableRenderer struct {
	out io.Writer
}

// NewTableRenderer creates a new TableRenderer writing to out.
func NewTableRenderer(out io.Writer) *TableRenderer {
	return &TableRenderer{out: out}
}

// RenderTable writes one row per pattern, grouped by category in declaration order.
func (r *TableRenderer) RenderTable(idx *signature.Index) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"Category", "#", "Pattern", "Anchors"})

	for _, category := range idx.Categories() {
		for i, m := range idx.Matchers(category) {
			t.AppendRow(table.Row{
				category,
				i + 1,
				m.Pattern(),
				strings.Join(m.Anchors(), ", "),
			})
		}
		t.AppendSeparator()
	}

	t.AppendFooter(table.Row{"Total", "", idx.Len(), ""})
	t.Render()
}

// RenderDescriptions writes the category descriptions.
func (r *TableRenderer) RenderDescriptions(idx *signature.Index) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"Category", "Patterns", "Description"})
	for _, category := range idx.Categories() {
		t.AppendRow(table.Row{category, len(idx.Matchers(category)), idx.Description(category)})
	}
	t.Render()
}

// Command returns the signatures command.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signatures",
		Short: "List the defect signature table",
		Long: `List every defect category and its patterns, in the order they are
evaluated. With --signatures, the given YAML table is validated and listed
instead of the built-in one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			deps, err := common.NewCommandDeps(cmd, common.FlagBinding{
				Key:  "tracer.signatures_file",
				Flag: flagSignatures,
			})
			if err != nil {
				return err
			}
			defer func() { _ = deps.Logger.Sync() }()

			idx, err := common.LoadSignatures(deps.Config.Tracer.SignaturesFile)
			if err != nil {
				return err
			}

			deps.Logger.Debug("Listing signatures",
				"categories", len(idx.Categories()),
				"patterns", idx.Len(),
			)

			renderer := NewTableRenderer(cmd.OutOrStdout())
			renderer.RenderDescriptions(idx)
			renderer.RenderTable(idx)
			return nil
		},
	}

	cmd.Flags().String(flagSignatures, "", "YAML signature table to list instead of the built-in one")

	return cmd
}
