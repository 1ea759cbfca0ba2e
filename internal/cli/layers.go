package cli

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/vectorstudio/pkg/editor"
	"github.com/matzehuels/vectorstudio/pkg/scene"
)

// layersCommand creates the interactive layer panel command.
func (c *CLI) layersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layers [file]",
		Short: "Browse and edit a document's layers",
		Long: `Browse and edit a document's layers in the terminal.

Layers are listed top first. Toggle visibility and lock state, reorder,
delete or duplicate objects, undo and redo, and write the result back to
the file with 'w'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayers(cmd, args[0])
		},
	}
	return cmd
}

func (c *CLI) runLayers(cmd *cobra.Command, path string) error {
	doc, err := scene.LoadFile(path)
	if err != nil {
		return err
	}
	// Logging would draw over the panel.
	ed, err := editor.Open(doc, editor.WithConfig(c.Config), editor.WithLogger(log.New(io.Discard)))
	if err != nil {
		return err
	}

	model := NewLayerPanelModel(ed, func(d *scene.Document) error { return d.SaveFile(path) })
	p := tea.NewProgram(model,
		tea.WithContext(cmd.Context()),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("layer panel: %w", err)
	}

	m, ok := final.(LayerPanelModel)
	if !ok {
		return nil
	}
	switch {
	case m.Err != nil:
		return m.Err
	case m.Dirty:
		printWarning("Unsaved changes discarded")
	case m.Saved:
		printSuccess("Wrote %s", path)
	}
	return nil
}
