package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/vectorstudio/pkg/editor"
	"github.com/matzehuels/vectorstudio/pkg/export"
	"github.com/matzehuels/vectorstudio/pkg/scene"
)

// infoCommand creates the info command for summarizing a document.
func (c *CLI) infoCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "info [file]",
		Short: "Show a document's canvas, objects and layers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInfo(cmd.OutOrStdout(), args[0], asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the editor state as JSON")

	return cmd
}

func (c *CLI) runInfo(w io.Writer, path string, asJSON bool) error {
	doc, err := scene.LoadFile(path)
	if err != nil {
		return err
	}
	ed, err := editor.Open(doc, editor.WithConfig(c.Config), editor.WithLogger(c.Logger))
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(ed.State())
	}

	hash, err := export.DocumentHash(doc)
	if err != nil {
		return err
	}

	fmt.Println(StyleTitle.Render(doc.Name))
	printKeyValue("Canvas", fmt.Sprintf("%d × %d", doc.Width, doc.Height))
	printKeyValue("Background", doc.Background)
	printKeyValue("Objects", kindSummary(doc.Objects))
	printKeyValue("Hash", hash[:12])

	layers := ed.Layers()
	if len(layers) == 0 {
		return nil
	}
	fmt.Println()
	fmt.Println(StyleTitle.Render("Layers"))
	for _, l := range slices.Backward(layers) {
		var flags []string
		if !l.Visible {
			flags = append(flags, "hidden")
		}
		if l.Locked {
			flags = append(flags, "locked")
		}
		line := fmt.Sprintf("%-20s %-8s", l.Name, l.Kind)
		if len(flags) > 0 {
			line += " " + StyleWarning.Render(strings.Join(flags, ", "))
		}
		fmt.Println("  " + line)
	}
	c.Logger.Debug("document inspected", "path", path, "layers", len(layers))
	return nil
}

// kindSummary counts objects per kind, e.g. "3 (2 rect, 1 path)".
func kindSummary(objs []*scene.Object) string {
	if len(objs) == 0 {
		return "0"
	}
	counts := make(map[scene.Kind]int)
	for _, o := range objs {
		counts[o.Kind()]++
	}
	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, string(k))
	}
	slices.Sort(kinds)
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = fmt.Sprintf("%d %s", counts[scene.Kind(k)], k)
	}
	return fmt.Sprintf("%d (%s)", len(objs), strings.Join(parts, ", "))
}
