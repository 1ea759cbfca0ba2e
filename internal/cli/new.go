package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/vectorstudio/pkg/editor"
	"github.com/matzehuels/vectorstudio/pkg/errors"
)

// newOpts holds the canvas flags of the new command. Zero values keep the
// configured defaults.
type newOpts struct {
	name       string
	width      int
	height     int
	background string
	force      bool
}

// newCommand creates the new command for starting an empty document.
func (c *CLI) newCommand() *cobra.Command {
	var opts newOpts

	cmd := &cobra.Command{
		Use:   "new [file]",
		Short: "Create an empty scene document",
		Long: `Create an empty scene document.

The canvas size, background and project name come from the config file
unless overridden by flags. The document is written as JSON and can be
exported with 'export' or opened with 'serve'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runNew(args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.name, "name", "", "project name")
	cmd.Flags().IntVar(&opts.width, "width", 0, "canvas width in pixels (100-3000)")
	cmd.Flags().IntVar(&opts.height, "height", 0, "canvas height in pixels (100-3000)")
	cmd.Flags().StringVar(&opts.background, "background", "", "canvas background color (#rgb or #rrggbb)")
	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "overwrite an existing file")

	return cmd
}

func (c *CLI) runNew(path string, opts newOpts) error {
	if !opts.force {
		if _, err := os.Stat(path); err == nil {
			return errors.New(errors.ErrCodeInvalidInput, "%s already exists (use --force to overwrite)", path)
		}
	}

	cfg := c.Config
	if opts.name != "" {
		cfg.Canvas.Name = opts.name
	}
	if opts.width != 0 {
		cfg.Canvas.Width = opts.width
	}
	if opts.height != 0 {
		cfg.Canvas.Height = opts.height
	}
	if opts.background != "" {
		cfg.Canvas.Background = opts.background
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ed := editor.New(editor.WithConfig(cfg), editor.WithLogger(c.Logger))
	doc := ed.Document()
	if err := doc.SaveFile(path); err != nil {
		return fmt.Errorf("write document: %w", err)
	}

	printSuccess("Created %s", path)
	printDetail("%s · %dx%d · %s", doc.Name, doc.Width, doc.Height, doc.Background)
	printNextStep("Start editing", fmt.Sprintf("%s serve %s", appName, path))
	return nil
}
