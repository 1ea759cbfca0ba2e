package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/vectorstudio/pkg/export"
	"github.com/matzehuels/vectorstudio/pkg/scene"
)

// exportOpts holds the flags of the export command.
type exportOpts struct {
	formats []export.Format
	output  string
	scale   float64
	backend string
	noCache bool
}

// exportCommand creates the export command for rendering a document.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		formatsStr string
		opts       exportOpts
	)

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export a document to SVG, PNG, PDF or JSON",
		Long: `Export a document to SVG, PNG, PDF or JSON.

Only committed objects are rendered. Hidden objects are left out of the
image formats but kept in JSON. Files are named vector-design.<ext> in the
configured export directory unless -o is given.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats, err := parseFormats(formatsStr)
			if err != nil {
				return err
			}
			opts.formats = formats
			return c.runExport(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "PNG pixel scale (default from config)")
	cmd.Flags().StringVar(&opts.backend, "backend", "", "rasterizer: native or rsvg (default from config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runExport(ctx context.Context, input string, opts exportOpts) error {
	doc, err := scene.LoadFile(input)
	if err != nil {
		return fmt.Errorf("load document %s: %w", input, err)
	}
	renderOpts, err := c.exportOptions(opts.scale, opts.backend)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Exporting...")
	spinner.Start()

	res, err := runner.ExportAll(ctx, doc, opts.formats, renderOpts...)
	if err != nil {
		spinner.StopWithError("Export failed")
		return fmt.Errorf("export: %w", err)
	}
	spinner.Stop()

	paths, err := writeArtifacts(res.Artifacts, opts.formats, c.Config.Export.Dir, opts.output)
	if err != nil {
		return err
	}
	prog.done("export finished", "files", len(paths))

	printSuccess("Exported %s", plural(len(paths), "file"))
	printExportStats(len(doc.Objects), len(paths), res.CacheHits)
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

// writeArtifacts writes each format and returns the paths in format order.
func writeArtifacts(artifacts map[export.Format][]byte, formats []export.Format, dir, output string) ([]string, error) {
	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		path := outputPath(f, len(formats), dir, output)
		if d := filepath.Dir(path); d != "." {
			if err := os.MkdirAll(d, 0o755); err != nil {
				return paths, fmt.Errorf("create %s: %w", d, err)
			}
		}
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// outputPath picks the file for format f. Without -o files go to dir under
// the default name; with one format -o is the file itself; with several it
// is a base path whose extension is replaced per format.
func outputPath(f export.Format, count int, dir, output string) string {
	switch {
	case output == "":
		if dir == "" {
			dir = "."
		}
		return filepath.Join(dir, f.Filename())
	case count == 1:
		return output
	default:
		base := strings.TrimSuffix(output, filepath.Ext(output))
		return base + "." + string(f)
	}
}
