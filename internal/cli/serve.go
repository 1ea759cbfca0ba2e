package cli

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/vectorstudio/internal/server"
	"github.com/matzehuels/vectorstudio/pkg/cache"
	"github.com/matzehuels/vectorstudio/pkg/editor"
	"github.com/matzehuels/vectorstudio/pkg/export"
	"github.com/matzehuels/vectorstudio/pkg/imageio"
	"github.com/matzehuels/vectorstudio/pkg/observability"
	"github.com/matzehuels/vectorstudio/pkg/scene"
)

// serveCommand creates the serve command for hosting an editing session.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Host an editing session over HTTP",
		Long: `Host an editing session over HTTP.

The session starts from the given document, or an empty canvas. Hosts drive
it through the REST API under /api and the WebSocket at /ws, which pushes
the session state and a rendered view after every change. Exports are
served from /export/vector-design.<ext>.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input string
			if len(args) == 1 {
				input = args[0]
			}
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			return c.runServe(cmd.Context(), input, addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the in-memory export cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, input, addr string, noCache bool) error {
	hooks, err := observability.NewOTelHooks()
	if err != nil {
		return fmt.Errorf("create metrics: %w", err)
	}
	observability.SetEditorHooks(hooks)
	observability.SetExportHooks(hooks)
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	ed, err := c.openEditor(input)
	if err != nil {
		return err
	}

	var artifacts cache.Cache = cache.NewMemoryCache()
	if noCache || !c.Config.Export.Cache {
		artifacts = cache.NewNullCache()
	}
	runner := export.NewRunner(artifacts, nil, c.Logger)
	defer runner.Close()

	decoder := &imageio.Decoder{
		MaxDimension: c.Config.Server.ImageMaxDimension,
		Cache:        artifacts,
		Keyer:        runner.Keyer,
	}
	loop := editor.NewLoop(ed, editor.WithDecoder(decoder), editor.WithLoopLogger(c.Logger))
	srv := server.New(loop,
		server.WithConfig(c.Config),
		server.WithLogger(c.Logger),
		server.WithRunner(runner),
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	loopErr := make(chan error, 1)
	go func() { loopErr <- loop.Run(ctx) }()

	printInfo("Serving %s on %s", ed.Name(), addr)
	printDetail("REST /api · WebSocket /ws · exports /export/%s", "vector-design.{svg,png,pdf,json}")

	err = srv.ListenAndServe(ctx, addr)
	cancel()
	if lerr := <-loopErr; lerr != nil && !stderrors.Is(lerr, context.Canceled) && err == nil {
		err = lerr
	}
	return err
}

// openEditor starts a session from input, or an empty canvas when input is
// empty.
func (c *CLI) openEditor(input string) (*editor.Editor, error) {
	opts := []editor.Option{editor.WithConfig(c.Config), editor.WithLogger(c.Logger)}
	if input == "" {
		return editor.New(opts...), nil
	}
	doc, err := scene.LoadFile(input)
	if err != nil {
		return nil, err
	}
	return editor.Open(doc, opts...)
}
