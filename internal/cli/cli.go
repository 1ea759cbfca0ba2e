package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/vectorstudio/pkg/buildinfo"
	"github.com/matzehuels/vectorstudio/pkg/cache"
	"github.com/matzehuels/vectorstudio/pkg/config"
	"github.com/matzehuels/vectorstudio/pkg/export"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "vectorstudio"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
}

// New creates a new CLI instance with a default logger and default settings.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Vector Studio edits and exports vector scenes",
		Long:         `Vector Studio is a headless vector scene editor. It creates and inspects scene documents, exports them to SVG, PNG, PDF or JSON, and hosts live editing sessions over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig(cmd.Flags().Changed("config"))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/vectorstudio/config.toml)")

	// Register all subcommands
	root.AddCommand(c.newCommand())
	root.AddCommand(c.infoCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.layersCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file. The default path may be missing; an
// explicit --config path must exist.
func (c *CLI) loadConfig(explicit bool) error {
	path := c.configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			c.Logger.Debug("no config directory", "err", err)
			return nil
		}
		path = p
	}
	cfg, err := config.Load(path, !explicit)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.Logger.Debug("config loaded", "path", path)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates an export runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*export.Runner, error) {
	cache, err := newCache(noCache || !c.Config.Export.Cache)
	if err != nil {
		return nil, err
	}
	return export.NewRunner(cache, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/vectorstudio/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string. Empty means svg.
func parseFormats(s string) ([]export.Format, error) {
	if s == "" {
		return []export.Format{export.FormatSVG}, nil
	}
	return export.ParseFormats(strings.Split(s, ","))
}

// exportOptions builds export options from config, overridden by flags
// that were set.
func (c *CLI) exportOptions(scale float64, backend string) ([]export.Option, error) {
	if scale <= 0 {
		scale = c.Config.Export.PNGScale
	}
	if backend == "" {
		backend = c.Config.Export.Backend
	}
	b, err := export.ParseBackend(backend)
	if err != nil {
		return nil, err
	}
	return []export.Option{export.WithScale(scale), export.WithBackend(b)}, nil
}
