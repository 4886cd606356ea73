package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/studiowebux/mdpad/internal/cli"
	"github.com/studiowebux/mdpad/internal/config"
	"github.com/studiowebux/mdpad/internal/history"
	"github.com/studiowebux/mdpad/internal/keybinds"
	"github.com/studiowebux/mdpad/internal/logging"
	"github.com/studiowebux/mdpad/internal/session"
	"github.com/studiowebux/mdpad/internal/theme"
	"github.com/studiowebux/mdpad/internal/tui"
	"github.com/studiowebux/mdpad/internal/version"
)

var (
	appVersion = "0.1.0"
)

func main() {
	defer logging.Close()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mdpad [file]",
	Short: "mdpad - terminal Markdown editor with live preview",
	Long: `mdpad is a Markdown editor for the terminal. The preview pane is
re-rendered on every keystroke.

File extension is optional - 'notes' resolves to 'notes.md' automatically.

Examples:
  mdpad                                # Start with an empty document
  mdpad notes                          # Open notes.md
  mdpad --preview-addr localhost:8787  # Also serve the preview to a browser
  mdpad render notes.md > notes.html   # Print the preview HTML
  cat notes.md | mdpad count           # Count words from stdin
  mdpad stats notes.md --query words   # Query document statistics`,
	Version: appVersion,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := setup(); err != nil {
			return err
		}

		var filePath string
		if len(args) > 0 {
			filePath = args[0]
		}
		return runTUI(cmd, filePath)
	},
}

var renderCmd = &cobra.Command{
	Use:   "render [file]",
	Short: "Print the HTML of a Markdown file (stdin when no file is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cli.RenderOptions{Export: flagRenderExport, Style: flagRenderStyle}
		if len(args) > 0 {
			opts.FilePath = args[0]
		}
		return cli.Render(cmd.OutOrStdout(), cmd.InOrStdin(), opts)
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export a Markdown file to HTML",
	Long: `Export a Markdown file to a standalone HTML fragment.

Without -o the HTML is written next to the source file with an .html
extension.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := setup(); err != nil {
			return err
		}
		settings := loadSettings()

		recent := cli.OpenHistory(settings)
		if recent != nil {
			defer recent.Close()
		}

		out, err := cli.Export(args[0], flagExportOutput, recent)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", out)
		return nil
	},
}

var countCmd = &cobra.Command{
	Use:   "count [file]",
	Short: "Print the word count of a Markdown file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var path string
		if len(args) > 0 {
			path = args[0]
		}
		return cli.Count(cmd.OutOrStdout(), cmd.InOrStdin(), path)
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats [file]",
	Short: "Print document statistics",
	Long: `Print words, characters, lines, headings, code blocks, links,
images and tables of a Markdown document.

Use --query to select values with a JMESPath expression, for example
'headings[?level==` + "`1`" + `].text'.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cli.StatsOptions{Query: flagStatsQuery, Format: flagStatsFormat}
		if len(args) > 0 {
			opts.FilePath = args[0]
		}
		return cli.Stats(cmd.OutOrStdout(), cmd.InOrStdin(), opts)
	},
}

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List available themes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := setup(); err != nil {
			return err
		}
		registry := loadThemes()

		sessionMgr := session.NewManager()
		if err := sessionMgr.Load(); err != nil {
			logging.Error("failed to load session", err)
		}
		return cli.Themes(cmd.OutOrStdout(), registry, sessionMgr.Get().Theme)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve <file>",
	Short: "Serve a live browser preview of a file",
	Long: `Serve a live HTML preview of a Markdown file. The page is updated
whenever the file changes on disk, so any editor can be used.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := setup(); err != nil {
			return err
		}
		settings := loadSettings()
		registry := loadThemes()

		addr := flagServeAddr
		if addr == "" {
			addr = settings.PreviewAddr
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		return cli.Serve(ctx, cli.ServeOptions{
			FilePath: args[0],
			Addr:     addr,
			Theme:    registry.Lookup(settings.Theme),
			Interval: flagServeInterval,
			Ready: func(url string) {
				fmt.Fprintf(out, "Serving %s at %s (Ctrl+C to stop)\n", args[0], url)
			},
		})
	},
}

var keybindsCmd = &cobra.Command{
	Use:   "keybinds",
	Short: "Validate or export keybinding configuration",
	Long: `Check ~/.mdpad/keybinds.json for errors, or write the default
bindings to it as a starting point for customization.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		switch {
		case flagKeybindsExport:
			if _, err := os.Stat(config.KeybindsFile); err == nil && !flagKeybindsForce {
				return fmt.Errorf("%s already exists (use --force to overwrite)", config.KeybindsFile)
			}
			if err := keybinds.SaveConfig(keybinds.ExportDefaults(), config.KeybindsFile); err != nil {
				return fmt.Errorf("failed to export keybinds: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Default keybindings written to %s\n", config.KeybindsFile)
			return nil

		default:
			return cli.ValidateKeybinds(cmd.OutOrStdout(), config.KeybindsFile)
		}
	},
}

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Pick a recently used file and open it",
	Long: `Show recently opened, saved and exported files. Selecting one opens
it in the editor. Use --print to only list them.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := setup(); err != nil {
			return err
		}
		settings := loadSettings()

		recent := cli.OpenHistory(settings)
		if recent == nil {
			return fmt.Errorf("recent files are disabled or unavailable")
		}

		switch {
		case flagRecentClear:
			defer recent.Close()
			if err := recent.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Recent files cleared")
			return nil

		case flagRecentPrune:
			defer recent.Close()
			n, err := recent.Prune()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d missing file(s)\n", n)
			return nil
		}

		entries, err := recent.Recent(history.DefaultLimit)
		// The editor opens its own connection
		recent.Close()
		if err != nil {
			return err
		}

		if flagRecentPrint {
			return cli.ListRecent(cmd.OutOrStdout(), entries)
		}

		path, err := cli.SelectRecent(entries)
		if err != nil || path == "" {
			return err
		}
		return runTUI(cmd, path)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and check for a newer release",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "mdpad %s\n", appVersion)
		if !flagVersionCheck {
			return nil
		}

		latest, newer, err := version.NewChecker().Check(cmd.Context(), appVersion)
		if err != nil {
			return fmt.Errorf("failed to check for updates: %w", err)
		}
		if newer {
			fmt.Fprintf(out, "mdpad %s is available: %s\n", latest.Version, latest.URL)
		} else {
			fmt.Fprintln(out, "You are running the latest version")
		}
		return nil
	},
}

// Flags for the root command
var (
	flagPreviewAddr string
	flagTheme       string
)

// Flags for subcommands
var (
	flagRenderExport bool
	flagRenderStyle  string

	flagExportOutput string

	flagStatsQuery  string
	flagStatsFormat string

	flagServeAddr     string
	flagServeInterval = cli.DefaultWatchInterval

	flagKeybindsExport bool
	flagKeybindsForce  bool

	flagRecentPrint bool
	flagRecentPrune bool
	flagRecentClear bool

	flagVersionCheck bool
)

func init() {
	// Root command flags
	rootCmd.Flags().StringVar(&flagPreviewAddr, "preview-addr", "", "Serve the live preview to browsers at this address (e.g. localhost:8787)")
	rootCmd.Flags().StringVarP(&flagTheme, "theme", "t", "", "Theme id to start with (see 'mdpad themes')")

	// render flags
	renderCmd.Flags().BoolVar(&flagRenderExport, "export", false, "Render plain HTML as written by export (no highlighting classes)")
	renderCmd.Flags().StringVar(&flagRenderStyle, "style", "", "Chroma style for code highlighting")

	// export flags
	exportCmd.Flags().StringVarP(&flagExportOutput, "output", "o", "", "Output file path (default: next to the source)")

	// stats flags
	statsCmd.Flags().StringVarP(&flagStatsQuery, "query", "q", "", "JMESPath expression applied to the statistics")
	statsCmd.Flags().StringVarP(&flagStatsFormat, "format", "f", "json", "Output format (json/yaml/text)")

	// serve flags
	serveCmd.Flags().StringVarP(&flagServeAddr, "addr", "a", "", "Listen address (default: settings preview_addr or localhost:8787)")
	serveCmd.Flags().DurationVar(&flagServeInterval, "interval", cli.DefaultWatchInterval, "How often to check the file for changes")

	// keybinds flags
	keybindsCmd.Flags().BoolVar(&flagKeybindsExport, "export", false, "Write the default keybindings to keybinds.json")
	keybindsCmd.Flags().BoolVar(&flagKeybindsForce, "force", false, "Overwrite an existing keybinds.json with --export")
	keybindsCmd.Flags().Bool("validate", true, "Validate keybinds.json (default action)")

	// recent flags
	recentCmd.Flags().BoolVarP(&flagRecentPrint, "print", "p", false, "Print recent files instead of picking one")
	recentCmd.Flags().BoolVar(&flagRecentPrune, "prune", false, "Forget files that no longer exist")
	recentCmd.Flags().BoolVar(&flagRecentClear, "clear", false, "Forget all recent files")
	recentCmd.MarkFlagsMutuallyExclusive("print", "prune", "clear")

	// version flags
	versionCmd.Flags().BoolVar(&flagVersionCheck, "check", false, "Check GitHub for a newer release")

	// Add subcommands
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(countCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(themesCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(keybindsCmd)
	rootCmd.AddCommand(recentCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup creates the configuration directory and starts the file log
func setup() error {
	if err := config.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	settings := loadSettings()
	if err := logging.Configure(config.LogFile, settings.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}
	return nil
}

// loadSettings reads settings.yaml, falling back to defaults on errors
func loadSettings() config.Settings {
	settings, err := config.LoadSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
	}
	return settings
}

// loadThemes returns the theme catalog with the user's themes.yaml merged in
func loadThemes() *theme.Registry {
	registry, warnings := theme.Load(config.ThemesFile)
	for _, w := range warnings {
		logging.Error("skipped theme", w)
		fmt.Fprintf(os.Stderr, "Warning: %v\n", w)
	}
	return registry
}

// runTUI starts the interactive editor
func runTUI(cmd *cobra.Command, filePath string) error {
	settings := loadSettings()
	if flagPreviewAddr != "" {
		settings.PreviewAddr = flagPreviewAddr
	}
	if flagTheme != "" {
		settings.Theme = flagTheme
	}

	registry := loadThemes()

	binds, err := keybinds.LoadOrDefault(config.KeybindsFile)
	if err != nil {
		return fmt.Errorf("%w (run 'mdpad keybinds' for details)", err)
	}

	sessionMgr := session.NewManager()
	if err := sessionMgr.Load(); err != nil {
		logging.Error("failed to load session", err)
	}
	if flagTheme != "" {
		// An explicit theme wins over the one remembered in the session
		if err := sessionMgr.SetTheme(registry.Lookup(flagTheme).ID); err != nil {
			logging.Error("failed to save session", err)
		}
	}

	var recent *history.Manager
	if sessionMgr.IsHistoryEnabled() {
		recent = cli.OpenHistory(settings)
	}

	logging.L().Info("starting editor", "version", appVersion, "file", filePath)
	return tui.Run(tui.Options{
		Settings: settings,
		Session:  sessionMgr,
		Themes:   registry,
		Keybinds: binds,
		History:  recent,
		FilePath: filePath,
	})
}
