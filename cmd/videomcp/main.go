// videomcp is an MCP server exposing video processing (FFmpeg),
// YouTube download (yt-dlp), and optional AI analysis (Groq) as tools
// for an agent host over stdio.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"videomcp/internal/catalog"
	"videomcp/internal/config"
	"videomcp/internal/logging"
	"videomcp/internal/mcp"
	"videomcp/internal/tools"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command. Running without arguments
// starts the stdio server, matching how MCP hosts launch it.
var rootCmd = &cobra.Command{
	Use:   "videomcp",
	Short: "videomcp - video processing tools over MCP",
	Long: `videomcp is an MCP (Model Context Protocol) server exposing video
tools to an agent host over stdio.

Without GROQ_API_KEY: video metadata, frame extraction, audio
extraction, splitting, and YouTube download tools.
With GROQ_API_KEY: additionally AI analysis, summarization, and
transcription backed by the Groq inference API.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Stdout carries JSON-RPC; zap goes to stderr.
		zcfg := zap.NewProductionConfig()
		zcfg.OutputPaths = []string{"stderr"}
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.Close()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd, args)
	},
}

// serveCmd runs the stdio server explicitly.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve tools over stdio (default)",
	RunE:  runServe,
}

// toolsCmd prints the advertised tool list for operators.
var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools this server would advertise",
	RunE:  runTools,
}

// versionCmd prints the server version.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		fmt.Printf("%s %s\n", cfg.Name, cfg.Version)
		return nil
	},
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if err := logging.Initialize(cfg.Output.Dir, cfg.Logging.DebugMode, cfg.Logging.Level); err != nil {
		logger.Warn("file logging disabled", zap.Error(err))
	}

	registry, err := catalog.Build(cfg)
	if err != nil {
		return fmt.Errorf("failed to build tool catalog: %w", err)
	}

	if cfg.AIEnabled() {
		logger.Info("starting with AI capabilities",
			zap.Int("tools", registry.Count()))
	} else {
		logger.Info("starting in FFmpeg-only mode; set GROQ_API_KEY for AI features",
			zap.Int("tools", registry.Count()))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := mcp.NewServer(cfg.Name, cfg.Version, registry)
	return server.Serve(ctx, os.Stdin, os.Stdout)
}

var (
	categoryStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	nameStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	gatedStyle    = lipgloss.NewStyle().Faint(true)
)

func runTools(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	registry, err := catalog.Build(cfg)
	if err != nil {
		return err
	}

	categories := []struct {
		category tools.ToolCategory
		title    string
	}{
		{tools.CategoryVideo, "Video (FFmpeg)"},
		{tools.CategoryYouTube, "YouTube (yt-dlp)"},
		{tools.CategoryAI, "AI (Groq)"},
	}

	for _, c := range categories {
		entries := registry.GetByCategory(c.category)
		if len(entries) == 0 {
			if c.category == tools.CategoryAI {
				fmt.Println(categoryStyle.Render(c.title))
				fmt.Println(gatedStyle.Render("  (disabled: set GROQ_API_KEY to enable)"))
				fmt.Println()
			}
			continue
		}

		fmt.Println(categoryStyle.Render(c.title))
		for _, t := range entries {
			fmt.Printf("  %s  %s\n", nameStyle.Render(t.Name), t.Description)
		}
		fmt.Println()
	}

	fmt.Printf("%d tools advertised\n", registry.Count())
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging on stderr")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default ~/.videomcp/config.yaml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
