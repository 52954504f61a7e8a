package cmd

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/ankurk/repolens/analyzer"
	"github.com/ankurk/repolens/config"
	"github.com/ankurk/repolens/constants/lipgloss"
	"github.com/ankurk/repolens/output"
	"github.com/ankurk/repolens/providers"
	"github.com/ankurk/repolens/providers/contracts"
	"github.com/ankurk/repolens/ratelimit"
	"github.com/ankurk/repolens/token_management"
	tokenContracts "github.com/ankurk/repolens/token_management/contracts"
)

const version = "1.0.0"

// RootDependencies holds the wired components shared by all subcommands.
type RootDependencies struct {
	Cwd             string
	Config          *config.Config
	TokenManagement tokenContracts.Tracker
	ChatProvider    contracts.ChatProvider
	Limiters        *ratelimit.Registry
	Cache           *analyzer.AnalysisCache
	Analyzer        *analyzer.RepositoryAnalyzer
	Reports         *output.ReportGenerator
}

var rootCmd = &cobra.Command{
	Use:   "repolens",
	Short: "Generate technical analysis reports for code repositories.",
	Long: `repolens scans a local or remote repository, selects and compresses its
source files, and produces a multi-section technical report together with a
JSON summary. Reports can target a technical audit or a developer-oriented
explanation of the codebase.`,
	Run: func(cmd *cobra.Command, args []string) {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Printf("repolens version %s\n", version)
			return
		}
		_ = cmd.Help()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		os.Exit(1)
	}
}

func init() {
	config.InitFlags(rootCmd)
}

// handleRootCommand loads configuration and wires the full dependency graph.
// Returns nil after printing the error when wiring fails.
func handleRootCommand(cmd *cobra.Command) *RootDependencies {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error getting current directory: %v", err)))
		return nil
	}

	deps := &RootDependencies{Cwd: cwd}
	deps.Config = config.LoadConfigs(rootCmd, cwd)

	deps.TokenManagement = token_management.NewTracker()

	deps.ChatProvider, err = providers.ChatProviderFactory(deps.Config.AIProviderConfig, deps.TokenManagement)
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		return nil
	}

	deps.Limiters = ratelimit.NewRegistry(deps.Config.RateLimits)

	if deps.Config.EnableCache {
		deps.Cache, err = analyzer.NewAnalysisCache(deps.Config.CacheDir, deps.Config.CacheMaxAge)
		if err != nil {
			pterm.Warning.Printf("Analysis cache disabled: %v\n", err)
			deps.Cache = nil
		}
	}

	compressor := analyzer.NewCompressor(
		deps.Config.UseSmartCompression,
		deps.Config.MaxIndentationLevel,
		deps.Config.IndentationSpaces,
	)
	chunker := analyzer.NewChunkBuilder(
		compressor,
		deps.Config.MaxFileSize,
		deps.Config.ChunkLines,
		deps.Config.IncludeOutline,
	)

	deps.Analyzer = analyzer.NewRepositoryAnalyzer(
		deps.ChatProvider,
		deps.Limiters,
		deps.Cache,
		chunker,
		deps.Config.FilesPerChunk,
		deps.Config.ProcessingDelay,
	)

	deps.Reports = output.NewReportGenerator(deps.Config.OutputDir)

	return deps
}
