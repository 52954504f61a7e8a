package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/ankurk/repolens/analyzer"
	"github.com/ankurk/repolens/constants/lipgloss"
	"github.com/ankurk/repolens/utils"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [repository]",
	Short: "Analyze a repository and generate a technical report.",
	Long: `The 'analyze' subcommand runs the full analysis pipeline against a
repository given as a local path or a cloneable URL. Source files are
scanned, prioritized, and grouped into chunks; each chunk and each report
section is produced through the configured model provider. The final report
and a JSON summary are written under the output directory.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rootDependencies := handleRootCommand(cmd)
		if rootDependencies == nil {
			os.Exit(1)
		}
		handleAnalyzeCommand(cmd, args, rootDependencies)
	},
}

func init() {
	analyzeCmd.Flags().String("repo", "", "Repository path or URL (alternative to the positional argument).")
	analyzeCmd.Flags().String("branch", "", "Branch to check out before analysis.")
	analyzeCmd.Flags().String("mode", analyzer.ModeAudit, "Report mode: 'audit' or 'explanation'.")
	analyzeCmd.Flags().String("human-context", "", "Developer-provided context woven into explanation reports.")
	analyzeCmd.Flags().Bool("preview", false, "Print the generated report to the terminal with syntax highlighting.")

	rootCmd.AddCommand(analyzeCmd)
}

func handleAnalyzeCommand(cmd *cobra.Command, args []string, rootDependencies *RootDependencies) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	repoPath, _ := cmd.Flags().GetString("repo")
	if len(args) > 0 {
		repoPath = args[0]
	}
	if repoPath == "" {
		repoPath = rootDependencies.Cwd
	}

	branch, _ := cmd.Flags().GetString("branch")
	mode, _ := cmd.Flags().GetString("mode")
	humanContext, _ := cmd.Flags().GetString("human-context")
	preview, _ := cmd.Flags().GetBool("preview")

	defer rootDependencies.Analyzer.Cleanup()

	result, err := rootDependencies.Analyzer.Analyze(ctx, analyzer.Options{
		RepoPath:     repoPath,
		Branch:       branch,
		Mode:         mode,
		HumanContext: humanContext,
	})
	if err != nil {
		if ctx.Err() != nil {
			fmt.Println(lipgloss.Yellow.Render("\nAnalysis cancelled."))
			return
		}
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		os.Exit(1)
	}

	reportPath, err := rootDependencies.Reports.Save(result)
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error writing report: %v", err)))
		os.Exit(1)
	}

	pterm.Success.Printf("Report written to %s\n", reportPath)

	if preview {
		content, err := os.ReadFile(reportPath)
		if err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error reading report for preview: %v", err)))
		} else {
			utils.PrintMarkdownPreview(string(content), rootDependencies.Config.Theme)
		}
	}

	rootDependencies.TokenManagement.DisplayUsage(
		rootDependencies.Config.AIProviderConfig.Provider,
		rootDependencies.Config.AIProviderConfig.Model,
	)
}
