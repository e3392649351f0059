package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/linktolead/internal/config"
	"github.com/jonathan/linktolead/internal/pipeline"
)

var runCommand = &cobra.Command{
	Use:   "run <job-url> <company-url>",
	Short: "Scrape one job posting and company page and publish them as a lead",
	Long: `Runs the full pipeline: scrape the job posting and company page in an
authenticated browser session, optionally clean the fields with an LLM,
format them into a HubSpot Company and Deal, review interactively, publish.

Configuration is read from .linktolead.yaml (or --config). Command-line
flags override config file values. Credentials come from the environment
only: HUBSPOT_API_KEY, LINKEDIN_EMAIL, LINKEDIN_PASSWORD, GEMINI_API_KEY.`,
	Args: cobra.ExactArgs(2),
	RunE: runPipelineCmd,
}

var (
	runConfigPath string
	runHeadless   bool
	runNoHeadless bool
	runDebug      bool
	runLLM        bool
	runNoLLM      bool
	runOutput     string
	runNoPublish  bool
	runStatePath  string
)

func init() {
	runCommand.Flags().StringVar(&runConfigPath, "config", "", "Path to YAML config file (default .linktolead.yaml)")
	runCommand.Flags().BoolVar(&runHeadless, "headless", true, "Run the browser headless")
	runCommand.Flags().BoolVar(&runNoHeadless, "no-headless", false, "Show the browser window (useful for login checkpoints)")
	runCommand.Flags().BoolVar(&runDebug, "debug", false, "Dump rendered pages to HTML files and log verbosely")
	runCommand.Flags().BoolVar(&runLLM, "llm", false, "Enable LLM field cleanup")
	runCommand.Flags().BoolVar(&runNoLLM, "no-llm", false, "Disable LLM field cleanup")
	runCommand.Flags().StringVarP(&runOutput, "output", "o", "", "Write the pre-review payload to a JSON file")
	runCommand.Flags().BoolVar(&runNoPublish, "no-publish", false, "Stop after review without publishing")
	runCommand.Flags().StringVar(&runStatePath, "state", "", "Path to the browser session state file")

	rootCmd.AddCommand(runCommand)
}

func runPipelineCmd(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(runConfigPath)
	if err != nil {
		return err
	}
	cfg.ApplyEnv()

	// Flags override config file values only when explicitly set.
	if cmd.Flags().Changed("headless") {
		cfg.Headless = runHeadless
	}
	if runNoHeadless {
		cfg.Headless = false
	}
	if runLLM {
		cfg.LLMEnabled = true
	}
	if runNoLLM {
		cfg.LLMEnabled = false
	}
	if cmd.Flags().Changed("state") {
		cfg.StatePath = runStatePath
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	result, err := pipeline.Run(cmd.Context(), pipeline.RunOptions{
		Config:     cfg,
		JobURL:     args[0],
		CompanyURL: args[1],
		Debug:      runDebug,
		OutputPath: runOutput,
		NoPublish:  runNoPublish,
	})
	if err != nil {
		return err
	}

	// An operator abort is an intentional outcome, not a failure.
	if result.Aborted {
		return nil
	}
	if result.Published == nil {
		fmt.Println("Done (nothing published).")
	}
	return nil
}
