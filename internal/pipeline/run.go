// Package pipeline provides the high-level orchestration for a single
// lead-capture run: scrape, enhance, format, review, publish.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/google/uuid"

	"github.com/jonathan/linktolead/internal/config"
	"github.com/jonathan/linktolead/internal/enhance"
	"github.com/jonathan/linktolead/internal/format"
	"github.com/jonathan/linktolead/internal/hubspot"
	"github.com/jonathan/linktolead/internal/llm"
	"github.com/jonathan/linktolead/internal/observability"
	"github.com/jonathan/linktolead/internal/platform"
	"github.com/jonathan/linktolead/internal/review"
	"github.com/jonathan/linktolead/internal/scrape"
	"github.com/jonathan/linktolead/internal/session"
	"github.com/jonathan/linktolead/internal/types"
)

// totalSteps is the number of top-level pipeline steps printed to the
// operator.
const totalSteps = 6

// RunOptions holds everything a single run needs beyond the loaded config.
type RunOptions struct {
	Config     *config.Config
	JobURL     string
	CompanyURL string

	// Debug dumps rendered pages and enables verbose logging.
	Debug bool
	// OutputPath, when set, receives the pre-review payload as JSON.
	OutputPath string
	// NoPublish stops the run after review approval.
	NoPublish bool

	// In/Out default to the process stdin/stdout; tests script them.
	In  io.Reader
	Out io.Writer
	// Editor defaults to the interactive terminal editor.
	Editor review.EditorFunc
}

// Result is the outcome of a run. Aborted runs are intentional operator
// decisions, not failures.
type Result struct {
	Aborted   bool
	Payload   *types.Payload
	Published *types.PublishResult
}

// Run executes the pipeline end to end. Steps run strictly in order; each
// step's output is the next step's input.
func Run(ctx context.Context, opts RunOptions) (*Result, error) {
	cfg := opts.Config
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Editor == nil {
		opts.Editor = review.DefaultEditor
	}

	runID := uuid.New().String()[:8]
	printer := observability.NewPrinter(opts.Out)

	// Step 1: source platform and browser session.
	fmt.Fprintf(opts.Out, "Step 1/%d: Starting %s session (run %s)...\n", totalSteps, cfg.Platform.Source.Type, runID)
	source, closeSource, err := resolveSource(ctx, cfg, opts.Debug, runID)
	if err != nil {
		return nil, err
	}
	defer closeSource()

	// Step 2: job posting.
	fmt.Fprintf(opts.Out, "Step 2/%d: Scraping job posting %s...\n", totalSteps, opts.JobURL)
	job, err := source.ExtractJob(ctx, opts.JobURL)
	if err != nil {
		return nil, err
	}
	printer.PrintJobRecord(job)

	// Step 3: company profile.
	fmt.Fprintf(opts.Out, "Step 3/%d: Scraping company page %s...\n", totalSteps, opts.CompanyURL)
	company, err := source.ExtractCompany(ctx, opts.CompanyURL)
	if err != nil {
		return nil, err
	}
	printer.PrintCompanyRecord(company)

	// The browser is no longer needed once both pages are scraped.
	closeSource()

	// Step 4: optional LLM cleanup. Failures here never kill the run.
	if cfg.LLMEnabled {
		fmt.Fprintf(opts.Out, "Step 4/%d: Cleaning fields with %s...\n", totalSteps, cfg.LLMModelID)
		job, company = enhanceRecords(ctx, cfg, opts.Debug, job, company)
	} else {
		fmt.Fprintf(opts.Out, "Step 4/%d: LLM processing disabled, skipping...\n", totalSteps)
	}

	// Step 5: format and review.
	fmt.Fprintf(opts.Out, "Step 5/%d: Formatting payload...\n", totalSteps)
	payload, err := format.Build(job, company, cfg.Defaults)
	if err != nil {
		return nil, err
	}

	if opts.OutputPath != "" {
		if err := writePayload(opts.OutputPath, payload); err != nil {
			return nil, err
		}
		fmt.Fprintf(opts.Out, "Wrote payload to %s\n", opts.OutputPath)
	}

	reviewer := review.New(opts.In, opts.Out, opts.Editor, format.Validate)
	outcome, approved, err := reviewer.Run(payload)
	if err != nil {
		return nil, err
	}
	if outcome == review.OutcomeAborted {
		return &Result{Aborted: true}, nil
	}

	if opts.NoPublish {
		fmt.Fprintf(opts.Out, "Step 6/%d: Skipping publish (--no-publish)\n", totalSteps)
		return &Result{Payload: approved}, nil
	}

	// Step 6: publish.
	fmt.Fprintf(opts.Out, "Step 6/%d: Publishing to %s...\n", totalSteps, cfg.Platform.Destination.Type)
	destination, err := resolveDestination(cfg)
	if err != nil {
		return nil, err
	}
	published, err := destination.Publish(ctx, approved)
	if err != nil {
		return nil, err
	}
	printer.PrintResult(published)

	return &Result{Payload: approved, Published: published}, nil
}

// resolveSource returns the configured source platform, constructing and
// registering the LinkedIn implementation on first use. The returned cleanup
// is safe to call more than once.
func resolveSource(ctx context.Context, cfg *config.Config, debug bool, runID string) (platform.Source, func(), error) {
	noop := func() {}

	if source, err := platform.LookupSource(cfg.Platform.Source.Type); err == nil {
		return source, noop, nil
	}
	if cfg.Platform.Source.Type != "linkedin" {
		_, err := platform.LookupSource(cfg.Platform.Source.Type)
		return nil, nil, err
	}

	store := session.NewStateStore(cfg.StatePath)
	manager := session.NewManager(
		session.Credentials{Email: cfg.LinkedInEmail, Password: cfg.LinkedInPassword},
		store, cfg.Headless, debug,
	)
	fetcher, err := manager.Acquire(ctx)
	if err != nil {
		return nil, nil, err
	}

	platform.RegisterSource("linkedin", scrape.NewLinkedIn(fetcher, debug, runID, debug))
	source, err := platform.LookupSource(cfg.Platform.Source.Type)
	if err != nil {
		fetcher.Close()
		return nil, nil, err
	}

	closed := false
	return source, func() {
		if !closed {
			closed = true
			fetcher.Close()
		}
	}, nil
}

// resolveDestination returns the configured destination, constructing and
// registering the HubSpot client on first use.
func resolveDestination(cfg *config.Config) (platform.Destination, error) {
	if destination, err := platform.LookupDestination(cfg.Platform.Destination.Type); err == nil {
		return destination, nil
	}
	if cfg.Platform.Destination.Type != "hubspot" {
		return platform.LookupDestination(cfg.Platform.Destination.Type)
	}

	client, err := hubspot.New(cfg.HubSpotAPIKey, &hubspot.Options{
		APIVersion: cfg.Platform.Destination.APIVersion,
	})
	if err != nil {
		return nil, err
	}
	platform.RegisterDestination("hubspot", client)
	return client, nil
}

// enhanceRecords runs the LLM cleanup pass. Any failure falls back to the
// scraped records unchanged.
func enhanceRecords(ctx context.Context, cfg *config.Config, verbose bool, job *types.JobRecord, company *types.CompanyRecord) (*types.JobRecord, *types.CompanyRecord) {
	if cfg.GeminiAPIKey == "" {
		log.Printf("warning: llm_enabled is set but GEMINI_API_KEY is not, skipping LLM processing")
		return job, company
	}

	client, err := llm.NewClient(ctx, cfg.LLMMethod, cfg.LLMModelID, cfg.GeminiAPIKey)
	if err != nil {
		log.Printf("warning: failed to create LLM client, skipping LLM processing: %v", err)
		return job, company
	}
	defer client.Close()

	enhancer := enhance.New(client, verbose)
	return enhancer.EnhanceJob(ctx, job), enhancer.EnhanceCompany(ctx, company)
}

// writePayload writes the pre-review payload as indented JSON.
func writePayload(path string, payload *types.Payload) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write payload to %s: %w", path, err)
	}
	return nil
}
