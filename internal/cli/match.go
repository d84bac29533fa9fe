package cli

import (
	"context"
	"fmt"

	"resumatch/internal/common"
	"resumatch/internal/extract"
	"resumatch/internal/formatters"
	"resumatch/internal/jobpost"
	"resumatch/internal/match"
	"resumatch/internal/reasoning"
	"resumatch/internal/types"

	"github.com/spf13/cobra"
)

var matchCmd = &cobra.Command{
	Use:   "match [resume-file] [job-file]",
	Short: "Score a resume against a job description",
	Long: `Analyze how well a resume matches a job description.
The command takes two arguments: the path to the resume (PDF, DOCX, TXT or MD)
and the path to the job description file in plain text. It produces a
compatibility score, matching and missing skills, prioritized skill gaps and
concrete improvement suggestions.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return err
		}
		// Apply default format if not specified
		if matchConfig.OutputFormat == "" {
			matchConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(matchConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runMatch,
}

var matchConfig common.CommandConfig

func init() {
	matchCmd.Flags().StringVarP(&matchConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	matchCmd.Flags().StringVar(&matchConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	// Add completion for format flag
	_ = matchCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return cfg.App.SupportedFormats, cobra.ShellCompDirectiveNoFileComp
	})
}

func runMatch(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	extractor := extract.NewExtractor(cfg.App.MaxFileSize, logger)
	resumeText, err := extractor.ExtractResume(args[0])
	if err != nil {
		return fmt.Errorf("failed to read resume: %w", err)
	}

	fileProcessor := common.NewFileProcessor(logger)
	jobText, err := fileProcessor.ReadTextFile(args[1])
	if err != nil {
		return fmt.Errorf("failed to read job description: %w", err)
	}

	job, err := jobpost.Parse(jobText)
	if err != nil {
		return fmt.Errorf("failed to parse job description: %w", err)
	}

	service, err := reasoning.NewService(&cfg.Reasoning, logger)
	if err != nil {
		return fmt.Errorf("failed to create reasoning service: %w", err)
	}
	defer func() {
		if err := service.Close(); err != nil {
			logger.Warn("Failed to close reasoning service", "error", err)
		}
	}()

	analyzer := match.NewAnalyzer(service, logger)

	logger.Info("Starting compatibility analysis",
		"resume_chars", len(resumeText),
		"job_title", job.Title,
		"output_format", matchConfig.OutputFormat)

	err = common.RunCommand(
		cmd.Context(),
		logger,
		formatters.NewFormatterRegistry(),
		matchConfig,
		func(ctx context.Context) (types.AnalysisResult, error) {
			return analyzer.AnalyzeMatch(ctx, resumeText, job), nil
		},
	)
	if err != nil {
		return fmt.Errorf("failed to analyze match: %w", err)
	}

	logger.Info("Compatibility analysis completed")
	return nil
}
