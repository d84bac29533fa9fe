package cli

import (
	"context"
	"fmt"

	"resumatch/internal/common"
	"resumatch/internal/formatters"
	"resumatch/internal/jobpost"
	"resumatch/internal/types"

	"github.com/spf13/cobra"
)

var parseJobCmd = &cobra.Command{
	Use:   "parse-job [job-file]",
	Short: "Parse a job description into structured fields",
	Long: `Parse a job description file into its structured components: title,
requirements, technical and soft skills, experience level and key
responsibilities. Useful for inspecting what the matcher sees before
running a full analysis.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return err
		}
		if parseJobConfig.OutputFormat == "" {
			parseJobConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(parseJobConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runParseJob,
}

var parseJobConfig common.CommandConfig

func init() {
	parseJobCmd.Flags().StringVarP(&parseJobConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	parseJobCmd.Flags().StringVar(&parseJobConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
}

func runParseJob(cmd *cobra.Command, args []string) error {
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	fileProcessor := common.NewFileProcessor(logger)
	jobText, err := fileProcessor.ReadTextFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read job description: %w", err)
	}

	err = common.RunCommand(
		cmd.Context(),
		logger,
		formatters.NewFormatterRegistry(),
		parseJobConfig,
		func(ctx context.Context) (*types.JobPosting, error) {
			return jobpost.Parse(jobText)
		},
	)
	if err != nil {
		return fmt.Errorf("failed to parse job description: %w", err)
	}

	return nil
}
