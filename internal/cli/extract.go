package cli

import (
	"fmt"
	"strings"

	"resumatch/internal/common"
	"resumatch/internal/extract"
	"resumatch/internal/textnorm"

	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract [document-file]",
	Short: "Extract normalized plain text from a resume document",
	Long: `Extract the text content of a PDF, DOCX or plain text document and
normalize its whitespace and section headers. The output is the exact text
the match command feeds into the analysis.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

var extractOutputFile string

func init() {
	extractCmd.Flags().StringVarP(&extractOutputFile, "output", "o", "", "Output file path (default: stdout)")
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	extractor := extract.NewExtractor(cfg.App.MaxFileSize, logger)
	text, err := extractor.ExtractFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to extract document: %w", err)
	}

	if !textnorm.IsPlausibleResume(text) {
		logger.Warn("Extracted text does not look like a resume",
			"file", args[0],
			"chars", len(text))
	}

	if extractOutputFile != "" {
		fileProcessor := common.NewFileProcessor(logger)
		if err := fileProcessor.WriteFile(extractOutputFile, text); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		logger.Info("Extracted text written", "file", extractOutputFile, "chars", len(text))
		return nil
	}

	fmt.Println(strings.TrimRight(text, "\n"))
	return nil
}
