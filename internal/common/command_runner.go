package common

import (
	"context"

	"resumatch/internal/errors"
	"resumatch/internal/formatters"
)

// OperationFunc produces the command's result. The operation owns its own
// input reading so commands with different ingestion paths (plain text vs
// document extraction) share the same output plumbing.
type OperationFunc[Output any] func(ctx context.Context) (Output, error)

// RunCommand encapsulates the common logic for CLI commands: run the
// operation, then format and write its result per the command config.
func RunCommand[Output any](
	ctx context.Context,
	logger *errors.Logger,
	registry *formatters.FormatterRegistry,
	cmdConfig CommandConfig,
	operation OperationFunc[Output],
) error {
	outputHandler := NewOutputHandler(registry, logger)

	result, err := operation(ctx)
	if err != nil {
		return err
	}

	return outputHandler.HandleOutput(result, cmdConfig)
}
