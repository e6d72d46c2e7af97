package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fatih/color"

	"github.com/AndreyBuyanov/ExpertSystem"
	"github.com/AndreyBuyanov/ExpertSystem/internal/validator"
)

// DefaultValidatePattern matches every supported configuration under the working directory.
const DefaultValidatePattern = "**/*.{xml,yaml,yml,json}"

// ErrValidation is returned by ValidateFiles when any file is rejected.
var ErrValidation = errors.New("validation failed")

var (
	okMark   = color.New(color.FgGreen, color.Bold).SprintFunc()
	failMark = color.New(color.FgRed, color.Bold).SprintFunc()
	warnMark = color.New(color.FgYellow).SprintFunc()
)

// ValidateFiles expands the glob patterns and checks every matching configuration.
// Warnings are printed and only fail the run when failOnWarning is set.
func ValidateFiles(ctx context.Context, patterns []string, failOnWarning bool, out io.Writer, logger *slog.Logger) error {
	var files []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		files = append(files, matches...)
	}
	slices.Sort(files)
	files = slices.Compact(files)
	if len(files) == 0 {
		return fmt.Errorf("no configuration matches %v", patterns)
	}

	loader := expertsystem.NewFileLoader(logger)
	failed := 0
	for _, path := range files {
		def, err := loader.Load(ctx, path)
		if err != nil {
			fmt.Fprintf(out, "%s %s\n    %v\n", failMark("✘"), path, err)
			failed++
			continue
		}

		report := validator.Validate(def)
		bad := report.HasErrors() || (failOnWarning && len(report.Findings) > 0)
		if bad {
			fmt.Fprintf(out, "%s %s (%s)\n", failMark("✘"), path, def.Name)
			failed++
		} else {
			fmt.Fprintf(out, "%s %s (%s)\n", okMark("✔"), path, def.Name)
		}
		for _, f := range report.Findings {
			mark := warnMark
			if f.Severity == validator.SeverityError {
				mark = failMark
			}
			fmt.Fprintf(out, "    %s\n", mark(f.String()))
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d files", ErrValidation, failed, len(files))
	}
	return nil
}
