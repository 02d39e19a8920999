package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/codebuddy/internal/config"
	"github.com/mvp-joe/codebuddy/internal/runner"
)

var (
	extractOutput  string
	extractFormat  string
	extractQuiet   bool
	extractWorkers int
)

var extractCmd = &cobra.Command{
	Use:   "extract [path]",
	Short: "Extract symbol trees from source files",
	Long: `Extract discovers source files under the given path (default: current
directory), runs the extraction pipeline on each, and prints the
resulting symbol trees. With --output, one JSON file per unit is
written instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "directory to write per-unit JSON files")
	extractCmd.Flags().StringVar(&extractFormat, "format", "", "output format: json or text (default from config)")
	extractCmd.Flags().BoolVarP(&extractQuiet, "quiet", "q", false, "suppress progress output")
	extractCmd.Flags().IntVar(&extractWorkers, "workers", 0, "parallel extraction workers (0 = auto)")
}

func runExtract(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	cfg, err := config.LoadConfigFromDir(root)
	if err != nil {
		return err
	}
	if extractWorkers > 0 {
		cfg.Extract.Workers = extractWorkers
	}
	format := cfg.Output.Format
	if extractFormat != "" {
		format = strings.ToLower(extractFormat)
	}

	progress := NewCLIProgressReporter(extractQuiet)
	r, err := runner.New(cfg, runner.WithProgress(progress))
	if err != nil {
		return err
	}
	defer r.Close()

	result, err := r.Run(cmd.Context(), root)
	if err != nil {
		return err
	}

	if extractOutput != "" {
		return writeUnits(result, extractOutput, cfg.Output.Pretty)
	}

	switch format {
	case "text":
		for _, unit := range result.Units {
			fmt.Fprint(cmd.OutOrStdout(), renderText(unit))
		}
		return nil
	default:
		return printJSON(cmd.OutOrStdout(), result, cfg.Output.Pretty)
	}
}

// writeUnits writes one JSON file per source unit under dir, mirroring
// the unit's relative path.
func writeUnits(result *runner.Result, dir string, pretty bool) error {
	for _, unit := range result.Units {
		outPath := filepath.Join(dir, filepath.FromSlash(unit.Path)+".json")
		if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", outPath, err)
		}
		if err := printJSON(f, unit, pretty); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}

func printJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
