package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/codebuddy/internal/config"
	"github.com/mvp-joe/codebuddy/internal/runner"
	"github.com/mvp-joe/codebuddy/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Watch for changes and re-extract",
	Long: `Watch performs an initial extraction over the given path (default:
current directory), then watches the tree and re-extracts changed
files as they are saved. Diagnostics are printed per change batch.
Stop with Ctrl+C.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	cfg, err := config.LoadConfigFromDir(root)
	if err != nil {
		return err
	}

	r, err := runner.New(cfg, runner.WithProgress(NewCLIProgressReporter(false)))
	if err != nil {
		return err
	}
	defer r.Close()

	if _, err := r.Run(cmd.Context(), root); err != nil {
		return err
	}

	w, err := watcher.New(root, []string{".py"})
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Stop()

	err = w.Start(cmd.Context(), func(files []string) {
		for _, file := range files {
			if _, statErr := os.Stat(file); statErr != nil {
				fmt.Printf("− %s removed\n", file)
				continue
			}
			unit, exErr := r.ExtractFile(file)
			if exErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", exErr)
				continue
			}
			fmt.Printf("✓ %s re-extracted (%d diagnostics)\n", file, len(unit.Diagnostics))
			for _, diag := range unit.Diagnostics {
				fmt.Printf("  %s: %s (line %d)\n", diag.Severity, diag.Message, diag.Span.StartLine)
			}
		}
	})
	if err != nil {
		return err
	}

	fmt.Printf("Watching %s for changes (Ctrl+C to stop)...\n", root)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
	case <-cmd.Context().Done():
	}

	fmt.Println("\nStopping watcher...")
	return nil
}
