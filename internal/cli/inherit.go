package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/codebuddy/internal/config"
	"github.com/mvp-joe/codebuddy/internal/inherit"
	"github.com/mvp-joe/codebuddy/internal/runner"
)

var (
	inheritOp    string
	inheritDepth int
	inheritJSON  bool
)

var inheritCmd = &cobra.Command{
	Use:   "inherit <class> [path]",
	Short: "Query the inheritance graph",
	Long: `Inherit extracts all source files under the given path (default:
current directory), builds the inheritance graph, and answers a query
about one class: its bases or its subclasses, transitively up to
--depth levels.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runInherit,
}

func init() {
	rootCmd.AddCommand(inheritCmd)

	inheritCmd.Flags().StringVar(&inheritOp, "op", string(inherit.OpBases), "query direction: bases or subclasses")
	inheritCmd.Flags().IntVar(&inheritDepth, "depth", inherit.DefaultDepth, "traversal depth (max 10)")
	inheritCmd.Flags().BoolVar(&inheritJSON, "json", false, "print results as JSON")
}

func runInherit(cmd *cobra.Command, args []string) error {
	target := args[0]
	root := "."
	if len(args) > 1 {
		root = args[1]
	}

	cfg, err := config.LoadConfigFromDir(root)
	if err != nil {
		return err
	}

	r, err := runner.New(cfg)
	if err != nil {
		return err
	}
	defer r.Close()

	result, err := r.Run(cmd.Context(), root)
	if err != nil {
		return err
	}

	searcher := inherit.NewSearcher(inherit.ResolveAll(result.Units))
	op := inherit.QueryOp(inheritOp)

	// Base names are never validated for existence, so an opaque base
	// (external or unresolved) is a legal subclasses target.
	if !searcher.Known(target) && !(op == inherit.OpSubclasses && searcher.KnownBase(target)) {
		return fmt.Errorf("class %q not found in %s", target, root)
	}

	results, err := searcher.Query(inherit.QueryRequest{
		Op:     op,
		Target: target,
		Depth:  inheritDepth,
	})
	if err != nil {
		return err
	}

	if inheritJSON {
		return printJSON(cmd.OutOrStdout(), results, cfg.Output.Pretty)
	}

	if len(results) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "no %s for %s\n", inheritOp, target)
		return nil
	}
	for _, res := range results {
		fmt.Fprintf(cmd.OutOrStdout(), "%s (depth %d)\n", res.Name, res.Depth)
	}
	return nil
}
