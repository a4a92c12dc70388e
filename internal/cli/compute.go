package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/dasha/internal/cache"
	"github.com/roach88/dasha/internal/engine"
	"github.com/roach88/dasha/internal/period"
)

// ComputeOptions holds flags for the compute command.
type ComputeOptions struct {
	*RootOptions
	System    string
	Body      string
	Start     string
	Years     string
	Levels    int
	CachePath string
}

// PeriodInfo is the recursive output payload for one period.
type PeriodInfo struct {
	Body        string       `json:"body"`
	Start       string       `json:"start"`
	End         string       `json:"end"`
	Years       string       `json:"years"`
	ChildSource string       `json:"child_source,omitempty"`
	Children    []PeriodInfo `json:"children,omitempty"`
}

// NewComputeCommand creates the compute command.
func NewComputeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ComputeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Subdivide a period into its child periods",
		Long: `Subdivide a parent period into its ordered child periods, one or more
levels deep. The child sequence begins with the parent's own body and
wraps cyclically through the system's canonical order; children are
contiguous and the last child ends exactly at the parent's end.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompute(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.System, "system", "vimshottari", "period system")
	cmd.Flags().StringVar(&opts.Body, "body", "", "parent period's body (required)")
	cmd.Flags().StringVar(&opts.Start, "start", "", "parent start instant, RFC 3339 (required)")
	cmd.Flags().StringVar(&opts.Years, "years", "", "parent duration in years, exact rational (required)")
	cmd.Flags().IntVar(&opts.Levels, "levels", 1, "nesting levels to compute")
	cmd.Flags().StringVar(&opts.CachePath, "cache", "", "path to a memo database (optional)")
	cmd.MarkFlagRequired("body")
	cmd.MarkFlagRequired("start")
	cmd.MarkFlagRequired("years")

	return cmd
}

func runCompute(opts *ComputeOptions, cmd *cobra.Command) error {
	formatter := NewOutputFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	reg, err := buildRegistry(opts.RootOptions, formatter)
	if err != nil {
		return err
	}

	parent, err := parseParent(opts)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid parent period", err)
	}

	eng := engine.New(reg)

	// Single-level computations consult the memo cache when one is
	// configured; deeper trees are always computed fresh.
	if opts.Levels == 1 && opts.CachePath != "" {
		return computeMemoized(opts, formatter, eng, parent)
	}

	root, err := eng.ComputeLevels(parent, opts.System, opts.Levels)
	if err != nil {
		return reportComputeError(formatter, err)
	}
	info := periodInfo(root)
	return formatter.SuccessText(info, func(w io.Writer) {
		renderPeriod(w, info, 0)
	})
}

// computeMemoized serves a single-level subdivision through the memo
// cache: hit returns the stored children, miss computes and stores.
func computeMemoized(opts *ComputeOptions, formatter *OutputFormatter, eng *engine.Engine, parent period.Period) error {
	c, err := cache.Open(opts.CachePath)
	if err != nil {
		return WrapExitError(ExitCommandError, "opening memo cache", err)
	}
	defer c.Close()

	ctx := context.Background()
	key := cache.Key{System: opts.System, Body: parent.Body, Start: parent.Start, Years: parent.Years}

	children, hit, err := c.Get(ctx, key)
	if err != nil {
		return WrapExitError(ExitCommandError, "reading memo cache", err)
	}
	if hit {
		formatter.VerboseLog("cache hit for %s/%s", opts.System, parent.Body)
	} else {
		children, err = eng.ComputeChildren(parent, opts.System)
		if err != nil {
			return reportComputeError(formatter, err)
		}
		if err := c.Put(ctx, key, children); err != nil {
			return WrapExitError(ExitCommandError, "writing memo cache", err)
		}
	}

	info := periodInfo(parent.WithChildren(period.Computed(children)))
	return formatter.SuccessText(info, func(w io.Writer) {
		renderPeriod(w, info, 0)
	})
}

// parseParent builds the parent Period from command flags. End is
// derived from start and years through the engine's fixed convention.
func parseParent(opts *ComputeOptions) (period.Period, error) {
	start, err := time.Parse(time.RFC3339, opts.Start)
	if err != nil {
		return period.Period{}, fmt.Errorf("invalid start instant %q: %w", opts.Start, err)
	}
	years, err := period.ParseYears(opts.Years)
	if err != nil {
		return period.Period{}, err
	}
	p := period.Period{
		Body:     period.Body(opts.Body),
		Start:    start.UTC(),
		Years:    years,
		Children: period.NoChildren{},
	}
	p.End = period.AddYears(p.Start, years)
	return p, nil
}

// periodInfo converts a Period (recursively) to its output payload.
func periodInfo(p period.Period) PeriodInfo {
	info := PeriodInfo{
		Body:  string(p.Body),
		Start: period.CanonicalInstant(p.Start),
		End:   period.CanonicalInstant(p.End),
		Years: p.YearsString(),
	}
	if src, ok := period.ChildSource(p.Children); ok {
		info.ChildSource = string(src)
		for _, c := range period.ChildPeriods(p.Children) {
			info.Children = append(info.Children, periodInfo(c))
		}
	}
	return info
}

// renderPeriod writes the indented text form of a period tree.
func renderPeriod(w io.Writer, info PeriodInfo, depth int) {
	for i := 0; i < depth; i++ {
		fmt.Fprint(w, "  ")
	}
	fmt.Fprintf(w, "%-3s %s .. %s (%s years)\n", info.Body, info.Start, info.End, info.Years)
	for _, c := range info.Children {
		renderPeriod(w, c, depth+1)
	}
}

// reportComputeError emits a structured error for an engine failure and
// returns the matching exit error.
func reportComputeError(formatter *OutputFormatter, err error) error {
	code := computeErrorCode(err)
	formatter.Error(code, err.Error(), nil)
	return WrapExitError(ExitFailure, code, err)
}

// computeErrorCode maps engine/registry errors to stable output codes.
func computeErrorCode(err error) string {
	switch {
	case engine.IsUnknownSystemError(err):
		return "UNKNOWN_SYSTEM"
	case engine.IsUnknownBodyError(err):
		return string(engine.ErrCodeUnknownBody)
	case engine.IsDegeneratePeriodError(err):
		return string(engine.ErrCodeDegeneratePeriod)
	case engine.IsInvalidDepthError(err):
		return string(engine.ErrCodeInvalidDepth)
	case engine.IsPathNotFoundError(err):
		return string(engine.ErrCodePathNotFound)
	default:
		return ErrCodeGeneric
	}
}
