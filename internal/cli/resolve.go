package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/dasha/internal/engine"
	"github.com/roach88/dasha/internal/period"
)

// ResolveOptions holds flags for the resolve command.
type ResolveOptions struct {
	*RootOptions
	System       string
	Path         string
	WithChildren bool
}

// StepInfo is one resolved level of the selection path.
type StepInfo struct {
	Level  int    `json:"level"`
	Source string `json:"source"`
	PeriodInfo
}

// ResolutionInfo is the output payload of a path resolution.
type ResolutionInfo struct {
	System         string       `json:"system"`
	Path           []string     `json:"path"`
	Source         string       `json:"source"`
	Period         PeriodInfo   `json:"period"`
	Ancestry       []StepInfo   `json:"ancestry"`
	Children       []PeriodInfo `json:"children,omitempty"`
	ChildrenSource string       `json:"children_source,omitempty"`
}

// NewResolveCommand creates the resolve command.
func NewResolveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ResolveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "resolve <tree.yaml>",
		Short: "Resolve a selection path against a period tree",
		Long: `Resolve a selection path (one body per nesting level) against an
externally supplied period tree. Traversal follows the supplied tree as
deep as it goes, then falls back to local subdivision for the remaining
levels; each resolved level is tagged with its source.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.System, "system", "", "period system (defaults to the tree file's system)")
	cmd.Flags().StringVar(&opts.Path, "path", "", "comma-separated selection path, e.g. Ve,Ve,Me (required)")
	cmd.Flags().BoolVar(&opts.WithChildren, "children", false, "also return the terminal period's next-level list")
	cmd.MarkFlagRequired("path")

	return cmd
}

func runResolve(opts *ResolveOptions, treePath string, cmd *cobra.Command) error {
	formatter := NewOutputFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	reg, err := buildRegistry(opts.RootOptions, formatter)
	if err != nil {
		return err
	}

	file, roots, err := period.LoadTreeFile(treePath)
	if err != nil {
		return WrapExitError(ExitCommandError, "loading period tree", err)
	}
	formatter.VerboseLog("Loaded %d root period(s) from %s", len(roots), treePath)

	system := opts.System
	if system == "" {
		system = file.System
	}
	if system == "" {
		return WrapExitError(ExitCommandError, "no period system", fmt.Errorf("tree file names no system; pass --system"))
	}

	path, err := parseSelectionPath(opts.Path)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid selection path", err)
	}

	eng := engine.New(reg)
	res, err := eng.ResolvePath(engine.ResolveRequest{
		Roots:        roots,
		Path:         path,
		System:       system,
		WithChildren: opts.WithChildren,
	})
	if err != nil {
		return reportComputeError(formatter, err)
	}

	info := resolutionInfo(system, path, res)
	return formatter.SuccessText(info, func(w io.Writer) {
		renderResolution(w, info)
	})
}

// parseSelectionPath splits a comma-separated body list.
func parseSelectionPath(s string) ([]period.Body, error) {
	parts := strings.Split(s, ",")
	path := make([]period.Body, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return nil, fmt.Errorf("empty body in selection path %q", s)
		}
		path = append(path, period.Body(p))
	}
	return path, nil
}

func resolutionInfo(system string, path []period.Body, res *engine.Resolution) ResolutionInfo {
	info := ResolutionInfo{
		System:   system,
		Path:     make([]string, len(path)),
		Source:   string(res.Source),
		Period:   periodInfo(res.Period),
		Ancestry: make([]StepInfo, len(res.Ancestry)),
	}
	for i, b := range path {
		info.Path[i] = string(b)
	}
	for i, step := range res.Ancestry {
		info.Ancestry[i] = StepInfo{
			Level:      i + 1,
			Source:     string(step.Source),
			PeriodInfo: periodInfo(step.Period),
		}
	}
	if len(res.Children) > 0 {
		info.ChildrenSource = string(res.ChildrenSource)
		for _, c := range res.Children {
			info.Children = append(info.Children, periodInfo(c))
		}
	}
	return info
}

func renderResolution(w io.Writer, info ResolutionInfo) {
	fmt.Fprintf(w, "%s %s -> %s\n", info.System, strings.Join(info.Path, ","), info.Source)
	for _, step := range info.Ancestry {
		fmt.Fprintf(w, "  L%d [%s] %-3s %s .. %s (%s years)\n",
			step.Level, step.Source, step.Body, step.Start, step.End, step.Years)
	}
	if len(info.Children) > 0 {
		fmt.Fprintf(w, "  children [%s]:\n", info.ChildrenSource)
		for _, c := range info.Children {
			fmt.Fprintf(w, "    %-3s %s .. %s (%s years)\n", c.Body, c.Start, c.End, c.Years)
		}
	}
}
