package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/dasha/internal/registry"
)

// SystemInfo is the output payload describing one registered system.
type SystemInfo struct {
	System     string      `json:"system"`
	TotalYears string      `json:"total_years"`
	MaxDepth   int         `json:"max_depth"`
	Order      []ShareInfo `json:"order"`
}

// ShareInfo is one body's slot in a system's canonical order.
type ShareInfo struct {
	Body  string `json:"body"`
	Years string `json:"years"`
}

// NewSystemsCommand creates the systems command.
func NewSystemsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "systems",
		Short: "List registered period systems",
		Long: `List the registered period systems with their cycle length, maximum
nesting depth, and canonical body order with proportional shares.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSystems(rootOpts, cmd)
		},
	}
}

func runSystems(opts *RootOptions, cmd *cobra.Command) error {
	formatter := NewOutputFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	reg, err := buildRegistry(opts, formatter)
	if err != nil {
		return err
	}

	infos := make([]SystemInfo, 0)
	for _, name := range reg.Systems() {
		def, err := reg.Get(name)
		if err != nil {
			return WrapExitError(ExitCommandError, "reading registry", err)
		}
		infos = append(infos, systemInfo(def))
	}

	return formatter.SuccessText(infos, func(w io.Writer) {
		for _, info := range infos {
			fmt.Fprintf(w, "%s (%s years, depth %d)\n", info.System, info.TotalYears, info.MaxDepth)
			for _, s := range info.Order {
				fmt.Fprintf(w, "  %-3s %s\n", s.Body, s.Years)
			}
		}
	})
}

func systemInfo(def *registry.CycleDefinition) SystemInfo {
	info := SystemInfo{
		System:     def.System,
		TotalYears: def.TotalYears.RatString(),
		MaxDepth:   def.MaxDepth,
		Order:      make([]ShareInfo, len(def.Order)),
	}
	for i, s := range def.Order {
		info.Order[i] = ShareInfo{Body: string(s.Body), Years: s.Years.RatString()}
	}
	return info
}
