package period

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// TreeFile is the YAML wire form of an externally supplied period tree,
// as produced by the upstream calculation service. Depth is unspecified:
// any node may or may not carry children.
type TreeFile struct {
	// System optionally names the period system the tree belongs to.
	// Callers may override it on the command line.
	System string `yaml:"system,omitempty"`

	// Periods are the root-level periods of the tree.
	Periods []TreeNode `yaml:"periods"`
}

// TreeNode is one period in the YAML wire form.
type TreeNode struct {
	// Body is the canonical body identifier ("Ve", "Su", ...).
	Body string `yaml:"body"`

	// Start is the period's start instant (RFC 3339).
	Start time.Time `yaml:"start"`

	// Years is the exact rational duration, e.g. "20" or "10/3".
	Years string `yaml:"years"`

	// End is optional. When absent it is derived from Start and Years
	// via the engine's fixed days-per-year convention. When present the
	// external value is authoritative and kept verbatim.
	End *time.Time `yaml:"end,omitempty"`

	// Children are pre-computed subdivisions, if the external source
	// supplied any.
	Children []TreeNode `yaml:"children,omitempty"`
}

// DecodeTree reads a YAML period tree and converts it to Period values.
// Children present in the file are tagged External; nodes without
// children get NoChildren.
func DecodeTree(r io.Reader) (*TreeFile, []Period, error) {
	var file TreeFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, nil, fmt.Errorf("decoding period tree: %w", err)
	}
	if len(file.Periods) == 0 {
		return nil, nil, fmt.Errorf("period tree has no root periods")
	}

	roots, err := convertNodes(file.Periods, "periods")
	if err != nil {
		return nil, nil, err
	}
	return &file, roots, nil
}

// LoadTreeFile reads and decodes a YAML period tree from disk.
func LoadTreeFile(path string) (*TreeFile, []Period, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening tree file: %w", err)
	}
	defer f.Close()
	return DecodeTree(f)
}

// FromNodes converts already-decoded tree nodes to Period values, with
// the same rules as DecodeTree. Used by callers that carry trees inline
// (e.g. the conformance harness) rather than in standalone files.
func FromNodes(nodes []TreeNode) ([]Period, error) {
	return convertNodes(nodes, "tree")
}

func convertNodes(nodes []TreeNode, where string) ([]Period, error) {
	out := make([]Period, 0, len(nodes))
	for i, n := range nodes {
		p, err := convertNode(n, fmt.Sprintf("%s[%d]", where, i))
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func convertNode(n TreeNode, where string) (Period, error) {
	if n.Body == "" {
		return Period{}, fmt.Errorf("%s: missing body", where)
	}
	if n.Start.IsZero() {
		return Period{}, fmt.Errorf("%s: missing start instant", where)
	}
	years, err := ParseYears(n.Years)
	if err != nil {
		return Period{}, fmt.Errorf("%s: %w", where, err)
	}

	p := Period{
		Body:     Body(n.Body),
		Start:    n.Start.UTC(),
		Years:    years,
		Children: NoChildren{},
	}
	if n.End != nil {
		p.End = n.End.UTC()
	} else {
		p.End = AddYears(p.Start, years)
	}

	if len(n.Children) > 0 {
		kids, err := convertNodes(n.Children, where+".children")
		if err != nil {
			return Period{}, err
		}
		p.Children = External(kids)
	}
	return p, nil
}
