package graph

import (
	"fmt"
	"strings"

	"github.com/AndreyBuyanov/ExpertSystem/pkg/domain"
	"github.com/AndreyBuyanov/ExpertSystem/pkg/tree"
)

// Overlay highlights a session path on the graph.
// The last entry of Path is the current node.
type Overlay struct {
	Path []domain.NodeID
}

// OverlayFromState builds an overlay from a session snapshot.
func OverlayFromState(s *domain.State) *Overlay {
	if s == nil {
		return nil
	}
	path := s.History
	if len(path) == 0 {
		path = []domain.NodeID{s.CurrentNodeID}
	}
	return &Overlay{Path: path}
}

// GenerateMermaid renders a tree as a Mermaid flowchart.
// Shapes:
// - Root: ((Circle))
// - Question: [/Parallelogram/]
// - Answer: (Rounded)
// Edges are labelled with their predicate.
func GenerateMermaid(t *tree.Tree, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	var rootID domain.NodeID
	hasRoot := false
	if root, err := t.Root(); err == nil {
		rootID, hasRoot = root.ID(), true
	}

	for _, n := range t.Nodes() {
		opener, closer := "(", ")"
		switch {
		case hasRoot && n.ID() == rootID:
			opener, closer = "((", "))"
		case n.IsQuestion():
			opener, closer = "[/", "/]"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", mermaidID(n.ID()), opener, escapeLabel(n.Data()), closer)

		for _, e := range n.Edges() {
			fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n",
				mermaidID(n.ID()), escapeLabel(domain.DescribePredicate(e.Predicate)), mermaidID(e.Target.ID()))
		}
	}

	if overlay != nil && len(overlay.Path) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Black text stays readable on both light and dark themes.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		current := overlay.Path[len(overlay.Path)-1]
		seen := make(map[domain.NodeID]bool)
		for _, id := range overlay.Path[:len(overlay.Path)-1] {
			if seen[id] || id == current {
				continue
			}
			if _, ok := t.Node(id); !ok {
				continue
			}
			seen[id] = true
			fmt.Fprintf(&sb, "    class %s visited;\n", mermaidID(id))
		}
		if _, ok := t.Node(current); ok {
			fmt.Fprintf(&sb, "    class %s current;\n", mermaidID(current))
		}
	}

	return sb.String()
}

// mermaidID keeps negative ids valid.
func mermaidID(id domain.NodeID) string {
	if id < 0 {
		return fmt.Sprintf("n_%d", -id)
	}
	return fmt.Sprintf("n%d", id)
}

func escapeLabel(s string) string {
	s = strings.ReplaceAll(s, "\"", "#quot;")
	return strings.ReplaceAll(s, "\n", "<br/>")
}
