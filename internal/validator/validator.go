// Package validator checks a configuration for the hazards the engine does not
// guard against at runtime: duplicate ids, dangling or answer-sourced
// connections, overlapping predicates, cycles and unreachable nodes.
package validator

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/AndreyBuyanov/ExpertSystem/pkg/domain"
)

// Severity ranks a finding. Errors reject a strict load; warnings never do.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Finding kinds.
const (
	KindNoRoot       = "no_root"
	KindDuplicateID  = "duplicate_id"
	KindDangling     = "dangling_connection"
	KindAnswerSource = "answer_source"
	KindOverlap      = "overlapping_predicates"
	KindCycle        = "cycle"
	KindUnreachable  = "unreachable"
	KindDeadEnd      = "dead_end_question"
)

// ErrInvalid is wrapped by Report.Err.
var ErrInvalid = errors.New("invalid configuration")

// Finding is one problem found in a definition.
type Finding struct {
	Kind     string
	Severity Severity
	Msg      string
	Nodes    []domain.NodeID
}

func (f Finding) String() string {
	return fmt.Sprintf("[%s] %s: %s", f.Severity, f.Kind, f.Msg)
}

// Report collects findings in a deterministic order.
type Report struct {
	Findings []Finding
}

// Errors returns the findings with error severity.
func (r *Report) Errors() []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			out = append(out, f)
		}
	}
	return out
}

// HasErrors reports whether any finding has error severity.
func (r *Report) HasErrors() bool { return len(r.Errors()) > 0 }

// Err summarises the error findings, or returns nil.
func (r *Report) Err() error {
	errs := r.Errors()
	if len(errs) == 0 {
		return nil
	}
	lines := make([]string, len(errs))
	for i, f := range errs {
		lines[i] = f.String()
	}
	return fmt.Errorf("%w: found %d errors:\n- %s", ErrInvalid, len(errs), strings.Join(lines, "\n- "))
}

func (r *Report) add(kind string, sev Severity, nodes []domain.NodeID, format string, args ...any) {
	r.Findings = append(r.Findings, Finding{
		Kind:     kind,
		Severity: sev,
		Msg:      fmt.Sprintf(format, args...),
		Nodes:    nodes,
	})
}

// Validate inspects def the way tree.Build would consume it:
// the first record registered under an id wins.
func Validate(def *domain.Definition) *Report {
	r := &Report{}

	kinds := make(map[domain.NodeID]domain.NodeType)
	var order []domain.NodeID
	register := func(rec domain.NodeRecord, typ domain.NodeType) {
		if prev, ok := kinds[rec.ID]; ok {
			r.add(KindDuplicateID, SeverityError, []domain.NodeID{rec.ID},
				"%s %d collides with an existing %s", typ, rec.ID, prev)
			return
		}
		kinds[rec.ID] = typ
		order = append(order, rec.ID)
	}
	for _, q := range def.Questions {
		register(q, domain.NodeQuestion)
	}
	for _, a := range def.Answers {
		register(a, domain.NodeAnswer)
	}

	if len(def.Questions) == 0 {
		r.add(KindNoRoot, SeverityError, nil, "configuration defines no question")
	}

	edges := make(map[domain.NodeID][]domain.Connection)
	for _, c := range def.Connections {
		srcType, srcOK := kinds[c.Source]
		_, dstOK := kinds[c.Target]
		switch {
		case !srcOK || !dstOK:
			missing := c.Source
			if srcOK {
				missing = c.Target
			}
			r.add(KindDangling, SeverityError, []domain.NodeID{c.Source, c.Target},
				"connection %d->%d references unknown node %d", c.Source, c.Target, missing)
		case srcType == domain.NodeAnswer:
			r.add(KindAnswerSource, SeverityError, []domain.NodeID{c.Source, c.Target},
				"connection %d->%d starts at answer %d", c.Source, c.Target, c.Source)
		default:
			edges[c.Source] = append(edges[c.Source], c)
		}
	}

	ids := slices.Clone(order)
	slices.Sort(ids)

	for _, id := range ids {
		out := edges[id]
		if kinds[id] == domain.NodeQuestion && len(out) == 0 {
			r.add(KindDeadEnd, SeverityWarning, []domain.NodeID{id},
				"question %d has no outgoing connection", id)
		}
		for i := 0; i < len(out); i++ {
			for j := i + 1; j < len(out); j++ {
				if domain.PredicatesOverlap(out[i].Predicate, out[j].Predicate) {
					r.add(KindOverlap, SeverityError, []domain.NodeID{id, out[i].Target, out[j].Target},
						"question %d: predicates %s (->%d) and %s (->%d) overlap; the first one always wins",
						id, domain.DescribePredicate(out[i].Predicate), out[i].Target,
						domain.DescribePredicate(out[j].Predicate), out[j].Target)
				}
			}
		}
	}

	for _, cycle := range findCycles(ids, edges) {
		parts := make([]string, len(cycle))
		for i, id := range cycle {
			parts[i] = fmt.Sprint(id)
		}
		r.add(KindCycle, SeverityError, cycle, "cycle %s", strings.Join(parts, " -> "))
	}

	if len(def.Questions) > 0 {
		reached := reachable(def.Questions[0].ID, edges)
		for _, id := range ids {
			if !reached[id] {
				r.add(KindUnreachable, SeverityWarning, []domain.NodeID{id},
					"%s %d cannot be reached from the root", kinds[id], id)
			}
		}
	}

	return r
}

// findCycles runs a colouring DFS from every node in ascending id order and
// reports each back edge as the cycle it closes.
func findCycles(ids []domain.NodeID, edges map[domain.NodeID][]domain.Connection) [][]domain.NodeID {
	const (
		white = iota
		grey
		black
	)
	colour := make(map[domain.NodeID]int)
	var stack []domain.NodeID
	var cycles [][]domain.NodeID

	var visit func(id domain.NodeID)
	visit = func(id domain.NodeID) {
		colour[id] = grey
		stack = append(stack, id)
		for _, c := range edges[id] {
			switch colour[c.Target] {
			case white:
				visit(c.Target)
			case grey:
				start := slices.Index(stack, c.Target)
				cycle := slices.Clone(stack[start:])
				cycles = append(cycles, append(cycle, c.Target))
			}
		}
		stack = stack[:len(stack)-1]
		colour[id] = black
	}

	for _, id := range ids {
		if colour[id] == white {
			visit(id)
		}
	}
	return cycles
}

func reachable(root domain.NodeID, edges map[domain.NodeID][]domain.Connection) map[domain.NodeID]bool {
	visited := map[domain.NodeID]bool{root: true}
	queue := []domain.NodeID{root}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, c := range edges[current] {
			if !visited[c.Target] {
				visited[c.Target] = true
				queue = append(queue, c.Target)
			}
		}
	}
	return visited
}
