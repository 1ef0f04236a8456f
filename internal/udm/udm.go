// Package udm implements UDM field extraction: following
// the per-event output identifier list recorded under "@output" in the
// value table, then walking each event's "idm.read_only_udm" subtree and
// enumerating every field the analyzed configuration writes, along with
// its recorded source provenance.
package udm

import (
	"sort"
	"strings"

	"github.com/cyderes/cbnlint/internal/state"
)

// udmRoot is the subtree inside each output event under which UDM fields
// live.
const udmRoot = "idm.read_only_udm"

// Field is one leaf of the extracted UDM tree: a dotted field path
// relative to the event's idm.read_only_udm root, plus the source
// expressions the analyzer recorded for it, in the order observed.
type Field struct {
	Path    string
	Sources []string
}

// ExtractFields returns every UDM field the configuration writes, sorted
// by path for deterministic reporting.
//
// The analyzer records each event identifier merged into "@output" as a
// provenance entry on the "@output" value-table node (a configuration
// typically builds event.idm.read_only_udm.* and then merges "event" into
// "@output"). Each such identifier's idm.read_only_udm subtree is walked;
// fields reached through more than one event have their provenance lists
// concatenated. A subtree recorded directly under
// "@output.idm.read_only_udm" is walked as well.
//
// JSON's structural inference under a target path is represented by the
// "<json:source>" sentinel the analyzer records as a child, not walked as
// a real schema.
func ExtractFields(st *state.State) []Field {
	merged := make(map[string][]string)

	walkEvent := func(eventPath string) {
		node, ok := st.LookupValueTable(eventPath + "." + udmRoot)
		if !ok {
			return
		}
		collect("", node, merged)
	}

	if output, ok := st.LookupValueTable("@output"); ok {
		seen := make(map[string]bool)
		for _, id := range output.Sources {
			if id == "<none>" || seen[id] {
				continue
			}
			seen[id] = true
			walkEvent(id)
		}
	}
	walkEvent("@output")

	fields := make([]Field, 0, len(merged))
	for path, sources := range merged {
		fields = append(fields, Field{Path: path, Sources: sources})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Path < fields[j].Path })
	return fields
}

func collect(path string, node *state.ValueNode, out map[string][]string) {
	if path != "" && len(node.Sources) > 0 {
		out[path] = append(out[path], node.Sources...)
	}
	names := make([]string, 0, len(node.Children))
	for name := range node.Children {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		childPath := name
		if path != "" {
			childPath = path + "." + name
		}
		collect(childPath, node.Children[name], out)
	}
}

// String renders a Field as a single report line, e.g.
// "principal.ip (source: src_ip)".
func (f Field) String() string {
	if len(f.Sources) == 0 {
		return f.Path
	}
	return f.Path + " (source: " + strings.Join(f.Sources, ", ") + ")"
}
