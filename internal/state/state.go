// Package state implements the symbol-state table: the explicit/implicit
// field-existence sets modeling the runtime field namespace, the scope
// stack used for conditional branch bodies, and the nested value-table
// tree used for UDM extraction.
package state

import (
	"sort"
	"strings"

	"github.com/cyderes/cbnlint/internal/diag"
)

// seedFields are the pre-existing fields guaranteed to exist before any
// filter runs.
var seedFields = []string{
	"@collectionTimestamp",
	"@collectionTimestamp.nanos",
	"@collectionTimestamp.seconds",
	"@createTimestamp",
	"@createTimestamp.nanos",
	"@createTimestamp.seconds",
	"@enableCbnForLoop",
	"@onErrorCount",
	"@output",
	"@timezone",
	"message",
}

// State is the symbol-state table: one instance per analysis run, created
// once, mutated in AST traversal order, and discarded when analysis ends.
type State struct {
	explicit map[string]bool
	implicit map[string]bool

	scopeStack []map[string]bool

	root *ValueNode

	diag *diag.Collector
}

// New creates a State seeded with the fixed pre-existing fields and wired
// to collector for add_error/add_warning.
func New(collector *diag.Collector) *State {
	st := &State{
		explicit: make(map[string]bool),
		implicit: make(map[string]bool),
		root:     newValueNode(),
		diag:     collector,
	}
	for _, f := range seedFields {
		st.AddExplicit(f)
	}
	return st
}

func prefixesOf(path string) []string {
	parts := strings.Split(path, ".")
	prefixes := make([]string, len(parts))
	for i := range parts {
		prefixes[i] = strings.Join(parts[:i+1], ".")
	}
	return prefixes
}

// ContainsExplicit reports whether path is in the explicit population.
func (st *State) ContainsExplicit(path string) bool { return st.explicit[path] }

// ContainsImplicit reports whether path is in the implicit population.
func (st *State) ContainsImplicit(path string) bool { return st.implicit[path] }

// AddExplicit inserts path and every ancestor prefix into the explicit
// set. Each inserted name is removed from the implicit set; the two
// populations stay disjoint.
func (st *State) AddExplicit(path string) {
	for _, p := range prefixesOf(path) {
		st.explicit[p] = true
		delete(st.implicit, p)
	}
}

// AddImplicit inserts path and every ancestor prefix into the implicit
// set, removing each from the explicit set to preserve disjointness.
func (st *State) AddImplicit(path string) {
	for _, p := range prefixesOf(path) {
		st.implicit[p] = true
		delete(st.explicit, p)
	}
}

// RemoveExplicit deletes every explicit name that is path or has
// "path." as a prefix (subtree removal).
func (st *State) RemoveExplicit(path string) { removeSubtree(st.explicit, path) }

// RemoveImplicit deletes every implicit name that is path or has
// "path." as a prefix (subtree removal).
func (st *State) RemoveImplicit(path string) { removeSubtree(st.implicit, path) }

func removeSubtree(set map[string]bool, path string) {
	prefix := path + "."
	for name := range set {
		if name == path || strings.HasPrefix(name, prefix) {
			delete(set, name)
		}
	}
}

// RenameExplicit replaces the leading "oldName" segment on every explicit
// name that is oldName or starts with "oldName.", with "newName".
func (st *State) RenameExplicit(oldName, newName string) { renameLeading(st.explicit, oldName, newName) }

// RenameImplicit replaces the leading "oldName" segment on every implicit
// name that is oldName or starts with "oldName.", with "newName".
func (st *State) RenameImplicit(oldName, newName string) { renameLeading(st.implicit, oldName, newName) }

func renameLeading(set map[string]bool, oldName, newName string) {
	prefix := oldName + "."
	var renamed []string
	for name := range set {
		switch {
		case name == oldName:
			renamed = append(renamed, newName)
			delete(set, name)
		case strings.HasPrefix(name, prefix):
			renamed = append(renamed, newName+name[len(oldName):])
			delete(set, name)
		}
	}
	for _, name := range renamed {
		set[name] = true
	}
}

// PushScope snapshots the current explicit set onto the scope stack.
func (st *State) PushScope() {
	snapshot := make(map[string]bool, len(st.explicit))
	for k := range st.explicit {
		snapshot[k] = true
	}
	st.scopeStack = append(st.scopeStack, snapshot)
}

// PopScope demotes every name present in the current explicit set that
// was not present at the matching PushScope into the implicit set, then
// restores the explicit set to that snapshot. Restored names are dropped
// from the implicit set, so the two populations stay disjoint. (Rationale:
// scoped effects are only trusted inside the branch; on exit they may
// still exist at runtime, but are no longer guaranteed.)
func (st *State) PopScope() {
	n := len(st.scopeStack)
	snapshot := st.scopeStack[n-1]
	st.scopeStack = st.scopeStack[:n-1]

	for name := range st.explicit {
		if !snapshot[name] {
			st.implicit[name] = true
		}
	}
	st.explicit = snapshot
	for name := range snapshot {
		delete(st.implicit, name)
	}
}

// ScopeDepth reports the number of scopes currently pushed, for tests that
// check scope-stack balance.
func (st *State) ScopeDepth() int { return len(st.scopeStack) }

// AddValueTable locates the subtree addressed by path in the nested value
// store, creating intermediate nodes as needed, and appends sourceValue
// to the leaf's recorded provenance list. An empty sourceValue records the
// sentinel "<none>" for call sites where no concrete source expression
// exists.
func (st *State) AddValueTable(path, sourceValue string) {
	node := st.root
	for _, seg := range strings.Split(path, ".") {
		child, ok := node.Children[seg]
		if !ok {
			child = newValueNode()
			node.Children[seg] = child
		}
		node = child
	}
	if sourceValue == "" {
		sourceValue = "<none>"
	}
	node.Sources = append(node.Sources, sourceValue)
}

// LookupValueTable returns the tree node addressed by path, if any.
func (st *State) LookupValueTable(path string) (*ValueNode, bool) {
	node := st.root
	for _, seg := range strings.Split(path, ".") {
		child, ok := node.Children[seg]
		if !ok {
			return nil, false
		}
		node = child
	}
	return node, true
}

// Root returns the root of the value-table tree, for the UDM extractor.
func (st *State) Root() *ValueNode { return st.root }

// AddError records an error-severity diagnostic at line.
func (st *State) AddError(line int, format string, args ...any) {
	st.diag.AddError(line, format, args...)
}

// AddWarning records a warning-severity diagnostic at line.
func (st *State) AddWarning(line int, format string, args ...any) {
	st.diag.AddWarning(line, format, args...)
}

// ExplicitNames returns a sorted snapshot of the explicit population, for
// -s/--print_state output.
func (st *State) ExplicitNames() []string { return sortedKeys(st.explicit) }

// ImplicitNames returns a sorted snapshot of the implicit population, for
// -s/--print_state output.
func (st *State) ImplicitNames() []string { return sortedKeys(st.implicit) }

func sortedKeys(set map[string]bool) []string {
	names := make([]string, 0, len(set))
	for k := range set {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// ValueEntry is one flattened value-table leaf, for -s/--print_state.
type ValueEntry struct {
	Path    string
	Sources []string
}

// FlattenValueTable returns every value-table node holding at least one
// recorded source, as dotted paths sorted by name.
func (st *State) FlattenValueTable() []ValueEntry {
	var entries []ValueEntry
	flattenValues("", st.root, &entries)
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries
}

func flattenValues(path string, node *ValueNode, out *[]ValueEntry) {
	if path != "" && len(node.Sources) > 0 {
		*out = append(*out, ValueEntry{Path: path, Sources: append([]string(nil), node.Sources...)})
	}
	for name, child := range node.Children {
		childPath := name
		if path != "" {
			childPath = path + "." + name
		}
		flattenValues(childPath, child, out)
	}
}

// ValueNode is one node of the nested value-table tree: an inner node
// mapping child names to nodes, a leaf holding a provenance list, or both
// at once (e.g. a target path that later gains structurally-inferred
// children, as the json filter's symbolic subtree population does).
type ValueNode struct {
	Children map[string]*ValueNode
	Sources  []string
}

func newValueNode() *ValueNode {
	return &ValueNode{Children: make(map[string]*ValueNode)}
}
