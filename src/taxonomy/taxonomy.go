// Package taxonomy orders data columns for heatmap-style displays by their
// taxonomic hierarchy: leaves actually present in the source data are
// interleaved with their ancestor rank rows, indented by depth.
package taxonomy

import "strings"

// Ranks in descending order. An Info carries names for whichever subset of
// ranks is known for a leaf.
var Ranks = []string{"kingdom", "phylum", "class", "order", "family", "genus", "species"}

// RankEntry marks a leaf that corresponds to an actual data column.
const RankEntry = "entry"

// Info is the resolved hierarchy for one leaf label: rank name -> taxon name.
// Unknown ranks are simply absent.
type Info map[string]string

// Node is one tree position: a rank level or a data-column leaf.
type Node struct {
	Name     string // display name
	Original string // source name before annotation stripping
	Rank     string
	CsvEntry bool // corresponds to an actual data column
	children []*Node
	index    map[string]*Node
}

func newNode(name, original, rank string) *Node {
	return &Node{Name: name, Original: original, Rank: rank, index: map[string]*Node{}}
}

func (n *Node) child(name, original, rank string) *Node {
	if c, ok := n.index[name]; ok {
		return c
	}
	c := newNode(name, original, rank)
	n.children = append(n.children, c)
	n.index[name] = c
	return c
}

// CleanName strips SILVA/Greengenes-style rank annotations ("p__Annelida",
// "c__Polychaeta") from a taxon name. Names without an annotation pass
// through unchanged.
func CleanName(s string) string {
	if i := strings.Index(s, "__"); i >= 1 && i <= 2 {
		if rest := s[i+2:]; rest != "" {
			return rest
		}
	}
	return s
}

// BuildTree inserts each leaf's known ancestor chain and marks the leaf as a
// csv entry. A leaf with no hierarchy information becomes a top-level entry.
// One root per build; children keep first-encounter order.
func BuildTree(leaves []string, lookup map[string]Info) *Node {
	root := newNode("", "", "")
	for _, leaf := range leaves {
		cur := root
		info := lookup[leaf]
		last := ""
		for _, rank := range Ranks {
			name, ok := info[rank]
			if !ok || name == "" || name == "NA" {
				continue
			}
			cur = cur.child(CleanName(name), name, rank)
			last = CleanName(name)
		}
		display := CleanName(leaf)
		if last == display {
			// The deepest known rank is the leaf itself.
			cur.CsvEntry = true
			cur.Original = leaf
			continue
		}
		entry := cur.child(display, leaf, RankEntry)
		entry.CsvEntry = true
	}
	return root
}

// Row is one display row of the flattened tree. Source is the original data
// column name for entry rows; Label may differ after annotation stripping.
type Row struct {
	Label  string
	Source string
	Rank   string
	Indent int
	Entry  bool
}

// flatten walks the tree pre-order, keeping nodes that are csv entries or
// have a csv-entry descendant. Grouping nodes with no data column below them
// are dropped entirely.
func flatten(n *Node, depth int, out *[]Row) bool {
	keep := n.CsvEntry
	rows := len(*out)
	if depth >= 0 {
		*out = append(*out, Row{Label: n.Name, Source: n.Original, Rank: n.Rank, Indent: depth, Entry: n.CsvEntry})
	}
	for _, c := range n.children {
		if flatten(c, depth+1, out) {
			keep = true
		}
	}
	if !keep && depth >= 0 {
		// No csv-entry descendant: remove this node and everything below it.
		*out = (*out)[:rows]
	}
	return keep
}

// DisplayOrder is the row order for taxonomic heatmap displays.
type DisplayOrder struct {
	Order  []string
	Indent map[string]int
	Rank   map[string]string
}

// OrderForDisplay produces a depth-ordered row sequence for the given data
// columns. Leaves without hierarchy information appear at the top level; the
// operation never fails. When lookup is empty the result degrades to the raw
// leaf list.
func OrderForDisplay(leaves []string, lookup map[string]Info) DisplayOrder {
	root := BuildTree(leaves, lookup)
	var rows []Row
	flatten(root, -1, &rows)
	out := DisplayOrder{
		Order:  make([]string, 0, len(rows)),
		Indent: make(map[string]int, len(rows)),
		Rank:   make(map[string]string, len(rows)),
	}
	for _, r := range rows {
		out.Order = append(out.Order, r.Label)
		if _, ok := out.Indent[r.Label]; !ok {
			out.Indent[r.Label] = r.Indent
			out.Rank[r.Label] = r.Rank
		}
	}
	return out
}

// Rows returns the full flattened row metadata, for callers that need the
// per-row entry flag rather than label-keyed maps.
func Rows(leaves []string, lookup map[string]Info) []Row {
	root := BuildTree(leaves, lookup)
	var rows []Row
	flatten(root, -1, &rows)
	return rows
}
