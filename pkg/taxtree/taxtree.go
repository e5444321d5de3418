// Package taxtree builds a taxonomic grouping tree over a dataset and
// renders it as Graphviz DOT or SVG. Records are grouped by species, with
// one leaf per assembly.
package taxtree

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/tasnimul-arabi-anik/fetchm/pkg/genome"
)

// Unclassified is the species bucket for records without a species name.
const Unclassified = "(unclassified)"

// Node is one node of the grouping tree. Count is the number of assembly
// leaves under the node.
type Node struct {
	Label    string
	Count    int
	Children []*Node
}

// Options configures tree rendering.
type Options struct {
	// Detailed adds strain and assembly level to leaf labels.
	Detailed bool

	// MaxLeaves caps the number of assembly leaves shown per species;
	// the remainder collapses into a "+N more" leaf. Zero shows all.
	MaxLeaves int
}

// Build groups ds by species into a tree rooted at a node labeled with
// the dataset's query (or record count when no query is recorded).
// Species are ordered by descending assembly count, leaves by accession.
func Build(ds *genome.Dataset) *Node {
	label := ds.Query
	if label == "" {
		label = fmt.Sprintf("%d assemblies", len(ds.Records))
	}
	root := &Node{Label: label, Count: len(ds.Records)}

	bySpecies := make(map[string][]*genome.Record)
	for i := range ds.Records {
		sp := ds.Records[i].SpeciesName
		if sp == "" {
			sp = Unclassified
		}
		bySpecies[sp] = append(bySpecies[sp], &ds.Records[i])
	}

	for sp, recs := range bySpecies {
		node := &Node{Label: sp, Count: len(recs)}
		sort.Slice(recs, func(i, j int) bool { return recs[i].Accession < recs[j].Accession })
		for _, r := range recs {
			node.Children = append(node.Children, &Node{Label: r.Accession, Count: 1})
		}
		root.Children = append(root.Children, node)
	}
	sort.Slice(root.Children, func(i, j int) bool {
		a, b := root.Children[i], root.Children[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Label < b.Label
	})
	return root
}

// ToDOT converts the tree and its dataset to Graphviz DOT. The resulting
// string can be rendered with [RenderSVG].
func ToDOT(ds *genome.Dataset, opts Options) string {
	root := Build(ds)

	var buf bytes.Buffer
	buf.WriteString("digraph taxonomy {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.15,0.08\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.25;\n")
	buf.WriteString("\n")

	id := 0
	nextID := func() string {
		id++
		return fmt.Sprintf("n%d", id)
	}

	rootID := nextID()
	fmt.Fprintf(&buf, "  %s [label=%q, fillcolor=lightgrey];\n", rootID, root.Label)

	for _, sp := range root.Children {
		spID := nextID()
		fmt.Fprintf(&buf, "  %s [label=%q];\n", spID, fmt.Sprintf("%s (%d)", sp.Label, sp.Count))
		fmt.Fprintf(&buf, "  %s -> %s;\n", rootID, spID)

		leaves := sp.Children
		overflow := 0
		if opts.MaxLeaves > 0 && len(leaves) > opts.MaxLeaves {
			overflow = len(leaves) - opts.MaxLeaves
			leaves = leaves[:opts.MaxLeaves]
		}
		for _, leaf := range leaves {
			leafID := nextID()
			fmt.Fprintf(&buf, "  %s [label=%q, fontsize=12];\n", leafID, leafLabel(ds, leaf.Label, opts))
			fmt.Fprintf(&buf, "  %s -> %s;\n", spID, leafID)
		}
		if overflow > 0 {
			moreID := nextID()
			fmt.Fprintf(&buf, "  %s [label=%q, style=\"rounded,filled,dashed\", fontsize=12];\n", moreID, fmt.Sprintf("+%d more", overflow))
			fmt.Fprintf(&buf, "  %s -> %s;\n", spID, moreID)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func leafLabel(ds *genome.Dataset, accession string, opts Options) string {
	if !opts.Detailed {
		return accession
	}
	rec := ds.Find(accession)
	if rec == nil {
		return accession
	}
	parts := []string{accession}
	if rec.Strain != "" {
		parts = append(parts, rec.Strain)
	}
	if rec.AssemblyLevel != "" {
		parts = append(parts, rec.AssemblyLevel)
	}
	return strings.Join(parts, "\n")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
