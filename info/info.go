// Package info implements the deterministic human-readable renderer
// over a Timestamp, plus a structured JSON variant built on the same
// traversal.
package info

import (
	"fmt"
	"strings"

	canonicaljson "github.com/gibson042/canonicaljson-go"

	"github.com/chronoseal/ots/leaf"
	"github.com/chronoseal/ots/op"
	"github.com/chronoseal/ots/timestamp"
	"github.com/chronoseal/ots/tree"
	"github.com/chronoseal/ots/utils"
)

// branchIndent is the width reserved for a " -> " marker, used to align
// a branch's continuation lines under its arrow.
const branchIndent = "    "

// Render produces the deterministic, one-line-per-Op/leaf rendering of
// ts. In verbose mode, each "msg = ..." line is followed by a
// continuation line giving the hex of the resulting message, and the
// output is preceded by a "# version: N" line.
func Render(ts timestamp.Timestamp, verbose bool) string {
	var lines []string
	if verbose {
		lines = append(lines, fmt.Sprintf("# version: %d", ts.Version))
	}
	lines = append(lines, fmt.Sprintf("msg = %s(FILE)", ts.FileHash.Algorithm))
	renderNode(ts.Tree, ts.FileHash.Value, "", verbose, &lines)
	return strings.Join(lines, "\n")
}

type branch struct {
	op   *op.Op
	sub  *tree.Tree
	leaf *leaf.Leaf
}

func branchesOf(t *tree.Tree) []branch {
	var out []branch
	for _, e := range t.Edges() {
		edge := e
		out = append(out, branch{op: &edge.Op, sub: edge.Sub})
	}
	for _, l := range t.Leaves() {
		lv := l
		out = append(out, branch{leaf: &lv})
	}
	return out
}

func renderNode(t *tree.Tree, msg []byte, indent string, verbose bool, lines *[]string) {
	branches := branchesOf(t)
	multi := len(branches) > 1
	for _, b := range branches {
		firstIndent := utils.Ternary(multi, indent+" -> ", indent)
		contIndent := utils.Ternary(multi, indent+branchIndent, indent)
		if b.op != nil {
			renderEdge(*b.op, b.sub, msg, firstIndent, contIndent, verbose, lines)
		} else {
			*lines = append(*lines, firstIndent+formatLeafCall(*b.leaf, msg))
		}
	}
}

func renderEdge(o op.Op, sub *tree.Tree, msg []byte, firstIndent, contIndent string, verbose bool, lines *[]string) {
	nextMsg, err := o.Apply(msg)
	if err != nil {
		*lines = append(*lines, firstIndent+fmt.Sprintf("msg = <error: %s>", err))
		return
	}
	*lines = append(*lines, firstIndent+"msg = "+formatOpCall(o))
	if verbose {
		*lines = append(*lines, contIndent+" = "+utils.HexLower(nextMsg))
	}
	renderNode(sub, nextMsg, contIndent, verbose, lines)
}

func formatOpCall(o op.Op) string {
	if o.Tag.IsUnary() {
		return fmt.Sprintf("%s(msg, %s)", o.Tag.String(), utils.HexLower(o.Payload))
	}
	return fmt.Sprintf("%s(msg)", o.Tag.String())
}

func formatLeafCall(l leaf.Leaf, msg []byte) string {
	switch l.Kind {
	case leaf.KindPending:
		return fmt.Sprintf("pendingVerify(msg, %s)", l.URL)
	case leaf.KindBitcoin:
		return fmt.Sprintf("bitcoinVerify(msg, %d)", l.Height)
	case leaf.KindLitecoin:
		return fmt.Sprintf("litecoinVerify(msg, %d)", l.Height)
	case leaf.KindEthereum:
		return fmt.Sprintf("ethereumVerify(msg, %d)", l.Height)
	default:
		return fmt.Sprintf("unknownVerify(msg, %s)", utils.HexLower(l.Tag[:]))
	}
}

// jsonPath mirrors tree.Path in a form canonicaljson can render
// deterministically: byte slices become lowercase hex.
type jsonPath struct {
	Ops  []jsonOp `json:"ops"`
	Leaf jsonLeaf `json:"leaf"`
}

type jsonOp struct {
	Tag     string `json:"tag"`
	Payload string `json:"payload,omitempty"`
}

type jsonLeaf struct {
	Kind    string `json:"kind"`
	URL     string `json:"url,omitempty"`
	Height  uint64 `json:"height,omitempty"`
	Tag     string `json:"tag,omitempty"`
	Payload string `json:"payload,omitempty"`
}

type jsonDoc struct {
	Version   uint64     `json:"version"`
	Algorithm string     `json:"algorithm"`
	FileHash  string     `json:"fileHash"`
	Paths     []jsonPath `json:"paths"`
}

// RenderJSON produces a deterministic (canonically-ordered-keys) JSON
// rendering of ts's paths, for callers that want structured output
// instead of the line-oriented Render format.
func RenderJSON(ts timestamp.Timestamp) ([]byte, error) {
	doc := jsonDoc{
		Version:   ts.Version,
		Algorithm: ts.FileHash.Algorithm.String(),
		FileHash:  utils.HexLower(ts.FileHash.Value),
	}
	for _, p := range tree.Paths(ts.Tree) {
		doc.Paths = append(doc.Paths, toJSONPath(p))
	}
	return canonicaljson.Marshal(doc)
}

func toJSONPath(p tree.Path) jsonPath {
	return jsonPath{
		Ops:  utils.SliceMap(p.Ops, toJSONOp),
		Leaf: toJSONLeaf(p.Leaf),
	}
}

func toJSONOp(o op.Op) jsonOp {
	jo := jsonOp{Tag: o.Tag.String()}
	if o.Tag.IsUnary() {
		jo.Payload = utils.HexLower(o.Payload)
	}
	return jo
}

func toJSONLeaf(l leaf.Leaf) jsonLeaf {
	jl := jsonLeaf{Kind: l.Kind.String()}
	switch l.Kind {
	case leaf.KindPending:
		jl.URL = l.URL
	case leaf.KindBitcoin, leaf.KindLitecoin, leaf.KindEthereum:
		jl.Height = l.Height
	case leaf.KindUnknown:
		jl.Tag = utils.HexLower(l.Tag[:])
		jl.Payload = utils.HexLower(l.Payload)
	}
	return jl
}
