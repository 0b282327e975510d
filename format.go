package ots

import (
	"fmt"
	"strings"

	"github.com/djkazic/ots-go/pkg/util"
)

// Format renders an OtsFile as an indented text diagram: a header line
// naming the file digest and hash algorithm, followed by the proof tree
// with one line per operation or attestation. Sibling branches are drawn
// with box-drawing glyphs; the last branch at each level uses "└──" and
// every other uses "├──", carrying "│   " down through its own children.
//
// Format is a pure function — it performs no I/O and contacts no
// collaborator, unlike Verify and Upgrade.
func Format(f *OtsFile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "File hash: %s (%s)\n", util.BytesToHex(f.FileDigest), f.HashOp)
	formatTimestamp(&b, f.Timestamp, "")
	return b.String()
}

func formatTimestamp(b *strings.Builder, t *Timestamp, prefix string) {
	total := t.BranchCount()
	i := 0

	branch := func() (glyph, childPrefix string) {
		last := i == total-1
		if last {
			return "└── ", prefix + "    "
		}
		return "├── ", prefix + "│   "
	}

	for _, a := range t.Attestations {
		glyph, _ := branch()
		fmt.Fprintf(b, "%s%s%s\n", prefix, glyph, a.Name())
		i++
	}

	for _, c := range t.Ops {
		glyph, childPrefix := branch()
		fmt.Fprintf(b, "%s%s%s\n", prefix, glyph, c.Op.Name())
		formatTimestamp(b, c.Sub, childPrefix)
		i++
	}
}
