package renderer

import (
	"bytes"

	md "github.com/nao1215/markdown"
)

// DestinationsMarkdown renders the saved destination names, marking the
// working ledger.
func DestinationsMarkdown(names []string, working string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Saved ledgers")
	if len(names) == 0 {
		doc.PlainText("Nothing saved yet.")
		return doc.String()
	}
	items := make([]string, 0, len(names))
	for _, name := range names {
		if name == working {
			name += " " + md.Italic("(working)")
		}
		items = append(items, name)
	}
	doc.BulletList(items...)
	return doc.String()
}
