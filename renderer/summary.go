package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/passbook"
	md "github.com/nao1215/markdown"
)

// SummaryMarkdown renders a Summary under title.
func SummaryMarkdown(title string, s passbook.Summary, cur string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(title)
	if s.Count == 0 {
		doc.PlainText("No transactions.")
		return doc.String()
	}
	doc.PlainText(fmt.Sprintf("From %s to %s, %d transactions.", s.First, s.Last, s.Count))

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"", "Count", "Total", "Average"},
		Rows: [][]string{
			{"Deposits", fmt.Sprint(s.Deposits), Amount(s.TotalIn, cur), Decimal(s.AverageIn, cur)},
			{"Withdrawals", fmt.Sprint(s.Withdrawals), Amount(s.TotalOut, cur), Decimal(s.AverageOut, cur)},
		},
	}
	doc.Table(table)
	doc.PlainText(fmt.Sprintf("Net: %s", md.Bold(SignedAmount(s.Net, cur))))

	return doc.String()
}
