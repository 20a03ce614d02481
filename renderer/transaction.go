package renderer

import (
	"bytes"
	"fmt"
	"iter"

	"github.com/etnz/passbook"
	md "github.com/nao1215/markdown"
)

// Transaction renders a transaction to a single sentence.
func Transaction(tx passbook.Transaction, cur string) string {
	switch tx.What() {
	case passbook.CmdWithdraw:
		return fmt.Sprintf("Withdrew %s on %s", Amount(tx.Abs(), cur), tx.Date())
	default:
		return fmt.Sprintf("Deposited %s on %s", Amount(tx.Abs(), cur), tx.Date())
	}
}

// OperationMarkdown renders the outcome of a deposit or a withdrawal.
func OperationMarkdown(tx passbook.Transaction, balance int64, cur string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.PlainText(Transaction(tx, cur) + ".")
	doc.PlainText(fmt.Sprintf("New balance: %s", md.Bold(Amount(balance, cur))))
	return doc.String()
}

// BalanceMarkdown renders the current balance.
func BalanceMarkdown(balance int64, count int, cur string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Balance")
	doc.PlainText(fmt.Sprintf("Balance: %s", md.Bold(Amount(balance, cur))))
	doc.PlainText(fmt.Sprintf("Transactions: %d", count))
	return doc.String()
}

// TransactionsMarkdown renders transactions as a table, in iteration order.
// The index of each transaction is shown 1-based in the # column.
func TransactionsMarkdown(title string, txs iter.Seq2[int, passbook.Transaction], cur string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1(title)

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignRight,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
		},
		Header: []string{"#", "Date", "Operation", "Amount"},
		Rows:   [][]string{},
	}
	var total int64
	for i, tx := range txs {
		total += tx.Amount()
		table.Rows = append(table.Rows, []string{
			fmt.Sprint(i + 1),
			tx.Date().String(),
			string(tx.What()),
			SignedAmount(tx.Amount(), cur),
		})
	}
	if len(table.Rows) == 0 {
		doc.PlainText("No transactions.")
		return doc.String()
	}
	doc.Table(table)
	doc.PlainText(fmt.Sprintf("Total: %s", md.Bold(SignedAmount(total, cur))))
	return doc.String()
}
