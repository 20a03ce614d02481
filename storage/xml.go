package storage

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/beevik/etree"
	"github.com/etnz/passbook"
	"github.com/etnz/passbook/date"
)

// XML stores each destination as a "<destination>.xml" file in a directory:
//
//	<passbook>
//	  <transaction date="2024-01-05" amount="100"/>
//	  <transaction date="2024-01-06" amount="-30"/>
//	</passbook>
type XML struct {
	dir dir
}

// NewXML creates an XML store in root. The directory is created on the first
// save.
func NewXML(root string) *XML {
	return &XML{dir: dir{root: root, ext: ".xml"}}
}

// Save writes txs to the destination file, replacing it.
func (s *XML) Save(ctx context.Context, destination string, txs []passbook.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("passbook")
	for _, tx := range txs {
		el := root.CreateElement("transaction")
		el.CreateAttr("date", tx.Date().String())
		el.CreateAttr("amount", strconv.FormatInt(tx.Amount(), 10))
	}
	doc.Indent(2)

	return s.dir.write(destination, func(w io.Writer) error {
		_, err := doc.WriteTo(w)
		return err
	})
}

// Load reads the transactions of the destination file.
func (s *XML) Load(ctx context.Context, destination string) ([]passbook.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var txs []passbook.Transaction
	err := s.dir.read(destination, func(r io.Reader) (err error) {
		txs, err = decodeXML(r)
		if err != nil {
			return fmt.Errorf("decode %s%s: %w", destination, s.dir.ext, err)
		}
		return nil
	})
	return txs, err
}

// Destinations lists the saved destinations, sorted.
func (s *XML) Destinations(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.dir.destinations()
}

func decodeXML(r io.Reader) ([]passbook.Transaction, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}
	root := doc.SelectElement("passbook")
	if root == nil {
		return nil, fmt.Errorf("missing <passbook> root element")
	}

	elements := root.SelectElements("transaction")
	txs := make([]passbook.Transaction, 0, len(elements))
	for i, el := range elements {
		day, err := date.ParseISO(el.SelectAttrValue("date", ""))
		if err != nil {
			return nil, fmt.Errorf("transaction #%d: %w", i+1, err)
		}
		amount, err := strconv.ParseInt(el.SelectAttrValue("amount", ""), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("transaction #%d: %w: %w", i+1, passbook.ErrInvalidAmount, err)
		}
		tx := passbook.NewTransaction(amount, day)
		if err := tx.Validate(); err != nil {
			return nil, fmt.Errorf("transaction #%d: %w", i+1, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}
