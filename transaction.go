package tally

import (
	"fmt"

	"github.com/etnz/tally/date"
)

// TxKind is the kind of a Transaction.
type TxKind int

const (
	TxIncome TxKind = iota
	TxExpense
	TxBuy
	TxSell
	TxDividend
	TxTransfer
)

var txKindNames = [...]string{
	TxIncome:   "income",
	TxExpense:  "expense",
	TxBuy:      "buy",
	TxSell:     "sell",
	TxDividend: "dividend",
	TxTransfer: "transfer",
}

func (k TxKind) String() string {
	if k < 0 || int(k) >= len(txKindNames) {
		return fmt.Sprintf("TxKind(%d)", int(k))
	}
	return txKindNames[k]
}

// ParseTxKind returns the TxKind named s.
func ParseTxKind(s string) (TxKind, error) {
	for k, name := range txKindNames {
		if name == s {
			return TxKind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown transaction kind %q", s)
}

// Transaction is one ledger transaction, as handed over by the data layer.
//
// Amount is always positive, its direction follows from Kind. An Amount
// without currency is in the currency of the Portfolio.
type Transaction struct {
	ID        string
	Date      date.Date
	Kind      TxKind
	Portfolio string // cash account the money flows through
	Counter   string // destination portfolio of a transfer
	Payee     string
	Category  string
	Tags      []string
	Security  string
	Units     Quantity
	Amount    Money
}

func (tx Transaction) String() string {
	return fmt.Sprintf("%s %s %s %s", tx.Date, tx.Kind, tx.Portfolio, tx.Amount)
}
