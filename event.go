package tally

import (
	"fmt"

	"github.com/etnz/tally/date"
	"github.com/shopspring/decimal"
)

// EventKind is the kind of an Event.
//
// The declaration order is the priority order used to break ties between
// events of the same day.
type EventKind int

const (
	EventSecurityPrice EventKind = iota
	EventExchangeRate
	EventDepositRate
	EventOpeningBalance
	EventTransaction
)

func (k EventKind) String() string {
	switch k {
	case EventSecurityPrice:
		return "security-price"
	case EventExchangeRate:
		return "exchange-rate"
	case EventDepositRate:
		return "deposit-rate"
	case EventOpeningBalance:
		return "opening-balance"
	case EventTransaction:
		return "transaction"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is one dated occurrence of the merged timeline. Records of the same
// kind and the same day are carried by a single Event.
//
// Only the payload matching Kind is set. Events are immutable once emitted.
type Event struct {
	ID   int
	Kind EventKind
	Date date.Date

	Prices       []PricePoint
	Rates        []RatePoint
	DepositRates []DepositRate
	Openings     []Opening
	Transactions []Transaction
}

func (e *Event) String() string { return fmt.Sprintf("#%d %s %s", e.ID, e.Date, e.Kind) }

// Len returns the number of records carried by e.
func (e *Event) Len() int {
	return len(e.Prices) + len(e.Rates) + len(e.DepositRates) + len(e.Openings) + len(e.Transactions)
}

// PricePoint is the price of one unit of a security, in the security currency.
type PricePoint struct {
	Date     date.Date       `json:"date"`
	Security string          `json:"security"`
	Price    decimal.Decimal `json:"price"`
}

// RatePoint is the value of one unit of Currency in the reporting currency.
type RatePoint struct {
	Date     date.Date       `json:"date"`
	Currency string          `json:"currency"`
	Rate     decimal.Decimal `json:"rate"`
}

// DepositRate is the yearly interest rate, in percent, paid on the cash of a portfolio.
type DepositRate struct {
	Date      date.Date       `json:"date"`
	Portfolio string          `json:"portfolio"`
	Rate      decimal.Decimal `json:"rate"`
}

// Opening is the cash balance of a portfolio at the ledger start date.
type Opening struct {
	Portfolio string
	Amount    Money
}

// Sources are the pre-sorted inputs of a Cursor.
//
// Prices and Rates are sorted in descending date order, DepositRates and
// Transactions in ascending date order. The Cursor relies on it and does not
// check it.
type Sources struct {
	Start        date.Date // ledger start date, when opening balances apply
	Prices       []PricePoint
	Rates        []RatePoint
	DepositRates []DepositRate
	Openings     []Opening
	Transactions []Transaction
}
