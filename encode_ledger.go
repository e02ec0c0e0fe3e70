package tally

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/etnz/tally/date"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// lineNamespace is the namespace of the ids generated for transactions
// declared without one.
var lineNamespace = uuid.MustParse("5b0c8a6e-4f7e-4d4b-9a59-0c1f3e7d2a11")

// record is the union of every line type of a JSONL ledger, the "type" field
// tells which fields apply.
type record struct {
	Type      string          `json:"type"`
	ID        string          `json:"id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Date      date.Date       `json:"date,omitzero"`
	Kind      string          `json:"kind,omitempty"`
	Portfolio string          `json:"portfolio,omitempty"`
	Counter   string          `json:"counter,omitempty"`
	Payee     string          `json:"payee,omitempty"`
	Category  string          `json:"category,omitempty"`
	Tags      []string        `json:"tags,omitempty"`
	Security  string          `json:"security,omitempty"`
	Units     decimal.Decimal `json:"units,omitzero"`
	Amount    decimal.Decimal `json:"amount,omitzero"`
	Price     decimal.Decimal `json:"price,omitzero"`
	Rate      decimal.Decimal `json:"rate,omitzero"`
	Currency  string          `json:"currency,omitempty"`
	Sequence  int             `json:"sequence,omitempty"`
	Closed    date.Date       `json:"closed,omitzero"`
}

func (r record) name() string {
	if r.Name == "" {
		return r.ID
	}
	return r.Name
}

// DecodeLedger reads a JSONL ledger: one JSON object per line, its "type"
// field being one of "start", "payee", "security", "portfolio", "taxbasis",
// "tag", "price", "rate", "deposit-rate", "opening" or "tx".
//
// Transactions without an id get one derived from their line number and
// content, so that it is stable across reads and identical lines get distinct
// ids.
func DecodeLedger(r io.Reader) (*Ledger, error) {
	ledger := NewLedger()
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue // Skip empty lines
		}
		var rec record
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("line %d: could not decode %q: %w", n, string(line), err)
		}
		if err := ledger.decodeRecord(rec, n, line); err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	return ledger, nil
}

func (l *Ledger) decodeRecord(rec record, n int, line []byte) error {
	switch rec.Type {
	case "start":
		l.SetStart(rec.Date)
	case "payee":
		return l.Declare(NewPayee(rec.ID, rec.name()))
	case "security":
		return l.Declare(NewSecurity(rec.ID, rec.name(), rec.Currency, rec.Portfolio).Closed(rec.Closed))
	case "portfolio":
		return l.Declare(NewPortfolio(rec.ID, rec.name(), rec.Currency).Closed(rec.Closed))
	case "taxbasis":
		return l.Declare(NewTaxBasis(rec.ID, rec.name(), rec.Sequence))
	case "tag":
		return l.Declare(NewTag(rec.ID, rec.name()))
	case "price":
		l.AddPrice(PricePoint{Date: rec.Date, Security: rec.Security, Price: rec.Price})
	case "rate":
		l.AddRate(RatePoint{Date: rec.Date, Currency: rec.Currency, Rate: rec.Rate})
	case "deposit-rate":
		l.AddDepositRate(DepositRate{Date: rec.Date, Portfolio: rec.Portfolio, Rate: rec.Rate})
	case "opening":
		l.AddOpening(Opening{Portfolio: rec.Portfolio, Amount: M(rec.Amount, rec.Currency)})
	case "tx":
		kind, err := ParseTxKind(rec.Kind)
		if err != nil {
			return err
		}
		id := rec.ID
		if id == "" {
			id = uuid.NewSHA1(lineNamespace, fmt.Appendf(nil, "%d:%s", n, line)).String()
		}
		l.AddTransaction(Transaction{
			ID:        id,
			Date:      rec.Date,
			Kind:      kind,
			Portfolio: rec.Portfolio,
			Counter:   rec.Counter,
			Payee:     rec.Payee,
			Category:  rec.Category,
			Tags:      rec.Tags,
			Security:  rec.Security,
			Units:     Q(rec.Units),
			Amount:    M(rec.Amount, rec.Currency),
		})
	default:
		return fmt.Errorf("unknown record type %q", rec.Type)
	}
	return nil
}

// EncodeLedger writes l in JSONL format, in a canonical order: the start
// date, the entities by kind, then the dated records in chronological order.
func EncodeLedger(w io.Writer, l *Ledger) error {
	enc := json.NewEncoder(w)
	write := func(rec record) error {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("failed to write %s record: %w", rec.Type, err)
		}
		return nil
	}

	var recs []record
	if !l.start.IsZero() {
		recs = append(recs, record{Type: "start", Date: l.start})
	}
	for k := range entityKindCount {
		for e := range l.Entities(k) {
			recs = append(recs, entityRecord(e))
		}
	}
	for _, o := range l.openings {
		recs = append(recs, record{Type: "opening", Portfolio: o.Portfolio, Amount: o.Amount.value, Currency: o.Amount.cur})
	}
	var dated []record
	for _, p := range l.prices {
		dated = append(dated, record{Type: "price", Date: p.Date, Security: p.Security, Price: p.Price})
	}
	for _, r := range l.rates {
		dated = append(dated, record{Type: "rate", Date: r.Date, Currency: r.Currency, Rate: r.Rate})
	}
	for _, r := range l.depositRates {
		dated = append(dated, record{Type: "deposit-rate", Date: r.Date, Portfolio: r.Portfolio, Rate: r.Rate})
	}
	for _, tx := range l.transactions {
		dated = append(dated, record{
			Type:      "tx",
			ID:        tx.ID,
			Date:      tx.Date,
			Kind:      tx.Kind.String(),
			Portfolio: tx.Portfolio,
			Counter:   tx.Counter,
			Payee:     tx.Payee,
			Category:  tx.Category,
			Tags:      tx.Tags,
			Security:  tx.Security,
			Units:     tx.Units.value,
			Amount:    tx.Amount.value,
			Currency:  tx.Amount.cur,
		})
	}
	slices.SortStableFunc(dated, func(a, b record) int { return a.Date.Compare(b.Date) })

	for _, rec := range append(recs, dated...) {
		if err := write(rec); err != nil {
			return err
		}
	}
	return nil
}

func entityRecord(e Entity) record {
	rec := record{Type: e.Kind().String(), ID: e.ID()}
	if e.Name() != e.ID() {
		rec.Name = e.Name()
	}
	switch e := e.(type) {
	case Security:
		rec.Currency, rec.Portfolio, rec.Closed = e.Currency(), e.Portfolio(), e.ClosedOn()
	case Portfolio:
		rec.Currency, rec.Closed = e.Currency(), e.ClosedOn()
	case TaxBasis:
		rec.Sequence = e.Sequence()
	}
	return rec
}
