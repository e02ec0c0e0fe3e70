package tally

import "fmt"

// ValueType is the type of the decimal stored for an attribute.
type ValueType int

const (
	TypeMoney ValueType = iota
	TypePrice
	TypeRatio
	TypeUnits
	TypeRate
	TypeDate
)

func (t ValueType) String() string {
	switch t {
	case TypeMoney:
		return "money"
	case TypePrice:
		return "price"
	case TypeRatio:
		return "ratio"
	case TypeUnits:
		return "units"
	case TypeRate:
		return "rate"
	case TypeDate:
		return "date"
	default:
		return fmt.Sprintf("ValueType(%d)", int(t))
	}
}

// Attr identifies one attribute of a bucket.
type Attr int

const (
	// AttrIncome is the money received, in the reporting currency.
	AttrIncome Attr = iota
	// AttrExpense is the money spent, in the reporting currency. It is positive.
	AttrExpense
	// AttrUnits is the number of units of a security held.
	AttrUnits
	// AttrPrice is the last price used to value non-zero units, in the security currency.
	AttrPrice
	// AttrExchangeRate is the last rate used to value a non-zero foreign amount.
	AttrExchangeRate
	// AttrInvested is the cost basis of the units held, in the reporting currency.
	AttrInvested
	// AttrRealisedGains is the gain locked in by sales, in the reporting currency.
	AttrRealisedGains
	// AttrLocalValue is the value in the entity currency: units × price for a
	// security, cash balance for a portfolio.
	AttrLocalValue
	// AttrHoldings is the valuation of the securities owned by a portfolio.
	AttrHoldings
	// AttrValuation is the value in the reporting currency.
	AttrValuation
	// AttrFXRevaluation is the part of the valuation caused by exchange rate
	// moves. It only exists for foreign buckets. For a portfolio it covers
	// its cash and the foreign securities it owns.
	AttrFXRevaluation
	// AttrDepositRate is the yearly interest rate, in percent, paid on cash.
	AttrDepositRate
	// AttrLastActivity is the date of the last transaction.
	AttrLastActivity

	attrCount
)

type attrInfo struct {
	name  string
	typ   ValueType
	local bool // expressed in the entity currency rather than the reporting one
}

var attrInfos = [attrCount]attrInfo{
	AttrIncome:        {"income", TypeMoney, false},
	AttrExpense:       {"expense", TypeMoney, false},
	AttrUnits:         {"units", TypeUnits, false},
	AttrPrice:         {"price", TypePrice, true},
	AttrExchangeRate:  {"exchangeRate", TypeRatio, false},
	AttrInvested:      {"invested", TypeMoney, false},
	AttrRealisedGains: {"realisedGains", TypeMoney, false},
	AttrLocalValue:    {"localValue", TypeMoney, true},
	AttrHoldings:      {"holdings", TypeMoney, false},
	AttrValuation:     {"valuation", TypeMoney, false},
	AttrFXRevaluation: {"fxRevaluation", TypeMoney, false},
	AttrDepositRate:   {"depositRate", TypeRate, false},
	AttrLastActivity:  {"lastActivity", TypeDate, false},
}

func (a Attr) String() string {
	if a < 0 || a >= attrCount {
		return fmt.Sprintf("Attr(%d)", int(a))
	}
	return attrInfos[a].name
}

// Type returns the type of the values stored for a.
func (a Attr) Type() ValueType { return attrInfos[a].typ }

// Local reports whether a money or price attribute is in the entity currency.
func (a Attr) Local() bool { return attrInfos[a].local }

// Additive reports whether values of a can be summed across buckets:
// reporting currency money and units.
func (a Attr) Additive() bool {
	switch a.Type() {
	case TypeMoney:
		return !a.Local()
	case TypeUnits:
		return true
	}
	return false
}

// ParseAttr returns the attribute named s.
func ParseAttr(s string) (Attr, error) {
	for a := range attrCount {
		if attrInfos[a].name == s {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown attribute %q", s)
}
