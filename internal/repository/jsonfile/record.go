package jsonfile

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"bank-account/internal/domain"
)

// accountRecord mirrors the on-disk document:
//
//	{"balance": "123.45", "transactions": [...], "pin": "1234" | null}
type accountRecord struct {
	Balance      *textDecimal        `json:"balance"`
	Transactions []transactionRecord `json:"transactions"`
	PIN          *string             `json:"pin"`
}

type transactionRecord struct {
	Type         string         `json:"type"`
	Amount       numericDecimal `json:"amount"`
	Timestamp    string         `json:"timestamp"`
	BalanceAfter numericDecimal `json:"balance_after"`
}

// textDecimal is written as a JSON string. Reading also accepts a bare number.
type textDecimal struct {
	decimal.Decimal
}

func (d textDecimal) MarshalJSON() ([]byte, error) {
	return json.Marshal(domain.FormatExact(d.Decimal))
}

func (d *textDecimal) UnmarshalJSON(b []byte) error {
	return d.Decimal.UnmarshalJSON(b)
}

// numericDecimal is written as a JSON number spelled out from the exact
// decimal text, so no float64 conversion happens on the way out. Reading
// accepts numbers written by float encoders as well as numeric strings.
type numericDecimal struct {
	decimal.Decimal
}

func (d numericDecimal) MarshalJSON() ([]byte, error) {
	return []byte(domain.FormatExact(d.Decimal)), nil
}

func (d *numericDecimal) UnmarshalJSON(b []byte) error {
	return d.Decimal.UnmarshalJSON(b)
}

func toRecord(a *domain.Account) accountRecord {
	rec := accountRecord{
		Balance:      &textDecimal{a.Balance},
		Transactions: make([]transactionRecord, 0, len(a.Transactions)),
		PIN:          a.PIN,
	}
	for _, txn := range a.Transactions {
		rec.Transactions = append(rec.Transactions, transactionRecord{
			Type:         string(txn.Kind),
			Amount:       numericDecimal{txn.Amount},
			Timestamp:    domain.FormatTimestamp(txn.Timestamp),
			BalanceAfter: numericDecimal{txn.BalanceAfter},
		})
	}
	return rec
}

func fromRecord(rec *accountRecord) (*domain.Account, error) {
	a := domain.NewAccount()
	if rec.Balance != nil {
		a.Balance = rec.Balance.Decimal
	}
	a.PIN = rec.PIN
	for _, tr := range rec.Transactions {
		a.Transactions = append(a.Transactions, domain.Transaction{
			Kind:         domain.Kind(tr.Type),
			Amount:       tr.Amount.Decimal,
			Timestamp:    domain.ParseTimestamp(tr.Timestamp),
			BalanceAfter: tr.BalanceAfter.Decimal,
		})
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}
