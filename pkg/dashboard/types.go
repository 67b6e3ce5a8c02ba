// Package dashboard loads a read-only dashboard payload (summary cards, chart
// series, recent buyers and invoices) and projects it into HTML.
package dashboard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-jsonform/pkg/formschema"
)

// Card is one summary tile.
type Card struct {
	Title  string  `json:"title" yaml:"title"`
	Value  float64 `json:"value" yaml:"value"`
	Color  string  `json:"color" yaml:"color"`
	Change string  `json:"change" yaml:"change"`
}

// Point is one sample of the income series.
type Point struct {
	Date   string  `json:"date" yaml:"date"`
	Income float64 `json:"income" yaml:"income"`
}

// Summary aggregates income against expenses.
type Summary struct {
	Income   float64 `json:"income" yaml:"income"`
	Expenses float64 `json:"expenses" yaml:"expenses"`
	Profit   float64 `json:"profit" yaml:"profit"`
	Revenue  float64 `json:"revenue" yaml:"revenue"`
}

// Charts holds the series behind the dashboard graphs.
type Charts struct {
	IncomeExpense    []Point `json:"incomeExpense" yaml:"incomeExpense"`
	IncomeVsExpenses Summary `json:"incomeVsExpenses" yaml:"incomeVsExpenses"`
}

// Buyer is an entry in the recent buyers list.
type Buyer struct {
	Name   string  `json:"name" yaml:"name"`
	Status string  `json:"status" yaml:"status"`
	Amount float64 `json:"amount" yaml:"amount"`
}

// Invoice is a row of the recent invoices table.
type Invoice struct {
	Invoice  string  `json:"invoice" yaml:"invoice"`
	Customer string  `json:"customer" yaml:"customer"`
	Status   string  `json:"status" yaml:"status"`
	Due      string  `json:"due" yaml:"due"`
	Amount   float64 `json:"amount" yaml:"amount"`
}

// Data is the whole dashboard payload.
type Data struct {
	Cards          map[string]Card `json:"cards" yaml:"cards"`
	Charts         Charts          `json:"charts" yaml:"charts"`
	RecentBuyers   []Buyer         `json:"recentBuyers" yaml:"recentBuyers"`
	RecentInvoices []Invoice       `json:"recentInvoices" yaml:"recentInvoices"`

	// cardOrder holds the card keys as they appear in the decoded document.
	cardOrder []string
}

// CardKeys returns the card keys in document order when d came from Decode,
// sorted otherwise.
func (d Data) CardKeys() []string {
	if d.orderMatches() {
		return append([]string(nil), d.cardOrder...)
	}
	keys := make([]string, 0, len(d.Cards))
	for key := range d.Cards {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (d Data) orderMatches() bool {
	if len(d.cardOrder) != len(d.Cards) {
		return false
	}
	for _, key := range d.cardOrder {
		if _, ok := d.Cards[key]; !ok {
			return false
		}
	}
	return true
}

// Decode parses a JSON or YAML dashboard document. The order of the cards
// object is kept for CardKeys.
func Decode(doc formschema.Document) (Data, error) {
	var (
		data  Data
		order []string
		err   error
	)
	switch doc.Format() {
	case formschema.FormatYAML:
		if err := yaml.Unmarshal(doc.Raw(), &data); err != nil {
			return Data{}, fmt.Errorf("dashboard: decode %q: %w", doc.Location(), err)
		}
		order, err = yamlCardOrder(doc.Raw())
	default:
		if err := json.Unmarshal(doc.Raw(), &data); err != nil {
			return Data{}, fmt.Errorf("dashboard: decode %q: %w", doc.Location(), err)
		}
		order, err = jsonCardOrder(doc.Raw())
	}
	if err != nil {
		return Data{}, fmt.Errorf("dashboard: decode %q: cards: %w", doc.Location(), err)
	}
	data.cardOrder = order
	return data, nil
}

func yamlCardOrder(raw []byte) ([]string, error) {
	var probe struct {
		Cards yaml.Node `yaml:"cards"`
	}
	if err := yaml.Unmarshal(raw, &probe); err != nil {
		return nil, err
	}
	if probe.Cards.Kind != yaml.MappingNode {
		return nil, nil
	}
	keys := make([]string, 0, len(probe.Cards.Content)/2)
	for i := 0; i+1 < len(probe.Cards.Content); i += 2 {
		keys = append(keys, probe.Cards.Content[i].Value)
	}
	return keys, nil
}

func jsonCardOrder(raw []byte) ([]string, error) {
	var probe struct {
		Cards json.RawMessage `json:"cards"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, err
	}
	if len(probe.Cards) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(probe.Cards))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		// null or a non-object; Unmarshal already reported type errors.
		return nil, err
	}
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}
