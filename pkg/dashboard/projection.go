package dashboard

import "strings"

// CardView is a card prepared for display.
type CardView struct {
	Key     string `json:"key"`
	Title   string `json:"title"`
	Initial string `json:"initial"`
	Value   string `json:"value"`
	Color   string `json:"color"`
	Change  string `json:"change"`
}

// SummaryItem is one figure of the income summary.
type SummaryItem struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Class string `json:"class"`
}

// PointView is a chart sample with its formatted value.
type PointView struct {
	Date   string `json:"date"`
	Income string `json:"income"`
}

// BuyerView is a buyer prepared for display.
type BuyerView struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	StatusClass string `json:"statusClass"`
	Amount      string `json:"amount"`
}

// InvoiceView is an invoice row prepared for display.
type InvoiceView struct {
	Invoice     string `json:"invoice"`
	Customer    string `json:"customer"`
	Status      string `json:"status"`
	StatusClass string `json:"statusClass"`
	Due         string `json:"due"`
	Amount      string `json:"amount"`
}

// Projection is the display model handed to templates.
type Projection struct {
	Cards    []CardView    `json:"cards"`
	Series   []PointView   `json:"series"`
	Summary  []SummaryItem `json:"summary"`
	Split    []SummaryItem `json:"split"`
	Buyers   []BuyerView   `json:"buyers"`
	Invoices []InvoiceView `json:"invoices"`
}

// Project formats data for display. Cards follow CardKeys.
func Project(data Data) Projection {
	var out Projection
	for _, key := range data.CardKeys() {
		card := data.Cards[key]
		out.Cards = append(out.Cards, CardView{
			Key:     key,
			Title:   card.Title,
			Initial: initial(card.Title),
			Value:   CardValue(card.Value),
			Color:   card.Color,
			Change:  card.Change,
		})
	}

	for _, point := range data.Charts.IncomeExpense {
		out.Series = append(out.Series, PointView{Date: point.Date, Income: Amount(point.Income)})
	}

	summary := data.Charts.IncomeVsExpenses
	out.Summary = []SummaryItem{
		{Label: "Today Income", Value: Amount(summary.Income), Class: "text-green-600"},
		{Label: "Today Expenses", Value: Amount(summary.Expenses), Class: "text-red-500"},
		{Label: "Today Profit", Value: Amount(summary.Profit), Class: "text-green-700"},
		{Label: "Total Revenue", Value: Amount(summary.Revenue), Class: "text-orange-500"},
	}
	out.Split = []SummaryItem{
		{Label: "Income", Value: Decimal(summary.Income), Class: "fg-split-income"},
		{Label: "Expenses", Value: Decimal(summary.Expenses), Class: "fg-split-expenses"},
		{Label: "Profit", Value: Decimal(summary.Profit), Class: "fg-split-profit"},
	}

	for _, buyer := range data.RecentBuyers {
		out.Buyers = append(out.Buyers, BuyerView{
			Name:        buyer.Name,
			Status:      buyer.Status,
			StatusClass: BuyerStatusClass(buyer.Status),
			Amount:      Amount(buyer.Amount),
		})
	}

	for _, invoice := range data.RecentInvoices {
		out.Invoices = append(out.Invoices, InvoiceView{
			Invoice:     invoice.Invoice,
			Customer:    invoice.Customer,
			Status:      invoice.Status,
			StatusClass: InvoiceStatusClass(invoice.Status),
			Due:         invoice.Due,
			Amount:      InvoiceAmount(invoice.Amount),
		})
	}
	return out
}

// initial is the first letter of the first word, as shown in the card badge.
func initial(title string) string {
	fields := strings.Fields(title)
	if len(fields) == 0 {
		return ""
	}
	for _, r := range fields[0] {
		return string(r)
	}
	return ""
}
