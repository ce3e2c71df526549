package report

import (
	"html/template"
	"strings"
	"time"

	"github.com/lendledger/lendledger-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// StatementDocument carries everything the statement template needs
type StatementDocument struct {
	Loan        *domain.Loan
	Borrower    *domain.Borrower
	Statement   *domain.Statement
	GeneratedAt time.Time
}

var statementTmpl = template.Must(template.New("statement").Funcs(template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
	"date":  func(t time.Time) string { return t.Format("2006-01-02") },
	"ts":    func(t time.Time) string { return t.Format("2006-01-02 15:04") },
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>Loan Statement #{{.Loan.ID}}</title>
<style>
  body { font-family: Helvetica, Arial, sans-serif; font-size: 12px; color: #222; }
  h1 { font-size: 18px; }
  h2 { font-size: 14px; margin-top: 24px; }
  table { border-collapse: collapse; width: 100%; margin-top: 8px; }
  th, td { border-bottom: 1px solid #ccc; padding: 6px 8px; text-align: left; }
  th { background: #f2f2f2; }
  td.amount, th.amount { text-align: right; }
  .negative { color: #b00020; }
  .summary td { border: none; padding: 3px 8px; }
  .footer { margin-top: 32px; font-size: 10px; color: #777; }
</style>
</head>
<body>
<h1>Loan Statement — #{{.Loan.ID}}</h1>

<table class="summary">
  <tr><td>Borrower</td><td>{{.Borrower.Name}}</td></tr>
  <tr><td>Principal</td><td>{{money .Loan.Terms.Principal}}</td></tr>
  <tr><td>Annual Rate (%)</td><td>{{.Loan.Terms.AnnualRatePercent}}</td></tr>
  <tr><td>Term (months)</td><td>{{.Loan.Terms.TermMonths}}</td></tr>
  <tr><td>Monthly EMI</td><td>{{money .Loan.EMI}}</td></tr>
  <tr><td>Created at</td><td>{{ts .Loan.CreatedAt}}</td></tr>
</table>

<h2>Balance</h2>
<table class="summary">
  <tr><td>Scheduled total</td><td class="amount">{{money .Statement.ScheduledTotal}}</td></tr>
  <tr><td>Total paid</td><td class="amount">{{money .Statement.TotalPaid}}</td></tr>
  <tr><td>Outstanding balance</td><td class="amount{{if .Statement.OutstandingBalance.IsNegative}} negative{{end}}">{{money .Statement.OutstandingBalance}}</td></tr>
</table>

<h2>Payments</h2>
{{if .Statement.Entries}}
<table>
  <tr>
    <th>Date</th>
    <th class="amount">Amount</th>
    <th class="amount">Balance After</th>
    <th>Recorded At</th>
  </tr>
  {{range .Statement.Entries}}
  <tr>
    <td>{{date .Payment.PaymentDate}}</td>
    <td class="amount">{{money .Payment.Amount}}</td>
    <td class="amount{{if .RunningBalanceAfter.IsNegative}} negative{{end}}">{{money .RunningBalanceAfter}}</td>
    <td>{{ts .Payment.CreatedAt}}</td>
  </tr>
  {{end}}
</table>
{{else}}
<p>No payments recorded.</p>
{{end}}

<div class="footer">Generated at {{ts .GeneratedAt}}</div>
</body>
</html>
`))

// StatementHTML renders the statement document to a standalone HTML page
// suitable for PDF printing.
func StatementHTML(doc StatementDocument) (string, error) {
	var b strings.Builder
	if err := statementTmpl.Execute(&b, doc); err != nil {
		return "", err
	}
	return b.String(), nil
}
