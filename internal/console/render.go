package console

import (
	"io"
	"strings"
	"text/template"
	"time"

	"ledger/internal/core"
)

// TimestampLayout is how record timestamps appear on statements.
const TimestampLayout = "02/01/2006 15:04:05"

const menuText = `
================ MENU ================
[d]	Deposit
[w]	Withdraw
[s]	Statement
[nc]	New account
[lc]	List accounts
[nu]	New user
[q]	Quit
=> `

var funcs = template.FuncMap{
	"label": func(k core.TransactionKind) string { return k.Label() },
	"when":  func(t time.Time) string { return t.Format(TimestampLayout) },
	"rule":  func(n int) string { return strings.Repeat("=", n) },
}

var statementTmpl = template.Must(template.New("statement").Funcs(funcs).Parse(
	`
================ Statement ================
{{- if not .Entries}}
No transactions were made.
{{- else}}
{{- range .Entries}}

{{label .Kind}}:
	R$ {{.Amount}}	{{when .Timestamp}}
{{- end}}
{{- end}}

Balance:
	R$ {{.Balance}}
===========================================
`))

var accountsTmpl = template.Must(template.New("accounts").Funcs(funcs).Parse(
	`{{range .}}{{rule 100}}
Agency:	{{.Agency}}
Account:	{{.Number}}
Holder:	{{.Holder}}
{{end}}`))

type accountRow struct {
	Agency string
	Number int
	Holder string
}

// RenderStatement writes st in the teller statement layout.
func RenderStatement(w io.Writer, st core.Statement) error {
	return statementTmpl.Execute(w, st)
}

// RenderAccounts writes one block per account, in the order given.
func RenderAccounts(w io.Writer, accounts []*core.Account) error {
	rows := make([]accountRow, 0, len(accounts))
	for _, a := range accounts {
		holder := ""
		if owner := a.Owner(); owner != nil {
			holder = owner.Name()
		}
		rows = append(rows, accountRow{Agency: a.Agency(), Number: a.Number(), Holder: holder})
	}
	return accountsTmpl.Execute(w, rows)
}
