package invoice

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/wudi/invoicekit/layout"
	"github.com/wudi/invoicekit/money"
	"github.com/wudi/invoicekit/translit"
)

// Font resource names registered with the page builder.
const (
	fontRegular = "Regular"
	fontBold    = "Bold"
)

// Spacing around the item table and between legal clauses.
const (
	tableSpacing  = 10
	clauseSpacing = 5
)

// itemColumns are the widths of the index, description, quantity and unit
// price columns as shares of the printable width. The amount column takes
// the rest.
var itemColumns = []float64{0.05, 0.44, 0.10, 0.15}

type styles struct {
	label layout.Style
	body  layout.Style
	terms layout.Style
}

func defaultStyles() styles {
	return styles{
		label: layout.Style{Font: fontBold, Size: 10},
		body:  layout.Style{Font: fontRegular, Size: 10},
		terms: layout.Style{Font: fontRegular, Size: 8},
	}
}

// page holds the resolved inputs of one rendering. Amounts are computed
// once here and reused by every section that prints them.
type page struct {
	inv      Invoice
	customer Customer
	profile  *Profile
	st       styles

	total  decimal.Decimal
	phrase money.Phrase
}

func newPage(inv Invoice, customer Customer, profile *Profile, st styles) *page {
	total := inv.Total()
	return &page{
		inv:      inv,
		customer: customer,
		profile:  profile,
		st:       st,
		total:    total,
		phrase:   money.SpellOut(total, inv.Currency).Capitalized(),
	}
}

// section is one two-column row of the framed header. Absent sections are
// skipped without leaving a gap.
type section struct {
	name    string
	present bool
	en, uk  func() layout.Block
}

func (p *page) sections() []section {
	always := func(name string, en, uk func() layout.Block) section {
		return section{name: name, present: true, en: en, uk: uk}
	}
	return []section{
		always("date", p.dateEN, p.dateUK),
		always("supplier", p.supplierEN, p.supplierUK),
		always("customer", p.customerEN, p.customerUK),
		{name: "payer", present: p.customer.Payer != nil, en: p.payerEN, uk: p.payerUK},
		always("subject", p.subjectEN, p.subjectUK),
		always("currency", p.currencyEN, p.currencyUK),
		always("price", p.priceEN, p.priceUK),
		always("terms", p.termsEN, p.termsUK),
	}
}

func (p *page) title() layout.Block {
	return layout.Text(p.st.label, "Invoice (offer) / Інвойс (оферта) № "+strconv.Itoa(p.inv.Number))
}

func (p *page) datePlace() string {
	s := p.inv.StartDate.Printed()
	if p.inv.Place != "" {
		s += ", " + p.inv.Place
	}
	return s
}

func (p *page) dateEN() layout.Block {
	return layout.Text(p.st.label, "Date and Place: ").Add(p.st.body, p.datePlace())
}

func (p *page) dateUK() layout.Block {
	return layout.Text(p.st.label, "Дата та місце: ").Add(p.st.body, p.datePlace())
}

func (p *page) supplierEN() layout.Block {
	var sb strings.Builder
	if p.profile.Entrepreneur {
		sb.WriteString("Individual Entrepreneur ")
	}
	if p.profile.HasFullName() {
		sb.WriteString(translit.Transliterate(p.profile.LastName) + " " + translit.Transliterate(p.profile.FirstName) + "\n")
	}
	sb.WriteString("address: " + translit.Transliterate(p.profile.Address.String()))
	if p.profile.TaxNumber != "" {
		sb.WriteString("\nIndividual Tax Number - " + p.profile.TaxNumber)
	}
	return layout.Text(p.st.label, "Supplier: ").Add(p.st.body, sb.String())
}

func (p *page) supplierUK() layout.Block {
	var sb strings.Builder
	if p.profile.Entrepreneur {
		sb.WriteString("ФОП ")
	}
	if p.profile.HasFullName() {
		sb.WriteString(p.profile.LastName + " " + p.profile.FirstName + " " + p.profile.Patronymic + "\n")
	}
	sb.WriteString("що проживає за адресою " + p.profile.Address.String())
	if p.profile.TaxNumber != "" {
		sb.WriteString("\nІПН - " + p.profile.TaxNumber)
	}
	return layout.Text(p.st.label, "Виконавець: ").Add(p.st.body, sb.String())
}

// partyText is the name, address and representative of a party.
func partyText(party Party, english bool) string {
	var sb strings.Builder
	if party.Name != "" {
		sb.WriteString(party.Name + "\n")
	}
	sb.WriteString(party.Address.String())
	if r := party.Represented; r != nil {
		note := r.NoteUK
		if english {
			sb.WriteString("\nRepresented by ")
			note = r.NoteEN
		} else {
			sb.WriteString("\nв особі ")
		}
		if r.Name != "" {
			sb.WriteString(r.Name)
			if note != "" {
				sb.WriteString(", " + note)
			}
		}
	}
	return sb.String()
}

func (p *page) customerEN() layout.Block {
	return layout.Text(p.st.label, "Customer: ").Add(p.st.body, partyText(p.customer.Party, true))
}

func (p *page) customerUK() layout.Block {
	return layout.Text(p.st.label, "Замовник: ").Add(p.st.body, partyText(p.customer.Party, false))
}

func (p *page) payerText(english bool) string {
	payer := *p.customer.Payer
	var sb strings.Builder
	if payer.Name != "" {
		sb.WriteString(payer.Name + "\n")
		if c := p.customer.Name; c != "" {
			if english {
				sb.WriteString("(on behalf of " + c + ")\n")
			} else {
				sb.WriteString("(від імені " + c + ")\n")
			}
		}
	}
	// The name was written above, with the customer line after it.
	payer.Name = ""
	sb.WriteString(partyText(payer, english))
	return sb.String()
}

func (p *page) payerEN() layout.Block {
	return layout.Text(p.st.label, "Payer (authorized by Customer to make payments):\n").Add(p.st.body, p.payerText(true))
}

func (p *page) payerUK() layout.Block {
	return layout.Text(p.st.label, "Платник (повірена особа Замовника щодо розрахунків):\n").Add(p.st.body, p.payerText(false))
}

// subjects lists the distinct subject names of the items in one language.
func (p *page) subjects(english bool) string {
	seen := make(map[string]bool)
	var names []string
	for _, it := range p.inv.Items {
		if it.Subject == nil {
			continue
		}
		name := it.Subject.NameUK
		if english {
			name = it.Subject.NameEN
		}
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return strings.Join(names, ", ")
}

func (p *page) subjectEN() layout.Block {
	return layout.Text(p.st.label, "Subject Matter: ").Add(p.st.body, p.subjects(true))
}

func (p *page) subjectUK() layout.Block {
	return layout.Text(p.st.label, "Предмет: ").Add(p.st.body, p.subjects(false))
}

func (p *page) currencyEN() layout.Block {
	return layout.Text(p.st.label, "Currency: ").Add(p.st.body, p.inv.Currency.Code()).Unwrapped()
}

func (p *page) currencyUK() layout.Block {
	return layout.Text(p.st.label, "Валюта: ").Add(p.st.body, p.inv.Currency.Code()).Unwrapped()
}

func (p *page) priceEN() layout.Block {
	return layout.Text(p.st.label, "Price (amount) of the goods/services: ").Add(p.st.body, money.Format(p.total))
}

func (p *page) priceUK() layout.Block {
	return layout.Text(p.st.label, "Ціна (загальна вартість) товарів/послуг: ").Add(p.st.body, money.Format(p.total))
}

func (p *page) termsEN() layout.Block {
	return layout.Text(p.st.label, "Terms of payments and acceptation: ").
		Add(p.st.body, "Postpayment of 100% upon the services delivery. The services being rendered at the location of the Customer.")
}

func (p *page) termsUK() layout.Block {
	return layout.Text(p.st.label, "Умови оплати та передачі: ").
		Add(p.st.body, "100% післяплата за фактом виконання послуг. Послуги надаються за місцем реєстрації Замовника.")
}

// description is the English subject name, followed by the Ukrainian one
// when both are known.
func description(s *Subject) string {
	if s == nil || s.NameEN == "" {
		return ""
	}
	if s.NameUK == "" {
		return s.NameEN
	}
	return s.NameEN + " / " + s.NameUK
}

func (p *page) itemTable() layout.Table {
	body := p.st.body
	cell := func(col int, text string) layout.Cell {
		return layout.Cell{Col: col, Blocks: []layout.Block{layout.Text(body, text)}}
	}
	code := p.inv.Currency.Code()
	rows := []layout.Row{{Cells: []layout.Cell{
		cell(0, "№"),
		cell(1, "Description/\nОпис"),
		cell(2, "Quantity/\nКількість"),
		cell(3, "Price, "+code+"/\nЦіна, "+code),
		cell(4, "Amount, "+code+"/\nЗагальна вартість, "+code),
	}}}

	items := p.inv.Items
	if len(items) == 0 {
		items = []LineItem{{}}
	}
	for i, it := range items {
		rows = append(rows, layout.Row{Cells: []layout.Cell{
			cell(0, strconv.Itoa(i+1)),
			cell(1, description(it.Subject)),
			cell(2, strconv.FormatInt(it.Quantity, 10)),
			cell(3, money.Format(it.Price)),
			cell(4, money.Format(it.Amount())),
		}})
	}

	amount := money.Format(p.total)
	rows = append(rows,
		layout.Row{Cells: []layout.Cell{
			cell(3, "Total/Усього:"),
			cell(4, amount),
		}},
		layout.Row{Cells: []layout.Cell{
			{Col: 0, Span: 4, Blocks: []layout.Block{
				layout.Text(body, "Total to pay /\nУсього до сплати:"),
				layout.Text(body, p.phrase.EN.String()+"\n"+p.phrase.UK.String()),
			}},
			cell(4, amount),
		}},
	)
	return layout.Table{Fractions: itemColumns, Rows: rows}
}

// clauses are the legal terms under the item table.
func (p *page) clauses() []string {
	due := p.inv.EndDate.Printed()
	return []string{
		"All charges of correspondent banks are at the Supplier’s expenses. / Усі комісії банків-кореспондентів сплачує виконавець.",
		"This Invoice is an offer to enter into the agreement. " +
			"Payment according hereto shall be deemed as an acceptation of the offer " +
			"to enter into the agreement on the terms and conditions set out herein. " +
			"Payment according hereto may be made not later than " + due + " / " +
			"Цей Інвойс є пропозицією укласти договір. Оплата за цим Інвойсом є " +
			"прийняттям пропозиції укласти договір на умовах, викладених в цьому Інвойсі. " +
			"Оплата за цим інвойсом може бути здійснена не пізніше " + due + ".",
		"Please note, that payment according hereto at the same time is " +
			"the evidence of the work performance and the service delivery in " +
			"full scope, acceptation thereof and the confirmation of final " +
			"mutual installments between Parties. / Оплата згідно цього Інвойсу " +
			"одночасно є свідченням виконання робіт та надання послуг в повному " +
			"обсязі, їх прийняття, а також підтвердженням кінцевих розрахунків між Сторонами.",
		"Payment according hereto shall be also the confirmation that Parties " +
			"have no claims to each other and have no intention to submit any claims. " +
			"The agreement shall not include penalty and fine clauses. / Оплата згідно " +
			"цього Інвойсу є підтвердженням того, що Сторони не мають взаємних претензій " +
			"та не мають наміру направляти рекламації. Договір не передбачає штрафних санкцій.",
		"The Parties shall not be liable for non-performance or improper performance " +
			"of the obligations under the agreement during the term of insuperable force " +
			"circumstances. / Сторони звільняються від відповідальності за невиконання " +
			"чи неналежне виконання зобов’язань за договором на час дії форс-мажорних обставин.",
		"Any disputes arising out of the agreement between the Parties shall be settled " +
			"by the competent court at the location of a defendant. / Всі спори, що виникнуть " +
			"між Сторонами по договору будуть розглядатись компетентним судом за місцезнаходження відповідача.",
	}
}

func firstRune(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}

func (p *page) signature() layout.Block {
	text := "Supplier/Виконавець:\t______________________________________\t"
	if pr := p.profile; pr.HasFullName() {
		text += "(" + translit.Transliterate(pr.LastName) + " " + translit.Transliterate(pr.FirstName) +
			" / " + pr.LastName + " " + firstRune(pr.FirstName) + ". " + firstRune(pr.Patronymic) + ".)"
	}
	return layout.Text(p.st.body, text).Unwrapped()
}
