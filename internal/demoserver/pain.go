package demoserver

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Issue is one validation finding, encoded the way the payments service reports
// them.
type Issue struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Line     int    `json:"line,omitempty"`
	Severity string `json:"severity,omitempty"`
}

// ─── pain.001 model ───────────────────────────────────────────────────

type painDocument struct {
	XMLName xml.Name  `xml:"Document"`
	Init    painInitn `xml:"CstmrCdtTrfInitn"`
}

type painInitn struct {
	MsgID    string       `xml:"GrpHdr>MsgId"`
	Created  string       `xml:"GrpHdr>CreDtTm"`
	NbOfTxs  string       `xml:"GrpHdr>NbOfTxs"`
	Payments []painPmtInf `xml:"PmtInf"`
}

type painPmtInf struct {
	ID           string       `xml:"PmtInfId"`
	ExecDate     string       `xml:"ReqdExctnDt"`
	DebtorName   string       `xml:"Dbtr>Nm"`
	DebtorIBAN   string       `xml:"DbtrAcct>Id>IBAN"`
	DebtorBIC    string       `xml:"DbtrAgt>FinInstnId>BIC"`
	Transactions []painCdtTrf `xml:"CdtTrfTxInf"`
}

type painCdtTrf struct {
	EndToEndID   string     `xml:"PmtId>EndToEndId"`
	Amount       painAmount `xml:"Amt>InstdAmt"`
	CreditorBIC  string     `xml:"CdtrAgt>FinInstnId>BIC"`
	CreditorName string     `xml:"Cdtr>Nm"`
	CreditorIBAN string     `xml:"CdtrAcct>Id>IBAN"`
	Remittance   string     `xml:"RmtInf>Ustrd"`
}

type painAmount struct {
	Currency string `xml:"Ccy,attr"`
	Value    string `xml:",chardata"`
}

// Payment is the parsed content of a pain.001 document.
type Payment struct {
	doc painDocument

	// Namespace is the xmlns of the Document element.
	Namespace string
}

// Currency returns the currency of the first transaction.
func (p *Payment) Currency() string {
	for _, pi := range p.doc.Init.Payments {
		for _, tx := range pi.Transactions {
			if c := strings.TrimSpace(tx.Amount.Currency); c != "" {
				return strings.ToUpper(c)
			}
		}
	}
	return ""
}

// BIC returns the debtor agent BIC of the first payment block.
func (p *Payment) BIC() string {
	if len(p.doc.Init.Payments) == 0 {
		return ""
	}
	return strings.TrimSpace(p.doc.Init.Payments[0].DebtorBIC)
}

// ─── Parsing & validation ─────────────────────────────────────────────

// ParsePain decodes a pain.001 document. Malformed XML yields a single XML_SYNTAX
// issue carrying the offending line.
func ParsePain(raw string) (*Payment, []Issue) {
	if strings.TrimSpace(raw) == "" {
		return nil, []Issue{{Code: "EMPTY", Message: "Document vide", Severity: "error"}}
	}

	ns, err := rootNamespace(raw)
	if err != nil {
		return nil, []Issue{syntaxIssue(err)}
	}

	var doc painDocument
	if err := xml.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, []Issue{syntaxIssue(err)}
	}
	return &Payment{doc: doc, Namespace: ns}, nil
}

func rootNamespace(raw string) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(raw))
	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", errors.New("no root element")
			}
			return "", err
		}
		if start, ok := tok.(xml.StartElement); ok {
			if start.Name.Local != "Document" {
				return "", fmt.Errorf("root element is %s, expected Document", start.Name.Local)
			}
			return start.Name.Space, nil
		}
	}
}

func syntaxIssue(err error) Issue {
	issue := Issue{Code: "XML_SYNTAX", Message: err.Error(), Severity: "error"}
	var se *xml.SyntaxError
	if errors.As(err, &se) {
		issue.Message = se.Msg
		issue.Line = se.Line
	}
	return issue
}

// Validate checks the business rules the dashboard relies on. sourceType, when
// set, must match the document namespace version.
func (p *Payment) Validate(sourceType string) []Issue {
	var issues []Issue
	add := func(code, msg, severity string) {
		issues = append(issues, Issue{Code: code, Message: msg, Severity: severity})
	}

	if sourceType != "" && !strings.HasSuffix(p.Namespace, sourceType) {
		add("NAMESPACE", fmt.Sprintf("Espace de noms %q incompatible avec %s", p.Namespace, sourceType), "error")
	}

	in := p.doc.Init
	if strings.TrimSpace(in.MsgID) == "" {
		add("MSGID", "GrpHdr/MsgId manquant", "error")
	}
	if len(in.Payments) == 0 {
		add("PMTINF", "Aucun bloc PmtInf", "error")
	}

	count := 0
	for i, pi := range in.Payments {
		if strings.TrimSpace(pi.DebtorIBAN) == "" {
			add("IBAN", fmt.Sprintf("PmtInf %d: IBAN du débiteur manquant", i+1), "error")
		}
		if pi.DebtorBIC == "" {
			add("BIC", fmt.Sprintf("PmtInf %d: BIC du débiteur absent", i+1), "warning")
		}
		if len(pi.Transactions) == 0 {
			add("CDTTRF", fmt.Sprintf("PmtInf %d: aucune transaction", i+1), "error")
		}
		for j, tx := range pi.Transactions {
			count++
			if _, err := parseAmount(tx.Amount.Value); err != nil {
				add("AMOUNT", fmt.Sprintf("Transaction %d.%d: montant invalide %q", i+1, j+1, tx.Amount.Value), "error")
			}
			if len(strings.TrimSpace(tx.Amount.Currency)) != 3 {
				add("CURRENCY", fmt.Sprintf("Transaction %d.%d: devise invalide", i+1, j+1), "error")
			}
			if strings.TrimSpace(tx.CreditorIBAN) == "" {
				add("IBAN", fmt.Sprintf("Transaction %d.%d: IBAN du créancier manquant", i+1, j+1), "error")
			}
		}
	}

	if n, err := strconv.Atoi(strings.TrimSpace(in.NbOfTxs)); in.NbOfTxs != "" && (err != nil || n != count) {
		add("NBOFTXS", fmt.Sprintf("NbOfTxs=%s mais %d transaction(s)", in.NbOfTxs, count), "warning")
	}
	return issues
}

func parseAmount(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, fmt.Errorf("amount %v not positive", v)
	}
	return v, nil
}

// HasErrors reports whether issues contains an error-severity finding.
func HasErrors(issues []Issue) bool {
	for _, is := range issues {
		if is.Severity != "warning" {
			return true
		}
	}
	return false
}

// ─── MT101 ────────────────────────────────────────────────────────────

// MT101 renders the payment as a SWIFT MT101 text block, one sequence B per
// credit transfer.
func (p *Payment) MT101(now time.Time) string {
	in := p.doc.Init
	var b bytes.Buffer

	line := func(tag, value string) {
		if value != "" {
			fmt.Fprintf(&b, ":%s:%s\n", tag, value)
		}
	}

	line("20", swiftField(in.MsgID, 16))
	line("28D", "1/1")
	for _, pi := range in.Payments {
		line("50H", "/"+strings.ReplaceAll(pi.DebtorIBAN, " ", "")+"\n"+swiftField(pi.DebtorName, 35))
		line("52A", pi.DebtorBIC)
		line("30", execDate(pi.ExecDate, now))
		for _, tx := range pi.Transactions {
			line("21", swiftField(tx.EndToEndID, 16))
			line("32B", strings.ToUpper(tx.Amount.Currency)+swiftAmount(tx.Amount.Value))
			line("57A", tx.CreditorBIC)
			line("59", "/"+strings.ReplaceAll(tx.CreditorIBAN, " ", "")+"\n"+swiftField(tx.CreditorName, 35))
			line("70", swiftField(tx.Remittance, 140))
			line("71A", "SHA")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func swiftField(s string, limit int) string {
	s = strings.TrimSpace(s)
	if len(s) > limit {
		s = s[:limit]
	}
	return s
}

// swiftAmount uses a comma as decimal separator and always keeps it.
func swiftAmount(s string) string {
	v, err := parseAmount(s)
	if err != nil {
		return strings.TrimSpace(s)
	}
	out := strconv.FormatFloat(v, 'f', 2, 64)
	out = strings.TrimRight(strings.TrimRight(out, "0"), ".")
	if !strings.Contains(out, ".") {
		return out + ","
	}
	return strings.Replace(out, ".", ",", 1)
}

func execDate(s string, now time.Time) string {
	if t, err := time.Parse("2006-01-02", strings.TrimSpace(s)); err == nil {
		return t.Format("060102")
	}
	return now.Format("060102")
}
