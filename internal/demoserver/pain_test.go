package demoserver_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raysh454/paydash/internal/demoserver"
)

func codes(issues []demoserver.Issue) []string {
	out := make([]string, 0, len(issues))
	for _, is := range issues {
		out = append(out, is.Code)
	}
	return out
}

func TestParsePain_Empty(t *testing.T) {
	p, issues := demoserver.ParsePain("   \n")
	assert.Nil(t, p)
	assert.Equal(t, []string{"EMPTY"}, codes(issues))
}

func TestParsePain_SyntaxErrorCarriesLine(t *testing.T) {
	p, issues := demoserver.ParsePain("<Document>\n<a>\n</b>\n</Document>")
	assert.Nil(t, p)
	require.Len(t, issues, 1)
	assert.Equal(t, "XML_SYNTAX", issues[0].Code)
	assert.Equal(t, 3, issues[0].Line)
}

func TestParsePain_WrongRoot(t *testing.T) {
	_, issues := demoserver.ParsePain("<Invoice/>")
	require.Len(t, issues, 1)
	assert.Equal(t, "XML_SYNTAX", issues[0].Code)
	assert.Contains(t, issues[0].Message, "expected Document")
}

func TestPayment_SampleIsValid(t *testing.T) {
	p, issues := demoserver.ParsePain(demoserver.SamplePain("MSG1", "EUR", "BNPAFRPPXXX", 1500))
	require.Empty(t, issues)
	require.NotNil(t, p)

	assert.Empty(t, p.Validate("pain.001.001.03"))
	assert.Equal(t, "EUR", p.Currency())
	assert.Equal(t, "BNPAFRPPXXX", p.BIC())
	assert.True(t, strings.HasSuffix(p.Namespace, "pain.001.001.03"))
}

func TestPayment_ValidateReportsRuleViolations(t *testing.T) {
	raw := demoserver.SamplePain("", "EURO", "", 0)
	p, issues := demoserver.ParsePain(raw)
	require.Empty(t, issues)

	got := p.Validate("pain.001.001.09")
	assert.Subset(t, codes(got), []string{"NAMESPACE", "MSGID", "BIC", "AMOUNT", "CURRENCY"})
	assert.True(t, demoserver.HasErrors(got))
}

func TestHasErrors_WarningsOnly(t *testing.T) {
	assert.False(t, demoserver.HasErrors([]demoserver.Issue{{Code: "BIC", Severity: "warning"}}))
	assert.False(t, demoserver.HasErrors(nil))
	assert.True(t, demoserver.HasErrors([]demoserver.Issue{{Code: "IBAN", Severity: "error"}}))
}

func TestPayment_MT101(t *testing.T) {
	p, _ := demoserver.ParsePain(demoserver.SamplePain("MSG1", "eur", "BNPAFRPPXXX", 1500))
	out := p.MT101(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	for _, want := range []string{
		":20:MSG1\n",
		":28D:1/1\n",
		":50H:/FR7630006000011234567890189\nACME SARL\n",
		":52A:BNPAFRPPXXX\n",
		":30:240318\n",
		":21:MSG1-E2E\n",
		":32B:EUR1500,\n",
		":57A:DEUTDEFFXXX\n",
		":59:/DE89370400440532013000\nFournisseur GmbH\n",
		":70:Facture MSG1\n",
	} {
		assert.Contains(t, out, want)
	}
	assert.True(t, strings.HasSuffix(out, ":71A:SHA"))
}

func TestPayment_MT101FractionalAmount(t *testing.T) {
	p, _ := demoserver.ParsePain(demoserver.SamplePain("MSG2", "USD", "BNPAFRPPXXX", 1234.5))
	assert.Contains(t, p.MT101(time.Now()), ":32B:USD1234,5\n")
}
