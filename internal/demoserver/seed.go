package demoserver

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/raysh454/paydash/internal/logging"
	"github.com/raysh454/paydash/internal/model"
)

const painNamespace = "urn:iso:std:iso:20022:tech:xsd:pain.001.001.03"

var (
	seedCurrencies = []string{"EUR", "EUR", "EUR", "USD", "USD", "GBP", "CHF", "MAD"}
	seedBICs       = []string{"BNPAFRPPXXX", "SOGEFRPPXXX", "AGRIFRPPXXX", "CEPAFRPPXXX", "BMCEMAMCXXX"}
	seedNames      = []string{"ACME SARL", "Durand et Fils", "Atlas Logistique", "Nordic Trade AB", "Helvetia Conseil"}
)

// SamplePain renders a minimal valid pain.001.001.03 document.
func SamplePain(msgID, currency, bic string, amount float64) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<Document xmlns="%s">
  <CstmrCdtTrfInitn>
    <GrpHdr>
      <MsgId>%s</MsgId>
      <CreDtTm>2024-03-15T08:30:00</CreDtTm>
      <NbOfTxs>1</NbOfTxs>
    </GrpHdr>
    <PmtInf>
      <PmtInfId>%s-1</PmtInfId>
      <ReqdExctnDt>2024-03-18</ReqdExctnDt>
      <Dbtr><Nm>ACME SARL</Nm></Dbtr>
      <DbtrAcct><Id><IBAN>FR7630006000011234567890189</IBAN></Id></DbtrAcct>
      <DbtrAgt><FinInstnId><BIC>%s</BIC></FinInstnId></DbtrAgt>
      <CdtTrfTxInf>
        <PmtId><EndToEndId>%s-E2E</EndToEndId></PmtId>
        <Amt><InstdAmt Ccy="%s">%.2f</InstdAmt></Amt>
        <CdtrAgt><FinInstnId><BIC>DEUTDEFFXXX</BIC></FinInstnId></CdtrAgt>
        <Cdtr><Nm>Fournisseur GmbH</Nm></Cdtr>
        <CdtrAcct><Id><IBAN>DE89370400440532013000</IBAN></Id></CdtrAcct>
        <RmtInf><Ustrd>Facture %s</Ustrd></RmtInf>
      </CdtTrfTxInf>
    </PmtInf>
  </CstmrCdtTrfInitn>
</Document>`, painNamespace, msgID, msgID, bic, msgID, currency, amount, msgID)
}

// Seed inserts n sample operations spread over the days before now, unless the
// store already holds some. The same rng state always yields the same log.
func (s *Store) Seed(ctx context.Context, n int, now time.Time, rng *rand.Rand) error {
	existing, err := s.Count(ctx)
	if err != nil {
		return err
	}
	if existing > 0 || n <= 0 {
		return nil
	}

	for i := 0; i < n; i++ {
		e := sampleEntry(i, now, rng)
		if err := s.Insert(ctx, e); err != nil {
			return err
		}
	}
	s.logger.Info("seeded operation store", logging.Field{Key: "count", Value: n})
	return nil
}

func sampleEntry(i int, now time.Time, rng *rand.Rand) Entry {
	ccy := seedCurrencies[rng.IntN(len(seedCurrencies))]
	bic := seedBICs[rng.IntN(len(seedBICs))]
	msgID := fmt.Sprintf("MSG%05d", i+1)
	amount := float64(rng.IntN(500000)+100) / 100
	at := now.Add(-time.Duration(rng.IntN(14*24*60)) * time.Minute).Truncate(time.Second)
	duration := int64(rng.IntN(900) + 40)

	e := Entry{
		OperationRecord: model.OperationRecord{
			ID:         uuid.NewSHA1(uuid.NameSpaceOID, []byte(msgID)).String(),
			Timestamp:  model.Timestamp{Time: at.UTC()},
			SourceType: "pain.001.001.03",
			InputXML:   SamplePain(msgID, ccy, bic, amount),
			BIC:        bic,
			Duration:   &duration,
			Details:    seedNames[rng.IntN(len(seedNames))],
		},
		Currency: ccy,
	}

	failed := rng.IntN(5) == 0
	if rng.IntN(2) == 0 {
		e.OperationType = model.OperationValidation
		e.TargetType = "pain.001.001.09"
	} else {
		e.OperationType = model.OperationTransformation
		e.TargetType = "MT101"
	}

	if !failed {
		e.Status = model.StatusSuccess
		if e.OperationType == model.OperationTransformation {
			if p, issues := ParsePain(e.InputXML); len(issues) == 0 {
				e.OutputContent = p.MT101(at)
			}
		}
		return e
	}

	e.Status = model.StatusError
	issues := []Issue{{Code: "AMOUNT", Message: "Transaction 1.1: montant invalide", Severity: "error"}}
	raw, _ := json.Marshal(issues)
	// Alternate between the encodings older service versions stored.
	switch rng.IntN(4) {
	case 0:
		e.Errors = raw
	case 1:
		e.Errors, _ = json.Marshal(string(raw))
	case 2:
		wrapped := fmt.Sprintf(`{"status":"error","errors":%s}`, raw)
		e.Errors, _ = json.Marshal(wrapped)
	default:
		e.Errors, _ = json.Marshal("Erreur de validation XSD à la ligne 12")
	}
	return e
}
