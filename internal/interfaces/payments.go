package interfaces

import (
	"context"

	"github.com/raysh454/paydash/internal/model"
	"github.com/raysh454/paydash/internal/payments"
)

// PaymentsAPI is the cross-package contract for the remote payments service.
// Implementations must be safe for concurrent use.
type PaymentsAPI interface {
	// Initiate submits a document for validation. Only transport failures are
	// returned as errors; the caller inspects the status code.
	Initiate(ctx context.Context, sourceType, targetType, xml string) (*payments.InitiateResponse, error)

	// ToMT101 submits a pain.001 document and returns the decoded answer.
	ToMT101(ctx context.Context, painXML string) (*payments.TransformOutcome, error)

	// History fetches one page of a category's operation history.
	History(ctx context.Context, q model.HistoryQuery) (*model.Page, error)

	// CurrencyStats fetches the label to count mapping for the currency breakdown.
	CurrencyStats(ctx context.Context) (map[string]int, error)
}

var _ PaymentsAPI = (*payments.Client)(nil)
