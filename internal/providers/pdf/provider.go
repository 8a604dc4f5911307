package pdf

import (
	"context"
	"io"

	saledomain "github.com/smallretail/tillpoint/internal/sale/domain"
)

// Provider renders a committed sale as a printable receipt. It only
// ever reads the finalized Sale and SaleItem values.
type Provider interface {
	GenerateReceipt(ctx context.Context, receipt saledomain.Receipt) (io.Reader, error)
}
