package pdf

import (
	"bytes"
	"context"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
	appconfig "github.com/smallretail/tillpoint/internal/config"
	saledomain "github.com/smallretail/tillpoint/internal/sale/domain"
	"github.com/smallretail/tillpoint/internal/sale/format"
)

type ReceiptProvider struct {
	storeName     string
	currencyLabel string
}

func NewReceiptProvider(cfg appconfig.Config) Provider {
	return &ReceiptProvider{
		storeName:     cfg.AppName,
		currencyLabel: cfg.CurrencyLabel,
	}
}

func (p *ReceiptProvider) GenerateReceipt(ctx context.Context, receipt saledomain.Receipt) (io.Reader, error) {
	_ = ctx

	cfg := config.NewBuilder().Build()
	m := maroto.New(cfg)

	m.AddRow(20,
		text.NewCol(12, p.storeName, props.Text{
			Size:  16,
			Style: fontstyle.Bold,
			Align: align.Center,
		}),
	)

	m.AddRow(18,
		col.New(12).Add(
			text.New("Invoice: "+receipt.Sale.InvoiceNumber, props.Text{Top: 0, Size: 9}),
			text.New("Date: "+receipt.Sale.SoldAt.Format("02 Jan 2006, 03:04 PM"), props.Text{Top: 4, Size: 9}),
			text.New("Cashier: "+receipt.Sale.CashierName, props.Text{Top: 8, Size: 9}),
		),
	)

	m.AddRow(8,
		text.NewCol(6, "Item", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Qty", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Price", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Total", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	for _, item := range receipt.Items {
		m.AddRow(7,
			text.NewCol(6, item.ProductName, props.Text{Size: 9}),
			text.NewCol(2, format.FormatQuantity(item.Quantity), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, format.FormatAmount(item.UnitPrice), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, format.FormatAmount(item.Total), props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(7,
		col.New(8),
		text.NewCol(2, "Subtotal", props.Text{Size: 9}),
		text.NewCol(2, format.FormatAmount(receipt.Sale.Subtotal), props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(7,
		col.New(8),
		text.NewCol(2, "Discount", props.Text{Size: 9}),
		text.NewCol(2, format.FormatAmount(receipt.Sale.Discount), props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(7,
		col.New(8),
		text.NewCol(2, "Tax", props.Text{Size: 9}),
		text.NewCol(2, format.FormatAmount(receipt.Sale.Tax), props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(9,
		col.New(8),
		text.NewCol(2, "Total", props.Text{Style: fontstyle.Bold, Size: 10}),
		text.NewCol(2, format.FormatCurrency(p.currencyLabel, receipt.Sale.Total), props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right}),
	)
	m.AddRow(7,
		col.New(8),
		text.NewCol(2, "Paid", props.Text{Size: 9}),
		text.NewCol(2, format.FormatAmount(receipt.Sale.AmountPaid), props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(7,
		col.New(8),
		text.NewCol(2, "Change", props.Text{Size: 9}),
		text.NewCol(2, format.FormatAmount(receipt.Sale.Change), props.Text{Size: 9, Align: align.Right}),
	)

	m.AddRow(12,
		text.NewCol(12, "Thank you, come again!", props.Text{Size: 9, Align: align.Center, Top: 4}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}
