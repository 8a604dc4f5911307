package format

import (
	"math"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Monetary values stay full precision through the pricing pipeline;
// rounding to two decimals happens here and only here.

// FormatCurrency renders an amount with the currency label prefix,
// e.g. "Rs. 1,330.75".
func FormatCurrency(label string, amount float64) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return FormatAmount(amount)
	}
	return label + " " + FormatAmount(amount)
}

// FormatAmount renders an amount without the currency label, used when
// populating editable payment fields.
func FormatAmount(amount float64) string {
	rounded := math.Round(amount*100) / 100
	neg := rounded < 0
	if neg {
		rounded = -rounded
	}
	s := strconv.FormatFloat(rounded, 'f', 2, 64)
	intPart, fracPart, _ := strings.Cut(s, ".")
	out := groupThousands(intPart) + "." + fracPart
	if neg {
		return "-" + out
	}
	return out
}

func FormatQuantity(quantity int) string {
	return groupThousands(strconv.Itoa(quantity))
}

// FormatPercent renders with one decimal place and a trailing sign,
// e.g. "12.5%".
func FormatPercent(value float64) string {
	return strconv.FormatFloat(math.Round(value*10)/10, 'f', 1, 64) + "%"
}

func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	head := n % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

const invoiceTimestampLayout = "20060102150405"

// InvoiceNumberGenerator produces human-readable, time-derived invoice
// numbers with a sequence suffix that disambiguates checkouts landing
// in the same second: INV20250901123045-0001.
type InvoiceNumberGenerator struct {
	mu        sync.Mutex
	prefix    string
	lastStamp string
	seq       int
}

func NewInvoiceNumberGenerator(prefix string) *InvoiceNumberGenerator {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "INV"
	}
	return &InvoiceNumberGenerator{prefix: prefix}
}

func (g *InvoiceNumberGenerator) Next(at time.Time) string {
	stamp := at.UTC().Format(invoiceTimestampLayout)

	g.mu.Lock()
	defer g.mu.Unlock()

	if stamp == g.lastStamp {
		g.seq++
	} else {
		g.lastStamp = stamp
		g.seq = 1
	}

	seq := strconv.Itoa(g.seq)
	for len(seq) < 4 {
		seq = "0" + seq
	}
	return g.prefix + stamp + "-" + seq
}
