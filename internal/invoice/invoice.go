// Package invoice draws booking invoices as PNG documents.
package invoice

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Huzaifa-Afraz/swiftride-server/internal/booking"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

const (
	width      = 800
	height     = 620
	margin     = 48.0
	lineHeight = 26.0
	dateLayout = "02 Jan 2006 15:04 MST"
)

var (
	bgColor     = color.RGBA{255, 255, 255, 255}
	headerColor = color.RGBA{24, 90, 157, 255}
	textColor   = color.RGBA{40, 44, 52, 255}
	mutedColor  = color.RGBA{110, 115, 120, 255}
	ruleColor   = color.RGBA{220, 222, 226, 255}
)

type Renderer struct {
	dir   string
	brand string
}

func NewRenderer(dir, brand string) *Renderer {
	if brand == "" {
		brand = "SwiftRide"
	}
	return &Renderer{dir: dir, brand: brand}
}

// Render writes the invoice to <dir>/<invoice number>.png and returns that
// path.
func (r *Renderer) Render(ctx context.Context, inv booking.Invoice) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if inv.Booking == nil {
		return "", fmt.Errorf("invoice: booking is required")
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("invoice: create dir: %w", err)
	}

	path := filepath.Join(r.dir, fileName(inv.Booking))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("invoice: create file: %w", err)
	}
	defer f.Close()

	if err := r.Encode(f, inv); err != nil {
		return "", err
	}
	return path, nil
}

func (r *Renderer) Encode(w io.Writer, inv booking.Invoice) error {
	dc := r.draw(inv)
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("invoice: encode: %w", err)
	}
	return nil
}

func (r *Renderer) draw(inv booking.Invoice) *gg.Context {
	dc := gg.NewContext(width, height)
	dc.SetColor(bgColor)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	dc.SetColor(headerColor)
	dc.DrawRectangle(0, 0, width, 72)
	dc.Fill()
	dc.SetColor(color.White)
	dc.DrawStringAnchored(r.brand+" INVOICE", margin, 36, 0, 0.5)
	dc.DrawStringAnchored(inv.Booking.InvoiceNumber, width-margin, 36, 1, 0.5)

	y := 110.0
	for _, l := range bodyLines(inv) {
		if l.label == "" {
			dc.SetColor(ruleColor)
			dc.SetLineWidth(1)
			dc.DrawLine(margin, y-lineHeight/2, width-margin, y-lineHeight/2)
			dc.Stroke()
			y += lineHeight / 2
			continue
		}
		dc.SetColor(mutedColor)
		dc.DrawString(l.label, margin, y)
		dc.SetColor(textColor)
		dc.DrawStringAnchored(l.value, width-margin, y, 1, 0)
		y += lineHeight
	}

	dc.SetColor(mutedColor)
	dc.DrawStringAnchored("Thank you for riding with "+r.brand, width/2, height-margin, 0.5, 0)
	return dc
}

type line struct {
	label string
	value string
}

// bodyLines is the invoice body in print order. A zero line is a separator.
func bodyLines(inv booking.Invoice) []line {
	b := inv.Booking
	out := []line{
		{"Invoice number", b.InvoiceNumber},
		{"Booking", fmt.Sprintf("#%d", b.ID)},
		{"Status", b.Status},
		{},
	}
	if inv.Customer != nil {
		out = append(out, line{"Customer", inv.Customer.Name}, line{"Customer email", inv.Customer.Email})
	}
	if inv.Owner != nil {
		out = append(out, line{"Host", inv.Owner.Name})
	}
	if inv.Car != nil {
		car := strings.TrimSpace(fmt.Sprintf("%s %s %d", inv.Car.Brand, inv.Car.Model, inv.Car.Year))
		out = append(out, line{"Car", car}, line{"Plate", inv.Car.PlateNumber})
	}
	out = append(out,
		line{},
		line{"Pick-up", b.Start.UTC().Format(dateLayout)},
		line{"Return", b.End.UTC().Format(dateLayout)},
		line{"Billed hours", fmt.Sprintf("%d", b.DurationHours)},
		line{"Hourly rate", money(b.HourlyRate.StringFixed(2), b.Currency)},
		line{},
		line{"Total", money(b.TotalPrice.StringFixed(2), b.Currency)},
		line{"Payment", b.PaymentStatus},
	)
	return out
}

func money(amount, currency string) string {
	return strings.TrimSpace(currency + " " + amount)
}

func fileName(b *booking.Booking) string {
	name := b.InvoiceNumber
	if name == "" {
		name = fmt.Sprintf("booking-%d", b.ID)
	}
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, name)
	return name + ".png"
}
