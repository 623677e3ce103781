package sales

import (
	"fmt"
	"io"
	"time"

	"github.com/georgemunganga/retailops-backend/internal/modules/analytics"
	"github.com/gocarina/gocsv"
	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

func exportRows(sales []*Sale, loc *time.Location) []*exportRow {
	rows := []*exportRow{}
	for _, s := range sales {
		date := s.CreatedAt.In(loc).Format("2006-01-02 15:04")
		for _, it := range s.Items {
			name := it.ProductName
			if name == "" {
				name = "(deleted product)"
			}
			rows = append(rows, &exportRow{
				SaleID:    s.ID.String(),
				Date:      date,
				Product:   name,
				Quantity:  it.Quantity,
				SalePrice: it.SalePrice,
				LineTotal: decimal.NewFromFloat(it.SalePrice).Mul(decimal.NewFromInt(int64(it.Quantity))).Round(2).InexactFloat64(),
				SaleTotal: s.TotalAmount,
			})
		}
	}
	return rows
}

// WriteCSV writes one row per sale item.
func WriteCSV(w io.Writer, sales []*Sale, loc *time.Location) error {
	return gocsv.Marshal(exportRows(sales, loc), w)
}

// WritePDF renders a sales report for the period [from, to]. Zero bounds
// are printed as open.
func WritePDF(w io.Writer, sales []*Sale, from, to time.Time, loc *time.Location) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	// Core fonts are cp1252; runes outside it print as a dot.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "Sales Report", "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Period: %s to %s", boundLabel(from, loc), boundLabel(to, loc)), "", 1, "L", false, 0, "")

	rows := exportRows(sales, loc)
	items := 0
	for _, r := range rows {
		items += r.Quantity
	}
	revenue := analytics.TotalSales(Records(sales), time.Time{}, time.Time{})
	pdf.CellFormat(0, 8, fmt.Sprintf("Transactions: %d", len(sales)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Items Sold: %d", items), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, "Total Sales: "+analytics.FormatCurrency(revenue), "", 1, "L", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(35, 9, "Date", "1", 0, "C", false, 0, "")
	pdf.CellFormat(65, 9, "Product", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 9, "Qty", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 9, "Price", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 9, "Total", "1", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, r := range rows {
		pdf.CellFormat(35, 8, r.Date, "1", 0, "C", false, 0, "")
		pdf.CellFormat(65, 8, tr(r.Product), "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 8, fmt.Sprintf("%d", r.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 8, analytics.FormatCurrency(r.SalePrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, analytics.FormatCurrency(r.LineTotal), "1", 1, "R", false, 0, "")
	}
	return pdf.Output(w)
}

func boundLabel(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return "-"
	}
	return analytics.FormatDate(t.In(loc))
}
