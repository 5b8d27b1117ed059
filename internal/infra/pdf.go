package infra

// pdf.go — Printable reconciliation certificate ("acta de cierre") using
// go-pdf/fpdf. A half-letter sheet with the counted vs. theoretical amounts,
// the resulting difference, who processed the cierre and when.

import (
	"fmt"
	"os"
	"path/filepath"

	"condocaja/internal/model"
	"condocaja/internal/money"

	"github.com/go-pdf/fpdf"
)

// GenerarActaPDF renders the certificate for a processed cierre.
// storagePath is the directory where the PDF is written (created if needed).
// Returns the absolute path of the generated file.
func GenerarActaPDF(cierre *model.Cierre, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("acta_%s.pdf", cierre.ID)
	filePath := filepath.Join(storagePath, fileName)

	// Half letter (140 × 216 mm), portrait
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 140, Ht: 216},
	})
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, "Acta de Cierre de Caja Chica", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 6, fmt.Sprintf("Periodo: %s", cierre.Periodo), "", 1, "C", false, 0, "")
	pdf.Ln(3)

	pdf.Line(12, pdf.GetY(), pageW-12, pdf.GetY())
	pdf.Ln(4)

	// ── Metadata ─────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 6, fmt.Sprintf("Fecha del arqueo: %s", cierre.Fecha.Format("02/01/2006")), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 6, fmt.Sprintf("Realizado por: %s", cierre.UsuarioNombre), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	// ── Amounts ──────────────────────────────────────────────────────────────
	col1 := contentW * 0.6
	col2 := contentW * 0.4

	linea := func(etiqueta string, centavos int64, bold bool) {
		estilo := ""
		if bold {
			estilo = "B"
		}
		pdf.SetFont("Helvetica", estilo, 10)
		pdf.CellFormat(col1, 7, etiqueta, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 7, "$"+money.APesos(centavos).StringFixed(2), "", 1, "R", false, 0, "")
	}

	linea("Saldo teórico según libro:", cierre.MontoTeorico, false)
	linea("Efectivo contado:", cierre.MontoFisico, false)
	pdf.Line(12, pdf.GetY()+1, pageW-12, pdf.GetY()+1)
	pdf.Ln(2)
	linea("Diferencia:", cierre.Diferencia, true)

	// ── Resolution ───────────────────────────────────────────────────────────
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 10)
	resolucion := "RECHAZADO"
	if cierre.Estado == "aprobado" {
		resolucion = "APROBADO"
	}
	pdf.CellFormat(contentW, 7, fmt.Sprintf("Resolución: %s", resolucion), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	if cierre.AprobadoPor != nil && cierre.AprobadoAt != nil {
		pdf.CellFormat(contentW, 6,
			fmt.Sprintf("Procesado por %s el %s", *cierre.AprobadoPor, cierre.AprobadoAt.Format("02/01/2006 15:04")),
			"", 1, "L", false, 0, "")
	}
	if cierre.AjusteTransaccionID != nil {
		pdf.CellFormat(contentW, 6, fmt.Sprintf("Transacción de ajuste: %s", *cierre.AjusteTransaccionID), "", 1, "L", false, 0, "")
	}
	if cierre.Notas != nil && *cierre.Notas != "" {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.MultiCell(contentW, 5, "Notas: "+*cierre.Notas, "", "L", false)
	}

	// ── Signature line ───────────────────────────────────────────────────────
	pdf.SetY(-40)
	pdf.Line(pageW/2-30, pdf.GetY(), pageW/2+30, pdf.GetY())
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Firma del administrador", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
