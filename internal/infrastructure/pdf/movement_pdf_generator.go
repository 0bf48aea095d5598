// Package pdf genera el comprobante imprimible de un movimiento de inventario.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tipo de movimiento   │  N° Movimiento + Fecha       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  OPERADOR + ESTADO                                          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Código de barras | Estado | Producto          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: unidades / líneas registradas / sin registrar     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR con el ID del movimiento                         │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/inventario-scan/internal/application/inventory"
	"github.com/jhoicas/inventario-scan/internal/domain/entity"
)

var _ inventory.MovementPDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWarn    = &props.Color{Red: 170, Green: 90, Blue: 0}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa inventory.MovementPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	company string
}

// NewMarotoPDFGenerator construye el generador. company aparece como autor del documento.
func NewMarotoPDFGenerator(company string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{company: company}
}

// GenerateMovementPDF genera el comprobante y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateMovementPDF(_ context.Context, mov *entity.Movement) ([]byte, error) {
	if mov == nil {
		return nil, fmt.Errorf("pdf: movimiento nil")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprobante de movimiento "+mov.ID, true).
		WithAuthor(nonEmpty(g.company, "inventario-scan"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(mov))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(operatorRow(mov))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableLineRows(mov.Lines)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(mov.Lines))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(mov))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: tipo de movimiento (izq) y N° + fecha (der).
func headerRow(mov *entity.Movement) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(directionLabel(mov.Direction), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Comprobante de movimiento de inventario", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("MOVIMIENTO N°", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(mov.ID, props.Text{
				Size: 7, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+mov.CreatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

// operatorRow: operador que confirmó y estado actual.
func operatorRow(mov *entity.Movement) core.Row {
	status := props.Text{Style: fontstyle.Bold, Size: 9, Top: 6, Align: align.Right}
	if mov.Status == entity.MovementStatusCompletedWithUnregistered {
		status.Color = colorWarn
	}
	return row.New(12).Add(
		col.New(6).Add(
			text.New("OPERADOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(mov.CreatedBy, props.Text{Size: 9, Top: 6}),
		),
		col.New(6).Add(
			text.New("ESTADO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1, Align: align.Right,
			}),
			text.New(statusLabel(mov.Status), status),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 2, align.Center),
		h("Código de barras", 4, align.Left),
		h("Estado", 2, align.Center),
		h("Producto", 4, align.Left),
	)
}

// tableLineRows: una fila por línea del movimiento.
func tableLineRows(lines []*entity.MovementLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		state := props.Text{Size: 8, Align: align.Center, Top: 1}
		product := l.ProductID
		if !l.Registered() {
			state.Color = colorWarn
			product = "pendiente de registro"
		}
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(strconv.Itoa(l.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(4).Add(text.New(l.Barcode, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(2).Add(text.New(l.Status, state)),
			col.New(4).Add(text.New(product, props.Text{Size: 7, Align: align.Left, Top: 1, Left: 1, Color: colorGray})),
		))
	}
	return result
}

// totalsRow: unidades y conteo de líneas por estado.
func totalsRow(lines []*entity.MovementLine) core.Row {
	units, registered, unregistered := 0, 0, 0
	for _, l := range lines {
		units += l.Quantity
		if l.Registered() {
			registered++
		} else {
			unregistered++
		}
	}
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	return row.New(18).Add(
		col.New(6),
		col.New(4).Add(
			label("Unidades:"),
			label("Líneas registradas:"),
			label("Líneas sin registrar:"),
		),
		col.New(2).Add(
			value(strconv.Itoa(units)),
			value(strconv.Itoa(registered)),
			value(strconv.Itoa(unregistered)),
		),
	)
}

// footerRow: QR con el ID del movimiento + leyenda.
func footerRow(mov *entity.Movement) core.Row {
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(mov.ID, props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(
			text.New("Escanee el código QR para consultar este movimiento.", props.Text{
				Size: 8, Top: 4, Left: 3, Color: colorGray,
			}),
			text.New("Las líneas pendientes de registro no afectaron el stock.", props.Text{
				Size: 8, Top: 12, Left: 3, Color: colorGray,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func directionLabel(direction string) string {
	switch direction {
	case entity.DirectionEntry:
		return "ENTRADA DE INVENTARIO"
	case entity.DirectionExit:
		return "SALIDA DE INVENTARIO"
	default:
		return direction
	}
}

func statusLabel(status string) string {
	if status == entity.MovementStatusCompletedWithUnregistered {
		return "Completado con códigos sin registrar"
	}
	return "Completado"
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
