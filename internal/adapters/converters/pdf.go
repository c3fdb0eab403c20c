package converters

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/specconv/specconv/internal/domain"
)

const (
	pdfPageWidth   = 190.0
	pdfMarginLeft  = 10.0
	pdfMarginTop   = 10.0
	pdfMarginRight = 10.0
)

var pdfMethodColors = map[string][3]int{
	"GET":     {97, 175, 254},
	"POST":    {73, 204, 144},
	"PUT":     {252, 161, 48},
	"DELETE":  {249, 62, 62},
	"PATCH":   {80, 227, 194},
	"HEAD":    {144, 97, 249},
	"OPTIONS": {128, 128, 128},
}

// PDFRenderer renders an OpenAPI 3 document as a PDF: a title page followed
// by servers and one section per endpoint with its parameters and responses.
type PDFRenderer struct {
	pdf *gofpdf.Fpdf
}

// NewPDFRenderer creates the PDF renderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// Source returns the source format.
func (r *PDFRenderer) Source() domain.Format { return domain.FormatOpenAPI3 }

// Target returns the target format.
func (r *PDFRenderer) Target() domain.Format { return domain.FormatPDF }

// Render writes the PDF document to w.
func (r *PDFRenderer) Render(doc domain.Document, w io.Writer) error {
	if _, ok := doc["openapi"]; !ok {
		return fmt.Errorf("%w: document is missing the \"openapi\" version key", domain.ErrMalformedInput)
	}

	r.pdf = gofpdf.New("P", "mm", "A4", "")
	r.pdf.SetMargins(pdfMarginLeft, pdfMarginTop, pdfMarginRight)
	r.pdf.SetDrawColor(180, 180, 180)

	r.addTitlePage(doc)
	r.addServers(doc)
	r.addEndpoints(doc)

	return r.pdf.Output(w)
}

func (r *PDFRenderer) addTitlePage(doc domain.Document) {
	info := mapAt(doc, "info")
	title := stringAt(info, "title")
	if title == "" {
		title = "API"
	}

	r.pdf.AddPage()
	r.pdf.SetFont("Arial", "B", 28)
	r.pdf.Ln(40)
	r.pdf.CellFormat(pdfPageWidth, 15, title, "", 1, "C", false, 0, "")
	r.pdf.Ln(5)

	if version := stringAt(info, "version"); version != "" {
		r.pdf.SetFont("Arial", "", 14)
		r.pdf.SetTextColor(100, 100, 100)
		r.pdf.CellFormat(pdfPageWidth, 8, fmt.Sprintf("Version %s", version), "", 1, "C", false, 0, "")
		r.pdf.SetTextColor(0, 0, 0)
	}
	r.pdf.Ln(20)

	if desc := stringAt(info, "description"); desc != "" {
		r.pdf.SetFont("Arial", "", 11)
		r.pdf.MultiCell(pdfPageWidth, 6, stripHTML(desc), "", "C", false)
	}
}

func (r *PDFRenderer) addServers(doc domain.Document) {
	servers := sliceAt(doc, "servers")
	if len(servers) == 0 {
		return
	}

	r.pdf.AddPage()
	r.addSectionHeader("Servers")

	for _, s := range servers {
		server, ok := s.(map[string]any)
		if !ok {
			continue
		}
		r.pdf.SetFont("Arial", "B", 10)
		r.pdf.SetTextColor(0, 102, 204)
		r.pdf.CellFormat(pdfPageWidth, 6, stringAt(server, "url"), "", 1, "", false, 0, "")
		r.pdf.SetTextColor(0, 0, 0)

		if desc := stringAt(server, "description"); desc != "" {
			r.pdf.SetFont("Arial", "", 9)
			r.pdf.SetTextColor(100, 100, 100)
			r.pdf.MultiCell(pdfPageWidth, 4, stripHTML(desc), "", "", false)
			r.pdf.SetTextColor(0, 0, 0)
		}
		r.pdf.Ln(2)
	}
}

func (r *PDFRenderer) addEndpoints(doc domain.Document) {
	paths := mapAt(doc, "paths")

	r.pdf.AddPage()
	r.addSectionHeader("API Endpoints")
	r.pdf.Ln(2)

	for _, path := range sortedKeys(paths) {
		item, ok := paths[path].(map[string]any)
		if !ok {
			continue
		}
		for _, method := range sortedKeys(item) {
			operation, ok := item[method].(map[string]any)
			if !ok {
				continue
			}
			r.checkPageBreak(50)
			r.addEndpoint(path, strings.ToUpper(method), operation)
		}
	}
}

func (r *PDFRenderer) addEndpoint(path, method string, operation map[string]any) {
	color, ok := pdfMethodColors[method]
	if !ok {
		color = [3]int{128, 128, 128}
	}

	r.pdf.SetFont("Arial", "B", 11)
	r.pdf.SetFillColor(color[0], color[1], color[2])
	r.pdf.SetTextColor(255, 255, 255)
	methodWidth := float64(len(method)*3) + 8
	r.pdf.CellFormat(methodWidth, 7, method, "", 0, "C", true, 0, "")

	r.pdf.SetTextColor(0, 0, 0)
	r.pdf.CellFormat(pdfPageWidth-methodWidth, 7, " "+path, "", 1, "", false, 0, "")
	r.pdf.Ln(2)

	if id := stringAt(operation, "operationId"); id != "" {
		r.pdf.SetFont("Arial", "", 8)
		r.pdf.SetTextColor(128, 128, 128)
		r.pdf.CellFormat(pdfPageWidth, 4, fmt.Sprintf("Operation ID: %s", id), "", 1, "", false, 0, "")
		r.pdf.SetTextColor(0, 0, 0)
	}
	if summary := stringAt(operation, "summary"); summary != "" {
		r.pdf.SetFont("Arial", "B", 10)
		r.pdf.MultiCell(pdfPageWidth, 5, stripHTML(summary), "", "", false)
	}
	if desc := stringAt(operation, "description"); desc != "" {
		r.pdf.SetFont("Arial", "", 9)
		r.pdf.MultiCell(pdfPageWidth, 4, stripHTML(desc), "", "", false)
	}
	r.pdf.Ln(2)

	if params := sliceAt(operation, "parameters"); len(params) > 0 {
		r.addSubHeader("Parameters")
		r.addParameterTable(params)
	}
	if responses := mapAt(operation, "responses"); len(responses) > 0 {
		r.addSubHeader("Responses")
		r.addResponseTable(responses)
	}

	r.pdf.Ln(2)
	r.pdf.SetDrawColor(220, 220, 220)
	r.pdf.Line(pdfMarginLeft, r.pdf.GetY(), pdfMarginLeft+pdfPageWidth, r.pdf.GetY())
	r.pdf.SetDrawColor(180, 180, 180)
	r.pdf.Ln(6)
}

func (r *PDFRenderer) addParameterTable(params []any) {
	colWidths := []float64{50, 25, 25, 90}
	r.addTableHeader(colWidths, []string{"Name", "In", "Required", "Type"})

	r.pdf.SetFont("Arial", "", 8)
	for _, p := range params {
		param, ok := p.(map[string]any)
		if !ok {
			continue
		}
		required := "No"
		if boolAt(param, "required", false) {
			required = "Yes"
		}
		r.addTableRow(colWidths,
			[]string{stringAt(param, "name"), stringAt(param, "in"), required, schemaLabel(mapAt(param, "schema"))},
			[]string{"L", "L", "C", "L"})
	}
	r.pdf.Ln(3)
}

func (r *PDFRenderer) addResponseTable(responses map[string]any) {
	colWidths := []float64{25, 95, 70}
	r.addTableHeader(colWidths, []string{"Status", "Description", "Object"})

	r.pdf.SetFont("Arial", "", 8)
	for _, status := range sortedKeys(responses) {
		response, ok := responses[status].(map[string]any)
		if !ok {
			continue
		}
		object := ""
		for _, mediaType := range sortedKeys(mapAt(response, "content")) {
			media := mapAt(mapAt(response, "content"), mediaType)
			if label := schemaLabel(mapAt(media, "schema")); label != "" {
				object = label
				break
			}
		}
		r.addTableRow(colWidths,
			[]string{status, stripHTML(stringAt(response, "description")), object},
			[]string{"C", "L", "L"})
	}
	r.pdf.Ln(3)
}

func (r *PDFRenderer) addTableHeader(colWidths []float64, headers []string) {
	r.pdf.SetFont("Arial", "B", 8)
	r.pdf.SetFillColor(245, 245, 245)
	for i, header := range headers {
		r.pdf.CellFormat(colWidths[i], 6, header, "1", 0, "", true, 0, "")
	}
	r.pdf.Ln(-1)
}

func (r *PDFRenderer) addTableRow(colWidths []float64, contents []string, aligns []string) {
	maxLines := 1
	for i, content := range contents {
		if lines := r.pdf.SplitLines([]byte(content), colWidths[i]); len(lines) > maxLines {
			maxLines = len(lines)
		}
	}
	rowHeight := float64(maxLines) * 5.0
	r.checkPageBreak(rowHeight)

	startX := r.pdf.GetX()
	startY := r.pdf.GetY()
	for i, content := range contents {
		r.pdf.SetXY(startX, startY)
		r.pdf.MultiCell(colWidths[i], 5.0, content, "0", aligns[i], false)
		r.pdf.Rect(startX, startY, colWidths[i], rowHeight, "D")
		startX += colWidths[i]
	}
	r.pdf.SetXY(pdfMarginLeft, startY+rowHeight)
}

func (r *PDFRenderer) addSectionHeader(title string) {
	r.pdf.SetFont("Arial", "B", 18)
	r.pdf.CellFormat(pdfPageWidth, 10, title, "", 1, "", false, 0, "")
	r.pdf.Ln(4)
}

func (r *PDFRenderer) addSubHeader(title string) {
	r.pdf.SetFont("Arial", "B", 10)
	r.pdf.SetTextColor(60, 60, 60)
	r.pdf.CellFormat(pdfPageWidth, 6, title, "", 1, "", false, 0, "")
	r.pdf.SetTextColor(0, 0, 0)
}

func (r *PDFRenderer) checkPageBreak(height float64) {
	_, pageHeight := r.pdf.GetPageSize()
	_, _, _, bottomMargin := r.pdf.GetMargins()
	if r.pdf.GetY()+height > pageHeight-bottomMargin-10 {
		r.pdf.AddPage()
	}
}

// schemaLabel renders a short human label for a schema: the referenced
// component name, "[]item" for arrays, or "type (format)".
func schemaLabel(schema map[string]any) string {
	if schema == nil {
		return ""
	}
	if ref := stringAt(schema, "$ref"); ref != "" {
		return refName(ref)
	}
	label := stringAt(schema, "type")
	if label == "array" {
		if items := mapAt(schema, "items"); items != nil {
			return "[]" + schemaLabel(items)
		}
	}
	if format := stringAt(schema, "format"); format != "" {
		label = fmt.Sprintf("%s (%s)", label, format)
	}
	return label
}

// refName returns the last segment of a $ref pointer.
func refName(ref string) string {
	parts := strings.Split(ref, "/")
	return parts[len(parts)-1]
}

// sortedKeys returns the keys of m in lexical order.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// stripHTML removes markup tags and unescapes the common entities, since
// spec descriptions frequently carry embedded HTML.
func stripHTML(s string) string {
	result := s
	for {
		start := strings.Index(result, "<")
		if start == -1 {
			break
		}
		end := strings.Index(result[start:], ">")
		if end == -1 {
			break
		}
		result = result[:start] + result[start+end+1:]
	}
	result = strings.ReplaceAll(result, "&amp;", "&")
	result = strings.ReplaceAll(result, "&lt;", "<")
	result = strings.ReplaceAll(result, "&gt;", ">")
	result = strings.ReplaceAll(result, "&quot;", "\"")
	result = strings.ReplaceAll(result, "&#39;", "'")
	return strings.TrimSpace(result)
}
