package nova

import (
	"fmt"
	"sort"
	"strings"
)

// SalesUploadData is the parsed outcome of a sales spreadsheet upload, as
// handed over by the upload pipeline.
type SalesUploadData struct {
	// Summary is a free-text digest of the uploaded rows.
	Summary string

	// RowCount is the number of records parsed from the upload.
	RowCount int

	// Companies lists the company names found in the upload, if any.
	Companies []string
}

// DocumentData is the extraction outcome for an uploaded document or payment
// voucher (invoice amount, supplier, date, and whatever else the extractor
// produced).
type DocumentData struct {
	// FileName is the original name of the uploaded file.
	FileName string

	// Fields holds the extracted key/value pairs. Empty values are not
	// rendered into the prompt.
	Fields map[string]string
}

// buildSalesPrompt renders the analysis prompt for a sales upload. The
// summary is clipped to maxSummaryChars before being embedded, bounding the
// prompt size and shrinking the injection surface; the companies line is
// rendered only when the list is non-empty.
func buildSalesPrompt(data SalesUploadData, maxSummaryChars int) string {
	safeSummary := clipRunes(data.Summary, maxSummaryChars)

	companiesLine := ""
	if len(data.Companies) > 0 {
		companiesLine = fmt.Sprintf("Empresas: %s\n", strings.Join(data.Companies, ", "))
	}

	return fmt.Sprintf(`Analiza los siguientes datos de ventas que acaban de ser subidos al sistema.

%s

Total de registros: %d
%s
Proporciona:
1. Resumen ejecutivo de los datos subidos
2. Anomalias detectadas (cambios >20%% vs periodos anteriores si puedes comparar)
3. Top 5 clientes por volumen
4. Tendencias observadas
5. Recomendaciones o alertas

Usa tablas Markdown cuando sea apropiado. Se conciso pero completo.`,
		safeSummary, data.RowCount, companiesLine)
}

// buildDocumentPrompt renders the analysis prompt for an uploaded document.
// Field values are clipped to maxFieldChars and rendered in sorted key order
// so the same extraction always produces the same prompt.
func buildDocumentPrompt(data DocumentData, maxFieldChars, maxFileNameChars int) string {
	safeFileName := clipRunes(data.FileName, maxFileNameChars)

	keys := make([]string, 0, len(data.Fields))
	for k, v := range data.Fields {
		if v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var fields strings.Builder
	for i, k := range keys {
		if i > 0 {
			fields.WriteByte('\n')
		}
		fmt.Fprintf(&fields, "  %s: %s", k, clipRunes(data.Fields[k], maxFieldChars))
	}

	return fmt.Sprintf(`Se acaba de subir el archivo "%s" y se extrajeron los siguientes datos:

%s

Por favor:
1. Verifica si los datos extraidos son coherentes
2. Si es una factura, compara el monto y proveedor contra el historial
3. Sugiere si hay algo inusual o que requiera atencion
4. Indica que campos podrian estar incompletos

Se conciso.`, safeFileName, fields.String())
}

// clipRunes cuts s to at most max characters.
func clipRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
