package nova

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildSalesPromptClipsSummary(t *testing.T) {
	data := SalesUploadData{
		Summary:  strings.Repeat("v", 10_000),
		RowCount: 42,
	}

	prompt := buildSalesPrompt(data, 5000)

	assert.Contains(t, prompt, strings.Repeat("v", 5000))
	assert.NotContains(t, prompt, strings.Repeat("v", 5001),
		"summary must be embedded truncated to the configured limit")
	assert.Contains(t, prompt, "Total de registros: 42")
}

func TestBuildSalesPromptCompaniesLineOnlyWhenPresent(t *testing.T) {
	withOut := buildSalesPrompt(SalesUploadData{Summary: "s", RowCount: 1}, 5000)
	assert.NotContains(t, withOut, "Empresas:")

	with := buildSalesPrompt(SalesUploadData{
		Summary:   "s",
		RowCount:  1,
		Companies: []string{"Acme", "Globex"},
	}, 5000)
	assert.Contains(t, with, "Empresas: Acme, Globex")
}

func TestBuildDocumentPromptRendersSortedNonEmptyFields(t *testing.T) {
	data := DocumentData{
		FileName: "factura-0231.pdf",
		Fields: map[string]string{
			"supplier": "Proveedora SA",
			"amount":   "18500.00",
			"currency": "",
			"date":     "2026-08-12",
		},
	}

	prompt := buildDocumentPrompt(data, 500, 200)

	assert.Contains(t, prompt, `"factura-0231.pdf"`)
	assert.NotContains(t, prompt, "currency", "empty fields are not rendered")

	amountIdx := strings.Index(prompt, "amount:")
	dateIdx := strings.Index(prompt, "date:")
	supplierIdx := strings.Index(prompt, "supplier:")
	assert.True(t, amountIdx < dateIdx && dateIdx < supplierIdx,
		"fields render in sorted key order")
}

func TestBuildDocumentPromptClipsValuesAndFileName(t *testing.T) {
	data := DocumentData{
		FileName: strings.Repeat("f", 300) + ".pdf",
		Fields:   map[string]string{"notes": strings.Repeat("n", 2000)},
	}

	prompt := buildDocumentPrompt(data, 500, 200)

	assert.Contains(t, prompt, strings.Repeat("n", 500))
	assert.NotContains(t, prompt, strings.Repeat("n", 501))
	assert.NotContains(t, prompt, strings.Repeat("f", 201))
}

func TestClipRunesCountsCharactersNotBytes(t *testing.T) {
	assert.Equal(t, "ñññ", clipRunes("ñññññ", 3))
	assert.Equal(t, "abc", clipRunes("abc", 5))
	assert.Equal(t, "", clipRunes("abc", 0))
}
