package importer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/oscarfh/bizdesk/internal/importer"
)

func TestParser_CommaDelimited(t *testing.T) {
	csv := "name,price,tax\nWidget,100.50,18\nGadget,19.99,23\n"

	params, err := importer.NewService().Import(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, params, 2)

	assert.Equal(t, "Widget", params[0].Name)
	assert.Equal(t, "100.5", params[0].UnitPrice.String())
	assert.Equal(t, "18", params[0].TaxPercent.String())
	assert.Equal(t, "Gadget", params[1].Name)
}

func TestParser_SemicolonAndEuropeanDecimals(t *testing.T) {
	csv := "Artigo;Preço;IVA\nParafuso M6;1.234,56;23%\nPorca;0,75;23\n"

	params, err := importer.NewService().Import(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, params, 2)

	assert.Equal(t, "Parafuso M6", params[0].Name)
	assert.Equal(t, "1234.56", params[0].UnitPrice.String())
	assert.Equal(t, "23", params[0].TaxPercent.String())
	assert.Equal(t, "0.75", params[1].UnitPrice.String())
}

func TestParser_SkipsPreambleAndBlankRows(t *testing.T) {
	csv := "Exported 2026-01-05,,\n,,\nname,price,tax\nWidget,10,0\n,,\nTotal,10,\n"

	params, err := importer.NewService().Import(strings.NewReader(csv))
	require.NoError(t, err)

	// "Total" has a name cell, so it parses as a row; callers curate.
	require.Len(t, params, 2)
	assert.Equal(t, "Widget", params[0].Name)
	assert.Equal(t, "Total", params[1].Name)
}

func TestParser_MissingTaxColumn(t *testing.T) {
	csv := "item,price\nWidget,10\n"

	params, err := importer.NewService().Import(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, params, 1)
	assert.True(t, params[0].TaxPercent.IsZero())
}

func TestParser_NoHeader(t *testing.T) {
	csv := "just,some,cells\nwith,no,headers\n"

	_, err := importer.NewService().Import(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no header row")
}

func TestParser_BadPrice(t *testing.T) {
	csv := "name,price\nWidget,not-a-price\n"

	_, err := importer.NewService().Import(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad price")
}

func TestParser_Windows1252Input(t *testing.T) {
	// "Preço" and "Parafuso São" encoded as the legacy tools export it.
	utf8 := "Artigo;Preço\nParafuso São;2,50\n"

	encoded, err := charmap.Windows1252.NewEncoder().String(utf8)
	require.NoError(t, err)

	params, err := importer.NewService().Import(strings.NewReader(encoded))
	require.NoError(t, err)
	require.Len(t, params, 1)
	assert.Equal(t, "Parafuso São", params[0].Name)
	assert.Equal(t, "2.5", params[0].UnitPrice.String())
}
