package emaildoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderMJMLStructure(t *testing.T) {
	doc := NewDocument()
	row := NewRow(66.66, 33.33)
	row.Settings.BackgroundColor = "#f5f5f5"
	row.Columns[0].Blocks = append(row.Columns[0].Blocks,
		NewBlock(BlockKindText, MapOfAny{"text": "Hello {{contact.first_name}}", "align": "left"}),
		NewBlock(BlockKindButton, MapOfAny{"text": "Buy now", "href": "https://shop.example", "backgroundColor": "#0066cc"}),
	)
	row.Columns[1].Blocks = append(row.Columns[1].Blocks,
		NewBlock(BlockKindImage, MapOfAny{"src": "https://cdn.example/x.png", "alt": "product"}),
	)
	doc.Rows = append(doc.Rows, row)

	mjml, err := RenderMJML(doc, nil)
	require.NoError(t, err)

	assert.Contains(t, mjml, "<mjml>")
	assert.Contains(t, mjml, "</mjml>")
	assert.Contains(t, mjml, `<mj-section background-color="#f5f5f5">`)
	assert.Contains(t, mjml, `<mj-column width="66.66%">`)
	assert.Contains(t, mjml, `<mj-column width="33.33%">`)
	// Merge tags pass through untouched; they resolve at send time.
	assert.Contains(t, mjml, "<p>Hello {{contact.first_name}}</p>")
	assert.Contains(t, mjml, `<mj-button background-color="#0066cc" href="https://shop.example">Buy now</mj-button>`)
	assert.Contains(t, mjml, `<mj-image alt="product" src="https://cdn.example/x.png" />`)
}

func TestRenderMJMLDocumentSettings(t *testing.T) {
	doc := NewDocument()
	doc.Settings.BackgroundColor = "#222222"
	doc.Settings.ContentWidth = "640px"
	doc.Settings.FontFamily = "Georgia, serif"

	mjml, err := RenderMJML(doc, nil)
	require.NoError(t, err)

	assert.Contains(t, mjml, `<mj-body background-color="#222222" width="640px">`)
	assert.Contains(t, mjml, `font-family="Georgia, serif"`)
}

func TestRenderMJMLHeadingLevels(t *testing.T) {
	doc := NewDocument()
	row := NewRow(100)
	row.Columns[0].Blocks = append(row.Columns[0].Blocks,
		NewBlock(BlockKindHeading, MapOfAny{"text": "Title", "level": "h1"}),
		NewBlock(BlockKindHeading, MapOfAny{"text": "Fallback"}),
	)
	doc.Rows = append(doc.Rows, row)

	mjml, err := RenderMJML(doc, nil)
	require.NoError(t, err)

	assert.Contains(t, mjml, "<h1>Title</h1>")
	// Unknown level falls back to h2.
	assert.Contains(t, mjml, "<h2>Fallback</h2>")
}

func TestRenderMJMLListAndProductLine(t *testing.T) {
	doc := NewDocument()
	row := NewRow(100)
	row.Columns[0].Blocks = append(row.Columns[0].Blocks,
		NewBlock(BlockKindList, MapOfAny{"ordered": true, "items": []string{"First", "Second & third"}}),
		NewBlock(BlockKindProductLine, MapOfAny{"left": "Widget", "right": "$9.99"}),
	)
	doc.Rows = append(doc.Rows, row)

	mjml, err := RenderMJML(doc, nil)
	require.NoError(t, err)

	assert.Contains(t, mjml, "<ol><li>First</li><li>Second &amp; third</li></ol>")
	assert.Contains(t, mjml, `<tr><td align="left">Widget</td><td align="right">$9.99</td></tr>`)
}

func TestRenderMJMLSocial(t *testing.T) {
	doc := NewDocument()
	row := NewRow(100)
	row.Columns[0].Blocks = append(row.Columns[0].Blocks,
		NewBlock(BlockKindSocial, MapOfAny{
			"icons": []map[string]any{
				{"network": "twitter", "href": "https://twitter.com/acme"},
			},
		}),
	)
	doc.Rows = append(doc.Rows, row)

	mjml, err := RenderMJML(doc, nil)
	require.NoError(t, err)

	assert.Contains(t, mjml, `<mj-social-element href="https://twitter.com/acme" name="twitter">`)
}

func TestRenderMJMLLiquidBlock(t *testing.T) {
	doc := NewDocument()
	row := NewRow(100)
	row.Columns[0].Blocks = append(row.Columns[0].Blocks,
		NewBlock(BlockKindLiquid, MapOfAny{"liquidCode": "Hello {{ name | upcase }}"}),
	)
	doc.Rows = append(doc.Rows, row)

	mjml, err := RenderMJML(doc, MapOfAny{"name": "sam"})
	require.NoError(t, err)
	assert.Contains(t, mjml, "<mj-raw>Hello SAM</mj-raw>")
}

func TestRenderMJMLLiquidError(t *testing.T) {
	doc := NewDocument()
	row := NewRow(100)
	row.Columns[0].Blocks = append(row.Columns[0].Blocks,
		NewBlock(BlockKindLiquid, MapOfAny{"liquidCode": "{% if %}broken"}),
	)
	doc.Rows = append(doc.Rows, row)

	_, err := RenderMJML(doc, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "liquid rendering error")
}

func TestRenderMJMLUnknownKindSkipped(t *testing.T) {
	doc := NewDocument()
	row := NewRow(100)
	row.Columns[0].Blocks = append(row.Columns[0].Blocks,
		&Block{ID: "b1", Kind: BlockKind("hologram")},
		NewBlock(BlockKindText, MapOfAny{"text": "still here"}),
	)
	doc.Rows = append(doc.Rows, row)

	mjml, err := RenderMJML(doc, nil)
	require.NoError(t, err)
	assert.NotContains(t, mjml, "hologram")
	assert.Contains(t, mjml, "still here")
}

func TestRenderMJMLFullWidthRow(t *testing.T) {
	doc := NewDocument()
	row := NewRow(100)
	row.Settings.FullWidth = true
	doc.Rows = append(doc.Rows, row)

	mjml, err := RenderMJML(doc, nil)
	require.NoError(t, err)
	assert.Contains(t, mjml, `full-width="full-width"`)
}
