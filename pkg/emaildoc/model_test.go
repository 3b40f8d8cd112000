package emaildoc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDocumentDefaults(t *testing.T) {
	doc := NewDocument()

	assert.Equal(t, FormatVersion, doc.Version)
	assert.Empty(t, doc.Rows)
	assert.Equal(t, "#ffffff", doc.Settings.BackgroundColor)
	assert.Equal(t, "600px", doc.Settings.ContentWidth)
	require.NoError(t, doc.Validate())
}

func TestNewRowGeneratesUniqueIDs(t *testing.T) {
	row := NewRow(50, 50)

	require.Len(t, row.Columns, 2)
	assert.NotEmpty(t, row.ID)
	assert.NotEqual(t, row.Columns[0].ID, row.Columns[1].ID)
	assert.Equal(t, 50.0, row.Columns[0].Width)
}

func TestDocumentValidate(t *testing.T) {
	doc := twoRowDocument()
	require.NoError(t, doc.Validate())

	t.Run("duplicate block id", func(t *testing.T) {
		d := twoRowDocument()
		d.Rows[1].Columns[0].Blocks[0].ID = "blk-1"
		assert.Error(t, d.Validate())
	})

	t.Run("block id colliding with row id", func(t *testing.T) {
		// Uniqueness is global across the whole tree, not per column.
		d := twoRowDocument()
		d.Rows[0].Columns[0].Blocks[0].ID = "row-2"
		assert.Error(t, d.Validate())
	})

	t.Run("empty id", func(t *testing.T) {
		d := twoRowDocument()
		d.Rows[0].Columns[0].Blocks[0].ID = ""
		assert.Error(t, d.Validate())
	})

	t.Run("missing kind", func(t *testing.T) {
		d := twoRowDocument()
		d.Rows[0].Columns[0].Blocks[0].Kind = ""
		assert.Error(t, d.Validate())
	})

	t.Run("zero version", func(t *testing.T) {
		d := twoRowDocument()
		d.Version = 0
		assert.Error(t, d.Validate())
	})
}

func TestDocumentJSONRoundTrip(t *testing.T) {
	doc := twoRowDocument()

	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	var out Document
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, doc, &out)
}

func TestDocumentScanValue(t *testing.T) {
	doc := twoRowDocument()

	value, err := doc.Value()
	require.NoError(t, err)

	var out Document
	require.NoError(t, out.Scan(value))
	assert.Equal(t, *doc, out)

	// nil column scans to the zero value without error.
	var empty Document
	require.NoError(t, empty.Scan(nil))
}

func TestDocumentClone(t *testing.T) {
	doc := twoRowDocument()

	clone, err := doc.Clone()
	require.NoError(t, err)
	assert.Equal(t, doc, clone)

	clone.Rows[0].Columns[0].Blocks[0].Data = MapOfAny{"text": "changed"}
	assert.Equal(t, "hello", doc.Rows[0].Columns[0].Blocks[0].Data["text"])
}

func TestBlockDecodeData(t *testing.T) {
	block := NewBlock(BlockKindButton, MapOfAny{
		"text":            "Buy",
		"href":            "https://shop.example",
		"backgroundColor": "#0066cc",
		"fontWeight":      600,
	})

	var data ButtonBlockData
	require.NoError(t, block.DecodeData(&data))
	assert.Equal(t, "Buy", data.Text)
	assert.Equal(t, "https://shop.example", data.Href)
	assert.Equal(t, "#0066cc", data.BackgroundColor)
	assert.Equal(t, 600, data.FontWeight)

	// nil payload leaves the target at its zero value.
	empty := &Block{ID: "x", Kind: BlockKindText}
	var text TextBlockData
	require.NoError(t, empty.DecodeData(&text))
	assert.Empty(t, text.Text)
}
