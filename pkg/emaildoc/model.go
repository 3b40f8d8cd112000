package emaildoc

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// FormatVersion is the current design document format version. It is
// stored with every document so older documents can be migrated on load.
const FormatVersion = 2

// MapOfAny represents a map of string to any value, used for block data
// payloads and template data.
type MapOfAny map[string]any

// BlockKind identifies the content type of a leaf block.
type BlockKind string

const (
	BlockKindText        BlockKind = "text"
	BlockKindHeading     BlockKind = "heading"
	BlockKindImage       BlockKind = "image"
	BlockKindButton      BlockKind = "button"
	BlockKindDivider     BlockKind = "divider"
	BlockKindList        BlockKind = "list"
	BlockKindProductLine BlockKind = "productLine"
	BlockKindSocial      BlockKind = "social"
	BlockKindLiquid      BlockKind = "liquid"
)

// Document is the root of one email design: an ordered sequence of rows
// plus document-wide settings. It is persisted wholesale as JSON.
type Document struct {
	Version  int              `json:"version"`
	Rows     []*Row           `json:"rows"`
	Settings DocumentSettings `json:"settings"`
}

// DocumentSettings holds document-wide presentation defaults.
type DocumentSettings struct {
	BackgroundColor string `json:"backgroundColor,omitempty"`
	ContentWidth    string `json:"contentWidth,omitempty"`
	FontFamily      string `json:"fontFamily,omitempty"`
	TextColor       string `json:"textColor,omitempty"`
}

// Padding holds the four-sided padding of a row.
type Padding struct {
	Top    string `json:"top,omitempty"`
	Right  string `json:"right,omitempty"`
	Bottom string `json:"bottom,omitempty"`
	Left   string `json:"left,omitempty"`
}

// Row is a horizontal section of the document. A row exclusively owns
// its columns.
type Row struct {
	ID       string      `json:"id"`
	Columns  []*Column   `json:"columns"`
	Settings RowSettings `json:"settings"`
}

// RowSettings holds row-level presentation settings.
type RowSettings struct {
	BackgroundColor string  `json:"backgroundColor,omitempty"`
	Padding         Padding `json:"padding"`
	Align           string  `json:"align,omitempty"` // "left", "center", "right"
	FullWidth       bool    `json:"fullWidth,omitempty"`
}

// Column is a vertical slot within a row. Width is a percentage of the
// row; the widths within one row are a layout concern and are not
// enforced numerically here. A column exclusively owns its blocks.
type Column struct {
	ID     string   `json:"id"`
	Width  float64  `json:"width"`
	Blocks []*Block `json:"blocks"`
}

// Block is a typed leaf content unit. Data holds the kind-specific
// payload; use DecodeData to read it into one of the typed payload
// structs below.
type Block struct {
	ID   string    `json:"id"`
	Kind BlockKind `json:"kind"`
	Data MapOfAny  `json:"data,omitempty"`
}

// NewDocument creates a blank document at the current format version.
func NewDocument() *Document {
	return &Document{
		Version: FormatVersion,
		Rows:    []*Row{},
		Settings: DocumentSettings{
			BackgroundColor: "#ffffff",
			ContentWidth:    "600px",
			FontFamily:      "Arial, Helvetica, sans-serif",
			TextColor:       "#333333",
		},
	}
}

// NewRow creates a row with one column per given width percentage.
func NewRow(widths ...float64) *Row {
	row := &Row{
		ID:      uuid.New().String(),
		Columns: make([]*Column, 0, len(widths)),
	}
	for _, w := range widths {
		row.Columns = append(row.Columns, NewColumn(w))
	}
	return row
}

// NewColumn creates an empty column with the given width percentage.
func NewColumn(width float64) *Column {
	return &Column{
		ID:     uuid.New().String(),
		Width:  width,
		Blocks: []*Block{},
	}
}

// NewBlock creates a block of the given kind with a fresh identifier.
func NewBlock(kind BlockKind, data MapOfAny) *Block {
	return &Block{
		ID:   uuid.New().String(),
		Kind: kind,
		Data: data,
	}
}

// DecodeData unmarshals the block's data payload into target, which
// should be a pointer to one of the *BlockData structs.
func (b *Block) DecodeData(target any) error {
	if b.Data == nil {
		return nil
	}
	raw, err := json.Marshal(b.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal block data (ID: %s, Kind: %s): %w", b.ID, b.Kind, err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("failed to unmarshal block data into %T (ID: %s, Kind: %s): %w", target, b.ID, b.Kind, err)
	}
	return nil
}

// TextBlockData is the payload of a "text" block. Text may contain
// inline HTML and merge tags.
type TextBlockData struct {
	Text     string `json:"text"`
	Align    string `json:"align,omitempty"`
	Color    string `json:"color,omitempty"`
	FontSize string `json:"fontSize,omitempty"`
}

// HeadingBlockData is the payload of a "heading" block.
type HeadingBlockData struct {
	Text  string `json:"text"`
	Level string `json:"level,omitempty"` // "h1", "h2", "h3"
	Align string `json:"align,omitempty"`
	Color string `json:"color,omitempty"`
}

// ImageBlockData is the payload of an "image" block.
type ImageBlockData struct {
	Src   string `json:"src"`
	Alt   string `json:"alt,omitempty"`
	Href  string `json:"href,omitempty"`
	Width string `json:"width,omitempty"`
	Align string `json:"align,omitempty"`
}

// ButtonBlockData is the payload of a "button" block.
type ButtonBlockData struct {
	Text            string `json:"text"`
	Href            string `json:"href"`
	BackgroundColor string `json:"backgroundColor,omitempty"`
	Color           string `json:"color,omitempty"`
	BorderRadius    string `json:"borderRadius,omitempty"`
	Align           string `json:"align,omitempty"`
	FontSize        string `json:"fontSize,omitempty"`
	FontWeight      int    `json:"fontWeight,omitempty"`
}

// DividerBlockData is the payload of a "divider" block.
type DividerBlockData struct {
	BorderColor string `json:"borderColor,omitempty"`
	BorderStyle string `json:"borderStyle,omitempty"`
	BorderWidth string `json:"borderWidth,omitempty"`
	Width       string `json:"width,omitempty"`
}

// ListBlockData is the payload of a "list" block.
type ListBlockData struct {
	Ordered bool     `json:"ordered,omitempty"`
	Items   []string `json:"items"`
	Align   string   `json:"align,omitempty"`
	Color   string   `json:"color,omitempty"`
}

// ProductLineBlockData is the payload of a "productLine" block: a
// two-column text pair, typically a product name and its price.
type ProductLineBlockData struct {
	Left     string `json:"left"`
	Right    string `json:"right"`
	Color    string `json:"color,omitempty"`
	FontSize string `json:"fontSize,omitempty"`
}

// SocialIcon is one entry of a "social" block.
type SocialIcon struct {
	Network string `json:"network"` // "facebook", "twitter", "instagram", ...
	Href    string `json:"href"`
}

// SocialBlockData is the payload of a "social" block.
type SocialBlockData struct {
	Icons    []SocialIcon `json:"icons"`
	Align    string       `json:"align,omitempty"`
	IconSize string       `json:"iconSize,omitempty"`
}

// LiquidBlockData is the payload of a "liquid" block: a raw liquid
// snippet rendered against the template data at compile time.
type LiquidBlockData struct {
	LiquidCode string `json:"liquidCode"`
}

// Validate checks the structural invariants of the document: a positive
// format version, non-empty identifiers, and globally unique row, column
// and block identifiers. Editing operations key off global block
// uniqueness rather than path-based addressing.
func (d *Document) Validate() error {
	if d.Version <= 0 {
		return fmt.Errorf("invalid document: version must be positive")
	}
	seen := make(map[string]string)
	record := func(id, what string) error {
		if id == "" {
			return fmt.Errorf("invalid document: %s id is required", what)
		}
		if prev, ok := seen[id]; ok {
			return fmt.Errorf("invalid document: duplicate id %q (%s and %s)", id, prev, what)
		}
		seen[id] = what
		return nil
	}
	for _, row := range d.Rows {
		if err := record(row.ID, "row"); err != nil {
			return err
		}
		for _, column := range row.Columns {
			if err := record(column.ID, "column"); err != nil {
				return err
			}
			for _, block := range column.Blocks {
				if err := record(block.ID, "block"); err != nil {
					return err
				}
				if block.Kind == "" {
					return fmt.Errorf("invalid document: block %s has no kind", block.ID)
				}
			}
		}
	}
	return nil
}

// Clone returns a deep copy of the document via a JSON round-trip, so
// callers can mutate the copy without touching the original.
func (d *Document) Clone() (*Document, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("failed to clone document: %w", err)
	}
	var out Document
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to clone document: %w", err)
	}
	return &out, nil
}

// Scan implements the sql.Scanner interface for JSONB columns.
func (d *Document) Scan(val interface{}) error {
	var data []byte

	if b, ok := val.([]byte); ok {
		// clone: the sql driver reuses the same byte slice between queries
		data = bytes.Clone(b)
	} else if s, ok := val.(string); ok {
		data = []byte(s)
	} else if val == nil {
		return nil
	}

	return json.Unmarshal(data, d)
}

// Value implements the driver.Valuer interface for JSONB columns.
func (d Document) Value() (driver.Value, error) {
	return json.Marshal(d)
}
