package emaildoc

// BlockLocation is the result of a block lookup: the block itself plus
// its full ownership chain. It is a point-in-time view, not a live
// handle; re-locate after any structural mutation elsewhere in the tree.
type BlockLocation struct {
	Block  *Block
	Column *Column
	Row    *Row
	Index  int // position of the block within its column
}

// ColumnLocation is the result of a column lookup.
type ColumnLocation struct {
	Column *Column
	Row    *Row
	Index  int // position of the column within its row
}

// FindBlock walks rows, then columns, then blocks and returns the first
// block whose identifier matches, together with its owning column, row
// and index. Because block identifiers are globally unique by invariant,
// at most one match can exist; if the invariant is violated the first
// match in document order wins. A missing identifier is not an error:
// the second return value is false and callers should treat it as an
// already-deleted or stale reference.
func (d *Document) FindBlock(blockID string) (BlockLocation, bool) {
	for _, row := range d.Rows {
		for _, column := range row.Columns {
			for i, block := range column.Blocks {
				if block.ID == blockID {
					return BlockLocation{
						Block:  block,
						Column: column,
						Row:    row,
						Index:  i,
					}, true
				}
			}
		}
	}
	return BlockLocation{}, false
}

// FindColumn returns the column with the given identifier together with
// its owning row and index, following the same traversal discipline as
// FindBlock one level up.
func (d *Document) FindColumn(columnID string) (ColumnLocation, bool) {
	for _, row := range d.Rows {
		for i, column := range row.Columns {
			if column.ID == columnID {
				return ColumnLocation{
					Column: column,
					Row:    row,
					Index:  i,
				}, true
			}
		}
	}
	return ColumnLocation{}, false
}

// FindRow returns the row with the given identifier and its index.
func (d *Document) FindRow(rowID string) (*Row, int, bool) {
	for i, row := range d.Rows {
		if row.ID == rowID {
			return row, i, true
		}
	}
	return nil, 0, false
}
