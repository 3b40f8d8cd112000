package emaildoc

// Editing operations follow a locate-then-replace discipline: every
// operation re-locates its target by identifier before touching the
// tree, so stale references degrade to no-ops instead of corrupting the
// document. Each returns false when the target no longer exists.

// UpdateBlock replaces the data payload of the block with the given
// identifier.
func (d *Document) UpdateBlock(blockID string, data MapOfAny) bool {
	loc, ok := d.FindBlock(blockID)
	if !ok {
		return false
	}
	loc.Block.Data = data
	return true
}

// RemoveBlock deletes the block with the given identifier from its
// owning column.
func (d *Document) RemoveBlock(blockID string) bool {
	loc, ok := d.FindBlock(blockID)
	if !ok {
		return false
	}
	blocks := loc.Column.Blocks
	loc.Column.Blocks = append(blocks[:loc.Index], blocks[loc.Index+1:]...)
	return true
}

// InsertBlock inserts a block into the column with the given identifier
// at the given position. The index is clamped to the column bounds.
func (d *Document) InsertBlock(columnID string, block *Block, index int) bool {
	if block == nil {
		return false
	}
	loc, ok := d.FindColumn(columnID)
	if !ok {
		return false
	}
	index = clampIndex(index, len(loc.Column.Blocks))
	blocks := loc.Column.Blocks
	blocks = append(blocks[:index], append([]*Block{block}, blocks[index:]...)...)
	loc.Column.Blocks = blocks
	return true
}

// MoveBlock detaches the block with the given identifier and reinserts
// it into the target column at the given position. Moving within the
// same column is supported; the index refers to the column's state after
// removal.
func (d *Document) MoveBlock(blockID, targetColumnID string, index int) bool {
	loc, ok := d.FindBlock(blockID)
	if !ok {
		return false
	}
	if _, ok := d.FindColumn(targetColumnID); !ok {
		return false
	}
	if !d.RemoveBlock(blockID) {
		return false
	}
	// Re-locate the target: removal may have shifted positions.
	return d.InsertBlock(targetColumnID, loc.Block, index)
}

// RemoveRow deletes the row with the given identifier and everything it
// owns.
func (d *Document) RemoveRow(rowID string) bool {
	_, i, ok := d.FindRow(rowID)
	if !ok {
		return false
	}
	d.Rows = append(d.Rows[:i], d.Rows[i+1:]...)
	return true
}

// InsertRow inserts a row at the given position, clamped to bounds.
func (d *Document) InsertRow(row *Row, index int) {
	if row == nil {
		return
	}
	index = clampIndex(index, len(d.Rows))
	d.Rows = append(d.Rows[:index], append([]*Row{row}, d.Rows[index:]...)...)
}

func clampIndex(index, length int) int {
	if index < 0 {
		return 0
	}
	if index > length {
		return length
	}
	return index
}
