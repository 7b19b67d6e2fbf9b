// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package translate

import "github.com/graemejross/notion-sync-tools/pkg/types"

// SplitTable breaks a table whose data rows exceed maxRows into fragments
// of at most maxRows data rows each. The header row is repeated at the top
// of every fragment and row order is preserved. A table within the limit
// comes back as the single original block.
func SplitTable(table types.Block, maxRows int) []types.Block {
	data := table.DataRows()
	if maxRows <= 0 || len(data) <= maxRows {
		return []types.Block{table}
	}

	var fragments []types.Block
	for start := 0; start < len(data); start += maxRows {
		end := start + maxRows
		if end > len(data) {
			end = len(data)
		}
		frag := types.Block{Kind: types.BlockTable, HasHeader: table.HasHeader}
		if table.HasHeader {
			frag.Rows = append(frag.Rows, table.Rows[0])
		}
		frag.Rows = append(frag.Rows, data[start:end]...)
		fragments = append(fragments, frag)
	}
	return fragments
}
