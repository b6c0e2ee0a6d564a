package comment

// BuildThread assembles flat comment rows into a forest of root comments with
// replies nested up to [MaxThreadDepth] levels.
//
// # Input contract
//
// rows must already be sorted newest-first (createdat DESC, id DESC as the
// tie-break). The assembler preserves input order at every level, so the
// store's ORDER BY is the single source of truth for display order.
//
// # Algorithm
//
// Because rows are newest-first, a child can appear before its parent, so a
// single attach pass cannot know the parent's depth yet. Instead the forest
// is built breadth-wise: roots first, then one attach pass per depth level.
// Replies below the cutoff are simply not attached; their rows stay in
// storage untouched. Rows whose parent is absent from the input (for example,
// the parent was hard-deleted between queries) are dropped rather than
// promoted to roots.
func BuildThread(rows []*Comment) []*Comment {
	index := make(map[string]*Comment, len(rows))
	depth := make(map[string]int, len(rows))

	for _, row := range rows {
		row.Replies = nil
		index[row.ID] = row
	}

	roots := make([]*Comment, 0)
	for _, row := range rows {
		if row.IsRoot() {
			depth[row.ID] = 0
			roots = append(roots, row)
		}
	}

	// Attach one level per pass so a parent's depth is always known before
	// its children are considered.
	for level := 1; level <= MaxThreadDepth; level++ {
		for _, row := range rows {
			if row.IsRoot() {
				continue
			}

			parent, ok := index[*row.ParentID]
			if !ok {
				continue
			}

			parentDepth, ok := depth[parent.ID]
			if !ok || parentDepth != level-1 {
				continue
			}

			depth[row.ID] = level
			parent.Replies = append(parent.Replies, row)
		}
	}

	return roots
}

// CountThread returns the number of comments reachable in the assembled
// forest, roots included. Used by listing endpoints that report visible
// totals rather than raw row counts.
func CountThread(roots []*Comment) int {
	total := 0
	var walk func(nodes []*Comment)
	walk = func(nodes []*Comment) {
		for _, node := range nodes {
			total++
			walk(node.Replies)
		}
	}
	walk(roots)
	return total
}
