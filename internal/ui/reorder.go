package ui

// reorder tracks a drag gesture over the rendered rows. While a drag is in
// progress the row order is authoritative and the task list follows it.
type reorder struct {
	dragging bool
	source   int
}

func (r *reorder) start(source int) {
	r.dragging = true
	r.source = source
}

// over moves the source row next to target: after it when the source sits
// above the target, before it otherwise. It reports whether rows changed.
func (r *reorder) over(rows []row, target int) bool {
	if !r.dragging || target == r.source || target < 0 || target >= len(rows) {
		return false
	}
	if r.source < 0 || r.source >= len(rows) {
		r.drop()
		return false
	}
	moveRow(rows, r.source, target)
	r.source = target
	return true
}

func (r *reorder) drop() {
	r.dragging = false
	r.source = -1
}

// moveRow shifts rows[from] to index to in place.
func moveRow(rows []row, from, to int) {
	moved := rows[from]
	if from < to {
		copy(rows[from:to], rows[from+1:to+1])
	} else {
		copy(rows[to+1:from+1], rows[to:from])
	}
	rows[to] = moved
}
