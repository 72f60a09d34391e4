package columnar

// ListMaps stores rows of []T position by position: element j of every row
// lives in column j, and rows shorter than the widest one seen so far are
// padded with absent values. It suits short rows over a small index space.
type ListMaps[T, R any, C Column[T, R, C]] struct {
	Columns []*Options[T, R, C] `json:"columns"`
	Rows    int                 `json:"rows"`

	newColumn func() C
}

// NewListMaps returns an empty container that creates columns with newColumn.
func NewListMaps[T, R any, C Column[T, R, C]](newColumn func() C) *ListMaps[T, R, C] {
	return &ListMaps[T, R, C]{newColumn: newColumn}
}

func (m *ListMaps[T, R, C]) Len() int { return m.Rows }

func (m *ListMaps[T, R, C]) Clear() {
	for _, col := range m.Columns {
		col.Clear()
	}
	m.Rows = 0
}

func (m *ListMaps[T, R, C]) Push(items []T) {
	for len(m.Columns) < len(items) {
		col := NewOptions[T, R](m.newColumn())
		for i := 0; i < m.Rows; i++ {
			col.PushNone()
		}
		m.Columns = append(m.Columns, col)
	}
	for j, col := range m.Columns {
		if j < len(items) {
			col.PushSome(items[j])
		} else {
			col.PushNone()
		}
	}
	m.Rows++
}

// Get returns the elements of row index in order.
func (m *ListMaps[T, R, C]) Get(index int) []R {
	checkIndex(index, m.Rows)
	var out []R
	for _, col := range m.Columns {
		o := col.Get(index)
		if !o.Valid {
			break
		}
		out = append(out, o.Value)
	}
	return out
}

// Column returns the values at position j across all rows.
func (m *ListMaps[T, R, C]) Column(j int) *Options[T, R, C] {
	checkIndex(j, len(m.Columns))
	return m.Columns[j]
}

func (m *ListMaps[T, R, C]) HeapSize() (int, int) {
	var live, allocated int
	for _, col := range m.Columns {
		l, c := col.HeapSize()
		live += l
		allocated += c
	}
	return live, allocated
}
