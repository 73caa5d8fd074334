package model

// Frame is a string-typed table used for file exports.
type Frame struct {
	Columns []string
	Rows    [][]string
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Rows)
}

// ColumnIndex returns the position of name, or -1.
func (f *Frame) ColumnIndex(name string) int {
	for i, c := range f.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// DropColumn returns a copy of f without the named column.
// f itself is returned when the column is absent.
func (f *Frame) DropColumn(name string) *Frame {
	idx := f.ColumnIndex(name)
	if idx < 0 {
		return f
	}
	out := &Frame{
		Columns: make([]string, 0, len(f.Columns)-1),
		Rows:    make([][]string, 0, len(f.Rows)),
	}
	out.Columns = append(out.Columns, f.Columns[:idx]...)
	out.Columns = append(out.Columns, f.Columns[idx+1:]...)
	for _, row := range f.Rows {
		r := make([]string, 0, len(row))
		for i, v := range row {
			if i != idx {
				r = append(r, v)
			}
		}
		out.Rows = append(out.Rows, r)
	}
	return out
}
