package domain

// Result holds the structured output of one executed query.
type Result struct {
	Columns  []string
	Rows     [][]interface{}
	RowCount int
}

// Empty reports whether the result carries no rows.
func (r *Result) Empty() bool {
	return r == nil || r.RowCount == 0
}
