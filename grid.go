package gridcalc

// Grid is the rectangular store of raw cell strings. Every row always holds
// exactly Cols() entries and both dimensions stay at least 1.
type Grid struct {
	cells [][]string
	rows  int
	cols  int
}

// NewGrid creates an empty grid. Dimensions below 1 are raised to 1.
func NewGrid(rows, cols int) *Grid {
	rows, cols = max(rows, 1), max(cols, 1)
	return &Grid{cells: emptyCells(rows, cols), rows: rows, cols: cols}
}

func emptyCells(rows, cols int) [][]string {
	cells := make([][]string, rows)
	for i := range cells {
		cells[i] = make([]string, cols)
	}
	return cells
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// InBounds reports whether (row, col) addresses a cell of the grid.
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

// Get returns the raw content of a cell. Out-of-bounds cells read as "".
func (g *Grid) Get(row, col int) string {
	if !g.InBounds(row, col) {
		return ""
	}
	return g.cells[row][col]
}

// Cell returns the classified content of a cell.
func (g *Grid) Cell(row, col int) Content {
	return Classify(g.Get(row, col))
}

// Set stores raw text in a cell. It returns false, leaving the grid
// unchanged, when the cell is out of bounds.
func (g *Grid) Set(row, col int, text string) bool {
	if !g.InBounds(row, col) {
		return false
	}
	g.cells[row][col] = text
	return true
}

// InsertRow appends an empty row.
func (g *Grid) InsertRow() {
	g.cells = append(g.cells, make([]string, g.cols))
	g.rows++
}

// InsertColumn appends an empty column.
func (g *Grid) InsertColumn() {
	for i := range g.cells {
		g.cells[i] = append(g.cells[i], "")
	}
	g.cols++
}

// DeleteRow removes the last row. It is rejected when only one row is left.
func (g *Grid) DeleteRow() bool {
	if g.rows <= 1 {
		return false
	}
	g.cells = g.cells[:g.rows-1]
	g.rows--
	return true
}

// DeleteColumn removes the last column. It is rejected when only one column is left.
func (g *Grid) DeleteColumn() bool {
	if g.cols <= 1 {
		return false
	}
	for i := range g.cells {
		g.cells[i] = g.cells[i][:g.cols-1]
	}
	g.cols--
	return true
}

// Replace swaps in new contents, padding short rows with empty cells so the
// result is a rectangle. An empty input keeps the current dimensions and
// clears every cell.
func (g *Grid) Replace(cells [][]string) {
	if len(cells) == 0 {
		g.cells = emptyCells(g.rows, g.cols)
		return
	}
	cols := 1
	for _, row := range cells {
		cols = max(cols, len(row))
	}
	out := make([][]string, len(cells))
	for i, row := range cells {
		out[i] = make([]string, cols)
		copy(out[i], row)
	}
	g.cells, g.rows, g.cols = out, len(out), cols
}

// Snapshot returns a deep copy of the grid.
func (g *Grid) Snapshot() Snapshot {
	return Snapshot{cells: copyCells(g.cells), rows: g.rows, cols: g.cols}
}

// Restore replaces the grid contents and dimensions with a snapshot.
func (g *Grid) Restore(s Snapshot) {
	g.cells = copyCells(s.cells)
	g.rows, g.cols = s.rows, s.cols
}

func copyCells(src [][]string) [][]string {
	out := make([][]string, len(src))
	for i, row := range src {
		out[i] = append([]string(nil), row...)
	}
	return out
}

// Snapshot is an immutable copy of grid contents and dimensions.
type Snapshot struct {
	cells [][]string
	rows  int
	cols  int
}

// Rows returns the number of rows captured.
func (s Snapshot) Rows() int { return s.rows }

// Cols returns the number of columns captured.
func (s Snapshot) Cols() int { return s.cols }

// Get returns a captured cell, or "" when out of bounds.
func (s Snapshot) Get(row, col int) string {
	if row < 0 || row >= s.rows || col < 0 || col >= s.cols {
		return ""
	}
	return s.cells[row][col]
}

// Cells returns a copy of the captured cells.
func (s Snapshot) Cells() [][]string {
	return copyCells(s.cells)
}

// Equal reports whether two snapshots hold the same dimensions and cells.
func (s Snapshot) Equal(other Snapshot) bool {
	if s.rows != other.rows || s.cols != other.cols {
		return false
	}
	for i := range s.cells {
		for j := range s.cells[i] {
			if s.cells[i][j] != other.cells[i][j] {
				return false
			}
		}
	}
	return true
}
