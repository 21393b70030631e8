package gridcalc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestSheet creates a 5x5 sheet with cells set from a map of addresses.
func newTestSheet(t *testing.T, cells map[string]string) *Sheet {
	t.Helper()
	s := NewSheet(WithSize(5, 5))
	for ref, raw := range cells {
		a, err := ParseAddress(ref)
		require.NoError(t, err)
		require.True(t, s.SetRawCell(a.Row, a.Col, raw), ref)
	}
	return s
}

// display returns the display value of the cell at ref.
func display(t *testing.T, s *Sheet, ref string) string {
	t.Helper()
	a, err := ParseAddress(ref)
	require.NoError(t, err)
	return s.DisplayValue(a.Row, a.Col)
}

func TestResolver_Aggregates(t *testing.T) {
	s := newTestSheet(t, map[string]string{"A1": "1", "A2": "2", "A3": "3"})
	tests := []struct {
		formula string
		want    string
	}{
		{"=SUM(A1:A3)", "6"},
		{"=AVG(A1:A3)", "2"},
		{"=AVERAGE(A1:A3)", "2"},
		{"=MIN(A1:A3)", "1"},
		{"=MAX(A1:A3)", "3"},
		{"=COUNT(A1:A3)", "3"},
		{"=MEDIAN(A1:A3)", "2"},
		{"=PRODUCT(A1:A3)", "6"},
		{"=RANGE(A1:A3)", "2"},
		{"=STDEV(A1:A3)", "1"},
		{"=MEAN(A1:A3)", "1.82"},
		{"=SUM(A3:A1)", "6"},
		{"=sum(a1:a3)", "6"},
		{"=SUM(A1:A3)*2", "12"},
		{"=SUM(A1,A2,10)", "13"},
		{"=SUM(A1:A2,A3)", "6"},
		{"=MAX(A1:A3,MIN(A1:A3))", "3"},
		{"=SUM(A1*2,1)", "3"},
		{"=SUM((A3+1)/2,A1)", "3"},
		{"=COUNT(B1:B3)", "3"},
	}
	for _, tt := range tests {
		require.True(t, s.SetRawCell(4, 4, tt.formula))
		assert.Equal(t, tt.want, display(t, s, "E5"), tt.formula)
	}
}

func TestResolver_Arithmetic(t *testing.T) {
	s := newTestSheet(t, map[string]string{"A1": "3", "A2": "-3", "A3": "abc"})
	tests := []struct {
		formula string
		want    string
	}{
		{"=1+2*3", "7"},
		{"=(1+2)*3", "9"},
		{"=10/4", "2.50"},
		{"=1/3", "0.33"},
		{"=2^3^2", "512"},
		{"=-A1", "-3"},
		{"=+A1", "3"},
		{"=A2^2", "9"},
		{"=2-A2", "5"},
		{"=A1*-2", "-6"},
		{"=A3+1", "1"},
		{"=B1+1", "1"},
		{"=Z99+1", "1"},
		{"=MIN(-5,2)*2", "-10"},
		{"=ABS(MIN(-5,2))", "5"},
		{"=1-1", "0"},
		{"=-0", "0"},
	}
	for _, tt := range tests {
		require.True(t, s.SetRawCell(4, 4, tt.formula))
		assert.Equal(t, tt.want, display(t, s, "E5"), tt.formula)
	}
}

func TestResolver_NestedFormulas(t *testing.T) {
	s := newTestSheet(t, map[string]string{
		"A1": "=1+2",
		"A2": "=A1*2",
		"A3": "=SUM(A1:A2)",
	})
	assert.Equal(t, "3", display(t, s, "A1"))
	assert.Equal(t, "6", display(t, s, "A2"))
	assert.Equal(t, "9", display(t, s, "A3"))

	// Edits are seen on the next evaluation.
	s.SetRawCell(0, 0, "10")
	assert.Equal(t, "20", display(t, s, "A2"))
	assert.Equal(t, "30", display(t, s, "A3"))
}

func TestResolver_Errors(t *testing.T) {
	for _, formula := range []string{
		"=1/0",
		"=FOO(1)",
		"=A1:A3",
		"=(1+2",
		"=SUM(A1",
		"=1+",
		"=",
		`="text"`,
		"=TRUE",
		"=1>2",
		"=SUM(A1:B2:C3)",
		"=SQRT(-1)",
		"=SUM(1,2)SUM(3)",
		"=SUM(1)A1",
		"=SUM(1)1.5",
		"=(1)(2)",
		"=A1(2)",
		"=1+SUM(2)(3)",
	} {
		s := newTestSheet(t, map[string]string{"A1": "1", "E5": formula})
		assert.Equal(t, ErrorText, display(t, s, "E5"), formula)
	}
}

func TestResolver_FailingReferenceReadsAsZero(t *testing.T) {
	s := newTestSheet(t, map[string]string{
		"A1": "=1/0",
		"B1": "=A1+5",
		"C1": "=SUM(A1,2)",
	})
	assert.Equal(t, ErrorText, display(t, s, "A1"))
	assert.Equal(t, "5", display(t, s, "B1"))
	assert.Equal(t, "2", display(t, s, "C1"))
}

func TestResolver_FailingArgumentReadsAsZero(t *testing.T) {
	s := newTestSheet(t, map[string]string{"A1": "=SUM(1/0,4)", "A2": "=SUM(FOO(1)+1,4)"})
	assert.Equal(t, "4", display(t, s, "A1"))
	assert.Equal(t, "4", display(t, s, "A2"))
}

func TestResolver_CircularReference(t *testing.T) {
	s := newTestSheet(t, map[string]string{
		"A1": "=A2",
		"A2": "=A1",
		"B1": "=C1",
		"C1": "=B1",
		"D1": "=SUM(D1:D2)",
		"E1": "=B1*2",
	})
	for _, ref := range []string{"A1", "A2", "B1", "C1", "D1", "E1"} {
		assert.Equal(t, ErrorText, display(t, s, ref), ref)
	}

	a, _ := ParseAddress("B1")
	_, err := s.Evaluate(a.Row, a.Col)
	assert.ErrorIs(t, err, ErrCircularReference)

	s.SetRawCell(2, 0, "=A3+1")
	assert.Equal(t, ErrorText, display(t, s, "A3"), "self reference")
}

func TestResolver_DiamondIsNotCircular(t *testing.T) {
	s := newTestSheet(t, map[string]string{
		"A1": "1",
		"B1": "=A1",
		"C1": "=A1",
		"D1": "=B1+C1",
		"E1": "=SUM(B1:D1)",
	})
	assert.Equal(t, "2", display(t, s, "D1"))
	assert.Equal(t, "4", display(t, s, "E1"))
}

func TestResolver_RangeIsClippedToGrid(t *testing.T) {
	s := newTestSheet(t, map[string]string{"B2": "1", "E5": "2", "A1": "=SUM(B2:Z99)"})
	assert.Equal(t, "3", display(t, s, "A1"))

	s.SetRawCell(0, 0, "=COUNT(B2:Z99)")
	assert.Equal(t, "16", display(t, s, "A1"))
}

func TestResolver_Evaluate(t *testing.T) {
	g := NewGrid(2, 2)
	g.Set(0, 0, "4")
	r := NewResolver(g)

	v, err := r.Evaluate("=A1*2")
	require.NoError(t, err)
	assert.Equal(t, 8.0, v)

	v, err = r.Evaluate("SQRT(A1)+1")
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)

	_, err = r.Evaluate("=FOO(A1)")
	assert.ErrorIs(t, err, ErrUnknownFunction)

	_, err = r.Evaluate("=A1/0")
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestResolver_EvaluateCell(t *testing.T) {
	g := NewGrid(1, 3)
	g.Set(0, 0, "2.5")
	g.Set(0, 1, "text")
	g.Set(0, 2, "=A1*2")
	r := NewResolver(g)

	v, err := r.EvaluateCell(NewAddress(0, 0))
	require.NoError(t, err)
	assert.Equal(t, 2.5, v)

	v, err = r.EvaluateCell(NewAddress(0, 1))
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)

	v, err = r.EvaluateCell(NewAddress(0, 2))
	require.NoError(t, err)
	assert.Equal(t, 5.0, v)
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{0, "0"},
		{6, "6"},
		{-6, "-6"},
		{2.5, "2.50"},
		{1.0 / 3, "0.33"},
		{-2.25, "-2.25"},
		{1e15, "1000000000000000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatNumber(tt.v), "%v", tt.v)
	}
}

func TestReferences(t *testing.T) {
	refs, err := References("=SUM(A1:B2)+C3*2-FOO")
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, "A1:B2", refs[0].String())
	assert.Equal(t, "C3", refs[1].String())

	refs, err = References("=1+2")
	require.NoError(t, err)
	assert.Empty(t, refs)
}
