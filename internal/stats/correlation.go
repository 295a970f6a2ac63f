package stats

import (
	"math"
	"sort"
)

// Pearson returns the Pearson correlation coefficient. ok is false with
// fewer than two pairs, mismatched lengths, or zero variance in either
// series.
func Pearson(x, y []float64) (float64, bool) {
	if len(x) != len(y) || len(x) < 2 {
		return 0, false
	}

	mx := Mean(x)
	my := Mean(y)

	var num, dx2, dy2 float64
	for i := range x {
		dx := x[i] - mx
		dy := y[i] - my
		num += dx * dy
		dx2 += dx * dx
		dy2 += dy * dy
	}

	denom := math.Sqrt(dx2 * dy2)
	if denom == 0 {
		return 0, false
	}
	return num / denom, true
}

// Spearman returns the Spearman rank correlation: Pearson over
// tie-averaged ranks.
func Spearman(x, y []float64) (float64, bool) {
	if len(x) != len(y) || len(x) < 2 {
		return 0, false
	}
	return Pearson(Ranks(x), Ranks(y))
}

// Ranks assigns 1-based ranks with ties receiving the average of the
// positions they span.
func Ranks(vals []float64) []float64 {
	n := len(vals)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return vals[idx[a]] < vals[idx[b]] })

	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && vals[idx[j+1]] == vals[idx[i]] {
			j++
		}
		// Positions i..j hold equal values; each gets the mean rank.
		avg := (float64(i+1) + float64(j+1)) / 2
		for k := i; k <= j; k++ {
			ranks[idx[k]] = avg
		}
		i = j + 1
	}
	return ranks
}

// PearsonTest returns the coefficient together with a two-sided p-value
// from the t transform t = r*sqrt((n-2)/(1-r^2)). Undefined with fewer
// than three pairs or a degenerate coefficient.
func PearsonTest(x, y []float64) (float64, PairedTest) {
	r, ok := Pearson(x, y)
	if !ok {
		return 0, PairedTest{}
	}

	n := len(x)
	if n < 3 {
		return r, PairedTest{}
	}
	if r >= 1 || r <= -1 {
		return r, PairedTest{Stat: math.Inf(sign(r)), P: 0, N: n, Defined: true}
	}

	t := r * math.Sqrt(float64(n-2)/(1-r*r))
	return r, PairedTest{
		Stat:    t,
		P:       StudentTSF2(t, n-2),
		N:       n,
		Defined: true,
	}
}

func sign(v float64) int {
	if v < 0 {
		return -1
	}
	return 1
}

// Matrix is a symmetric correlation matrix over named metric columns.
// A nil cell marks an undefined coefficient (zero-variance column).
type Matrix struct {
	Names  []string     `json:"names"`
	Values [][]*float64 `json:"values"`
}

// Cell returns the coefficient for a pair of metric names. ok is false for
// unknown names or undefined cells.
func (m *Matrix) Cell(a, b string) (float64, bool) {
	if m == nil {
		return 0, false
	}
	ai, bi := -1, -1
	for i, n := range m.Names {
		if n == a {
			ai = i
		}
		if n == b {
			bi = i
		}
	}
	if ai < 0 || bi < 0 || m.Values[ai][bi] == nil {
		return 0, false
	}
	return *m.Values[ai][bi], true
}

// CorrelationMatrix computes a full pairwise matrix over metric columns
// using the given coefficient (Pearson or Spearman). Fewer than two rows is
// insufficient data: the result is nil, never a degenerate all-ones matrix.
func CorrelationMatrix(names []string, cols [][]float64, corr func(x, y []float64) (float64, bool)) *Matrix {
	if len(names) == 0 || len(cols) != len(names) {
		return nil
	}
	rows := len(cols[0])
	for _, c := range cols {
		if len(c) != rows {
			return nil
		}
	}
	if rows < 2 {
		return nil
	}

	m := &Matrix{
		Names:  append([]string(nil), names...),
		Values: make([][]*float64, len(names)),
	}
	for i := range m.Values {
		m.Values[i] = make([]*float64, len(names))
	}

	for i := range cols {
		for j := i; j < len(cols); j++ {
			if v, ok := corr(cols[i], cols[j]); ok {
				val := v
				m.Values[i][j] = &val
				if i != j {
					m.Values[j][i] = &val
				}
			}
		}
	}
	return m
}
