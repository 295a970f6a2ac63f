package stats

// PairedTest carries a significance test outcome. Defined is false when the
// input was insufficient for the test; Stat and P are meaningless then.
type PairedTest struct {
	Stat    float64 `json:"stat"`
	P       float64 `json:"p_value"`
	N       int     `json:"n"`
	Defined bool    `json:"defined"`
}

// AgreementTable is the 2x2 contingency table for two paired binary
// sequences over the same items.
type AgreementTable struct {
	BothCorrect int `json:"both_correct"`
	FirstOnly   int `json:"first_only"`
	SecondOnly  int `json:"second_only"`
	BothWrong   int `json:"both_wrong"`
}

// Agreement builds the 2x2 table from two aligned correctness sequences.
// ok is false on a length mismatch.
func Agreement(a, b []bool) (AgreementTable, bool) {
	var t AgreementTable
	if len(a) != len(b) {
		return t, false
	}
	for i := range a {
		switch {
		case a[i] && b[i]:
			t.BothCorrect++
		case a[i] && !b[i]:
			t.FirstOnly++
		case !a[i] && b[i]:
			t.SecondOnly++
		default:
			t.BothWrong++
		}
	}
	return t, true
}

// McNemar runs the continuity-corrected McNemar test on two paired
// correctness sequences. With zero disagreement the test degenerates and
// p is exactly 1.0; dividing by b+c there is a real input, not a
// hypothetical, so that branch is explicit.
func McNemar(a, b []bool) PairedTest {
	table, ok := Agreement(a, b)
	if !ok || len(a) == 0 {
		return PairedTest{}
	}

	n := len(a)
	bc := table.FirstOnly + table.SecondOnly
	if bc == 0 {
		return PairedTest{Stat: 0, P: 1.0, N: n, Defined: true}
	}

	diff := float64(table.FirstOnly - table.SecondOnly)
	if diff < 0 {
		diff = -diff
	}
	corrected := diff - 0.5
	stat := corrected * corrected / float64(bc)

	return PairedTest{
		Stat:    stat,
		P:       ChiSquareSF(stat, 1),
		N:       n,
		Defined: true,
	}
}
