package core

import "sort"

// Distribution summarises the likes of one group the way a box plot does.
// Quartiles use linear interpolation between closest ranks.
type Distribution struct {
	Name         string  `json:"name"`
	Count        int     `json:"count"`
	Min          int64   `json:"min"`
	Q1           float64 `json:"q1"`
	Median       float64 `json:"median"`
	Q3           float64 `json:"q3"`
	Max          int64   `json:"max"`
	Mean         float64 `json:"mean"`
	LowerWhisker int64   `json:"lower_whisker"`
	UpperWhisker int64   `json:"upper_whisker"`
	Outliers     []int64 `json:"outliers"`
}

// Describe computes the distribution of values. An empty input yields a
// zero Distribution carrying only the name.
func Describe(name string, values []int64) Distribution {
	d := Distribution{Name: name, Outliers: []int64{}}
	if len(values) == 0 {
		return d
	}
	sorted := append([]int64(nil), values...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var sum int64
	for _, v := range sorted {
		sum += v
	}
	d.Count = len(sorted)
	d.Min = sorted[0]
	d.Max = sorted[len(sorted)-1]
	d.Mean = float64(sum) / float64(len(sorted))
	d.Q1 = quantile(sorted, 0.25)
	d.Median = quantile(sorted, 0.5)
	d.Q3 = quantile(sorted, 0.75)

	iqr := d.Q3 - d.Q1
	lowFence := d.Q1 - 1.5*iqr
	highFence := d.Q3 + 1.5*iqr
	d.LowerWhisker, d.UpperWhisker = d.Max, d.Min
	for _, v := range sorted {
		f := float64(v)
		if f < lowFence || f > highFence {
			d.Outliers = append(d.Outliers, v)
			continue
		}
		if v < d.LowerWhisker {
			d.LowerWhisker = v
		}
		if v > d.UpperWhisker {
			d.UpperWhisker = v
		}
	}
	return d
}

// quantile expects sorted, non-empty input.
func quantile(sorted []int64, p float64) float64 {
	pos := p * float64(len(sorted)-1)
	lo := int(pos)
	if lo >= len(sorted)-1 {
		return float64(sorted[len(sorted)-1])
	}
	frac := pos - float64(lo)
	return float64(sorted[lo]) + frac*float64(sorted[lo+1]-sorted[lo])
}
