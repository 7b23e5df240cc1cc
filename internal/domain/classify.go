package domain

import "math"

// Category is one of the three score bands.
type Category int

const (
	CategoryLow Category = iota
	CategoryMid
	CategoryHigh
)

// Classify maps a score to its band: low < 18, mid [18, 28), high >= 28.
func Classify(score int32) Category {
	switch {
	case score < MidThreshold:
		return CategoryLow
	case score < HighThreshold:
		return CategoryMid
	default:
		return CategoryHigh
	}
}

// ScanPartition makes one pass over p and returns its average and counts.
// An empty partition yields a result with Degenerate set, a NaN average and
// zero counts, together with ErrDegenerateChunk.
func ScanPartition(data Dataset, p Partition) (WorkerResult, error) {
	res := WorkerResult{Group: p.Group}
	if p.Length == 0 {
		res.Degenerate = true
		res.Average = math.NaN()
		return res, ErrDegenerateChunk
	}

	var sum int64
	var low, mid, high int64
	for _, n := range data[p.Start:p.End()] {
		sum += int64(n)
		switch Classify(n) {
		case CategoryLow:
			low++
		case CategoryMid:
			mid++
		default:
			high++
		}
	}

	res.Average = float64(sum) / float64(p.Length)
	res.Counts = Counts{Low: low, Mid: mid, High: high}
	return res, nil
}

// CountAll classifies the whole dataset in a single pass.
func CountAll(data Dataset) Counts {
	var c Counts
	for _, n := range data {
		switch Classify(n) {
		case CategoryLow:
			c.Low++
		case CategoryMid:
			c.Mid++
		default:
			c.High++
		}
	}
	return c
}

// SumCounts adds up the counts of every result.
func SumCounts(results []WorkerResult) Counts {
	var c Counts
	for _, r := range results {
		c = c.Add(r.Counts)
	}
	return c
}
