package domain

// PlanPartitions splits n items into w contiguous partitions. Every partition
// gets n/w items and the last one also takes the remainder; the split is not
// balanced. When n < w the leading partitions are empty.
func PlanPartitions(n, w int) ([]Partition, error) {
	if w < 1 {
		return nil, ErrInvalidWorkerCount
	}
	if n < 0 {
		return nil, ErrInvalidDatasetSize
	}

	base := n / w
	rest := n % w

	parts := make([]Partition, w)
	start := 0
	for g := range w {
		length := base
		if g == w-1 {
			length += rest
		}
		parts[g] = Partition{Group: g, Start: start, Length: length}
		start += length
	}
	return parts, nil
}

// GroupLabel returns A..Z for the first 26 groups, then AA, AB and so on.
func GroupLabel(group int) string {
	label := ""
	for n := group; ; n = n/26 - 1 {
		label = string(rune('A'+n%26)) + label
		if n < 26 {
			break
		}
	}
	return label
}
