package whisper

// aggregate applies method to values, which must be non-empty. last
// returns the value at the highest-indexed contributing slot in scan
// order — not by timestamp (matches the published propagation semantics).
func aggregate(method AggregationMethod, values []float64) (float64, error) {
	switch method {
	case Average:
		var sum float64
		for _, v := range values {
			sum += v
		}

		return sum / float64(len(values)), nil
	case Sum:
		var sum float64
		for _, v := range values {
			sum += v
		}

		return sum, nil
	case Last:
		return values[len(values)-1], nil
	case Max:
		max := values[0]
		for _, v := range values[1:] {
			if v > max {
				max = v
			}
		}

		return max, nil
	case Min:
		min := values[0]
		for _, v := range values[1:] {
			if v < min {
				min = v
			}
		}

		return min, nil
	default:
		return 0, errf("aggregate", InvalidAggregationMethod, "unknown aggregation method %d", method)
	}
}
