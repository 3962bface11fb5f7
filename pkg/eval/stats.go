package eval

import "math"

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// std is the population standard deviation.
func std(values []float64) float64 {
	if len(values) == 0 {
		return 0.0
	}
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}

// shannonEntropy computes -sum(p*log2(p)) over the distribution obtained by
// normalizing values to sum to 1. Non-positive values contribute nothing;
// an all-zero input has entropy 0.
func shannonEntropy(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		if v > 0 {
			total += v
		}
	}
	if total == 0 {
		return 0.0
	}

	entropy := 0.0
	for _, v := range values {
		if v <= 0 {
			continue
		}
		p := v / total
		entropy -= p * math.Log2(p)
	}
	return entropy
}

// round rounds x to the given number of decimal places, matching the
// precision the reports are published with.
func round(x float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(x*factor) / factor
}
