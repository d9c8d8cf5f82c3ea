package helpers

import "golang.org/x/exp/constraints"

func Min[T constraints.Ordered](numbers ...T) T {
	var min T = numbers[0]
	for _, n := range numbers {
		if n < min {
			min = n
		}
	}
	return min
}

// CeilLog2 returns the smallest d with 1<<d >= n. CeilLog2(0) and
// CeilLog2(1) are 0.
func CeilLog2(n uint) int {
	d := 0
	for v := uint(1); v < n; v <<= 1 {
		d++
	}
	return d
}
