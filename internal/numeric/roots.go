package numeric

// Bisect locates a root of f in [lo, hi] by bisection, assuming f changes
// sign across the interval. It returns the midpoint of the final bracket.
func Bisect(f func(float64) float64, lo, hi float64) float64 {
	flo := f(lo)
	if flo == 0 {
		return lo
	}
	for i := 0; i < 200; i++ {
		mid := (lo + hi) / 2
		if mid == lo || mid == hi {
			return mid
		}
		fmid := f(mid)
		if fmid == 0 {
			return mid
		}
		if (flo < 0) == (fmid < 0) {
			lo, flo = mid, fmid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}
