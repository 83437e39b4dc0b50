package mandelbrot

const (
	// MinBailout is the smallest escape radius (squared) that still classifies points correctly.
	MinBailout = 4.0
	// DefaultBailout leaves enough room past the escape radius for the smooth colour renormalization.
	DefaultBailout = 65536.0

	periodCheckInterval = 20
)

// EscapeTime iterates z = z*z + c from z = 0 and returns how many iterates stayed within the bailout radius (squared),
// together with the first iterate that left it. A return value of maxIterations means the point is taken to be in the
// set; maxIterations of 0 classifies every point as escaped at 0.
//
// https://en.wikipedia.org/wiki/Plotting_algorithms_for_the_Mandelbrot_set#Optimized_escape_time_algorithms
func EscapeTime(cx float64, cy float64, maxIterations int, bailout float64) (int, float64, float64) {
	x, y, x2, y2 := 0.0, 0.0, 0.0, 0.0
	oldX, oldY := 0.0, 0.0
	period := 0

	for iteration := 0; iteration < maxIterations; iteration++ {
		y = 2*x*y + cy
		x = x2 - y2 + cx
		x2 = x * x
		y2 = y * y
		if x2+y2 > bailout {
			return iteration, x, y
		}

		// periodicity checking: an orbit that revisits an earlier value never escapes
		// https://en.wikipedia.org/wiki/Plotting_algorithms_for_the_Mandelbrot_set#Periodicity_checking
		if x == oldX && y == oldY {
			return maxIterations, x, y
		}
		period++
		if period > periodCheckInterval {
			period = 0
			oldX = x
			oldY = y
		}
	}

	return maxIterations, x, y
}
