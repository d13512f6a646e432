package common

// InCircle reports whether (px, py) lies within radius r of (cx, cy)
func InCircle(px, py, cx, cy, r float64) bool {
	return Dist2(px, py, cx, cy) <= r*r
}

// IsFraction checks v is a usable share of a fleet, in (0, 1]
func IsFraction(v float64) bool {
	return v > 0 && v <= 1
}

// InBounds checks a point lies in the [0,w]x[0,h] rectangle
func InBounds(x, y, w, h float64) bool {
	return x >= 0 && x <= w && y >= 0 && y <= h
}
