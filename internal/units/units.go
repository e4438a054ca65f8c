// Package units converts print lengths between millimeters and pixels.
package units

import "math"

// MMPerInch is the number of millimeters in one inch.
const MMPerInch = 25.4

// MMToPx converts millimeters to pixels at dpi. The result is not rounded.
func MMToPx(mm, dpi float64) float64 {
	return (mm / MMPerInch) * dpi
}

// PxToMm converts pixels to millimeters at dpi.
func PxToMm(px, dpi float64) float64 {
	return (px * MMPerInch) / dpi
}

// PxSize rounds MMToPx to the nearest whole pixel.
func PxSize(mm, dpi float64) int {
	return int(math.Round(MMToPx(mm, dpi)))
}
