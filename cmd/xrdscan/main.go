// xrdscan reads Rigaku RAS X-ray diffraction scan files.
//
// Each file holds one or more scan segments: a header of *KEY "value"
// lines followed by rows of angle, intensity and attenuation. xrdscan
// parses the segments into datasets with counting statistics, axis
// positions and wavelength information.
//
// Usage:
//
//	# Summarize every segment of a file
//	xrdscan show scan.ras
//
//	# Join the segments of a multi-segment file into one dataset
//	xrdscan show --join scan.ras
//
//	# Export counts per second as CSV
//	xrdscan show --normalize --format csv scan.ras > scan.csv
//
//	# Show the header keys that differ between segments
//	xrdscan headers scan.ras
//
//	# Inspect or empty the parse cache
//	xrdscan cache stats
//	xrdscan cache clear
package main

import "os"

func main() {
	os.Exit(Execute())
}
