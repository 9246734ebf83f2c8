// Package ras loads Rigaku SmartLab ".ras" X-ray diffraction scan files.
//
// A RAS file is an ASCII container with CRLF line endings holding one or
// more segments, each a quoted header block followed by a block of
// "x intensity scale" rows:
//
//	*RAS_DATA_START
//	*RAS_HEADER_START
//	*FILE_SAMPLE "Si wafer"
//	*MEAS_SCAN_SPEED "1.0"
//	...
//	*RAS_HEADER_END
//	*RAS_INT_START
//	0.5000 1234 1.0000
//	...
//	*RAS_INT_END
//	*RAS_HEADER_START
//	...
//	*RAS_DATA_END
//
// # Parsing
//
// Parse turns file contents into one Dataset per segment:
//
//	datasets, err := ras.Parse(data)
//
// Header values are coerced to integers, floats or text (Coerce). The
// indexed MEAS_COND_AXIS_* fields become an AxisTable keyed by internal
// axis name. Each Dataset carries y = intensity*scale with Poisson error
// sqrt(intensity)*scale, scan metadata, and the wavelength selected by
// MEAS_COND_XG_WAVE_TYPE.
//
// Parsing is pure: the same bytes always give identical datasets, NaN
// sentinels included. Unknown monochromator crystals are not errors; their
// resolution and divergence are NaN.
//
// # Loading
//
// Load reads a file and annotates errors with its path:
//
//	loader := ras.NewLoader().WithMmap(true)
//	datasets, err := loader.Load(ctx, "scan.ras")
//
// # Joining
//
// Join concatenates the segments of one scan. Segments must share the scan
// axis and attenuator position, otherwise an *errors.IncompatibilityError
// is returned and nothing is joined:
//
//	scan, err := ras.Join(datasets)
package ras
