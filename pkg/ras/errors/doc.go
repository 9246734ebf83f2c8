// Package errors provides the typed errors reported by the RAS scan-file parser.
//
// # Error Types
//
// FormatError: structural violation of the container format (missing or
// out-of-order marker, malformed header or data line, missing required
// header field). Always fatal for the whole file.
//
// IncompatibilityError: segments that cannot be joined into one scan
// because they disagree on scan axis or attenuation.
//
// IOError: the file could not be read at the load boundary.
//
// Unknown instrument configurations are not errors; the parser records them
// as NaN or null sentinels in the dataset.
//
// # Basic Usage
//
//	datasets, err := ras.Parse(data)
//	var fe *errors.FormatError
//	if stderrors.As(err, &fe) {
//	    fmt.Println(fe.Line, fe.Message)
//	}
//
// Filename context is attached only at the load boundary:
//
//	return nil, errors.WithFile(err, path)
//
// # Error Format
//
//	[format] missing *RAS_HEADER_END
//	  --> scan.ras:12
//	  |
//	  ->  12 | *MEAS_SCAN_SPEED "1.0"
//	  |
//	  = suggestion: close the header block with *RAS_HEADER_END
package errors
