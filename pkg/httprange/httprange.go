// Package httprange parses HTTP Range headers for single byte ranges.
//
// Only one range per request is honored. Multi-range requests, non-byte
// units, and syntactically broken headers are all reported as invalid so the
// caller can answer 416 with a "bytes */size" Content-Range instead of
// silently falling back to a full-body response.
package httprange

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalid reports a Range header that is malformed or uses an
	// unsupported form (non-bytes unit, multiple ranges, start after end).
	ErrInvalid = errors.New("invalid range")

	// ErrUnsatisfiable reports a well-formed range that selects no bytes of
	// the resource, such as a start at or past the end of the file.
	ErrUnsatisfiable = errors.New("unsatisfiable range")
)

// ByteRange is an inclusive byte interval within a resource.
type ByteRange struct {
	Start int64
	End   int64
}

// Length returns the number of bytes the range covers.
func (r ByteRange) Length() int64 {
	return r.End - r.Start + 1
}

// ContentRange renders the Content-Range header value for a 206 response.
func (r ByteRange) ContentRange(size int64) string {
	return fmt.Sprintf("bytes %d-%d/%d", r.Start, r.End, size)
}

// Unsatisfied renders the Content-Range header value for a 416 response.
func Unsatisfied(size int64) string {
	return fmt.Sprintf("bytes */%d", size)
}

// Parse interprets a Range header value against a resource of the given
// size. An empty header returns (nil, nil): no range was requested and the
// full resource should be served. A non-nil error is ErrInvalid or
// ErrUnsatisfiable; both warrant a 416 response.
//
// Supported forms: "bytes=start-end", "bytes=start-", "bytes=-suffix".
func Parse(header string, size int64) (*ByteRange, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return nil, nil
	}

	const unit = "bytes="
	if len(header) < len(unit) || !strings.EqualFold(header[:len(unit)], unit) {
		return nil, ErrInvalid
	}

	spec := strings.TrimSpace(header[len(unit):])
	if spec == "" || strings.Contains(spec, ",") {
		return nil, ErrInvalid
	}

	dash := strings.Index(spec, "-")
	if dash < 0 {
		return nil, ErrInvalid
	}

	startPart := spec[:dash]
	endPart := spec[dash+1:]

	if startPart == "" {
		// Suffix form: the final N bytes of the resource.
		suffix, err := parseOffset(endPart)
		if err != nil {
			return nil, ErrInvalid
		}
		if suffix == 0 || size <= 0 {
			return nil, ErrUnsatisfiable
		}
		start := size - suffix
		if start < 0 {
			start = 0
		}
		return &ByteRange{Start: start, End: size - 1}, nil
	}

	start, err := parseOffset(startPart)
	if err != nil {
		return nil, ErrInvalid
	}

	end := int64(-1)
	if endPart != "" {
		end, err = parseOffset(endPart)
		if err != nil {
			return nil, ErrInvalid
		}
		if start > end {
			return nil, ErrInvalid
		}
	}

	if size <= 0 || start >= size {
		return nil, ErrUnsatisfiable
	}
	if end < 0 || end > size-1 {
		end = size - 1
	}

	return &ByteRange{Start: start, End: end}, nil
}

// parseOffset parses a byte offset made of decimal digits only. Signs and
// anything else ParseInt would tolerate are rejected.
func parseOffset(s string) (int64, error) {
	if s == "" {
		return 0, ErrInvalid
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, ErrInvalid
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, ErrInvalid
	}
	return n, nil
}
