package storage

import (
	"errors"
	"io"
	"os"
	"strconv"
	"strings"
)

// maxChunkBytes caps how much of a range is served per response so
// large media files never load fully into memory.
const maxChunkBytes = 1 << 20

var (
	// ErrRangeNotSatisfiable signals a malformed or out-of-bounds range.
	// Callers answer with 416 and "Content-Range: bytes */{length}".
	ErrRangeNotSatisfiable = errors.New("requested range not satisfiable")
	// ErrNotByteRange signals a Range header in a unit other than bytes.
	// Callers ignore the header and serve the full resource.
	ErrNotByteRange = errors.New("range unit is not bytes")
)

// ByteRange is a resolved byte range within a file of known length.
type ByteRange struct {
	Start int64
	End   int64
}

// ParseRange parses a single-range "bytes=" header value against a file
// of fileLength bytes. Only the first range of a multi-range header is
// honored. Supported forms: "start-end", "start-", "-suffix".
func ParseRange(header string, fileLength int64) (ByteRange, error) {
	if !strings.HasPrefix(header, "bytes=") {
		return ByteRange{}, ErrNotByteRange
	}

	value := strings.TrimSpace(strings.TrimPrefix(header, "bytes="))
	if idx := strings.Index(value, ","); idx != -1 {
		value = strings.TrimSpace(value[:idx])
	}

	parts := strings.SplitN(value, "-", 2)
	if len(parts) != 2 {
		return ByteRange{}, ErrRangeNotSatisfiable
	}

	var start, end int64
	if parts[0] == "" {
		// Suffix form: last N bytes.
		suffix, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil || suffix <= 0 {
			return ByteRange{}, ErrRangeNotSatisfiable
		}
		start = fileLength - suffix
		if start < 0 {
			start = 0
		}
		end = fileLength - 1
	} else {
		var err error
		start, err = strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			return ByteRange{}, ErrRangeNotSatisfiable
		}
		if parts[1] == "" {
			end = fileLength - 1
		} else {
			end, err = strconv.ParseInt(parts[1], 10, 64)
			if err != nil {
				return ByteRange{}, ErrRangeNotSatisfiable
			}
		}
	}

	if start < 0 || start >= fileLength {
		return ByteRange{}, ErrRangeNotSatisfiable
	}
	if end > fileLength-1 {
		end = fileLength - 1
	}
	if end < start {
		return ByteRange{}, ErrRangeNotSatisfiable
	}

	return ByteRange{Start: start, End: end}, nil
}

// ReadChunk reads up to maxChunkBytes of the range from the file at
// path. The returned end is the actual last byte read, which may fall
// short of r.End for ranges larger than the chunk cap.
func ReadChunk(path string, r ByteRange) (data []byte, end int64, err error) {
	length := r.End - r.Start + 1
	if length > maxChunkBytes {
		length = maxChunkBytes
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = f.Close() }()

	data = make([]byte, length)
	n, err := f.ReadAt(data, r.Start)
	if n == 0 && err != nil && err != io.EOF {
		return nil, 0, err
	}

	data = data[:n]
	return data, r.Start + int64(n) - 1, nil
}
