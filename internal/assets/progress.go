package assets

import (
	"bytes"
	"io"
)

// progressStep is the minimum number of bytes between progress reports.
const progressStep = 64 << 10

// readAll reads r to the end, reporting progress every progressStep bytes
// and once at the end.
func readAll(r io.Reader, total int64, progress ProgressFunc) ([]byte, error) {
	var buf bytes.Buffer
	if total > 0 {
		buf.Grow(int(total))
	}

	chunk := make([]byte, 32<<10)
	var loaded, reported int64
	for {
		n, err := r.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
			loaded += int64(n)
			if progress != nil && loaded-reported >= progressStep {
				progress(loaded, total)
				reported = loaded
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	if progress != nil && loaded != reported {
		progress(loaded, total)
	}
	return buf.Bytes(), nil
}
