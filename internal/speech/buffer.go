package speech

import (
	"bytes"
	"fmt"
	"io"
)

// BufferAudio copies src into memory and returns a reader positioned at the
// start of the data. The reader is seekable, which the MP3 decoder uses to
// compute the stream length.
func BufferAudio(src io.Reader) (*bytes.Reader, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(src); err != nil {
		return nil, fmt.Errorf("buffering audio: %w", err)
	}
	return bytes.NewReader(buf.Bytes()), nil
}
