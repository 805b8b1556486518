package speech

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"testing/iotest"
)

func TestBufferAudioRoundTrip(t *testing.T) {
	payload := make([]byte, 4096+17)
	for i := range payload {
		payload[i] = byte(i * 7)
	}

	// OneByteReader forces many short reads.
	buf, err := BufferAudio(iotest.OneByteReader(bytes.NewReader(payload)))
	if err != nil {
		t.Fatalf("buffer: %v", err)
	}

	if buf.Size() != int64(len(payload)) {
		t.Fatalf("expected size %d, got %d", len(payload), buf.Size())
	}
	pos, err := buf.Seek(0, io.SeekCurrent)
	if err != nil {
		t.Fatalf("seek: %v", err)
	}
	if pos != 0 {
		t.Fatalf("expected buffer positioned at 0, got %d", pos)
	}

	got, err := io.ReadAll(buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatal("buffered bytes differ from input")
	}
}

func TestBufferAudioEmpty(t *testing.T) {
	buf, err := BufferAudio(bytes.NewReader(nil))
	if err != nil {
		t.Fatalf("buffer: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected empty buffer, got %d bytes", buf.Len())
	}
}

func TestBufferAudioReadError(t *testing.T) {
	boom := errors.New("connection reset")
	_, err := BufferAudio(iotest.ErrReader(boom))
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped read error, got %v", err)
	}
}
