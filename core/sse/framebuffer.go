package sse

import "strings"

const (
	dataPrefix     = "data: "
	frameDelimiter = "\n\n"
)

// RawFrame is one delimited block of the stream, reduced to its data
// lines but not yet decoded.
type RawFrame string

// FrameBuffer reassembles protocol frames from arbitrarily chunked reads.
// Whatever trails the last complete delimiter is retained until a later
// Append completes it, so no bytes are lost however the network splits
// the stream. The zero value is ready to use; a new run gets a new buffer.
type FrameBuffer struct {
	remainder string
}

// Append adds a decoded text chunk and returns every frame it completed,
// in arrival order. Lines without the data prefix (comments, keep-alives)
// are discarded, and a frame left with no data lines yields nothing.
// Empty or whitespace-only input completes no frames.
func (b *FrameBuffer) Append(chunk string) []RawFrame {
	if chunk == "" {
		return nil
	}

	combined := strings.ReplaceAll(b.remainder+chunk, "\r\n", "\n")
	blocks := strings.Split(combined, frameDelimiter)
	b.remainder = blocks[len(blocks)-1]

	var frames []RawFrame
	for _, block := range blocks[:len(blocks)-1] {
		if frame, ok := reduceFrame(block); ok {
			frames = append(frames, frame)
		}
	}
	return frames
}

// reduceFrame strips a complete block down to its data lines.
func reduceFrame(block string) (RawFrame, bool) {
	var dataLines []string
	for _, line := range strings.Split(block, "\n") {
		if strings.HasPrefix(line, dataPrefix) {
			dataLines = append(dataLines, line)
		}
	}
	if len(dataLines) == 0 {
		return "", false
	}
	return RawFrame(strings.Join(dataLines, "\n")), true
}
