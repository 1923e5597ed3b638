package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// WAVInfo describes the PCM payload of a RIFF/WAVE file.
type WAVInfo struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
	DataSize      int
}

var errNotWAV = errors.New("not a RIFF/WAVE file")

// ReadWAV walks the RIFF chunk list, returning the format info and a reader
// positioned at the raw PCM payload. It does not assume the 44-byte layout:
// files with extra chunks (LIST, fact) stream correctly too.
func ReadWAV(r io.Reader) (WAVInfo, io.Reader, error) {
	var info WAVInfo

	var riff [12]byte
	if _, err := io.ReadFull(r, riff[:]); err != nil {
		return info, nil, fmt.Errorf("read RIFF header: %w", err)
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return info, nil, errNotWAV
	}

	sawFmt := false
	for {
		var chunkHeader [8]byte
		if _, err := io.ReadFull(r, chunkHeader[:]); err != nil {
			return info, nil, fmt.Errorf("read chunk header: %w", err)
		}
		id := string(chunkHeader[0:4])
		size := int(binary.LittleEndian.Uint32(chunkHeader[4:8]))

		switch id {
		case "fmt ":
			body := make([]byte, size)
			if _, err := io.ReadFull(r, body); err != nil {
				return info, nil, fmt.Errorf("read fmt chunk: %w", err)
			}
			if size < 16 {
				return info, nil, fmt.Errorf("fmt chunk too short: %d bytes", size)
			}
			info.Channels = int(binary.LittleEndian.Uint16(body[2:4]))
			info.SampleRate = int(binary.LittleEndian.Uint32(body[4:8]))
			info.BitsPerSample = int(binary.LittleEndian.Uint16(body[14:16]))
			sawFmt = true
		case "data":
			if !sawFmt {
				return info, nil, errors.New("data chunk before fmt chunk")
			}
			info.DataSize = size
			return info, io.LimitReader(r, int64(size)), nil
		default:
			// Skip unrelated chunks (LIST, fact, cue).
			if _, err := io.CopyN(io.Discard, r, int64(size)); err != nil {
				return info, nil, fmt.Errorf("skip %q chunk: %w", id, err)
			}
		}
	}
}

// BytesPerSecond is the PCM data rate for the given format (16-bit samples).
func BytesPerSecond(sampleRate, channels int) int {
	return sampleRate * 2 * channels
}
