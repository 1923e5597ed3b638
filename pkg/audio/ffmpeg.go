package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"

	"github.com/smallestai/waves-go/pkg/errorsx"
)

const (
	TargetSampleRate = 16000
	TargetChannels   = 1
)

// Info is the audio metadata reported by ffprobe.
type Info struct {
	Codec      string
	SampleRate int
	Channels   int
	Duration   float64
}

// CheckFFmpeg reports whether the ffmpeg binary is available.
func CheckFFmpeg() error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return errorsx.Wrap(fmt.Errorf("ffmpeg not found in PATH: %w", err), errorsx.ReasonPreprocess)
	}
	return nil
}

// Probe reads audio metadata with ffprobe.
func Probe(ctx context.Context, path string) (Info, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cmd := exec.CommandContext(ctx, "ffprobe", probeArgs(path)...)
	out, err := cmd.Output()
	if err != nil {
		return Info{}, errorsx.Wrap(fmt.Errorf("ffprobe: %w", err), errorsx.ReasonPreprocess)
	}
	return parseProbeOutput(out)
}

// Preprocess converts any input ffmpeg can read into 16 kHz mono
// little-endian 16-bit PCM WAV, the recommended format for streaming.
func Preprocess(ctx context.Context, inputPath, outputPath string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cmd := exec.CommandContext(ctx, "ffmpeg", convertArgs(inputPath, outputPath)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return errorsx.Wrap(
			fmt.Errorf("ffmpeg: %w: %s", err, bytes.TrimSpace(stderr.Bytes())),
			errorsx.ReasonPreprocess)
	}
	return nil
}

func probeArgs(path string) []string {
	return []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_format", "-show_streams",
		path,
	}
}

func convertArgs(inputPath, outputPath string) []string {
	return []string{
		"-y",
		"-i", inputPath,
		"-vn",
		"-ar", strconv.Itoa(TargetSampleRate),
		"-ac", strconv.Itoa(TargetChannels),
		"-acodec", "pcm_s16le",
		outputPath,
	}
}

type probeOutput struct {
	Streams []struct {
		CodecType  string `json:"codec_type"`
		CodecName  string `json:"codec_name"`
		SampleRate string `json:"sample_rate"`
		Channels   int    `json:"channels"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

func parseProbeOutput(out []byte) (Info, error) {
	var decoded probeOutput
	if err := json.Unmarshal(out, &decoded); err != nil {
		return Info{}, errorsx.Wrap(fmt.Errorf("ffprobe output: %w", err), errorsx.ReasonPreprocess)
	}
	for _, stream := range decoded.Streams {
		if stream.CodecType != "audio" {
			continue
		}
		info := Info{
			Codec:    stream.CodecName,
			Channels: stream.Channels,
		}
		info.SampleRate, _ = strconv.Atoi(stream.SampleRate)
		info.Duration, _ = strconv.ParseFloat(decoded.Format.Duration, 64)
		return info, nil
	}
	return Info{}, errorsx.Wrap(fmt.Errorf("no audio stream found"), errorsx.ReasonPreprocess)
}
