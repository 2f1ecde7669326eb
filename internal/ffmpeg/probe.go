package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/kikiluvv/trimlab/internal/media"
	"github.com/kikiluvv/trimlab/pkg/util"
)

// probeTimescale keeps probed durations at microsecond-ish precision
const probeTimescale int32 = 90000

// LoadAsset probes a local video file and describes its tracks.
func (e *Executor) LoadAsset(ctx context.Context, path string) (*media.SourceAsset, error) {
	if path == "" {
		return nil, &media.AssetUnavailableError{Reason: "file path is required"}
	}
	if !util.FileExists(path) {
		return nil, &media.AssetUnavailableError{Source: path, Reason: "file does not exist"}
	}

	e.logger.Debug().Str("path", path).Msg("probing asset")

	output, err := e.probe(ctx, path)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &media.AssetUnavailableError{Source: path, Reason: "ffprobe failed", Err: err}
	}

	asset, err := parseProbe(output, path)
	if err != nil {
		return nil, err
	}

	e.logger.Info().
		Str("path", path).
		Str("duration", util.FormatDuration(asset.Duration.Duration())).
		Int("tracks", len(asset.Tracks)).
		Msg("asset loaded")

	return asset, nil
}

// probe runs ffprobe bounded by the configured timeout
func (e *Executor) probe(ctx context.Context, path string) ([]byte, error) {
	if e.probeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.probeTimeout)
		defer cancel()
	}

	args := []string{
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	}

	cmd := exec.CommandContext(ctx, e.ffprobePath, args...)
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("ffprobe failed: %w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}
	return output, nil
}

// parseProbe maps ffprobe JSON onto a SourceAsset
func parseProbe(data []byte, path string) (*media.SourceAsset, error) {
	var probe probeResult
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, &media.AssetUnavailableError{Source: path, Reason: "unreadable ffprobe output", Err: err}
	}
	if len(probe.Streams) == 0 {
		return nil, &media.AssetUnavailableError{Source: path, Reason: "no media streams"}
	}

	asset := &media.SourceAsset{URI: path}

	var streamDuration float64
	for _, stream := range probe.Streams {
		switch stream.CodecType {
		case "video":
			if stream.Disposition.AttachedPic == 1 {
				// cover art
				continue
			}
			asset.Tracks = append(asset.Tracks, media.Track{
				ID:          stream.Index,
				Kind:        media.KindVideo,
				Codec:       stream.CodecName,
				NaturalSize: media.Size{Width: stream.Width, Height: stream.Height},
				FrameRate:   util.ParseFrameRate(stream.RFrameRate),
				Transform:   streamTransform(stream),
			})
			if d, err := strconv.ParseFloat(stream.Duration, 64); err == nil && d > streamDuration {
				streamDuration = d
			}
		case "audio":
			asset.Tracks = append(asset.Tracks, media.Track{
				ID:    stream.Index,
				Kind:  media.KindAudio,
				Codec: stream.CodecName,
			})
		}
	}

	duration, err := strconv.ParseFloat(probe.Format.Duration, 64)
	if err != nil || duration <= 0 {
		duration = streamDuration
	}
	if duration <= 0 {
		return nil, &media.AssetUnavailableError{Source: path, Reason: "unknown duration"}
	}
	asset.Duration = media.TimeFromSeconds(duration, probeTimescale)

	return asset, nil
}

// streamTransform prefers the display matrix, then the side data rotation
// (counter-clockwise), then the legacy rotate tag (clockwise).
func streamTransform(stream probeStream) media.Transform {
	for _, sd := range stream.SideDataList {
		if sd.DisplayMatrix == "" {
			continue
		}
		if t, err := parseDisplayMatrix(sd.DisplayMatrix); err == nil {
			return t
		}
	}
	for _, sd := range stream.SideDataList {
		if sd.SideDataType == "Display Matrix" && sd.Rotation != 0 {
			return media.RotationTransform(-sd.Rotation)
		}
	}
	if rotate, ok := stream.Tags["rotate"]; ok {
		if deg, err := strconv.ParseFloat(rotate, 64); err == nil && deg != 0 {
			return media.RotationTransform(deg)
		}
	}
	return media.Identity
}

// parseDisplayMatrix reads ffprobe's 3x3 matrix dump. The first two columns
// are 16.16 fixed point.
func parseDisplayMatrix(s string) (media.Transform, error) {
	var rows [][3]int64
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if i := strings.Index(line, ":"); i >= 0 {
			line = line[i+1:]
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return media.Transform{}, fmt.Errorf("malformed display matrix row %q", line)
		}
		var row [3]int64
		for j, f := range fields {
			v, err := strconv.ParseInt(f, 10, 64)
			if err != nil {
				return media.Transform{}, fmt.Errorf("malformed display matrix value %q: %w", f, err)
			}
			row[j] = v
		}
		rows = append(rows, row)
	}
	if len(rows) != 3 {
		return media.Transform{}, fmt.Errorf("display matrix has %d rows", len(rows))
	}

	const fixed = 1 << 16
	return media.Transform{
		A:  float64(rows[0][0]) / fixed,
		B:  float64(rows[0][1]) / fixed,
		C:  float64(rows[1][0]) / fixed,
		D:  float64(rows[1][1]) / fixed,
		TX: float64(rows[2][0]) / fixed,
		TY: float64(rows[2][1]) / fixed,
	}, nil
}

// probeResult matches ffprobe JSON output structure
type probeResult struct {
	Format struct {
		Duration   string `json:"duration"`
		BitRate    string `json:"bit_rate"`
		FormatName string `json:"format_name"`
	} `json:"format"`
	Streams []probeStream `json:"streams"`
}

type probeStream struct {
	Index       int               `json:"index"`
	CodecType   string            `json:"codec_type"`
	CodecName   string            `json:"codec_name"`
	Width       int               `json:"width"`
	Height      int               `json:"height"`
	RFrameRate  string            `json:"r_frame_rate"`
	Duration    string            `json:"duration"`
	Tags        map[string]string `json:"tags"`
	Disposition struct {
		AttachedPic int `json:"attached_pic"`
	} `json:"disposition"`
	SideDataList []struct {
		SideDataType  string  `json:"side_data_type"`
		DisplayMatrix string  `json:"displaymatrix"`
		Rotation      float64 `json:"rotation"`
	} `json:"side_data_list"`
}
