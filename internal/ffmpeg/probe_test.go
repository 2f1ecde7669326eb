package ffmpeg

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/kikiluvv/trimlab/internal/media"
)

const landscapeProbe = `{
  "streams": [
    {
      "index": 0,
      "codec_name": "h264",
      "codec_type": "video",
      "width": 1920,
      "height": 1080,
      "r_frame_rate": "30000/1001",
      "duration": "12.012000"
    },
    {
      "index": 1,
      "codec_name": "aac",
      "codec_type": "audio",
      "duration": "12.000000"
    }
  ],
  "format": {
    "format_name": "mov,mp4,m4a,3gp,3g2,mj2",
    "duration": "12.012000",
    "bit_rate": "8000000"
  }
}`

const portraitMatrixProbe = `{
  "streams": [
    {
      "index": 0,
      "codec_name": "hevc",
      "codec_type": "video",
      "width": 1920,
      "height": 1080,
      "r_frame_rate": "30/1",
      "side_data_list": [
        {
          "side_data_type": "Display Matrix",
          "displaymatrix": "\n00000000:            0       65536           0\n00000001:       -65536           0           0\n00000002:            0           0  1073741824\n",
          "rotation": -90
        }
      ]
    }
  ],
  "format": {"duration": "4.000000"}
}`

const rotationOnlyProbe = `{
  "streams": [
    {
      "index": 0,
      "codec_type": "video",
      "width": 1280,
      "height": 720,
      "r_frame_rate": "25/1",
      "side_data_list": [{"side_data_type": "Display Matrix", "rotation": 90}]
    }
  ],
  "format": {"duration": "2.5"}
}`

const rotateTagProbe = `{
  "streams": [
    {
      "index": 0,
      "codec_type": "video",
      "width": 1280,
      "height": 720,
      "r_frame_rate": "25/1",
      "tags": {"rotate": "180"}
    }
  ],
  "format": {"duration": "2.5"}
}`

const coverArtProbe = `{
  "streams": [
    {"index": 0, "codec_type": "audio", "codec_name": "mp3"},
    {"index": 1, "codec_type": "video", "codec_name": "mjpeg", "width": 600, "height": 600, "disposition": {"attached_pic": 1}}
  ],
  "format": {"duration": "180.0"}
}`

const streamDurationProbe = `{
  "streams": [
    {"index": 0, "codec_type": "video", "width": 320, "height": 240, "r_frame_rate": "15/1", "duration": "3.200000"}
  ],
  "format": {"duration": "N/A"}
}`

func TestParseProbeLandscape(t *testing.T) {
	asset, err := parseProbe([]byte(landscapeProbe), "clip.mp4")
	if err != nil {
		t.Fatalf("parseProbe failed: %v", err)
	}

	if got := asset.Duration.Seconds(); math.Abs(got-12.012) > 1e-4 {
		t.Errorf("duration = %v, want 12.012", got)
	}
	if len(asset.Tracks) != 2 {
		t.Fatalf("tracks = %d, want 2", len(asset.Tracks))
	}
	if !asset.HasAudio() {
		t.Error("expected audio track")
	}

	video, ok := asset.VideoTrack()
	if !ok {
		t.Fatal("expected video track")
	}
	if video.NaturalSize != (media.Size{Width: 1920, Height: 1080}) {
		t.Errorf("natural size = %v", video.NaturalSize)
	}
	if math.Abs(video.FrameRate-29.97) > 0.01 {
		t.Errorf("frame rate = %v, want ~29.97", video.FrameRate)
	}
	if video.Transform != media.Identity {
		t.Errorf("transform = %v, want identity", video.Transform)
	}
}

func TestParseProbeOrientation(t *testing.T) {
	tests := []struct {
		name      string
		data      string
		transform media.Transform
		want      media.Orientation
	}{
		{"display matrix", portraitMatrixProbe, media.Transform{B: 1, C: -1}, media.OrientationPortrait},
		{"side data rotation", rotationOnlyProbe, media.Transform{B: -1, C: 1}, media.OrientationPortrait},
		{"rotate tag", rotateTagProbe, media.Transform{A: -1, D: -1}, media.OrientationDefault},
		{"no rotation", landscapeProbe, media.Identity, media.OrientationDefault},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			asset, err := parseProbe([]byte(tt.data), "clip.mp4")
			if err != nil {
				t.Fatalf("parseProbe failed: %v", err)
			}
			video, ok := asset.VideoTrack()
			if !ok {
				t.Fatal("expected video track")
			}
			if video.Transform != tt.transform {
				t.Errorf("transform = %v, want %v", video.Transform, tt.transform)
			}
			if got := media.ClassifyOrientation(video.Transform); got != tt.want {
				t.Errorf("orientation = %v, want %v (transform %v)", got, tt.want, video.Transform)
			}
		})
	}
}

func TestParseProbeSkipsCoverArt(t *testing.T) {
	asset, err := parseProbe([]byte(coverArtProbe), "song.mp3")
	if err != nil {
		t.Fatalf("parseProbe failed: %v", err)
	}
	if _, ok := asset.VideoTrack(); ok {
		t.Error("cover art should not count as a video track")
	}
}

func TestParseProbeStreamDurationFallback(t *testing.T) {
	asset, err := parseProbe([]byte(streamDurationProbe), "clip.mp4")
	if err != nil {
		t.Fatalf("parseProbe failed: %v", err)
	}
	if got := asset.Duration.Seconds(); math.Abs(got-3.2) > 1e-4 {
		t.Errorf("duration = %v, want 3.2", got)
	}
}

func TestParseProbeErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid json", "not json"},
		{"no streams", `{"streams": [], "format": {"duration": "1.0"}}`},
		{"no duration", `{"streams": [{"index": 0, "codec_type": "video", "width": 2, "height": 2}], "format": {}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseProbe([]byte(tt.data), "clip.mp4")
			if !media.IsAssetUnavailableError(err) {
				t.Errorf("expected AssetUnavailableError, got %v", err)
			}
		})
	}
}

func TestParseDisplayMatrixMalformed(t *testing.T) {
	for _, s := range []string{
		"",
		"00000000: 0 65536\n",
		"00000000: 0 a 0\n00000001: 0 0 0\n00000002: 0 0 0\n",
	} {
		if _, err := parseDisplayMatrix(s); err == nil {
			t.Errorf("parseDisplayMatrix(%q) should fail", s)
		}
	}
}

func TestLoadAssetMissingFile(t *testing.T) {
	e := &Executor{logger: zerolog.Nop()}

	_, err := e.LoadAsset(context.Background(), "")
	if !media.IsAssetUnavailableError(err) {
		t.Errorf("empty path: expected AssetUnavailableError, got %v", err)
	}

	_, err = e.LoadAsset(context.Background(), filepath.Join(t.TempDir(), "missing.mp4"))
	if !media.IsAssetUnavailableError(err) {
		t.Errorf("missing file: expected AssetUnavailableError, got %v", err)
	}
}
