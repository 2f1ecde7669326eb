package media

import "fmt"

// Kind is the media type carried by a track.
type Kind string

const (
	KindVideo Kind = "video"
	KindAudio Kind = "audio"
)

// Size is a pixel size.
type Size struct {
	Width  int
	Height int
}

// IsZero reports whether either dimension is missing.
func (s Size) IsZero() bool {
	return s.Width <= 0 || s.Height <= 0
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Track is a single timed sequence of samples within an asset.
type Track struct {
	ID          int
	Kind        Kind
	Codec       string
	NaturalSize Size
	FrameRate   float64
	Transform   Transform
}

// SourceAsset describes a loaded video resource. It is treated as immutable.
type SourceAsset struct {
	URI      string
	Duration Time
	Tracks   []Track
}

// TracksOf returns the tracks of the given kind in source order.
func (a *SourceAsset) TracksOf(kind Kind) []Track {
	var out []Track
	for _, t := range a.Tracks {
		if t.Kind == kind {
			out = append(out, t)
		}
	}
	return out
}

// VideoTrack returns the first video track.
func (a *SourceAsset) VideoTrack() (Track, bool) {
	tracks := a.TracksOf(KindVideo)
	if len(tracks) == 0 {
		return Track{}, false
	}
	return tracks[0], true
}

// HasAudio reports whether the asset carries an audio track.
func (a *SourceAsset) HasAudio() bool {
	return len(a.TracksOf(KindAudio)) > 0
}
