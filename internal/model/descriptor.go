package model

// NoneCodec is the engine's sentinel for a missing audio or video track
const NoneCodec = "none"

// ContainerMP4 is the container every video download is delivered in
const ContainerMP4 = "mp4"

// DefaultPreference is tried when the user asks for the best available quality
var DefaultPreference = Preference{1080, 720, 360}

// Descriptor describes one retrievable rendition of a video as listed by the
// engine. Descriptors are read-only.
type Descriptor struct {
	FormatID string `json:"format_id"`
	Height   int    `json:"height,omitempty"` // 0 when the engine reports none
	Ext      string `json:"ext"`
	VCodec   string `json:"vcodec"`
	ACodec   string `json:"acodec"`
}

// HasAudio reports whether the rendition carries an audio track
func (d Descriptor) HasAudio() bool {
	return d.ACodec != "" && d.ACodec != NoneCodec
}

// HasVideo reports whether the rendition carries a video track
func (d Descriptor) HasVideo() bool {
	return d.VCodec != "" && d.VCodec != NoneCodec
}

// Preference is an ordered list of resolutions; the first match wins
type Preference []int

// VideoInfo is the metadata the engine returns before any transfer
type VideoInfo struct {
	ID             string
	Title          string
	Duration       float64 // seconds, 0 if unknown
	DurationString string
	Uploader       string
	ViewCount      int64
	Thumbnail      string
	Extension      string
	Filename       string // engine's prediction from the output template
	Formats        []Descriptor
}
