package format

import (
	"fmt"
	"strings"
	"unicode"
)

// VideoPreset is one entry of the dashboard's video quality selector
type VideoPreset struct {
	Label        string
	Ceiling      int
	SizeEstimate string
}

// VideoPresets lists the dashboard video qualities in display order
var VideoPresets = []VideoPreset{
	{Label: "720p (Best)", Ceiling: 720, SizeEstimate: "50MB - 300MB (10-30 min video)"},
	{Label: "4K", Ceiling: 2160, SizeEstimate: "300MB - 1.5GB (10-30 min video)"},
	{Label: "1080p", Ceiling: 1080, SizeEstimate: "80MB - 500MB (10-30 min video)"},
	{Label: "720p", Ceiling: 720, SizeEstimate: "50MB - 300MB (10-30 min video)"},
	{Label: "480p", Ceiling: 480, SizeEstimate: "20MB - 150MB (10-30 min video)"},
	{Label: "360p", Ceiling: 360, SizeEstimate: "10MB - 80MB (10-30 min video)"},
	{Label: "144p", Ceiling: 144, SizeEstimate: "5MB - 30MB (10-30 min video)"},
}

// AudioPresets lists the dashboard audio bitrates in display order
var AudioPresets = []string{"320kbps (Best)", "256kbps", "192kbps", "128kbps"}

// AudioSizeEstimate is shown for every audio bitrate
const AudioSizeEstimate = "3-10MB per minute"

// AudioSelector asks the engine for the best audio-only rendition
const AudioSelector = "bestaudio/best"

// FindVideoPreset looks up a dashboard video preset by label
func FindVideoPreset(label string) (VideoPreset, bool) {
	for _, p := range VideoPresets {
		if p.Label == label {
			return p, true
		}
	}
	return VideoPreset{}, false
}

// SelectorExpression builds the engine format selector for a height ceiling:
// merged mp4 video plus m4a audio, or a progressive mp4 as the alternative.
func SelectorExpression(ceiling int) string {
	return fmt.Sprintf("bestvideo[height<=%d][ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4][height<=%d]", ceiling, ceiling)
}

// AudioQuality extracts the kbps value from a bitrate label such as
// "192kbps" or "320kbps (Best)".
func AudioQuality(label string) (string, error) {
	label = strings.TrimSpace(label)
	end := strings.IndexFunc(label, func(r rune) bool { return !unicode.IsDigit(r) })
	if end == -1 {
		end = len(label)
	}
	if end == 0 || !strings.HasPrefix(strings.ToLower(label[end:]), "kbps") {
		return "", fmt.Errorf("invalid audio quality: %q", label)
	}
	return label[:end], nil
}
