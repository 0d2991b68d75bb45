package platform

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/ytget/ytgrab/internal/model"
)

// Default values
const (
	DefaultTitle = "Unknown"
)

// ErrInvalidInfo is returned when the engine output is not an info dict
var ErrInvalidInfo = errors.New("invalid video info")

// ParseInfo parses the engine's single-JSON info dict
func ParseInfo(raw string) (*model.VideoInfo, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty output", ErrInvalidInfo)
	}

	// Warnings may precede the JSON on stdout; the dict is the last line
	if idx := strings.LastIndex(raw, "\n{"); idx >= 0 {
		raw = raw[idx+1:]
	}
	if !gjson.Valid(raw) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrInvalidInfo)
	}

	root := gjson.Parse(raw)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: not an object", ErrInvalidInfo)
	}

	info := &model.VideoInfo{
		ID:             root.Get("id").String(),
		Title:          root.Get("title").String(),
		Duration:       root.Get("duration").Float(),
		DurationString: root.Get("duration_string").String(),
		Uploader:       root.Get("uploader").String(),
		ViewCount:      root.Get("view_count").Int(),
		Thumbnail:      root.Get("thumbnail").String(),
		Extension:      root.Get("ext").String(),
		Filename:       firstString(root, "filename", "_filename"),
	}
	if info.Title == "" {
		info.Title = DefaultTitle
	}

	root.Get("formats").ForEach(func(_, f gjson.Result) bool {
		info.Formats = append(info.Formats, parseDescriptor(f))
		return true
	})

	return info, nil
}

func parseDescriptor(f gjson.Result) model.Descriptor {
	d := model.Descriptor{
		FormatID: f.Get("format_id").String(),
		Ext:      f.Get("ext").String(),
		VCodec:   f.Get("vcodec").String(),
		ACodec:   f.Get("acodec").String(),
	}
	if h := f.Get("height"); h.Type == gjson.Number {
		d.Height = int(h.Int())
	}
	return d
}

func firstString(root gjson.Result, paths ...string) string {
	for _, p := range paths {
		if v := root.Get(p); v.Exists() && v.String() != "" {
			return v.String()
		}
	}
	return ""
}
