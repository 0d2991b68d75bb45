package media

import (
	"fmt"

	"github.com/bogem/id3v2"
)

// Tags are the descriptive fields filled in when the engine's metadata
// embedding left them empty
type Tags struct {
	Title  string
	Artist string
}

// ReadTags returns the non-empty ID3 text fields of an MP3 file
func (s *Service) ReadTags(path string) (map[string]string, error) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open tags: %w", err)
	}
	defer tag.Close()

	result := make(map[string]string)
	for key, value := range map[string]string{
		"title":  tag.Title(),
		"artist": tag.Artist(),
		"album":  tag.Album(),
		"year":   tag.Year(),
		"genre":  tag.Genre(),
	} {
		if value != "" {
			result[key] = value
		}
	}
	return result, nil
}

// EnsureTags writes the fallback title and artist into fields that are empty.
// Existing values are never overwritten.
func (s *Service) EnsureTags(path string, fallback Tags) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("failed to open tags: %w", err)
	}
	defer tag.Close()

	changed := false
	if tag.Title() == "" && fallback.Title != "" {
		tag.SetTitle(fallback.Title)
		changed = true
	}
	if tag.Artist() == "" && fallback.Artist != "" {
		tag.SetArtist(fallback.Artist)
		changed = true
	}
	if !changed {
		return nil
	}

	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	if err := tag.Save(); err != nil {
		return fmt.Errorf("failed to save tags: %w", err)
	}
	return nil
}
