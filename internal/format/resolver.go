package format

import (
	"sort"

	"github.com/ytget/ytgrab/internal/model"
)

// Select returns the first descriptor, in engine order, matching the earliest
// preference entry with the given container and an audio track. It returns nil
// when no preference entry matches any descriptor.
func Select(descriptors []model.Descriptor, preference model.Preference, container string) *model.Descriptor {
	for _, height := range preference {
		for i := range descriptors {
			d := &descriptors[i]
			if d.Height == height && d.Ext == container && d.HasAudio() {
				return d
			}
		}
	}
	return nil
}

// ListQualities returns the distinct heights that have at least one descriptor
// with both tracks in the given container, highest first.
func ListQualities(descriptors []model.Descriptor, container string) []int {
	seen := make(map[int]struct{})
	qualities := make([]int, 0)
	for _, d := range descriptors {
		if !d.HasVideo() || !d.HasAudio() || d.Ext != container || d.Height <= 0 {
			continue
		}
		if _, ok := seen[d.Height]; ok {
			continue
		}
		seen[d.Height] = struct{}{}
		qualities = append(qualities, d.Height)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(qualities)))
	return qualities
}

// Choice is the outcome of resolving a console menu selection
type Choice struct {
	Descriptor *model.Descriptor
	Invalid    bool // the menu index was out of range; defaults were used
	Widened    bool // the requested quality was missing; best listed was used
}

// PreferenceForChoice maps a console menu index to a preference list.
// 0 means best available; 1..len(qualities) picks that quality; anything else
// falls back to the default and is reported as invalid.
func PreferenceForChoice(choice int, qualities []int) (model.Preference, bool) {
	if choice == 0 {
		return model.DefaultPreference, false
	}
	if choice >= 1 && choice <= len(qualities) {
		return model.Preference{qualities[choice-1]}, false
	}
	return model.DefaultPreference, true
}

// Choose resolves a console menu selection, widening to every listed quality
// when the preferred ones are missing.
func Choose(descriptors []model.Descriptor, choice int, qualities []int) Choice {
	pref, invalid := PreferenceForChoice(choice, qualities)
	result := Choice{Invalid: invalid}

	result.Descriptor = Select(descriptors, pref, model.ContainerMP4)
	if result.Descriptor == nil {
		result.Widened = true
		result.Descriptor = Select(descriptors, qualities, model.ContainerMP4)
	}
	return result
}
