package format

import (
	"reflect"
	"testing"

	"github.com/ytget/ytgrab/internal/model"
)

func sampleDescriptors() []model.Descriptor {
	return []model.Descriptor{
		{FormatID: "18", Height: 360, Ext: "mp4", VCodec: "avc1", ACodec: "mp4a.40.2"},
		{FormatID: "22", Height: 720, Ext: "mp4", VCodec: "avc1", ACodec: "mp4a.40.2"},
		{FormatID: "248", Height: 1080, Ext: "webm", VCodec: "vp9", ACodec: "opus"},
	}
}

func TestSelect_SkipsWrongContainer(t *testing.T) {
	d := Select(sampleDescriptors(), model.Preference{1080, 720, 360}, model.ContainerMP4)
	if d == nil {
		t.Fatal("Expected a descriptor, got nil")
	}
	if d.FormatID != "22" {
		t.Errorf("Expected 720p mp4 descriptor (22), got %s", d.FormatID)
	}
}

func TestSelect_PreferenceOrderWins(t *testing.T) {
	d := Select(sampleDescriptors(), model.Preference{360, 720}, model.ContainerMP4)
	if d == nil || d.FormatID != "18" {
		t.Errorf("Expected 360p descriptor first, got %+v", d)
	}
}

func TestSelect_FirstInEngineOrderOnTie(t *testing.T) {
	descriptors := []model.Descriptor{
		{FormatID: "a", Height: 720, Ext: "mp4", VCodec: "avc1", ACodec: "mp4a"},
		{FormatID: "b", Height: 720, Ext: "mp4", VCodec: "avc1", ACodec: "mp4a"},
	}
	d := Select(descriptors, model.Preference{720}, model.ContainerMP4)
	if d == nil || d.FormatID != "a" {
		t.Errorf("Expected first descriptor 'a', got %+v", d)
	}
}

func TestSelect_NeverReturnsSilentOrWrongContainer(t *testing.T) {
	descriptors := []model.Descriptor{
		{FormatID: "137", Height: 1080, Ext: "mp4", VCodec: "avc1", ACodec: "none"},
		{FormatID: "248", Height: 1080, Ext: "webm", VCodec: "vp9", ACodec: "opus"},
		{FormatID: "140", Ext: "m4a", VCodec: "none", ACodec: "mp4a"},
	}
	if d := Select(descriptors, model.Preference{1080}, model.ContainerMP4); d != nil {
		t.Errorf("Expected nil, got %+v", d)
	}
}

func TestSelect_NoMatch(t *testing.T) {
	if d := Select(sampleDescriptors(), model.Preference{2160, 1440}, model.ContainerMP4); d != nil {
		t.Errorf("Expected nil, got %+v", d)
	}
	if d := Select(nil, model.DefaultPreference, model.ContainerMP4); d != nil {
		t.Errorf("Expected nil for empty descriptors, got %+v", d)
	}
}

func TestListQualities(t *testing.T) {
	descriptors := []model.Descriptor{
		{FormatID: "18", Height: 360, Ext: "mp4", VCodec: "avc1", ACodec: "mp4a"},
		{FormatID: "22", Height: 720, Ext: "mp4", VCodec: "avc1", ACodec: "mp4a"},
		{FormatID: "22b", Height: 720, Ext: "mp4", VCodec: "avc1", ACodec: "mp4a"},
		{FormatID: "137", Height: 1080, Ext: "mp4", VCodec: "avc1", ACodec: "none"},
		{FormatID: "248", Height: 1080, Ext: "webm", VCodec: "vp9", ACodec: "opus"},
		{FormatID: "140", Ext: "m4a", VCodec: "none", ACodec: "mp4a"},
	}

	got := ListQualities(descriptors, model.ContainerMP4)
	expected := []int{720, 360}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("ListQualities() = %v, expected %v", got, expected)
	}

	for i := 1; i < len(got); i++ {
		if got[i] >= got[i-1] {
			t.Errorf("Qualities not strictly descending: %v", got)
		}
	}
}

func TestListQualities_Empty(t *testing.T) {
	got := ListQualities(nil, model.ContainerMP4)
	if len(got) != 0 {
		t.Errorf("Expected no qualities, got %v", got)
	}
}

func TestPreferenceForChoice(t *testing.T) {
	qualities := []int{720, 360}
	tests := []struct {
		choice   int
		expected model.Preference
		invalid  bool
	}{
		{0, model.DefaultPreference, false},
		{1, model.Preference{720}, false},
		{2, model.Preference{360}, false},
		{3, model.DefaultPreference, true},
		{-1, model.DefaultPreference, true},
	}

	for _, test := range tests {
		pref, invalid := PreferenceForChoice(test.choice, qualities)
		if !reflect.DeepEqual(pref, test.expected) || invalid != test.invalid {
			t.Errorf("PreferenceForChoice(%d) = %v,%v expected %v,%v", test.choice, pref, invalid, test.expected, test.invalid)
		}
	}
}

func TestChoose_WidensToListedQualities(t *testing.T) {
	descriptors := []model.Descriptor{
		{FormatID: "5", Height: 240, Ext: "mp4", VCodec: "avc1", ACodec: "mp4a"},
	}
	qualities := ListQualities(descriptors, model.ContainerMP4)

	c := Choose(descriptors, 0, qualities)
	if !c.Widened {
		t.Error("Expected widened fallback")
	}
	if c.Descriptor == nil || c.Descriptor.FormatID != "5" {
		t.Errorf("Expected 240p descriptor, got %+v", c.Descriptor)
	}
}

func TestChoose_DirectHit(t *testing.T) {
	descriptors := sampleDescriptors()
	qualities := ListQualities(descriptors, model.ContainerMP4)

	c := Choose(descriptors, 2, qualities)
	if c.Widened || c.Invalid {
		t.Errorf("Expected direct hit, got %+v", c)
	}
	if c.Descriptor == nil || c.Descriptor.Height != 360 {
		t.Errorf("Expected 360p, got %+v", c.Descriptor)
	}
}
