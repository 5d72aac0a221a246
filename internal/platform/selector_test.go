package platform

import (
	"errors"
	"testing"

	"github.com/ytget/ytqueue/internal/download"
)

var selectorVariants = []download.Variant{
	{Itag: "137", Ext: "mp4", Height: 1080, HasVideo: true},
	{Itag: "22", Ext: "mp4", Height: 720, HasAudio: true, HasVideo: true},
	{Itag: "18", Ext: "mp4", Height: 360, HasAudio: true, HasVideo: true},
	{Itag: "140", Ext: "m4a", HasAudio: true, Size: 800},
	{Itag: "251", Ext: "webm", HasAudio: true, Size: 900},
}

func TestSelectorForPreset_Best(t *testing.T) {
	v, err := SelectorForPreset(PresetBest)(selectorVariants)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if v.Itag != "22" {
		t.Errorf("Expected itag 22 (tallest muxed), got %s", v.Itag)
	}
}

func TestSelectorForPreset_MediumPrefersItag18(t *testing.T) {
	v, err := SelectorForPreset(PresetMedium)(selectorVariants)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if v.Itag != "18" {
		t.Errorf("Expected itag 18, got %s", v.Itag)
	}
}

func TestSelectorForPreset_MediumFallsBackToCappedHeight(t *testing.T) {
	variants := []download.Variant{
		{Itag: "22", Height: 720, HasAudio: true, HasVideo: true},
		{Itag: "134", Height: 360, HasAudio: true, HasVideo: true},
	}

	v, err := SelectorForPreset(PresetMedium)(variants)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if v.Itag != "134" {
		t.Errorf("Expected itag 134 (within height cap), got %s", v.Itag)
	}
}

func TestSelectorForPreset_MediumFallsBackToBest(t *testing.T) {
	variants := []download.Variant{
		{Itag: "22", Height: 720, HasAudio: true, HasVideo: true},
	}

	v, err := SelectorForPreset(PresetMedium)(variants)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if v.Itag != "22" {
		t.Errorf("Expected itag 22, got %s", v.Itag)
	}
}

func TestSelectorForPreset_Audio(t *testing.T) {
	v, err := SelectorForPreset(PresetAudio)(selectorVariants)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if v.Itag != "251" {
		t.Errorf("Expected itag 251 (largest audio-only), got %s", v.Itag)
	}
}

func TestSelectorForPreset_NoSuitableVariant(t *testing.T) {
	videoOnly := []download.Variant{
		{Itag: "137", Height: 1080, HasVideo: true},
	}

	_, err := SelectorForPreset(PresetBest)(videoOnly)
	if !errors.Is(err, download.ErrNoVariant) {
		t.Errorf("Expected ErrNoVariant, got %v", err)
	}

	_, err = SelectorForPreset(PresetAudio)(videoOnly)
	if !errors.Is(err, download.ErrNoVariant) {
		t.Errorf("Expected ErrNoVariant, got %v", err)
	}
}

func TestSelectorForPreset_UnknownPresetDefaultsToMedium(t *testing.T) {
	v, err := SelectorForPreset("ultra")(selectorVariants)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if v.Itag != "18" {
		t.Errorf("Expected itag 18, got %s", v.Itag)
	}
}
