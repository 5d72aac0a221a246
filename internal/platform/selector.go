package platform

import (
	"github.com/ytget/ytqueue/internal/download"
)

// Quality presets for downloads
const (
	PresetBest   = "best"
	PresetMedium = "medium"
	PresetAudio  = "audio"
)

// Medium preset constants: itag 18 is the classic muxed 360p mp4
const (
	MediumItag      = "18"
	MediumMaxHeight = 480
)

// SelectorForPreset returns the variant selection policy for a quality
// preset. Unknown presets fall back to medium.
func SelectorForPreset(preset string) download.Selector {
	switch preset {
	case PresetBest:
		return selectBest
	case PresetAudio:
		return selectAudio
	default:
		return selectMedium
	}
}

// selectBest picks the muxed variant with the greatest height
func selectBest(variants []download.Variant) (download.Variant, error) {
	best := download.Variant{}
	found := false
	for _, v := range variants {
		if !v.HasAudio || !v.HasVideo {
			continue
		}
		if !found || v.Height > best.Height {
			best = v
			found = true
		}
	}
	if !found {
		return download.Variant{}, download.ErrNoVariant
	}
	return best, nil
}

// selectMedium prefers itag 18, then the tallest muxed variant at or below
// MediumMaxHeight, then the best muxed variant at all.
func selectMedium(variants []download.Variant) (download.Variant, error) {
	for _, v := range variants {
		if v.Itag == MediumItag && v.HasAudio && v.HasVideo {
			return v, nil
		}
	}

	capped := download.Variant{}
	found := false
	for _, v := range variants {
		if !v.HasAudio || !v.HasVideo || v.Height > MediumMaxHeight {
			continue
		}
		if !found || v.Height > capped.Height {
			capped = v
			found = true
		}
	}
	if found {
		return capped, nil
	}

	return selectBest(variants)
}

// selectAudio picks the audio-only variant with the greatest size
func selectAudio(variants []download.Variant) (download.Variant, error) {
	best := download.Variant{}
	found := false
	for _, v := range variants {
		if !v.HasAudio || v.HasVideo {
			continue
		}
		if !found || v.Size > best.Size {
			best = v
			found = true
		}
	}
	if !found {
		return download.Variant{}, download.ErrNoVariant
	}
	return best, nil
}
