package model

// AssetType identifies which bucket an embedded asset belongs to. Every
// asset lands in exactly one bucket; anything unrecognized is "other".
type AssetType string

const (
	AssetImage AssetType = "image"
	AssetAudio AssetType = "audio"
	AssetVideo AssetType = "video"
	AssetFont  AssetType = "font"
	AssetStyle AssetType = "style"
	AssetOther AssetType = "other"
)

// Asset describes one embedded resource from the source container.
// Href is an opaque key preserved verbatim, including spaces and
// non-ASCII characters.
type Asset struct {
	ID         string            `json:"id"`
	Href       string            `json:"href"`
	MediaType  string            `json:"media_type"`
	Size       int64             `json:"size"`
	Type       AssetType         `json:"type"`
	Properties map[string]string `json:"properties,omitempty"`
}

// EmbeddedAssets holds the six disjoint asset buckets. Outside EPUB
// parsing all buckets are empty.
type EmbeddedAssets struct {
	Images []Asset `json:"images"`
	Audio  []Asset `json:"audio"`
	Video  []Asset `json:"video"`
	Fonts  []Asset `json:"fonts"`
	Styles []Asset `json:"styles"`
	Other  []Asset `json:"other"`
}

// Add places the asset into the bucket matching its Type.
func (e *EmbeddedAssets) Add(a Asset) {
	switch a.Type {
	case AssetImage:
		e.Images = append(e.Images, a)
	case AssetAudio:
		e.Audio = append(e.Audio, a)
	case AssetVideo:
		e.Video = append(e.Video, a)
	case AssetFont:
		e.Fonts = append(e.Fonts, a)
	case AssetStyle:
		e.Styles = append(e.Styles, a)
	default:
		e.Other = append(e.Other, a)
	}
}

// Count returns the total number of assets across all buckets.
func (e EmbeddedAssets) Count() int {
	return len(e.Images) + len(e.Audio) + len(e.Video) +
		len(e.Fonts) + len(e.Styles) + len(e.Other)
}

// All returns every asset in bucket order.
func (e EmbeddedAssets) All() []Asset {
	out := make([]Asset, 0, e.Count())
	out = append(out, e.Images...)
	out = append(out, e.Audio...)
	out = append(out, e.Video...)
	out = append(out, e.Fonts...)
	out = append(out, e.Styles...)
	out = append(out, e.Other...)
	return out
}
