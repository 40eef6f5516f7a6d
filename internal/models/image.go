package models

// AspectRatio values accepted by the Gemini image models
type AspectRatio string

const (
	AspectSquare    AspectRatio = "1:1"
	AspectPortrait  AspectRatio = "3:4"
	AspectLandscape AspectRatio = "4:3"
	AspectTall      AspectRatio = "9:16"
	AspectWide      AspectRatio = "16:9"
)

// ImageSize is the resolution tier. The 2K and 4K tiers route to the
// pro image model.
type ImageSize string

const (
	Size1K ImageSize = "1K"
	Size2K ImageSize = "2K"
	Size4K ImageSize = "4K"
)

// BadgeImage is a renderable inline image payload. Data is base64-encoded.
type BadgeImage struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

// DataURL renders the payload as a browser-embeddable data URL
func (b *BadgeImage) DataURL() string {
	return "data:" + b.MIMEType + ";base64," + b.Data
}
