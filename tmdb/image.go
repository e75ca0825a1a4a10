package tmdb

import (
	"fmt"
	"strings"
)

// ImageBaseURL is the TMDB image CDN root
const ImageBaseURL = "https://image.tmdb.org/t/p/"

// ImageSize is a poster width token understood by the image CDN
type ImageSize string

const (
	ImageSizeW92      ImageSize = "w92"
	ImageSizeW154     ImageSize = "w154"
	ImageSizeW185     ImageSize = "w185"
	ImageSizeW342     ImageSize = "w342"
	ImageSizeW500     ImageSize = "w500"
	ImageSizeW780     ImageSize = "w780"
	ImageSizeOriginal ImageSize = "original"

	// DefaultImageSize is used when no size is configured
	DefaultImageSize = ImageSizeW500
)

var imageSizes = []ImageSize{
	ImageSizeW92,
	ImageSizeW154,
	ImageSizeW185,
	ImageSizeW342,
	ImageSizeW500,
	ImageSizeW780,
	ImageSizeOriginal,
}

// ImageSizes returns every supported size, smallest first
func ImageSizes() []ImageSize {
	return append([]ImageSize(nil), imageSizes...)
}

// ParseImageSize validates a size token. An empty string yields DefaultImageSize.
func ParseImageSize(s string) (ImageSize, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultImageSize, nil
	}
	for _, size := range imageSizes {
		if string(size) == s {
			return size, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidImageSize, s)
}

// BuildImageURL returns the CDN URL for a poster or backdrop path,
// or an empty string when the path is absent.
func BuildImageURL(path string, size ImageSize) string {
	if path == "" {
		return ""
	}
	if size == "" {
		size = DefaultImageSize
	}
	return ImageBaseURL + string(size) + path
}
