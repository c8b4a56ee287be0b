package prefs

import "fmt"

// Quality is a closed set of resolution tiers controlling the maximum
// output width of a processed screenshot.
type Quality int

const (
	// QualityOriginal keeps the source dimensions untouched.
	QualityOriginal Quality = iota
	QualityUltraHD
	QualityQuadHD
	QualityFullHD
	QualityHD
	QualityLow
)

var qualityWidths = map[Quality]int{
	QualityUltraHD: 3840,
	QualityQuadHD:  2560,
	QualityFullHD:  1920,
	QualityHD:      1280,
	QualityLow:     854,
}

var qualityNames = map[Quality]string{
	QualityOriginal: "original",
	QualityUltraHD:  "ultrahd",
	QualityQuadHD:   "quadhd",
	QualityFullHD:   "fullhd",
	QualityHD:       "hd",
	QualityLow:      "low",
}

// Qualities lists all tiers in descending resolution order.
func Qualities() []Quality {
	return []Quality{
		QualityOriginal,
		QualityUltraHD,
		QualityQuadHD,
		QualityFullHD,
		QualityHD,
		QualityLow,
	}
}

// MaxWidth returns the maximum output width in pixels for the tier.
// The second return value is false when the tier imposes no limit.
func (q Quality) MaxWidth() (int, bool) {
	w, ok := qualityWidths[q]
	return w, ok
}

func (q Quality) String() string {
	if name, ok := qualityNames[q]; ok {
		return name
	}
	return fmt.Sprintf("quality(%d)", int(q))
}

// ParseQuality maps a stored tier name back to its Quality value.
func ParseQuality(name string) (Quality, error) {
	for q, n := range qualityNames {
		if n == name {
			return q, nil
		}
	}
	return QualityOriginal, fmt.Errorf("unknown quality tier %q", name)
}
