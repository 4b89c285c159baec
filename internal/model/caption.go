package model

// Captions maps an image identifier (the file name without extension) to
// its caption text.
type Captions map[string]string

// Lookup returns the caption for key. A nil mapping has no captions.
func (c Captions) Lookup(key string) (string, bool) {
	if c == nil {
		return "", false
	}
	text, ok := c[key]
	return text, ok
}

// RegionStats holds reduceRegion(minMax) results for one band of one year.
type RegionStats struct {
	Analysis string  `csv:"analysis"`
	Year     int     `csv:"year"`
	Band     string  `csv:"band"`
	Min      float64 `csv:"min"`
	Max      float64 `csv:"max"`
}
