package analysis

// LSTCalibration converts Landsat Collection 2 surface temperature digital
// numbers to Kelvin and bounds the plausible temperature window.
// It is a value type; builders receive a copy.
type LSTCalibration struct {
	Scale     float64
	Offset    float64
	MinKelvin float64
	MaxKelvin float64
}

// DefaultLSTCalibration returns the published Collection 2 Level 2 factors
// with a 270 K to 330 K window.
func DefaultLSTCalibration() LSTCalibration {
	return LSTCalibration{
		Scale:     0.00341802,
		Offset:    149.0,
		MinKelvin: 270,
		MaxKelvin: 330,
	}
}

// DNBounds returns the digital number range matching the Kelvin window.
func (c LSTCalibration) DNBounds() (lo, hi float64) {
	return (c.MinKelvin - c.Offset) / c.Scale, (c.MaxKelvin - c.Offset) / c.Scale
}

func (c LSTCalibration) isZero() bool {
	return c == LSTCalibration{}
}
