package models

// MaturityBand classifies how much observation history an account has.
type MaturityBand string

const (
	MaturityInitial     MaturityBand = "initial"
	MaturityDeveloping  MaturityBand = "developing"
	MaturityEstablished MaturityBand = "established"
)

// ObservationMaturity is recomputed on every query; never persisted.
type ObservationMaturity struct {
	Band  MaturityBand `json:"band"`
	Label string       `json:"label"`
	Memo  string       `json:"memo"`
}

// AtLeast reports whether the band meets or exceeds the given band in the
// initial < developing < established ordering.
func (m MaturityBand) AtLeast(other MaturityBand) bool {
	return m.rank() >= other.rank()
}

func (m MaturityBand) rank() int {
	switch m {
	case MaturityDeveloping:
		return 1
	case MaturityEstablished:
		return 2
	default:
		return 0
	}
}
