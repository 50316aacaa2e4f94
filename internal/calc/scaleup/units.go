package scaleup

import "math"

// SecondsToMinutes converts a duration in seconds to minutes.
func SecondsToMinutes(s float64) float64 { return s / 60 }

// MinutesToSeconds converts a duration in minutes to seconds.
func MinutesToSeconds(m float64) float64 { return m * 60 }

// MillimetersToMeters converts a length in millimetres to metres.
func MillimetersToMeters(mm float64) float64 { return mm / 1000 }

// TipSpeedMPS is the impeller tip velocity in metres per second.
func TipSpeedMPS(diameterMM, speedRPM float64) float64 {
	return math.Pi * MillimetersToMeters(diameterMM) * speedRPM / 60
}

// TipDistanceM is the distance, in metres, the impeller tip travels over the
// state's granulation time.
func TipDistanceM(s MixerState) float64 {
	return math.Pi * MillimetersToMeters(s.DiameterMM) * s.SpeedRPM * SecondsToMinutes(s.DurationSec)
}
