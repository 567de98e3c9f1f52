package enums

import "fmt"

// ScanPhase tracks a photo scan for progress indicators.
type ScanPhase string

const (
	ScanPhaseIdle     ScanPhase = "idle"
	ScanPhaseScanning ScanPhase = "scanning"
	ScanPhaseSuccess  ScanPhase = "success"
	ScanPhaseFailure  ScanPhase = "failure"
)

var validScanPhases = []ScanPhase{
	ScanPhaseIdle,
	ScanPhaseScanning,
	ScanPhaseSuccess,
	ScanPhaseFailure,
}

// String implements fmt.Stringer.
func (p ScanPhase) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ScanPhase.
func (p ScanPhase) IsValid() bool {
	for _, candidate := range validScanPhases {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseScanPhase converts raw input into a ScanPhase.
func ParseScanPhase(value string) (ScanPhase, error) {
	for _, candidate := range validScanPhases {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid scan phase %q", value)
}
