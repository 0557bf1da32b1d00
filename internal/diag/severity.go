package diag

// Severity defines the importance of a diagnostic.
// Error прерывает трансляцию юнита, Warning и Info — нет.
type Severity uint8

const (
	// SevInfo is for informational diagnostics (detector findings).
	SevInfo Severity = iota
	// SevWarning is for recoverable findings; emission degrades and continues.
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}
