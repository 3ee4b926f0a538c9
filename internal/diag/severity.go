package diag

// Severity orders diagnostics; higher is more severe.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

var sevNames = [...]struct{ upper, lower string }{
	SevInfo:    {"INFO", "info"},
	SevWarning: {"WARNING", "warning"},
	SevError:   {"ERROR", "error"},
}

func (s Severity) String() string {
	if int(s) < len(sevNames) {
		return sevNames[s].upper
	}
	return "UNKNOWN"
}

// Label is the lowercase spelling used by line-oriented output. Unknown
// severities read as info.
func (s Severity) Label() string {
	if int(s) < len(sevNames) {
		return sevNames[s].lower
	}
	return "info"
}
