package misc

import (
	"fmt"

	"github.com/BrugadaSyndrome/bslogger"
)

const (
	Fatal Severity = iota
	Error
	Warning
	Info
	Debug
)

// Severity picks the logger level CheckError reports at.
type Severity int

var severityNames = []string{"Fatal", "Error", "Warning", "Info", "Debug"}

func (s Severity) String() string {
	if s < Fatal || s > Debug {
		return fmt.Sprintf("Severity(%d)", int(s))
	}
	return severityNames[s]
}

// CheckError reports err through logger at the given severity and returns true when err was not nil so callers can
// bail out of the current operation. Unknown severities are treated as Fatal.
func CheckError(err error, logger bslogger.Logger, severity Severity) bool {
	if err == nil {
		return false
	}

	message := err.Error()
	switch severity {
	case Debug:
		logger.Debug(message)
	case Info:
		logger.Info(message)
	case Warning:
		logger.Warning(message)
	case Error:
		logger.Error(message)
	default:
		logger.Fatal(message)
	}
	return true
}
