package compress

import "go.uber.org/zap"

// log is the package diagnostic sink. Precondition violations and search
// progress are reported here. Defaults to a no-op logger so the library
// stays silent unless the host application opts in.
var log = zap.NewNop()

// SetLogger routes the package's diagnostics to the given logger.
func SetLogger(l *zap.Logger) {
	if l != nil {
		log = l
	}
}
