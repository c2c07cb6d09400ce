package interp

import (
	"io"
	"log"
	"os"
	"path/filepath"
)

var interpLog *log.Logger

func init() {
	if os.Getenv("VGS_DEBUG") != "" {
		logPath := filepath.Join(os.TempDir(), "vgs-interp-debug.log")
		// File handle intentionally not closed - kept open for process lifetime.
		f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600) // #nosec G304 -- fixed filename in temp dir
		if err != nil {
			interpLog = log.New(os.Stderr, "INTERP: ", log.Ltime|log.Lmicroseconds|log.Lshortfile)
		} else {
			interpLog = log.New(f, "INTERP: ", log.Ltime|log.Lmicroseconds|log.Lshortfile)
		}
	} else {
		interpLog = log.New(io.Discard, "", 0)
	}
}

func debugLog(format string, args ...interface{}) {
	interpLog.Printf(format, args...)
}
