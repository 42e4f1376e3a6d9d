package rustache

import (
	"log"
	"os"
)

var logger = log.New(os.Stdout, "[rustache] ", log.LstdFlags)

func logf(format string, args ...any) {
	logger.Printf(format, args...)
}
