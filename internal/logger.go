package internal

import (
	"os"
	"strings"

	"github.com/op/go-logging"
)

const module = "ipnat"

var logger = logging.MustGetLogger(module)

func init() {
	InitLogger("info")
}

// InitLogger sets the output format and level; unknown levels fall back to info.
func InitLogger(level string) {
	format := logging.MustStringFormatter(
		`%{color}%{time:06-01-02 15:04:05.000} %{level:.4s} @%{shortfile}%{color:reset} %{message}`,
	)
	logging.SetFormatter(format)
	logging.SetBackend(logging.NewLogBackend(os.Stderr, "", 0))

	lvl, err := logging.LogLevel(strings.ToUpper(level))
	if err != nil {
		lvl = logging.INFO
	}
	logging.SetLevel(lvl, module)
}

func GetLogger() *logging.Logger {
	return logger
}
