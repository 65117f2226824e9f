package mainboilerplate

import (
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// LogConfig configures how kernel events are logged. Syscall failures are
// logged at debug level.
type LogConfig struct {
	Level  string `long:"level" env:"LEVEL" default:"warn" choice:"debug" choice:"info" choice:"warn" choice:"error" description:"Least severe kernel event to log"`
	Format string `long:"format" env:"FORMAT" default:"text" choice:"json" choice:"text" description:"Encoding of log events"`
	File   string `long:"file" env:"FILE" description:"Append log events to this host file instead of stderr, keeping them apart from console output"`
}

var formatters = map[string]log.Formatter{
	"json": &log.JSONFormatter{},
	"text": &log.TextFormatter{DisableColors: true},
}

// InitLog applies |cfg| to the standard logger.
func InitLog(cfg LogConfig) error {
	var lvl, err = log.ParseLevel(cfg.Level)
	if err != nil {
		return err
	}
	var fmtr, ok = formatters[cfg.Format]
	if !ok {
		return errors.Errorf("unknown log format %q", cfg.Format)
	}

	if cfg.File != "" {
		var f, err = os.OpenFile(cfg.File, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0640)
		if err != nil {
			return errors.Wrap(err, "opening log file")
		}
		log.SetOutput(f) // held open for the life of the process
	}
	log.SetFormatter(fmtr)
	log.SetLevel(lvl)
	return nil
}
