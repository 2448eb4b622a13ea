package loglevel

import (
	"strings"

	log "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
)

// NewLevelFilterFromString filters logger with a level named DEBUG, INFO, WARN or ERROR,
// unknown names allow everything
func NewLevelFilterFromString(logger log.Logger, ls string) log.Logger {
	return level.NewFilter(logger, Option(ls))
}

// Option returns the level.Option matching ls
func Option(ls string) level.Option {
	switch strings.ToUpper(ls) {
	case "ERROR":
		return level.AllowError()
	case "WARN":
		return level.AllowWarn()
	case "INFO":
		return level.AllowInfo()
	case "DEBUG":
		return level.AllowDebug()
	default:
		return level.AllowAll()
	}
}
