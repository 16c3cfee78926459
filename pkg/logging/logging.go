package logging

import (
	"go.uber.org/zap"
)

type LogOpts struct {
	Verbose bool
	JsonLog bool
}

// NewLogger builds the process logger: development config (debug level,
// human-friendly) when verbose, production otherwise, with console or json
// encoding.
func NewLogger(opts LogOpts) (*zap.Logger, error) {
	var zapCfg zap.Config
	if opts.Verbose {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	if opts.JsonLog {
		zapCfg.Encoding = "json"
	} else {
		zapCfg.Encoding = "console"
	}
	return zapCfg.Build()
}
