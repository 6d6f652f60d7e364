package driver

import (
	"github.com/tliron/commonlog"
	// simple backend registers itself for commonlog.Configure
	_ "github.com/tliron/commonlog/simple"
)

var (
	log      = commonlog.GetLogger("quill.driver")
	watchLog = commonlog.GetLogger("quill.watch")
)

// ConfigureLogging sets the global log verbosity (commonlog scale: -1 warnings,
// 0 notices, 1 info, 2+ debug) and an optional log file; an empty path logs
// to stderr.
func ConfigureLogging(verbosity int, path string) {
	if path == "" {
		commonlog.Configure(verbosity, nil)
		return
	}
	commonlog.Configure(verbosity, &path)
}
