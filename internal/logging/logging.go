// Package logging configures the process-wide logrus logger.
package logging

import (
	"fmt"
	"io"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
)

const timestampFormat = "2006-01-02 15:04:05"

var levelDesc = []string{"PANIC", "FATAL", "ERROR", "WARN ", "INFO ", "DEBUG", "TRACE"}

// PlainFormatter writes "LEVEL timestamp message key=value..." lines.
type PlainFormatter struct {
	TimestampFormat string
	LevelDesc       []string
}

func (f PlainFormatter) Format(entry *log.Entry) ([]byte, error) {
	var b strings.Builder
	level := entry.Level.String()
	if int(entry.Level) < len(f.LevelDesc) {
		level = f.LevelDesc[entry.Level]
	}
	fmt.Fprintf(&b, "%s %s %s", level, entry.Time.Format(f.TimestampFormat), entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, entry.Data[k])
	}
	b.WriteByte('\n')
	return []byte(b.String()), nil
}

// Setup applies level and output to the standard logger. debug forces the
// debug level. An unknown level falls back to info and is reported.
func Setup(level string, debug bool, out io.Writer) {
	log.SetFormatter(PlainFormatter{TimestampFormat: timestampFormat, LevelDesc: levelDesc})
	if out != nil {
		log.SetOutput(out)
	}

	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
		defer log.WithField("level", level).Warn("unknown log level, using info")
	}
	if debug && lvl < log.DebugLevel {
		lvl = log.DebugLevel
	}
	log.SetLevel(lvl)
}
