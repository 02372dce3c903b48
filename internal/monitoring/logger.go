package monitoring

import (
	"fmt"
	"io"
	"log"
	"strings"
)

// Logf is the process logger of the command line tools. It defaults to
// log.Printf but may be replaced by SetLogger.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the process logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Level selects which finder log streams are enabled. Each level includes
// the ones before it.
type Level int

const (
	LevelQuiet Level = iota
	LevelOps
	LevelDiag
	LevelTrace
)

var levelNames = []string{"quiet", "ops", "diag", "trace"}

func (l Level) String() string {
	if l < LevelQuiet || l > LevelTrace {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return levelNames[l]
}

// ParseLevel accepts the names produced by String, case-insensitively.
func ParseLevel(s string) (Level, error) {
	for i, name := range levelNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return Level(i), nil
		}
	}
	return LevelQuiet, fmt.Errorf("unknown log level %q, want one of %s", s, strings.Join(levelNames, ", "))
}

// Streams returns the ops, diag and trace writers for level: w for every
// enabled stream and nil for the others, ready for a SetLogWriters call.
func Streams(level Level, w io.Writer) (ops, diag, trace io.Writer) {
	if level >= LevelOps {
		ops = w
	}
	if level >= LevelDiag {
		diag = w
	}
	if level >= LevelTrace {
		trace = w
	}
	return ops, diag, trace
}
