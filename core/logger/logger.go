package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorGray   = "\033[90m"
)

type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

var levelColors = [...]string{colorGray, colorBlue, colorYellow, colorRed}

func (l LogLevel) String() string {
	if l < DEBUG || l > ERROR {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// sink is where one level's lines go.
type sink struct {
	w       io.Writer
	out     *log.Logger
	colored bool
}

func newSink(w io.Writer) sink {
	return sink{w: w, out: log.New(w, "", 0), colored: isTerminal(w)}
}

type ColoredLogger struct {
	mu      sync.RWMutex
	verbose bool
	sinks   [ERROR + 1]sink
}

var globalLogger = newColoredLogger()

func newColoredLogger() *ColoredLogger {
	cl := &ColoredLogger{}
	for level := DEBUG; level <= ERROR; level++ {
		cl.sinks[level] = newSink(os.Stdout)
	}
	return cl
}

// isTerminal reports whether w writes straight to a terminal. Anything else
// (files, buffers, fan-out writers) gets plain text.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func SetVerbose(verbose bool) {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	globalLogger.verbose = verbose
}

func SetWriterForAll(writer io.Writer) {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	for level := DEBUG; level <= ERROR; level++ {
		globalLogger.sinks[level] = newSink(writer)
	}
}

// AddWriterForAll tees every level to writer as well as its current
// destination. Used for --logfile.
func AddWriterForAll(writer io.Writer) {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	for level := DEBUG; level <= ERROR; level++ {
		current := globalLogger.sinks[level]
		globalLogger.sinks[level] = newSink(io.MultiWriter(current.w, writer))
	}
}

// SetErrorWriter sends ERROR to stderr so stdout carries only program output.
func SetErrorWriter() {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	globalLogger.sinks[ERROR] = newSink(os.Stderr)
}

func (cl *ColoredLogger) format(level LogLevel, message string, colored bool) string {
	timestamp := time.Now().Format("06-01-02 15:04:05")
	if !colored {
		return fmt.Sprintf("[%s] %-5s %s", timestamp, level, message)
	}
	return fmt.Sprintf("%s[%s]%s %s%-5s%s %s",
		colorGray, timestamp, colorReset,
		levelColors[level], level, colorReset,
		message)
}

func (cl *ColoredLogger) log(level LogLevel, format string, args ...interface{}) {
	cl.mu.RLock()
	if level == DEBUG && !cl.verbose {
		cl.mu.RUnlock()
		return
	}
	s := cl.sinks[level]
	cl.mu.RUnlock()

	s.out.Println(cl.format(level, fmt.Sprintf(format, args...), s.colored))
}

func Debug(format string, args ...interface{}) {
	globalLogger.log(DEBUG, format, args...)
}

func Info(format string, args ...interface{}) {
	globalLogger.log(INFO, format, args...)
}

func Warn(format string, args ...interface{}) {
	globalLogger.log(WARN, format, args...)
}

func Error(format string, args ...interface{}) {
	globalLogger.log(ERROR, format, args...)
}
