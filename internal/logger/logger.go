package logger

import (
	"fmt"
	stdlog "log"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
)

type LogLevel string

const (
	LevelInfo    LogLevel = "INFO"
	LevelSuccess LogLevel = "SUCCESS"
	LevelWarning LogLevel = "WARNING"
	LevelError   LogLevel = "ERROR"
	LevelDebug   LogLevel = "DEBUG"
)

var (
	mu       sync.Mutex
	fileLog  *stdlog.Logger
	fileSink *os.File

	// Debug output is noisy during streaming, so it stays off unless asked for.
	debugEnabled = os.Getenv("CHATLAB_DEBUG") != ""
)

var colorMap = map[string]func(a ...interface{}) string{
	string(LevelInfo):    color.New(color.FgBlue).SprintFunc(),
	string(LevelSuccess): color.New(color.FgGreen).SprintFunc(),
	string(LevelWarning): color.New(color.FgYellow).SprintFunc(),
	string(LevelError):   color.New(color.FgRed).SprintFunc(),
	string(LevelDebug):   color.New(color.FgCyan).SprintFunc(),
}

// EnableFileLog opens (or creates) a log file that receives warning and
// error lines in addition to the console output. Call CloseFileLog during
// shutdown to release it.
func EnableFileLog(path string) error {
	mu.Lock()
	defer mu.Unlock()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	if fileSink != nil {
		fileSink.Close()
	}
	fileSink = f
	fileLog = stdlog.New(f, "", 0)
	return nil
}

// CloseFileLog closes the file sink if one was enabled.
func CloseFileLog() {
	mu.Lock()
	defer mu.Unlock()

	if fileSink != nil {
		fileSink.Close()
		fileSink = nil
		fileLog = nil
	}
}

// SetDebug toggles debug output at runtime.
func SetDebug(enabled bool) {
	debugEnabled = enabled
}

func logMessage(level LogLevel, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	timestamp := time.Now().Format("2006-01-02 15:04:05")

	colorFunc := colorMap[string(level)]
	fmt.Fprintln(os.Stderr, colorFunc(fmt.Sprintf("[%s] ", level))+message)

	// Only warnings and errors go to the file sink; debug chatter would
	// swamp it during a long streaming session.
	if level == LevelError || level == LevelWarning {
		mu.Lock()
		if fileLog != nil {
			fileLog.Printf("[%s] %s: %s", level, timestamp, message)
		}
		mu.Unlock()
	}
}

func Infof(format string, args ...interface{}) {
	logMessage(LevelInfo, format, args...)
}

func Successf(format string, args ...interface{}) {
	logMessage(LevelSuccess, format, args...)
}

func Warnf(format string, args ...interface{}) {
	logMessage(LevelWarning, format, args...)
}

func Errorf(format string, args ...interface{}) {
	logMessage(LevelError, format, args...)
}

func Debugf(format string, args ...interface{}) {
	if !debugEnabled {
		return
	}
	logMessage(LevelDebug, format, args...)
}
