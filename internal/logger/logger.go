package logger

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
)

var (
	infoColor  = color.New(color.FgGreen)
	warnColor  = color.New(color.FgYellow)
	errorColor = color.New(color.FgRed)
	debugColor = color.New(color.FgCyan)
	fatalColor = color.New(color.FgRed, color.Bold)
)

// Logger writes colored, categorized lines to stdout and, when LOG_FILE is
// set, mirrors them uncolored to that file.
type Logger struct {
	mu    sync.Mutex
	file  *os.File
	debug bool
}

func NewLogger() *Logger {
	l := &Logger{
		debug: os.Getenv("LOG_DEBUG") == "true",
	}

	if path := os.Getenv("LOG_FILE"); path != "" {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "logger: cannot open %s: %v\n", path, err)
		} else {
			l.file = f
		}
	}

	return l
}

func (l *Logger) logLine(c *color.Color, level, category, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ts := time.Now().Format("2006-01-02 15:04:05")
	c.Printf("%s [%-5s] [%-10s] %s\n", ts, level, category, msg)

	if l.file != nil {
		fmt.Fprintf(l.file, "%s [%-5s] [%-10s] %s\n", ts, level, category, msg)
	}
}

func (l *Logger) Info(category, msg string)  { l.logLine(infoColor, "INFO", category, msg) }
func (l *Logger) Warn(category, msg string)  { l.logLine(warnColor, "WARN", category, msg) }
func (l *Logger) Error(category, msg string) { l.logLine(errorColor, "ERROR", category, msg) }

func (l *Logger) Debug(category, msg string) {
	if !l.debug {
		return
	}
	l.logLine(debugColor, "DEBUG", category, msg)
}

func (l *Logger) Fatal(category, msg string) {
	l.logLine(fatalColor, "FATAL", category, msg)
	l.Close()
	os.Exit(1)
}

func (l *Logger) LogAPI(method, path, status, duration string) {
	l.Info("API", fmt.Sprintf("%s %s - %s (%s)", method, path, status, duration))
}

func (l *Logger) LogDatabase(op, table, msg string) {
	l.Debug("DATABASE", fmt.Sprintf("[%s] %s: %s", op, table, msg))
}

func (l *Logger) LogKafka(action, topic, msg string) {
	l.Info("KAFKA", fmt.Sprintf("[%s] %s: %s", action, topic, msg))
}

func (l *Logger) LogProcess(stage, msg string) {
	l.Info("PROCESS", fmt.Sprintf("[%s] %s", stage, msg))
}

func (l *Logger) LogSecurity(event, msg string) {
	l.Warn("SECURITY", fmt.Sprintf("[%s] %s", event, msg))
}

func (l *Logger) LogOrder(action, orderID, msg string) {
	l.Info("ORDER", fmt.Sprintf("[%s] %s: %s", action, orderID, msg))
}

func (l *Logger) LogReservation(action, reservationID, msg string) {
	l.Info("RESERVATION", fmt.Sprintf("[%s] %s: %s", action, reservationID, msg))
}

func (l *Logger) LogTable(action, tableID, msg string) {
	l.Info("TABLE", fmt.Sprintf("[%s] %s: %s", action, tableID, msg))
}

func (l *Logger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}
}
