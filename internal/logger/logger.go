package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

type Types int

const (
	Info Types = iota
	Error
	Warn
	Fatal
)

type Message struct {
	Timestamp time.Time
	Tag       string
	Message   string
	LogTypes  Types
}

// Logger writes tagged messages to the dev console (a debug view or stderr)
// and, when a log path is configured, to a timestamped file.
type Logger struct {
	view    io.Writer
	tag     string
	dev     bool
	logFile *os.File
	logChan chan Message
	wg      *sync.WaitGroup
}

var (
	logManager *Logger
	once       sync.Once
	closeOnce  sync.Once

	// sendMu guards logChan against sends after Close.
	sendMu sync.RWMutex
	closed bool
)

// InitLogger configures the shared sinks. view may be nil, in which case dev
// output goes through the standard log package.
func InitLogger(dev bool, logPath string, view io.Writer) {
	once.Do(func() {
		logManager = &Logger{
			view:    view,
			dev:     dev,
			logChan: make(chan Message, 100),
			wg:      &sync.WaitGroup{},
		}
		if logPath != "" {
			timestamp := time.Now().Format("20060102_150405")
			fileName := fmt.Sprintf("dualchat_log_%s.log", timestamp)
			filePath := filepath.Join(logPath, fileName)

			file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
			if err != nil {
				log.Fatalf("Failed to open log file: %s", err)
			}
			logManager.logFile = file
		}

		logManager.wg.Add(1)
		go logManager.processLogs()
	})
}

// NewLogger returns a logger bound to the shared sinks. Before InitLogger it
// returns a silent logger, which is what tests get.
func NewLogger(tag string) *Logger {
	if logManager == nil {
		return &Logger{tag: tag}
	}
	return &Logger{
		view:    logManager.view,
		tag:     tag,
		dev:     logManager.dev,
		logFile: logManager.logFile,
		logChan: logManager.logChan,
		wg:      logManager.wg,
	}
}

func (l *Logger) processLogs() {
	defer l.wg.Done()
	for msg := range l.logChan {
		if l.logFile != nil {
			l.logFile.WriteString(format(msg))
		}
	}
}

func format(msg Message) string {
	timestamp := msg.Timestamp.Format("2006-01-02 15:04:05")
	return fmt.Sprintf("%s [%s] %s: %s\n", timestamp, msg.Tag, msg.LogTypes.toString(), msg.Message)
}

func (l *Logger) log(logTypes Types, v ...interface{}) {
	message := strings.TrimSuffix(fmt.Sprintln(v...), "\n")
	if l.dev {
		if l.view != nil {
			var format string
			switch logTypes {
			case Info:
				format = "[green]DEBUG (%s): %s[-]\n"
			case Error:
				format = "[red]DEBUG (%s): %s[-]\n"
			case Warn:
				format = "[yellow]DEBUG (%s): %s[-]\n"
			case Fatal:
				format = "[red]DEBUG (%s): %s[-]\n"
			}
			fmt.Fprintf(l.view, format, l.tag, message)
		} else {
			log.Printf("[%s] %s: %s", l.tag, logTypes.toString(), message)
		}
	}

	if l.logFile != nil {
		sendMu.RLock()
		defer sendMu.RUnlock()
		if closed {
			return
		}
		l.logChan <- Message{
			Timestamp: time.Now(),
			Tag:       l.tag,
			Message:   message,
			LogTypes:  logTypes,
		}
	}
}

func (l *Logger) Info(v ...interface{}) {
	l.log(Info, v...)
}

func (l *Logger) Error(v ...interface{}) {
	l.log(Error, v...)
}

func (l *Logger) Warn(v ...interface{}) {
	l.log(Warn, v...)
}

func (l *Logger) Fatal(v ...interface{}) {
	l.log(Fatal, v...)
	Close()
	os.Exit(1)
}

// Close drains pending file writes and closes the log file. Safe to call
// more than once.
func Close() {
	if logManager == nil {
		return
	}
	closeOnce.Do(func() {
		sendMu.Lock()
		closed = true
		close(logManager.logChan)
		sendMu.Unlock()
		logManager.wg.Wait()
		if logManager.logFile != nil {
			logManager.logFile.Close()
		}
	})
}

func (t Types) toString() string {
	switch t {
	case Info:
		return "INFO"
	case Error:
		return "ERROR"
	case Warn:
		return "WARN"
	case Fatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}
