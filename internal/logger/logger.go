package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Level names, lowest to highest severity.
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

var levelRank = map[string]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

var levelColor = map[string]*color.Color{
	LevelDebug: color.New(color.FgHiBlack),
	LevelInfo:  color.New(color.FgCyan),
	LevelWarn:  color.New(color.FgYellow),
	LevelError: color.New(color.FgRed, color.Bold),
}

// LogEntry represents a single log record.
type LogEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Message   string `json:"message"`
}

var (
	mu          sync.RWMutex
	logEntries  []LogEntry
	maxEntries  = 1000                   // Keep last 1000 in memory
	maxFileSize = int64(5 * 1024 * 1024) // 5MB limit
	logFilePath string
	logFile     *os.File
	logChan     = make(chan LogEntry, 100)
	done        chan struct{}
	workerDone  chan struct{}
	subscribers = make(map[chan LogEntry]bool)
	subsMu      sync.RWMutex

	console  io.Writer = os.Stderr
	minLevel           = LevelInfo
)

// Init opens the JSON-lines log file under appDir/logs and starts the file worker.
func Init(appDir string) error {
	mu.Lock()
	defer mu.Unlock()

	logDir := filepath.Join(appDir, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	logFileName := fmt.Sprintf("%s wry.log", time.Now().Format("20060102"))
	logFilePath = filepath.Join(logDir, logFileName)

	f, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	logFile = f

	done = make(chan struct{})
	workerDone = make(chan struct{})
	go logWorker()

	return nil
}

// SetConsole redirects the console echo. A nil writer disables it.
func SetConsole(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	console = w
}

// SetLevel sets the minimum level recorded. Unknown levels are ignored.
func SetLevel(level string) {
	level = strings.ToUpper(level)
	if _, ok := levelRank[level]; !ok {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	minLevel = level
}

func Debugf(format string, args ...any) { AddLog(LevelDebug, fmt.Sprintf(format, args...)) }
func Infof(format string, args ...any)  { AddLog(LevelInfo, fmt.Sprintf(format, args...)) }
func Warnf(format string, args ...any)  { AddLog(LevelWarn, fmt.Sprintf(format, args...)) }
func Errorf(format string, args ...any) { AddLog(LevelError, fmt.Sprintf(format, args...)) }

// AddLog adds a new log entry.
func AddLog(level, message string) {
	entry := LogEntry{
		Timestamp: time.Now().Format(time.RFC3339),
		Level:     level,
		Message:   message,
	}

	mu.Lock()
	if levelRank[level] < levelRank[minLevel] {
		mu.Unlock()
		return
	}
	logEntries = append(logEntries, entry)
	if len(logEntries) > maxEntries {
		logEntries = logEntries[len(logEntries)-maxEntries:]
	}
	out := console
	mu.Unlock()

	if out != nil {
		tag := level
		if c, ok := levelColor[level]; ok {
			tag = c.Sprint(level)
		}
		fmt.Fprintf(out, "[%s] [%s] %s\n", entry.Timestamp, tag, message)
	}

	// Send to file worker
	select {
	case logChan <- entry:
	default:
		// Drop log if channel is full to avoid blocking
	}

	// Notify subscribers
	subsMu.RLock()
	for sub := range subscribers {
		select {
		case sub <- entry:
		default:
			// Drop if subscriber is slow
		}
	}
	subsMu.RUnlock()
}

// Subscribe returns a channel that receives new log entries.
func Subscribe() chan LogEntry {
	subsMu.Lock()
	defer subsMu.Unlock()
	ch := make(chan LogEntry, 100)
	subscribers[ch] = true
	return ch
}

// Unsubscribe removes a log subscriber.
func Unsubscribe(ch chan LogEntry) {
	subsMu.Lock()
	defer subsMu.Unlock()
	if _, ok := subscribers[ch]; !ok {
		return
	}
	delete(subscribers, ch)
	close(ch)
}

// GetLogs returns all logs currently in memory.
func GetLogs() []LogEntry {
	mu.RLock()
	defer mu.RUnlock()

	res := make([]LogEntry, len(logEntries))
	copy(res, logEntries)
	return res
}

// GetLogFilePath returns the path to the log file.
func GetLogFilePath() string {
	mu.RLock()
	defer mu.RUnlock()
	return logFilePath
}

// Close flushes and closes the log file.
func Close() {
	if done != nil {
		close(done)
		if workerDone != nil {
			<-workerDone // Wait for worker to finish
		}
		done = nil
	}

	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}

func logWorker() {
	defer close(workerDone)
	for {
		select {
		case entry := <-logChan:
			writeEntry(entry)
		case <-done:
			// Flush remaining logs
			for {
				select {
				case entry := <-logChan:
					writeEntry(entry)
				default:
					return
				}
			}
		}
	}
}

func writeEntry(entry LogEntry) {
	mu.Lock()
	defer mu.Unlock()

	f := logFile
	if f == nil {
		return
	}

	// Truncate once the file outgrows the limit.
	if info, err := f.Stat(); err == nil && info.Size() > maxFileSize {
		f.Close()
		f, err = os.OpenFile(logFilePath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			logFile = nil
			return
		}
		logFile = f
		truncateEntry := LogEntry{
			Timestamp: time.Now().Format(time.RFC3339),
			Level:     LevelInfo,
			Message:   "Log file reached 5MB limit and was truncated.",
		}
		data, _ := json.Marshal(truncateEntry)
		f.Write(append(data, '\n'))
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	f.Write(append(data, '\n'))
}
