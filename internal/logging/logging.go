package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const dateLayout = "2006-01-02"

type Options struct {
	Dir           string
	Level         string
	RetentionDays int
}

// New builds a JSON zap logger that writes to stdout and, when Dir is set, to a
// daily log file. When the file cannot be opened the stdout logger is still
// returned together with the error.
func New(opts Options) (*zap.Logger, func(), error) {
	level, err := zapcore.ParseLevel(strings.TrimSpace(opts.Level))
	if err != nil {
		level = zapcore.InfoLevel
	}
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encoderCfg)

	sinks := []zapcore.WriteSyncer{zapcore.Lock(os.Stdout)}
	var file *DailyFile
	var fileErr error
	if opts.Dir != "" {
		file, fileErr = OpenDaily(opts.Dir, opts.RetentionDays, nil)
		if fileErr == nil {
			sinks = append(sinks, file)
		}
	}

	core := zapcore.NewCore(encoder, zapcore.NewMultiWriteSyncer(sinks...), level)
	logger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	cleanup := func() {
		_ = logger.Sync()
		if file != nil {
			_ = file.Close()
		}
	}
	return logger, cleanup, fileErr
}

// DailyFile is a zapcore.WriteSyncer that switches to app-<date>.log when the
// date changes and prunes files older than the retention window.
type DailyFile struct {
	mu            sync.Mutex
	dir           string
	retentionDays int
	now           func() time.Time
	date          string
	file          *os.File
}

func OpenDaily(dir string, retentionDays int, now func() time.Time) (*DailyFile, error) {
	if now == nil {
		now = time.Now
	}
	if retentionDays <= 0 {
		retentionDays = 7
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	date := now().Format(dateLayout)
	file, err := openLogFile(dir, date)
	if err != nil {
		return nil, err
	}
	d := &DailyFile{dir: dir, retentionDays: retentionDays, now: now, date: date, file: file}
	cleanupOldLogs(dir, retentionDays, now())
	return d, nil
}

func (d *DailyFile) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if date := d.now().Format(dateLayout); date != d.date {
		if next, err := openLogFile(d.dir, date); err == nil {
			_ = d.file.Close()
			d.file = next
			d.date = date
			cleanupOldLogs(d.dir, d.retentionDays, d.now())
		}
	}
	return d.file.Write(p)
}

func (d *DailyFile) Sync() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.file.Sync()
}

func (d *DailyFile) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.file.Close()
}

func openLogFile(dir, date string) (*os.File, error) {
	filename := filepath.Join(dir, fmt.Sprintf("app-%s.log", date))
	return os.OpenFile(filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}

func cleanupOldLogs(dir string, retentionDays int, now time.Time) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	today, _ := time.Parse(dateLayout, now.Format(dateLayout))
	cutoff := today.AddDate(0, 0, -(retentionDays - 1))
	for _, entry := range entries {
		name := entry.Name()
		if !entry.Type().IsRegular() {
			continue
		}
		if !strings.HasPrefix(name, "app-") || !strings.HasSuffix(name, ".log") {
			continue
		}
		datePart := strings.TrimSuffix(strings.TrimPrefix(name, "app-"), ".log")
		logDate, err := time.Parse(dateLayout, datePart)
		if err != nil {
			continue
		}
		if logDate.Before(cutoff) {
			_ = os.Remove(filepath.Join(dir, name))
		}
	}
}
