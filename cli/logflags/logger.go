package logflags

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Config struct {
	Path    string
	Mode    FileMode
	Level   zapcore.Level
	DevMode bool
}

// New returns a logger writing JSON lines to the destination named by
// conf.Path.
func New(conf Config) (*zap.Logger, error) {
	ws, err := OpenFile(conf.Path, conf.Mode)
	if err != nil {
		return nil, err
	}
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), ws, conf.Level)
	opts := []zap.Option{zap.ErrorOutput(ws)}
	if conf.DevMode {
		opts = append(opts, zap.Development())
	}
	return zap.New(core, opts...), nil
}

type FileMode string

const (
	// FileModeAppend appends to an existing log file.
	FileModeAppend FileMode = "append"
	// FileModeTruncate truncates an existing log file.
	FileModeTruncate FileMode = "truncate"
	// FileModeRotate rotates log files by size.
	FileModeRotate FileMode = "rotate"
)

func (m *FileMode) Set(s string) error {
	switch FileMode(s) {
	case FileModeAppend, "":
		*m = FileModeAppend
	case FileModeTruncate, FileModeRotate:
		*m = FileMode(s)
	default:
		return fmt.Errorf("invalid file mode: %s", s)
	}
	return nil
}

func (m FileMode) String() string {
	return string(m)
}

func OpenFile(path string, mode FileMode) (zapcore.WriteSyncer, error) {
	switch path {
	case "", "stderr":
		return zapcore.Lock(os.Stderr), nil
	case "stdout":
		return zapcore.Lock(os.Stdout), nil
	case "/dev/null":
		return zapcore.AddSync(io.Discard), nil
	}
	flags := os.O_WRONLY | os.O_CREATE
	switch mode {
	case FileModeRotate:
		return logrotate(path)
	case FileModeTruncate:
		flags |= os.O_TRUNC
	default:
		flags |= os.O_APPEND
	}
	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return nil, err
	}
	return zapcore.Lock(f), nil
}

func logrotate(path string) (zapcore.WriteSyncer, error) {
	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		return nil, err
	}
	// lumberjack.Logger is safe for concurrent use.
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    5, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}), nil
}
