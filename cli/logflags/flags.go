package logflags

import (
	"flag"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Flags struct {
	Config Config
}

func (f *Flags) SetFlags(fs *flag.FlagSet) {
	fs.BoolVar(&f.Config.DevMode, "log.devmode", false, "development mode (if enabled dpanic level logs will cause a panic)")
	f.Config.Level = zapcore.WarnLevel
	fs.Var(&f.Config.Level, "log.level", "logging level")
	fs.StringVar(&f.Config.Path, "log.path", "stderr", "path to send logs (values: stderr, stdout, path in file system)")
	f.Config.Mode = FileModeAppend
	fs.Var(&f.Config.Mode, "log.filemode", "logger file write mode (values: append, truncate, rotate)")
}

func (f *Flags) Open() (*zap.Logger, error) {
	return New(f.Config)
}
