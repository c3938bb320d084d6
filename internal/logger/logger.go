package logger

import (
	"fmt"
	"io"
	"time"

	"github.com/tatianab/slots/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const timeFmt = "2006/01/02 15:04:05.000"

// New builds a zap logger writing to the rotating file named in cfg and,
// when console is non-nil, to console as well. The terminal UI passes a nil
// console since it owns stdout.
func New(cfg config.Log, console io.Writer) (*zap.Logger, error) {
	lv := zap.NewAtomicLevel()
	badLevel := lv.UnmarshalText([]byte(cfg.Level)) != nil
	if badLevel {
		lv.SetLevel(zap.InfoLevel)
	}

	var cores []zapcore.Core
	if cfg.File != "" {
		w := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg(true)), zapcore.AddSync(w), lv))
	}
	if console != nil {
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg(false)), zapcore.Lock(zapcore.AddSync(console)), lv))
	}
	if len(cores) == 0 {
		return nil, fmt.Errorf("logger: no file and no console sink configured")
	}

	l := zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	if badLevel {
		l.Warn("invalid log level, using info", zap.String("level", cfg.Level))
	}
	return l, nil
}

func encCfg(file bool) zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString("[" + t.Format(timeFmt) + "]")
	}
	cfg.EncodeCaller = zapcore.ShortCallerEncoder
	cfg.ConsoleSeparator = " "
	if file {
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	} else {
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return cfg
}
