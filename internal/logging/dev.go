//go:build dev

package logging

import (
	"os"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var levelColors = map[zapcore.Level]func(a ...interface{}) string{
	zapcore.DebugLevel: color.New(color.FgCyan, color.Bold).SprintFunc(),
	zapcore.InfoLevel:  color.New(color.FgGreen, color.Bold).SprintFunc(),
	zapcore.WarnLevel:  color.New(color.FgMagenta, color.Bold).SprintFunc(),
	zapcore.ErrorLevel: color.New(color.FgRed, color.Bold).SprintFunc(),
	zapcore.FatalLevel: color.New(color.FgHiRed, color.Bold, color.BgBlack).SprintFunc(),
}

var levelNames = map[zapcore.Level]string{
	zapcore.DebugLevel: "DBG",
	zapcore.InfoLevel:  "INF",
	zapcore.WarnLevel:  "WRN",
	zapcore.ErrorLevel: "ERR",
	zapcore.FatalLevel: "FTL",
}

func colorLevel(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	name, ok := levelNames[l]
	if !ok {
		name = l.CapitalString()
	}
	if paint, ok := levelColors[l]; ok {
		enc.AppendString(paint(name))
		return
	}
	enc.AppendString(name)
}

// InitLogger tees colored console output and JSON file output, at debug level.
func InitLogger(logFilePath string) (*os.File, error) {
	file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, err
	}

	dim := color.New(color.FgHiBlack).SprintFunc()

	consoleCfg := zap.NewDevelopmentEncoderConfig()
	consoleCfg.EncodeLevel = colorLevel
	consoleCfg.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(dim(t.Format("15:04:05")))
	}

	fileCfg := zap.NewProductionEncoderConfig()
	fileCfg.EncodeTime = zapcore.RFC3339TimeEncoder

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.Lock(os.Stdout), zapcore.DebugLevel),
		zapcore.NewCore(zapcore.NewJSONEncoder(fileCfg), zapcore.AddSync(file), zapcore.DebugLevel),
	)
	SetLogger(zap.New(core, callerOptions...))

	return file, nil
}
