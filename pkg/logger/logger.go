package logger

import (
	"os"
	"time"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options 日志配置，由conf.LogConfig映射而来
type Options struct {
	Level      string
	FileName   string
	TimeFormat string
	MaxSize    int // 单个日志文件最大尺寸 MB
	MaxBackups int
	MaxAge     int // 保留天数
	Compress   bool
	LocalTime  bool
	Console    bool
}

var l = zap.New(zapcore.NewCore(
	zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
	zapcore.Lock(os.Stdout),
	zapcore.DebugLevel,
))

var s = l.Sugar()

// Init 初始化全局logger，支持文件滚动和控制台双输出
func Init(opt Options) {
	level := zapcore.InfoLevel
	if err := level.UnmarshalText([]byte(opt.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	timeFormat := opt.TimeFormat
	if timeFormat == "" {
		timeFormat = "2006-01-02 15:04:05.000"
	}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.Format(timeFormat))
	}

	var cores []zapcore.Core
	if opt.FileName != "" {
		w := zapcore.AddSync(&lumberjack.Logger{
			Filename:   opt.FileName,
			MaxSize:    opt.MaxSize,
			MaxBackups: opt.MaxBackups,
			MaxAge:     opt.MaxAge,
			Compress:   opt.Compress,
			LocalTime:  opt.LocalTime,
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), w, level))
	}
	if opt.Console || opt.FileName == "" {
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stdout), level))
	}

	l = zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1))
	s = l.Sugar()
}

// Pair 构造一个结构化日志字段
func Pair(key string, value interface{}) zap.Field {
	return zap.Any(key, value)
}

func Info(msg string, fields ...zap.Field)  { l.Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { l.Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { l.Error(msg, fields...) }
func Fatal(msg string, fields ...zap.Field) { l.Fatal(msg, fields...) }

func Infof(format string, args ...interface{})  { s.Infof(format, args...) }
func Warnf(format string, args ...interface{})  { s.Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { s.Errorf(format, args...) }
func Fatalf(format string, args ...interface{}) { s.Fatalf(format, args...) }

// Sync 刷新缓冲区，进程退出前调用
func Sync() error { return l.Sync() }
