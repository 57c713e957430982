package log

import (
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const projectName = "Bingo"

var L = build(os.Getenv("BINGO_LOG_LEVEL"), false)

// Setup 按配置重建全局 logger，dev 环境输出控制台格式
func Setup(level string, console bool) {
	L = build(level, console)
}

// Replace 替换全局 logger，测试中用 zap.NewNop
func Replace(l *zap.Logger) func() {
	prev := L
	L = l
	return func() { L = prev }
}

func build(level string, console bool) *zap.Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeCaller = func(caller zapcore.EntryCaller, enc zapcore.PrimitiveArrayEncoder) {
		// 调用位置从项目目录开始截取
		if i := strings.Index(caller.File, projectName); i != -1 {
			enc.AppendString(caller.File[i:] + ":" + strconv.Itoa(caller.Line))
			return
		}
		enc.AppendString(caller.TrimmedPath())
	}

	var encoder zapcore.Encoder
	if console {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encCfg)
	}

	lv := zap.InfoLevel
	if parsed, err := zapcore.ParseLevel(level); err == nil {
		lv = parsed
	}
	core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), lv)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel))
}
