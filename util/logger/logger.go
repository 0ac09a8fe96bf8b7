package logger

import (
	"go.elastic.co/ecszap"
	"go.uber.org/zap"
)

type closeLog func() error

var Log *zap.Logger

func init() {
	// ให้ tests และ tooling ใช้งาน Log ได้โดยไม่ต้อง Init ก่อน
	Log = zap.NewNop()
}

func Init() (closeLog, error) {
	config := zap.NewDevelopmentConfig()
	// ECS-compatible encoder so logs can be shipped to the Elastic Stack later
	config.EncoderConfig = ecszap.ECSCompatibleEncoderConfig(config.EncoderConfig)

	var err error
	Log, err = config.Build(ecszap.WrapCoreOption())
	if err != nil {
		return nil, err
	}

	return func() error {
		return Log.Sync()
	}, nil
}

func With(fields ...zap.Field) *zap.Logger {
	return Log.With(fields...)
}
