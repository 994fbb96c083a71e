package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"tienda/infrastructure/persistence"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestGormLoggerAdapter_Levels(t *testing.T) {
	testCases := []struct {
		name      string
		logLevel  gormlogger.LogLevel
		wantInfo  bool
		wantTrace bool
	}{
		{"warn level", gormlogger.Warn, false, false},
		{"info level", gormlogger.Info, true, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			defer Replace(zap.New(core))()

			adapter := NewGormLoggerAdapter(tc.logLevel)
			if adapter.LogMode(gormlogger.Info) == nil {
				t.Fatal("LogMode should return a new adapter")
			}

			ctx := context.Background()
			adapter.Info(ctx, "info %d", 1)
			adapter.Warn(ctx, "warn %d", 2)
			adapter.Error(ctx, "error %d", 3)
			adapter.Trace(ctx, time.Now(), func() (string, int64) {
				return "SELECT * FROM orders", 1
			}, nil)

			if got := logs.FilterMessage("info 1").Len() == 1; got != tc.wantInfo {
				t.Errorf("info logged = %v, want %v", got, tc.wantInfo)
			}
			if logs.FilterMessage("warn 2").Len() != 1 {
				t.Error("warn message not found")
			}
			if logs.FilterMessage("error 3").Len() != 1 {
				t.Error("error message not found")
			}
			traces := logs.FilterMessage("SQL query executed")
			if got := traces.Len() == 1; got != tc.wantTrace {
				t.Errorf("trace logged = %v, want %v", got, tc.wantTrace)
			}
			if tc.wantTrace && traces.FilterField(zap.String("sql", "SELECT * FROM orders")).Len() != 1 {
				t.Error("sql field missing from trace log")
			}
		})
	}
}

func TestGormLoggerAdapter_SlowQueryCarriesRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	defer Replace(zap.New(core))()

	adapter := NewGormLoggerAdapterWithConfig(gormlogger.Info, &GormLoggerConfig{
		SlowThreshold:             10 * time.Millisecond,
		IgnoreRecordNotFoundError: true,
	})
	ctx := persistence.ContextWithRequestID(context.Background(), "req-123")

	adapter.Trace(ctx, time.Now().Add(-50*time.Millisecond), func() (string, int64) {
		return "SELECT * FROM products FOR UPDATE", 1
	}, nil)
	adapter.Trace(ctx, time.Now(), func() (string, int64) {
		return "SELECT * FROM carts WHERE user_id = 999", 0
	}, gormlogger.ErrRecordNotFound)

	slow := logs.FilterMessage("Slow SQL query")
	if slow.Len() != 1 {
		t.Fatalf("expected one slow query log, got %d", slow.Len())
	}
	if slow.FilterField(zap.String("request_id", "req-123")).Len() != 1 {
		t.Error("request_id should be propagated from context")
	}
	if logs.FilterMessage("Database record not found").Len() != 0 {
		t.Error("record not found should be ignored")
	}
}

func TestGormLoggerAdapter_Errors(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	defer Replace(zap.New(core))()

	adapter := NewGormLoggerAdapterWithConfig(gormlogger.Error, &GormLoggerConfig{})
	adapter.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "UPDATE products SET stock = -1", 0
	}, errors.New("CHECK constraint failed"))
	adapter.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT 1", 0
	}, gormlogger.ErrRecordNotFound)

	if logs.FilterMessage("Database operation failed").Len() != 1 {
		t.Error("failed statement should be logged")
	}
	if logs.FilterMessage("Database record not found").Len() != 1 {
		t.Error("record not found should be logged when not ignored")
	}
}

func TestParseGormLevel(t *testing.T) {
	cases := map[string]gormlogger.LogLevel{
		"silent": gormlogger.Silent,
		"error":  gormlogger.Error,
		"warn":   gormlogger.Warn,
		"info":   gormlogger.Info,
		"":       gormlogger.Warn,
	}
	for in, want := range cases {
		if got := ParseGormLevel(in); got != want {
			t.Errorf("ParseGormLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
