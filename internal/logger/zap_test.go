package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestToZapLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		InfoLevel:  zapcore.InfoLevel,
		WarnLevel:  zapcore.WarnLevel,
		ErrorLevel: zapcore.ErrorLevel,
		DebugLevel: zapcore.DebugLevel,
		"verbose":  zapcore.DebugLevel,
	}
	for in, want := range cases {
		if got := toZapLevel(in); got != want {
			t.Errorf("toZapLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNamed(t *testing.T) {
	var nilLog *Logger
	if nilLog.Named("x") != nil {
		t.Fatalf("Named on nil logger must stay nil")
	}
	l := New(WarnLevel, JSONEncoding).Named("store")
	if l == nil || l.Desugar().Core().Enabled(zapcore.InfoLevel) {
		t.Fatalf("warn logger must not log info")
	}
	Nop().Infow("discarded", "k", "v")
}
