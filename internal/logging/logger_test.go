package logging

import (
	"testing"

	"go.uber.org/zap"
)

func TestInit_Level(t *testing.T) {
	cases := []struct {
		level, env string
		want       zap.AtomicLevel
	}{
		{"debug", "dev", zap.NewAtomicLevelAt(zap.DebugLevel)},
		{"WARN", "prod", zap.NewAtomicLevelAt(zap.WarnLevel)},
		{"loud", "prod", zap.NewAtomicLevelAt(zap.InfoLevel)},
	}
	for _, tc := range cases {
		t.Run(tc.level, func(t *testing.T) {
			l, err := Init(tc.level, tc.env)
			if err != nil {
				t.Fatal(err)
			}
			defer l.Closer()
			if l.Level.Level() != tc.want.Level() {
				t.Fatalf("ожидали %s, получили %s", tc.want.Level(), l.Level.Level())
			}
			if l.Component("courses") == nil {
				t.Fatal("нет логгера подсистемы")
			}
		})
	}
}
