package logger

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNewFallsBackOnUnknownValues(t *testing.T) {
	l := New("nonsense", "nonsense")
	assert.NotNil(t, l)

	ll, ok := l.(*LogrusLogger)
	assert.True(t, ok)
	assert.Equal(t, logrus.InfoLevel, ll.entry.Logger.GetLevel())
}

func TestLogrusLoggerFieldsAndError(t *testing.T) {
	var buf bytes.Buffer
	base := logrus.New()
	base.SetOutput(&buf)
	base.SetFormatter(&logrus.JSONFormatter{})

	l := NewLogrusLogger(base)
	l.WithFields(map[string]interface{}{"method": "item.add"}).
		WithErr(errors.New("boom")).
		Error("request failed")

	out := buf.String()
	assert.Contains(t, out, `"method":"item.add"`)
	assert.Contains(t, out, `"error":"boom"`)
	assert.Contains(t, out, "request failed")
}

func TestDerivedLoggersDoNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	base := logrus.New()
	base.SetOutput(&buf)
	base.SetFormatter(&logrus.JSONFormatter{})

	parent := NewLogrusLogger(base)
	_ = parent.WithFields(map[string]interface{}{"leaked": true})

	parent.Info("clean")
	assert.NotContains(t, buf.String(), "leaked")
}

func TestNullLogger(t *testing.T) {
	l := NewNullLogger()
	// Must accept every call without output or panic.
	l.WithFields(map[string]interface{}{"k": "v"}).WithErr(errors.New("x")).Error("ignored")
	l.Debug("ignored")
	l.Info("ignored")
	l.Warn("ignored")
}
