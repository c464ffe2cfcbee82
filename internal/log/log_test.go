// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package log

import (
	"bytes"
	"testing"
	"time"

	"github.com/apex/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New("WARN", &buf)
	require.NoError(t, err)
	assert.Equal(t, log.WarnLevel, logger.Level)

	h, ok := logger.Handler.(*CustomHandler)
	require.True(t, ok)
	assert.False(t, h.color)

	_, err = New("chatty", &buf)
	assert.Error(t, err)
}

func TestHandleLog(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf)
	h.now = func() time.Time { return time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC) }
	logger := &log.Logger{Handler: h, Level: log.DebugLevel}

	logger.WithFields(log.Fields{"stage": "restore", "bytes": "1.2 MB", "key": "abc"}).Debug("--- Downloading")
	logger.Warn("The cache doesn't exist on S3.")

	assert.Equal(t,
		"2026-10-18 09:30:00 D --- Downloading bytes=1.2 MB key=abc stage=restore\n"+
			"2026-10-18 09:30:00 W The cache doesn't exist on S3.\n",
		buf.String())
}
