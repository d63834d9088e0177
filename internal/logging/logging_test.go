// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		verbose   bool
		debugOn   bool
		warningOn bool
	}{
		{"default shows warnings only", false, false, true},
		{"verbose shows debug", true, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.verbose)
			require.NoError(t, err)
			defer logger.Sync()

			core := logger.Core()
			assert.Equal(t, tt.debugOn, core.Enabled(zapcore.DebugLevel))
			assert.Equal(t, tt.debugOn, core.Enabled(zapcore.InfoLevel))
			assert.Equal(t, tt.warningOn, core.Enabled(zapcore.WarnLevel))
		})
	}
}
