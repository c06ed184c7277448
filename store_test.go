package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/project-shkedia/media-db-service/pkg/config"
)

func TestManagerOptions_RetryNumber(t *testing.T) {
	tests := []struct {
		name        string
		retryNumber int
		wantBudget  int
	}{
		{name: "zero disables retries", retryNumber: 0, wantBudget: -1},
		{name: "positive kept", retryNumber: 3, wantBudget: 3},
		{name: "default", retryNumber: 10, wantBudget: 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{
				Retry:    config.RetryConfig{RetryNumber: tt.retryNumber, ReconnectWaitSeconds: 2},
				Database: config.DatabaseConfig{ConnectTimeoutSeconds: 5},
			}
			opts := managerOptions(cfg, nil)
			assert.Equal(t, tt.wantBudget, opts.RetryBudget)
			assert.Equal(t, 2*time.Second, opts.ReconnectWait)
			assert.Equal(t, 5*time.Second, opts.ConnectTimeout)
		})
	}
}
