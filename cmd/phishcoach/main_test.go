package main

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestIsSignalCanceled(t *testing.T) {
	live := context.Background()
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name string
		err  error
		ctx  context.Context
		want bool
	}{
		{"interrupted", fmt.Errorf("run tui: %w", context.Canceled), cancelled, true},
		{"canceled but context live", context.Canceled, live, false},
		{"other error after interrupt", errors.New("boom"), cancelled, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isSignalCanceled(tt.err, tt.ctx); got != tt.want {
				t.Errorf("isSignalCanceled() = %v, want %v", got, tt.want)
			}
		})
	}
}
