package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/forge/internal/app"
	"go.trai.ch/forge/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

// TestRun_Success verifies that run returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)

	provider := func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{
			App:    app.New(nil, nil, mockLogger),
			Logger: mockLogger,
		}, func() {}, nil
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)
	assert.Equal(t, 0, exitCode)
	assert.Empty(t, stderr.String())
}

// TestRun_ProviderFailure verifies that an initialization failure is written
// to stderr, since no logger exists yet.
func TestRun_ProviderFailure(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("wiring exploded")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)
	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "wiring exploded")
}

// TestRun_CommandFailure verifies that command errors are logged and exit 1.
func TestRun_CommandFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Error(gomock.Any()).Times(1)

	provider := func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{
			App:    app.New(nil, nil, mockLogger),
			Logger: mockLogger,
		}, func() {}, nil
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"no-such-command"}, stderr, provider)
	assert.Equal(t, 1, exitCode)
}
