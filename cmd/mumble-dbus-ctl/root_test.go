package main

import (
	"context"
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/restitux/mumble-dbus/internal/config"
)

type fakeClient struct {
	calls []string
	err   error
}

func (f *fakeClient) SetMute(_ context.Context, muted bool) error {
	if muted {
		f.calls = append(f.calls, "SetMute(true)")
	} else {
		f.calls = append(f.calls, "SetMute(false)")
	}
	return f.err
}

func (f *fakeClient) ToggleMute(context.Context) error {
	f.calls = append(f.calls, "ToggleMute()")
	return f.err
}

// withFakeConnect swaps the bus connector for the duration of a test.
func withFakeConnect(t *testing.T, client *fakeClient) *config.BusConfig {
	t.Helper()
	t.Setenv(config.EnvConfigPath, filepath.Join(t.TempDir(), "missing.yaml"))

	var got config.BusConfig
	orig := connect
	connect = func(cfg config.BusConfig) (muteClient, func() error, error) {
		got = cfg
		return client, func() error { return nil }, nil
	}
	t.Cleanup(func() { connect = orig })
	return &got
}

func execute(args ...string) error {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	return cmd.Execute()
}

func TestSubcommands(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"mute"}, "SetMute(true)"},
		{[]string{"unmute"}, "SetMute(false)"},
		{[]string{"toggle"}, "ToggleMute()"},
		{[]string{"set", "true"}, "SetMute(true)"},
		{[]string{"set", "0"}, "SetMute(false)"},
	}

	for _, tt := range tests {
		client := &fakeClient{}
		withFakeConnect(t, client)

		if err := execute(tt.args...); err != nil {
			t.Fatalf("%v: unexpected error: %v", tt.args, err)
		}
		if len(client.calls) != 1 || client.calls[0] != tt.want {
			t.Errorf("%v: calls = %v, want [%s]", tt.args, client.calls, tt.want)
		}
	}
}

func TestSetRejectsBadValue(t *testing.T) {
	client := &fakeClient{}
	withFakeConnect(t, client)

	if err := execute("set", "maybe"); err == nil {
		t.Fatal("expected error for invalid mute state")
	}
	if len(client.calls) != 0 {
		t.Errorf("no call expected, got %v", client.calls)
	}
}

func TestBusFlags(t *testing.T) {
	client := &fakeClient{}
	got := withFakeConnect(t, client)

	if err := execute("--system", "toggle"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind != config.BusSystem {
		t.Errorf("bus kind = %q, want %q", got.Kind, config.BusSystem)
	}

	if err := execute("--address", "unix:path=/tmp/test-bus", "mute"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind != config.BusSession || got.Address != "unix:path=/tmp/test-bus" {
		t.Errorf("bus = %+v, want session with explicit address", *got)
	}
}

func TestInvalidLogLevel(t *testing.T) {
	client := &fakeClient{}
	withFakeConnect(t, client)

	if err := execute("--log-level", "loud", "mute"); err == nil {
		t.Fatal("expected error for invalid log level")
	}
	if len(client.calls) != 0 {
		t.Errorf("no call expected, got %v", client.calls)
	}
}

func TestCallErrorIsReturned(t *testing.T) {
	wantErr := errors.New("service unknown")
	client := &fakeClient{err: wantErr}
	withFakeConnect(t, client)

	cmd := newRootCmd()
	cmd.SetArgs([]string{"toggle"})
	cmd.SetOut(io.Discard)
	var stderr bytes.Buffer
	cmd.SetErr(&stderr)

	if err := cmd.Execute(); !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
	// The error is printed once, by main.
	if stderr.Len() != 0 {
		t.Errorf("unexpected stderr output: %q", stderr.String())
	}
}
