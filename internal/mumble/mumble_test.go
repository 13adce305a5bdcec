package mumble

import (
	"errors"
	"testing"
)

func TestCheckCode(t *testing.T) {
	if err := CheckCode("log", StatusOK); err != nil {
		t.Fatalf("expected nil for StatusOK, got %v", err)
	}

	err := CheckCode("requestLocalUserMute", ECGenericError)
	if err == nil {
		t.Fatal("expected error for generic error code")
	}

	var merr *Error
	if !errors.As(err, &merr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if merr.Op != "requestLocalUserMute" || merr.Code != ECGenericError {
		t.Errorf("unexpected error contents: %+v", merr)
	}
	if got, want := err.Error(), "mumble requestLocalUserMute: generic error"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestErrorCodeString(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want string
	}{
		{StatusOK, "ok"},
		{ECGenericError, "generic error"},
		{ErrorCode(7), "error code 7"},
	}

	for _, tt := range tests {
		if got := tt.code.String(); got != tt.want {
			t.Errorf("ErrorCode(%d).String() = %q, want %q", int32(tt.code), got, tt.want)
		}
	}
}

func TestPluginIdentification(t *testing.T) {
	for name, s := range map[string]string{
		"name":        PluginName,
		"author":      PluginAuthor,
		"description": PluginDescription,
	} {
		if s == "" {
			t.Errorf("plugin %s must not be empty", name)
		}
	}

	if got := PluginVersion.String(); got != "1.0.0" {
		t.Errorf("PluginVersion = %s, want 1.0.0", got)
	}
}
