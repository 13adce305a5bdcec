package adapter

import (
	"bufio"
	"context"
	"errors"
	"os/exec"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/restitux/mumble-dbus/internal/bus"
	"github.com/restitux/mumble-dbus/internal/config"
	"github.com/restitux/mumble-dbus/internal/mumble"
)

// startBusDaemon runs a private session dbus-daemon and returns its address.
func startBusDaemon(t *testing.T) string {
	t.Helper()
	bin, err := exec.LookPath("dbus-daemon")
	if err != nil {
		t.Skip("dbus-daemon not installed")
	}

	cmd := exec.Command(bin, "--session", "--nofork", "--print-address=1")
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		t.Fatalf("stdout pipe: %v", err)
	}
	if err := cmd.Start(); err != nil {
		t.Fatalf("start dbus-daemon: %v", err)
	}
	t.Cleanup(func() {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	})

	addrCh := make(chan string, 1)
	go func() {
		line, _ := bufio.NewReader(stdout).ReadString('\n')
		addrCh <- strings.TrimSpace(line)
	}()

	select {
	case addr := <-addrCh:
		if addr == "" {
			t.Fatal("dbus-daemon printed no address")
		}
		return addr
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for dbus-daemon address")
	}
	return ""
}

func TestMuteService_OverRealBus(t *testing.T) {
	addr := startBusDaemon(t)

	cfg := config.DefaultConfig()
	cfg.Bus.Address = addr

	host := &mockMumble{}
	p := New(WithConfig(cfg))
	p.RegisterAPIFunctions(host)
	if code := p.Init(7); code != mumble.StatusOK {
		t.Fatalf("Init returned %s", code)
	}
	t.Cleanup(p.Shutdown)

	conn, err := dbus.Connect(addr)
	if err != nil {
		t.Fatalf("connect client: %v", err)
	}
	defer conn.Close()
	obj := conn.Object(bus.ServiceName, bus.ObjectPath)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := obj.CallWithContext(ctx, bus.MethodSetMute, 0, true).Err; err != nil {
		t.Fatalf("SetMute(true): %v", err)
	}

	malformed := []struct {
		name string
		args []interface{}
	}{
		{"string", []interface{}{"x"}},
		{"two bools", []interface{}{true, true}},
		{"no args", nil},
	}
	for _, tt := range malformed {
		err := obj.CallWithContext(ctx, bus.MethodSetMute, 0, tt.args...).Err
		var dbusErr dbus.Error
		if !errors.As(err, &dbusErr) {
			t.Fatalf("SetMute(%s): expected dbus.Error, got %v", tt.name, err)
		}
		if dbusErr.Name != "org.freedesktop.DBus.Error.InvalidArgs" {
			t.Errorf("SetMute(%s): error name = %q, want InvalidArgs", tt.name, dbusErr.Name)
		}
	}

	host.mu.Lock()
	calls := append([]bool(nil), host.setCalls...)
	host.mu.Unlock()
	if !reflect.DeepEqual(calls, []bool{true}) {
		t.Fatalf("host calls after malformed SetMute = %v, want [true]", calls)
	}

	if err := obj.CallWithContext(ctx, bus.MethodToggleMute, 0).Err; err != nil {
		t.Fatalf("ToggleMute: %v", err)
	}

	host.mu.Lock()
	calls = append([]bool(nil), host.setCalls...)
	host.mu.Unlock()
	if !reflect.DeepEqual(calls, []bool{true, false}) {
		t.Errorf("host calls = %v, want [true false]", calls)
	}
}
