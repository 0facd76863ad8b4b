// License: GPLv3 Copyright: 2026, The vtdrive authors

package tty

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var _ = fmt.Print

func open_pty_link(t *testing.T) *Link {
	t.Helper()
	if runtime.GOOS != "linux" {
		t.Skip("termios2 is Linux only")
	}
	link, err := OpenPtyLink(SetRaw)
	if err != nil {
		t.Skipf("Could not allocate a pty: %s", err)
	}
	t.Cleanup(func() { link.Close() })
	return link
}

func TestPtyLink(t *testing.T) {
	link := open_pty_link(t)
	if !link.IsPty() || link.PeerName() == "" || link.Name() == "" {
		t.Fatalf("Unexpected pty link identity: name=%#v peer=%#v", link.Name(), link.PeerName())
	}
	if !IsTerminal(uintptr(link.Fd())) || !IsTerminal(link.PeerFile().Fd()) {
		t.Fatalf("Pty sides not reported as terminals")
	}
	buf := make([]byte, 64)
	if _, err := link.ReadWithTimeout(buf, 20*time.Millisecond); !errors.Is(err, os.ErrDeadlineExceeded) {
		t.Fatalf("Expected an empty poll, got: %v", err)
	}
	if _, err := link.PeerFile().Write([]byte("\x1b[5;10R")); err != nil {
		t.Fatal(err)
	}
	n, err := link.ReadWithTimeout(buf, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff("\x1b[5;10R", string(buf[:n])); diff != "" {
		t.Fatalf("Unexpected data read from link:\n%s", diff)
	}

	if _, err := link.PeerFile().Write([]byte("noise")); err != nil {
		t.Fatal(err)
	}
	discarded, err := link.Drain(20*time.Millisecond, 4)
	if err != nil {
		t.Fatal(err)
	}
	if discarded != 5 {
		t.Fatalf("Drain discarded %d bytes instead of 5", discarded)
	}

	if n, err := link.Write([]byte("hello")); err != nil || n != 5 {
		t.Fatalf("Write returned %d, %v", n, err)
	}
	got := make([]byte, 5)
	if _, err := link.PeerFile().Read(got); err != nil {
		t.Fatal(err)
	}
	if string(got) != "hello" {
		t.Fatalf("Peer read %#v", string(got))
	}
}

func TestPtyLineState(t *testing.T) {
	link := open_pty_link(t)
	s, err := link.GetLineState()
	if err != nil {
		t.Fatal(err)
	}
	if s.Lflag&0o000002 != 0 {
		t.Fatalf("ICANON still set after SetRaw: %s", s)
	}
	before := s
	if err := link.SetSpeed(12345); err != nil {
		t.Fatal(err)
	}
	after, err := link.GetLineState()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(before, after); diff != "" {
		t.Fatalf("SetSpeed on a pty changed the line state:\n%s", diff)
	}
	if err := link.Restore(); err != nil {
		t.Fatal(err)
	}
	restored, _ := link.GetLineState()
	if restored.Lflag&0o000002 == 0 {
		t.Fatalf("ICANON not restored: %s", restored)
	}
}

func TestLinkClose(t *testing.T) {
	link := open_pty_link(t)
	if err := link.Close(); err != nil {
		t.Fatal(err)
	}
	if err := link.Close(); err != nil {
		t.Fatalf("Second close failed: %s", err)
	}
	if link.Fd() != -1 || link.PeerFile() != nil {
		t.Fatalf("Descriptors not released")
	}
	if _, err := link.Write([]byte("x")); !errors.Is(err, os.ErrClosed) {
		t.Fatalf("Write after close did not fail with ErrClosed: %v", err)
	}
	if _, err := link.GetLineState(); !errors.Is(err, os.ErrClosed) {
		t.Fatalf("GetLineState after close did not fail with ErrClosed: %v", err)
	}
}

func TestOpenLinkFailures(t *testing.T) {
	tdir := t.TempDir()
	if _, err := OpenLink(filepath.Join(tdir, "missing")); err == nil {
		t.Fatalf("Opening a missing device did not fail")
	}
	regular := filepath.Join(tdir, "regular")
	os.WriteFile(regular, nil, 0o600)
	if f, err := os.Open(regular); err == nil {
		if IsTerminal(f.Fd()) {
			t.Fatalf("A regular file was reported as a terminal")
		}
		f.Close()
	}
	if runtime.GOOS == "linux" {
		if _, err := OpenLink(regular, SetRaw); err == nil {
			t.Fatalf("Applying termios operations to a regular file did not fail")
		}
	}
}

func TestListPorts(t *testing.T) {
	tdir := t.TempDir()
	for _, name := range []string{"ttyUSB0", "ttyUSB1", "ttyACM0", "other"} {
		os.WriteFile(filepath.Join(tdir, name), nil, 0o600)
	}
	ports, err := ListPorts(filepath.Join(tdir, "ttyUSB*"), filepath.Join(tdir, "tty{USB,ACM}0"))
	if err != nil {
		t.Fatal(err)
	}
	expected := []string{filepath.Join(tdir, "ttyACM0"), filepath.Join(tdir, "ttyUSB0"), filepath.Join(tdir, "ttyUSB1")}
	if diff := cmp.Diff(expected, ports); diff != "" {
		t.Fatalf("Unexpected ports:\n%s", diff)
	}
	if _, err := ListPorts(filepath.Join(tdir, "[")); err == nil {
		t.Fatalf("Invalid glob did not fail")
	}
}
