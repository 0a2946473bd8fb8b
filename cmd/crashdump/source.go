package main

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"sync"
	"time"

	"crashtrack-go/errcode"

	"github.com/google/shlex"
	"github.com/mattn/go-tty"
)

// readImage loads a raw EEPROM image from disk.
func readImage(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errcode.Wrap(errcode.SourceFailed, "image", err)
	}
	return b, nil
}

// runReader runs an external reader (e.g. avrdude with -U eeprom:r:-:r) and
// returns what it printed on stdout as the image.
func runReader(ctx context.Context, cmdline string) ([]byte, error) {
	args, err := shlex.Split(cmdline)
	if err != nil {
		return nil, errcode.Wrap(errcode.InvalidConfig, "read_cmd", err)
	}
	if len(args) == 0 {
		return nil, &errcode.E{C: errcode.InvalidConfig, Op: "read_cmd", Msg: "empty command"}
	}
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, &errcode.E{C: errcode.SourceFailed, Op: "read_cmd", Msg: stderr.String(), Err: err}
	}
	return out, nil
}

// listenTTY collects whatever the device prints on its console for wait.
// The line settings (baud rate) are left as the OS has them; set them with
// stty beforehand.
func listenTTY(path string, wait time.Duration) ([]byte, error) {
	t, err := tty.OpenDevice(path)
	if err != nil {
		return nil, errcode.Wrap(errcode.SourceFailed, "tty", err)
	}
	defer t.Close()

	var (
		mu  sync.Mutex
		buf bytes.Buffer
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			r, err := t.ReadRune()
			if err != nil {
				return
			}
			mu.Lock()
			buf.WriteRune(r)
			mu.Unlock()
		}
	}()

	select {
	case <-time.After(wait):
	case <-done:
	}
	mu.Lock()
	defer mu.Unlock()
	return append([]byte(nil), buf.Bytes()...), nil
}
