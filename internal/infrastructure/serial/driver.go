// Package serial implements the gate actuator: a relay module reached over a
// UART link that speaks a two-command AT sequence. The device is stateful and
// not idempotent-safe under retries, so the driver performs exactly one
// attempt per call and surfaces a failure once.
package serial

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	hw "go.bug.st/serial"
)

// The relay module listens on a fixed device address. The first command
// selects it; its response is discarded. The second command triggers the
// relay and its response is what callers see. These literals must match the
// hardware firmware exactly.
const (
	cmdSelectAddress = "AT+ADDRESS=1313"
	cmdTriggerRelay  = "AT+SEND=1301,1,1"
)

const (
	defaultBaud        = 115200
	defaultReadTimeout = time.Second
)

var errNoResponse = errors.New("no response before read timeout")

// Port is the minimal serial handle the driver needs. go.bug.st/serial's
// Port satisfies it; tests substitute a fake.
type Port interface {
	io.ReadWriteCloser
	SetReadTimeout(t time.Duration) error
	ResetInputBuffer() error
	ResetOutputBuffer() error
}

// Config holds the transport settings for the relay link.
type Config struct {
	Device      string
	Baud        int
	ReadTimeout time.Duration
}

// Driver owns the serial port. A mutex makes the port exclusively held for
// the duration of one command exchange pair; there are never concurrent
// writers on the wire.
type Driver struct {
	mu   sync.Mutex
	cfg  Config
	open func() (Port, error)
	log  zerolog.Logger
}

func New(cfg Config, log zerolog.Logger) *Driver {
	if cfg.Baud <= 0 {
		cfg.Baud = defaultBaud
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = defaultReadTimeout
	}
	d := &Driver{cfg: cfg, log: log}
	d.open = func() (Port, error) {
		return hw.Open(cfg.Device, &hw.Mode{BaudRate: cfg.Baud})
	}
	return d
}

// OpenGate runs the full actuation sequence: select the device address, then
// send the relay trigger. Only the trigger's response is returned. Any
// failure along the way aborts the sequence; no retry is performed.
func (d *Driver) OpenGate(ctx context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	if _, err := d.exchange(cmdSelectAddress); err != nil {
		return "", fmt.Errorf("select address: %w", err)
	}

	response, err := d.exchange(cmdTriggerRelay)
	if err != nil {
		return "", fmt.Errorf("trigger relay: %w", err)
	}
	return response, nil
}

// exchange performs one command round-trip: open the port, flush both
// buffers, write the command with a CRLF terminator, read one response line,
// close the port. The port is closed on every exit path.
func (d *Driver) exchange(command string) (string, error) {
	port, err := d.open()
	if err != nil {
		return "", fmt.Errorf("open port: %w", err)
	}
	defer func() {
		if cerr := port.Close(); cerr != nil {
			d.log.Warn().Err(cerr).Str("device", d.cfg.Device).Msg("failed to close serial port")
		}
	}()

	if err := port.SetReadTimeout(d.cfg.ReadTimeout); err != nil {
		return "", fmt.Errorf("set read timeout: %w", err)
	}
	if err := port.ResetInputBuffer(); err != nil {
		return "", fmt.Errorf("flush input: %w", err)
	}
	if err := port.ResetOutputBuffer(); err != nil {
		return "", fmt.Errorf("flush output: %w", err)
	}

	if _, err := port.Write([]byte(command + "\r\n")); err != nil {
		return "", fmt.Errorf("write command: %w", err)
	}

	response, err := readLine(port, d.cfg.ReadTimeout)
	if err != nil {
		return "", err
	}

	d.log.Debug().Str("command", command).Str("response", strings.TrimSpace(response)).Msg("serial exchange")
	return response, nil
}

// readLine accumulates bytes until a newline arrives or the response window
// elapses. go.bug.st/serial reports a timed-out read as a zero-byte result,
// so a zero read with nothing buffered means the device stayed silent.
func readLine(port Port, window time.Duration) (string, error) {
	var sb strings.Builder
	buf := make([]byte, 64)
	deadline := time.Now().Add(window)

	for {
		n, err := port.Read(buf)
		if err != nil {
			return "", fmt.Errorf("read response: %w", err)
		}
		if n > 0 {
			sb.Write(buf[:n])
			if strings.ContainsRune(sb.String(), '\n') {
				return sb.String(), nil
			}
		}
		if n == 0 || time.Now().After(deadline) {
			if sb.Len() == 0 {
				return "", errNoResponse
			}
			// Partial line at timeout: return what arrived.
			return sb.String(), nil
		}
	}
}
