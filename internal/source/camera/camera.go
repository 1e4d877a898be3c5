// Package camera provides a live webcam source. Frames are captured by an
// ffmpeg subprocess reading a V4L2 device and piping raw RGBA to stdout.
package camera

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/vovakirdan/slidecam/internal/registry"
	"github.com/vovakirdan/slidecam/internal/source"
)

const (
	DefaultDevice  = "/dev/video0"
	DefaultTimeout = 5 * time.Second
	DefaultWidth   = 640
	DefaultHeight  = 480
)

// ErrRemoteSession is wrapped by InsecureContext failures.
var ErrRemoteSession = errors.New("camera: capture refused for remote session")

// Provider opens camera sources.
type Provider struct {
	binary   string
	lookPath func(string) (string, error)
	command  func(ctx context.Context, name string, args ...string) *exec.Cmd
	timeout  time.Duration
}

// New creates a camera provider that runs ffmpeg from PATH.
func New() *Provider {
	return &Provider{
		binary:   "ffmpeg",
		lookPath: exec.LookPath,
		command:  exec.CommandContext,
		timeout:  DefaultTimeout,
	}
}

// ID returns the registry identifier.
func (p *Provider) ID() string {
	return "camera"
}

// Title returns the display name.
func (p *Provider) Title() string {
	return "Webcam"
}

// Open starts capture with the given constraints and blocks until the first
// frame arrives, the process fails, or the attempt times out.
func (p *Provider) Open(ctx context.Context, req source.Request, c source.Constraints) (source.ImageSource, error) {
	if req.Remote && !req.AllowRemote {
		return nil, source.Fail(source.InsecureContext, c, ErrRemoteSession)
	}

	bin, err := p.lookPath(p.binary)
	if err != nil {
		return nil, source.Fail(source.Unsupported, c, err)
	}

	device := req.Device
	if device == "" {
		device = DefaultDevice
	}
	if err := probe(device); err != nil {
		return nil, source.Fail(probeReason(err), c, err)
	}

	w, h := c.Width, c.Height
	if w <= 0 || h <= 0 {
		w, h = DefaultWidth, DefaultHeight
	}

	// The process outlives ctx, which only bounds acquisition.
	procCtx, cancel := context.WithCancel(context.Background())
	cmd := p.command(procCtx, bin, Args(device, c, w, h)...)

	s := &Source{
		w:      w,
		h:      h,
		cmd:    cmd,
		cancel: cancel,
		first:  make(chan struct{}),
		done:   make(chan struct{}),
	}
	cmd.Stderr = &s.stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, source.Fail(source.ReasonUnknown, c, err)
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, source.Fail(source.Unsupported, c, err)
	}
	go s.pump(stdout)

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = p.timeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-s.first:
		return s, nil
	case <-s.done:
		cancel()
		msg := s.stderr.String()
		return nil, source.Fail(Classify(msg), c, fmt.Errorf("ffmpeg exited (%v): %s", s.waitErr, lastLine(msg)))
	case <-timer.C:
		s.Release()
		return nil, source.Fail(source.Timeout, c, fmt.Errorf("no frame after %s", timeout))
	case <-ctx.Done():
		s.Release()
		return nil, source.ContextFailure(c, ctx.Err())
	}
}

// Args builds the ffmpeg command line. Output is always scaled to w x h.
func Args(device string, c source.Constraints, w, h int) []string {
	args := []string{"-hide_banner", "-loglevel", "error", "-f", "v4l2"}
	if c.Width > 0 && c.Height > 0 {
		args = append(args, "-video_size", fmt.Sprintf("%dx%d", c.Width, c.Height))
	}
	if c.FPS > 0 {
		args = append(args, "-framerate", strconv.Itoa(c.FPS))
	}
	return append(args,
		"-i", device,
		"-vf", fmt.Sprintf("scale=%d:%d", w, h),
		"-pix_fmt", "rgba",
		"-f", "rawvideo",
		"pipe:1",
	)
}

// Classify maps ffmpeg's error output to a failure reason.
func Classify(stderr string) source.Reason {
	s := strings.ToLower(stderr)
	switch {
	case strings.Contains(s, "permission denied"):
		return source.PermissionDenied
	case strings.Contains(s, "device or resource busy"):
		return source.DeviceBusy
	case strings.Contains(s, "no such file or directory"), strings.Contains(s, "no such device"):
		return source.NoDevice
	case strings.Contains(s, "invalid argument"),
		strings.Contains(s, "not supported"),
		strings.Contains(s, "unknown input format"):
		return source.Unsupported
	default:
		return source.ReasonUnknown
	}
}

func probe(device string) error {
	f, err := os.Open(device)
	if err != nil {
		return err
	}
	return f.Close()
}

func probeReason(err error) source.Reason {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return source.NoDevice
	case errors.Is(err, fs.ErrPermission):
		return source.PermissionDenied
	case errors.Is(err, syscall.EBUSY):
		return source.DeviceBusy
	default:
		return source.ReasonUnknown
	}
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	if s == "" {
		return "no output"
	}
	return s
}

// Source is a running capture.
type Source struct {
	w, h   int
	cmd    *exec.Cmd
	cancel context.CancelFunc
	stderr bytes.Buffer
	buf    source.Buffer

	first     chan struct{}
	firstOnce sync.Once
	done      chan struct{}
	waitErr   error

	releaseOnce sync.Once
}

// pump reads frames until the pipe closes, then reaps the process.
func (s *Source) pump(r io.Reader) {
	frame := make([]byte, s.w*s.h*4)
	for {
		if _, err := io.ReadFull(r, frame); err != nil {
			break
		}
		s.buf.Store(frame, s.w, s.h)
		s.firstOnce.Do(func() { close(s.first) })
	}
	s.waitErr = s.cmd.Wait()
	close(s.done)
}

// Size returns the output frame size.
func (s *Source) Size() (int, int) {
	return s.w, s.h
}

// Ready reports whether a frame has arrived.
func (s *Source) Ready() bool {
	return s.buf.Ready()
}

// Frame returns the latest frame.
func (s *Source) Frame() image.Image {
	return s.buf.Load()
}

// Release stops ffmpeg and waits for it to exit.
func (s *Source) Release() {
	s.releaseOnce.Do(func() {
		s.cancel()
		<-s.done
		s.buf.Reset()
	})
}

func init() {
	registry.Register("camera", func() source.Provider {
		return New()
	})
}
