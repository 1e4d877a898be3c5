package camera

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/slidecam/internal/source"
)

const helperEnv = "SLIDECAM_CAMERA_HELPER"

// TestHelperProcess stands in for ffmpeg. It is a no-op unless started by
// helperProvider.
func TestHelperProcess(t *testing.T) {
	mode := os.Getenv(helperEnv)
	if mode == "" {
		return
	}
	defer os.Exit(0)

	args := os.Args
	for i, a := range args {
		if a == "--" {
			args = args[i+1:]
			break
		}
	}

	switch mode {
	case "frames":
		var w, h int
		for i, a := range args {
			if a == "-vf" && i+1 < len(args) {
				fmt.Sscanf(args[i+1], "scale=%d:%d", &w, &h)
			}
		}
		frame := make([]byte, w*h*4)
		for i := range frame {
			frame[i] = 200
		}
		for {
			if _, err := os.Stdout.Write(frame); err != nil {
				return
			}
			time.Sleep(10 * time.Millisecond)
		}
	case "busy":
		fmt.Fprintln(os.Stderr, "[video4linux2,v4l2 @ 0x1] ioctl(VIDIOC_STREAMON): Device or resource busy")
		os.Exit(1)
	case "silent":
		time.Sleep(time.Minute)
	}
}

func helperProvider(mode string) *Provider {
	return &Provider{
		binary:   "ffmpeg",
		lookPath: func(string) (string, error) { return "ffmpeg", nil },
		command: func(ctx context.Context, _ string, args ...string) *exec.Cmd {
			cs := append([]string{"-test.run=TestHelperProcess", "--"}, args...)
			cmd := exec.CommandContext(ctx, os.Args[0], cs...)
			cmd.Env = append(os.Environ(), helperEnv+"="+mode)
			return cmd
		},
		timeout: 5 * time.Second,
	}
}

// fakeDevice returns a path that probe can open.
func fakeDevice(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "video0")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOpenStreamsFrames(t *testing.T) {
	p := helperProvider("frames")
	req := source.Request{Device: fakeDevice(t)}

	src, err := p.Open(context.Background(), req, source.Constraints{Width: 16, Height: 12})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer src.Release()

	if !src.Ready() {
		t.Error("Ready() = false after Open returned")
	}
	if w, h := src.Size(); w != 16 || h != 12 {
		t.Errorf("Size() = %dx%d, expected 16x12", w, h)
	}
	r, _, _, _ := src.Frame().At(5, 5).RGBA()
	if r>>8 != 200 {
		t.Errorf("red = %d, expected 200", r>>8)
	}
}

func TestReleaseIsSynchronousAndIdempotent(t *testing.T) {
	p := helperProvider("frames")
	src, err := p.Open(context.Background(), source.Request{Device: fakeDevice(t)}, source.Constraints{Width: 8, Height: 8})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	cam := src.(*Source)
	cam.Release()
	select {
	case <-cam.done:
	default:
		t.Fatal("process still running after Release returned")
	}
	cam.Release()

	if cam.Ready() || cam.Frame() != nil {
		t.Error("source still live after Release")
	}
}

func TestOpenClassifiesProcessFailure(t *testing.T) {
	p := helperProvider("busy")
	_, err := p.Open(context.Background(), source.Request{Device: fakeDevice(t)}, source.Constraints{})
	if got := source.ReasonOf(err); got != source.DeviceBusy {
		t.Errorf("ReasonOf() = %v, expected %v (err %v)", got, source.DeviceBusy, err)
	}
}

func TestOpenTimesOut(t *testing.T) {
	p := helperProvider("silent")
	req := source.Request{Device: fakeDevice(t), Timeout: 100 * time.Millisecond}

	start := time.Now()
	_, err := p.Open(context.Background(), req, source.Constraints{})
	if got := source.ReasonOf(err); got != source.Timeout {
		t.Errorf("ReasonOf() = %v, expected %v", got, source.Timeout)
	}
	if time.Since(start) > 10*time.Second {
		t.Error("Open did not honour the timeout")
	}
}

func TestOpenPreflightFailures(t *testing.T) {
	missingFFmpeg := helperProvider("frames")
	missingFFmpeg.lookPath = func(string) (string, error) { return "", exec.ErrNotFound }

	tests := []struct {
		name     string
		p        *Provider
		req      source.Request
		expected source.Reason
	}{
		{"remote session", helperProvider("frames"), source.Request{Remote: true}, source.InsecureContext},
		{"ffmpeg missing", missingFFmpeg, source.Request{}, source.Unsupported},
		{"no device", helperProvider("frames"), source.Request{Device: "/nonexistent/video9"}, source.NoDevice},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.p.Open(context.Background(), tc.req, source.Constraints{})
			if got := source.ReasonOf(err); got != tc.expected {
				t.Errorf("ReasonOf() = %v, expected %v (err %v)", got, tc.expected, err)
			}
		})
	}
}

func TestRemoteAllowedSkipsInsecureCheck(t *testing.T) {
	p := helperProvider("frames")
	req := source.Request{Device: fakeDevice(t), Remote: true, AllowRemote: true}

	src, err := p.Open(context.Background(), req, source.Constraints{Width: 4, Height: 4})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	src.Release()
}

func TestArgs(t *testing.T) {
	got := Args("/dev/video2", source.Constraints{Width: 1280, Height: 720, FPS: 30}, 1280, 720)
	want := []string{
		"-hide_banner", "-loglevel", "error", "-f", "v4l2",
		"-video_size", "1280x720",
		"-framerate", "30",
		"-i", "/dev/video2",
		"-vf", "scale=1280:720",
		"-pix_fmt", "rgba",
		"-f", "rawvideo",
		"pipe:1",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Args() =\n%v\nexpected\n%v", got, want)
	}

	anyArgs := strings.Join(Args("/dev/video0", source.Constraints{}, 640, 480), " ")
	if strings.Contains(anyArgs, "-video_size") || strings.Contains(anyArgs, "-framerate") {
		t.Errorf("unconstrained args carry capture constraints: %s", anyArgs)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		stderr   string
		expected source.Reason
	}{
		{"/dev/video0: Permission denied", source.PermissionDenied},
		{"ioctl(VIDIOC_STREAMON): Device or resource busy", source.DeviceBusy},
		{"/dev/video3: No such file or directory", source.NoDevice},
		{"ioctl(VIDIOC_S_FMT): Invalid argument", source.Unsupported},
		{"Unknown input format: 'v4l2'", source.Unsupported},
		{"something else entirely", source.ReasonUnknown},
	}
	for _, tc := range tests {
		if got := Classify(tc.stderr); got != tc.expected {
			t.Errorf("Classify(%q) = %v, expected %v", tc.stderr, got, tc.expected)
		}
	}
}

func TestProbeReason(t *testing.T) {
	if got := probeReason(os.ErrNotExist); got != source.NoDevice {
		t.Errorf("probeReason(ErrNotExist) = %v", got)
	}
	if got := probeReason(fmt.Errorf("open: %w", os.ErrPermission)); got != source.PermissionDenied {
		t.Errorf("probeReason(ErrPermission) = %v", got)
	}
	if got := probeReason(errors.New("other")); got != source.ReasonUnknown {
		t.Errorf("probeReason(other) = %v", got)
	}
}

func TestLastLine(t *testing.T) {
	if got := lastLine("a\nb\n"); got != "b" {
		t.Errorf("lastLine() = %q, expected b", got)
	}
	if got := lastLine(""); got != "no output" {
		t.Errorf("lastLine(\"\") = %q", got)
	}
}
