package source

import (
	"context"
	"errors"
	"fmt"
)

// Reason classifies why a source could not be acquired.
type Reason int

const (
	ReasonUnknown Reason = iota
	PermissionDenied
	NoDevice
	DeviceBusy
	Unsupported
	Timeout
	InsecureContext
	Canceled
)

// String returns the reason's stable identifier, used in logs and storage.
func (r Reason) String() string {
	switch r {
	case PermissionDenied:
		return "permission_denied"
	case NoDevice:
		return "no_device"
	case DeviceBusy:
		return "device_busy"
	case Unsupported:
		return "unsupported"
	case Timeout:
		return "timeout"
	case InsecureContext:
		return "insecure_context"
	case Canceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Title is a short user-facing headline.
func (r Reason) Title() string {
	switch r {
	case PermissionDenied:
		return "Camera permission denied"
	case NoDevice:
		return "No camera found"
	case DeviceBusy:
		return "Camera is busy"
	case Unsupported:
		return "Video capture not supported"
	case Timeout:
		return "Camera did not start in time"
	case InsecureContext:
		return "Camera needs a local session"
	case Canceled:
		return "Image source request canceled"
	default:
		return "Image source unavailable"
	}
}

// Remediation tells the player what to do about it.
func (r Reason) Remediation() string {
	switch r {
	case PermissionDenied:
		return "Grant access to the video device (for example, join the 'video' group) and try again."
	case NoDevice:
		return "Connect a camera, pass --device, or play with --source pattern."
	case DeviceBusy:
		return "Close other applications that are using the camera and try again."
	case Unsupported:
		return "Install ffmpeg with v4l2 support, or choose another source."
	case Timeout:
		return "Check the device connection or raise source.timeout in the config."
	case InsecureContext:
		return "Camera capture is only allowed from a local terminal; set source.allow_remote_camera to override."
	case Canceled:
		return "Pick a level to open the source again."
	default:
		return "Try another source with --source."
	}
}

// constraintBound reports whether another constraint set might succeed
// where this one failed.
func (r Reason) constraintBound() bool {
	return r == Unsupported || r == Timeout || r == ReasonUnknown
}

// Failure is the error returned by providers when acquisition fails.
type Failure struct {
	Reason      Reason
	Constraints Constraints
	Err         error
}

// Fail builds a Failure.
func Fail(reason Reason, c Constraints, err error) *Failure {
	return &Failure{Reason: reason, Constraints: c, Err: err}
}

// ContextFailure wraps a context error: Canceled when the caller gave up,
// Timeout when a deadline passed.
func ContextFailure(c Constraints, err error) *Failure {
	if errors.Is(err, context.Canceled) {
		return Fail(Canceled, c, err)
	}
	return Fail(Timeout, c, err)
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return fmt.Sprintf("source: %s (%s)", f.Reason, f.Constraints)
	}
	return fmt.Sprintf("source: %s (%s): %v", f.Reason, f.Constraints, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Message is the text shown to the player: headline plus remediation.
func (f *Failure) Message() string {
	return f.Reason.Title() + ". " + f.Reason.Remediation()
}

// ReasonOf extracts the failure reason from an error chain.
// Context deadline errors map to Timeout and cancellation to Canceled.
func ReasonOf(err error) Reason {
	if err == nil {
		return ReasonUnknown
	}
	var f *Failure
	if errors.As(err, &f) {
		return f.Reason
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Timeout
	}
	if errors.Is(err, context.Canceled) {
		return Canceled
	}
	return ReasonUnknown
}

// MessageOf returns the player-facing text for any acquisition error.
func MessageOf(err error) string {
	var f *Failure
	if errors.As(err, &f) {
		return f.Message()
	}
	r := ReasonOf(err)
	return r.Title() + ". " + r.Remediation()
}
