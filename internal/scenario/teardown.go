package scenario

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"go.uber.org/zap"

	"uiHarness/internal/config"
)

const timestampLayout = "20060102_150405"

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Artifacts lists what Teardown kept on disk. Empty paths mean nothing was
// kept.
type Artifacts struct {
	Screenshot    string
	Trace         string
	Video         string
	ScreenshotErr error
}

// FileName turns a scenario name into a safe file-name stem.
func FileName(name string) string {
	s := unsafeNameChars.ReplaceAllString(name, "_")
	if s == "" || s == "_" {
		return "scenario"
	}
	return s
}

// Teardown captures diagnostics and releases the session. It runs on every
// exit path: before Setup, after a failed Setup, or after a normal run.
// With failed set it makes exactly one screenshot attempt. Release always
// happens, even if capture fails or panics. Later calls are no-ops.
func (c *Context) Teardown(failed bool, name string) (arts Artifacts) {
	if c.state == stateTornDown {
		return arts
	}
	stem := FileName(name) + "_" + c.now().Format(timestampLayout)

	session := c.session
	video := session.VideoPath()

	defer func() {
		c.state = stateTornDown
		c.registry = nil
		if err := c.manager.Close(session); err != nil {
			c.log.Warn("release session", zap.String("scenario", name), zap.Error(err))
		}
		arts.Video = c.finishVideo(video, failed)
	}()

	if session.Closed() {
		return arts
	}

	if failed {
		arts.Screenshot, arts.ScreenshotErr = c.captureScreenshot(stem)
		if arts.ScreenshotErr != nil {
			c.log.Warn("screenshot capture failed", zap.String("scenario", name), zap.Error(arts.ScreenshotErr))
		} else {
			c.log.Info("screenshot saved", zap.String("scenario", name), zap.String("path", arts.Screenshot))
		}
	}

	if session.Tracing() {
		arts.Trace = c.finishTrace(stem, failed)
	}
	return arts
}

func (c *Context) captureScreenshot(stem string) (string, error) {
	if err := os.MkdirAll(c.screenshotDir, 0o755); err != nil {
		return "", fmt.Errorf("%w: %w", ErrScreenshotCaptureFailed, err)
	}
	path := filepath.Join(c.screenshotDir, stem+".png")
	if err := c.session.Screenshot(path); err != nil {
		return "", fmt.Errorf("%w: %w", ErrScreenshotCaptureFailed, err)
	}
	return path, nil
}

func (c *Context) finishTrace(stem string, failed bool) string {
	if !c.exec.Trace.Keep(failed) {
		if err := c.session.StopTracing(""); err != nil {
			c.log.Warn("discard trace", zap.Error(err))
		}
		return ""
	}

	dir := filepath.Join(c.exec.ArtifactsDir, "traces")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		c.log.Warn("create trace dir", zap.Error(err))
		return ""
	}
	path := filepath.Join(dir, stem+".zip")
	if err := c.session.StopTracing(path); err != nil {
		c.log.Warn("save trace", zap.Error(err))
		return ""
	}
	return path
}

// finishVideo runs after release, when the recording is flushed.
func (c *Context) finishVideo(path string, failed bool) string {
	if path == "" || c.exec.Video == config.ModeOff {
		return ""
	}
	if c.exec.Video.Keep(failed) {
		return path
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		c.log.Warn("remove video", zap.String("path", path), zap.Error(err))
	}
	return ""
}
