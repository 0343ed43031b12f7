// Debounced keypoint preview driven by the extractor parameters
package preview

import (
	"fmt"
	"image"
	"image/color"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"live-parameter-overlay/internal/core"
)

const orbPatchSize = 31

// Result is one rendered preview.
type Result struct {
	Image     image.Image
	Keypoints int
	Took      time.Duration
}

// Pipeline re-renders the frame a short delay after the last trigger.
type Pipeline struct {
	mu     sync.Mutex
	logger logrus.FieldLogger
	frame  gocv.Mat
	delay  time.Duration
	timer  *time.Timer
	closed bool

	onPreview func(Result)
	onError   func(error)
}

// NewPipeline takes ownership of frame.
func NewPipeline(frame gocv.Mat, delay time.Duration, logger logrus.FieldLogger) *Pipeline {
	return &Pipeline{
		logger: logger,
		frame:  frame,
		delay:  delay,
	}
}

// SetCallbacks sets the preview and error callbacks. They run on a
// timer goroutine.
func (p *Pipeline) SetCallbacks(onPreview func(Result), onError func(error)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onPreview = onPreview
	p.onError = onError
}

// SetFrame replaces the preview frame, taking ownership of frame.
func (p *Pipeline) SetFrame(frame gocv.Mat) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		frame.Close()
		return
	}
	p.frame.Close()
	p.frame = frame
}

// Trigger schedules a render with settings, replacing any pending one.
func (p *Pipeline) Trigger(settings core.ORBSettings) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	if p.timer != nil {
		p.timer.Stop()
	}
	p.logger.WithField("delay_ms", p.delay.Milliseconds()).Debug("Scheduling preview")
	p.timer = time.AfterFunc(p.delay, func() { p.process(settings) })
}

func (p *Pipeline) process(settings core.ORBSettings) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	result, err := Render(p.frame, settings)
	if err != nil {
		p.logger.WithError(err).Error("Preview failed")
		if p.onError != nil {
			p.onError(err)
		}
		return
	}
	p.logger.WithFields(logrus.Fields{
		"keypoints": result.Keypoints,
		"took_ms":   result.Took.Milliseconds(),
	}).Debug("Preview rendered")
	if p.onPreview != nil {
		p.onPreview(result)
	}
}

// Stop cancels a pending render and releases the frame.
func (p *Pipeline) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	if p.timer != nil {
		p.timer.Stop()
	}
	p.frame.Close()
}

// Render detects ORB keypoints on frame and draws them when requested.
func Render(frame gocv.Mat, s core.ORBSettings) (Result, error) {
	start := time.Now()
	if frame.Empty() {
		return Result{}, fmt.Errorf("empty frame")
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(frame, &gray, gocv.ColorBGRToGray)

	orb := gocv.NewORBWithParams(
		s.Features,
		s.ScaleFactor,
		s.Levels,
		s.EdgeThreshold,
		0,
		2,
		gocv.ORBScoreTypeHarris,
		orbPatchSize,
		s.FastThreshold,
	)
	defer orb.Close()
	keypoints := orb.Detect(gray)

	out := gocv.NewMat()
	defer out.Close()
	if s.ShowKeypoints {
		gocv.DrawKeyPoints(frame, keypoints, &out, color.RGBA{G: 255, A: 255}, gocv.DrawDefault)
	} else {
		frame.CopyTo(&out)
	}

	img, err := out.ToImage()
	if err != nil {
		return Result{}, fmt.Errorf("convert preview: %w", err)
	}
	return Result{Image: img, Keypoints: len(keypoints), Took: time.Since(start)}, nil
}
