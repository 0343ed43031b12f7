// Tunable settings of the feature viewer, declared into a parameter registry
package core

import (
	"errors"

	"live-parameter-overlay/internal/param"
)

// Defaults of the declared settings.
const (
	DefaultFeatures      = 1000
	DefaultScaleFactor   = float32(1.2)
	DefaultLevels        = 8
	DefaultEdgeThreshold = 31
	DefaultFastThreshold = 20
	DefaultThreshold     = float32(1.0)
	DefaultMinInliers    = 15
	DefaultConsistency   = 3.0

	// ORB's per-level feature split divides by zero at a scale factor of 1.
	MinScaleFactor = float32(1.01)
)

// ORBSettings is a snapshot of the extractor parameters.
type ORBSettings struct {
	Features      int
	ScaleFactor   float32
	Levels        int
	EdgeThreshold int
	FastThreshold int
	ShowKeypoints bool
}

// Settings owns the viewer's parameters.
type Settings struct {
	UseViewer     *param.Parameter[bool]
	ShowKeypoints *param.Parameter[bool]
	ResetDefaults *param.Parameter[bool]

	Features      *param.Parameter[int]
	ScaleFactor   *param.Parameter[float32]
	Levels        *param.Parameter[int]
	EdgeThreshold *param.Parameter[int]
	FastThreshold *param.Parameter[int]

	Threshold  *param.Parameter[float32]
	MinInliers *param.Parameter[int]

	LoopClosing *param.Parameter[bool]
	Consistency *param.Parameter[float64]

	onExtractorChanged func()
	resets             int
}

// Declare registers every setting in reg. onExtractorChanged runs whenever
// a parameter that affects keypoint extraction changes.
func Declare(reg *param.Registry, onExtractorChanged func()) (*Settings, error) {
	s := &Settings{onExtractorChanged: onExtractorChanged}
	extractor := s.extractorChanged

	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}
	var err error

	s.UseViewer, err = param.NewToggle(reg, param.GroupMain, "UseViewer", true, true, nil)
	collect(err)
	s.ShowKeypoints, err = param.NewToggle(reg, param.GroupMain, "ShowKeypoints", true, true, extractor)
	collect(err)
	s.ResetDefaults, err = param.NewToggle(reg, param.GroupMain, "ResetDefaults", false, false, s.onResetPressed)
	collect(err)

	s.Features, err = param.NewBounded(reg, param.GroupORBExtractor, "Features", DefaultFeatures, 100, 5000, extractor)
	collect(err)
	s.ScaleFactor, err = param.NewBounded(reg, param.GroupORBExtractor, "ScaleFactor", DefaultScaleFactor, MinScaleFactor, 2.0, extractor)
	collect(err)
	s.Levels, err = param.NewBounded(reg, param.GroupORBExtractor, "Levels", DefaultLevels, 1, 12, extractor)
	collect(err)
	s.EdgeThreshold, err = param.NewBounded(reg, param.GroupORBExtractor, "EdgeThreshold", DefaultEdgeThreshold, 1, 64, extractor)
	collect(err)
	s.FastThreshold, err = param.NewText(reg, param.GroupORBExtractor, "FastThreshold", DefaultFastThreshold, extractor)
	collect(err)

	s.Threshold, err = param.NewBounded(reg, param.GroupTracking, "Threshold", DefaultThreshold, 0, 5, nil)
	collect(err)
	s.MinInliers, err = param.NewText(reg, param.GroupTracking, "MinInliers", DefaultMinInliers, nil)
	collect(err)

	s.LoopClosing, err = param.NewToggle(reg, param.GroupLoopClosing, "Enabled", true, true, nil)
	collect(err)
	s.Consistency, err = param.NewText(reg, param.GroupLoopClosing, "Consistency", DefaultConsistency, nil)
	collect(err)

	if err := errors.Join(errs...); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Settings) extractorChanged() {
	if s.onExtractorChanged != nil {
		s.onExtractorChanged()
	}
}

// onResetPressed reacts to the momentary button and lowers it again.
func (s *Settings) onResetPressed() {
	if !s.ResetDefaults.Value() {
		return
	}
	s.Reset()
	s.ResetDefaults.SetValue(false)
}

// Reset restores every default through the code path.
func (s *Settings) Reset() {
	s.resets++
	s.UseViewer.SetValue(true)
	s.ShowKeypoints.SetValue(true)
	s.Features.SetValue(DefaultFeatures)
	s.ScaleFactor.SetValue(DefaultScaleFactor)
	s.Levels.SetValue(DefaultLevels)
	s.EdgeThreshold.SetValue(DefaultEdgeThreshold)
	s.FastThreshold.SetValue(DefaultFastThreshold)
	s.Threshold.SetValue(DefaultThreshold)
	s.MinInliers.SetValue(DefaultMinInliers)
	s.LoopClosing.SetValue(true)
	s.Consistency.SetValue(DefaultConsistency)
}

// Resets returns how many times the defaults were restored.
func (s *Settings) Resets() int {
	return s.resets
}

// ORB snapshots the extractor settings.
func (s *Settings) ORB() ORBSettings {
	return ORBSettings{
		Features:      s.Features.Value(),
		ScaleFactor:   s.ScaleFactor.Value(),
		Levels:        s.Levels.Value(),
		EdgeThreshold: s.EdgeThreshold.Value(),
		FastThreshold: s.FastThreshold.Value(),
		ShowKeypoints: s.ShowKeypoints.Value(),
	}
}

// Close releases every declared parameter.
func (s *Settings) Close() {
	for _, p := range s.entries() {
		p.Release()
	}
}

type releaser interface{ Release() }

func (s *Settings) entries() []releaser {
	var all []releaser
	add := func(r releaser, ok bool) {
		if ok {
			all = append(all, r)
		}
	}
	add(s.UseViewer, s.UseViewer != nil)
	add(s.ShowKeypoints, s.ShowKeypoints != nil)
	add(s.ResetDefaults, s.ResetDefaults != nil)
	add(s.Features, s.Features != nil)
	add(s.ScaleFactor, s.ScaleFactor != nil)
	add(s.Levels, s.Levels != nil)
	add(s.EdgeThreshold, s.EdgeThreshold != nil)
	add(s.FastThreshold, s.FastThreshold != nil)
	add(s.Threshold, s.Threshold != nil)
	add(s.MinInliers, s.MinInliers != nil)
	add(s.LoopClosing, s.LoopClosing != nil)
	add(s.Consistency, s.Consistency != nil)
	return all
}
