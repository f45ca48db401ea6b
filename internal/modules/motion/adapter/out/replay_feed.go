package out

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"parkwatch/internal/modules/motion/domain"
	motionout "parkwatch/internal/modules/motion/port/out"
	apperrors "parkwatch/internal/platform/errors"
)

const defaultReplayRate = 100.0

// ReplayScript is a recorded or hand written drive:
//
//	rate_hz: 100
//	readings:
//	  - {x: 2.5, y: 0.5, vx: 0.001, repeat: 3}
//	  - {x: 2.5, y: 0.5, vx: 0.0001}
//
// Readings without a stamp are stamped from their position in the stream.
type ReplayScript struct {
	RateHz   float64      `yaml:"rate_hz"`
	Readings []ReplayStep `yaml:"readings"`
}

type ReplayStep struct {
	X      float64  `yaml:"x"`
	Y      float64  `yaml:"y"`
	VX     float64  `yaml:"vx"`
	VY     float64  `yaml:"vy"`
	Stamp  *float64 `yaml:"stamp"`
	Repeat int      `yaml:"repeat"`
}

// ReplayFeed plays a script at its configured rate and then ends.
type ReplayFeed struct {
	script ReplayScript
}

func LoadReplayScript(path string) (ReplayScript, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return ReplayScript{}, fmt.Errorf("%w: read replay script: %v", apperrors.ErrInvalidConfig, err)
	}
	script := ReplayScript{}
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)
	if err := decoder.Decode(&script); err != nil {
		return ReplayScript{}, fmt.Errorf("%w: decode replay script: %v", apperrors.ErrInvalidConfig, err)
	}
	if script.RateHz < 0 {
		return ReplayScript{}, fmt.Errorf("%w: replay rate_hz must not be negative", apperrors.ErrInvalidConfig)
	}
	if script.RateHz == 0 {
		script.RateHz = defaultReplayRate
	}
	return script, nil
}

func NewReplayFeed(script ReplayScript) motionout.Feed {
	if script.RateHz <= 0 {
		script.RateHz = defaultReplayRate
	}
	return &ReplayFeed{script: script}
}

// Expand unrolls repeats and fills in missing stamps.
func (s ReplayScript) Expand() []domain.Reading {
	period := time.Duration(float64(time.Second) / s.RateHz)
	var out []domain.Reading
	for _, step := range s.Readings {
		n := step.Repeat
		if n < 1 {
			n = 1
		}
		for k := 0; k < n; k++ {
			r := domain.Reading{X: step.X, Y: step.Y, VX: step.VX, VY: step.VY, HasStamp: true}
			if step.Stamp != nil && k == 0 {
				r.Stamp = domain.StampFromSeconds(*step.Stamp)
			} else if len(out) > 0 {
				r.Stamp = out[len(out)-1].Stamp + period
			}
			out = append(out, r)
		}
	}
	return out
}

func (f *ReplayFeed) Run(ctx context.Context, sink func(domain.Reading)) error {
	readings := f.script.Expand()
	if len(readings) == 0 {
		return nil
	}
	ticker := time.NewTicker(time.Duration(float64(time.Second) / f.script.RateHz))
	defer ticker.Stop()
	for _, r := range readings {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			sink(r)
		}
	}
	return nil
}
