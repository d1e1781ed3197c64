// Package registerpoll reads a contiguous block of registers with one sequential read and
// distributes the result over the readings in that block.
package registerpoll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BertoldVdb/go-i2creading/i2creading"
	"github.com/sirupsen/logrus"
)

var (
	// ErrNoChannels is returned when creating a poller without channels
	ErrNoChannels = errors.New("No channels configured")
	// ErrNotContiguous is returned when the channels do not form a gapless register block
	ErrNotContiguous = errors.New("Channels do not form a contiguous register block")
)

// BatchDevice is a device that can read a register block in one transaction
type BatchDevice interface {
	i2creading.Device
	ReadSeq(reg uint8, n int) error
}

// Sample is one channel value from a cycle
type Sample struct {
	Name     string
	Register uint8
	Value    int64
}

// Poller reads a register block and hands out its channel values
type Poller struct {
	dev      BatchDevice
	log      *logrus.Entry
	channels []Channel

	start  uint8
	length int
}

// New creates a poller. The channels must be ordered by register and cover the block
// without gaps, since the batch result is consumed in order.
func New(dev BatchDevice, log *logrus.Entry, channels ...Channel) (*Poller, error) {
	if len(channels) == 0 {
		return nil, ErrNoChannels
	}

	p := &Poller{
		dev:      dev,
		log:      log.WithField("prefix", "registerpoll"),
		channels: channels,
		start:    channels[0].Register(),
	}

	next := int(p.start)
	for _, c := range channels {
		if int(c.Register()) != next {
			return nil, fmt.Errorf("%w: %s at 0x%02x, expected 0x%02x", ErrNotContiguous, c.Name(), c.Register(), next)
		}
		next += c.Size()
		p.length += c.Size()
	}
	if next > 256 {
		return nil, fmt.Errorf("%w: block ends past register 0xff", ErrNotContiguous)
	}

	return p, nil
}

// Cycle reads the whole block and returns the value of every channel. When an update
// fails, channels updated earlier in the same cycle are drained so none is left cached.
func (p *Poller) Cycle() ([]Sample, error) {
	err := p.dev.ReadSeq(p.start, p.length)
	if err != nil {
		return nil, fmt.Errorf("batch read of %d bytes at 0x%02x failed: %w", p.length, p.start, err)
	}

	for i, c := range p.channels {
		if err := c.Update(); err != nil {
			for _, updated := range p.channels[:i] {
				updated.Sample()
			}
			return nil, fmt.Errorf("update of %s failed: %w", c.Name(), err)
		}
	}

	samples := make([]Sample, 0, len(p.channels))
	for _, c := range p.channels {
		value, err := c.Sample()
		if err != nil {
			return nil, fmt.Errorf("get of %s failed: %w", c.Name(), err)
		}
		samples = append(samples, Sample{
			Name:     c.Name(),
			Register: c.Register(),
			Value:    value,
		})
	}

	return samples, nil
}

// Run calls Cycle every interval until ctx is done. Failed cycles are logged and skipped.
func (p *Poller) Run(ctx context.Context, interval time.Duration, sink func([]Sample)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	p.log.WithFields(logrus.Fields{
		"start":    fmt.Sprintf("0x%02x", p.start),
		"length":   p.length,
		"interval": interval,
	}).Info("Polling started")

	for ctx.Err() == nil {
		samples, err := p.Cycle()
		if err != nil {
			p.log.WithError(err).Warn("Poll cycle failed")
		} else if sink != nil {
			sink(samples)
		}

		select {
		case <-ctx.Done():
		case <-ticker.C:
		}
	}

	p.log.Info("Polling stopped")
	return nil
}
