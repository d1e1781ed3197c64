package registerpoll

import (
	"errors"
	"fmt"

	"github.com/BertoldVdb/go-i2creading/i2creading"
)

var (
	// ErrUnknownType is returned by ChannelFor for an unsupported register type
	ErrUnknownType = errors.New("Unknown register type")
	// ErrRegisterRange is returned by ChannelFor for a register outside 0x00-0xff
	ErrRegisterRange = errors.New("Register out of range")
)

// Channel is a named register reading with its value widened to int64
type Channel interface {
	Name() string
	Register() uint8
	Size() int
	Update() error
	Sample() (int64, error)
}

type channel[T i2creading.Value] struct {
	name    string
	reading *i2creading.Reading[T]
}

// NewChannel wraps a reading as a Channel
func NewChannel[T i2creading.Value](name string, reading *i2creading.Reading[T]) Channel {
	return &channel[T]{name: name, reading: reading}
}

func (c *channel[T]) Name() string {
	return c.name
}

func (c *channel[T]) Register() uint8 {
	return c.reading.Register()
}

func (c *channel[T]) Size() int {
	return c.reading.Size()
}

func (c *channel[T]) Update() error {
	return c.reading.Update()
}

func (c *channel[T]) Sample() (int64, error) {
	v, err := c.reading.Get()
	return int64(v), err
}

// ChannelConfig describes a channel in a configuration file
type ChannelConfig struct {
	Name     string `mapstructure:"name"`
	Register int    `mapstructure:"register"`
	Type     string `mapstructure:"type"`
}

// ChannelFor creates the channel described by cfg on dev
func ChannelFor(dev i2creading.Device, cfg ChannelConfig) (Channel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	reg := uint8(cfg.Register)
	switch cfg.Type {
	case "uint8":
		return NewChannel(cfg.Name, i2creading.New[uint8](dev, reg)), nil
	case "int8":
		return NewChannel(cfg.Name, i2creading.New[int8](dev, reg)), nil
	case "uint16":
		return NewChannel(cfg.Name, i2creading.New[uint16](dev, reg)), nil
	case "int16":
		return NewChannel(cfg.Name, i2creading.New[int16](dev, reg)), nil
	case "uint32":
		return NewChannel(cfg.Name, i2creading.New[uint32](dev, reg)), nil
	case "int32":
		return NewChannel(cfg.Name, i2creading.New[int32](dev, reg)), nil
	}

	return nil, fmt.Errorf("channel %q: %w: %q", cfg.Name, ErrUnknownType, cfg.Type)
}

// Validate checks that the register fits in a register address
func (cfg ChannelConfig) Validate() error {
	if cfg.Register < 0 || cfg.Register > 0xff {
		return fmt.Errorf("channel %q: %w: %d", cfg.Name, ErrRegisterRange, cfg.Register)
	}
	return nil
}
