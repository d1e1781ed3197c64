// Package i2creading provides typed accessors for single registers on an I2C device.
// A reading either returns a value that was sliced out of a previous batched read,
// or fetches the register from the device on demand.
package i2creading

import (
	"bytes"
	"encoding/binary"
)

// Value lists the register widths a Reading can decode.
type Value interface {
	~uint8 | ~int8 | ~uint16 | ~int16 | ~uint32 | ~int32 | ~uint64 | ~int64
}

// Device is the bus abstraction a Reading gets its data from. It owns the actual
// transactions, addressing and byte order.
type Device interface {
	// NextBatch returns the next n bytes of the result of a previously issued
	// batched (sequential) read.
	NextBatch(n int) ([]byte, error)

	// ReadRegister performs an immediate read of n bytes at reg.
	ReadRegister(reg uint8, n int) ([]byte, error)

	// ByteOrder is used to convert raw register bytes into values.
	ByteOrder() binary.ByteOrder
}

// Reading is a cached accessor for one register. It does not own the device and is
// not safe for concurrent use.
type Reading[T Value] struct {
	dev      Device
	register uint8

	value  T
	cached bool
}

// New creates a reading of register reg on dev. No I/O is performed.
func New[T Value](dev Device, reg uint8) *Reading[T] {
	return &Reading[T]{
		dev:      dev,
		register: reg,
	}
}

// Update takes this reading's slice out of the device's pending batch result.
// The device must have completed a batched read covering this register before.
// On error the previous state is kept.
func (r *Reading[T]) Update() error {
	raw, err := r.dev.NextBatch(r.Size())
	if err != nil {
		return err
	}

	value, err := r.decode(raw)
	if err != nil {
		return err
	}

	r.value = value
	r.cached = true
	return nil
}

// Get returns the value stored by the last Update, at most once. When no such value
// is pending the register is read from the device.
func (r *Reading[T]) Get() (T, error) {
	if r.cached {
		r.cached = false
		return r.value, nil
	}

	raw, err := r.dev.ReadRegister(r.register, r.Size())
	if err != nil {
		var zero T
		return zero, err
	}
	return r.decode(raw)
}

// Register returns the register address of the reading.
func (r *Reading[T]) Register() uint8 {
	return r.register
}

// Size returns the number of bytes the reading occupies on the device.
func (r *Reading[T]) Size() int {
	var zero T
	return binary.Size(zero)
}

// Cached reports whether the next Get will be served without I/O.
func (r *Reading[T]) Cached() bool {
	return r.cached
}

func (r *Reading[T]) decode(raw []byte) (T, error) {
	var value T
	err := binary.Read(bytes.NewReader(raw), r.dev.ByteOrder(), &value)
	return value, err
}
