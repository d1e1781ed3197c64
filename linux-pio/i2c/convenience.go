package i2c

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	// ErrBatchExhausted is returned by NextBatch when the pending batch holds less data than requested
	ErrBatchExhausted = errors.New("Batch read result exhausted")
)

// Device is a peripheral at a fixed address on a bus. Register reads are either done one by
// one, or in a single sequential read whose result is then consumed in order with NextBatch.
// A Device is not safe for concurrent use; the underlying Bus is.
type Device struct {
	bus     Transferer
	address uint16
	order   binary.ByteOrder
	pec     bool

	batch    []byte
	batchPos int
}

func (b *Bus) GetDevice(address uint16) *Device {
	return NewDevice(b, address)
}

// NewDevice creates a device on any Transferer. The byte order defaults to big endian.
func NewDevice(bus Transferer, address uint16) *Device {
	return &Device{
		bus:     bus,
		address: address,
		order:   binary.BigEndian,
	}
}

func (d *Device) Address() uint16 {
	return d.address
}

func (d *Device) ByteOrder() binary.ByteOrder {
	return d.order
}

func (d *Device) SetByteOrder(order binary.ByteOrder) {
	d.order = order
}

// EnablePEC turns on SMBus packet error checking for register reads
func (d *Device) EnablePEC(enable bool) {
	d.pec = enable
}

func (d *Device) Transfer(writeBuf []byte, readBuf []byte) error {
	return d.bus.Transfer(d.address, writeBuf, readBuf)
}

func (d *Device) WriteReg8(reg uint8, value uint8) error {
	write := []byte{reg, value}
	return d.Transfer(write, nil)
}

func (d *Device) ReadReg8(reg uint8) (uint8, error) {
	read, err := d.ReadRegister(reg, 1)
	if err != nil {
		return 0, err
	}
	return read[0], nil
}

// ReadRegister reads n bytes starting at reg
func (d *Device) ReadRegister(reg uint8, n int) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("invalid read length %d", n)
	}

	write := []byte{reg}
	readLen := n
	if d.pec {
		readLen++
	}
	if readLen > MaxMessageLen {
		return nil, ErrTooLong
	}

	read := make([]byte, readLen)
	err := d.Transfer(write, read)
	if err != nil {
		return nil, err
	}

	if d.pec {
		if err := d.checkPEC(reg, read); err != nil {
			return nil, err
		}
	}

	return read[:n], nil
}

// ReadSeq reads n consecutive bytes starting at reg in one transaction. The result replaces
// any pending batch and is handed out by NextBatch.
func (d *Device) ReadSeq(reg uint8, n int) error {
	d.batch = nil
	d.batchPos = 0

	read, err := d.ReadRegister(reg, n)
	if err != nil {
		return err
	}

	d.batch = read
	return nil
}

// NextBatch returns the next n bytes of the pending batch
func (d *Device) NextBatch(n int) ([]byte, error) {
	if n < 0 || d.batchPos+n > len(d.batch) {
		return nil, ErrBatchExhausted
	}

	result := d.batch[d.batchPos : d.batchPos+n]
	d.batchPos += n
	return result, nil
}

// BatchRemaining returns the amount of unconsumed bytes in the pending batch
func (d *Device) BatchRemaining() int {
	return len(d.batch) - d.batchPos
}
