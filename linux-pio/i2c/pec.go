package i2c

import (
	"errors"

	"github.com/sigurn/crc8"
)

var (
	// ErrPEC is returned when the packet error code sent by the device does not match the data
	ErrPEC = errors.New("SMBus PEC mismatch")
)

var pecTable = crc8.MakeTable(crc8.CRC8)

// pecRead computes the SMBus PEC of a register read: write address, command, read address, data.
func pecRead(address uint16, reg uint8, data []byte) uint8 {
	header := []byte{byte(address << 1), reg, byte(address<<1) | 1}

	crc := crc8.Init(pecTable)
	crc = crc8.Update(crc, header, pecTable)
	crc = crc8.Update(crc, data, pecTable)
	return crc8.Complete(crc, pecTable)
}

// checkPEC verifies read, which holds the data followed by the PEC byte
func (d *Device) checkPEC(reg uint8, read []byte) error {
	data := read[:len(read)-1]
	if pecRead(d.address, reg, data) != read[len(read)-1] {
		return ErrPEC
	}
	return nil
}
