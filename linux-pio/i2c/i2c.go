package i2c

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"
)

var (
	// ErrClosed is returned when using a bus that was closed or never opened, or when closing it twice
	ErrClosed = errors.New("I2C bus is closed")
	// ErrTooLong is returned for messages that do not fit in a single i2c-dev message
	ErrTooLong = errors.New("I2C message too long")
)

// MaxMessageLen is the largest buffer a single message can carry
const MaxMessageLen = 0xffff

// Transferer performs combined write/read transactions to an address on a bus
type Transferer interface {
	Transfer(address uint16, writeBuf []byte, readBuf []byte) error
}

// Bus is a Linux i2c-dev adapter. It is safe for concurrent use. Only a Bus returned by
// OpenBus is usable; the zero value behaves as a closed bus.
type Bus struct {
	mutex sync.Mutex
	fd    int
	open  bool
}

// OpenBus opens /dev/i2c-<busID>
func OpenBus(busID int) (*Bus, error) {
	fd, err := unix.Open(fmt.Sprintf("/dev/i2c-%d", busID), unix.O_RDWR|unix.O_NOCTTY|unix.O_CLOEXEC, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open I2C bus %d: %w", busID, err)
	}

	return &Bus{fd: fd, open: true}, nil
}

const (
	i2cFlagRead uint16  = 1
	i2cRdWr     uintptr = 0x00000707
)

type i2cMsg struct {
	Address uint16
	Flags   uint16
	Len     uint16
	Buf     uintptr
}

type i2cRdWrData struct {
	Messages    uintptr
	NumMessages uint32
}

// Transfer writes writeBuf and then reads readBuf in a single transaction (repeated start).
// Either buffer may be nil.
func (b *Bus) Transfer(address uint16, writeBuf []byte, readBuf []byte) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if !b.open {
		return ErrClosed
	}
	if len(writeBuf) > MaxMessageLen || len(readBuf) > MaxMessageLen {
		return ErrTooLong
	}

	var transfer []i2cMsg
	if len(writeBuf) > 0 {
		transfer = append(transfer, i2cMsg{
			Address: address,
			Len:     uint16(len(writeBuf)),
			Buf:     uintptr(unsafe.Pointer(&writeBuf[0])),
		})
	}
	if len(readBuf) > 0 {
		transfer = append(transfer, i2cMsg{
			Address: address,
			Flags:   i2cFlagRead,
			Len:     uint16(len(readBuf)),
			Buf:     uintptr(unsafe.Pointer(&readBuf[0])),
		})
	}

	if len(transfer) == 0 {
		// A succesful, albeit useless, transfer
		return nil
	}

	param := i2cRdWrData{
		Messages:    uintptr(unsafe.Pointer(&transfer[0])),
		NumMessages: uint32(len(transfer)),
	}

	_, _, errNo := unix.Syscall(unix.SYS_IOCTL, uintptr(b.fd), i2cRdWr, uintptr(unsafe.Pointer(&param)))

	runtime.KeepAlive(transfer)
	runtime.KeepAlive(writeBuf)
	runtime.KeepAlive(readBuf)

	if errNo != 0 {
		return fmt.Errorf("I2C transfer to 0x%02x failed: %w", address, errNo)
	}

	return nil
}

// Close releases the bus. Devices obtained from it stop working.
func (b *Bus) Close() error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if !b.open {
		return ErrClosed
	}
	b.open = false

	return unix.Close(b.fd)
}
