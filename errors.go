package cellaudio

import (
	"errors"
	"fmt"

	"github.com/cbegin/cellaudio-go/internal/notify"
	"github.com/cbegin/cellaudio-go/internal/port"
)

// Error is a status code returned by the control API.
type Error uint32

const (
	ErrAlreadyInit    Error = 0x80310701
	ErrNotInit        Error = 0x80310702
	ErrParam          Error = 0x80310703
	ErrPortFull       Error = 0x80310704
	ErrPortAlreadyRun Error = 0x80310705
	ErrPortNotOpen    Error = 0x80310706
	ErrPortNotRun     Error = 0x80310707
	ErrTransEvent     Error = 0x80310708
	ErrPortOpen       Error = 0x80310709
	ErrEventQueue     Error = 0x8031070c
)

var errorNames = map[Error]string{
	ErrAlreadyInit:    "already initialized",
	ErrNotInit:        "not initialized",
	ErrParam:          "invalid parameter",
	ErrPortFull:       "no free port",
	ErrPortAlreadyRun: "port already running",
	ErrPortNotOpen:    "port not open",
	ErrPortNotRun:     "port not running",
	ErrTransEvent:     "event transfer failed",
	ErrPortOpen:       "port open",
	ErrEventQueue:     "event queue registration failed",
}

func (e Error) Error() string {
	if name, ok := errorNames[e]; ok {
		return fmt.Sprintf("cellaudio: %s (0x%08x)", name, uint32(e))
	}
	return fmt.Sprintf("cellaudio: error 0x%08x", uint32(e))
}

// Status returns the numeric code carried by err: 0 for nil, the Error value
// for control API failures and -1 for anything else.
func Status(err error) int32 {
	if err == nil {
		return 0
	}
	var e Error
	if errors.As(err, &e) {
		return int32(e)
	}
	return -1
}

// code maps an internal sentinel onto its status code.
func code(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, port.ErrParam):
		return ErrParam
	case errors.Is(err, port.ErrFull):
		return ErrPortFull
	case errors.Is(err, port.ErrNotOpen):
		return ErrPortNotOpen
	case errors.Is(err, port.ErrAlreadyRun):
		return ErrPortAlreadyRun
	case errors.Is(err, port.ErrNotRun):
		return ErrPortNotRun
	case errors.Is(err, notify.ErrDuplicate), errors.Is(err, notify.ErrNotFound):
		return ErrParam
	}
	return err
}
