package xbee

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameter mirrors CSInvalidParameter: the local or
	// remote radio rejected an AT command's parameter value.
	ErrInvalidParameter = errors.New("xbee: invalid parameter")

	// ErrResponse mirrors CSError: the radio returned a generic error
	// status for an AT command.
	ErrResponse = errors.New("xbee: generic error response")

	// ErrTXFailure mirrors CSTxFailure: the radio could not deliver a
	// remote AT command or transmit request to its destination.
	ErrTXFailure = errors.New("xbee: TX failure")

	// ErrWrongFrameType is returned by ParseReceived and friends when a
	// frame handed to them carries the wrong API type for the parser
	// that was asked to decode it.
	ErrWrongFrameType = errors.New("xbee: unexpected frame type")

	// ErrShortFrame marks a frame payload too short to contain the
	// fields its type requires.
	ErrShortFrame = errors.New("xbee: frame too short")
)

// ErrInvalidCommand reports CSInvalidCommand together with the command
// name the radio rejected.
type ErrInvalidCommand ATCommand

func (e ErrInvalidCommand) Error() string {
	return fmt.Sprintf("xbee: invalid command %s", ATCommand(e).String())
}

// CommandStatusError translates a CommandStatus into the matching
// sentinel/named error, or nil for CSOK.
func CommandStatusError(cmd ATCommand, status CommandStatus) error {
	switch status {
	case CSOK:
		return nil
	case CSError:
		return ErrResponse
	case CSInvalidCommand:
		return ErrInvalidCommand(cmd)
	case CSInvalidParameter:
		return ErrInvalidParameter
	case CSTxFailure:
		return ErrTXFailure
	}
	return fmt.Errorf("xbee: unknown command status %d", byte(status))
}
