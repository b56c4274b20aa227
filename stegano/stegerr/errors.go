package stegerr
import (
	"fmt"
)

/*
 * typed failures shared by the whole stegano pipeline.
 * every operation either finishes completely or aborts with one of these,
 * there is no partial result to hand back.
 */

// the caller supplied something we cannot work with.
type InputError struct {
	Msg	string
}

func(e *InputError) Error() string {
	return e.Msg
}

func Inputf( format string, args ...any ) *InputError {
	return &InputError{ fmt.Sprintf( format, args... ) }
}

// the carrier or container bytes do not match the expected layout.
type FormatError struct {
	Msg	string
}

func(e *FormatError) Error() string {
	return e.Msg
}

func Formatf( format string, args ...any ) *FormatError {
	return &FormatError{ fmt.Sprintf( format, args... ) }
}

// the payload does not fit into the carrier.
// both sizes are whole kilobytes, rounded up.
type CapacityError struct {
	RequiredKB	uint64
	AvailableKB	uint64
}

func(e *CapacityError) Error() string {
	return fmt.Sprintf("Payload requires %d KB but the carrier can hold only %d KB.",
		e.RequiredKB, e.AvailableKB )
}

func Capacity( requiredBits, availableBits uint64 ) *CapacityError {
	return &CapacityError{
		wholeKB( requiredBits ),
		wholeKB( availableBits ),
	}
}

func wholeKB( bits uint64 ) uint64 {
	byteCount := (bits + 7) / 8
	return (byteCount + 1023) / 1024
}

// a password problem or a failed authentication tag.
// the message never tells a wrong password apart from tampered data.
type AuthError struct {
	Msg	string
}

func(e *AuthError) Error() string {
	return e.Msg
}

func Auth() *AuthError {
	return &AuthError{"Decryption failed: wrong password or corrupted data."}
}

func AuthNoPassword() *AuthError {
	return &AuthError{"A password is required to extract this data."}
}
