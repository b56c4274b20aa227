package envelope
import (
	"bytes"
	"errors"
	"testing"

	"stegbox/stegano/stegerr"
)

func TestEmptyPasswordIsNoOp( t *testing.T ) {
	container := []byte("STEGv1 pretend container")
	wire, err := Encrypt( container, "" )
	if err != nil {
		t.Fatalf("Encrypt with empty password failed: %v", err)
	}
	if bytes.Equal( wire, container ) == false {
		t.Errorf("Empty password must leave the container untouched")
	}
}

func TestEncryptDecryptRoundTrip( t *testing.T ) {
	tests := [][]byte{
		[]byte("x"),
		[]byte("some packed container bytes"),
		bytes.Repeat( []byte{ 0xab }, 4096 ),
	}

	for _, container := range tests {
		wire, err := Encrypt( container, "correct horse battery staple" )
		if err != nil {
			t.Fatalf("Failed to encrypt: %v", err)
		}
		if bytes.Equal( wire[:MagicLen], Magic[:] ) == false {
			t.Fatalf("Envelope does not start with the magic")
		}
		if len(wire) != HeaderSize + len(container) {
			t.Errorf("Unexpected envelope size %d for %d byte container", len(wire), len(container))
		}

		plain, err := Decrypt( wire, "correct horse battery staple" )
		if err != nil {
			t.Fatalf("Failed to decrypt: %v", err)
		}
		if bytes.Equal( plain, container ) == false {
			t.Errorf("Envelope spoiled the data")
		}
	}
}

func TestFreshSaltAndIVPerCall( t *testing.T ) {
	container := []byte("same plaintext twice")
	first, err := Encrypt( container, "pw" )
	if err != nil {
		t.Fatalf("Failed to encrypt: %v", err)
	}
	second, err := Encrypt( container, "pw" )
	if err != nil {
		t.Fatalf("Failed to encrypt: %v", err)
	}
	if bytes.Equal( first[MagicLen:MagicLen+SaltSize], second[MagicLen:MagicLen+SaltSize] ) {
		t.Errorf("Salt was reused across calls")
	}
	if bytes.Equal( first[MagicLen+SaltSize:MagicLen+SaltSize+IVSize],
		second[MagicLen+SaltSize:MagicLen+SaltSize+IVSize] ) {
		t.Errorf("IV was reused across calls")
	}
}

func TestWrongPassword( t *testing.T ) {
	wire, err := Encrypt( []byte("secret"), "right" )
	if err != nil {
		t.Fatalf("Failed to encrypt: %v", err)
	}
	_, err = Decrypt( wire, "wrong" )
	var authErr *stegerr.AuthError
	if errors.As( err, &authErr ) == false {
		t.Errorf("Expected AuthError for a wrong password, got %v", err)
	}
}

func TestMissingPassword( t *testing.T ) {
	wire, err := Encrypt( []byte("secret"), "pw" )
	if err != nil {
		t.Fatalf("Failed to encrypt: %v", err)
	}
	_, err = Decrypt( wire, "" )
	var authErr *stegerr.AuthError
	if errors.As( err, &authErr ) == false {
		t.Errorf("Expected AuthError for a missing password, got %v", err)
	}
}

// flipping any byte of the tag or the ciphertext must surface as an
// authentication failure, never as corrupted plaintext.
func TestTamperDetection( t *testing.T ) {
	wire, err := Encrypt( []byte("the hidden message"), "pw" )
	if err != nil {
		t.Fatalf("Failed to encrypt: %v", err)
	}

	tagStart := MagicLen + SaltSize + IVSize
	for i := tagStart; i < len(wire); i++ {
		if i >= HeaderSize - 4 && i < HeaderSize {
			continue	// the length field is covered by format checks
		}
		tampered := bytes.Clone( wire )
		tampered[i] ^= 0x01

		_, err := Decrypt( tampered, "pw" )
		var authErr *stegerr.AuthError
		if errors.As( err, &authErr ) == false {
			t.Fatalf("Byte %d: expected AuthError after tampering, got %v", i, err)
		}
	}
}

func TestDecryptRejectsShortEnvelope( t *testing.T ) {
	_, err := Decrypt( Magic[:], "pw" )
	var formatErr *stegerr.FormatError
	if errors.As( err, &formatErr ) == false {
		t.Errorf("Expected FormatError for a short envelope, got %v", err)
	}
}

func TestDecryptRejectsLengthOverrun( t *testing.T ) {
	wire, err := Encrypt( []byte("secret"), "pw" )
	if err != nil {
		t.Fatalf("Failed to encrypt: %v", err)
	}
	wire[HeaderSize-4] = 0xff	// declared ciphertext length now runs past the buffer

	_, err = Decrypt( wire, "pw" )
	var formatErr *stegerr.FormatError
	if errors.As( err, &formatErr ) == false {
		t.Errorf("Expected FormatError for a ciphertext length overrun, got %v", err)
	}
}
