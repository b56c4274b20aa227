package cryptography
import (
	"bytes"
	"testing"
)

func TestEncryptDecrypt( t *testing.T ) {
	tests := [][]byte{
		[]byte("short"),
		bytes.Repeat( []byte("config data "), 100 ),
	}
	key, err := GenRandom( SymKeySize )
	if err != nil {
		t.Fatalf("Failed to generate key: %v", err)
	}

	for _, data := range tests {
		ct, err := Encrypt( data, key )
		if err != nil {
			t.Fatalf("Failed to encrypt: %v", err)
		}
		pt, err := Decrypt( ct, key )
		if err != nil {
			t.Fatalf("Failed to decrypt: %v", err)
		}
		if bytes.Equal( pt, data ) == false {
			t.Errorf("Encryption round trip spoiled the data")
		}
	}
}

func TestDecryptWithWrongKey( t *testing.T ) {
	key, _ := GenRandom( SymKeySize )
	otherKey, _ := GenRandom( SymKeySize )

	ct, err := Encrypt( []byte("the config"), key )
	if err != nil {
		t.Fatalf("Failed to encrypt: %v", err)
	}
	if _, err = Decrypt( ct, otherKey ); err == nil {
		t.Errorf("Decryption with the wrong key must fail")
	}
}

func TestInvalidKeySize( t *testing.T ) {
	if _, err := Encrypt( []byte("x"), []byte("short key") ); err == nil {
		t.Errorf("Encrypt must reject a short key")
	}
	if _, err := Decrypt( []byte("x"), []byte("short key") ); err == nil {
		t.Errorf("Decrypt must reject a short key")
	}
}

func TestDeriveKeyIsDeterministic( t *testing.T ) {
	salt, _ := GenRandom( SaltSize )
	first := DeriveKey( []byte("password"), salt )
	second := DeriveKey( []byte("password"), salt )
	if bytes.Equal( first, second ) == false {
		t.Errorf("The same password and salt must derive the same key")
	}
	if len(first) != SymKeySize {
		t.Errorf("Derived key has size %d, expected %d", len(first), SymKeySize)
	}
}

func TestHash( t *testing.T ) {
	if Hash( nil ) != "" {
		t.Errorf("Hash of nil must be empty")
	}
	h := Hash( []byte("data") )
	if len(h) != 128 {	// sha512 in hex
		t.Errorf("Unexpected hash length %d", len(h))
	}
	if h != Hash( []byte("data") ) {
		t.Errorf("Hash must be deterministic")
	}
}
