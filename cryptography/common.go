package cryptography
import (
	"fmt"
	"crypto/rand"
	"crypto/sha512"
	"encoding/hex"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

/*
 * symmetric primitives for files at rest: the configuration and the
 * encrypted log. the wire envelope is a different animal, its cipher
 * and kdf are pinned by the container format over in stegano/envelope.
 */

const (
	argonTime = 3
	argonMemory = 64 * 1024
	// fixed so a config written on one machine decrypts on another
	argonThreads = 4
)

// xchacha20-poly1305 with a random nonce prepended to the ciphertext.
func Encrypt( data, key []byte ) ([]byte, error) {
	if len(key) != SymKeySize {
		return nil, fmt.Errorf("Invalid key size %d.", len(key))
	}
	aead, err := chacha20poly1305.NewX( key )
	if err != nil {
		return nil, err
	}
	nonce := make( []byte, aead.NonceSize() )
	if _, err := rand.Read( nonce ); err != nil {
		return nil, err
	}
	return append( nonce, aead.Seal( nil, nonce, data, nil )... ), nil
}

func Decrypt( data, key []byte ) ([]byte, error) {
	if len(key) != SymKeySize {
		return nil, fmt.Errorf("Invalid key size %d.", len(key))
	}
	if len(data) < NonceSize {
		return nil, fmt.Errorf("Data is too short to hold a nonce.")
	}
	aead, err := chacha20poly1305.NewX( key )
	if err != nil {
		return nil, err
	}
	nonce := data[:NonceSize]
	return aead.Open( nil, nonce, data[NonceSize:], nil )
}

// derive a file encryption key from a password.
func DeriveKey( password, salt []byte ) []byte {
	return argon2.IDKey( password, salt, argonTime, argonMemory, argonThreads, SymKeySize )
}

func GenRandom( size uint ) ([]byte, error) {
	if size == 0 {
		return nil, fmt.Errorf("Invalid size of random data.")
	}
	data := make( []byte, size )
	if _, err := rand.Read( data ); err != nil {
		return nil, err
	}
	return data, nil
}

// hex encoded sha512, used to fingerprint recovered items.
func Hash( data []byte ) string {
	if data == nil {
		return ""
	}
	hash := sha512.Sum512( data )
	return hex.EncodeToString( hash[:] )
}
