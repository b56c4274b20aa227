package envelope
import (
	"bytes"
	"crypto/aes"
	"crypto/rand"
	"crypto/cipher"
	"encoding/binary"
	"golang.org/x/crypto/scrypt"

	"stegbox/stegano/stegerr"
)

/*
 * the encrypted wrapper around a packed container:
 *	"ENCv1"(5) | salt(16) | iv(12) | tag(16) | cipherLen:u32 BE(4) | ciphertext
 * key = scrypt( password, salt, 32 bytes ), cipher = AES-256-GCM.
 * salt and iv are generated fresh on every call, never reused.
 */

const (
	MagicLen = 5
	SaltSize = 16
	IVSize = 12
	TagSize = 16
	KeySize = 32
	HeaderSize = MagicLen + SaltSize + IVSize + TagSize + 4	// 53 bytes

	// scrypt cost parameters, pinned by the wire format.
	scryptN = 16384
	scryptR = 8
	scryptP = 1
)

var (
	Magic = [MagicLen]byte{ 'E', 'N', 'C', 'v', '1' }
)

func deriveKey( password string, salt []byte ) ([]byte, error) {
	return scrypt.Key( []byte(password), salt, scryptN, scryptR, scryptP, KeySize )
}

// Encrypt wraps a packed container. an empty password means no envelope
// at all, the container goes onto the wire as is.
func Encrypt( container []byte, password string ) ([]byte, error) {
	if password == "" {
		return container, nil
	}

	salt := make( []byte, SaltSize )
	if _, err := rand.Read( salt ); err != nil {
		return nil, err
	}
	iv := make( []byte, IVSize )
	if _, err := rand.Read( iv ); err != nil {
		return nil, err
	}

	key, err := deriveKey( password, salt )
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher( key )
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM( block )
	if err != nil {
		return nil, err
	}

	// Seal appends the tag after the ciphertext, the wire format
	// stores it in the header instead.
	sealed := gcm.Seal( nil, iv, container, nil )
	ciphertext := sealed[ : len(sealed) - TagSize ]
	tag := sealed[ len(sealed) - TagSize : ]

	buf := bytes.NewBuffer( nil )
	buf.Write( Magic[:] )
	buf.Write( salt )
	buf.Write( iv )
	buf.Write( tag )
	lenField := make( []byte, 4 )
	binary.BigEndian.PutUint32( lenField, uint32(len(ciphertext)) )
	buf.Write( lenField )
	buf.Write( ciphertext )
	return buf.Bytes(), nil
}

// Decrypt unwraps an envelope. a failed tag check and a wrong password
// are deliberately indistinguishable to the caller.
func Decrypt( env []byte, password string ) ([]byte, error) {
	if password == "" {
		return nil, stegerr.AuthNoPassword()
	}
	if len(env) < HeaderSize {
		return nil, stegerr.Formatf("Envelope is too short to hold a header.")
	}
	if bytes.Equal( env[:MagicLen], Magic[:] ) == false {
		return nil, stegerr.Formatf("Envelope magic mismatch.")
	}

	salt := env[ MagicLen : MagicLen + SaltSize ]
	iv := env[ MagicLen + SaltSize : MagicLen + SaltSize + IVSize ]
	tag := env[ MagicLen + SaltSize + IVSize : MagicLen + SaltSize + IVSize + TagSize ]
	cipherLen := binary.BigEndian.Uint32( env[ HeaderSize - 4 : HeaderSize ] )
	if uint64(HeaderSize) + uint64(cipherLen) > uint64(len(env)) {
		return nil, stegerr.Formatf("Declared ciphertext length %d runs past the envelope.", cipherLen )
	}
	ciphertext := env[ HeaderSize : HeaderSize + int(cipherLen) ]

	key, err := deriveKey( password, salt )
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher( key )
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM( block )
	if err != nil {
		return nil, err
	}

	sealed := make( []byte, 0, len(ciphertext) + TagSize )
	sealed = append( sealed, ciphertext... )
	sealed = append( sealed, tag... )
	container, err := gcm.Open( nil, iv, sealed, nil )
	if err != nil {
		return nil, stegerr.Auth()
	}
	return container, nil
}
