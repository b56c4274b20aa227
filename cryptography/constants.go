package cryptography
import (
	"golang.org/x/crypto/chacha20poly1305"
)

const (
	SymKeySize = 32
	SaltSize = 16
	NonceSize = chacha20poly1305.NonceSizeX
)
