package util
import (
	"github.com/google/uuid"

	"stegbox/cryptography"
)

func GenID() string {
	return uuid.NewString()
}

func GenSalt() ([]byte, error) {
	return cryptography.GenRandom( cryptography.SaltSize )
}
