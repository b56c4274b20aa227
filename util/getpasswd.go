package util
import (
	"fmt"
	"syscall"
	"golang.org/x/term"
)

// read a password from the terminal without echoing it. the result is
// normalized so the same passphrase derives the same key everywhere.
func GetPasswd( prompt string ) (string, error) {
	fmt.Print( prompt )
	raw, err := term.ReadPassword( int(syscall.Stdin) )
	fmt.Println()
	if err != nil {
		return "", err
	}
	return FixUnicode( string(raw) ), nil
}
