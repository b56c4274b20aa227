package util
import (
	"fmt"
	"golang.org/x/text/unicode/norm"
)

// different platforms produce different byte sequences for the same
// typed characters, nfc gives us one canonical form.
func FixUnicode( in string ) string {
	return norm.NFC.String( in )
}

func HumanSize( byteCount int64 ) string {
	suffixes := []string{ "B", "KiB", "MiB", "GiB" }
	size := float64( byteCount )
	i := 0
	for size >= 1024.0 && i < len(suffixes) - 1 {
		size /= 1024.0
		i++
	}
	return fmt.Sprintf("%.1f %s", size, suffixes[i])
}
