package util
import (
	"os"
	"sync"
	"time"
	"encoding/base64"

	"stegbox/cryptography"
)

/*
 * a small leveled file logger. the log file can optionally be kept
 * encrypted on disk, the key is derived once when the logger is built.
 */
const (
	Error = 1
	Warning = 2
	Info = 4

	RedColor = "\033[31m"
	YellowColor = "\033[33m"
	CyanColor = "\033[36m"
	ResetColor = "\033[0m"
)

type LoggerInfo struct {
	Filename	string		`yaml:"filename"`
	Password	string		`yaml:"password"`
	Salt		string		`yaml:"salt"`		// base64, required for encrypted logs
	IsEncrypted	bool		`yaml:"is_encrypted"`
	IsColored	bool		`yaml:"is_colored"`
	SaveTime	bool		`yaml:"save_time"`
	Mode		uint8		`yaml:"mode"`
}

type Logger struct {
	li	*LoggerInfo
	key	[]byte
	mtx	sync.Mutex
}

func NewLogger( li *LoggerInfo ) *Logger {
	l := &Logger{ li: li }
	if li.IsEncrypted && li.Password != "" {
		salt, err := base64.StdEncoding.DecodeString( li.Salt )
		if err == nil && len(salt) > 0 {
			l.key = cryptography.DeriveKey( []byte(li.Password), salt )
		}
	}
	return l
}

func(l *Logger) colorize( line string, color string ) string {
	if l.li.IsColored {
		return color + line + ResetColor
	}
	return line
}

func(l *Logger) prepareString( str string, clr string ) string {
	toWrite := l.colorize( str, clr ) + " "
	if l.li.SaveTime {
		toWrite += time.Now().Format( time.RFC3339 ) + " "
	}
	return toWrite
}

func(l *Logger) LogString( s string ) {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	if l.key == nil {
		// plaintext log, just append the line
		f, err := os.OpenFile( l.li.Filename, os.O_APPEND | os.O_CREATE | os.O_WRONLY, 0600 )
		if err == nil {
			defer f.Close()
			f.WriteString( s + "\n" )
		}
		return
	}

	// encrypted log: decrypt, append, encrypt again.
	currentLog := []byte{}
	data, err := os.ReadFile( l.li.Filename )
	if err == nil && len(data) > 0 {
		currentLog, err = cryptography.Decrypt( data, l.key )
		if err != nil {
			return	// never write over a log we cannot read
		}
	}
	currentLog = append( currentLog, []byte(s + "\n")... )
	newData, err := cryptography.Encrypt( currentLog, l.key )
	if err == nil {
		os.WriteFile( l.li.Filename, newData, 0600 )
	}
}

func(l *Logger) LogError( err error ) {
	if l.li.Mode & Error == Error {
		l.LogString( l.prepareString( "[ERROR]", RedColor ) + err.Error() )
	}
}

func(l *Logger) LogWarning( warning string ) {
	if l.li.Mode & Warning == Warning {
		l.LogString( l.prepareString( "[WARNING]", YellowColor ) + warning )
	}
}

func(l *Logger) LogInfo( info string ) {
	if l.li.Mode & Info == Info {
		l.LogString( l.prepareString( "[INFO]", CyanColor ) + info )
	}
}
