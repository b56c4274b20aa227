package main
import (
	"os"
	"fmt"
	"path/filepath"
	"encoding/json"

	"stegbox/util"
	"stegbox/local"
	"stegbox/config"
	"stegbox/stegano"
	"stegbox/cryptography"
	"stegbox/stegano/payload"
	"stegbox/stegano/analysis"
)

func main() {

	if len( os.Args ) < 2 || os.Args[1] == "-h" || os.Args[1] == "--help" {
		help()
		return
	}

	switch os.Args[1] {
	case "embed":
		if err := runEmbed( os.Args[2:] ); err != nil {
			fatal( "Failed to embed:", err )
		}
	case "extract":
		if err := runExtract( os.Args[2:] ); err != nil {
			fatal( "Failed to extract:", err )
		}
	case "analyze":
		if err := runAnalyze( os.Args[2:] ); err != nil {
			fatal( "Failed to analyze:", err )
		}
	case "serve":
		if err := runServe( os.Args[2:] ); err != nil {
			fatal( "Failed to run the local api server:", err )
		}
	default:
		help()
	}
}

func runEmbed( args []string ) error {
	if len(args) < 2 {
		return fmt.Errorf("Usage: stegbox embed <decoy> <output> [--text <msg>] [--file <path>]")
	}
	decoyFile, outFile := args[0], args[1]

	items := []payload.SecretItem{}
	for i := 2; i + 1 < len(args); i += 2 {
		switch args[i] {
		case "--text":
			items = append( items, payload.SecretItem{
				Kind: payload.KindText,
				Name: "message.txt",
				Mime: "text/plain",
				Data: []byte( util.FixUnicode( args[i+1] ) ),
			})
		case "--file":
			data, err := os.ReadFile( args[i+1] )
			if err != nil {
				return err
			}
			items = append( items, payload.SecretItem{
				Kind: payload.KindFile,
				Name: filepath.Base( args[i+1] ),
				Mime: "application/octet-stream",
				Data: data,
			})
		default:
			return fmt.Errorf("Unknown option %q.", args[i])
		}
	}

	decoy, err := os.ReadFile( decoyFile )
	if err != nil {
		return err
	}
	password, err := util.GetPasswd("Password (empty for no encryption): ")
	if err != nil {
		return err
	}

	result, err := stegano.Embed( decoy, stegano.DetectKind( decoy ), items, password )
	if err != nil {
		return err
	}
	if err = os.WriteFile( outFile, result, 0600 ); err != nil {
		return err
	}
	fmt.Println( "Wrote", util.HumanSize( int64(len(result)) ), "to", outFile )
	return nil
}

func runExtract( args []string ) error {
	if len(args) < 1 {
		return fmt.Errorf("Usage: stegbox extract <carrier> [output-dir]")
	}
	outDir := "."
	if len(args) > 1 {
		outDir = args[1]
	}

	carrier, err := os.ReadFile( args[0] )
	if err != nil {
		return err
	}
	password, err := util.GetPasswd("Password (empty if none was used): ")
	if err != nil {
		return err
	}

	items, err := stegano.Extract( carrier, stegano.DetectKind( carrier ), password )
	if err != nil {
		return err
	}

	for _, item := range items {
		name := item.Name
		if name == "" {
			name = "item-" + util.GenID()
		}
		outFile := filepath.Join( outDir, filepath.Base( name ) )
		if err = os.WriteFile( outFile, item.Data, 0600 ); err != nil {
			return err
		}
		fmt.Printf( "%s\t%s\t%s\tsha512=%s\n",
			item.Kind, outFile, util.HumanSize( int64(len(item.Data)) ),
			cryptography.Hash( item.Data )[:16] )
	}
	return nil
}

func runAnalyze( args []string ) error {
	if len(args) < 1 {
		return fmt.Errorf("Usage: stegbox analyze <carrier>")
	}
	carrier, err := os.ReadFile( args[0] )
	if err != nil {
		return err
	}
	samples, err := stegano.CarrierSamples( carrier )
	if err != nil {
		return err
	}
	report := analysis.Analyze( samples )
	out, err := json.MarshalIndent( report, "", "\t" )
	if err != nil {
		return err
	}
	fmt.Println( string(out) )
	return nil
}

func runServe( args []string ) error {
	conf := config.DefaultConfig()
	if len(args) > 0 {
		var key []byte
		if len(args) > 1 && args[1] == "--encrypted" {
			password, err := util.GetPasswd("Config password: ")
			if err != nil {
				return err
			}
			salt, err := os.ReadFile( args[0] + ".salt" )
			if err != nil {
				return err
			}
			key = cryptography.DeriveKey( []byte(password), salt )
		}
		loaded, err := config.LoadConfig( args[0], key )
		if err != nil {
			return err
		}
		conf = loaded
	}

	logger := util.NewLogger( &conf.Logger )
	return local.RunApiServer( &conf.Server, logger )
}

func help() {
	fmt.Println(`stegbox - hide data inside images and audio recordings

Usage:
	stegbox embed <decoy> <output> [--text <msg>] [--file <path>]
	stegbox extract <carrier> [output-dir]
	stegbox analyze <carrier>
	stegbox serve [config.yaml] [--encrypted]

Carriers: PNG and BMP images, uncompressed 8/16-bit PCM WAV audio.
Analysis also understands FLAC. A non-empty password wraps the hidden
data in an authenticated encryption envelope.`)
}

func fatal( args ...any ) {
	fmt.Fprintln( os.Stderr, args... )
	os.Exit( 1 )
}
