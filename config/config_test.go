package config
import (
	"os"
	"testing"
	"path/filepath"

	"stegbox/cryptography"
)

func TestSaveAndLoadConfig( t *testing.T ) {
	conf := DefaultConfig()
	conf.Server.Address = "127.0.0.1:9999"
	conf.Server.Workers = 7

	filename := filepath.Join( t.TempDir(), "config.yaml" )
	if err := SaveConfig( filename, nil, conf ); err != nil {
		t.Fatalf("Failed to save configuration: %v", err)
	}
	loaded, err := LoadConfig( filename, nil )
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}
	if loaded.Server.Address != conf.Server.Address || loaded.Server.Workers != conf.Server.Workers {
		t.Errorf("Configuration changed across save/load: %+v != %+v", loaded.Server, conf.Server)
	}
}

func TestSaveAndLoadEncryptedConfig( t *testing.T ) {
	key, err := cryptography.GenRandom( cryptography.SymKeySize )
	if err != nil {
		t.Fatalf("Failed to generate key: %v", err)
	}

	conf := DefaultConfig()
	conf.Server.QueueSize = 42
	filename := filepath.Join( t.TempDir(), "config.enc" )
	if err := SaveConfig( filename, key, conf ); err != nil {
		t.Fatalf("Failed to save encrypted configuration: %v", err)
	}

	// the file on disk must not be readable yaml
	raw, err := os.ReadFile( filename )
	if err != nil {
		t.Fatalf("Failed to read file back: %v", err)
	}
	if len(raw) > 0 && raw[0] == 's' {	// "server:" would mean plaintext
		t.Errorf("Encrypted configuration looks like plaintext")
	}

	loaded, err := LoadConfig( filename, key )
	if err != nil {
		t.Fatalf("Failed to load encrypted configuration: %v", err)
	}
	if loaded.Server.QueueSize != 42 {
		t.Errorf("[CRITICAL] Configuration was changed during encryption/decryption")
	}
}

func TestEnvOverride( t *testing.T ) {
	conf := DefaultConfig()
	filename := filepath.Join( t.TempDir(), "config.yaml" )
	if err := SaveConfig( filename, nil, conf ); err != nil {
		t.Fatalf("Failed to save configuration: %v", err)
	}

	t.Setenv( "STEGBOX_ADDRESS", "0.0.0.0:1234" )
	loaded, err := LoadConfig( filename, nil )
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}
	if loaded.Server.Address != "0.0.0.0:1234" {
		t.Errorf("Environment override was ignored, got %q", loaded.Server.Address)
	}
}
