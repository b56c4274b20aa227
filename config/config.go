package config
import (
	"os"
	"gopkg.in/yaml.v3"
	"github.com/caarlos0/env/v11"

	"stegbox/util"
	"stegbox/cryptography"
)

/*
 * configuration of the local api server and the logger. kept in yaml,
 * optionally encrypted at rest. environment variables override the
 * server section so containerized deployments need no config file edit.
 */

type ServerConfig struct {
	Address		string	`yaml:"address" env:"STEGBOX_ADDRESS"`
	MaxUploadBytes	int64	`yaml:"max_upload_bytes" env:"STEGBOX_MAX_UPLOAD_BYTES"`
	Workers		uint	`yaml:"workers" env:"STEGBOX_WORKERS"`
	QueueSize	uint	`yaml:"queue_size" env:"STEGBOX_QUEUE_SIZE"`
	AllowedOrigin	string	`yaml:"allowed_origin" env:"STEGBOX_ALLOWED_ORIGIN"`
}

type FullConfig struct {
	Server	ServerConfig	`yaml:"server"`
	Logger	util.LoggerInfo	`yaml:"logger"`
}

func DefaultConfig() *FullConfig {
	return &FullConfig{
		Server: ServerConfig{
			Address: "127.0.0.1:8642",
			MaxUploadBytes: 64 * 1024 * 1024,
			Workers: 4,
			QueueSize: 16,
			AllowedOrigin: "*",
		},
		Logger: util.LoggerInfo{
			Filename: "stegbox.log",
			IsColored: true,
			SaveTime: true,
			Mode: util.Error | util.Warning | util.Info,
		},
	}
}

/*
 * loading and saving, with optional at-rest encryption. a nil key means
 * the file is stored as plain yaml.
 */
func LoadConfig( filename string, key []byte ) (*FullConfig, error) {
	data, err := LoadEncrypted( filename, key )
	if err != nil {
		return nil, err
	}

	var conf FullConfig
	if err := yaml.Unmarshal( data, &conf ); err != nil {
		return nil, err
	}
	if err := env.Parse( &conf.Server ); err != nil {
		return nil, err
	}
	return &conf, nil
}

func SaveConfig( filename string, key []byte, c *FullConfig ) error {
	data, err := yaml.Marshal( *c )
	if err != nil {
		return err
	}
	return SaveEncrypted( filename, key, data )
}

func LoadEncrypted( filename string, key []byte ) ([]byte, error) {
	data, err := os.ReadFile( filename )
	if err != nil {
		return nil, err
	}
	if key != nil && len(key) == cryptography.SymKeySize {
		return cryptography.Decrypt( data, key )
	}
	return data, nil
}

func SaveEncrypted( filename string, key, data []byte ) error {
	var err error
	if key != nil && len(key) == cryptography.SymKeySize {
		data, err = cryptography.Encrypt( data, key )
		if err != nil {
			return err
		}
	}
	return os.WriteFile( filename, data, 0600 )
}
