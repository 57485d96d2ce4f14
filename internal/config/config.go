package config

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/taiwon1/sprint3/internal/storage"
)

const EnvPrefix = "SPRINT3"

// Keys shared by command-line flags, environment variables and config files.
const (
	KeyConfig         = "config"
	KeyPort           = "port"
	KeyDBURL          = "db-url"
	KeyPublicKey      = "public-key"
	KeyLogLevel       = "log-level"
	KeyLogFormat      = "log-format"
	KeyRequestTimeout = "request-timeout"
	KeyStorage        = "storage"
	KeyUploadDir      = "upload-dir"
	KeyMinioEndpoint  = "minio-endpoint"
	KeyMinioAccessKey = "minio-access-key"
	KeyMinioSecretKey = "minio-secret-key"
	KeyMinioBucket    = "minio-bucket"
	KeyMinioSSL       = "minio-ssl"
)

const (
	StorageDisk  = "disk"
	StorageMinio = "minio"
)

const publicKeyPEMBlock = "RSA PUBLIC KEY"

type Config struct {
	Port           int
	DBURL          string
	PublicKeyURL   string
	LogLevel       string
	LogFormat      string
	RequestTimeout time.Duration
	Storage        string
	UploadDir      string
	Minio          storage.MinioConfig
}

// New returns a viper instance reading SPRINT3_* environment variables, with
// dashes in keys mapped to underscores.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetDefault(KeyPort, 8080)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyRequestTimeout, 15*time.Second)
	v.SetDefault(KeyStorage, StorageDisk)
	v.SetDefault(KeyUploadDir, "uploads")
	v.SetDefault(KeyMinioBucket, "sprint3-images")
	return v
}

// ReadFile merges the config file named by the "config" key, if any.
func ReadFile(v *viper.Viper) error {
	file := v.GetString(KeyConfig)
	if file == "" {
		return nil
	}
	v.SetConfigFile(file)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

func Load(v *viper.Viper) (cfg Config, err error) {
	if err = ReadFile(v); err != nil {
		return
	}
	cfg = Config{
		Port:           v.GetInt(KeyPort),
		DBURL:          v.GetString(KeyDBURL),
		PublicKeyURL:   v.GetString(KeyPublicKey),
		LogLevel:       v.GetString(KeyLogLevel),
		LogFormat:      v.GetString(KeyLogFormat),
		RequestTimeout: v.GetDuration(KeyRequestTimeout),
		Storage:        v.GetString(KeyStorage),
		UploadDir:      v.GetString(KeyUploadDir),
		Minio: storage.MinioConfig{
			Endpoint:        v.GetString(KeyMinioEndpoint),
			AccessKeyID:     v.GetString(KeyMinioAccessKey),
			SecretAccessKey: v.GetString(KeyMinioSecretKey),
			Bucket:          v.GetString(KeyMinioBucket),
			UseSSL:          v.GetBool(KeyMinioSSL),
		},
	}
	err = cfg.Validate()
	return
}

func (cfg Config) Validate() error {
	var errs []error
	if cfg.DBURL == "" {
		errs = append(errs, fmt.Errorf("%s is required", KeyDBURL))
	}
	if cfg.Port < 0 || cfg.Port > 65535 {
		errs = append(errs, fmt.Errorf("%s must be between 0 and 65535", KeyPort))
	}
	if cfg.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive", KeyRequestTimeout))
	}
	switch cfg.Storage {
	case StorageDisk:
		if cfg.UploadDir == "" {
			errs = append(errs, fmt.Errorf("%s is required for disk storage", KeyUploadDir))
		}
	case StorageMinio:
		if cfg.Minio.Endpoint == "" {
			errs = append(errs, fmt.Errorf("%s is required for minio storage", KeyMinioEndpoint))
		}
		if cfg.Minio.Bucket == "" {
			errs = append(errs, fmt.Errorf("%s is required for minio storage", KeyMinioBucket))
		}
	default:
		errs = append(errs, fmt.Errorf("%s must be %q or %q", KeyStorage, StorageDisk, StorageMinio))
	}
	if cfg.PublicKeyURL != "" {
		if _, err := publicKeyPath(cfg.PublicKeyURL); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func publicKeyPath(rawURL string) (string, error) {
	publicKeyURL, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s as URL: %w", KeyPublicKey, err)
	}
	if publicKeyURL.Scheme != "file" {
		return "", fmt.Errorf("unsupported public key source: %q (only file:// URLs are supported)", publicKeyURL.Scheme)
	}
	if publicKeyURL.Path == "" {
		return "", fmt.Errorf("public key url cannot have an empty path")
	}
	return publicKeyURL.Path, nil
}

// LoadPublicKey reads the PEM encoded PKCS #1 key the token verifier uses.
// It returns nil when no key is configured.
func (cfg Config) LoadPublicKey() (publicKey *rsa.PublicKey, err error) {
	if cfg.PublicKeyURL == "" {
		return
	}
	filePath, err := publicKeyPath(cfg.PublicKeyURL)
	if err != nil {
		return
	}
	pemBytes, err := os.ReadFile(filePath)
	if err != nil {
		err = fmt.Errorf("failed to read public key: %w", err)
		return
	}
	pemBlock, _ := pem.Decode(pemBytes)
	if pemBlock == nil {
		err = fmt.Errorf("public key file does not contain PEM data")
		return
	}
	if pemBlock.Type != publicKeyPEMBlock {
		err = fmt.Errorf("invalid public key of type %s", pemBlock.Type)
		return
	}
	publicKey, err = x509.ParsePKCS1PublicKey(pemBlock.Bytes)
	return
}
