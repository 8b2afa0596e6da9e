package config

// Wallet is a wallet location with its password, the format of files passed
// with --wallet-config.
type Wallet struct {
	Path     string `yaml:"Path"`
	Password string `yaml:"Password"`
}
