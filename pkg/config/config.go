package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Version is the version of the tool, set at build time.
var Version string

// DefaultWorkspaceFile is the workspace file looked up in the current
// directory when no other location is given.
const DefaultWorkspaceFile = "coconut.yml"

// Environment variables consulted by FromEnv and Load.
const (
	EnvProviderURL    = "COCONUT_PROVIDER_URL"
	EnvWallet         = "COCONUT_WALLET"
	EnvWalletPassword = "COCONUT_WALLET_PASSWORD"
	EnvAddress        = "COCONUT_ADDRESS"
	EnvWorkspace      = "COCONUT_WORKSPACE"
)

var (
	// ErrNoCluster is returned by Validate when no RPC endpoint is configured.
	ErrNoCluster = errors.New("no cluster endpoint configured, set Provider.Cluster or " + EnvProviderURL)
	// ErrNoWallet is returned by Validate when no signer wallet is configured.
	ErrNoWallet = errors.New("no wallet configured, set Provider.Wallet or " + EnvWallet)
)

// Workspace is the top-level structure of the workspace file. It describes
// the connection to the ledger and the programs that can be called.
type Workspace struct {
	Provider Provider           `yaml:"Provider"`
	Programs map[string]Program `yaml:"Programs"`
	// NNSHash is the script hash of the name service contract used to
	// resolve Program.NNS entries.
	NNSHash string  `yaml:"NNSHash"`
	Logging Logging `yaml:"Logging"`

	// BasePath is the directory relative paths are resolved against. It's
	// the directory of the workspace file.
	BasePath string `yaml:"-"`
}

// Provider holds the cluster endpoint and signer credentials.
type Provider struct {
	Cluster        string        `yaml:"Cluster"`
	Wallet         string        `yaml:"Wallet"`
	Address        string        `yaml:"Address"`
	Password       string        `yaml:"Password"`
	DialTimeout    time.Duration `yaml:"DialTimeout"`
	RequestTimeout time.Duration `yaml:"RequestTimeout"`
}

// Program describes how to find a deployed program. Exactly one source is
// used, in this order: Hash, NNS, NEF+Manifest+Deployer.
type Program struct {
	Hash     string `yaml:"Hash"`
	NNS      string `yaml:"NNS"`
	NEF      string `yaml:"NEF"`
	Manifest string `yaml:"Manifest"`
	Deployer string `yaml:"Deployer"`
}

// Logging contains logger settings.
type Logging struct {
	LogLevel    string `yaml:"LogLevel"`
	LogPath     string `yaml:"LogPath"`
	LogEncoding string `yaml:"LogEncoding"`
}

// LoadFile reads the workspace from the given file. Unknown fields are
// treated as errors.
func LoadFile(path string) (Workspace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Workspace{}, fmt.Errorf("unable to read workspace file: %w", err)
	}
	ws := Workspace{}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&ws); err != nil {
		return Workspace{}, fmt.Errorf("failed to unmarshal workspace YAML: %w", err)
	}
	abs, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return Workspace{}, err
	}
	ws.BasePath = abs
	return ws, nil
}

// Load reads the workspace file and overlays the environment on top of it.
// If path is empty, COCONUT_WORKSPACE is used and then DefaultWorkspaceFile;
// a missing default file is not an error, the environment alone may be
// enough to run.
func Load(path string) (Workspace, error) {
	var explicit = path != ""
	if !explicit {
		path = os.Getenv(EnvWorkspace)
		explicit = path != ""
	}
	if !explicit {
		path = DefaultWorkspaceFile
	}
	ws, err := LoadFile(path)
	if err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return Workspace{}, err
		}
		ws = Workspace{}
		if wd, err := os.Getwd(); err == nil {
			ws.BasePath = wd
		}
	}
	ws.FromEnv(os.Getenv)
	return ws, nil
}

// FromEnv overrides provider settings with non-empty environment values.
func (w *Workspace) FromEnv(getenv func(string) string) {
	if v := getenv(EnvProviderURL); v != "" {
		w.Provider.Cluster = v
	}
	if v := getenv(EnvWallet); v != "" {
		w.Provider.Wallet = v
	}
	if v := getenv(EnvWalletPassword); v != "" {
		w.Provider.Password = v
	}
	if v := getenv(EnvAddress); v != "" {
		w.Provider.Address = v
	}
}

// ResolvePath makes the given path absolute using BasePath. Absolute and
// empty paths are returned as is.
func (w Workspace) ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) || w.BasePath == "" {
		return p
	}
	return filepath.Join(w.BasePath, p)
}

// Validate checks the workspace for consistency.
func (w Workspace) Validate() error {
	if err := w.Provider.Validate(); err != nil {
		return err
	}
	for name, p := range w.Programs {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("program %q: %w", name, err)
		}
		if p.Hash == "" && p.NNS != "" && w.NNSHash == "" {
			return fmt.Errorf("program %q: NNS lookup requires NNSHash", name)
		}
	}
	return nil
}

// Validate checks that the endpoint is set and uses a supported scheme.
func (p Provider) Validate() error {
	if p.Cluster == "" {
		return ErrNoCluster
	}
	u, err := url.Parse(p.Cluster)
	if err != nil {
		return fmt.Errorf("invalid cluster endpoint: %w", err)
	}
	switch u.Scheme {
	case "http", "https", "ws", "wss":
	default:
		return fmt.Errorf("invalid cluster endpoint %q: unsupported scheme %q", p.Cluster, u.Scheme)
	}
	if p.DialTimeout < 0 || p.RequestTimeout < 0 {
		return errors.New("negative provider timeout")
	}
	return nil
}

// IsWebSocket tells whether the cluster endpoint is a websocket one.
func (p Provider) IsWebSocket() bool {
	u, err := url.Parse(p.Cluster)
	return err == nil && (u.Scheme == "ws" || u.Scheme == "wss")
}

// Validate checks that at least one resolution source is present.
func (p Program) Validate() error {
	switch {
	case p.Hash != "", p.NNS != "":
		return nil
	case p.NEF != "" && p.Manifest != "" && p.Deployer != "":
		return nil
	case p.NEF != "" || p.Deployer != "":
		return errors.New("NEF, Manifest and Deployer must be set together")
	default:
		return errors.New("no Hash, NNS or NEF/Manifest/Deployer given")
	}
}
