/*
Package provider implements the connection context used by all commands: an
RPC client for the configured cluster endpoint bundled with an unlocked
signer account and an actor built for it.
*/
package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/coconut-rwa/coconut/pkg/config"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"go.uber.org/zap"
)

// RPC is the client interface Provider needs, both rpcclient.Client and
// rpcclient.WSClient implement it.
type RPC interface {
	actor.RPCActor
	Close()
}

// PasswordFunc is used to ask for the account password when it's not
// configured.
type PasswordFunc func(prompt string) (string, error)

// Options are optional Open parameters.
type Options struct {
	// Logger is used for connection diagnostics, zap.NewNop is used if nil.
	Logger *zap.Logger
	// Password is called if the account is encrypted and no password is
	// configured. Encrypted accounts can't be unlocked without either.
	Password PasswordFunc
}

// Provider is an established connection to the ledger with a signer account.
type Provider struct {
	endpoint string
	rpc      RPC
	acc      *wallet.Account
	act      *actor.Actor
}

var errNoPassword = errors.New("account is encrypted and no password is available")

// Open loads and unlocks the signer account, connects to the cluster and
// creates an actor for it. Network failures are returned as ConnectionError.
func Open(ctx context.Context, cfg config.Provider, opts Options) (*Provider, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	acc, err := UnlockAccount(cfg, opts.Password)
	if err != nil {
		return nil, err
	}
	log.Debug("signer account unlocked", zap.String("address", acc.Address))

	c, err := Dial(ctx, cfg)
	if err != nil {
		return nil, err
	}
	log.Debug("connected to cluster", zap.String("endpoint", cfg.Cluster))

	p, err := New(cfg.Cluster, c, acc)
	if err != nil {
		c.Close()
		return nil, err
	}
	return p, nil
}

// New creates a Provider from an already established RPC connection. It
// doesn't close c on failure.
func New(endpoint string, c RPC, acc *wallet.Account) (*Provider, error) {
	if acc.Contract == nil {
		return nil, fmt.Errorf("empty contract for account %s", acc.Address)
	}
	act, err := actor.NewSimple(c, acc)
	if err != nil {
		return nil, &ConnectionError{Endpoint: endpoint, Err: err}
	}
	return &Provider{
		endpoint: endpoint,
		rpc:      c,
		acc:      acc,
		act:      act,
	}, nil
}

// Dial connects to the cluster endpoint and performs the initial version
// request. Websocket endpoints get a WSClient which allows event-based
// transaction awaiting.
func Dial(ctx context.Context, cfg config.Provider) (RPC, error) {
	opts := rpcclient.Options{
		DialTimeout:    cfg.DialTimeout,
		RequestTimeout: cfg.RequestTimeout,
	}
	if cfg.IsWebSocket() {
		c, err := rpcclient.NewWS(ctx, cfg.Cluster, rpcclient.WSOptions{Options: opts})
		if err != nil {
			return nil, &ConnectionError{Endpoint: cfg.Cluster, Err: err}
		}
		if err := c.Init(); err != nil {
			c.Close()
			return nil, &ConnectionError{Endpoint: cfg.Cluster, Err: err}
		}
		return c, nil
	}
	c, err := rpcclient.New(ctx, cfg.Cluster, opts)
	if err != nil {
		return nil, &ConnectionError{Endpoint: cfg.Cluster, Err: err}
	}
	if err := c.Init(); err != nil {
		c.Close()
		return nil, &ConnectionError{Endpoint: cfg.Cluster, Err: err}
	}
	return c, nil
}

// UnlockAccount opens the configured wallet and returns the signer account
// ready to sign transactions. Provider.Address picks the account, the wallet
// default one is used otherwise.
func UnlockAccount(cfg config.Provider, pass PasswordFunc) (*wallet.Account, error) {
	if cfg.Wallet == "" {
		return nil, config.ErrNoWallet
	}
	w, err := wallet.NewWalletFromFile(cfg.Wallet)
	if err != nil {
		return nil, fmt.Errorf("can't open wallet: %w", err)
	}

	var addr util.Uint160
	if cfg.Address != "" {
		addr, err = ParseAddress(cfg.Address)
		if err != nil {
			return nil, fmt.Errorf("invalid signer address: %w", err)
		}
	} else {
		addr = w.GetChangeAddress()
		if addr.Equals(util.Uint160{}) {
			return nil, errors.New("can't get default address")
		}
	}

	acc := w.GetAccount(addr)
	if acc == nil {
		return nil, fmt.Errorf("wallet contains no account for '%s'", address.Uint160ToString(addr))
	}
	if acc.CanSign() || acc.EncryptedWIF == "" {
		return acc, nil
	}

	password := cfg.Password
	if password == "" {
		if pass == nil {
			return nil, errNoPassword
		}
		password, err = pass(fmt.Sprintf("Enter account %s password > ", acc.Address))
		if err != nil {
			return nil, fmt.Errorf("error reading password: %w", err)
		}
		password = strings.TrimRight(password, "\n")
	}
	if err := acc.Decrypt(password, w.Scrypt); err != nil {
		return nil, fmt.Errorf("can't unlock account %s: %w", acc.Address, err)
	}
	return acc, nil
}

// ParseAddress parses a Uint160 from either an LE string or an address.
func ParseAddress(s string) (util.Uint160, error) {
	const uint160size = 2 * util.Uint160Size
	switch len(s) {
	case uint160size, uint160size + 2:
		return util.Uint160DecodeStringLE(strings.TrimPrefix(s, "0x"))
	default:
		return address.StringToUint160(s)
	}
}

// Actor returns the actor signing with the provider account.
func (p *Provider) Actor() *actor.Actor {
	return p.act
}

// Sender returns the signer account script hash.
func (p *Provider) Sender() util.Uint160 {
	return p.act.Sender()
}

// Endpoint returns the cluster endpoint the provider is connected to.
func (p *Provider) Endpoint() string {
	return p.endpoint
}

// Close releases the connection.
func (p *Provider) Close() {
	p.rpc.Close()
}
