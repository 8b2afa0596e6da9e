/*
Package workspace implements the program registry: it maps program names
from the workspace file to deployed contract hashes and their manifests.
*/
package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/coconut-rwa/coconut/pkg/config"
	"github.com/coconut-rwa/coconut/pkg/program"
	"github.com/coconut-rwa/coconut/pkg/provider"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/nns"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// ErrUnknownProgram is returned for names missing from the workspace.
var ErrUnknownProgram = errors.New("unknown program")

// Workspace is a read-only program registry.
type Workspace struct {
	cfg config.Workspace
}

// New creates a registry for the given workspace configuration.
func New(cfg config.Workspace) *Workspace {
	return &Workspace{cfg: cfg}
}

// Names returns sorted names of all known programs.
func (w *Workspace) Names() []string {
	names := make([]string, 0, len(w.cfg.Programs))
	for name := range w.cfg.Programs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Program resolves the named program and binds it to the given actor.
func (w *Workspace) Program(name string, act program.Actor) (*program.Program, error) {
	h, m, err := w.Resolve(name, act)
	if err != nil {
		return nil, err
	}
	return program.New(name, h, m, act), nil
}

// Resolve returns the script hash of the named program and its manifest if
// the workspace has one. The invoker is only used for NNS lookups.
func (w *Workspace) Resolve(name string, inv program.Invoker) (util.Uint160, *manifest.Manifest, error) {
	entry, ok := w.cfg.Programs[name]
	if !ok {
		return util.Uint160{}, nil, fmt.Errorf("%w: %s (known: %s)", ErrUnknownProgram, name, strings.Join(w.Names(), ", "))
	}
	if err := entry.Validate(); err != nil {
		return util.Uint160{}, nil, fmt.Errorf("program %s: %w", name, err)
	}

	var m *manifest.Manifest
	if entry.Manifest != "" {
		var err error
		m, err = ReadManifest(w.cfg.ResolvePath(entry.Manifest))
		if err != nil {
			return util.Uint160{}, nil, fmt.Errorf("program %s: %w", name, err)
		}
	}

	var (
		h   util.Uint160
		err error
	)
	switch {
	case entry.Hash != "":
		h, err = provider.ParseAddress(entry.Hash)
		if err != nil {
			err = fmt.Errorf("invalid hash: %w", err)
		}
	case entry.NNS != "":
		h, err = w.resolveNNS(entry.NNS, inv)
	default:
		h, err = w.deployedHash(entry, m)
	}
	if err != nil {
		return util.Uint160{}, nil, fmt.Errorf("program %s: %w", name, err)
	}
	return h, m, nil
}

// resolveNNS reads the TXT record of the domain which is expected to contain
// the contract hash or address.
func (w *Workspace) resolveNNS(domain string, inv program.Invoker) (util.Uint160, error) {
	if inv == nil {
		return util.Uint160{}, errors.New("NNS lookup requires a connection")
	}
	nnsHash, err := provider.ParseAddress(w.cfg.NNSHash)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("invalid NNSHash: %w", err)
	}
	rec, err := unwrap.UTF8String(inv.Call(nnsHash, "resolve", domain, int64(nns.TXT)))
	if err != nil {
		return util.Uint160{}, fmt.Errorf("can't resolve %s: %w", domain, err)
	}
	h, err := provider.ParseAddress(strings.TrimSpace(rec))
	if err != nil {
		return util.Uint160{}, fmt.Errorf("bad %s TXT record %q: %w", domain, rec, err)
	}
	return h, nil
}

// deployedHash derives the hash the contract gets when deployed by the
// configured sender.
func (w *Workspace) deployedHash(entry config.Program, m *manifest.Manifest) (util.Uint160, error) {
	sender, err := provider.ParseAddress(entry.Deployer)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("invalid deployer: %w", err)
	}
	raw, err := os.ReadFile(w.cfg.ResolvePath(entry.NEF))
	if err != nil {
		return util.Uint160{}, fmt.Errorf("can't read NEF: %w", err)
	}
	nf, err := nef.FileFromBytes(raw)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("can't parse NEF: %w", err)
	}
	return state.CreateContractHash(sender, nf.Checksum, m.Name), nil
}

// ReadManifest reads and checks the manifest from the given file.
func ReadManifest(path string) (*manifest.Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("can't read manifest: %w", err)
	}
	m := new(manifest.Manifest)
	if err := json.Unmarshal(raw, m); err != nil {
		return nil, fmt.Errorf("can't parse manifest: %w", err)
	}
	if m.Name == "" {
		return nil, errors.New("manifest has no name")
	}
	return m, nil
}
