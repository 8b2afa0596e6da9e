/*
Package driver implements the program initialization check: it connects to
the cluster, resolves the program, calls its "initialize" method once, waits
for the transaction to be accepted and prints its signature.
*/
package driver

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/coconut-rwa/coconut/pkg/metrics"
	"github.com/coconut-rwa/coconut/pkg/program"
	"github.com/coconut-rwa/coconut/pkg/provider"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Defaults for the program and the method called.
const (
	DefaultProgram = "Coconut"
	DefaultMethod  = "initialize"
)

// Dialer establishes the provider connection.
type Dialer func(ctx context.Context) (*provider.Provider, error)

// Registry resolves program handles by name, workspace.Workspace implements
// it.
type Registry interface {
	Program(name string, act program.Actor) (*program.Program, error)
}

// Driver runs the initialization call.
type Driver struct {
	dial    Dialer
	reg     Registry
	out     io.Writer
	log     *zap.Logger
	metrics *metrics.Collector
	program string
	format  Format
}

// Option configures a Driver.
type Option func(*Driver)

// WithLogger sets the logger, zap.NewNop is used by default.
func WithLogger(log *zap.Logger) Option {
	return func(d *Driver) { d.log = log }
}

// WithMetrics makes the driver record call metrics.
func WithMetrics(m *metrics.Collector) Option {
	return func(d *Driver) { d.metrics = m }
}

// WithProgram overrides the program name (DefaultProgram).
func WithProgram(name string) Option {
	return func(d *Driver) { d.program = name }
}

// WithFormat sets the signature format (FormatHex by default).
func WithFormat(f Format) Option {
	return func(d *Driver) { d.format = f }
}

// New creates a Driver printing to out.
func New(dial Dialer, reg Registry, out io.Writer, opts ...Option) *Driver {
	d := &Driver{
		dial:    dial,
		reg:     reg,
		out:     out,
		log:     zap.NewNop(),
		program: DefaultProgram,
		format:  FormatHex,
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Run performs exactly one initialize call and returns the formatted
// transaction signature. Nothing is printed on failure, errors are
// provider.ConnectionError, program.TransactionError or resolution errors.
func (d *Driver) Run(ctx context.Context) (string, error) {
	log := d.log.With(zap.Stringer("run", uuid.New()), zap.String("program", d.program))

	p, err := d.dial(ctx)
	if err != nil {
		d.metrics.Observe(d.program, DefaultMethod, 0, err)
		return "", err
	}
	defer p.Close()
	log.Debug("provider ready", zap.String("endpoint", p.Endpoint()), zap.Stringer("sender", p.Sender()))

	prog, err := d.reg.Program(d.program, p.Actor())
	if err != nil {
		d.metrics.Observe(d.program, DefaultMethod, 0, err)
		return "", err
	}
	log.Debug("program resolved", zap.String("hash", prog.Hash().StringLE()))

	start := time.Now()
	call := prog.Methods(DefaultMethod)
	h, err := call.RPC()
	took := time.Since(start)
	d.metrics.Observe(d.program, call.Method(), took, err)
	if err != nil {
		log.Debug("call failed", zap.String("method", call.Method()), zap.Error(err))
		return "", err
	}
	log.Info("transaction accepted", zap.String("hash", h.StringLE()), zap.Duration("took", took))

	sig := d.format.Signature(h)
	if _, err := fmt.Fprintln(d.out, "Your transaction signature", sig); err != nil {
		return sig, err
	}
	return sig, nil
}
