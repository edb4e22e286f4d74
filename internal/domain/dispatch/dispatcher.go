package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ansible-lint-server-go/internal/platform/metrics"
)

// envelopeTimeFormat matches the wire format clients already parse.
const envelopeTimeFormat = "2006-01-02 15:04:05"

// Dispatcher resolves operation names to handlers and wraps every outcome in
// a uniform envelope. Routing failures (unknown name, bad argument shape)
// are returned as typed errors for the transport to map onto 404/400; all
// other handler failures become Success=false envelopes.
type Dispatcher struct {
	registry *operationRegistry
	logger   Logger
}

// NewDispatcher constructs an empty dispatcher.
func NewDispatcher(logger Logger) (*Dispatcher, error) {
	if logger == nil {
		return nil, errors.New("dispatcher requires logger")
	}
	return &Dispatcher{
		registry: newOperationRegistry(),
		logger:   logger,
	}, nil
}

// Register adds an operation. Must happen before Seal.
func (d *Dispatcher) Register(op Operation) error {
	return d.registry.register(op)
}

// Seal freezes the operation set. Called once at startup after all
// operations are registered.
func (d *Dispatcher) Seal() {
	d.registry.seal()
}

// OperationNames returns the registered names sorted alphabetically.
func (d *Dispatcher) OperationNames() []string {
	return d.registry.list()
}

// Definitions returns the registered operation definitions in name order.
func (d *Dispatcher) Definitions() []Definition {
	ops := d.registry.all()
	defs := make([]Definition, 0, len(ops))
	for _, op := range ops {
		defs = append(defs, op.Definition())
	}
	return defs
}

// Dispatch resolves and invokes one operation. The returned error is only
// ever a *NotFoundError or *ArgumentError; every other outcome, success or
// operational failure, arrives as an envelope.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args map[string]any) (Envelope, error) {
	op, ok := d.registry.get(name)
	if !ok {
		d.logger.WarnTag("DISPATCH", "unknown operation %q requested", name)
		return Envelope{}, &NotFoundError{
			Name:      name,
			Available: d.registry.list(),
		}
	}

	if args == nil {
		args = map[string]any{}
	}

	if err := op.Validate(args); err != nil {
		var argErr *ArgumentError
		if errors.As(err, &argErr) {
			d.logger.WarnTag("DISPATCH", "bad arguments for %s: %s", name, argErr.Reason)
			return Envelope{}, argErr
		}
		return Envelope{}, NewArgumentError("invalid arguments: %v", err)
	}

	d.logger.InfoTag("DISPATCH", "executing operation %s", name)
	output, err := d.execute(ctx, op, args)

	if err != nil {
		var soft *SoftError
		if errors.As(err, &soft) && soft.Output != nil {
			output = soft.Output
		} else {
			output = map[string]any{"error": err.Error()}
		}
	}

	success := err == nil
	metrics.ObserveDispatch(name, success)

	return Envelope{
		Tool:      name,
		Success:   success,
		Output:    output,
		Timestamp: time.Now().UTC().Format(envelopeTimeFormat),
	}, nil
}

// execute isolates handler panics so a misbehaving operation cannot take
// down the dispatch boundary.
func (d *Dispatcher) execute(ctx context.Context, op Operation, args map[string]any) (output any, err error) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.ErrorTag("DISPATCH", "operation %s panicked: %v", op.Definition().Name, r)
			output = nil
			err = fmt.Errorf("internal error during %s", op.Definition().Name)
		}
	}()
	return op.Execute(ctx, args)
}
