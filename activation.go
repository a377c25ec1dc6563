package keel

import (
	"fmt"

	"go.uber.org/zap"
)

// ActivationHook observes every instance the container constructs, before
// the instance is returned to the caller. Hooks can be used for event
// wiring, logging, metrics, testing, etc. Returning an error aborts the
// resolution.
type ActivationHook interface {
	OnActivate(contract string, instance any) error
}

// ActivationFunc adapts a function to the ActivationHook interface.
type ActivationFunc func(contract string, instance any) error

// OnActivate implements ActivationHook.
func (f ActivationFunc) OnActivate(contract string, instance any) error {
	return f(contract, instance)
}

// hookChain runs activation hooks in registration order.
type hookChain struct {
	hooks []ActivationHook
}

func newHookChain() *hookChain {
	return &hookChain{hooks: make([]ActivationHook, 0)}
}

// add appends a hook to the chain.
func (h *hookChain) add(hook ActivationHook) {
	h.hooks = append(h.hooks, hook)
}

// activate calls OnActivate on all hooks, stopping at the first failure.
func (h *hookChain) activate(contract string, instance any) error {
	for _, hook := range h.hooks {
		if err := hook.OnActivate(contract, instance); err != nil {
			return NewActivationError(contract, err)
		}
	}

	return nil
}

// EventAggregator is the narrow slice of the shared event aggregator the
// auto-subscribe hook needs. The concrete aggregator is supplied by the host
// through EventAggregatorFactory.
type EventAggregator interface {
	Subscribe(handler any)
}

// autoSubscribeHook wires every constructed instance that declares the
// "handles events" capability into the shared event aggregator. The
// aggregator is resolved lazily so the hook installation order is not tied
// to singleton construction order.
func autoSubscribeHook(resolveAggregator func() (any, error)) ActivationHook {
	return ActivationFunc(func(contract string, instance any) error {
		// The aggregator never subscribes to itself.
		if contract == EventAggregatorKey {
			return nil
		}

		if !InstanceHasCapability(instance, CapHandlesEvents) {
			return nil
		}

		raw, err := resolveAggregator()
		if err != nil {
			return err
		}

		aggregator, ok := raw.(EventAggregator)
		if !ok {
			return fmt.Errorf("event aggregator %T does not implement EventAggregator", raw)
		}

		aggregator.Subscribe(instance)

		return nil
	})
}

// TraceHook returns an activation hook that logs every construction.
func TraceHook(log *zap.Logger) ActivationHook {
	return ActivationFunc(func(contract string, instance any) error {
		log.Debug("instance activated",
			zap.String("contract", contract),
			zap.String("instance_type", typeName(instance)))

		return nil
	})
}

func typeName(v any) string {
	if v == nil {
		return "<nil>"
	}

	return fmt.Sprintf("%T", v)
}
