package tools

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/zikazama/sonar-mcp/internal/common"
	"github.com/zikazama/sonar-mcp/internal/sonarqube"
)

// Dispatcher resolves tool calls against the registry, validates arguments,
// invokes the handler and wraps the outcome in a result envelope. A handler
// fault never escapes as a raw error; callers always receive an Envelope.
type Dispatcher struct {
	registry *Registry
	logger   *common.Logger
}

func NewDispatcher(registry *Registry, logger *common.Logger) *Dispatcher {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Dispatcher{registry: registry, logger: logger}
}

// Registry exposes the underlying registry for tool discovery.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Invoke runs the named tool with raw arguments. Validation happens before
// any network activity, so an invalid call never reaches SonarQube.
func (d *Dispatcher) Invoke(ctx context.Context, name string, rawArgs map[string]any) Envelope {
	correlationID := uuid.New().String()
	log := d.logger.WithCorrelationId(correlationID)

	desc, ok := d.registry.Get(name)
	if !ok {
		log.Warn().Str("tool", name).Msg("Unknown tool requested")
		return errorEnvelope(unknownToolError(name))
	}

	args, derr := validateArgs(desc, rawArgs)
	if derr != nil {
		log.Warn().Str("tool", name).Str("kind", string(derr.Kind)).Msg(derr.Message)
		return errorEnvelope(derr)
	}

	log.Debug().Str("tool", name).Msg("Dispatching tool call")
	start := time.Now()

	data, err := desc.Handler(ctx, args)
	if err != nil {
		return errorEnvelope(d.mapHandlerError(log, name, err))
	}

	log.Debug().Str("tool", name).Dur("duration", time.Since(start)).Msg("Tool call completed")
	return successEnvelope(data)
}

func (d *Dispatcher) mapHandlerError(log *common.Logger, name string, err error) *DispatchError {
	var upstream *sonarqube.UpstreamError
	if errors.As(err, &upstream) {
		log.Warn().Str("tool", name).Int("status", upstream.Status).Msg(upstream.Error())
		return &DispatchError{Kind: ErrKindUpstream, Message: upstream.Error()}
	}

	var dispatch *DispatchError
	if errors.As(err, &dispatch) {
		log.Warn().Str("tool", name).Str("kind", string(dispatch.Kind)).Msg(dispatch.Message)
		return dispatch
	}

	log.Error().Str("tool", name).Err(err).Msg("Tool handler failed")
	return &DispatchError{
		Kind:    ErrKindInternal,
		Message: fmt.Sprintf("internal error in %s: %v", name, err),
	}
}
