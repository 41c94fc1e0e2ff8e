package analyst

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"
	contractx "github.com/tanpawarit/Trivium-Parallel-Research-Agent/agent/contract"
	logx "github.com/tanpawarit/Trivium-Parallel-Research-Agent/pkg/logger"
)

// Config bounds one analyst's completion loop. MaxToolRounds caps how many
// model round-trips may request tools before the loop forces a final answer.
type Config struct {
	MaxToolRounds int
	MaxRetries    int
	RetryBackoff  time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxToolRounds <= 0 {
		c.MaxToolRounds = 5
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.RetryBackoff <= 0 {
		c.RetryBackoff = 500 * time.Millisecond
	}
	return c
}

type analystImpl struct {
	analystType  contractx.AnalystType
	slotKey      string
	model        einomodel.ToolCallingChatModel
	gateway      contractx.ToolGateway
	systemPrompt string
	cfg          Config
	log          zerolog.Logger
}

func newAnalyst(
	analystType contractx.AnalystType,
	slotKey string,
	chatModel einomodel.ToolCallingChatModel,
	tools []*schema.ToolInfo,
	gateway contractx.ToolGateway,
	systemPrompt string,
	cfg Config,
) (*analystImpl, error) {
	if strings.TrimSpace(slotKey) == "" {
		return nil, fmt.Errorf("%w: slot key is required for analyst=%s", contractx.ErrValidation, analystType)
	}
	if strings.TrimSpace(systemPrompt) == "" {
		return nil, fmt.Errorf("%w: analyst=%s", contractx.ErrPromptMissing, analystType)
	}
	if len(tools) > 0 && gateway == nil {
		return nil, fmt.Errorf("%w: tool gateway is required for analyst=%s", contractx.ErrValidation, analystType)
	}

	if len(tools) > 0 {
		bound, err := chatModel.WithTools(tools)
		if err != nil {
			return nil, fmt.Errorf("%w: bind tools for analyst=%s: %v", contractx.ErrModelInvoke, analystType, err)
		}
		chatModel = bound
	}

	return &analystImpl{
		analystType:  analystType,
		slotKey:      slotKey,
		model:        chatModel,
		gateway:      gateway,
		systemPrompt: systemPrompt,
		cfg:          cfg.withDefaults(),
		log:          logx.Component("analyst." + string(analystType)),
	}, nil
}

func (a *analystImpl) Type() contractx.AnalystType {
	return a.analystType
}

func (a *analystImpl) SlotKey() string {
	return a.slotKey
}

// Research runs the completion/tool loop until the model answers without
// requesting tools or the round budget runs out. Tool failures travel back
// to the model as error envelopes, never as faults.
func (a *analystImpl) Research(ctx context.Context, question string) (string, error) {
	messages := []*schema.Message{
		schema.SystemMessage(a.systemPrompt),
		schema.UserMessage(question),
	}

	for round := 0; round < a.cfg.MaxToolRounds; round++ {
		msg, err := a.generate(ctx, messages)
		if err != nil {
			return "", err
		}

		if len(msg.ToolCalls) == 0 {
			text := strings.TrimSpace(msg.Content)
			if text == "" {
				return "", fmt.Errorf("%w: analyst=%s returned empty content", contractx.ErrSchemaViolation, a.analystType)
			}
			return text, nil
		}

		messages = append(messages, msg)
		for _, call := range msg.ToolCalls {
			req, err := toToolRequest(call)
			if err != nil {
				return "", err
			}

			env := a.gateway.Execute(ctx, a.analystType, req)
			payload, err := json.Marshal(env)
			if err != nil {
				return "", fmt.Errorf("%w: marshal tool envelope for tool=%s: %v", contractx.ErrValidation, req.Tool, err)
			}
			messages = append(messages, schema.ToolMessage(string(payload), call.ID))
		}
	}

	// Budget exhausted: force one finalize round; further tool requests are
	// not honored.
	a.log.Warn().Int("rounds", a.cfg.MaxToolRounds).Msg("tool round budget exhausted, forcing final answer")
	messages = append(messages, schema.UserMessage(
		"Tool budget is exhausted. Write your final analysis from the results gathered so far.",
	))

	msg, err := a.generate(ctx, messages)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(msg.Content)
	if text == "" {
		return "", fmt.Errorf("%w: analyst=%s produced no final text", contractx.ErrToolBudget, a.analystType)
	}
	return text, nil
}

// generate invokes the model, retrying transient network faults up to
// MaxRetries with a flat backoff. Context expiry is never retried.
func (a *analystImpl) generate(ctx context.Context, messages []*schema.Message) (*schema.Message, error) {
	var lastErr error
	for attempt := 0; attempt <= a.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			a.log.Debug().Int("attempt", attempt).Msg("retrying completion call")
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(a.cfg.RetryBackoff):
			}
		}

		msg, err := a.model.Generate(ctx, messages)
		if err == nil {
			if msg == nil {
				return nil, fmt.Errorf("%w: analyst=%s got nil completion", contractx.ErrSchemaViolation, a.analystType)
			}
			return msg, nil
		}

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !isTransient(err) {
			return nil, fmt.Errorf("%w: analyst=%s: %v", contractx.ErrModelInvoke, a.analystType, err)
		}
		lastErr = err
	}
	return nil, fmt.Errorf("%w: analyst=%s retries exhausted: %v", contractx.ErrModelInvoke, a.analystType, lastErr)
}

// isTransient reports whether an outbound call failed in a way worth
// retrying: name resolution faults and network timeouts.
func isTransient(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}

func toToolRequest(call schema.ToolCall) (contractx.ToolRequest, error) {
	toolName := strings.TrimSpace(call.Function.Name)
	if toolName == "" {
		return contractx.ToolRequest{}, fmt.Errorf("%w: tool call name is empty", contractx.ErrSchemaViolation)
	}

	args := map[string]any{}
	rawArgs := strings.TrimSpace(call.Function.Arguments)
	if rawArgs != "" {
		if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
			return contractx.ToolRequest{}, fmt.Errorf("%w: invalid tool args for tool=%s: %v", contractx.ErrSchemaViolation, toolName, err)
		}
	}

	return contractx.ToolRequest{
		Tool: toolName,
		Args: args,
	}, nil
}
