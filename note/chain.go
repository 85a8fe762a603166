package note

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/drivernote/drivernote/ai"
	"github.com/drivernote/drivernote/errors"
	"github.com/drivernote/drivernote/prompt"
)

// Chain renders driver stats into a prompt and sends it to a model.
// Format alone is useful when the caller only wants the rendered prompt.
type Chain struct {
	tmpl     *prompt.Template
	resolver *Resolver
	llm      ai.Client
	logger   *zap.SugaredLogger
}

// Option configures a Chain
type Option func(*Chain)

// WithTemplate overrides the default note template
func WithTemplate(tmpl *prompt.Template) Option {
	return func(c *Chain) {
		c.tmpl = tmpl
	}
}

// WithClient sets the model client used by Invoke
func WithClient(client ai.Client) Option {
	return func(c *Chain) {
		c.llm = client
	}
}

// WithLogger sets the structured logger
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(c *Chain) {
		c.logger = logger
	}
}

// NewChain creates a note chain over the given resolver. Without
// WithTemplate the built-in template is used; without WithClient only
// Format is available.
func NewChain(resolver *Resolver, opts ...Option) (*Chain, error) {
	if resolver == nil {
		return nil, errors.New("resolver is required")
	}

	c := &Chain{
		resolver: resolver,
		logger:   zap.NewNop().Sugar(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.tmpl == nil {
		tmpl, err := prompt.Parse(DefaultTemplate)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse default template")
		}
		c.tmpl = tmpl
	}

	return c, nil
}

// Format resolves the driver's stats and renders the prompt. The driver
// id is consumed here; only the resolved stats (plus any Extra
// variables) reach the template.
func (c *Chain) Format(ctx context.Context, args Args) (string, error) {
	stats, err := c.resolver.Resolve(ctx, args.DriverID)
	if err != nil {
		return "", err
	}

	rendered, err := c.tmpl.Execute(args.merge(stats))
	if err != nil {
		return "", errors.Wrapf(err, "failed to render note for driver %d", args.DriverID)
	}

	return rendered, nil
}

// Invoke formats the prompt and sends it to the model client, returning
// the model's note text.
func (c *Chain) Invoke(ctx context.Context, args Args) (string, error) {
	if c.llm == nil {
		return "", errors.New("no model client configured")
	}

	runID := uuid.New().String()

	rendered, err := c.Format(ctx, args)
	if err != nil {
		return "", err
	}

	c.logger.Debugw("Invoking note chain",
		"run_id", runID,
		"driver_id", args.DriverID,
		"prompt_length", len(rendered),
	)

	resp, err := c.llm.Chat(ctx, ai.ChatRequest{
		UserPrompt: rendered,
	})
	if err != nil {
		return "", errors.Wrapf(err, "note chain run %s", runID)
	}

	c.logger.Infow("Note generated",
		"run_id", runID,
		"driver_id", args.DriverID,
		"tokens", resp.Usage.TotalTokens,
	)

	return resp.Content, nil
}
