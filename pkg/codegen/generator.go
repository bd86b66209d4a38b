// Package codegen turns a natural-language request into pygame source code
// with one LLM completion call and strips markdown decoration from the reply.
package codegen

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/entrhq/pyforge/pkg/llm"
	"github.com/entrhq/pyforge/pkg/llm/tokenizer"
	"github.com/entrhq/pyforge/pkg/logging"
	"github.com/entrhq/pyforge/pkg/types"
	"github.com/google/uuid"
)

var codegenLog *logging.Logger

func init() {
	codegenLog = logging.MustLogger("codegen")
}

// Generator performs code generation requests against a Registry.
type Generator struct {
	registry  *Registry
	store     *Store
	tokenizer *tokenizer.Tokenizer
	emit      types.EventEmitter
	now       func() time.Time
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithStore saves every successful artifact into store.
func WithStore(store *Store) GeneratorOption {
	return func(g *Generator) {
		g.store = store
	}
}

// WithTokenizer sets the tokenizer used for artifact token counts.
func WithTokenizer(tok *tokenizer.Tokenizer) GeneratorOption {
	return func(g *Generator) {
		g.tokenizer = tok
	}
}

// WithEventEmitter receives generation progress events.
func WithEventEmitter(emit types.EventEmitter) GeneratorOption {
	return func(g *Generator) {
		g.emit = emit
	}
}

// WithClock overrides the artifact timestamp source.
func WithClock(now func() time.Time) GeneratorOption {
	return func(g *Generator) {
		g.now = now
	}
}

// NewGenerator creates a generator over registry.
func NewGenerator(registry *Registry, opts ...GeneratorOption) *Generator {
	g := &Generator{
		registry: registry,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.tokenizer == nil {
		if tok, err := tokenizer.New(); err == nil {
			g.tokenizer = tok
		} else {
			codegenLog.Warnf("tokenizer unavailable, using estimates: %v", err)
		}
	}
	return g
}

// Generate runs one completion for req and returns the normalized artifact.
//
// A blank query yields ErrEmptyQuery and a blank key yields *AuthError; in
// both cases no request is sent. Rejected credentials also yield *AuthError.
// Any other failure, including a reply with no code, yields *ProviderError.
func (g *Generator) Generate(ctx context.Context, req types.GenerationRequest) (*types.GeneratedArtifact, error) {
	artifact, err := g.generate(ctx, req)
	if err != nil {
		codegenLog.Errorf("generation failed (provider=%s): %v", req.Provider, err)
		g.emit.Emit(types.NewGenerationFailedEvent(err))
		return nil, err
	}

	if g.store != nil {
		g.store.Put(artifact)
	}
	codegenLog.Infof("generated artifact %s: %d chars, %d tokens", artifact.ID, len(artifact.NormalizedCode), artifact.TokenCount)
	g.emit.Emit(types.NewGenerationCompleteEvent(artifact))
	return artifact, nil
}

func (g *Generator) generate(ctx context.Context, req types.GenerationRequest) (*types.GeneratedArtifact, error) {
	if strings.TrimSpace(req.UserQuery) == "" {
		return nil, ErrEmptyQuery
	}
	if strings.TrimSpace(req.APIKey) == "" {
		return nil, &AuthError{Provider: req.Provider, Missing: true}
	}

	factory, err := g.registry.Lookup(req.Provider)
	if err != nil {
		return nil, &ProviderError{Provider: req.Provider, Err: err}
	}
	completer, err := factory(req.APIKey)
	if err != nil {
		return nil, &ProviderError{Provider: req.Provider, Err: fmt.Errorf("failed to create client: %w", err)}
	}

	systemPrompt := req.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}

	g.emit.Emit(types.NewGenerationStartEvent(req.Provider))
	codegenLog.Debugf("requesting completion from %s (model=%s)", req.Provider, completer.Model())

	raw, err := completer.Complete(ctx, systemPrompt, req.UserQuery)
	if err != nil {
		return nil, classify(req.Provider, err)
	}

	code := Normalize(raw)
	if code == "" {
		return nil, &ProviderError{Provider: req.Provider, Err: errors.New("response contained no code")}
	}

	return &types.GeneratedArtifact{
		ID:             uuid.New().String(),
		Provider:       req.Provider,
		Model:          completer.Model(),
		Query:          req.UserQuery,
		RawText:        raw,
		NormalizedCode: code,
		TokenCount:     g.countTokens(code),
		CreatedAt:      g.now(),
	}, nil
}

func (g *Generator) countTokens(code string) int {
	if g.tokenizer != nil {
		return g.tokenizer.CountTokens(code)
	}
	return tokenizer.Estimate(code)
}

func classify(provider types.Provider, err error) error {
	var apiErr *llm.APIError
	if errors.As(err, &apiErr) && apiErr.IsAuthFailure() {
		return &AuthError{Provider: provider, Err: err}
	}
	return &ProviderError{Provider: provider, Err: err}
}
