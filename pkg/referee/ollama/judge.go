package ollama

import (
	"context"

	"github.com/ollama/ollama/api"

	"kgeval/internal/util"
	"kgeval/pkg/kg"
	"kgeval/pkg/referee"
)

// ClassifyFactualPrecision grades a relationship against its source passage.
func (r *OllamaReferee) ClassifyFactualPrecision(
	ctx context.Context,
	rel kg.Relationship,
	source kg.SourceText,
) (referee.Verdict, error) {
	prompt := referee.BuildFactualPrecisionPrompt(rel, source)

	raw, err := util.RetryWithContext(ctx, r.maxRetries, func(ctx context.Context) (string, error) {
		return r.complete(ctx, prompt)
	})
	if err != nil {
		return referee.VerdictIncorrect, err
	}

	return referee.ParseVerdict(raw), nil
}

// ClassifyRelevance judges whether a knowledge item is a core fact of the
// source passage.
func (r *OllamaReferee) ClassifyRelevance(
	ctx context.Context,
	item referee.Item,
	source kg.SourceText,
) (bool, error) {
	prompt := referee.BuildRelevancePrompt(item, source)

	raw, err := util.RetryWithContext(ctx, r.maxRetries, func(ctx context.Context) (string, error) {
		return r.complete(ctx, prompt)
	})
	if err != nil {
		return false, err
	}

	return referee.ParseRelevance(raw), nil
}

func (r *OllamaReferee) complete(ctx context.Context, prompt string) (string, error) {
	if err := r.reqLock.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer r.reqLock.Release(1)

	stream := false
	req := &api.ChatRequest{
		Model: r.model,
		Messages: []api.Message{
			{Role: "user", Content: prompt},
		},
		Stream:  &stream,
		Options: map[string]any{"temperature": r.temperature},
	}

	var content string
	if err := r.Client.Chat(ctx, req, func(cr api.ChatResponse) error {
		content += cr.Message.Content
		return nil
	}); err != nil {
		return "", err
	}

	return content, nil
}
