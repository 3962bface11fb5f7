package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"

	"kgeval/internal/util"
	"kgeval/pkg/kg"
	"kgeval/pkg/referee"
)

type precisionResponse struct {
	Verdict string `json:"verdict" jsonschema:"enum=CORRECT,enum=PARTIALLY_CORRECT,enum=INCORRECT"`
}

type relevanceResponse struct {
	Judgement string `json:"judgement" jsonschema:"enum=CORE,enum=MARGINAL"`
}

// ClassifyFactualPrecision grades a relationship against its source passage.
func (r *OpenAIReferee) ClassifyFactualPrecision(
	ctx context.Context,
	rel kg.Relationship,
	source kg.SourceText,
) (referee.Verdict, error) {
	prompt := referee.BuildFactualPrecisionPrompt(rel, source)

	out, err := util.RetryWithContext(ctx, r.maxRetries, func(ctx context.Context) (precisionResponse, error) {
		var parsed precisionResponse
		err := r.complete(ctx, "factual_precision", "Verdict on whether an extracted relationship is supported by its source text", prompt, &parsed)
		return parsed, err
	})
	if err != nil {
		return referee.VerdictIncorrect, err
	}

	return referee.ParseVerdict(out.Verdict), nil
}

// ClassifyRelevance judges whether a knowledge item is a core fact of the
// source passage.
func (r *OpenAIReferee) ClassifyRelevance(
	ctx context.Context,
	item referee.Item,
	source kg.SourceText,
) (bool, error) {
	prompt := referee.BuildRelevancePrompt(item, source)

	out, err := util.RetryWithContext(ctx, r.maxRetries, func(ctx context.Context) (relevanceResponse, error) {
		var parsed relevanceResponse
		err := r.complete(ctx, "contextual_relevance", "Judgement on whether an extracted knowledge item is a core fact of its source text", prompt, &parsed)
		return parsed, err
	})
	if err != nil {
		return false, err
	}

	return referee.ParseRelevance(out.Judgement), nil
}

func (r *OpenAIReferee) complete(
	ctx context.Context,
	name string,
	description string,
	prompt string,
	out any,
) error {
	schema := referee.GenerateSchema(out)
	schemaParam := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        name,
		Description: openai.String(description),
		Schema:      schema,
		Strict:      openai.Bool(true),
	}

	body := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(r.model),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: schemaParam,
			},
		},
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(r.temperature),
	}

	response, err := r.client.Chat.Completions.New(ctx, body)
	if err != nil {
		return err
	}

	if len(response.Choices) == 0 {
		return fmt.Errorf("no choices in response from model")
	}
	message := response.Choices[0].Message.Content
	if message == "" {
		return fmt.Errorf("empty response from model (finish_reason: %s)", response.Choices[0].FinishReason)
	}
	return referee.UnmarshalFlexible(message, out)
}
