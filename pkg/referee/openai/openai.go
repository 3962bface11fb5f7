package openai

import (
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAIReferee judges knowledge items using an OpenAI-compatible chat
// completion endpoint. It implements referee.Referee.
type OpenAIReferee struct {
	model       string
	temperature float64
	maxRetries  int

	client *openai.Client
}

// NewOpenAIRefereeParams defines the configuration for an OpenAIReferee.
// BaseURL may point at a proxy or any OpenAI-compatible deployment.
type NewOpenAIRefereeParams struct {
	Model       string
	Temperature float64
	BaseURL     string
	ApiKey      string
	MaxRetries  int
}

// NewOpenAIReferee creates a referee backed by the OpenAI chat API.
//
// Example:
//
//	ref := openai.NewOpenAIReferee(openai.NewOpenAIRefereeParams{
//		Model:  "gpt-4o-mini",
//		ApiKey: os.Getenv("OPENAI_API_KEY"),
//	})
func NewOpenAIReferee(params NewOpenAIRefereeParams) *OpenAIReferee {
	options := []option.RequestOption{
		option.WithAPIKey(params.ApiKey),
	}
	if params.BaseURL != "" {
		options = append(options, option.WithBaseURL(params.BaseURL))
	}

	client := openai.NewClient(options...)

	temperature := params.Temperature
	if temperature <= 0 {
		temperature = 0.1
	}
	maxRetries := params.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	return &OpenAIReferee{
		model:       params.Model,
		temperature: temperature,
		maxRetries:  maxRetries,
		client:      &client,
	}
}
