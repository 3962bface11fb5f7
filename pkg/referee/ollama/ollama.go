package ollama

import (
	"net/http"
	"net/url"

	"github.com/ollama/ollama/api"
	"golang.org/x/sync/semaphore"
)

// OllamaReferee judges knowledge items using a locally-hosted Ollama model.
// It implements referee.Referee.
type OllamaReferee struct {
	model       string
	temperature float64
	maxRetries  int

	reqLock *semaphore.Weighted

	Client *api.Client
}

// NewOllamaRefereeParams contains configuration for an OllamaReferee.
type NewOllamaRefereeParams struct {
	Model       string
	Temperature float64
	BaseURL     string
	ApiKey      string

	MaxRetries            int
	MaxConcurrentRequests int64
}

type headerTransport struct {
	headers map[string]string
	rt      http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// clone so original request isn't modified
	r := req.Clone(req.Context())
	for k, v := range t.headers {
		if r.Header.Get(k) == "" {
			r.Header.Set(k, v)
		}
	}
	return t.rt.RoundTrip(r)
}

// NewOllamaReferee creates a referee backed by an Ollama server at BaseURL
// (or the default server if empty).
func NewOllamaReferee(params NewOllamaRefereeParams) (*OllamaReferee, error) {
	var (
		u   *url.URL
		err error
	)

	if params.BaseURL != "" {
		u, err = url.Parse(params.BaseURL)
		if err != nil {
			return nil, err
		}
	}

	httpClient := &http.Client{
		Transport: &headerTransport{
			headers: map[string]string{
				"Authorization": "Bearer " + params.ApiKey,
			},
			rt: http.DefaultTransport,
		},
	}

	cli := api.NewClient(u, httpClient)

	maxConcurrent := params.MaxConcurrentRequests
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	temperature := params.Temperature
	if temperature <= 0 {
		temperature = 0.1
	}
	maxRetries := params.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	return &OllamaReferee{
		model:       params.Model,
		temperature: temperature,
		maxRetries:  maxRetries,
		reqLock:     semaphore.NewWeighted(maxConcurrent),
		Client:      cli,
	}, nil
}
