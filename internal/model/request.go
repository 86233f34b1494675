package model

// HeroPrompt is the fixed description sent to the image service. It asks for
// imagery only; the title is rendered by the page, not baked into the image.
const HeroPrompt = "Futuristic digital artwork showing 'WE ARE THE FUTURE' with technological elements, circuit patterns, holographic effects, neon blue and cyan colors, abstract tech background, modern and cutting-edge design, no text needed in image, professional tech company aesthetic"

// Request defaults for the hero image.
const (
	DefaultImageCount     = 1
	DefaultImageSize      = "1024x1024"
	ResponseFormatURL     = "url"
	DefaultResponseFormat = ResponseFormatURL
)

// GenerationRequest describes one call to the image service.
// It is built once per run and never persisted.
type GenerationRequest struct {
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	ResponseFormat string `json:"response_format"`
	// Model is optional; empty lets the service pick its default.
	Model string `json:"model,omitempty"`
}

// DefaultRequest returns the request used for the hero graphic.
func DefaultRequest() GenerationRequest {
	return GenerationRequest{
		Prompt:         HeroPrompt,
		N:              DefaultImageCount,
		Size:           DefaultImageSize,
		ResponseFormat: DefaultResponseFormat,
	}
}

// WithModel returns a copy of r targeting the given model.
func (r GenerationRequest) WithModel(name string) GenerationRequest {
	r.Model = name
	return r
}
