// Package describe turns (name, category, coordinates) into a short
// Indonesian business description: reverse geocode, build a narrative
// location, then ask the LLM, with a deterministic template when either
// step degrades.
package describe

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"

	"usaha-chatbot/config"
	"usaha-chatbot/geocode"
	"usaha-chatbot/models"
)

const coordinatePrefix = "sekitar koordinat"

// TextGenerator is the slice of the LLM client the composer needs;
// *ollama.LLM satisfies it.
type TextGenerator interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

type Input struct {
	Name     string
	Category string
	Lat      float64
	Lon      float64
}

type Output struct {
	Geocode           models.GeocodeResult `json:"geocode"`
	NarrativeLocation string               `json:"lokasi_naratif"`
	Description       string               `json:"deskripsi"`
}

type Composer struct {
	geocoder geocode.Resolver
	llm      TextGenerator

	timeout       time.Duration
	temperature   float64
	topP          float64
	repeatPenalty float64
}

func NewComposer(geocoder geocode.Resolver, llm TextGenerator, cfg *config.Describe) *Composer {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Composer{
		geocoder:      geocoder,
		llm:           llm,
		timeout:       timeout,
		temperature:   cfg.Temperature,
		topP:          cfg.TopP,
		repeatPenalty: cfg.RepeatPenalty,
	}
}

// Describe always returns a non-empty description and narrative location;
// provider trouble only degrades the output, it never fails the call.
func (c *Composer) Describe(ctx context.Context, in Input) Output {
	return c.describe(ctx, in, nil)
}

// DescribeStream forwards generation chunks as they arrive. The fallback
// text, when used, is delivered as a single chunk.
func (c *Composer) DescribeStream(ctx context.Context, in Input, stream func(chunk []byte) error) Output {
	return c.describe(ctx, in, stream)
}

func (c *Composer) describe(ctx context.Context, in Input, stream func(chunk []byte) error) Output {
	geo := c.geocoder.Resolve(ctx, in.Lat, in.Lon)
	location := NarrativeLocation(geo, in.Lat, in.Lon)

	description, err := c.generate(ctx, in, location, stream)
	if err != nil || strings.TrimSpace(description) == "" {
		if err != nil {
			slog.Warn("description generation failed, using template", "err", err, "nama", in.Name)
		}
		description = FallbackDescription(in.Name, in.Category, location)
		if stream != nil {
			if err := stream([]byte(description)); err != nil {
				slog.Warn("failed to stream fallback description", "err", err)
			}
		}
	}

	return Output{
		Geocode:           geo,
		NarrativeLocation: location,
		Description:       description,
	}
}

func (c *Composer) generate(ctx context.Context, in Input, location string, stream func(chunk []byte) error) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	messages := make([]llms.MessageContent, 0, len(fewShots)+2)
	messages = append(messages, llms.MessageContent{
		Role:  schema.ChatMessageTypeSystem,
		Parts: []llms.ContentPart{llms.TextPart(systemPrompt)},
	})
	messages = append(messages, fewShots...)
	messages = append(messages, llms.MessageContent{
		Role: schema.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{
			llms.TextPart(fmt.Sprintf("nama=%s | kategori=%s | lokasi=%s", in.Name, in.Category, location)),
		},
	})

	options := []llms.CallOption{
		llms.WithTemperature(c.temperature),
		llms.WithTopP(c.topP),
		llms.WithRepetitionPenalty(c.repeatPenalty),
	}
	if stream != nil {
		options = append(options, llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
			return stream(chunk)
		}))
	}

	content, err := c.llm.GenerateContent(ctx, messages, options...)
	if err != nil {
		return "", fmt.Errorf("failed to generate description: %w", err)
	}
	if len(content.Choices) == 0 {
		return "", fmt.Errorf("empty generation response")
	}

	return strings.TrimSpace(content.Choices[0].Content), nil
}

// NarrativeLocation prefers street plus area, then area, then the full
// display name, and finally the raw coordinates. It never returns "".
func NarrativeLocation(geo models.GeocodeResult, lat, lon float64) string {
	switch {
	case geo.Jalan != "" && geo.Ringkas != "":
		return geo.Jalan + ", " + geo.Ringkas
	case geo.Ringkas != "":
		return geo.Ringkas
	case strings.TrimSpace(geo.Full) != "":
		return strings.TrimSpace(geo.Full)
	default:
		return fmt.Sprintf("%s %.6f, %.6f", coordinatePrefix, lat, lon)
	}
}

// FallbackDescription is the deterministic template used when the LLM is
// unavailable or returns nothing usable.
func FallbackDescription(name, category, location string) string {
	if strings.HasPrefix(location, coordinatePrefix) {
		return fmt.Sprintf("%s adalah usaha berkategori %s di %s.", name, strings.ToLower(category), location)
	}
	return fmt.Sprintf("%s adalah usaha berkategori %s yang berlokasi di %s.", name, strings.ToLower(category), location)
}
