package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Classification is the answer of Classify.
type Classification struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

// Classify asks the model to pick one of categories for text.
func (c *Client) Classify(ctx context.Context, text string, categories []string) (Classification, error) {
	allowed, err := json.Marshal(categories)
	if err != nil {
		return Classification{}, err
	}
	system := strings.Join([]string{
		"You are a classifier. Respond ONLY with valid JSON, nothing else.",
		`Output format: {"category": "<one of the allowed categories>", "confidence": <0-1>}`,
		"Allowed categories: " + string(allowed),
	}, "\n")

	var out Classification
	err = c.completeJSON(ctx, "classify", []Message{SystemMessage(system), UserMessage(text)}, Deterministic(), &out)
	return out, err
}

// Extract pulls the fields described by schema out of free text into out.
func (c *Client) Extract(ctx context.Context, text, schema string, out any) error {
	system := strings.Join([]string{
		"You are a data extraction engine. Respond ONLY with valid JSON matching the requested schema.",
		"If a field cannot be determined from the input, use null.",
		"Schema:\n" + schema,
	}, "\n")
	return c.completeJSON(ctx, "extract", []Message{SystemMessage(system), UserMessage(text)}, Deterministic(), out)
}

// SummarizeOptions tunes Summarize. Zero MaxSentences means three.
type SummarizeOptions struct {
	MaxSentences int
	Language     string
}

// Summarize condenses text into a few sentences.
func (c *Client) Summarize(ctx context.Context, text string, opts SummarizeOptions) (string, error) {
	sentences := opts.MaxSentences
	if sentences <= 0 {
		sentences = 3
	}
	instructions := []string{
		fmt.Sprintf("Summarize the following text in at most %d sentences.", sentences),
		"Be concise and preserve key facts.",
	}
	if lang := strings.TrimSpace(opts.Language); lang != "" {
		instructions = append(instructions, fmt.Sprintf("Write the summary in %s.", lang))
	}
	return c.complete(ctx, "summarize", []Message{
		SystemMessage(strings.Join(instructions, " ")),
		UserMessage(text),
	}, Options{})
}

// Translate renders text in target; source is optional.
func (c *Client) Translate(ctx context.Context, text, target, source string) (string, error) {
	from := ""
	if s := strings.TrimSpace(source); s != "" {
		from = " from " + s
	}
	system := fmt.Sprintf("Translate the following text%s to %s. Output ONLY the translation, nothing else.", from, target)
	return c.complete(ctx, "translate", []Message{SystemMessage(system), UserMessage(text)}, Options{})
}

// AnalyzeImage answers prompt about an image url or data uri.
func (c *Client) AnalyzeImage(ctx context.Context, imageURI, prompt string) (string, error) {
	return c.complete(ctx, "analyze_image", []Message{UserParts(TextPart(prompt), ImagePart(imageURI))}, Options{})
}

// AnalyzeDocument answers prompt about a document data uri.
func (c *Client) AnalyzeDocument(ctx context.Context, fileURI, prompt string) (string, error) {
	return c.complete(ctx, "analyze_document", []Message{UserParts(TextPart(prompt), FilePart(fileURI))}, Options{})
}

// ExtractFromFile extracts schema fields from an image or document data uri into out.
func (c *Client) ExtractFromFile(ctx context.Context, dataURI, schema string, out any) error {
	kind := "document"
	if IsImageDataURI(dataURI) {
		kind = "image"
	}
	system := strings.Join([]string{
		"Extract structured data from the provided " + kind + ".",
		"Respond ONLY with valid JSON matching the schema.",
		"Use null for any field that cannot be determined.",
		"Schema:\n" + schema,
	}, "\n")
	messages := []Message{
		SystemMessage(system),
		UserParts(TextPart("Extract the data from this "+kind+"."), AttachmentPart(dataURI)),
	}
	return c.completeJSON(ctx, "extract_file", messages, Deterministic(), out)
}
