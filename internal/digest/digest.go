package digest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"yttext/internal/config"
	"yttext/internal/youtube"
)

// Transcript is the data available to the prompt template.
type Transcript struct {
	VideoID    string
	Language   string
	URL        string
	Transcript string
}

// Run fetches the captions of a video and streams an AI summary of them to w.
func Run(ctx context.Context, w io.Writer, ac config.AppConfig, client *youtube.Client, input, lang string) error {
	if ac.AIConf.BaseUrl == "" {
		return fmt.Errorf("AI base URL is not configured")
	}
	if ac.AIConf.Model == "" {
		return fmt.Errorf("AI model is not configured")
	}
	if ac.AIConf.Prompt == "" {
		return fmt.Errorf("AI prompt is not configured")
	}

	t, err := client.FetchTranscript(ctx, input, lang)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "✅ Fetched %d captions (%s), digesting with %s\n", len(t.Captions), t.Track, ac.AIConf.BaseUrl)

	prompt, err := RenderPrompt(ac.AIConf.Prompt, Transcript{
		VideoID:    t.VideoID,
		Language:   lang,
		URL:        client.WatchURL(t.VideoID),
		Transcript: youtube.JoinText(t.Captions),
	})
	if err != nil {
		return err
	}
	return complete(ctx, w, ac.AIConf, prompt)
}

// RenderPrompt executes the prompt template over t.
func RenderPrompt(prompt string, t Transcript) (string, error) {
	tmpl, err := template.New("prompt").Parse(prompt)
	if err != nil {
		return "", fmt.Errorf("invalid prompt template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, t); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func complete(ctx context.Context, w io.Writer, conf config.AIConfig, prompt string) error {
	client := openai.NewClient(
		option.WithBaseURL(conf.BaseUrl),
	)
	timeoutCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model: conf.Model,
	}

	if conf.Stream {
		stream := client.Chat.Completions.NewStreaming(timeoutCtx, params)
		for stream.Next() {
			chunk := stream.Current()
			if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
				fmt.Fprint(w, chunk.Choices[0].Delta.Content)
			}
		}
		if err := stream.Err(); err != nil {
			return fmt.Errorf("stream error: %w", err)
		}
		fmt.Fprintln(w)
		return nil
	}

	completion, err := client.Chat.Completions.New(timeoutCtx, params)
	if err != nil {
		return fmt.Errorf("failed to get AI completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return fmt.Errorf("AI returned no choices")
	}
	content := completion.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("AI returned empty content")
	}
	fmt.Fprintln(w, content)
	return nil
}
