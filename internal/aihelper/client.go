package aihelper

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"roit-learning-service/internal/domain"
)

const (
	// DefaultSystemPrompt primes the model as the study assistant.
	DefaultSystemPrompt = "You are PM Roit, an expert educational AI assistant for Class 8-12 students in India. " +
		"You specialize in Physics, Chemistry, and Mathematics. Provide clear, detailed explanations with " +
		"step-by-step solutions. Use Hindi and English mix (Hinglish) when appropriate. " +
		"Always be encouraging and supportive."

	greeting = "Namaste! मैं PM Roit हूं, आपका educational assistant। मैं Physics, Chemistry और Mathematics " +
		"में आपकी मदद करूंगा। कृपया अपना सवाल पूछें।"

	// FallbackResponse is returned when the stream carried no text.
	FallbackResponse = "कोई उत्तर नहीं मिला"
)

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type streamChunk struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Client forwards a chat to a streamGenerateContent SSE endpoint and
// collects the streamed text into one answer.
type Client struct {
	endpoint     string
	apiKey       string
	systemPrompt string
	http         *http.Client
}

func NewClient(endpoint, apiKey, systemPrompt string, httpClient *http.Client) *Client {
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{endpoint: endpoint, apiKey: apiKey, systemPrompt: systemPrompt, http: httpClient}
}

// Chat sends messages after the fixed system context and greeting turns.
func (c *Client) Chat(ctx context.Context, messages []domain.ChatMessage) (string, error) {
	body, err := json.Marshal(generateRequest{Contents: c.conversation(messages)})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	if c.apiKey != "" {
		req.Header.Set("x-goog-api-key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Printf("ai upstream status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
		return "", fmt.Errorf("%w: status %d", domain.ErrUpstream, resp.StatusCode)
	}

	text, err := collect(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	if text == "" {
		return FallbackResponse, nil
	}
	return text, nil
}

func (c *Client) conversation(messages []domain.ChatMessage) []content {
	out := make([]content, 0, len(messages)+2)
	out = append(out,
		content{Role: string(domain.ChatRoleUser), Parts: []part{{Text: c.systemPrompt}}},
		content{Role: string(domain.ChatRoleModel), Parts: []part{{Text: greeting}}},
	)
	for _, m := range messages {
		role := domain.ChatRoleModel
		if m.Role == domain.ChatRoleUser {
			role = domain.ChatRoleUser
		}
		out = append(out, content{Role: string(role), Parts: []part{{Text: m.Content}}})
	}
	return out
}

// collect concatenates candidates[0].content.parts[0].text of every data line.
// Lines that are not valid JSON are skipped.
func collect(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)

	var sb strings.Builder
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var chunk streamChunk
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &chunk); err != nil {
			continue
		}
		if len(chunk.Candidates) == 0 || len(chunk.Candidates[0].Content.Parts) == 0 {
			continue
		}
		sb.WriteString(chunk.Candidates[0].Content.Parts[0].Text)
	}
	return sb.String(), scanner.Err()
}
