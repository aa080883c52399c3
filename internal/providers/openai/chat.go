package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	MaxTokens      int           `json:"max_tokens,omitempty"`
	Temperature    float64       `json:"temperature,omitempty"`
	ResponseFormat *chatFormat   `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role string `json:"role"`
	// Content は素のテキストか、テキストと画像を混ぜたパート列を取る
	Content any `json:"content"`
}

type chatFormat struct {
	Type string `json:"type"`
}

type contentPart struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *contentImage `json:"image_url,omitempty"`
}

type contentImage struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// DescribeImage は data URL で渡された写真を視覚モデルに読ませ、
// 指示文に沿った説明テキストを返します。
func (c *Client) DescribeImage(ctx context.Context, instruction, imageDataURL string) (string, error) {
	payload := chatRequest{
		Model:     c.visionModel,
		MaxTokens: visionMaxTokens,
		Messages: []chatMessage{
			{
				Role: "user",
				Content: []contentPart{
					{Type: "text", Text: instruction},
					{Type: "image_url", ImageURL: &contentImage{URL: imageDataURL}},
				},
			},
		},
	}
	return c.completeChat(ctx, payload)
}

// GenerateStory は JSON モードの対話補完で物語テキストを生成します。
func (c *Client) GenerateStory(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	payload := chatRequest{
		Model:          c.chatModel,
		Temperature:    storyTemperature,
		ResponseFormat: &chatFormat{Type: "json_object"},
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	}
	return c.completeChat(ctx, payload)
}

// completeChat は chat/completions を呼び、先頭の選択肢の本文を返すのだ。
func (c *Client) completeChat(ctx context.Context, payload chatRequest) (string, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return "", fmt.Errorf("リクエストの組み立てに失敗しました: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", &buf)
	if err != nil {
		return "", fmt.Errorf("リクエストの組み立てに失敗しました: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("chat/completions の呼び出しに失敗しました: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("openai status %d", resp.StatusCode)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("応答の解析に失敗しました: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("応答に選択肢がありません")
	}
	text := strings.TrimSpace(out.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("応答が空です")
	}
	return text, nil
}
