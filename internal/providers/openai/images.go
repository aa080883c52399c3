package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
)

type imageRequest struct {
	Model   string `json:"model"`
	Prompt  string `json:"prompt"`
	N       int    `json:"n"`
	Size    string `json:"size"`
	Quality string `json:"quality,omitempty"`
}

type imageResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
}

// GenerateImage はプロンプトから挿絵を1枚生成し、取得用URLを返します。
func (c *Client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	payload := imageRequest{
		Model:   c.imageModel,
		Prompt:  prompt,
		N:       1,
		Size:    imageSize,
		Quality: "standard",
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return "", fmt.Errorf("リクエストの組み立てに失敗しました: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/images/generations", &buf)
	if err != nil {
		return "", fmt.Errorf("リクエストの組み立てに失敗しました: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	return c.fetchImageURL(httpReq, "images/generations")
}

// EditImage は PNG の原画と透過マスクを渡し、マスク領域だけを
// プロンプトに沿って描き直した画像の取得用URLを返します。
func (c *Client) EditImage(ctx context.Context, basePNG, maskPNG []byte, prompt string) (string, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	imagePart, err := form.CreateFormFile("image", "image.png")
	if err != nil {
		return "", fmt.Errorf("リクエストの組み立てに失敗しました: %w", err)
	}
	if _, err := imagePart.Write(basePNG); err != nil {
		return "", fmt.Errorf("リクエストの組み立てに失敗しました: %w", err)
	}
	maskPart, err := form.CreateFormFile("mask", "mask.png")
	if err != nil {
		return "", fmt.Errorf("リクエストの組み立てに失敗しました: %w", err)
	}
	if _, err := maskPart.Write(maskPNG); err != nil {
		return "", fmt.Errorf("リクエストの組み立てに失敗しました: %w", err)
	}
	for field, value := range map[string]string{
		"model":  c.editModel,
		"prompt": prompt,
		"n":      "1",
		"size":   imageSize,
	} {
		if err := form.WriteField(field, value); err != nil {
			return "", fmt.Errorf("リクエストの組み立てに失敗しました: %w", err)
		}
	}
	if err := form.Close(); err != nil {
		return "", fmt.Errorf("リクエストの組み立てに失敗しました: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/images/edits", &buf)
	if err != nil {
		return "", fmt.Errorf("リクエストの組み立てに失敗しました: %w", err)
	}
	httpReq.Header.Set("Content-Type", form.FormDataContentType())
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	return c.fetchImageURL(httpReq, "images/edits")
}

// fetchImageURL は画像系APIの応答から先頭のURLを取り出すのだ。
func (c *Client) fetchImageURL(httpReq *http.Request, endpoint string) (string, error) {
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%s の呼び出しに失敗しました: %w", endpoint, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("openai status %d", resp.StatusCode)
	}

	var out imageResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("応答の解析に失敗しました: %w", err)
	}
	if len(out.Data) == 0 || out.Data[0].URL == "" {
		return "", fmt.Errorf("応答に画像URLがありません")
	}
	return out.Data[0].URL, nil
}
