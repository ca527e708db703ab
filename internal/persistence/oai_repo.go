package persistence

import (
	"context"
	"encoding/json"
	"errors"

	"golang.org/x/time/rate"
)

type oaiChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type oaiChatReq struct {
	Model    string           `json:"model"`
	Messages []oaiChatMessage `json:"messages"`
}

type oaiChatChoice struct {
	Message oaiChatMessage `json:"message"`
}

type oaiChatCompletion struct {
	Id      string          `json:"id"`
	Choices []oaiChatChoice `json:"choices"`
}

// OAIRepo is the OpenAI-backed completion client: one blocking
// chat-completions call per Complete. The limiter throttles request rate;
// retries, if wanted, belong here and not in the roles.
type OAIRepo struct {
	BaseHeaders []string
	Model       string
	Limiter     *rate.Limiter
}

func (r OAIRepo) Complete(ctx context.Context, prompt string) (string, error) {
	if r.Limiter != nil {
		if err := r.Limiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	body, err := json.Marshal(oaiChatReq{
		Model:    r.Model,
		Messages: []oaiChatMessage{{Role: "user", Content: prompt}},
	})

	if err != nil {
		return "", err
	}

	record, err := request[oaiChatCompletion](ctx, reqConfig{
		Method:  "POST",
		Url:     "https://api.openai.com/v1/chat/completions",
		Headers: r.BaseHeaders,
		Body:    body},
		200)

	if err != nil {
		return "", err
	}

	if len(record.Choices) == 0 {
		return "", errors.New("unexpected completion response state error")
	}

	return record.Choices[0].Message.Content, nil
}
