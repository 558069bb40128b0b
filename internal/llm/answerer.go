package llm

import (
	"context"
	"strings"
)

// Answerer asks the model about a single phrase.
type Answerer struct {
	client       Client
	systemPrompt string
}

func NewAnswerer(client Client, systemPrompt string) *Answerer {
	return &Answerer{client: client, systemPrompt: systemPrompt}
}

func (a *Answerer) Answer(ctx context.Context, question string) (string, error) {
	var msgs []Message
	if a.systemPrompt != "" {
		msgs = append(msgs, Message{Role: RoleSystem, Content: a.systemPrompt})
	}
	msgs = append(msgs, Message{Role: RoleUser, Content: question})
	resp, err := a.client.Generate(ctx, msgs)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Content), nil
}
