package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/Anannyachuli/Product-Portfolio/internal/assistant"
	"github.com/Anannyachuli/Product-Portfolio/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoGateway struct {
	questions []string
}

func (g *echoGateway) Ask(ctx context.Context, message string, history []model.HistoryEntry) (*model.ChatResponse, error) {
	g.questions = append(g.questions, message)
	return &model.ChatResponse{Reply: "reply to " + message, Sections: []model.SectionID{}}, nil
}

func TestRepl(t *testing.T) {
	g := &echoGateway{}
	session := assistant.NewSession(g)
	in := strings.NewReader("2\n\n   \nWhere did she study?\n/quit\nnever sent\n")
	var out bytes.Buffer

	err := repl(context.Background(), session, assistant.NewRenderer(60), in, &out)
	require.NoError(t, err)

	assert.Equal(t, []string{assistant.Starters[1], "Where did she study?"}, g.questions)
	assert.Contains(t, out.String(), "reply to Where did she study?")
	assert.Contains(t, out.String(), "13 of 15")
}

func TestRepl_LimitReached(t *testing.T) {
	g := &echoGateway{}
	session := assistant.NewSession(g)
	in := strings.NewReader(strings.Repeat("hi\n", assistant.MaxMessages+1))
	var out bytes.Buffer

	require.NoError(t, repl(context.Background(), session, assistant.NewRenderer(60), in, &out))
	assert.Len(t, g.questions, assistant.MaxMessages)
	assert.Contains(t, out.String(), assistant.ContactEmail)
}
