package callback

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Anannyachuli/Product-Portfolio/internal/testutil"
	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	ecomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newObserved() (*Logger, *observer.ObservedLogs) {
	log, logs := testutil.ObservedLogger()
	return NewLogger(log), logs
}

var info = &callbacks.RunInfo{Name: "portfolio-assistant", Type: "openai", Component: components.ComponentOfChatModel}

func TestLogger_StartEnd(t *testing.T) {
	l, logs := newObserved()

	ctx := l.OnStart(context.Background(), info, &ecomodel.CallbackInput{
		Messages: []*schema.Message{schema.UserMessage("hi")},
	})
	l.OnEnd(ctx, info, &ecomodel.CallbackOutput{
		Message:    schema.AssistantMessage("hello", nil),
		TokenUsage: &ecomodel.TokenUsage{PromptTokens: 3, CompletionTokens: 1},
	})

	if logs.FilterMessage("model call started").Len() != 1 {
		t.Error("start not logged")
	}
	end := logs.FilterMessage("model call finished").All()
	if len(end) != 1 {
		t.Fatal("end not logged")
	}
	if got := end[0].ContextMap()["reply_len"]; got != int64(5) {
		t.Errorf("reply_len = %v, want 5", got)
	}
}

func TestLogger_Error(t *testing.T) {
	l, logs := newObserved()

	l.OnError(context.Background(), info, errors.New("rate limited"))

	entries := logs.FilterMessage("model call failed").All()
	if len(entries) != 1 {
		t.Fatalf("got %d error entries, want 1", len(entries))
	}
	if entries[0].Level != zap.WarnLevel {
		t.Errorf("level = %v, want warn", entries[0].Level)
	}
}

func TestLogger_StreamOutputIsDrained(t *testing.T) {
	l, logs := newObserved()

	sr := schema.StreamReaderFromArray([]callbacks.CallbackOutput{
		&ecomodel.CallbackOutput{Message: schema.AssistantMessage("a", nil)},
		&ecomodel.CallbackOutput{Message: schema.AssistantMessage("b", nil)},
	})
	l.OnEndWithStreamOutput(context.Background(), info, sr)

	deadline := time.Now().Add(time.Second)
	for logs.FilterMessage("model stream finished").Len() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("stream output never drained")
		}
		time.Sleep(5 * time.Millisecond)
	}

	entry := logs.FilterMessage("model stream finished").All()[0]
	if got := entry.ContextMap()["chunks"]; got != int64(2) {
		t.Errorf("chunks = %v, want 2", got)
	}
}
