// Package callback 提供 Eino Callback 日志支持
package callback

import (
	"context"
	"time"

	"github.com/cloudwego/eino/callbacks"
	ecomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"
)

type startKey struct{}

// Logger 日志回调处理器
// 实现 callbacks.Handler 接口，记录模型调用的开始、结束和错误
type Logger struct {
	logger *zap.Logger
}

var _ callbacks.Handler = (*Logger)(nil)

// NewLogger 创建日志回调处理器
func NewLogger(logger *zap.Logger) *Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Logger{logger: logger.Named("eino")}
}

// OnStart 组件执行开始时调用
func (l *Logger) OnStart(ctx context.Context, info *callbacks.RunInfo, input callbacks.CallbackInput) context.Context {
	fields := l.fields(info)
	if in := ecomodel.ConvCallbackInput(input); in != nil {
		fields = append(fields, zap.Int("messages", len(in.Messages)))
	}
	l.logger.Debug("model call started", fields...)
	return context.WithValue(ctx, startKey{}, time.Now())
}

// OnEnd 组件执行成功结束时调用
func (l *Logger) OnEnd(ctx context.Context, info *callbacks.RunInfo, output callbacks.CallbackOutput) context.Context {
	fields := append(l.fields(info), elapsed(ctx))
	if out := ecomodel.ConvCallbackOutput(output); out != nil {
		if out.Message != nil {
			fields = append(fields, zap.Int("reply_len", len(out.Message.Content)))
		}
		if out.TokenUsage != nil {
			fields = append(fields,
				zap.Int("prompt_tokens", out.TokenUsage.PromptTokens),
				zap.Int("completion_tokens", out.TokenUsage.CompletionTokens))
		}
	}
	l.logger.Debug("model call finished", fields...)
	return ctx
}

// OnError 组件执行出错时调用
func (l *Logger) OnError(ctx context.Context, info *callbacks.RunInfo, err error) context.Context {
	l.logger.Warn("model call failed", append(l.fields(info), elapsed(ctx), zap.Error(err))...)
	return ctx
}

// OnStartWithStreamInput 流式输入开始时调用
func (l *Logger) OnStartWithStreamInput(ctx context.Context, info *callbacks.RunInfo, input *schema.StreamReader[callbacks.CallbackInput]) context.Context {
	input.Close()
	l.logger.Debug("model stream input started", l.fields(info)...)
	return context.WithValue(ctx, startKey{}, time.Now())
}

// OnEndWithStreamOutput 流式输出结束时调用
// 回调拿到的是流的副本，必须读完或关闭
func (l *Logger) OnEndWithStreamOutput(ctx context.Context, info *callbacks.RunInfo, output *schema.StreamReader[callbacks.CallbackOutput]) context.Context {
	fields := l.fields(info)
	go func() {
		defer output.Close()

		chunks := 0
		for {
			_, err := output.Recv()
			if err != nil {
				break
			}
			chunks++
		}
		l.logger.Debug("model stream finished", append(fields, elapsed(ctx), zap.Int("chunks", chunks))...)
	}()
	return ctx
}

func (l *Logger) fields(info *callbacks.RunInfo) []zap.Field {
	if info == nil {
		return nil
	}
	return []zap.Field{
		zap.String("name", info.Name),
		zap.String("type", info.Type),
		zap.String("component", string(info.Component)),
	}
}

func elapsed(ctx context.Context) zap.Field {
	start, ok := ctx.Value(startKey{}).(time.Time)
	if !ok {
		return zap.Skip()
	}
	return zap.Duration("elapsed", time.Since(start))
}
