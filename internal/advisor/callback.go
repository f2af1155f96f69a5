package advisor

import (
	"context"

	"github.com/cloudwego/eino/callbacks"
	ecmodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	log "github.com/sirupsen/logrus"
)

// traceCallback logs each component run of an advisor chain at debug level.
type traceCallback struct {
	kind string
}

func (cb *traceCallback) fields(info *callbacks.RunInfo) log.Fields {
	f := log.Fields{"kind": cb.kind}
	if info != nil {
		f["component"] = string(info.Component)
		f["node"] = info.Name
	}
	return f
}

func (cb *traceCallback) OnStart(ctx context.Context, info *callbacks.RunInfo, input callbacks.CallbackInput) context.Context {
	log.WithFields(cb.fields(info)).Debug("advisor step started")
	return ctx
}

func (cb *traceCallback) OnEnd(ctx context.Context, info *callbacks.RunInfo, output callbacks.CallbackOutput) context.Context {
	entry := log.WithFields(cb.fields(info))
	if out := ecmodel.ConvCallbackOutput(output); out != nil && out.TokenUsage != nil {
		entry = entry.WithFields(log.Fields{
			"prompt_tokens":     out.TokenUsage.PromptTokens,
			"completion_tokens": out.TokenUsage.CompletionTokens,
		})
	}
	entry.Debug("advisor step finished")
	return ctx
}

func (cb *traceCallback) OnError(ctx context.Context, info *callbacks.RunInfo, err error) context.Context {
	log.WithFields(cb.fields(info)).WithError(err).Debug("advisor step failed")
	return ctx
}

// The advisor never streams; readers are closed so the producer is not blocked.
func (cb *traceCallback) OnStartWithStreamInput(ctx context.Context, info *callbacks.RunInfo,
	input *schema.StreamReader[callbacks.CallbackInput]) context.Context {
	input.Close()
	return ctx
}

func (cb *traceCallback) OnEndWithStreamOutput(ctx context.Context, info *callbacks.RunInfo,
	output *schema.StreamReader[callbacks.CallbackOutput]) context.Context {
	output.Close()
	return ctx
}
