package agent

import (
	"context"
	"fmt"

	"github.com/chatvault-ai/chatvault/core"
	"github.com/chatvault-ai/chatvault/logging"
	"github.com/chatvault-ai/chatvault/model"
	"github.com/chatvault-ai/chatvault/session"
)

// DefaultInstruction is the orchestrator system prompt seeded into every new
// conversation. It binds the model to the structured JSON reply contract the
// API layer parses.
const DefaultInstruction = `You are the Orchestrator AI Assistant for a project management backend.
Analyze each user request, combine it with the relevant conversation history,
and map the intent to one of: generate user story, generate test cases,
generate dev tasks, save to the work item board, show work items, or other.

Rules:
- Never write to an external system without an explicit user instruction to
  save; generating an artifact and saving it are separate actions.
- If required details are missing, ask the user instead of inventing them.
- Ask for confirmation before any action that creates a permanent record.

All responses MUST be valid JSON of the form:
{
  "content": "conversational message to the user",
  "metadata": {
    "userstory": false,
    "testcase": false,
    "devtask": false,
    "needs_clarification": false,
    "needs_save_confirmation": false
  }
}
Set each metadata flag to true only when the content field contains the
corresponding complete artifact or the described condition holds.`

// Options configure the Orchestrator.
type Options struct {
	// Instruction overrides the default system prompt.
	Instruction string
	// Logger receives turn and auto-save events. Defaults to NoOpLogger.
	Logger logging.Logger
}

// Orchestrator drives one conversation turn per user query against the
// current session. It is the sole producer of assistant messages; everything
// it appends lands in the registry's buffer and is persisted by the
// registry's save triggers.
type Orchestrator struct {
	model       model.Model
	registry    *session.Registry
	instruction string
	logger      logging.Logger
}

// NewOrchestrator creates an orchestrator over the given model and registry.
func NewOrchestrator(m model.Model, reg *session.Registry, optFns ...func(o *Options)) *Orchestrator {
	opts := Options{Instruction: DefaultInstruction, Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Orchestrator{model: m, registry: reg, instruction: opts.Instruction, logger: opts.Logger}
}

// ProcessQuery appends the user query to the current session, generates the
// assistant reply over the full history and appends it too. Both appends are
// followed by a best-effort auto-save: a storage failure is logged but never
// fails the turn, so chat keeps working when persistence is down.
func (o *Orchestrator) ProcessQuery(ctx context.Context, query string) (Reply, error) {
	invocationID := core.NewID()

	// A fresh conversation gets the system instruction as its first entry so
	// it persists with the session and survives a resume.
	if o.registry.Current().MessageCount == 0 {
		o.registry.AppendMessage(core.RoleSystem, o.instruction)
	}
	o.registry.AppendMessage(core.RoleUser, query)
	o.autoSave(ctx, invocationID, "user message")

	resp, err := o.model.Generate(ctx, model.Request{Messages: o.registry.History()})
	if err != nil {
		return Reply{}, fmt.Errorf("generate reply: %w", err)
	}

	o.registry.AppendMessage(core.RoleAssistant, resp.Content)
	o.autoSave(ctx, invocationID, "assistant message")

	reply := ParseReply(resp.Content)
	o.logger.Info("query processed",
		"invocation_id", invocationID,
		"session_id", o.registry.Current().SessionID,
		"model", o.model.Info().Name)
	return reply, nil
}

func (o *Orchestrator) autoSave(ctx context.Context, invocationID, after string) {
	blobName, err := o.registry.SaveCurrent(ctx)
	if err != nil {
		o.logger.Warn("auto-save failed",
			"invocation_id", invocationID, "after", after, "error", err.Error())
		return
	}
	o.logger.Debug("auto-saved",
		"invocation_id", invocationID, "after", after, "blob_name", blobName)
}
