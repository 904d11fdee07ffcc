package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gsheetagent/internal/domain/entity"
	"gsheetagent/internal/domain/repository"
	"gsheetagent/internal/infrastructure/metrics"
)

const journalTimeout = 5 * time.Second

type PromptUsecase interface {
	Generate(ctx context.Context, req entity.InstructionRequest) (entity.ModelReply, error)
}

var _ PromptUsecase = (*PromptService)(nil)

// PromptService runs instruction -> translation -> decode -> upload. Every
// failure is terminal and returned as *entity.PipelineError.
type PromptService struct {
	translator repository.Translator
	projects   repository.ScriptProjectFactory
	updater    *ScriptUpdater
	journal    repository.GenerationJournal
	llmTimeout time.Duration
	logger     *slog.Logger
}

func NewPromptService(
	translator repository.Translator,
	projects repository.ScriptProjectFactory,
	updater *ScriptUpdater,
	journal repository.GenerationJournal,
	llmTimeout time.Duration,
	logger *slog.Logger,
) *PromptService {
	return &PromptService{
		translator: translator,
		projects:   projects,
		updater:    updater,
		journal:    journal,
		llmTimeout: llmTimeout,
		logger:     logger,
	}
}

func (s *PromptService) Generate(ctx context.Context, req entity.InstructionRequest) (entity.ModelReply, error) {
	if err := req.Validate(); err != nil {
		perr := entity.NewPipelineError(entity.KindBadRequest, "Instruction, Script ID or timezone not provided", err)
		if errors.Is(err, entity.ErrMissingToken) {
			perr = entity.NewPipelineError(entity.KindUnauthorized, "Unauthorized", err)
		}
		metrics.IncPromptOutcome(string(perr.Kind))
		return entity.ModelReply{}, perr
	}

	start := time.Now()
	gen := entity.NewGeneration(req.RequestID, req.ScriptID, req.Instruction)
	logger := s.logger.With("request_id", gen.ID, "script_id", req.ScriptID)

	reply, perr := s.run(ctx, req, logger)
	if perr != nil {
		gen.Fail(perr)
		metrics.IncPromptOutcome(string(perr.Kind))
		logger.Error("prompt pipeline failed", "kind", perr.Kind, "err", perr.Err)
	} else {
		gen.Succeed(reply.Explanation)
		metrics.IncPromptOutcome(string(entity.OutcomeSucceeded))
		logger.Info("prompt pipeline done", "duration", time.Since(start))
	}
	metrics.ObservePromptDuration(time.Since(start))
	s.record(ctx, gen, logger)

	if perr != nil {
		return entity.ModelReply{}, perr
	}
	return reply, nil
}

func (s *PromptService) run(ctx context.Context, req entity.InstructionRequest, logger *slog.Logger) (entity.ModelReply, *entity.PipelineError) {
	// TRANSLATING
	raw, err := s.translate(ctx, req.Instruction)
	if err != nil {
		return entity.ModelReply{}, entity.NewPipelineError(entity.KindTranslationFailed, entity.MsgTranslationFailed, err)
	}
	logger.Debug("model replied", "provider", s.translator.Provider(), "bytes", len(raw))

	// PARSING
	reply, err := entity.ParseModelReply(raw)
	if err != nil {
		return entity.ModelReply{}, entity.NewPipelineError(entity.KindDecodeFailed, entity.MsgDecodeFailed, err)
	}

	// UPLOADING
	project, err := s.projects.ForToken(ctx, req.BearerToken)
	if err != nil {
		return entity.ModelReply{}, entity.NewPipelineError(entity.KindUploadFailed, err.Error(), err)
	}
	if err := s.updater.UpdateContent(ctx, project, req.ScriptID, req.Timezone, WithCode(reply.Code)); err != nil {
		return entity.ModelReply{}, entity.NewPipelineError(entity.KindUploadFailed, uploadMessage(err), err)
	}

	return reply, nil
}

func (s *PromptService) translate(ctx context.Context, instruction string) (string, error) {
	if s.llmTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.llmTimeout)
		defer cancel()
	}

	raw, err := s.translator.Translate(ctx, instruction)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("translation timed out after %s: %w", s.llmTimeout, err)
		}
		return "", err
	}
	return raw, nil
}

func (s *PromptService) record(ctx context.Context, gen *entity.Generation, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), journalTimeout)
	defer cancel()

	if err := s.journal.Record(ctx, gen); err != nil {
		logger.Warn("journal record failed", "err", err)
	}
}
