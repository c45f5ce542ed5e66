package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/prepdeck/prepdeck-api/internal/domain"
	"github.com/prepdeck/prepdeck-api/internal/domain/practice"
	"github.com/prepdeck/prepdeck-api/internal/platform/logger"
	"github.com/prepdeck/prepdeck-api/internal/service/entitlement"
	"github.com/prepdeck/prepdeck-api/internal/store"
)

// Verify interface compliance at compile time
var _ Service = (*sessionServiceImpl)(nil)

// Config holds the tunable limits of the session service.
type Config struct {
	// DefaultQuestionCount is used when a start request does not specify a
	// count.
	DefaultQuestionCount int

	// MaxQuestionCount caps the session size; larger requests are clamped.
	MaxQuestionCount int
}

// sessionServiceImpl implements the Service interface.
type sessionServiceImpl struct {
	db            *sql.DB
	questionStore store.QuestionStore
	sessionStore  store.PracticeSessionStore
	attemptStore  store.AttemptStore
	entitlement   entitlement.Checker
	cfg           Config
	logger        *slog.Logger
	now           func() time.Time
	runTx         func(ctx context.Context, fn store.TxFn) error
}

// NewService creates a new session Service implementation.
// If logger is nil, a default logger will be used.
func NewService(
	db *sql.DB,
	questionStore store.QuestionStore,
	sessionStore store.PracticeSessionStore,
	attemptStore store.AttemptStore,
	entitlementChecker entitlement.Checker,
	cfg Config,
	logger *slog.Logger,
) Service {
	if db == nil {
		panic("db cannot be nil")
	}
	if questionStore == nil {
		panic("questionStore cannot be nil")
	}
	if sessionStore == nil {
		panic("sessionStore cannot be nil")
	}
	if attemptStore == nil {
		panic("attemptStore cannot be nil")
	}
	if entitlementChecker == nil {
		panic("entitlementChecker cannot be nil")
	}
	if cfg.DefaultQuestionCount <= 0 {
		panic("cfg.DefaultQuestionCount must be positive")
	}
	if cfg.MaxQuestionCount < cfg.DefaultQuestionCount {
		panic("cfg.MaxQuestionCount must be at least cfg.DefaultQuestionCount")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &sessionServiceImpl{
		db:            db,
		questionStore: questionStore,
		sessionStore:  sessionStore,
		attemptStore:  attemptStore,
		entitlement:   entitlementChecker,
		cfg:           cfg,
		logger:        logger.With(slog.String("component", "session_service")),
		now:           time.Now,
	}
	s.runTx = func(ctx context.Context, fn store.TxFn) error {
		return store.RunInTransaction(ctx, s.db, fn)
	}
	return s
}

// Start implements Service.Start.
func (s *sessionServiceImpl) Start(
	ctx context.Context,
	userID uuid.UUID,
	req StartRequest,
) (*StartResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.entitlement.Check(ctx, userID); err != nil {
		return nil, err
	}
	if err := req.Mode.Validate(); err != nil {
		return nil, err
	}
	for _, d := range req.DifficultyFilters {
		if err := d.Validate(); err != nil {
			return nil, err
		}
	}

	count := req.QuestionCount
	if count <= 0 {
		count = s.cfg.DefaultQuestionCount
	}
	if count > s.cfg.MaxQuestionCount {
		count = s.cfg.MaxQuestionCount
	}

	candidates, err := s.questionStore.ListPublishedCandidateIDs(
		ctx, req.TagFilters, req.DifficultyFilters)
	if err != nil {
		log.Error("failed to list candidate questions",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to list candidate questions: %w", err)
	}
	if len(candidates) == 0 {
		log.Debug("no questions match session filters",
			slog.String("user_id", userID.String()),
			slog.Any("tags", req.TagFilters))
		return nil, ErrNoQuestionsAvailable
	}

	startedAt := s.now().UTC()
	seed := practice.Seed(userID.String(), startedAt)
	shuffled := practice.Shuffle(candidates, seed)
	if len(shuffled) > count {
		shuffled = shuffled[:count]
	}

	sess, err := domain.NewPracticeSession(
		userID, req.Mode, shuffled, req.TagFilters, req.DifficultyFilters, startedAt)
	if err != nil {
		return nil, err
	}

	err = s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return s.sessionStore.WithTx(tx).Create(ctx, sess)
	})
	if err != nil {
		log.Error("failed to create session",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	first, err := s.buildQuestionView(ctx, sess, sess.QuestionIDs[0])
	if err != nil {
		return nil, err
	}

	log.Info("practice session started",
		slog.String("user_id", userID.String()),
		slog.String("session_id", sess.ID.String()),
		slog.String("mode", string(sess.Mode)),
		slog.Int("question_count", len(sess.QuestionIDs)))

	return &StartResult{Session: sess, FirstQuestion: first}, nil
}

// GetQuestion implements Service.GetQuestion.
func (s *sessionServiceImpl) GetQuestion(
	ctx context.Context,
	userID, sessionID, questionID uuid.UUID,
) (*QuestionView, error) {
	if err := s.entitlement.Check(ctx, userID); err != nil {
		return nil, err
	}

	sess, err := s.getSession(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if sess.StateFor(questionID) == nil {
		return nil, ErrQuestionNotInSession
	}

	return s.buildQuestionView(ctx, sess, questionID)
}

// NextQuestion implements Service.NextQuestion.
func (s *sessionServiceImpl) NextQuestion(
	ctx context.Context,
	userID, sessionID uuid.UUID,
) (*QuestionView, error) {
	if err := s.entitlement.Check(ctx, userID); err != nil {
		return nil, err
	}

	sess, err := s.getSession(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if sess.Ended() {
		return nil, ErrSessionEnded
	}

	answered := make(map[uuid.UUID]bool, len(sess.QuestionStates))
	for i := range sess.QuestionStates {
		answered[sess.QuestionStates[i].QuestionID] = sess.QuestionStates[i].Answered()
	}

	questionID, ok := practice.FirstUnanswered(sess.QuestionIDs, answered)
	if !ok {
		return nil, ErrNoQuestionsRemaining
	}

	return s.buildQuestionView(ctx, sess, questionID)
}

// SubmitAnswer implements Service.SubmitAnswer.
func (s *sessionServiceImpl) SubmitAnswer(
	ctx context.Context,
	userID, sessionID uuid.UUID,
	req AnswerRequest,
) (*AnswerResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.entitlement.Check(ctx, userID); err != nil {
		return nil, err
	}

	var result *AnswerResult
	err := s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		sessions := s.sessionStore.WithTx(tx)
		attempts := s.attemptStore.WithTx(tx)

		sess, err := sessions.GetByID(ctx, sessionID, userID)
		if err != nil {
			return mapStoreError(err)
		}
		if sess.Ended() {
			return ErrSessionEnded
		}

		state := sess.StateFor(req.QuestionID)
		if state == nil {
			return ErrQuestionNotInSession
		}

		question, err := s.questionStore.GetPublishedByID(ctx, req.QuestionID)
		if err != nil {
			return mapStoreError(err)
		}

		grade, err := practice.Grade(question, req.SelectedChoiceID)
		if err != nil {
			if errors.Is(err, practice.ErrInvalidQuestion) {
				// Corrupt answer key in the question bank. Loud log so it gets
				// fixed; the learner sees a generic failure.
				log.Error("question violates answer-key invariant",
					slog.String("question_id", question.ID.String()))
			}
			return err
		}

		answeredAt := s.now().UTC()
		attempt, err := domain.NewAttempt(
			userID, req.QuestionID, req.SelectedChoiceID, &sessionID,
			grade.IsCorrect, req.TimeSpentSeconds, answeredAt)
		if err != nil {
			return err
		}
		if err := attempts.Create(ctx, attempt); err != nil {
			return fmt.Errorf("failed to record attempt: %w", err)
		}

		if err := sess.RecordAnswer(
			req.QuestionID, req.SelectedChoiceID, grade.IsCorrect, answeredAt); err != nil {
			return err
		}
		if err := sessions.UpdateQuestionState(ctx, sessionID, userID, *state); err != nil {
			return mapStoreError(err)
		}

		result = &AnswerResult{AttemptID: attempt.ID}
		if practice.ShouldShowExplanation(sess.Mode, sess.Ended()) {
			isCorrect := grade.IsCorrect
			result.Reveal = &Reveal{
				IsCorrect:       &isCorrect,
				CorrectChoiceID: grade.CorrectChoiceID,
				CorrectLabel:    grade.CorrectLabel,
				ExplanationMD:   question.ExplanationMD,
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Debug("answer submitted",
		slog.String("user_id", userID.String()),
		slog.String("session_id", sessionID.String()),
		slog.String("question_id", req.QuestionID.String()))

	return result, nil
}

// ToggleMarkForReview implements Service.ToggleMarkForReview.
func (s *sessionServiceImpl) ToggleMarkForReview(
	ctx context.Context,
	userID, sessionID, questionID uuid.UUID,
) (*MarkResult, error) {
	if err := s.entitlement.Check(ctx, userID); err != nil {
		return nil, err
	}

	sess, err := s.getSession(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if sess.Ended() {
		return nil, ErrSessionEnded
	}
	// The flag is frozen once the session leaves the answering phase; a
	// session awaiting review can no longer re-mark questions.
	if sess.Status != domain.SessionStatusInProgress {
		return nil, domain.ErrSessionNotInProgress
	}

	state := sess.StateFor(questionID)
	if state == nil {
		return nil, ErrQuestionNotInSession
	}

	// Marking is an exam-mode affordance; tutor sessions report the flag
	// unchanged.
	if sess.Mode != domain.SessionModeExam {
		return &MarkResult{QuestionID: questionID, MarkedForReview: state.MarkedForReview}, nil
	}

	state.MarkedForReview = !state.MarkedForReview
	if err := s.sessionStore.UpdateQuestionState(ctx, sessionID, userID, *state); err != nil {
		return nil, mapStoreError(err)
	}

	return &MarkResult{QuestionID: questionID, MarkedForReview: state.MarkedForReview}, nil
}

// EnterReview implements Service.EnterReview.
func (s *sessionServiceImpl) EnterReview(
	ctx context.Context,
	userID, sessionID uuid.UUID,
) (*ReviewSummary, error) {
	if err := s.entitlement.Check(ctx, userID); err != nil {
		return nil, err
	}

	sess, err := s.getSession(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if sess.Mode != domain.SessionModeExam {
		return nil, ErrReviewNotAvailable
	}
	if sess.Ended() {
		return nil, ErrSessionEnded
	}

	if sess.Status == domain.SessionStatusInProgress {
		if err := s.sessionStore.SetStatus(
			ctx, sessionID, userID, domain.SessionStatusAwaitingReview); err != nil {
			return nil, mapStoreError(err)
		}
		sess.Status = domain.SessionStatusAwaitingReview
	}

	return buildSummary(sess), nil
}

// End implements Service.End.
func (s *sessionServiceImpl) End(
	ctx context.Context,
	userID, sessionID uuid.UUID,
) (*ReviewSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.entitlement.Check(ctx, userID); err != nil {
		return nil, err
	}

	endedAt := s.now().UTC()
	if err := s.sessionStore.End(ctx, sessionID, userID, endedAt); err != nil {
		return nil, mapStoreError(err)
	}

	sess, err := s.getSession(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}

	log.Info("practice session ended",
		slog.String("user_id", userID.String()),
		slog.String("session_id", sessionID.String()))

	return buildSummary(sess), nil
}

// GetReview implements Service.GetReview.
func (s *sessionServiceImpl) GetReview(
	ctx context.Context,
	userID, sessionID uuid.UUID,
) (*ReviewSummary, error) {
	if err := s.entitlement.Check(ctx, userID); err != nil {
		return nil, err
	}

	sess, err := s.getSession(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}

	return buildSummary(sess), nil
}

// getSession loads a session scoped to its owner, translating store errors
// into the service vocabulary.
func (s *sessionServiceImpl) getSession(
	ctx context.Context,
	sessionID, userID uuid.UUID,
) (*domain.PracticeSession, error) {
	sess, err := s.sessionStore.GetByID(ctx, sessionID, userID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return sess, nil
}

// buildQuestionView renders a question for the session's user: stable
// per-user choice order, reveal attached only once the mode allows it.
func (s *sessionServiceImpl) buildQuestionView(
	ctx context.Context,
	sess *domain.PracticeSession,
	questionID uuid.UUID,
) (*QuestionView, error) {
	question, err := s.questionStore.GetPublishedByID(ctx, questionID)
	if err != nil {
		return nil, mapStoreError(err)
	}

	seed := practice.QuestionSeed(sess.UserID.String(), question.ID.String())
	shuffledChoices := practice.Shuffle(question.Choices, seed)

	choices := make([]ChoiceView, len(shuffledChoices))
	for i, c := range shuffledChoices {
		choices[i] = ChoiceView{ID: c.ID, Label: c.Label, TextMD: c.TextMD}
	}

	position := 0
	for i, id := range sess.QuestionIDs {
		if id == questionID {
			position = i
			break
		}
	}

	state := sess.StateFor(questionID)
	view := &QuestionView{
		QuestionID:      question.ID,
		Slug:            question.Slug,
		StemMD:          question.StemMD,
		Difficulty:      question.Difficulty,
		Choices:         choices,
		Position:        position,
		Total:           len(sess.QuestionIDs),
		Answered:        state.Answered(),
		MarkedForReview: state.MarkedForReview,
	}

	if practice.ShouldShowExplanation(sess.Mode, sess.Ended()) && state.Answered() {
		view.SelectedChoiceID = state.LatestSelectedChoiceID

		correct := correctChoice(question)
		if correct == nil {
			return nil, practice.ErrInvalidQuestion
		}
		view.Reveal = &Reveal{
			IsCorrect:       state.LatestIsCorrect,
			CorrectChoiceID: correct.ID,
			CorrectLabel:    correct.Label,
			ExplanationMD:   question.ExplanationMD,
		}
	}

	return view, nil
}

// correctChoice returns the question's unique correct choice, or nil when
// the answer key is corrupt.
func correctChoice(q *domain.Question) *domain.Choice {
	var correct *domain.Choice
	for i := range q.Choices {
		if q.Choices[i].IsCorrect {
			if correct != nil {
				return nil
			}
			correct = &q.Choices[i]
		}
	}
	return correct
}

// buildSummary rolls a session up into a ReviewSummary, revealing per-question
// correctness only when the mode allows it in the session's current state.
func buildSummary(sess *domain.PracticeSession) *ReviewSummary {
	reveal := practice.ShouldShowExplanation(sess.Mode, sess.Ended())

	summary := &ReviewSummary{
		SessionID:      sess.ID,
		Mode:           sess.Mode,
		Status:         sess.Status,
		TotalQuestions: len(sess.QuestionIDs),
		Entries:        make([]ReviewEntry, len(sess.QuestionStates)),
		StartedAt:      sess.StartedAt,
		EndedAt:        sess.EndedAt,
	}

	correct := 0
	for i := range sess.QuestionStates {
		state := &sess.QuestionStates[i]
		entry := ReviewEntry{
			QuestionID:      state.QuestionID,
			Position:        i,
			Answered:        state.Answered(),
			MarkedForReview: state.MarkedForReview,
		}
		if state.Answered() {
			summary.AnsweredCount++
			if reveal {
				entry.IsCorrect = state.LatestIsCorrect
			}
			if state.LatestIsCorrect != nil && *state.LatestIsCorrect {
				correct++
			}
		}
		if state.MarkedForReview {
			summary.MarkedCount++
		}
		summary.Entries[i] = entry
	}

	if reveal {
		summary.CorrectCount = &correct
	}

	return summary
}

// mapStoreError translates store sentinel errors into the service
// vocabulary; anything else passes through unchanged.
func mapStoreError(err error) error {
	switch {
	case errors.Is(err, store.ErrSessionNotFound):
		return ErrSessionNotFound
	case errors.Is(err, store.ErrSessionEnded):
		return ErrSessionEnded
	case errors.Is(err, store.ErrQuestionNotFound):
		return ErrQuestionNotFound
	}
	return err
}
