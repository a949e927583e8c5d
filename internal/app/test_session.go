package app

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"roit-learning-service/internal/domain"
)

// QuestionBank fetches a bounded, filtered set of questions.
// An empty slice (not an error) means nothing is available.
type QuestionBank interface {
	FetchQuestions(ctx context.Context, category domain.Category, class, limit int) ([]domain.Question, error)
}

// ResultSaver writes a finished test result.
type ResultSaver interface {
	SaveResult(ctx context.Context, record domain.ResultRecord) error
}

// Submission is what a caller gets back from a successful submit. SaveError is
// informational: the result is authoritative whether or not the write succeeded.
type Submission struct {
	Result    domain.ResultSummary
	SaveError error
}

// TestSession is one user's attempt at a configured test.
// All state is guarded by mu; the tick driver and user actions race only through it.
type TestSession struct {
	id    string
	owner domain.User
	cfg   domain.SessionConfig
	saver ResultSaver
	now   func() time.Time

	mu          sync.Mutex
	state       domain.SessionState
	outcome     domain.Outcome
	questions   []domain.Question
	index       int
	answers     map[string]domain.OptionLabel
	startedAt   time.Time
	deadline    time.Time
	stoppedAt   int
	result      *domain.ResultSummary
	saveErr     error
	subscribers map[chan domain.SessionView]struct{}
	done        chan struct{}
}

// NewTestSession creates a session in the Loading state.
func NewTestSession(id string, owner domain.User, cfg domain.SessionConfig, saver ResultSaver) *TestSession {
	return NewTestSessionWithClock(id, owner, cfg, saver, time.Now)
}

// NewTestSessionWithClock allows deterministic deadlines in tests.
func NewTestSessionWithClock(id string, owner domain.User, cfg domain.SessionConfig, saver ResultSaver, now func() time.Time) *TestSession {
	return &TestSession{
		id:          id,
		owner:       owner,
		cfg:         cfg,
		saver:       saver,
		now:         now,
		state:       domain.StateLoading,
		answers:     make(map[string]domain.OptionLabel),
		subscribers: make(map[chan domain.SessionView]struct{}),
		done:        make(chan struct{}),
	}
}

func (s *TestSession) ID() string                   { return s.id }
func (s *TestSession) Owner() domain.User           { return s.owner }
func (s *TestSession) Config() domain.SessionConfig { return s.cfg }

// Done is closed once the session reaches Terminated.
func (s *TestSession) Done() <-chan struct{} {
	return s.done
}

// State returns the current state.
func (s *TestSession) State() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Load performs the single question fetch. On an empty or failed fetch the
// session terminates without ever becoming active.
func (s *TestSession) Load(ctx context.Context, bank QuestionBank) error {
	s.mu.Lock()
	if s.state != domain.StateLoading {
		s.mu.Unlock()
		return domain.ErrSessionNotActive
	}
	s.mu.Unlock()

	questions, err := bank.FetchQuestions(ctx, s.cfg.Category, s.cfg.Class, s.cfg.QuestionCount)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != domain.StateLoading {
		// abandoned while the fetch was in flight
		return domain.ErrSessionNotActive
	}
	if err != nil {
		s.terminateLocked(domain.OutcomeFetchFailed)
		return fmt.Errorf("%w: %w", domain.ErrQuestionFetch, err)
	}
	if len(questions) == 0 {
		s.terminateLocked(domain.OutcomeNoQuestions)
		return domain.ErrNoQuestions
	}
	if s.cfg.QuestionCount > 0 && len(questions) > s.cfg.QuestionCount {
		questions = questions[:s.cfg.QuestionCount]
	}

	s.questions = questions
	s.index = 0
	s.startedAt = s.now()
	s.deadline = s.startedAt.Add(time.Duration(s.cfg.TimeLimit) * time.Second)
	s.state = domain.StateActive
	s.broadcastLocked()
	return nil
}

// SelectAnswer records label for the current question, replacing any earlier choice.
func (s *TestSession) SelectAnswer(label domain.OptionLabel) error {
	if !label.Valid() {
		return domain.ErrInvalidOption
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != domain.StateActive {
		return domain.ErrSessionNotActive
	}
	id := s.questions[s.index].ID
	if s.answers[id] == label {
		return nil
	}
	s.answers[id] = label
	s.broadcastLocked()
	return nil
}

// Next moves forward one question; a no-op on the last question.
func (s *TestSession) Next() error {
	return s.move(func(i int) int { return i + 1 })
}

// Previous moves back one question; a no-op on the first question.
func (s *TestSession) Previous() error {
	return s.move(func(i int) int { return i - 1 })
}

// JumpTo moves directly to index, clamped into range.
func (s *TestSession) JumpTo(index int) error {
	return s.move(func(int) int { return index })
}

func (s *TestSession) move(target func(current int) int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != domain.StateActive {
		return domain.ErrSessionNotActive
	}
	next := target(s.index)
	if next < 0 {
		next = 0
	}
	if last := len(s.questions) - 1; next > last {
		next = last
	}
	if next != s.index {
		s.index = next
		s.broadcastLocked()
	}
	return nil
}

// Remaining returns whole seconds left on the clock, never negative.
func (s *TestSession) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remainingLocked()
}

// Tick re-reads the clock against the deadline and submits once it has run out.
// It reports whether this call performed the automatic submission.
func (s *TestSession) Tick(ctx context.Context) bool {
	s.mu.Lock()
	if s.state != domain.StateActive {
		s.mu.Unlock()
		return false
	}
	if s.remainingLocked() > 0 {
		s.broadcastLocked()
		s.mu.Unlock()
		return false
	}
	s.mu.Unlock()

	_, err := s.submit(ctx, domain.OutcomeAutoSubmit)
	return err == nil
}

// Submit ends the session on user request. Only the first of a manual submit
// and the clock expiry succeeds; the loser gets ErrSessionNotActive.
func (s *TestSession) Submit(ctx context.Context) (Submission, error) {
	return s.submit(ctx, domain.OutcomeSubmitted)
}

func (s *TestSession) submit(ctx context.Context, outcome domain.Outcome) (Submission, error) {
	s.mu.Lock()
	if s.state != domain.StateActive {
		s.mu.Unlock()
		return Submission{}, domain.ErrSessionNotActive
	}
	s.stoppedAt = s.remainingLocked()
	s.state = domain.StateSubmitting
	timeTaken := s.elapsedLocked()
	questions := s.questions
	frozen := make(map[string]domain.OptionLabel, len(s.answers))
	for id, label := range s.answers {
		frozen[id] = label
	}
	s.broadcastLocked()
	s.mu.Unlock()

	summary := ScoreAnswers(questions, frozen, timeTaken)

	var saveErr error
	if s.saver != nil {
		saveErr = s.saver.SaveResult(ctx, s.record(summary, frozen))
		if saveErr != nil {
			log.Printf("save result for session %s (user %s): %v", s.id, s.owner.ID, saveErr)
		}
	}

	s.mu.Lock()
	s.result = &summary
	s.saveErr = saveErr
	s.terminateLocked(outcome)
	s.mu.Unlock()

	return Submission{Result: summary, SaveError: saveErr}, nil
}

func (s *TestSession) record(summary domain.ResultSummary, answers map[string]domain.OptionLabel) domain.ResultRecord {
	snapshot := make(map[string]string, len(answers))
	for id, label := range answers {
		snapshot[id] = string(label)
	}
	return domain.ResultRecord{
		UserID:         s.owner.ID,
		Category:       s.cfg.Category,
		Class:          s.cfg.Class,
		Subject:        domain.DefaultSubject,
		Score:          summary.Score,
		TotalQuestions: summary.TotalQuestions,
		CorrectAnswers: summary.CorrectAnswers,
		TimeTaken:      summary.TimeTaken,
		Answers:        snapshot,
		CreatedAt:      s.now(),
	}
}

// Abandon discards a session that has not been submitted. It is a no-op otherwise.
func (s *TestSession) Abandon() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == domain.StateLoading || s.state == domain.StateActive {
		s.terminateLocked(domain.OutcomeAbandoned)
	}
}

// Result returns the summary once the session has been scored.
func (s *TestSession) Result() (Submission, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return Submission{}, false
	}
	return Submission{Result: *s.result, SaveError: s.saveErr}, true
}

// View returns a snapshot safe to hand to clients.
func (s *TestSession) View() domain.SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Run drives Tick every interval until the session terminates or ctx is done.
func (s *TestSession) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Subscribe returns a channel of snapshots published on every change and tick.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *TestSession) Subscribe() (<-chan domain.SessionView, func()) {
	ch := make(chan domain.SessionView, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	initial := s.snapshotLocked()
	s.mu.Unlock()

	ch <- initial

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *TestSession) terminateLocked(outcome domain.Outcome) {
	s.state = domain.StateTerminated
	s.outcome = outcome
	s.broadcastLocked()
	select {
	case <-s.done:
	default:
		close(s.done)
	}
}

func (s *TestSession) remainingLocked() int {
	switch s.state {
	case domain.StateLoading:
		return s.cfg.TimeLimit
	case domain.StateActive:
	default:
		// frozen at submission; zero for sessions that never ran
		return s.stoppedAt
	}
	left := s.deadline.Sub(s.now())
	if left <= 0 {
		return 0
	}
	return int((left + time.Second - 1) / time.Second)
}

func (s *TestSession) elapsedLocked() int {
	elapsed := int(s.now().Sub(s.startedAt) / time.Second)
	if elapsed < 0 {
		return 0
	}
	if elapsed > s.cfg.TimeLimit {
		return s.cfg.TimeLimit
	}
	return elapsed
}

func (s *TestSession) broadcastLocked() {
	view := s.snapshotLocked()
	for ch := range s.subscribers {
		select {
		case ch <- view:
		default:
			// drop the oldest pending snapshot so a slow reader never blocks the session
			select {
			case <-ch:
			default:
			}
			ch <- view
		}
	}
}

func (s *TestSession) snapshotLocked() domain.SessionView {
	view := domain.SessionView{
		ID:               s.id,
		State:            s.state,
		Outcome:          s.outcome,
		Config:           s.cfg,
		CurrentIndex:     s.index,
		TotalQuestions:   len(s.questions),
		QuestionIDs:      make([]string, 0, len(s.questions)),
		Answers:          make(map[string]domain.OptionLabel, len(s.answers)),
		RemainingSeconds: s.remainingLocked(),
	}
	for _, q := range s.questions {
		view.QuestionIDs = append(view.QuestionIDs, q.ID)
	}
	for id, label := range s.answers {
		view.Answers[id] = label
	}
	if s.state == domain.StateActive || s.state == domain.StateSubmitting {
		q := domain.NewQuestionView(s.questions[s.index], s.index)
		view.Question = &q
	}
	if s.result != nil {
		result := *s.result
		view.Result = &result
	}
	if s.saveErr != nil {
		view.SaveError = s.saveErr.Error()
	}
	return view
}
