package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"roit-learning-service/internal/domain"

	"github.com/google/uuid"
)

// SessionRepository abstracts where live test sessions are kept (in-memory, Redis-marked, etc).
type SessionRepository interface {
	Put(session *TestSession)
	Get(id string) (*TestSession, bool)
	Delete(id string)
}

// TestOptions tunes the session driver.
type TestOptions struct {
	// TickInterval drives the clock; zero leaves ticking to the caller.
	TickInterval         time.Duration
	Retention            time.Duration
	DefaultQuestionCount int
	DefaultTimeLimit     int
}

// NavAction is a navigation request from the question navigator.
type NavAction string

const (
	NavNext     NavAction = "next"
	NavPrevious NavAction = "previous"
	NavJump     NavAction = "jump"
)

// TestService owns the lifecycle of MCQ test sessions.
type TestService struct {
	sessions SessionRepository
	bank     QuestionBank
	saver    ResultSaver
	opts     TestOptions
	now      func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewTestService(sessions SessionRepository, bank QuestionBank, saver ResultSaver, opts TestOptions) *TestService {
	return NewTestServiceWithClock(sessions, bank, saver, opts, time.Now)
}

// NewTestServiceWithClock is used by tests that step the clock by hand.
func NewTestServiceWithClock(sessions SessionRepository, bank QuestionBank, saver ResultSaver, opts TestOptions, now func() time.Time) *TestService {
	if opts.DefaultQuestionCount <= 0 {
		opts.DefaultQuestionCount = 10
	}
	if opts.DefaultTimeLimit <= 0 {
		opts.DefaultTimeLimit = 600
	}
	if opts.Retention <= 0 {
		opts.Retention = 10 * time.Minute
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &TestService{
		sessions: sessions,
		bank:     bank,
		saver:    saver,
		opts:     opts,
		now:      now,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start validates cfg, loads questions and activates a new session for user.
// Missing category or class yields ErrInvalidConfig before anything is fetched.
func (s *TestService) Start(ctx context.Context, user domain.User, cfg domain.SessionConfig) (domain.SessionView, error) {
	if cfg.QuestionCount == 0 {
		cfg.QuestionCount = s.opts.DefaultQuestionCount
	}
	if cfg.TimeLimit == 0 {
		cfg.TimeLimit = s.opts.DefaultTimeLimit
	}
	if err := validate.Struct(cfg); err != nil {
		return domain.SessionView{}, fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}

	session := NewTestSessionWithClock(uuid.NewString(), user, cfg, s.saver, s.now)
	if err := session.Load(ctx, s.bank); err != nil {
		return session.View(), err
	}

	s.sessions.Put(session)
	s.wg.Add(1)
	go s.drive(session)
	return session.View(), nil
}

// drive ticks the session clock and evicts the session some time after it ends.
func (s *TestService) drive(session *TestSession) {
	defer s.wg.Done()
	if s.opts.TickInterval > 0 {
		session.Run(s.ctx, s.opts.TickInterval)
	}
	select {
	case <-session.Done():
	case <-s.ctx.Done():
		return
	}

	timer := time.NewTimer(s.opts.Retention)
	defer timer.Stop()
	select {
	case <-timer.C:
		s.sessions.Delete(session.ID())
	case <-s.ctx.Done():
	}
}

// Session returns the session id owned by user.
func (s *TestService) Session(user domain.User, id string) (*TestSession, error) {
	session, ok := s.sessions.Get(id)
	if !ok || session.Owner().ID != user.ID {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// View returns the current snapshot of a session.
func (s *TestService) View(user domain.User, id string) (domain.SessionView, error) {
	session, err := s.Session(user, id)
	if err != nil {
		return domain.SessionView{}, err
	}
	return session.View(), nil
}

// SelectAnswer records an option for the current question.
func (s *TestService) SelectAnswer(user domain.User, id string, label domain.OptionLabel) (domain.SessionView, error) {
	session, err := s.Session(user, id)
	if err != nil {
		return domain.SessionView{}, err
	}
	if err := session.SelectAnswer(label); err != nil {
		return session.View(), err
	}
	return session.View(), nil
}

// Navigate moves the current question; out-of-range targets are clamped.
func (s *TestService) Navigate(user domain.User, id string, action NavAction, index int) (domain.SessionView, error) {
	session, err := s.Session(user, id)
	if err != nil {
		return domain.SessionView{}, err
	}
	switch action {
	case NavNext:
		err = session.Next()
	case NavPrevious:
		err = session.Previous()
	case NavJump:
		err = session.JumpTo(index)
	default:
		return session.View(), fmt.Errorf("%w: unsupported navigation %q", domain.ErrInvalidInput, action)
	}
	return session.View(), err
}

// Submit scores the session. A save failure is reported inside the Submission, not as err.
func (s *TestService) Submit(ctx context.Context, user domain.User, id string) (Submission, domain.SessionView, error) {
	session, err := s.Session(user, id)
	if err != nil {
		return Submission{}, domain.SessionView{}, err
	}
	submission, err := session.Submit(ctx)
	if errors.Is(err, domain.ErrSessionNotActive) {
		if prior, ok := session.Result(); ok {
			return prior, session.View(), err
		}
	}
	return submission, session.View(), err
}

// Abandon stops the clock and forgets the session.
func (s *TestService) Abandon(user domain.User, id string) error {
	session, err := s.Session(user, id)
	if err != nil {
		return err
	}
	session.Abandon()
	s.sessions.Delete(id)
	return nil
}

// Close stops every tick driver and waits for them to exit.
func (s *TestService) Close() {
	s.cancel()
	s.wg.Wait()
}
