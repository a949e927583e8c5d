package domain

import "time"

// Category groups study material and question banks.
type Category string

const (
	CategoryNotes              Category = "notes"
	CategoryPYQ                Category = "pyq"
	CategoryImportantQuestions Category = "important_questions"
	CategoryReferenceBooks     Category = "reference_books"
	CategoryMindMaps           Category = "mind_maps"
	CategoryFormulas           Category = "formulas"
	CategoryMCQTests           Category = "mcq_tests"
	CategoryIITJEEQuestions    Category = "iit_jee_questions"
)

// Difficulty is an optional hint attached to a question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// OptionLabel identifies one of the four answer slots.
type OptionLabel string

const (
	OptionA OptionLabel = "A"
	OptionB OptionLabel = "B"
	OptionC OptionLabel = "C"
	OptionD OptionLabel = "D"
)

// OptionLabels lists labels in slot order.
var OptionLabels = [4]OptionLabel{OptionA, OptionB, OptionC, OptionD}

// Index returns the slot position of the label, or -1 if it is not A-D.
func (l OptionLabel) Index() int {
	for i, label := range OptionLabels {
		if label == l {
			return i
		}
	}
	return -1
}

// Valid reports whether l is one of A-D.
func (l OptionLabel) Valid() bool {
	return l.Index() >= 0
}

// Question models an MCQ question with exactly four options.
type Question struct {
	ID            string      `json:"id"`
	Category      Category    `json:"category"`
	Class         int         `json:"class"`
	Subject       string      `json:"subject"`
	Chapter       string      `json:"chapter"`
	Prompt        string      `json:"question"`
	Options       [4]string   `json:"options"`
	CorrectAnswer OptionLabel `json:"correctAnswer"`
	Explanation   string      `json:"explanation,omitempty"`
	Difficulty    Difficulty  `json:"difficulty,omitempty"`
	CreatedBy     string      `json:"createdBy,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
}

// Option returns the text stored for label.
func (q Question) Option(label OptionLabel) (string, bool) {
	i := label.Index()
	if i < 0 {
		return "", false
	}
	return q.Options[i], true
}

// OptionView is a label/text pair rendered to test takers.
type OptionView struct {
	Label OptionLabel `json:"label"`
	Text  string      `json:"text"`
}

// QuestionView hides the correct answer from an in-progress session.
type QuestionView struct {
	ID      string        `json:"id"`
	Number  int           `json:"number"`
	Prompt  string        `json:"question"`
	Options [4]OptionView `json:"options"`
}

// NewQuestionView builds the public view of q at zero-based position index.
func NewQuestionView(q Question, index int) QuestionView {
	view := QuestionView{ID: q.ID, Number: index + 1, Prompt: q.Prompt}
	for i, label := range OptionLabels {
		view.Options[i] = OptionView{Label: label, Text: q.Options[i]}
	}
	return view
}

// SessionConfig is supplied once when a test starts.
type SessionConfig struct {
	Category      Category `json:"category" validate:"required,oneof=notes pyq important_questions reference_books mind_maps formulas mcq_tests iit_jee_questions"`
	Class         int      `json:"class" validate:"required,min=1,max=12"`
	QuestionCount int      `json:"questionCount" validate:"min=1,max=100"`
	TimeLimit     int      `json:"timeLimit" validate:"min=1,max=10800"` // seconds
}

// ResultSummary is the immutable scoring snapshot shown after submission.
type ResultSummary struct {
	Score          int     `json:"score"`
	TotalMarks     int     `json:"totalMarks"`
	CorrectAnswers int     `json:"correctAnswers"`
	TotalQuestions int     `json:"totalQuestions"`
	Percentage     float64 `json:"percentage"`
	TimeTaken      int     `json:"timeTaken"`
}

// ResultRecord is the row written by the persistence adapter.
type ResultRecord struct {
	ID             string            `json:"id"`
	UserID         string            `json:"userId"`
	Category       Category          `json:"category"`
	Class          int               `json:"class"`
	Subject        string            `json:"subject"`
	Chapter        *string           `json:"chapter"`
	Score          int               `json:"score"`
	TotalQuestions int               `json:"totalQuestions"`
	CorrectAnswers int               `json:"correctAnswers"`
	TimeTaken      int               `json:"timeTaken"`
	Answers        map[string]string `json:"answers"`
	CreatedAt      time.Time         `json:"createdAt"`
}

// Percentage mirrors ResultSummary.Percentage for a stored row.
func (r ResultRecord) Percentage() float64 {
	total := r.TotalQuestions * MarksPerQuestion
	if total == 0 {
		return 0
	}
	return float64(r.Score*100) / float64(total)
}

// MarksPerQuestion is the fixed weight of every question.
const MarksPerQuestion = 4

// DefaultSubject is recorded on results until tests are subject-scoped.
const DefaultSubject = "General"

// SessionState enumerates test session states.
type SessionState string

const (
	StateLoading    SessionState = "loading"
	StateActive     SessionState = "active"
	StateSubmitting SessionState = "submitting"
	StateTerminated SessionState = "terminated"
)

// Outcome explains how a session reached Terminated.
type Outcome string

const (
	OutcomeNone        Outcome = ""
	OutcomeSubmitted   Outcome = "submitted"
	OutcomeAutoSubmit  Outcome = "auto_submitted"
	OutcomeNoQuestions Outcome = "no_questions"
	OutcomeFetchFailed Outcome = "fetch_failed"
	OutcomeAbandoned   Outcome = "abandoned"
)

// SessionView is a point-in-time snapshot of a test session.
type SessionView struct {
	ID               string                 `json:"id"`
	State            SessionState           `json:"state"`
	Outcome          Outcome                `json:"outcome,omitempty"`
	Config           SessionConfig          `json:"config"`
	CurrentIndex     int                    `json:"currentIndex"`
	TotalQuestions   int                    `json:"totalQuestions"`
	Question         *QuestionView          `json:"question,omitempty"`
	QuestionIDs      []string               `json:"questionIds"`
	Answers          map[string]OptionLabel `json:"answers"`
	RemainingSeconds int                    `json:"remainingSeconds"`
	Result           *ResultSummary         `json:"result,omitempty"`
	SaveError        string                 `json:"saveError,omitempty"`
}

// UserRole is stored on a profile.
type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// User is the authenticated caller, passed explicitly into sessions and services.
type User struct {
	ID    string
	Email string
}

// Profile holds student details kept alongside the hosted auth account.
type Profile struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	FullName        string    `json:"fullName"`
	Phone           string    `json:"phone"`
	ProfilePhotoURL string    `json:"profilePhotoUrl"`
	StudentClass    string    `json:"studentClass"`
	SchoolName      string    `json:"schoolName"`
	City            string    `json:"city"`
	Pincode         string    `json:"pincode"`
	Role            UserRole  `json:"role"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ProfileUpdate carries the self-editable profile fields.
type ProfileUpdate struct {
	FullName        string `json:"fullName" validate:"max=120"`
	Phone           string `json:"phone" validate:"max=20"`
	ProfilePhotoURL string `json:"profilePhotoUrl" validate:"omitempty,url"`
	StudentClass    string `json:"studentClass" validate:"max=10"`
	SchoolName      string `json:"schoolName" validate:"max=200"`
	City            string `json:"city" validate:"max=100"`
	Pincode         string `json:"pincode" validate:"omitempty,numeric,len=6"`
}

// Content is a study-material item whose file lives in the hosted file store.
type Content struct {
	ID          string    `json:"id"`
	Category    Category  `json:"category" validate:"required"`
	Class       int       `json:"class" validate:"required,min=1,max=12"`
	Subject     string    `json:"subject" validate:"required"`
	Chapter     string    `json:"chapter" validate:"required"`
	Title       string    `json:"title" validate:"required,max=300"`
	Description string    `json:"description"`
	FileURL     string    `json:"fileUrl" validate:"required,url"`
	FileType    string    `json:"fileType" validate:"required"`
	FileSize    int64     `json:"fileSize"`
	UploadedBy  string    `json:"uploadedBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ContentFilter narrows catalog listings; zero values match everything.
type ContentFilter struct {
	Category Category
	Class    int
	Subject  string
	Chapter  string
	Search   string
}

// ContentActivity is a recently-viewed or downloaded item.
type ContentActivity struct {
	ContentID string    `json:"contentId"`
	At        time.Time `json:"at"`
	Content   *Content  `json:"content,omitempty"`
}

// NotificationType classifies notifications.
type NotificationType string

const (
	NotificationNewContent   NotificationType = "new_content"
	NotificationExamReminder NotificationType = "exam_reminder"
	NotificationAnnouncement NotificationType = "announcement"
	NotificationSystem       NotificationType = "system"
)

// Notification is created by an admin and fanned out to users.
type Notification struct {
	ID        string           `json:"id"`
	Title     string           `json:"title" validate:"required,max=200"`
	Message   string           `json:"message" validate:"required"`
	Type      NotificationType `json:"type" validate:"required,oneof=new_content exam_reminder announcement system"`
	Metadata  map[string]any   `json:"metadata,omitempty"`
	SentBy    string           `json:"sentBy,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
}

// UserNotification is a notification as seen by one user.
type UserNotification struct {
	NotificationID string       `json:"notificationId"`
	Read           bool         `json:"read"`
	CreatedAt      time.Time    `json:"createdAt"`
	Notification   Notification `json:"notification"`
}

// LeaderboardEntry aggregates one user's saved results.
type LeaderboardEntry struct {
	UserID          string  `json:"userId"`
	FullName        string  `json:"fullName"`
	ProfilePhotoURL string  `json:"profilePhotoUrl,omitempty"`
	Pincode         string  `json:"pincode,omitempty"`
	TotalScore      float64 `json:"totalScore"`
	TestsTaken      int     `json:"testsTaken"`
	AverageScore    float64 `json:"averageScore"`
	Rank            int     `json:"rank"`
}

// Leaderboard is the ranked list plus the caller's own rank, if any.
type Leaderboard struct {
	Entries     []LeaderboardEntry `json:"entries"`
	CurrentRank int                `json:"currentRank,omitempty"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// ChatRole is the author of a chat turn.
type ChatRole string

const (
	ChatRoleUser  ChatRole = "user"
	ChatRoleModel ChatRole = "model"
)

// ChatMessage is one turn sent to the AI helper.
type ChatMessage struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}
