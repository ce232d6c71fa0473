package store

import (
	"context"
	"database/sql"
	"time"
)

// QueryOpts configures event queries.
type QueryOpts struct {
	Limit     int    // max results (0 = unlimited)
	SessionID string // restrict to one session ("" = all)
	SetDir    string // restrict to one question set ("" = all)
}

// Session actions.
const (
	ActionStart = "start"
	ActionEnd   = "end"
)

// SessionEventData marks the start or end of a quiz session.
type SessionEventData struct {
	SessionID       string
	SetDir          string
	Action          string
	QuestionsServed int
	CorrectAnswers  int
	DurationSecs    int
}

// AnswerEventData captures one graded answer.
type AnswerEventData struct {
	SessionID  string
	SetDir     string
	QuestionID string
	Selection  string
	Correct    bool
	TimeMs     int64
}

// AnswerRecord is a stored answer event.
type AnswerRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	AnswerEventData
}

// SessionSummaryRecord is one finished session.
type SessionSummaryRecord struct {
	SessionID       string
	SetDir          string
	Timestamp       time.Time
	QuestionsServed int
	CorrectAnswers  int
	DurationSecs    int
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEventRecord is a stored LLM request event.
type LLMEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsageStat aggregates LLM calls for one purpose or model.
type LLMUsageStat struct {
	Purpose      string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo provides append and query access to journal events.
type EventRepo interface {
	AppendSessionEvent(ctx context.Context, data SessionEventData) error
	AppendAnswerEvent(ctx context.Context, data AnswerEventData) error
	QuerySessionSummaries(ctx context.Context, opts QueryOpts) ([]SessionSummaryRecord, error)
	QueryAnswers(ctx context.Context, opts QueryOpts) ([]AnswerRecord, error)

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEventRecord, error)
	GetLLMEvent(ctx context.Context, id int) (*LLMEventRecord, error)
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStat, error)
	LLMUsageByModel(ctx context.Context) ([]LLMUsageStat, error)
}

// eventRepo implements EventRepo with raw SQL over the journal tables.
type eventRepo struct {
	db  *sql.DB
	now func() time.Time
}

func (r *eventRepo) stamp() int64 {
	return r.now().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
