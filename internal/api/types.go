package api

// Task status values understood by the backend.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Task priority values understood by the backend.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

type User struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	Department string `json:"department"`
	IsActive   bool   `json:"is_active"`
	IsAdmin    bool   `json:"is_admin"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

type Task struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	AssignedTo  int64  `json:"assigned_to"`
	CreatedBy   int64  `json:"created_by"`
	Deadline    string `json:"deadline"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type Conversation struct {
	ID            int64  `json:"id"`
	UserID        int64  `json:"user_id"`
	ThreadID      string `json:"thread_id"`
	Title         string `json:"title"`
	InputTokens   int64  `json:"input_tokens"`
	OutputTokens  int64  `json:"output_tokens"`
	ThoughtTokens int64  `json:"thought_tokens"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

type Message struct {
	ID             int64  `json:"id"`
	ConversationID int64  `json:"conversation_id"`
	Content        string `json:"content"`
	IsUserMessage  bool   `json:"is_user_message"`
	InputTokens    int64  `json:"input_tokens"`
	OutputTokens   int64  `json:"output_tokens"`
	CreatedAt      string `json:"created_at"`
}

type PerformanceEvaluation struct {
	ID                         int64   `json:"id"`
	UserID                     int64   `json:"user_id"`
	TasksCompletedTotal        int64   `json:"tasks_completed_total"`
	TasksCompletedOnTime       int64   `json:"tasks_completed_on_time"`
	AverageTaskCompletionTime  float64 `json:"average_task_completion_time"`
	TaskPriorityCompletionRate float64 `json:"task_priority_completion_rate"`
	OverallRating              string  `json:"overall_rating"`
	LastUpdated                string  `json:"last_updated"`
}

// DetectedTask is a backend suggestion; it only becomes a Task once the user
// confirms creation.
type DetectedTask struct {
	Title             string  `json:"title"`
	Description       string  `json:"description"`
	Priority          string  `json:"priority"`
	EstimatedDeadline *string `json:"estimated_deadline"`
	Confidence        float64 `json:"confidence"`
}

type Note struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// NotesPage is the paginated envelope the notes endpoints return.
type NotesPage struct {
	Notes    []Note `json:"notes"`
	Total    int    `json:"total"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

// ChatRequest is the body of POST /conversations/chat. ThreadID is omitted on
// the first turn; the backend issues one and it must be echoed on later turns.
type ChatRequest struct {
	UserID   int64  `json:"user_id"`
	Message  string `json:"message"`
	ThreadID string `json:"thread_id,omitempty"`
	Model    string `json:"model,omitempty"`
}

type ChatResponse struct {
	Reply          string   `json:"reply"`
	InputTokens    int64    `json:"input_tokens"`
	OutputTokens   int64    `json:"output_tokens"`
	ThoughtTokens  int64    `json:"thought_tokens,omitempty"`
	MessageCount   int64    `json:"message_count"`
	ConversationID int64    `json:"conversation_id"`
	ThreadID       string   `json:"thread_id"`
	Notifications  []string `json:"notifications,omitempty"`
}

type DetectResponse struct {
	DetectedTasks []DetectedTask `json:"detected_tasks"`
	Response      string         `json:"response,omitempty"`
}

type UserPerformanceSummary struct {
	UserID                     int64   `json:"user_id"`
	TasksCompletedTotal        int64   `json:"tasks_completed_total"`
	TasksCompletedOnTime       int64   `json:"tasks_completed_on_time"`
	AverageTaskCompletionTime  float64 `json:"average_task_completion_time"`
	TaskPriorityCompletionRate float64 `json:"task_priority_completion_rate"`
	OverallRating              string  `json:"overall_rating"`
}

type TeamPerformanceSummary struct {
	TotalUsers           int64   `json:"total_users"`
	TotalTasks           int64   `json:"total_tasks"`
	TasksCompleted       int64   `json:"tasks_completed"`
	AverageRating        float64 `json:"average_rating"`
	OnTimeCompletionRate float64 `json:"on_time_completion_rate"`
}

type AnalyticsPattern struct {
	Pattern     string  `json:"pattern"`
	Description string  `json:"description"`
	Confidence  float64 `json:"confidence"`
}

type UserAnalytics struct {
	UserID          int64          `json:"user_id"`
	TasksByStatus   map[string]int `json:"tasks_by_status"`
	TasksByPriority map[string]int `json:"tasks_by_priority"`
	CompletionRate  float64        `json:"completion_rate"`
}

type TrendPoint struct {
	Period    string `json:"period"`
	Created   int64  `json:"created"`
	Completed int64  `json:"completed"`
}
