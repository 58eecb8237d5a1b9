package faceapi

import "time"

// User is the backend account profile.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
	IsActive bool   `json:"is_active"`
}

// TokenPair is the credential set returned by login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
}

// Person is a registered identity owned by the backend.
type Person struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Active      bool      `json:"active"`
	PhotoCount  int       `json:"photo_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PersonCreate is the payload for registering a person.
type PersonCreate struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// PersonUpdate is a partial update; nil fields are left unchanged.
type PersonUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Active      *bool   `json:"active,omitempty"`
}

// RecognitionLog is one entry of the backend's recognition audit trail.
type RecognitionLog struct {
	ID             string    `json:"id"`
	PersonID       string    `json:"person_id,omitempty"`
	PersonName     string    `json:"person_name,omitempty"`
	Recognized     bool      `json:"recognized"`
	Confidence     float64   `json:"confidence"`
	Status         string    `json:"status"`
	ProcessingTime float64   `json:"processing_time"`
	CreatedAt      time.Time `json:"created_at"`
}

// RecognitionLogPage is a paged slice of the audit trail.
type RecognitionLogPage struct {
	Logs  []RecognitionLog `json:"logs"`
	Total int              `json:"total"`
	Page  int              `json:"page"`
	Size  int              `json:"size"`
}

// RecognitionStats summarizes the backend's recognition activity.
type RecognitionStats struct {
	TotalRecognitions int     `json:"total_recognitions"`
	SuccessCount      int     `json:"success_count"`
	SuccessRate       float64 `json:"success_rate"`
	AvgConfidence     float64 `json:"avg_confidence"`
	AvgProcessingTime float64 `json:"avg_processing_time"`
}

// DashboardStats is the headline view of the service.
type DashboardStats struct {
	TotalPeople       int     `json:"total_people"`
	ActivePeople      int     `json:"active_people"`
	TotalPhotos       int     `json:"total_photos"`
	TotalRecognitions int     `json:"total_recognitions"`
	RecognitionsToday int     `json:"recognitions_today"`
	SuccessRate       float64 `json:"success_rate"`
}

// ActivityItem is one row of the dashboard's recent-activity feed.
type ActivityItem struct {
	Type       string    `json:"type"`
	PersonName string    `json:"person_name,omitempty"`
	Status     string    `json:"status,omitempty"`
	Confidence float64   `json:"confidence,omitempty"`
	At         time.Time `json:"at"`
}

// DailyCount is a per-day datapoint of the analytics overview.
type DailyCount struct {
	Date  string  `json:"date"`
	Count int     `json:"count"`
	Rate  float64 `json:"rate,omitempty"`
}

// TopPerson is a most-recognized-person row of the analytics overview.
type TopPerson struct {
	PersonID   string `json:"person_id"`
	PersonName string `json:"person_name"`
	Count      int    `json:"count"`
}

// AnalyticsOverview aggregates daily recognition trends for the last N days.
type AnalyticsOverview struct {
	DailyRecognitions []DailyCount `json:"daily_recognitions"`
	SuccessRateTrend  []DailyCount `json:"success_rate_trend"`
	TopPersons        []TopPerson  `json:"top_persons"`
}
