package tracker

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestTrackUsage(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	tokens := 160
	cost := 0.0012
	responseTime := time.Now()

	mock.ExpectExec("INSERT INTO ai_model_usage").
		WithArgs(
			"note_generation", "driver", "1001",
			"claude-3-5-haiku-latest", "anthropic",
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			tokens, cost, true, nil, nil,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	tracker := NewUsageTracker(db)
	err = tracker.TrackUsage(&ModelUsage{
		OperationType:     "note_generation",
		EntityType:        "driver",
		EntityID:          "1001",
		ModelName:         "claude-3-5-haiku-latest",
		ModelProvider:     "anthropic",
		RequestTimestamp:  time.Now(),
		ResponseTimestamp: &responseTime,
		TokensUsed:        &tokens,
		Cost:              &cost,
		Success:           true,
	})
	if err != nil {
		t.Fatalf("TrackUsage() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestTrackUsageFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	errMsg := "API request failed with status 529"

	mock.ExpectExec("INSERT INTO ai_model_usage").
		WithArgs(
			"note_generation", "driver", "1001",
			"claude-3-5-haiku-latest", "anthropic",
			nil, sqlmock.AnyArg(), sqlmock.AnyArg(),
			nil, nil, false, errMsg, nil,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	tracker := NewUsageTracker(db)
	err = tracker.TrackUsage(&ModelUsage{
		OperationType:    "note_generation",
		EntityType:       "driver",
		EntityID:         "1001",
		ModelName:        "claude-3-5-haiku-latest",
		ModelProvider:    "anthropic",
		RequestTimestamp: time.Now(),
		Success:          false,
		ErrorMessage:     &errMsg,
	})
	if err != nil {
		t.Fatalf("TrackUsage() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetUsageStats(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows([]string{
		"total_requests", "successful_requests", "total_tokens", "total_cost", "unique_models",
	}).AddRow(10, 8, 1500, 0.05, 2)

	mock.ExpectQuery("SELECT(.|\n)+FROM ai_model_usage").WillReturnRows(rows)

	tracker := NewUsageTracker(db)
	stats, err := tracker.GetUsageStats(time.Now().AddDate(0, 0, -30))
	if err != nil {
		t.Fatalf("GetUsageStats() error = %v", err)
	}

	if stats.TotalRequests != 10 {
		t.Errorf("TotalRequests = %d", stats.TotalRequests)
	}
	if stats.SuccessRate != 0.8 {
		t.Errorf("SuccessRate = %v, want 0.8", stats.SuccessRate)
	}
	if stats.TotalTokens != 1500 {
		t.Errorf("TotalTokens = %d", stats.TotalTokens)
	}
	if stats.TotalCost != 0.05 {
		t.Errorf("TotalCost = %v", stats.TotalCost)
	}
}

func TestGetUsageStatsEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows([]string{
		"total_requests", "successful_requests", "total_tokens", "total_cost", "unique_models",
	}).AddRow(0, 0, 0, 0.0, 0)

	mock.ExpectQuery("SELECT(.|\n)+FROM ai_model_usage").WillReturnRows(rows)

	tracker := NewUsageTracker(db)
	stats, err := tracker.GetUsageStats(time.Now())
	if err != nil {
		t.Fatalf("GetUsageStats() error = %v", err)
	}
	if stats.SuccessRate != 0 {
		t.Errorf("SuccessRate = %v, want 0 with no requests", stats.SuccessRate)
	}
}

func TestGetModelBreakdown(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	avgMs := 850.0
	rows := sqlmock.NewRows([]string{
		"model_name", "model_provider", "request_count", "total_tokens", "total_cost", "avg_response_time_ms",
	}).
		AddRow("claude-3-5-haiku-latest", "anthropic", 6, 900, 0.03, &avgMs).
		AddRow("llama3.2", "local", 4, 600, 0.0, nil)

	mock.ExpectQuery("SELECT(.|\n)+FROM ai_model_usage(.|\n)+GROUP BY").WillReturnRows(rows)

	tracker := NewUsageTracker(db)
	breakdown, err := tracker.GetModelBreakdown(time.Now().AddDate(0, 0, -7))
	if err != nil {
		t.Fatalf("GetModelBreakdown() error = %v", err)
	}

	if len(breakdown) != 2 {
		t.Fatalf("breakdown = %d entries, want 2", len(breakdown))
	}
	if breakdown[0].ModelName != "claude-3-5-haiku-latest" || breakdown[0].RequestCount != 6 {
		t.Errorf("breakdown[0] = %+v", breakdown[0])
	}
	if breakdown[1].AvgResponseTimeMs != nil {
		t.Errorf("breakdown[1].AvgResponseTimeMs = %v, want nil", breakdown[1].AvgResponseTimeMs)
	}
}

func TestNewModelConfig(t *testing.T) {
	if got := NewModelConfig(nil, nil); got != nil {
		t.Errorf("NewModelConfig(nil, nil) = %v, want nil", *got)
	}

	temp := 0.2
	maxTokens := 1000
	got := NewModelConfig(&temp, &maxTokens)
	if got == nil {
		t.Fatal("NewModelConfig() = nil")
	}
	want := `{"temperature":0.2,"max_tokens":1000}`
	if *got != want {
		t.Errorf("NewModelConfig() = %q, want %q", *got, want)
	}
}

func TestNewUsageMetadata(t *testing.T) {
	got := NewUsageMetadata(UsageMetadata{RunID: "abc", OperationDetail: "note"})
	if got == nil {
		t.Fatal("NewUsageMetadata() = nil")
	}
	want := `{"run_id":"abc","operation_detail":"note"}`
	if *got != want {
		t.Errorf("NewUsageMetadata() = %q, want %q", *got, want)
	}
}
