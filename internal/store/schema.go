package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table and column names shared by the repositories and the migration.
const (
	runsTable        = "evaluation_runs"
	predictionsTable = "prediction_events"
	llmEventsTable   = "llm_request_events"
	sequenceTable    = "global_sequence"
)

var (
	// EvaluationRunsColumns holds the columns for the "evaluation_runs" table.
	EvaluationRunsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeString},
		{Name: "model_name", Type: field.TypeString},
		{Name: "model_kind", Type: field.TypeString, Default: ""},
		{Name: "model_path", Type: field.TypeString, Default: ""},
		{Name: "holdout_path", Type: field.TypeString, Default: ""},
		{Name: "records", Type: field.TypeInt},
		{Name: "accuracy", Type: field.TypeFloat64},
		{Name: "precision", Type: field.TypeFloat64},
		{Name: "recall", Type: field.TypeFloat64},
		{Name: "f1", Type: field.TypeFloat64},
		{Name: "roc_auc", Type: field.TypeFloat64, Nullable: true},
		{Name: "tp", Type: field.TypeInt, Default: 0},
		{Name: "fp", Type: field.TypeInt, Default: 0},
		{Name: "tn", Type: field.TypeInt, Default: 0},
		{Name: "fn", Type: field.TypeInt, Default: 0},
	}
	// EvaluationRunsTable holds the schema information for the "evaluation_runs" table.
	EvaluationRunsTable = &schema.Table{
		Name:       runsTable,
		Columns:    EvaluationRunsColumns,
		PrimaryKey: []*schema.Column{EvaluationRunsColumns[0]},
	}

	// PredictionEventsColumns holds the columns for the "prediction_events" table.
	PredictionEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeString},
		{Name: "model_name", Type: field.TypeString},
		{Name: "contract_version", Type: field.TypeString},
		{Name: "inputs", Type: field.TypeString},
		{Name: "probability", Type: field.TypeFloat64},
		{Name: "label", Type: field.TypeInt},
	}
	// PredictionEventsTable holds the schema information for the "prediction_events" table.
	PredictionEventsTable = &schema.Table{
		Name:       predictionsTable,
		Columns:    PredictionEventsColumns,
		PrimaryKey: []*schema.Column{PredictionEventsColumns[0]},
	}

	// LLMRequestEventsColumns holds the columns for the "llm_request_events" table.
	LLMRequestEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeString},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Default: ""},
		{Name: "response_body", Type: field.TypeString, Default: ""},
	}
	// LLMRequestEventsTable holds the schema information for the "llm_request_events" table.
	LLMRequestEventsTable = &schema.Table{
		Name:       llmEventsTable,
		Columns:    LLMRequestEventsColumns,
		PrimaryKey: []*schema.Column{LLMRequestEventsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "llmrequestevent_purpose",
				Unique:  false,
				Columns: []*schema.Column{LLMRequestEventsColumns[5]},
			},
		},
	}

	// GlobalSequenceColumns holds the columns for the "global_sequence" table.
	GlobalSequenceColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt},
		{Name: "next_val", Type: field.TypeInt64, Default: 1},
	}
	// GlobalSequenceTable holds the single-row counter shared by every event table.
	GlobalSequenceTable = &schema.Table{
		Name:       sequenceTable,
		Columns:    GlobalSequenceColumns,
		PrimaryKey: []*schema.Column{GlobalSequenceColumns[0]},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		EvaluationRunsTable,
		PredictionEventsTable,
		LLMRequestEventsTable,
		GlobalSequenceTable,
	}
)

// runColumns lists evaluation_runs columns in scan order.
var runColumns = columnNames(EvaluationRunsColumns)

// predictionColumns lists prediction_events columns in scan order.
var predictionColumns = columnNames(PredictionEventsColumns)

// llmEventColumns lists llm_request_events columns in scan order.
var llmEventColumns = columnNames(LLMRequestEventsColumns)

func columnNames(cols []*schema.Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Name
	}
	return out
}

// migrate creates missing tables and indexes.
func (s *Store) migrate(ctx context.Context) error {
	m, err := schema.NewMigrate(s.drv)
	if err != nil {
		return fmt.Errorf("create migrate: %w", err)
	}
	if err := m.Create(ctx, Tables...); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}
