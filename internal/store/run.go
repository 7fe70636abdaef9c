package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

// runRepo implements RunRepo over the ent SQL builder and the global
// sequence counter.
type runRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
}

func (r *runRepo) SaveRun(ctx context.Context, run EvaluationRun) (EvaluationRun, error) {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return EvaluationRun{}, fmt.Errorf("next sequence: %w", err)
	}
	run.Sequence = seqNum
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.Timestamp.IsZero() {
		run.Timestamp = time.Now()
	}
	run.Timestamp = run.Timestamp.UTC()

	var auc sql.NullFloat64
	if !math.IsNaN(run.ROCAUC) {
		auc = sql.NullFloat64{Float64: run.ROCAUC, Valid: true}
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(runsTable).
		Columns(runColumns...).
		Values(run.ID, run.Sequence, formatTime(run.Timestamp), run.ModelName, run.ModelKind,
			run.ModelPath, run.HoldoutPath, run.Records, run.Accuracy, run.Precision,
			run.Recall, run.F1, auc, run.TP, run.FP, run.TN, run.FN).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return EvaluationRun{}, fmt.Errorf("save evaluation run: %w", err)
	}
	return run, nil
}

func (r *runRepo) ListRuns(ctx context.Context, opts QueryOpts) ([]EvaluationRun, error) {
	query, args := opts.apply(selectFrom(runsTable, runColumns...)).Query()
	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query evaluation runs: %w", err)
	}
	defer rows.Close()

	var out []EvaluationRun
	for rows.Next() {
		run, err := scanRun(&rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

func (r *runRepo) GetRun(ctx context.Context, id string) (*EvaluationRun, error) {
	query, args := selectFrom(runsTable, runColumns...).
		Where(entsql.EQ("id", id)).
		Query()
	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query evaluation run: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	run, err := scanRun(&rows)
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func scanRun(rows *entsql.Rows) (EvaluationRun, error) {
	var (
		run EvaluationRun
		ts  string
		auc sql.NullFloat64
	)
	err := rows.Scan(&run.ID, &run.Sequence, &ts, &run.ModelName, &run.ModelKind,
		&run.ModelPath, &run.HoldoutPath, &run.Records, &run.Accuracy, &run.Precision,
		&run.Recall, &run.F1, &auc, &run.TP, &run.FP, &run.TN, &run.FN)
	if err != nil {
		return run, fmt.Errorf("scan evaluation run: %w", err)
	}
	if run.Timestamp, err = parseTime(ts); err != nil {
		return run, err
	}
	run.ROCAUC = math.NaN()
	if auc.Valid {
		run.ROCAUC = auc.Float64
	}
	return run, nil
}

func (r *runRepo) SavePrediction(ctx context.Context, ev PredictionEvent) (PredictionEvent, error) {
	inputs, err := json.Marshal(ev.Inputs)
	if err != nil {
		return PredictionEvent{}, fmt.Errorf("marshal inputs: %w", err)
	}

	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return PredictionEvent{}, fmt.Errorf("next sequence: %w", err)
	}
	ev.Sequence = seqNum
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	ev.Timestamp = ev.Timestamp.UTC()

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(predictionsTable).
		Columns(predictionColumns[1:]...).
		Values(ev.Sequence, formatTime(ev.Timestamp), ev.ModelName, ev.ContractVersion,
			string(inputs), ev.Probability, ev.Label).
		Query()
	var res sql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return PredictionEvent{}, fmt.Errorf("save prediction event: %w", err)
	}
	if ev.ID, err = res.LastInsertId(); err != nil {
		return PredictionEvent{}, fmt.Errorf("prediction event id: %w", err)
	}
	return ev, nil
}

func (r *runRepo) ListPredictions(ctx context.Context, opts QueryOpts) ([]PredictionEvent, error) {
	query, args := opts.apply(selectFrom(predictionsTable, predictionColumns...)).Query()
	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query prediction events: %w", err)
	}
	defer rows.Close()

	var out []PredictionEvent
	for rows.Next() {
		var (
			ev     PredictionEvent
			ts     string
			inputs string
		)
		if err := rows.Scan(&ev.ID, &ev.Sequence, &ts, &ev.ModelName,
			&ev.ContractVersion, &inputs, &ev.Probability, &ev.Label); err != nil {
			return nil, fmt.Errorf("scan prediction event: %w", err)
		}
		var err error
		if ev.Timestamp, err = parseTime(ts); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(inputs), &ev.Inputs); err != nil {
			return nil, fmt.Errorf("decode prediction inputs: %w", err)
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}
