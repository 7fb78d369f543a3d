package ops

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/strsift/strsift/strsift/planner"
	"github.com/strsift/strsift/strsift/storage"
	"github.com/strsift/strsift/strsift/storage/sqlbuilder"
)

// SearchOptions configures a search operation
type SearchOptions struct {
	// Limit caps the returned rows; zero means no limit.
	Limit   int
	Explain bool
}

// SearchResult is the result of running a plan
type SearchResult struct {
	Rows []Row
	// Candidates is the number of rows storage returned before the
	// post-filter ran; Rejected of those failed it.
	Candidates   int
	Rejected     int
	ExplainSQL   string
	ExplainArgs  []any
	ExplainSteps []string
}

// BuildSelect renders the statement for a plan.
func BuildSelect(adapter storage.Adapter, schema storage.Schema, plan *planner.Plan, limit int) (string, []any, error) {
	builder := sqlbuilder.New(adapter.PlaceholderStyle())
	where, err := planner.BuildWhere(plan.Pushdown, builder, schema, adapter.Dialect())
	if err != nil {
		return "", nil, fmt.Errorf("build where: %w", err)
	}
	sqlt := adapter.SQL()
	q := fmt.Sprintf("%s WHERE %s %s", sqlt.SelectStrings, where, sqlt.OrderStrings)
	// A post-filter can reject rows, so storage cannot apply the limit.
	if limit > 0 && !plan.NeedsPostFilter {
		q += " LIMIT " + builder.Arg(limit)
	}
	return q, builder.Args(), nil
}

// RunPlan executes plan against db and applies the post-filter.
func RunPlan(
	ctx context.Context,
	db *sql.DB,
	adapter storage.Adapter,
	schema storage.Schema,
	plan *planner.Plan,
	opts SearchOptions,
) (*SearchResult, error) {
	q, args, err := BuildSelect(adapter, schema, plan, opts.Limit)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}
	defer rows.Close()

	var candidates []Row
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		candidates = append(candidates, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	kept := planner.PostFilter(plan, candidates, rowSubject)
	result := &SearchResult{
		Candidates: len(candidates),
		Rejected:   len(candidates) - len(kept),
	}
	if opts.Limit > 0 && len(kept) > opts.Limit {
		kept = kept[:opts.Limit]
	}
	result.Rows = kept
	if opts.Explain {
		result.ExplainSQL = q
		result.ExplainArgs = args
		result.ExplainSteps = plan.ExplainSteps
	}
	return result, nil
}

func rowSubject(r Row) planner.Subject {
	return planner.Subject{
		Value:        r.Value,
		Length:       r.Length,
		WordCount:    r.WordCount,
		IsPalindrome: r.IsPalindrome,
	}
}
