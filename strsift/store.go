package strsift

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/strsift/strsift/internal/logging"
	"github.com/strsift/strsift/strsift/metrics"
	"github.com/strsift/strsift/strsift/ops"
	"github.com/strsift/strsift/strsift/planner"
	"github.com/strsift/strsift/strsift/query"
	"github.com/strsift/strsift/strsift/storage"
)

// Store is an open string store
type Store struct {
	adapter storage.Adapter
	db      *sql.DB
	schema  storage.Schema
	opts    Options
	parser  *query.Parser
	log     zerolog.Logger
	metrics *metrics.Collectors
}

// Create initializes the store tables and opens the store
func Create(ctx context.Context, adapter storage.Adapter, opts Options) (*Store, error) {
	db, err := adapter.Connect(ctx)
	if err != nil {
		return nil, Wrap(ErrIO, "connect to database", err)
	}
	if err := adapter.CreateStore(ctx, db); err != nil {
		db.Close()
		return nil, Wrap(ErrSQL, "create store", err)
	}
	return newStore(adapter, db, opts), nil
}

// Open opens an existing store
func Open(ctx context.Context, adapter storage.Adapter, opts Options) (*Store, error) {
	db, err := adapter.Connect(ctx)
	if err != nil {
		return nil, Wrap(ErrIO, "connect to database", err)
	}
	if err := adapter.OpenStore(ctx, db); err != nil {
		db.Close()
		return nil, Wrap(ErrSchema, "open store", err)
	}
	return newStore(adapter, db, opts), nil
}

// OpenOrCreate opens the store, creating its tables on first use.
func OpenOrCreate(ctx context.Context, adapter storage.Adapter, opts Options) (*Store, error) {
	s, err := Open(ctx, adapter, opts)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, storage.ErrNotInitialized) {
		return nil, err
	}
	return Create(ctx, adapter, opts)
}

func newStore(adapter storage.Adapter, db *sql.DB, opts Options) *Store {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.SearchConcurrency <= 0 {
		opts.SearchConcurrency = DefaultSearchConcurrency
	}
	logger := logging.Default(opts.Logger).With().Str("component", "store").Logger()
	s := &Store{
		adapter: adapter,
		db:      db,
		schema:  storage.StringsSchema,
		opts:    opts,
		parser:  query.NewParser(opts.Resolver, opts.Parse),
		log:     logger,
		metrics: opts.Metrics,
	}
	s.log.Info().
		Str("backend", string(adapter.Backend())).
		Str("store", adapter.StoreID()).
		Msg("store opened")
	return s
}

// Close closes the store
func (s *Store) Close() error {
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			return Wrap(ErrIO, "close database", err)
		}
	}
	return s.adapter.Close()
}

// Put analyzes value and stores it. Values are stored lowercased; a value
// already present is an ErrConflict.
func (s *Store) Put(ctx context.Context, value string) (Record, error) {
	res, err := s.PutMany(ctx, []string{value})
	if err != nil {
		return Record{}, err
	}
	if len(res.Skipped) > 0 {
		return Record{}, ConflictError(res.Skipped[0])
	}
	return res.Stored[0], nil
}

// PutMany stores values in a single transaction. Values already stored are
// reported in Skipped rather than failing the batch; any other error rolls
// the whole batch back.
func (s *Store) PutMany(ctx context.Context, values []string) (*PutResult, error) {
	out := &PutResult{Stored: []Record{}, Skipped: []string{}}
	if len(values) == 0 {
		return out, nil
	}
	preps := make([]*ops.PreparedPut, 0, len(values))
	for _, v := range values {
		if v == "" {
			return nil, New(ErrInvalidValue, "value must not be empty")
		}
		prep, err := ops.PreparePut(v)
		if err != nil {
			return nil, Wrap(ErrInvalidValue, "prepare put", err)
		}
		preps = append(preps, prep)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, Wrap(ErrSQL, "begin transaction", err)
	}
	defer tx.Rollback()

	sqlt := s.adapter.SQL()
	nowMS := s.opts.Now().UnixMilli()
	for _, prep := range preps {
		row, err := ops.ExecutePut(ctx, tx, sqlt, prep, nowMS)
		if errors.Is(err, ops.ErrDuplicate) {
			out.Skipped = append(out.Skipped, prep.Value)
			continue
		}
		if err != nil {
			return nil, Wrap(ErrSQL, "execute put", err)
		}
		rec, err := recordFromRow(row)
		if err != nil {
			return nil, err
		}
		out.Stored = append(out.Stored, rec)
	}

	if err := tx.Commit(); err != nil {
		return nil, Wrap(ErrSQL, "commit transaction", err)
	}
	if len(out.Skipped) > 0 {
		s.log.Debug().Int("stored", len(out.Stored)).Strs("skipped", out.Skipped).Msg("values already stored")
	}
	return out, nil
}

// Get retrieves a stored value
func (s *Store) Get(ctx context.Context, value string) (Record, error) {
	row, err := ops.GetByValue(ctx, s.db, s.adapter.SQL(), value)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, NotFoundError(value)
	}
	if err != nil {
		return Record{}, Wrap(ErrSQL, "get string", err)
	}
	return recordFromRow(row)
}

// Delete removes a value, reporting whether it existed
func (s *Store) Delete(ctx context.Context, value string) (bool, error) {
	ok, err := ops.DeleteByValue(ctx, s.db, s.adapter.SQL(), value)
	if err != nil {
		return false, Wrap(ErrSQL, "delete string", err)
	}
	return ok, nil
}

// Count returns the number of stored values
func (s *Store) Count(ctx context.Context) (int64, error) {
	n, err := ops.Count(ctx, s.db, s.adapter.SQL())
	if err != nil {
		return 0, Wrap(ErrSQL, "count", err)
	}
	return n, nil
}

// Optimize runs backend maintenance
func (s *Store) Optimize(ctx context.Context) error {
	if err := s.adapter.Optimize(ctx, s.db); err != nil {
		return Wrap(ErrSQL, "optimize", err)
	}
	return nil
}

// Filter returns the records matching structured attribute filters
func (s *Store) Filter(ctx context.Context, params FilterParams, opts SearchOptions) (*SearchResult, error) {
	plan, err := planner.CompileFilter(s.schema, params)
	if err != nil {
		return nil, s.compileError(err)
	}
	return s.run(ctx, plan, opts, nil)
}

// Search interprets a natural-language query and returns the matching records
func (s *Store) Search(ctx context.Context, text string, opts SearchOptions) (*SearchResult, error) {
	res, plan, err := s.plan(ctx, text)
	if err != nil {
		return nil, err
	}
	out, err := s.run(ctx, plan, opts, &InterpretedQuery{
		Original:   res.Raw,
		Normalized: res.Normalized,
		Condition:  res.Condition,
	})
	if err != nil {
		s.metrics.ObserveQuery(metrics.OutcomeError)
		return nil, err
	}
	s.metrics.ObserveQuery(metrics.OutcomeOK)
	if out.Explain != nil {
		out.Explain.Normalized = res.Normalized
		out.Explain.Condition = res.Condition
	}
	return out, nil
}

// SearchMany runs several queries concurrently. Results are in input
// order; the first failure cancels the rest.
func (s *Store) SearchMany(ctx context.Context, texts []string, opts SearchOptions) ([]*SearchResult, error) {
	results := make([]*SearchResult, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.SearchConcurrency)
	for i, text := range texts {
		g.Go(func() error {
			r, err := s.Search(gctx, text, opts)
			if err != nil {
				return fmt.Errorf("query %q: %w", text, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Explain compiles a query without running it
func (s *Store) Explain(ctx context.Context, text string) (*Explanation, error) {
	res, plan, err := s.plan(ctx, text)
	if err != nil {
		return nil, err
	}
	q, args, err := ops.BuildSelect(s.adapter, s.schema, plan, 0)
	if err != nil {
		return nil, Wrap(ErrQueryRejected, "build sql", err)
	}
	return &Explanation{
		Normalized: res.Normalized,
		Condition:  res.Condition,
		Pushdown:   plan.Pushdown.String(),
		SQL:        q,
		Args:       args,
		PostFilter: plan.PostFilter,
		Steps:      plan.ExplainSteps,
	}, nil
}

func (s *Store) plan(ctx context.Context, text string) (*query.Result, *planner.Plan, error) {
	start := time.Now()
	res, err := s.parser.Parse(ctx, text)
	s.metrics.ObserveParse(time.Since(start))

	if res.NormalizeErr != nil {
		s.log.Debug().Err(res.NormalizeErr).Str("query", text).Msg("spelled numbers left as words")
	}
	if err != nil {
		outcome := metrics.OutcomeUnparsable
		if errors.Is(err, query.ErrParseTimeout) {
			outcome = metrics.OutcomeTimeout
		}
		s.metrics.ObserveQuery(outcome)
		s.log.Debug().Err(err).Str("query", text).Str("normalized", res.Normalized).Msg("query rejected")
		return res, nil, QueryParseError(err)
	}

	plan, err := planner.Compile(s.schema, res.Condition)
	if err != nil {
		s.metrics.ObserveQuery(metrics.OutcomeError)
		return res, nil, s.compileError(err)
	}
	return res, plan, nil
}

func (s *Store) compileError(err error) error {
	var fe *planner.UnknownFieldError
	if errors.As(err, &fe) {
		s.log.Error().Err(err).Str("field", fe.Attr).Msg("condition references an attribute the store lacks")
		return UnknownFieldError(fe.Attr, err)
	}
	if errors.Is(err, planner.ErrInvalidFilter) {
		return Wrap(ErrInvalidFilter, "compile filter", err)
	}
	return Wrap(ErrQueryRejected, "compile condition", err)
}

func (s *Store) run(ctx context.Context, plan *planner.Plan, opts SearchOptions, q *InterpretedQuery) (*SearchResult, error) {
	res, err := ops.RunPlan(ctx, s.db, s.adapter, s.schema, plan, ops.SearchOptions{
		Limit:   opts.Limit,
		Explain: opts.Explain,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("search failed")
		return nil, Wrap(ErrSQL, "search", err)
	}
	if plan.NeedsPostFilter {
		s.metrics.ObservePostFilter(res.Candidates, res.Rejected)
		s.log.Debug().
			Int("candidates", res.Candidates).
			Int("rejected", res.Rejected).
			Msg("positional post-filter applied")
	}

	out := &SearchResult{
		Records: make([]Record, 0, len(res.Rows)),
		Query:   q,
	}
	for _, row := range res.Rows {
		rec, err := recordFromRow(row)
		if err != nil {
			return nil, err
		}
		out.Records = append(out.Records, rec)
	}
	out.Count = len(out.Records)
	if opts.Explain {
		out.Explain = &Explanation{
			Pushdown:   plan.Pushdown.String(),
			SQL:        res.ExplainSQL,
			Args:       res.ExplainArgs,
			PostFilter: plan.PostFilter,
			Steps:      res.ExplainSteps,
		}
	}
	return out, nil
}

func recordFromRow(r ops.Row) (Record, error) {
	freq := make(map[string]int)
	if err := json.Unmarshal([]byte(r.CharFreqJSON), &freq); err != nil {
		return Record{}, Wrap(ErrSQL, "decode character frequencies", err)
	}
	rec := Record{
		ID:        r.ID,
		Value:     r.Value,
		CreatedAt: time.UnixMilli(r.CreatedAtMS).UTC(),
	}
	rec.Properties.ID = r.ID
	rec.Properties.Length = r.Length
	rec.Properties.IsPalindrome = r.IsPalindrome
	rec.Properties.UniqueCharacters = r.UniqueCharacters
	rec.Properties.WordCount = r.WordCount
	rec.Properties.CharacterFrequencyMap = freq
	return rec, nil
}
