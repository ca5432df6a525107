package graphql

import (
	"context"
	"time"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"

	"github.com/dd0wney/cluso-capgraph/pkg/analysis"
	"github.com/dd0wney/cluso-capgraph/pkg/logging"
	"github.com/dd0wney/cluso-capgraph/pkg/metrics"
)

// DefaultMaxDepth bounds query nesting when no limit is configured.
const DefaultMaxDepth = 6

// Executor runs GraphQL requests against one engine.
type Executor struct {
	schema   graphql.Schema
	metrics  *metrics.Registry
	logger   logging.Logger
	maxDepth int
}

// NewExecutor builds the schema for engine. maxDepth <= 0 selects
// DefaultMaxDepth.
func NewExecutor(engine *analysis.Engine, logger logging.Logger, maxDepth int) (*Executor, error) {
	schema, err := GenerateSchema(engine)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Executor{
		schema:   schema,
		metrics:  engine.Metrics(),
		logger:   logger.With(logging.Component("graphql")),
		maxDepth: maxDepth,
	}, nil
}

// Schema returns the generated schema.
func (x *Executor) Schema() graphql.Schema {
	return x.schema
}

// Execute validates the depth of query and runs it.
func (x *Executor) Execute(ctx context.Context, query string, variables map[string]any) *graphql.Result {
	start := time.Now()
	operation := operationName(query)

	var result *graphql.Result
	if err := ValidateQueryDepth(query, x.maxDepth); err != nil {
		result = &graphql.Result{
			Errors: []gqlerrors.FormattedError{gqlerrors.FormatError(err)},
		}
	} else {
		result = graphql.Do(graphql.Params{
			Schema:         x.schema,
			RequestString:  query,
			VariableValues: variables,
			Context:        ctx,
		})
	}

	duration := time.Since(start)
	status := metrics.StatusSuccess
	if result.HasErrors() {
		status = metrics.StatusError
		x.logger.Warn("query failed",
			logging.Operation(operation),
			logging.Latency(duration),
			logging.String("error", result.Errors[0].Message))
	} else {
		x.logger.Debug("query executed", logging.Operation(operation), logging.Latency(duration))
	}
	x.metrics.RecordQuery(operation, status, duration)
	return result
}

// ExecuteQuery executes a GraphQL query against a schema
func ExecuteQuery(query string, schema graphql.Schema) *graphql.Result {
	return ExecuteQueryWithVariables(query, schema, nil)
}

// ExecuteQueryWithVariables executes a GraphQL query with variables
func ExecuteQueryWithVariables(query string, schema graphql.Schema, variables map[string]any) *graphql.Result {
	params := graphql.Params{
		Schema:         schema,
		RequestString:  query,
		VariableValues: variables,
	}
	return graphql.Do(params)
}
