package usecase

import (
	"context"
	"strconv"
	"strings"

	"medical-admin-dashboard/internal/aggregation"
	"medical-admin-dashboard/internal/delivery/dto"
	"medical-admin-dashboard/internal/domain/entity"

	"go.mongodb.org/mongo-driver/bson"
)

// parseID reads a numeric subject id. Anything else matches no record.
func parseID(raw string) (int, bool) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	return id, err == nil
}

// resolvedAmount is the amount actually paid for a transaction: the first
// gateway payment when there is one, the flat service amount otherwise, and
// 0 when neither parses. ref selects whether paths are read from the
// current document or from a Map element.
func resolvedAmount(ref func(string) aggregation.FieldRef) aggregation.Expr {
	return aggregation.Cond(
		aggregation.Gt(
			aggregation.Size(aggregation.IfNull(ref("midtransResponse.payment_amounts"), aggregation.Lit(bson.A{}))),
			aggregation.Lit(0),
		),
		firstPaymentAmount(ref),
		aggregation.ToDouble(ref("serviceDetails.amount")),
	)
}

// firstPaymentAmount only looks at gateway payments.
func firstPaymentAmount(ref func(string) aggregation.FieldRef) aggregation.Expr {
	return aggregation.ToDouble(aggregation.ArrayElemAt(ref("midtransResponse.payment_amounts.amount"), aggregation.Lit(0)))
}

func verificationStatusCountPipeline() aggregation.Pipeline {
	return aggregation.Pipeline{
		aggregation.Match{Filter: aggregation.Filter{
			"verificationStatus": aggregation.In(
				string(entity.VerificationStatusVerified),
				string(entity.VerificationStatusUnverified),
			),
		}},
		aggregation.Group{
			ID:           aggregation.Field("verificationStatus"),
			Accumulators: []aggregation.Accumulator{aggregation.SumOf("count", aggregation.Lit(1))},
		},
		aggregation.Project{
			aggregation.As("verificationStatus", aggregation.Field("_id")),
			aggregation.As("count", aggregation.Field("count")),
		},
		aggregation.Sort{{Field: "verificationStatus"}},
	}
}

func countVerificationStatuses(ctx context.Context, store aggregation.Executor) ([]dto.VerificationStatusCount, error) {
	rows, err := store.Aggregate(ctx, entity.CollectionDoctorProfiles, verificationStatusCountPipeline())
	if err != nil {
		return nil, err
	}
	return aggregation.DecodeAll[dto.VerificationStatusCount](rows)
}

// sumAmount totals amount over every record of collection. An empty
// collection sums to 0.
func sumAmount(ctx context.Context, store aggregation.Executor, collection string, amount aggregation.Expr) (float64, error) {
	rows, err := store.Aggregate(ctx, collection, aggregation.Pipeline{
		aggregation.Group{Accumulators: []aggregation.Accumulator{aggregation.SumOf("total", amount)}},
	})
	if err != nil || len(rows) == 0 {
		return 0, err
	}
	var out struct {
		Total float64 `bson:"total"`
	}
	if err := aggregation.Decode(rows[0], &out); err != nil {
		return 0, err
	}
	return out.Total, nil
}

// countRows returns the number of rows pipeline produces on collection.
func countRows(ctx context.Context, store aggregation.Executor, collection string, pipeline aggregation.Pipeline) (int64, error) {
	rows, err := store.Aggregate(ctx, collection, pipeline.With(aggregation.Count("count")))
	if err != nil || len(rows) == 0 {
		return 0, err
	}
	var out struct {
		Count int64 `bson:"count"`
	}
	if err := aggregation.Decode(rows[0], &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}
