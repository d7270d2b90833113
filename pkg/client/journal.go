package client

import (
	"context"

	"github.com/Sternrassler/baselinker-client/pkg/entities"
)

// MethodGetJournalList is the API method returning order journal entries.
const MethodGetJournalList = "getJournalList"

// JournalParams filters getJournalList. At least one field must be set.
type JournalParams struct {
	// LastLogID returns entries newer than the entry with this ID.
	LastLogID *int64 `json:"last_log_id,omitempty"`

	// LogsTypes restricts the result to these event types.
	LogsTypes []entities.LogType `json:"logs_types,omitempty"`

	// OrderID returns entries of a single order.
	OrderID *int64 `json:"order_id,omitempty"`
}

func (p JournalParams) isEmpty() bool {
	return p.LastLogID == nil && len(p.LogsTypes) == 0 && p.OrderID == nil
}

// GetJournalList returns journal entries matching params in API order.
// Without any filter the call fails with *ParametersError and no request is
// sent.
func (c *Client) GetJournalList(ctx context.Context, params JournalParams) ([]entities.Log, error) {
	if params.isEmpty() {
		return nil, &ParametersError{
			Method:  MethodGetJournalList,
			Message: "one of the fields (last_log_id, logs_types, order_id) is required",
		}
	}

	body, err := c.Request(ctx, MethodGetJournalList, params)
	if err != nil {
		return nil, err
	}

	logs, err := ParseList[entities.Log]("logs", body)
	if err != nil {
		return nil, c.decodeFailure(MethodGetJournalList, err)
	}

	itemsFetchedTotal.WithLabelValues(MethodGetJournalList).Add(float64(len(logs)))
	return logs, nil
}
