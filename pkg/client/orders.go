package client

import (
	"context"

	"github.com/Sternrassler/baselinker-client/pkg/entities"
	"github.com/Sternrassler/baselinker-client/pkg/pagination"
)

const (
	// MethodGetOrders is the API method returning orders.
	MethodGetOrders = "getOrders"

	// OrdersPageSize is the maximum number of orders getOrders returns per call.
	OrdersPageSize = 100
)

// OrdersParams filters getOrders. All fields are optional; the zero value
// returns every order visible to the token.
type OrdersParams struct {
	// OrderID returns a single order.
	OrderID *int64 `json:"order_id,omitempty"`

	// DateConfirmedFrom returns orders confirmed at or after this unix time.
	DateConfirmedFrom *int64 `json:"date_confirmed_from,omitempty"`

	// DateFrom returns orders created at or after this unix time. GetOrders
	// overwrites it from the second page on.
	DateFrom *int64 `json:"date_from,omitempty"`

	// IDFrom returns orders with an ID greater than this one.
	IDFrom *int64 `json:"id_from,omitempty"`

	// GetUnconfirmedOrders includes unconfirmed orders.
	GetUnconfirmedOrders *bool `json:"get_unconfirmed_orders,omitempty"`

	// StatusID returns orders in this status.
	StatusID *int64 `json:"status_id,omitempty"`

	// FilterEmail returns orders of the buyer with this email.
	FilterEmail string `json:"filter_email,omitempty"`
}

// GetOrders returns all orders matching params, following pages until the
// API returns fewer than OrdersPageSize orders.
//
// After a full page the next request sets date_from to the greatest date_add
// seen so far plus one second. Orders created in the same second as that
// maximum which did not fit into the previous page are therefore not
// returned, and orders are not deduplicated by ID. Keep this cursor as is
// until the API's tie-breaking on date_from is confirmed.
//
// params is not modified. If any page fails, no orders are returned.
func (c *Client) GetOrders(ctx context.Context, params OrdersParams) ([]entities.Order, error) {
	query := params

	orders, err := pagination.Collect(ctx, pagination.Config{
		PageSize: OrdersPageSize,
		Name:     MethodGetOrders,
		Logger:   &c.logger,
	}, func(ctx context.Context, seen []entities.Order) ([]entities.Order, error) {
		if len(seen) > 0 {
			query.DateFrom = Ptr(entities.MaxDateAdd(seen) + 1)
		}
		return c.fetchOrders(ctx, query)
	})
	if err != nil {
		return nil, err
	}

	itemsFetchedTotal.WithLabelValues(MethodGetOrders).Add(float64(len(orders)))
	return orders, nil
}

// fetchOrders requests a single page of orders.
func (c *Client) fetchOrders(ctx context.Context, params OrdersParams) ([]entities.Order, error) {
	body, err := c.Request(ctx, MethodGetOrders, params)
	if err != nil {
		return nil, err
	}

	orders, err := ParseList[entities.Order]("orders", body)
	if err != nil {
		return nil, c.decodeFailure(MethodGetOrders, err)
	}
	return orders, nil
}
