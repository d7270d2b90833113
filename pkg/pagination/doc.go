// Package pagination provides sequential cursor pagination for list methods
// of the BaseLinker API.
//
// The API has no page numbers and no total count. List methods return at most
// a fixed number of items per call, and the caller moves a filter (a date or
// an ID) past the last item it has seen. Each request therefore depends on the
// data of the previous one, and pages are fetched strictly one after another.
//
// Example usage:
//
//	orders, err := pagination.Collect(ctx, pagination.Config{PageSize: 100, Name: "getOrders"},
//		func(ctx context.Context, seen []entities.Order) ([]entities.Order, error) {
//			if len(seen) > 0 {
//				params.DateFrom = entities.MaxDateAdd(seen) + 1
//			}
//			return fetch(ctx, params)
//		})
//
// Collect:
//   - Calls the fetch function with everything collected so far
//   - Appends each page in order
//   - Stops at the first page shorter than PageSize (including an empty page)
//   - Returns no partial data when a page fails
package pagination
