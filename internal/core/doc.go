// Package core provides the filter-and-compare engine of the firm catalog
// browser, independent of any UI or transport layer. The web server and the
// CLI both drive it.
//
// # Components
//
//   - [CatalogStore]: one session's full firm list and its filtered subset.
//   - [FilterEngine]: turns [FilterCriteria] into a catalog query and replaces
//     the filtered subset; the newest request wins.
//   - [Search]: narrows a list by case-folded substring on name and
//     description without touching the store.
//   - [SelectionSet]: up to [MaxSelection] firm IDs in insertion order.
//   - [Compare]: the comparison table with best-value highlighting.
//   - [Session] and [SessionManager]: per-user controller owning all of the
//     above.
//
// # Filter Criteria
//
// Every [FilterCriteria] field is optional. Unset fields are left out of the
// query entirely; set fields are sent even when they hold a zero value:
//
//	c := core.FilterCriteria{
//	    MinProfitSplit: core.Ptr(85),
//	    NewsTrading:    core.Ptr(false),
//	}
//	c.Query().Encode() // "min_profit_split=85&news_trading=false"
//
// # Error Handling
//
// Errors wrap one of [ErrFetchFailed], [ErrNotFound], [ErrValidationRejected]
// or [ErrStaleResponse]. [MapError] turns them into user messages with codes:
//
//   - CAT001-CAT002: catalog errors (unreachable, firm missing)
//   - SEL001: comparison already full
//   - VAL001: filter value rejected
//   - REQ001-REQ002: request cancelled or timed out
//
// Stale responses are never shown to users.
package core
