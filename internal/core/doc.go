// Package core provides the business logic for inventory audit sessions.
//
// It holds the product table, the session lifecycle and reconciliation,
// independent of any file format or UI. File codecs plug in through
// [TableStore]; terminal, browser and scripted frontends drive a [Session].
//
// # Lifecycle
//
// A session moves strictly forward:
//
//	Created --Initialize--> Loaded --Reconcile--> Reconciled --Shutdown--> ShutDown
//
// Counting ([Session.SetCount], [Session.IncreaseCount],
// [Session.DecreaseCount]) is only allowed while Loaded. [Session.Shutdown]
// reconciles first when needed. Calls outside their state fail with
// [ErrSessionState].
//
// # Reconciliation
//
// For every row in table order, Variance = Counted - InStock and [AuditNote]
// is appended to Notes. Rows with a positive variance are copied into the
// variance items, rows with Counted == 0 into the missed items, and the
// matching counter is incremented once per row.
//
// # Lookups
//
// SKUs are not required to be unique. Every lookup resolves to the first
// row in table order with that SKU; [Session.DuplicateSKUs] lists the
// ambiguous ones.
//
// # Error Handling
//
// Import and export failures surface as [*ImportError] and [*ExportError];
// lookup misses as [*ProductNotFoundError]. [MapError] converts any of them
// to a [UserMessage] with a support code.
package core
