// Package usage mounts the HTTP surface of the usage gate: quota checks for
// the UI runtime, the notification feed with its upgrade prompt, and QR codes
// for review funnel links.
//
// Callers identify themselves with headers, copied into the request context
// by Middleware:
//
//	X-Tenant-ID     tenant whose plan and usage are checked
//	Authorization   Bearer token forwarded to the billing API
//	X-User-ID       notification recipient (defaults to the tenant)
//	X-User-Email    address for email delivery of error notifications
package usage
