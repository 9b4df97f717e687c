// Package async runs functions in the background and collects their results
// through typed futures.
//
//	f := async.Async(ctx, params, sendEmail)
//	if _, err := f.AwaitWithTimeout(5 * time.Second); err != nil {
//		return err
//	}
//
// The notification email deliverer uses it so that sending mail never
// delays a usage check.
package async
