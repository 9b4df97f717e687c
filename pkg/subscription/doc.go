// Package subscription reads a tenant's current plan and usage counters from
// the ReviewSystem billing API.
//
// The package does not own billing state. Subscription and UsageSnapshot are
// read-only views of what the API reports; the quota logic in pkg/usage only
// looks at Subscription.Plan and the per-feature counts.
//
// # HTTP source
//
//	src, err := subscription.NewHTTPSource(subscription.Config{
//		BaseURL: "https://api.example.com",
//		Timeout: 10 * time.Second,
//	})
//
//	// Reads on behalf of the signed-in user.
//	ctx = subscription.WithToken(ctx, subscription.TokenFromAuthorization(r.Header.Get("Authorization")))
//	sub, err := src.CurrentSubscription(ctx)
//	usage, err := src.CurrentUsage(ctx)
//
// When Config.Token is set, requests whose context carries no user token are
// authenticated with that service token through golang.org/x/oauth2.
//
// # Wire format
//
//	GET /api/subscription/current -> {"subscription": {"plan": "Pro", "amount": 29, "nextBilling": "...", "status": "active"}}
//	GET /api/usage/stats          -> {"usage": {"ai_enhancement": 3, "recentActivity": [...]}}
//
// Any non-2xx status is reported as ErrUnexpectedStatus.
package subscription
