// Package testing provides test utilities for code built on the retrier
// packages.
//
// # Mocks
//
// The mocks subpackage provides a testify-based implementation of
// httpclient.Client, for code that should be tested without a network.
//
// # Fixtures
//
// The fixtures subpackage provides a scripted HTTP server that answers each
// path with a fixed sequence of statuses, a sleeper that records retry waits
// instead of sleeping, and response builders.
//
// # Usage
//
//	srv := fixtures.NewStatusServer(t).
//		Script("/flaky", fixtures.Statuses(503, 503, 200)...)
//	sleeper := &fixtures.RecordingSleeper{}
//	client := httpclient.NewBuilder(log).WithSleeper(sleeper.Sleep).Build()
//	resp, err := client.Get(ctx, &httpclient.Request{URL: srv.Endpoint("/flaky")})
package testing
