package mocks

import (
	"context"
	"net/http"

	"github.com/stretchr/testify/mock"

	"github.com/gaborage/retrier/httpclient"
)

// MockClient provides a testify-based mock implementation of httpclient.Client.
// The method helpers delegate to Do, so expectations are set on Do only.
//
// Example usage:
//
//	m := &mocks.MockClient{}
//	m.ExpectDo(http.MethodGet, "http://svc/items", fixtures.NewResponse(200, "[]", 1), nil)
//	resp, err := m.Get(ctx, &httpclient.Request{URL: "http://svc/items"})
type MockClient struct {
	mock.Mock
}

var _ httpclient.Client = (*MockClient)(nil)

// Get implements httpclient.Client
func (m *MockClient) Get(ctx context.Context, req *httpclient.Request) (*httpclient.Response, error) {
	return m.Do(ctx, http.MethodGet, req)
}

// Post implements httpclient.Client
func (m *MockClient) Post(ctx context.Context, req *httpclient.Request) (*httpclient.Response, error) {
	return m.Do(ctx, http.MethodPost, req)
}

// Put implements httpclient.Client
func (m *MockClient) Put(ctx context.Context, req *httpclient.Request) (*httpclient.Response, error) {
	return m.Do(ctx, http.MethodPut, req)
}

// Patch implements httpclient.Client
func (m *MockClient) Patch(ctx context.Context, req *httpclient.Request) (*httpclient.Response, error) {
	return m.Do(ctx, http.MethodPatch, req)
}

// Delete implements httpclient.Client
func (m *MockClient) Delete(ctx context.Context, req *httpclient.Request) (*httpclient.Response, error) {
	return m.Do(ctx, http.MethodDelete, req)
}

// Do implements httpclient.Client
func (m *MockClient) Do(ctx context.Context, method string, req *httpclient.Request) (*httpclient.Response, error) {
	args := m.Called(ctx, method, req)
	var resp *httpclient.Response
	if r := args.Get(0); r != nil {
		resp = r.(*httpclient.Response)
	}
	return resp, args.Error(1)
}

// ExpectDo sets up a single call for method and url.
func (m *MockClient) ExpectDo(method, url string, resp *httpclient.Response, err error) *mock.Call {
	return m.On("Do", mock.Anything, method, RequestFor(url)).Return(resp, err).Once()
}

// RequestFor matches a *httpclient.Request by URL.
func RequestFor(url string) any {
	return mock.MatchedBy(func(req *httpclient.Request) bool {
		return req != nil && req.URL == url
	})
}
