package fixtures

import (
	"net/http"

	"github.com/gaborage/retrier/httpclient"
	"github.com/gaborage/retrier/testing/mocks"
)

// NewResponse builds a response as the client would return it after the given attempts.
func NewResponse(status int, body string, attempts int) *httpclient.Response {
	return &httpclient.Response{
		StatusCode: status,
		Body:       []byte(body),
		Headers:    http.Header{},
		Stats:      httpclient.Stats{Attempts: attempts},
	}
}

// NewMockClientFor returns a mock answering method+url with the response for each entry.
func NewMockClientFor(method string, replies map[string]*httpclient.Response) *mocks.MockClient {
	m := &mocks.MockClient{}
	for url, resp := range replies {
		var err error
		if resp != nil && httpclient.IsErrorStatus(resp.StatusCode) {
			err = httpclient.NewHTTPError(http.StatusText(resp.StatusCode), resp.StatusCode, resp.Body)
		}
		m.ExpectDo(method, url, resp, err)
	}
	return m
}
