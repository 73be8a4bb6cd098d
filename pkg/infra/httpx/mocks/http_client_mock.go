package mocks

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/stretchr/testify/mock"
)

// MockHTTPClient is a testify mock of httpx.Client.
type MockHTTPClient struct {
	mock.Mock
}

func (m *MockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	ret := m.Called(req)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	resp, ok := ret.Get(0).(*http.Response)
	if !ok {
		return nil, fmt.Errorf("mock returned %T, want *http.Response", ret.Get(0))
	}
	return resp, ret.Error(1)
}

// Response builds a canned response for Return.
func Response(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": {"application/json"}},
		Body:       io.NopCloser(bytes.NewBufferString(body)),
	}
}
