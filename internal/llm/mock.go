package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MockResponse is a canned response for the MockProvider.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider replays canned responses in FIFO order and records every
// request. With Offline set, an empty queue is answered by a placeholder
// object built from the request schema, so explanations can be tried
// without an API key.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []Request

	Offline bool
}

// NewMockProvider creates a MockProvider with the given canned responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

// Generate returns the next canned response. Once the queue is empty it
// returns ErrProviderUnavailable, or a placeholder reply when Offline.
func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	if len(m.responses) == 0 {
		if !m.Offline {
			return nil, &ErrProviderUnavailable{}
		}
		return placeholderResponse(req)
	}

	next := m.responses[0]
	m.responses = m.responses[1:]
	if next.Err != nil {
		return nil, next.Err
	}
	return &Response{Content: next.Content, Usage: next.Usage, Model: "mock", StopReason: "end"}, nil
}

func (m *MockProvider) ModelID() string {
	return "mock"
}

// AddResponse appends a canned response to the queue.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// CallCount returns the number of Generate calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// placeholderResponse fills every string property of the request schema with
// "(offline) " and the property description. Free-text requests get a fixed
// line. Token counts are rough length/4 estimates.
func placeholderResponse(req Request) (*Response, error) {
	var content json.RawMessage
	if req.Schema == nil {
		content = json.RawMessage(`"(offline) no explanation available"`)
	} else {
		obj := map[string]string{}
		props, _ := req.Schema.Definition["properties"].(map[string]any)
		for name, p := range props {
			def, _ := p.(map[string]any)
			if def["type"] != "string" {
				continue
			}
			desc, _ := def["description"].(string)
			obj[name] = "(offline) " + desc
		}
		raw, err := json.Marshal(obj)
		if err != nil {
			return nil, fmt.Errorf("build placeholder: %w", err)
		}
		content = raw
	}

	in := len(req.System)
	for _, msg := range req.Messages {
		in += len(msg.Content)
	}
	usage := Usage{InputTokens: in / 4, OutputTokens: len(content) / 4}
	usage.TotalTokens = usage.InputTokens + usage.OutputTokens

	return &Response{Content: content, Usage: usage, Model: "mock", StopReason: "end"}, nil
}
