package llm

import "context"

// MockClient is a test double for the Client interface.
type MockClient struct {
	Response *Response
	Err      error
	Calls    []string // records prompts sent
}

// Complete records the call and returns the mock response.
func (m *MockClient) Complete(ctx context.Context, prompt string) (*Response, error) {
	m.Calls = append(m.Calls, prompt)
	return m.Response, m.Err
}

// MockOracle is a test double for the Oracle interface. Similarity scores
// are keyed by topic (text B); unknown topics return DefaultScore.
type MockOracle struct {
	Scores          map[string]float64
	DefaultScore    float64
	SimilarityErr   error
	ExtractResult   *Extraction
	ExtractErr      error
	SimilarityCalls [][2]string
	ExtractCalls    []string
}

func (m *MockOracle) Similarity(ctx context.Context, a, b string) (float64, error) {
	m.SimilarityCalls = append(m.SimilarityCalls, [2]string{a, b})
	if m.SimilarityErr != nil {
		return 0, m.SimilarityErr
	}
	if s, ok := m.Scores[b]; ok {
		return s, nil
	}
	return m.DefaultScore, nil
}

func (m *MockOracle) Extract(ctx context.Context, message string) (*Extraction, error) {
	m.ExtractCalls = append(m.ExtractCalls, message)
	if m.ExtractErr != nil {
		return nil, m.ExtractErr
	}
	return m.ExtractResult, nil
}
