package vision

import "context"

// MockDetector is a canned-response detector for tests.
type MockDetector struct {
	Labels []string
	Err    error
	Calls  int
}

func (m *MockDetector) DetectLabels(ctx context.Context, imageBytes []byte, maxLabels int) ([]string, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	if len(m.Labels) > maxLabels {
		return m.Labels[:maxLabels], nil
	}
	return m.Labels, nil
}
