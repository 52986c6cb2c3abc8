package payment

import "context"

// MockGateway is a configurable in-memory Gateway for tests and local runs
// without processor credentials.
type MockGateway struct {
	Sessions  map[string]*CheckoutSession
	CreateErr error
	GetErr    error

	CreatedParams []CreateSessionParams
}

func NewMockGateway() *MockGateway {
	return &MockGateway{Sessions: make(map[string]*CheckoutSession)}
}

var _ Gateway = (*MockGateway)(nil)

func (m *MockGateway) CreateSession(_ context.Context, params CreateSessionParams) (*CheckoutSession, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	m.CreatedParams = append(m.CreatedParams, params)

	session := &CheckoutSession{
		ID:            "cs_mock_1",
		URL:           "https://checkout.example.com/cs_mock_1",
		PaymentStatus: "unpaid",
		PriceID:       params.PriceID,
	}
	m.Sessions[session.ID] = session
	return session, nil
}

func (m *MockGateway) GetSession(_ context.Context, sessionID string) (*CheckoutSession, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	session, ok := m.Sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}
