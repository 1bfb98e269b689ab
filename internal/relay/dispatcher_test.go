package relay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"listingrelay/internal/notifications/email"
	"listingrelay/internal/types"
)

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) Send(ctx context.Context, input types.SendInput) (string, error) {
	args := m.Called(ctx, input)
	return args.String(0), args.Error(1)
}

type mockIdentity struct {
	mock.Mock
}

func (m *mockIdentity) ResolveCustomer(ctx context.Context, userID string) (*types.CustomerData, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.CustomerData), args.Error(1)
}

type mockExtractor struct {
	mock.Mock
}

func (m *mockExtractor) Extract(ctx context.Context, url string) types.PropertyInfo {
	args := m.Called(ctx, url)
	return args.Get(0).(types.PropertyInfo)
}

type mockLogStore struct {
	mock.Mock
	inserts int
}

func (m *mockLogStore) Insert(ctx context.Context, log *types.EmailLog) error {
	args := m.Called(ctx, log)
	m.inserts++
	if log.ID == "" {
		log.ID = fmt.Sprintf("log-%d", m.inserts)
	}
	return args.Error(0)
}

func (m *mockLogStore) List(ctx context.Context, filter types.EmailLogFilter) ([]*types.EmailLog, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.EmailLog), args.Error(1)
}

func (m *mockLogStore) GetByID(ctx context.Context, id string) (*types.EmailLog, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.EmailLog), args.Error(1)
}

type dispatcherFixture struct {
	dispatcher *Dispatcher
	provider   *mockProvider
	identity   *mockIdentity
	extractor  *mockExtractor
	logs       *mockLogStore
	now        time.Time
}

func newDispatcherFixture(t *testing.T) *dispatcherFixture {
	t.Helper()

	renderer, err := email.NewRenderer()
	require.NoError(t, err)

	f := &dispatcherFixture{
		provider:  &mockProvider{},
		identity:  &mockIdentity{},
		extractor: &mockExtractor{},
		logs:      &mockLogStore{},
		now:       time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC),
	}
	f.dispatcher = NewDispatcher(DispatcherConfig{
		Provider:   f.provider,
		Identity:   f.identity,
		Extractor:  f.extractor,
		Renderer:   renderer,
		Logs:       f.logs,
		From:       types.SenderIdentity{Address: "noreply@voilaapp.ai", Name: "Voila Video"},
		AdminEmail: "contact@voilaapp.ai",
		Logger:     slog.New(slog.NewTextHandler(testWriter{t}, nil)),
	})
	f.dispatcher.now = func() time.Time { return f.now }
	return f
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

func sampleInfo() types.PropertyInfo {
	return types.PropertyInfo{
		Title:    "123 Oak Ave For Sale",
		Type:     types.PropertyLuxuryHome,
		Location: "Springfield",
		Price:    "$549,000",
		Features: []string{"4 bedrooms", "3 bathrooms"},
	}
}

func sampleOrderEvent() NewOrderEvent {
	return NewOrderEvent{
		ID:          "ord-1",
		UserID:      "user-1",
		PropertyURL: "https://listings.example.com/123-oak-ave",
		MusicType:   "Upbeat Pop",
		Voiceover:   true,
		OrderStatus: "pending",
		CreatedAt:   "2024-03-15T10:00:00Z",
	}
}

func TestHandleNewOrder_Success(t *testing.T) {
	f := newDispatcherFixture(t)
	evt := sampleOrderEvent()

	f.identity.On("ResolveCustomer", mock.Anything, "user-1").
		Return(&types.CustomerData{Email: "jane@example.com", Name: "Jane Doe"}, nil)
	f.extractor.On("Extract", mock.Anything, evt.PropertyURL).Return(sampleInfo())

	var customerInput, adminInput types.SendInput
	f.provider.On("Send", mock.Anything, mock.MatchedBy(func(in types.SendInput) bool {
		return in.To == "jane@example.com"
	})).Run(func(args mock.Arguments) {
		customerInput = args.Get(1).(types.SendInput)
	}).Return("msg-cust", nil)
	f.provider.On("Send", mock.Anything, mock.MatchedBy(func(in types.SendInput) bool {
		return in.To == "contact@voilaapp.ai"
	})).Run(func(args mock.Arguments) {
		adminInput = args.Get(1).(types.SendInput)
	}).Return("msg-admin", nil)

	var inserted *types.EmailLog
	f.logs.On("Insert", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		inserted = args.Get(1).(*types.EmailLog)
	}).Return(nil)

	result, err := f.dispatcher.HandleNewOrder(context.Background(), evt)
	require.NoError(t, err)

	assert.Equal(t, "log-1", result.EmailLogID)
	assert.Equal(t, "msg-cust", result.MessageID)
	assert.Equal(t, "123 Oak Ave For Sale", result.PropertyTitle)
	assert.True(t, result.AdminNotificationSent)

	assert.Equal(t, "Your Voila Video Order Confirmed - 123 Oak Ave For Sale", customerInput.Subject)
	assert.Equal(t, "ord-1", customerInput.ReferenceID)
	assert.Equal(t, "noreply@voilaapp.ai", customerInput.From.Address)
	assert.Equal(t, "New Video Order: 123 Oak Ave For Sale", adminInput.Subject)

	require.NotNil(t, inserted)
	assert.Equal(t, "ord-1", inserted.OrderID)
	assert.Equal(t, "jane@example.com", inserted.CustomerEmail)
	assert.Equal(t, "Jane Doe", inserted.CustomerName)
	assert.Equal(t, types.EmailTypeOrderConfirmation, inserted.EmailType)
	assert.Equal(t, types.EmailStatusSent, inserted.Status)
	assert.Equal(t, "msg-cust", inserted.ResendMessageID)
	require.NotNil(t, inserted.SentAt)
	assert.Equal(t, f.now, *inserted.SentAt)
	assert.Contains(t, inserted.EmailContent, "Jane Doe")
}

func TestHandleNewOrder_CustomerUnresolvable(t *testing.T) {
	f := newDispatcherFixture(t)

	resolveErr := types.NewAppError(types.ErrCodeCustomerUnresolvable, "Could not fetch customer data", nil)
	f.identity.On("ResolveCustomer", mock.Anything, "user-1").Return(nil, resolveErr)

	result, err := f.dispatcher.HandleNewOrder(context.Background(), sampleOrderEvent())
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, resolveErr, err)

	f.extractor.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
	f.provider.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	f.logs.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestHandleNewOrder_DispatchFailureStillLogged(t *testing.T) {
	f := newDispatcherFixture(t)
	evt := sampleOrderEvent()

	f.identity.On("ResolveCustomer", mock.Anything, "user-1").
		Return(&types.CustomerData{Email: "jane@example.com", Name: "Jane Doe"}, nil)
	f.extractor.On("Extract", mock.Anything, evt.PropertyURL).Return(sampleInfo())
	f.provider.On("Send", mock.Anything, mock.Anything).
		Return("", errors.New("provider down"))

	var inserted *types.EmailLog
	f.logs.On("Insert", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		inserted = args.Get(1).(*types.EmailLog)
	}).Return(nil)

	result, err := f.dispatcher.HandleNewOrder(context.Background(), evt)
	require.NoError(t, err)

	assert.Empty(t, result.MessageID)
	assert.False(t, result.AdminNotificationSent)

	require.NotNil(t, inserted)
	assert.Equal(t, types.EmailStatusFailed, inserted.Status)
	assert.Empty(t, inserted.ResendMessageID)
	assert.Nil(t, inserted.SentAt)
}

func TestHandleNewOrder_AdminFailureDoesNotFailRequest(t *testing.T) {
	f := newDispatcherFixture(t)
	evt := sampleOrderEvent()

	f.identity.On("ResolveCustomer", mock.Anything, "user-1").
		Return(&types.CustomerData{Email: "jane@example.com", Name: "Jane Doe"}, nil)
	f.extractor.On("Extract", mock.Anything, evt.PropertyURL).Return(sampleInfo())
	f.provider.On("Send", mock.Anything, mock.MatchedBy(func(in types.SendInput) bool {
		return in.To == "jane@example.com"
	})).Return("msg-cust", nil)
	f.provider.On("Send", mock.Anything, mock.MatchedBy(func(in types.SendInput) bool {
		return in.To == "contact@voilaapp.ai"
	})).Return("", errors.New("provider down"))
	f.logs.On("Insert", mock.Anything, mock.Anything).Return(nil)

	result, err := f.dispatcher.HandleNewOrder(context.Background(), evt)
	require.NoError(t, err)

	assert.Equal(t, "msg-cust", result.MessageID)
	assert.False(t, result.AdminNotificationSent)
}

func TestHandleNewOrder_InsertErrorPropagates(t *testing.T) {
	f := newDispatcherFixture(t)
	evt := sampleOrderEvent()

	f.identity.On("ResolveCustomer", mock.Anything, "user-1").
		Return(&types.CustomerData{Email: "jane@example.com", Name: "Jane Doe"}, nil)
	f.extractor.On("Extract", mock.Anything, evt.PropertyURL).Return(sampleInfo())
	f.provider.On("Send", mock.Anything, mock.Anything).Return("msg-1", nil)

	insertErr := types.NewAppError(types.ErrCodeInternalDB, "insert email log", errors.New("boom"))
	f.logs.On("Insert", mock.Anything, mock.Anything).Return(insertErr)

	result, err := f.dispatcher.HandleNewOrder(context.Background(), evt)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, insertErr, err)
}

func TestHandleNewOrder_DefaultMusicType(t *testing.T) {
	f := newDispatcherFixture(t)
	evt := sampleOrderEvent()
	evt.MusicType = ""
	evt.Voiceover = false

	f.identity.On("ResolveCustomer", mock.Anything, "user-1").
		Return(&types.CustomerData{Email: "jane@example.com", Name: "Jane Doe"}, nil)
	f.extractor.On("Extract", mock.Anything, evt.PropertyURL).Return(sampleInfo())

	var customerInput types.SendInput
	f.provider.On("Send", mock.Anything, mock.MatchedBy(func(in types.SendInput) bool {
		return in.To == "jane@example.com"
	})).Run(func(args mock.Arguments) {
		customerInput = args.Get(1).(types.SendInput)
	}).Return("msg-cust", nil)
	f.provider.On("Send", mock.Anything, mock.MatchedBy(func(in types.SendInput) bool {
		return in.To == "contact@voilaapp.ai"
	})).Return("msg-admin", nil)
	f.logs.On("Insert", mock.Anything, mock.Anything).Return(nil)

	_, err := f.dispatcher.HandleNewOrder(context.Background(), evt)
	require.NoError(t, err)

	assert.Contains(t, customerInput.HTML, "Our AI will select the perfect music")
}

func TestHandleNewOrder_RepeatedOrderIDWritesIndependentRecords(t *testing.T) {
	f := newDispatcherFixture(t)
	evt := sampleOrderEvent()

	f.identity.On("ResolveCustomer", mock.Anything, "user-1").
		Return(&types.CustomerData{Email: "jane@example.com", Name: "Jane Doe"}, nil)
	f.extractor.On("Extract", mock.Anything, evt.PropertyURL).Return(sampleInfo())
	f.provider.On("Send", mock.Anything, mock.Anything).Return("msg-1", nil)

	var inserted []*types.EmailLog
	f.logs.On("Insert", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		inserted = append(inserted, args.Get(1).(*types.EmailLog))
	}).Return(nil)

	first, err := f.dispatcher.HandleNewOrder(context.Background(), evt)
	require.NoError(t, err)
	second, err := f.dispatcher.HandleNewOrder(context.Background(), evt)
	require.NoError(t, err)

	// the log is append-only: a replayed webhook gets its own record
	require.Len(t, inserted, 2)
	assert.NotEqual(t, inserted[0].ID, inserted[1].ID)
	assert.NotEqual(t, first.EmailLogID, second.EmailLogID)
	assert.Equal(t, "ord-1", inserted[0].OrderID)
	assert.Equal(t, "ord-1", inserted[1].OrderID)
}

func TestHandleVideoCompleted_Success(t *testing.T) {
	f := newDispatcherFixture(t)
	evt := VideoCompletedEvent{
		ID:           "ord-2",
		UserID:       "user-1",
		VideoFileURL: "https://cdn.example.com/videos/ord-2.mp4",
		PropertyURL:  "https://listings.example.com/123-oak-ave",
		MusicType:    "Cinematic",
		Voiceover:    true,
		CompletedAt:  "2024-03-15T20:00:00Z",
		CreatedAt:    "2024-03-15T10:00:00Z",
	}

	f.identity.On("ResolveCustomer", mock.Anything, "user-1").
		Return(&types.CustomerData{Email: "jane@example.com", Name: "Jane Doe"}, nil)
	f.extractor.On("Extract", mock.Anything, evt.PropertyURL).Return(sampleInfo())

	var sent types.SendInput
	f.provider.On("Send", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		sent = args.Get(1).(types.SendInput)
	}).Return("msg-done", nil)

	var inserted *types.EmailLog
	f.logs.On("Insert", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		inserted = args.Get(1).(*types.EmailLog)
	}).Return(nil)

	result, err := f.dispatcher.HandleVideoCompleted(context.Background(), evt)
	require.NoError(t, err)

	assert.Equal(t, "log-1", result.EmailLogID)
	assert.Equal(t, "msg-done", result.MessageID)
	assert.Equal(t, "123 Oak Ave For Sale", result.PropertyTitle)

	assert.Equal(t, "🎬 Your 123 Oak Ave For Sale Video is Ready!", sent.Subject)
	assert.Equal(t, "ord-2", sent.ReferenceID)
	assert.Contains(t, sent.HTML, evt.VideoFileURL)
	assert.Contains(t, sent.HTML, "SUPER FAST")

	require.NotNil(t, inserted)
	assert.Equal(t, types.EmailTypeVideoCompletion, inserted.EmailType)
	assert.Equal(t, types.EmailStatusSent, inserted.Status)

	// exactly one email for completions, no admin copy
	f.provider.AssertNumberOfCalls(t, "Send", 1)
}

func TestHandleVideoCompleted_NoPropertyURLUsesDefault(t *testing.T) {
	f := newDispatcherFixture(t)
	evt := VideoCompletedEvent{
		ID:           "ord-3",
		UserID:       "user-1",
		VideoFileURL: "https://cdn.example.com/videos/ord-3.mp4",
	}

	f.identity.On("ResolveCustomer", mock.Anything, "user-1").
		Return(&types.CustomerData{Email: "jane@example.com", Name: "Jane Doe"}, nil)

	var sent types.SendInput
	f.provider.On("Send", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		sent = args.Get(1).(types.SendInput)
	}).Return("msg-done", nil)
	f.logs.On("Insert", mock.Anything, mock.Anything).Return(nil)

	result, err := f.dispatcher.HandleVideoCompleted(context.Background(), evt)
	require.NoError(t, err)

	assert.Equal(t, "Your Property Video", result.PropertyTitle)
	assert.Equal(t, "🎬 Your Your Property Video Video is Ready!", sent.Subject)

	f.extractor.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
}

func TestHandleVideoCompleted_CustomerUnresolvable(t *testing.T) {
	f := newDispatcherFixture(t)

	resolveErr := types.NewAppError(types.ErrCodeCustomerUnresolvable, "Could not fetch customer data", nil)
	f.identity.On("ResolveCustomer", mock.Anything, "user-1").Return(nil, resolveErr)

	result, err := f.dispatcher.HandleVideoCompleted(context.Background(), VideoCompletedEvent{
		ID: "ord-4", UserID: "user-1", VideoFileURL: "https://cdn.example.com/v.mp4",
	})
	require.Error(t, err)
	assert.Nil(t, result)

	f.logs.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}
