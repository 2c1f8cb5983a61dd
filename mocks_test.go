package actions_test

import (
	"context"
	"database/sql"

	actions "github.com/goliatone/go-account-actions"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/uptrace/bun"
)

// MockLogger implements actions.Logger for testing
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Info(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Error(format string, args ...any) {
	m.Called(format, args)
}

type testLogger struct{}

func (testLogger) Debug(string, ...any) {}
func (testLogger) Info(string, ...any)  {}
func (testLogger) Error(string, ...any) {}

// MockIdentity implements actions.Identity for testing
type MockIdentity struct {
	mock.Mock
}

func (m *MockIdentity) ID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Username() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Email() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Role() string {
	args := m.Called()
	return args.String(0)
}

// MockRepositoryManager implements actions.RepositoryManager
type MockRepositoryManager struct {
	mock.Mock
}

func (m *MockRepositoryManager) Validate() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockRepositoryManager) MustValidate() {
	m.Called()
}

func (m *MockRepositoryManager) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	args := m.Called(ctx, opts, f)
	return args.Error(0)
}

func (m *MockRepositoryManager) Users() actions.Users {
	args := m.Called()
	return args.Get(0).(actions.Users)
}

func (m *MockRepositoryManager) Notifications() actions.Notifications {
	args := m.Called()
	return args.Get(0).(actions.Notifications)
}

func (m *MockRepositoryManager) ConsumedTokens() actions.ConsumedTokens {
	args := m.Called()
	return args.Get(0).(actions.ConsumedTokens)
}

// MockUsers implements actions.Users
type MockUsers struct {
	mock.Mock
}

func (m *MockUsers) Create(ctx context.Context, record *actions.User) (*actions.User, error) {
	args := m.Called(ctx, record)
	user, _ := args.Get(0).(*actions.User)
	return user, args.Error(1)
}

func (m *MockUsers) CreateTx(ctx context.Context, tx bun.IDB, record *actions.User) (*actions.User, error) {
	args := m.Called(ctx, tx, record)
	user, _ := args.Get(0).(*actions.User)
	return user, args.Error(1)
}

func (m *MockUsers) GetByID(ctx context.Context, id uuid.UUID) (*actions.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*actions.User)
	return user, args.Error(1)
}

func (m *MockUsers) GetByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*actions.User, error) {
	args := m.Called(ctx, tx, id)
	user, _ := args.Get(0).(*actions.User)
	return user, args.Error(1)
}

func (m *MockUsers) GetByEmail(ctx context.Context, email string) (*actions.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*actions.User)
	return user, args.Error(1)
}

func (m *MockUsers) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*actions.User, error) {
	args := m.Called(ctx, tx, email)
	user, _ := args.Get(0).(*actions.User)
	return user, args.Error(1)
}

func (m *MockUsers) ConfirmTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

func (m *MockUsers) ResetPasswordTx(ctx context.Context, tx bun.IDB, id uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, tx, id, passwordHash)
	return args.Error(0)
}

func (m *MockUsers) UpdateEmailTx(ctx context.Context, tx bun.IDB, id uuid.UUID, email string) error {
	args := m.Called(ctx, tx, id, email)
	return args.Error(0)
}

// MockNotifications implements actions.Notifications
type MockNotifications struct {
	mock.Mock
}

func (m *MockNotifications) Create(ctx context.Context, record *actions.Notification) (*actions.Notification, error) {
	args := m.Called(ctx, record)
	rec, _ := args.Get(0).(*actions.Notification)
	return rec, args.Error(1)
}

func (m *MockNotifications) CreateTx(ctx context.Context, tx bun.IDB, record *actions.Notification) (*actions.Notification, error) {
	args := m.Called(ctx, tx, record)
	rec, _ := args.Get(0).(*actions.Notification)
	return rec, args.Error(1)
}

func (m *MockNotifications) ListByReceiver(ctx context.Context, receiverID uuid.UUID, limit, offset int) ([]*actions.Notification, error) {
	args := m.Called(ctx, receiverID, limit, offset)
	recs, _ := args.Get(0).([]*actions.Notification)
	return recs, args.Error(1)
}

func (m *MockNotifications) CountUnread(ctx context.Context, receiverID uuid.UUID) (int, error) {
	args := m.Called(ctx, receiverID)
	return args.Int(0), args.Error(1)
}

func (m *MockNotifications) MarkReadTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

// MockConsumedTokens implements actions.ConsumedTokens
type MockConsumedTokens struct {
	mock.Mock
}

func (m *MockConsumedTokens) ConsumeTx(ctx context.Context, tx bun.IDB, record *actions.ConsumedToken) (bool, error) {
	args := m.Called(ctx, tx, record)
	return args.Bool(0), args.Error(1)
}

// MockActivitySink implements actions.ActivitySink
type MockActivitySink struct {
	mock.Mock
}

func (m *MockActivitySink) Record(ctx context.Context, event actions.ActivityEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockSender implements actions.Sender
type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, msg *actions.MailMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// fakeRepoManager runs transaction closures against a zero tx and propagates
// their result, so both success and failure paths behave like the real thing.
type fakeRepoManager struct {
	users    actions.Users
	notes    actions.Notifications
	consumed actions.ConsumedTokens
}

func (f *fakeRepoManager) Validate() error { return nil }
func (f *fakeRepoManager) MustValidate()   {}

func (f *fakeRepoManager) RunInTx(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context, tx bun.Tx) error) error {
	var tx bun.Tx
	return fn(ctx, tx)
}

func (f *fakeRepoManager) Users() actions.Users { return f.users }

func (f *fakeRepoManager) Notifications() actions.Notifications { return f.notes }

func (f *fakeRepoManager) ConsumedTokens() actions.ConsumedTokens { return f.consumed }
