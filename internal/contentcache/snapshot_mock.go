package contentcache

import (
	"github.com/stretchr/testify/mock"

	"github.com/Ponnammaah123/test-agent/internal/contract"
	"github.com/Ponnammaah123/test-agent/schema"
)

// MockSnapshotStore is a testify mock of contract.SnapshotStore.
type MockSnapshotStore struct {
	mock.Mock
}

var _ contract.SnapshotStore = &MockSnapshotStore{} // Compile-time check

// Get mocks snapshot retrieval.
func (m *MockSnapshotStore) Get(key string) ([]byte, int, int64, error) {
	args := m.Called(key)
	var value []byte
	if args.Get(0) != nil {
		value = args.Get(0).([]byte)
	}
	return value, args.Int(1), args.Get(2).(int64), args.Error(3)
}

// Set mocks snapshot storage.
func (m *MockSnapshotStore) Set(key string, value []byte, version int, timestamp int64) error {
	args := m.Called(key, value, version, timestamp)
	return args.Error(0)
}

// Delete mocks snapshot removal.
func (m *MockSnapshotStore) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

// Keys mocks key listing.
func (m *MockSnapshotStore) Keys() ([]string, error) {
	args := m.Called()
	var keys []string
	if args.Get(0) != nil {
		keys = args.Get(0).([]string)
	}
	return keys, args.Error(1)
}

// GetStatus mocks status retrieval.
func (m *MockSnapshotStore) GetStatus() (schema.SnapshotStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.SnapshotStatus), args.Error(1)
}

// Close mocks connection shutdown.
func (m *MockSnapshotStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
