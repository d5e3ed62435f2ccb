package application_test

import (
	"github.com/stretchr/testify/mock"
)

// **** Clock ****

type mockClock struct {
	mock.Mock
}

func (m *mockClock) Now() uint64 {
	args := m.Called()

	var res uint64
	if a := args.Get(0); a != nil {
		res = a.(uint64)
	}
	return res
}
