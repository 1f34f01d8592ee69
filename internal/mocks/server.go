package mocks

import (
	"net"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/couponhub/internal/model"
)

var _ model.SecurityLayer = (*SecurityLayer)(nil)

// SecurityLayer mocks model.SecurityLayer.
type SecurityLayer struct {
	mock.Mock
}

// NewSecurityLayer returns a SecurityLayer whose expectations are asserted on test cleanup.
func NewSecurityLayer(t interface {
	mock.TestingT
	Cleanup(func())
}) *SecurityLayer {
	m := &SecurityLayer{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *SecurityLayer) Listen(protocol, addr string) (net.Listener, error) {
	args := m.Called(protocol, addr)
	ln, _ := args.Get(0).(net.Listener)
	return ln, args.Error(1)
}
