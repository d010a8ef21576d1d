package services_test

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	libsmtp "github.com/tsgomes9/coordenada-concursos-sub001/internal/lib/smtp"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/models"
	services "github.com/tsgomes9/coordenada-concursos-sub001/internal/services/sender"
)

type TransportMock struct {
	mock.Mock
}

func (m *TransportMock) Connect() (libsmtp.Client, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(libsmtp.Client), args.Error(1)
}

func (m *TransportMock) GetSMTPUser() string {
	args := m.Called()
	return args.String(0)
}

type ClientMock struct {
	mock.Mock
}

func (m *ClientMock) Mail(from string) error {
	args := m.Called(from)
	return args.Error(0)
}

func (m *ClientMock) Rcpt(to string) error {
	args := m.Called(to)
	return args.Error(0)
}

func (m *ClientMock) Data() (io.WriteCloser, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.WriteCloser), args.Error(1)
}

func (m *ClientMock) Quit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *ClientMock) Close() error {
	args := m.Called()
	return args.Error(0)
}

type writeCloserMock struct {
	written []byte
	closed  bool
}

func (w *writeCloserMock) Write(p []byte) (int, error) {
	w.written = append(w.written, p...)
	return len(p), nil
}

func (w *writeCloserMock) Close() error {
	w.closed = true
	return nil
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func marshalUserInfo(t *testing.T, info models.UserInfo) []byte {
	t.Helper()
	body, err := json.Marshal(info)
	if err != nil {
		t.Fatalf("failed to marshal user info: %v", err)
	}
	return body
}

func TestSenderService_SendTrialExpiringNotice(t *testing.T) {
	body := marshalUserInfo(t, models.UserInfo{
		Email:    "aluno@example.com",
		Username: "aluno1",
	})

	transport := new(TransportMock)
	client := new(ClientMock)
	writer := &writeCloserMock{}

	transport.On("Connect").Return(client, nil).Once()
	transport.On("GetSMTPUser").Return("avisos@coordenadaconcursos.com.br")
	client.On("Mail", "avisos@coordenadaconcursos.com.br").Return(nil).Once()
	client.On("Rcpt", "aluno@example.com").Return(nil).Once()
	client.On("Data").Return(writer, nil).Once()
	client.On("Quit").Return(nil).Once()
	client.On("Close").Return(nil).Once()

	svc := services.NewSenderService(newNoopLogger(), transport)
	err := svc.SendTrialExpiringNotice(body)

	assert.NoError(t, err)
	assert.True(t, writer.closed)
	assert.Contains(t, string(writer.written), "aluno1")
	assert.Contains(t, string(writer.written), "termina hoje")
	transport.AssertExpectations(t)
	client.AssertExpectations(t)
}

func TestSenderService_SendTrialExpiringNotice_InvalidJSON(t *testing.T) {
	transport := new(TransportMock)
	svc := services.NewSenderService(newNoopLogger(), transport)

	err := svc.SendTrialExpiringNotice([]byte("{broken"))
	assert.Error(t, err)
	transport.AssertNotCalled(t, "Connect")
}

func TestSenderService_SendTrialExpiringNotice_ConnectError(t *testing.T) {
	body := marshalUserInfo(t, models.UserInfo{Email: "aluno@example.com", Username: "aluno1"})

	transport := new(TransportMock)
	transport.On("Connect").Return(nil, errors.New("dial error")).Once()
	transport.On("GetSMTPUser").Return("avisos@coordenadaconcursos.com.br")

	svc := services.NewSenderService(newNoopLogger(), transport)
	err := svc.SendTrialExpiringNotice(body)

	assert.Error(t, err)
	transport.AssertExpectations(t)
}

func TestSenderService_SendTrialExpiringNotice_RcptError(t *testing.T) {
	body := marshalUserInfo(t, models.UserInfo{Email: "aluno@example.com", Username: "aluno1"})

	transport := new(TransportMock)
	client := new(ClientMock)

	transport.On("Connect").Return(client, nil).Once()
	transport.On("GetSMTPUser").Return("avisos@coordenadaconcursos.com.br")
	client.On("Mail", mock.Anything).Return(nil).Once()
	client.On("Rcpt", "aluno@example.com").Return(errors.New("mailbox unavailable")).Once()
	client.On("Close").Return(nil).Once()

	svc := services.NewSenderService(newNoopLogger(), transport)
	err := svc.SendTrialExpiringNotice(body)

	assert.Error(t, err)
	client.AssertExpectations(t)
}
