// Package services implementa o worker que transforma mensagens da fila
// de notificações em e-mails para os alunos.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	libsmtp "github.com/tsgomes9/coordenada-concursos-sub001/internal/lib/smtp"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/lib/sl"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/models"
)

// Transport abre conexões SMTP autenticadas.
type Transport interface {
	Connect() (libsmtp.Client, error)
	GetSMTPUser() string
}

// SenderService envia os e-mails de aviso de fim de trial.
type SenderService struct {
	transport Transport
	log       *slog.Logger
}

// NewSenderService cria um SenderService.
func NewSenderService(log *slog.Logger, transport Transport) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// SendTrialExpiringNotice desserializa a mensagem da fila e envia o aviso
// de que o período de teste do aluno termina hoje.
func (s *SenderService) SendTrialExpiringNotice(body []byte) error {
	var message models.UserInfo
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	to := []string{message.Email}
	subject := "Seu período de teste na Coordenada Concursos termina hoje"
	bodyText := fmt.Sprintf(`Olá, %s!

Seu período de teste gratuito na Coordenada Concursos termina hoje.

Para continuar com acesso completo aos tópicos do seu edital, assine um dos nossos planos. Sem a assinatura, os tópicos ficam disponíveis apenas em modo de prévia.

Bons estudos!
Equipe Coordenada Concursos`, message.Username)

	return s.sendEmail(to, subject, bodyText)
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", "from", s.transport.GetSMTPUser(), sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", "recipient", addr, sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}

	_, err = wc.Write([]byte(msg))
	if err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", "to", to)
	return nil
}
