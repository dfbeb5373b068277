// Package metrics содержит счетчики Prometheus сервиса.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Значения метки result.
const (
	ResultOK     = "ok"
	ResultFailed = "failed"
)

// Metrics набор счетчиков. Нулевой указатель допустим: методы ничего не делают.
type Metrics struct {
	mailSend       *prometheus.CounterVec
	registrations  *prometheus.CounterVec
	tokensIssued   *prometheus.CounterVec
	gateRejections *prometheus.CounterVec
}

// New создает счетчики и регистрирует их в reg (по умолчанию prometheus.DefaultRegisterer).
func New(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		mailSend: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mailgateway_mail_send_total",
			Help: "Попытки отправки писем по результату",
		}, []string{"result"}),
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mailgateway_registrations_total",
			Help: "Регистрации пользователей по результату",
		}, []string{"result"}),
		tokensIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mailgateway_tokens_issued_total",
			Help: "Выданные API-токены; reused=true для уже существующих",
		}, []string{"reused"}),
		gateRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mailgateway_gate_rejections_total",
			Help: "Отклоненные проверкой доступа запросы по причине",
		}, []string{"reason"}),
	}
	for _, c := range []prometheus.Collector{m.mailSend, m.registrations, m.tokensIssued, m.gateRejections} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// MailSend учитывает попытку отправки письма.
func (m *Metrics) MailSend(ok bool) {
	if m == nil {
		return
	}
	m.mailSend.WithLabelValues(result(ok)).Inc()
}

// Registration учитывает завершенную регистрацию.
func (m *Metrics) Registration(ok bool) {
	if m == nil {
		return
	}
	m.registrations.WithLabelValues(result(ok)).Inc()
}

// TokenIssued учитывает выдачу токена.
func (m *Metrics) TokenIssued(reused bool) {
	if m == nil {
		return
	}
	m.tokensIssued.WithLabelValues(strconv.FormatBool(reused)).Inc()
}

// GateRejection учитывает отказ в доступе.
func (m *Metrics) GateRejection(reason string) {
	if m == nil {
		return
	}
	m.gateRejections.WithLabelValues(reason).Inc()
}

func result(ok bool) string {
	if ok {
		return ResultOK
	}
	return ResultFailed
}
