package services

// PaymentGateway is the mobile-money charge contract. STKPush returns the
// gateway request id echoed back in the completion callback.
type PaymentGateway interface {
	STKPush(phoneNumber string, amount float64, reference, narrative string) (string, error)
}

// MailSender is the transactional mail contract, best-effort.
type MailSender interface {
	Send(to, templateID string, vars map[string]string) error
}

// Wired in main; tests swap in fakes.
var (
	Gateway PaymentGateway
	Mail    MailSender
)
