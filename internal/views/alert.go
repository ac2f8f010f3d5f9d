package views

import "time"

const (
	SuccessAlertTTL = 3 * time.Second
	ErrorAlertTTL   = 5 * time.Second
)

type AlertKind int

const (
	AlertSuccess AlertKind = iota
	AlertError
)

// Alert is a message banner. A zero TTL never expires.
type Alert struct {
	Kind    AlertKind
	Message string
	ShownAt time.Time
	TTL     time.Duration
}

func (a Alert) Empty() bool {
	return a.Message == ""
}

func (a Alert) Visible(now time.Time) bool {
	if a.Empty() {
		return false
	}
	return a.TTL == 0 || now.Before(a.ShownAt.Add(a.TTL))
}

// Alerts are the page-level banners: one success and one error slot.
type Alerts struct {
	Success Alert
	Error   Alert
}

func (a *Alerts) ShowSuccess(message string, now time.Time) {
	a.Success = Alert{Kind: AlertSuccess, Message: message, ShownAt: now, TTL: SuccessAlertTTL}
}

func (a *Alerts) ShowError(message string, now time.Time) {
	a.Error = Alert{Kind: AlertError, Message: message, ShownAt: now, TTL: ErrorAlertTTL}
}

// Active returns the banners still on screen at now, error first.
func (a *Alerts) Active(now time.Time) []Alert {
	var out []Alert
	if a.Error.Visible(now) {
		out = append(out, a.Error)
	}
	if a.Success.Visible(now) {
		out = append(out, a.Success)
	}
	return out
}

func (a *Alerts) Dismiss() {
	*a = Alerts{}
}

// ModalError is the error line inside an open form. It stays until the form
// is submitted again or closed.
func ModalError(message string, now time.Time) Alert {
	return Alert{Kind: AlertError, Message: message, ShownAt: now}
}
