package views

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusLoaded
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusLoaded:
		return "loaded"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// State is the load state of one piece of screen data. Transitions return a
// new value and never mutate the receiver.
type State[T any] struct {
	Status  Status
	Data    T
	Message string
}

// Loading keeps the previous data visible while a request is in flight.
func (s State[T]) Loading() State[T] {
	return State[T]{Status: StatusLoading, Data: s.Data}
}

func (s State[T]) Loaded(data T) State[T] {
	return State[T]{Status: StatusLoaded, Data: data}
}

// Failed drops the data: a failed load shows the message and nothing else.
func (s State[T]) Failed(message string) State[T] {
	return State[T]{Status: StatusError, Message: message}
}

func (s State[T]) Busy() bool {
	return s.Status == StatusLoading
}

func (s State[T]) Ready() bool {
	return s.Status == StatusLoaded
}
