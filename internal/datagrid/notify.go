package datagrid

// Notifier surfaces transient mutation outcomes to the user.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// NotifierFuncs adapts two functions to Notifier. Nil functions are ignored.
type NotifierFuncs struct {
	OnSuccess func(message string)
	OnError   func(message string)
}

func (n NotifierFuncs) Success(message string) {
	if n.OnSuccess != nil {
		n.OnSuccess(message)
	}
}

func (n NotifierFuncs) Error(message string) {
	if n.OnError != nil {
		n.OnError(message)
	}
}

type noopNotifier struct{}

func (noopNotifier) Success(string) {}
func (noopNotifier) Error(string)   {}
