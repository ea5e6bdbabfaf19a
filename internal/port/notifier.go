package port

type Notifier interface {
	// Notify surfaces a failure message to the user
	Notify(message string)
}
