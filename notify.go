package main

// Notifier publishes the outcome of a completed run to an external
// channel.
type Notifier interface {
	NotifyRunResults(appConfig AppConfig, results *ResultSet) error
}
