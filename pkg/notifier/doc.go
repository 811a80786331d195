// Package notifier implements fire-and-forget, auto-expiring user-facing
// messages, the toast channel every other storefront component reports
// through.
//
// At most one notification is visible at a time: showing a new one evicts the
// prior. A duplicate of the currently visible message is coalesced rather than
// restarted. Notifications dismiss themselves after the configured display
// duration or when the user dismisses them explicitly.
//
// Observers (the rendering layer) subscribe to a stream of Event values and
// re-read Current after each event; delivery is best effort.
//
//	ch := notifier.New(notifier.Config{DisplayDuration: 5 * time.Second})
//	defer ch.Close()
//
//	ch.Error("Erro ao processar pagamento")
//	if item, ok := ch.Current(); ok {
//	    render(item)
//	}
package notifier
