// Package channel defines the delivery adapter contract and the registry
// the dispatcher resolves adapters from.
//
// An Adapter sends rendered content to one recipient over one medium and
// classifies its failures as transport (retryable) or permanent. Concrete
// adapters live in subpackages: email (Postmark), sms, push, telegram, and
// inapp.
//
//	registry, err := channel.NewRegistry(
//	    email.NewAdapter(emailCfg),
//	    inapp.NewAdapter(inboxStore),
//	)
//
// The registry is built once at startup and validated there, so a channel
// without an adapter is a boot failure rather than a runtime surprise.
package channel
